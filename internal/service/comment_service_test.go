package service_test

import (
	"context"
	"testing"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentTwoLevelThread(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	replier := env.createUser(t, "replier", false)
	post := env.createPost(t, author, "discussion")

	top, err := env.commentService.Add(ctx, author.ID, post.ID, "top level", nil)
	require.NoError(t, err)
	require.Nil(t, top.ParentID)

	reply, err := env.commentService.Add(ctx, replier.ID, post.ID, "a reply", &top.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)

	// A reply to a reply would open a third level.
	_, err = env.commentService.Add(ctx, author.ID, post.ID, "too deep", &reply.ID)
	assert.ErrorIs(t, err, apperror.ErrNestingTooDeep)

	thread, err := env.commentService.GetThread(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "a reply", thread[0].Replies[0].Content)
}

func TestCommentParentMustSharePost(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	first := env.createPost(t, author, "first")
	second := env.createPost(t, author, "second")

	top, err := env.commentService.Add(ctx, author.ID, first.ID, "on first", nil)
	require.NoError(t, err)

	_, err = env.commentService.Add(ctx, author.ID, second.ID, "wrong thread", &top.ID)
	assert.ErrorIs(t, err, apperror.ErrParentMismatch)
}

func TestCommentMissingPostOrParent(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	post := env.createPost(t, author, "exists")

	_, err := env.commentService.Add(ctx, author.ID, uuid.New(), "no post", nil)
	assert.ErrorIs(t, err, apperror.ErrTargetNotFound)

	missingParent := uuid.New()
	_, err = env.commentService.Add(ctx, author.ID, post.ID, "no parent", &missingParent)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCommentCounterTracksThread(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	post := env.createPost(t, author, "counted")

	top, err := env.commentService.Add(ctx, author.ID, post.ID, "top", nil)
	require.NoError(t, err)
	_, err = env.commentService.Add(ctx, author.ID, post.ID, "reply", &top.ID)
	require.NoError(t, err)
	_, err = env.commentService.Add(ctx, author.ID, post.ID, "another top", nil)
	require.NoError(t, err)

	var stored model.Post
	require.NoError(t, env.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, int64(3), stored.CommentsCount)

	// Deleting the top comment takes its reply with it.
	require.NoError(t, env.commentService.Delete(ctx, author, top.ID))

	require.NoError(t, env.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, int64(1), stored.CommentsCount)

	thread, err := env.commentService.GetThread(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "another top", thread[0].Content)
}

func TestCommentDeleteCleansLikes(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	liker := env.createUser(t, "liker", false)
	post := env.createPost(t, author, "liked thread")

	top, err := env.commentService.Add(ctx, author.ID, post.ID, "top", nil)
	require.NoError(t, err)
	reply, err := env.commentService.Add(ctx, liker.ID, post.ID, "reply", &top.ID)
	require.NoError(t, err)

	_, err = env.likeService.Toggle(ctx, liker.ID, model.TargetComment, reply.ID)
	require.NoError(t, err)

	require.NoError(t, env.commentService.Delete(ctx, author, top.ID))

	var likes int64
	require.NoError(t, env.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", model.TargetComment, reply.ID).
		Count(&likes).Error)
	assert.Zero(t, likes)
}

func TestCommentDeletePermissions(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	stranger := env.createUser(t, "stranger", false)
	staff := env.createUser(t, "staff", true)
	post := env.createPost(t, author, "moderated")

	first, err := env.commentService.Add(ctx, author.ID, post.ID, "first", nil)
	require.NoError(t, err)
	second, err := env.commentService.Add(ctx, author.ID, post.ID, "second", nil)
	require.NoError(t, err)

	err = env.commentService.Delete(ctx, stranger, first.ID)
	assert.ErrorIs(t, err, apperror.ErrNotOwner)

	require.NoError(t, env.commentService.Delete(ctx, author, first.ID))
	require.NoError(t, env.commentService.Delete(ctx, staff, second.ID))
}

func TestCommentHideModeration(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	staff := env.createUser(t, "staff", true)
	post := env.createPost(t, author, "hidden comments")

	visible, err := env.commentService.Add(ctx, author.ID, post.ID, "visible", nil)
	require.NoError(t, err)
	hidden, err := env.commentService.Add(ctx, author.ID, post.ID, "hidden", nil)
	require.NoError(t, err)

	err = env.commentService.Hide(ctx, author, hidden.ID, true)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, env.commentService.Hide(ctx, staff, hidden.ID, true))

	thread, err := env.commentService.GetThread(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, visible.ID, thread[0].ID)

	require.NoError(t, env.commentService.Hide(ctx, staff, hidden.ID, false))
	thread, err = env.commentService.GetThread(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, thread, 2)
}
