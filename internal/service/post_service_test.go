package service_test

import (
	"context"
	"testing"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/service"
	"campuslink.cn/community/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostLifecycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	stranger := env.createUser(t, "stranger", false)

	post, err := env.postService.Create(ctx, author.ID, service.PostInput{
		Title:   "期末复习资料",
		Content: "整理了一份数据结构的笔记",
	})
	require.NoError(t, err)

	got, err := env.postService.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "期末复习资料", got.Title)

	// Each read bumps the view counter.
	_, err = env.postService.Get(ctx, post.ID)
	require.NoError(t, err)
	var stored model.Post
	require.NoError(t, env.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, 2, stored.ViewCount)

	_, err = env.postService.Update(ctx, stranger, post.ID, service.PostInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, apperror.ErrNotOwner)

	updated, err := env.postService.Update(ctx, author, post.ID, service.PostInput{
		Title:   "期末复习资料（更新）",
		Content: "补充了算法部分",
	})
	require.NoError(t, err)
	assert.Equal(t, "期末复习资料（更新）", updated.Title)

	err = env.postService.Delete(ctx, stranger, post.ID)
	assert.ErrorIs(t, err, apperror.ErrNotOwner)
	require.NoError(t, env.postService.Delete(ctx, author, post.ID))

	_, err = env.postService.Get(ctx, post.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPostContentSanitized(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)

	// UGC policy keeps harmless markup and drops scripts.
	post, err := env.postService.Create(ctx, author.ID, service.PostInput{
		Title:   "标题",
		Content: `<b>加粗</b><script>alert(1)</script>正文`,
	})
	require.NoError(t, err)
	assert.Equal(t, "<b>加粗</b>正文", post.Content)
}

func TestPostListByCategory(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", false)
	category := &model.Category{Name: "学习交流"}
	require.NoError(t, env.db.Create(category).Error)

	_, err := env.postService.Create(ctx, author.ID, service.PostInput{
		Title: "in category", Content: "a", CategoryID: &category.ID,
	})
	require.NoError(t, err)
	_, err = env.postService.Create(ctx, author.ID, service.PostInput{
		Title: "uncategorized", Content: "b",
	})
	require.NoError(t, err)

	all, total, err := env.postService.List(ctx, nil, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	inCat, total, err := env.postService.List(ctx, &category.ID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, inCat, 1)
	assert.Equal(t, "in category", inCat[0].Title)
}
