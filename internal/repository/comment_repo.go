package repository

import (
	"context"
	"errors"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	// Create persists the comment and recomputes the post's comment_count
	// (both levels) in the same transaction.
	Create(ctx context.Context, comment *model.Comment) error
	// DeleteWithReplies removes the comment and its direct replies, their
	// likes, and recomputes the post's comment_count, all in one transaction.
	DeleteWithReplies(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, commentID uuid.UUID) (*model.Comment, error)
	ListThread(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	SetHidden(ctx context.Context, commentID uuid.UUID, hidden bool) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return recountComments(tx, comment.PostID)
	})
}

func (r *commentRepository) DeleteWithReplies(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs []uuid.UUID
		if err := tx.Model(&model.Comment{}).
			Where("parent_id = ?", comment.ID).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}

		ids := append(replyIDs, comment.ID)
		if err := tx.
			Where("target_type = ? AND target_id IN ?", model.TargetComment, ids).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return recountComments(tx, comment.PostID)
	})
}

func (r *commentRepository) FindByID(ctx context.Context, commentID uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListThread returns visible top-level comments with their visible replies,
// both ordered by creation time ascending. Hidden comments stay in storage.
func (r *commentRepository) ListThread(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_hidden = ?", false).Order("created_at ASC")
		}).
		Preload("Replies.Author").
		Preload("Author").
		Where("post_id = ? AND parent_id IS NULL AND is_hidden = ?", postID, false).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) SetHidden(ctx context.Context, commentID uuid.UUID, hidden bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", commentID).
		Update("is_hidden", hidden).Error
}

// comment_count includes replies: every comment row carries post_id
// regardless of level, so one count covers both.
func recountComments(tx *gorm.DB, postID uuid.UUID) error {
	var count int64
	if err := tx.Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&model.Post{}).
		Where("id = ?", postID).
		Update("comments_count", count).Error
}
