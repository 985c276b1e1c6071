package repository

import (
	"context"
	"errors"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreeholeRepository interface {
	CreatePost(ctx context.Context, post *model.TreeholePost) error
	DeletePost(ctx context.Context, postID uuid.UUID) error
	FindPostByID(ctx context.Context, postID uuid.UUID) (*model.TreeholePost, error)
	ListPosts(ctx context.Context, postType *model.TreeholePostType, offset, limit int) ([]model.TreeholePost, int64, error)
	CreateComment(ctx context.Context, comment *model.TreeholeComment) error
	DeleteCommentWithReplies(ctx context.Context, comment *model.TreeholeComment) error
	FindCommentByID(ctx context.Context, commentID uuid.UUID) (*model.TreeholeComment, error)
	ListThread(ctx context.Context, postID uuid.UUID) ([]model.TreeholeComment, error)
}

type treeholeRepository struct {
	db *gorm.DB
}

func NewTreeholeRepository(db *gorm.DB) TreeholeRepository {
	return &treeholeRepository{db: db}
}

func (r *treeholeRepository) CreatePost(ctx context.Context, post *model.TreeholePost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *treeholeRepository) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uuid.UUID
		if err := tx.Model(&model.TreeholeComment{}).
			Where("post_id = ?", postID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.
				Where("target_type = ? AND target_id IN ?", model.TargetTreeholeComment, commentIDs).
				Delete(&model.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", postID).Delete(&model.TreeholeComment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.
			Where("target_type = ? AND target_id = ?", model.TargetTreeholePost, postID).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", postID).Delete(&model.TreeholePost{}).Error
	})
}

func (r *treeholeRepository) FindPostByID(ctx context.Context, postID uuid.UUID) (*model.TreeholePost, error) {
	var post model.TreeholePost
	err := r.db.WithContext(ctx).First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *treeholeRepository) ListPosts(ctx context.Context, postType *model.TreeholePostType, offset, limit int) ([]model.TreeholePost, int64, error) {
	var posts []model.TreeholePost
	var total int64

	q := r.db.WithContext(ctx).
		Model(&model.TreeholePost{}).
		Where("is_hidden = ?", false)
	if postType != nil {
		q = q.Where("post_type = ?", *postType)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

func (r *treeholeRepository) CreateComment(ctx context.Context, comment *model.TreeholeComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return recountTreeholeComments(tx, comment.PostID)
	})
}

func (r *treeholeRepository) DeleteCommentWithReplies(ctx context.Context, comment *model.TreeholeComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs []uuid.UUID
		if err := tx.Model(&model.TreeholeComment{}).
			Where("parent_id = ?", comment.ID).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}

		ids := append(replyIDs, comment.ID)
		if err := tx.
			Where("target_type = ? AND target_id IN ?", model.TargetTreeholeComment, ids).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&model.TreeholeComment{}).Error; err != nil {
			return err
		}
		return recountTreeholeComments(tx, comment.PostID)
	})
}

func (r *treeholeRepository) FindCommentByID(ctx context.Context, commentID uuid.UUID) (*model.TreeholeComment, error) {
	var comment model.TreeholeComment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *treeholeRepository) ListThread(ctx context.Context, postID uuid.UUID) ([]model.TreeholeComment, error) {
	var comments []model.TreeholeComment
	err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_hidden = ?", false).Order("created_at ASC")
		}).
		Where("post_id = ? AND parent_id IS NULL AND is_hidden = ?", postID, false).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func recountTreeholeComments(tx *gorm.DB, postID uuid.UUID) error {
	var count int64
	if err := tx.Model(&model.TreeholeComment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&model.TreeholePost{}).
		Where("id = ?", postID).
		Update("comments_count", count).Error
}
