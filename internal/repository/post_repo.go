package repository

import (
	"context"
	"errors"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, postID uuid.UUID) error
	FindByID(ctx context.Context, postID uuid.UUID) (*model.Post, error)
	List(ctx context.Context, categoryID *uuid.UUID, offset, limit int) ([]model.Post, int64, error)
	IncrementViews(ctx context.Context, postID uuid.UUID) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "category_id", "is_pinned", "is_locked").
		Updates(post).Error
}

func (r *postRepository) Delete(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uuid.UUID
		if err := tx.Model(&model.Comment{}).
			Where("post_id = ?", postID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.
				Where("target_type = ? AND target_id IN ?", model.TargetComment, commentIDs).
				Delete(&model.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.
			Where("target_type = ? AND target_id = ?", model.TargetPost, postID).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", postID).Delete(&model.Post{}).Error
	})
}

func (r *postRepository) FindByID(ctx context.Context, postID uuid.UUID) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, categoryID *uuid.UUID, offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Post{})
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Author").Preload("Category").
		Order("is_pinned DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) IncrementViews(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", postID).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}
