package repository

import (
	"context"

	"campuslink.cn/community/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	// Toggle creates the like if absent, removes it otherwise, and recomputes
	// the target's counter from the live rows in the same transaction.
	Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetType, targetID uuid.UUID) (liked bool, count int64, err error)
	IsLiked(ctx context.Context, userID uuid.UUID, kind model.TargetType, targetID uuid.UUID) (bool, error)
	CountForTarget(ctx context.Context, kind model.TargetType, targetID uuid.UUID) (int64, error)
}

type likeRepository struct {
	db       *gorm.DB
	registry TargetRegistry
}

func NewLikeRepository(db *gorm.DB, registry TargetRegistry) LikeRepository {
	return &likeRepository{db: db, registry: registry}
}

func (r *likeRepository) Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetType, targetID uuid.UUID) (bool, int64, error) {
	var liked bool
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := model.Like{
			UserID:     userID,
			TargetType: kind,
			TargetID:   targetID,
		}

		// ON CONFLICT DO NOTHING keeps a concurrent duplicate insert from
		// aborting the transaction; zero rows affected means the reaction
		// already exists and this call is the off-toggle.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			if err := tx.
				Where("user_id = ? AND target_type = ? AND target_id = ?", userID, kind, targetID).
				Delete(&model.Like{}).Error; err != nil {
				return err
			}
			liked = false
		} else {
			liked = true
		}

		if err := tx.Model(&model.Like{}).
			Where("target_type = ? AND target_id = ?", kind, targetID).
			Count(&count).Error; err != nil {
			return err
		}

		return r.registry.SetLikesCount(tx, kind, targetID, count)
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID uuid.UUID, kind model.TargetType, targetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, kind, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CountForTarget(ctx context.Context, kind model.TargetType, targetID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", kind, targetID).
		Count(&count).Error
	return count, err
}
