package repository

import (
	"context"
	"fmt"

	"campuslink.cn/community/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetRegistry resolves (kind, id) references and owns the write path for
// each kind's denormalized likes counter. No other component writes those
// columns directly.
type TargetRegistry interface {
	Exists(ctx context.Context, kind model.TargetType, id uuid.UUID) (bool, error)
	SetLikesCount(tx *gorm.DB, kind model.TargetType, id uuid.UUID, count int64) error
}

type targetRegistry struct {
	db *gorm.DB
}

func NewTargetRegistry(db *gorm.DB) TargetRegistry {
	return &targetRegistry{db: db}
}

func (r *targetRegistry) Exists(ctx context.Context, kind model.TargetType, id uuid.UUID) (bool, error) {
	entity, err := modelFor(kind)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(entity).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetLikesCount writes the recomputed counter inside the caller's
// transaction, so the recount and the toggle commit or roll back together.
func (r *targetRegistry) SetLikesCount(tx *gorm.DB, kind model.TargetType, id uuid.UUID, count int64) error {
	entity, err := modelFor(kind)
	if err != nil {
		return err
	}
	if !kind.Likeable() {
		return fmt.Errorf("target type %q has no likes counter", kind)
	}
	return tx.Model(entity).
		Where("id = ?", id).
		Update("likes_count", count).Error
}

func modelFor(kind model.TargetType) (any, error) {
	switch kind {
	case model.TargetPost:
		return &model.Post{}, nil
	case model.TargetComment:
		return &model.Comment{}, nil
	case model.TargetTeacher:
		return &model.Teacher{}, nil
	case model.TargetCanteen:
		return &model.Canteen{}, nil
	case model.TargetTreeholePost:
		return &model.TreeholePost{}, nil
	case model.TargetTreeholeComment:
		return &model.TreeholeComment{}, nil
	}
	return nil, fmt.Errorf("unknown target type %q", kind)
}
