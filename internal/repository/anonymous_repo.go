package repository

import (
	"context"
	"errors"

	"campuslink.cn/community/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnonymousIdentityRepository interface {
	FindByUserAndScope(ctx context.Context, userID, scopeID uuid.UUID) (*model.AnonymousIdentity, error)
	// Upsert replaces any prior assignment for the (user, scope) pair.
	Upsert(ctx context.Context, identity *model.AnonymousIdentity) error
}

type anonymousIdentityRepository struct {
	db *gorm.DB
}

func NewAnonymousIdentityRepository(db *gorm.DB) AnonymousIdentityRepository {
	return &anonymousIdentityRepository{db: db}
}

func (r *anonymousIdentityRepository) FindByUserAndScope(ctx context.Context, userID, scopeID uuid.UUID) (*model.AnonymousIdentity, error) {
	var identity model.AnonymousIdentity
	err := r.db.WithContext(ctx).
		First(&identity, "user_id = ? AND scope_id = ?", userID, scopeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *anonymousIdentityRepository) Upsert(ctx context.Context, identity *model.AnonymousIdentity) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "scope_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "expires_at", "updated_at"}),
		}).
		Create(identity).Error
}
