package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousIdentity binds a rotating display pseudonym to a (user, scope)
// pair. The scope is a treehole post: the same author keeps one name across
// a post and its whole comment thread until the window lapses.
type AnonymousIdentity struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_anon_scope,priority:1" json:"-"`
	ScopeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_anon_scope,priority:2" json:"scope_id"`
	DisplayName string    `gorm:"size:50;not null" json:"display_name"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *AnonymousIdentity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
