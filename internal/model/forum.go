package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Order       int       `gorm:"default:0" json:"order"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

type Post struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Author        User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CategoryID    *uuid.UUID `gorm:"type:uuid" json:"category_id,omitempty"`
	Category      *Category  `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	IsPinned      bool       `gorm:"default:false" json:"is_pinned"`
	IsLocked      bool       `gorm:"default:false" json:"is_locked"`
	ViewCount     int        `gorm:"default:0" json:"view_count"`
	LikesCount    int64      `gorm:"default:0" json:"likes_count"`
	CommentsCount int64      `gorm:"default:0" json:"comments_count"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// Comment is a two-level thread node: top-level when ParentID is nil,
// a reply otherwise. Replies never carry replies of their own.
type Comment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_comments_post" json:"post_id"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Author     User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Replies    []Comment  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	LikesCount int64      `gorm:"default:0" json:"likes_count"`
	IsHidden   bool       `gorm:"default:false" json:"is_hidden"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// Like is the toggle-style reaction record. The composite unique index is
// the concurrency primitive: a racing duplicate insert conflicts here and
// is reinterpreted as the opposite toggle, never surfaced as an error.
type Like struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_likes_unique,priority:1" json:"user_id"`
	TargetType TargetType `gorm:"size:30;not null;uniqueIndex:idx_likes_unique,priority:2;index:idx_likes_target,priority:1" json:"target_type"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_likes_unique,priority:3;index:idx_likes_target,priority:2" json:"target_id"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewV7()
	}
	return
}
