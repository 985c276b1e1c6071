package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreeholePostType string

const (
	TreeholeConfession TreeholePostType = "CONFESSION"
	TreeholeComplaint  TreeholePostType = "COMPLAINT"
	TreeholeMood       TreeholePostType = "MOOD"
	TreeholeOther      TreeholePostType = "OTHER"
)

func (t TreeholePostType) Valid() bool {
	switch t {
	case TreeholeConfession, TreeholeComplaint, TreeholeMood, TreeholeOther:
		return true
	}
	return false
}

// TreeholePost is an anonymous confession. AnonymousName is the resolved
// pseudonym at creation time; the real author is never serialized.
type TreeholePost struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"-"`
	Author        User             `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	AnonymousName string           `gorm:"size:50;not null" json:"anonymous_name"`
	Content       string           `gorm:"type:text;not null" json:"content"`
	PostType      TreeholePostType `gorm:"size:20;default:OTHER;index" json:"post_type"`
	LikesCount    int64            `gorm:"default:0" json:"likes_count"`
	CommentsCount int64            `gorm:"default:0" json:"comments_count"`
	IsHidden      bool             `gorm:"default:false" json:"is_hidden"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *TreeholePost) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

type TreeholeComment struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PostID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_treehole_comments_post" json:"post_id"`
	AuthorID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"-"`
	Author        User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	AnonymousName string            `gorm:"size:50;not null" json:"anonymous_name"`
	Content       string            `gorm:"type:text;not null" json:"content"`
	ParentID      *uuid.UUID        `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Replies       []TreeholeComment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	LikesCount    int64             `gorm:"default:0" json:"likes_count"`
	IsHidden      bool              `gorm:"default:false" json:"is_hidden"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (c *TreeholeComment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
