package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagCategory string

const (
	TagCategoryTeacher TagCategory = "TEACHER"
	TagCategoryCanteen TagCategory = "CANTEEN"
)

// CategoryFor maps a rateable target kind to the tag category allowed on it.
func CategoryFor(t TargetType) (TagCategory, bool) {
	switch t {
	case TargetTeacher:
		return TagCategoryTeacher, true
	case TargetCanteen:
		return TagCategoryCanteen, true
	}
	return "", false
}

type Tag struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"size:20;not null;uniqueIndex:idx_tags_name_category,priority:1" json:"name"`
	Category  TagCategory `gorm:"size:10;not null;uniqueIndex:idx_tags_name_category,priority:2" json:"category"`
	Color     string      `gorm:"size:20;default:blue" json:"color"`
	Order     int         `gorm:"default:0" json:"order"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

type Teacher struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:50;not null;index" json:"name"`
	Department string    `gorm:"size:100;not null;index" json:"department"`
	Title      string    `gorm:"size:50" json:"title"`
	Courses    string    `gorm:"type:text" json:"courses"`
	Bio        string    `gorm:"type:text" json:"bio"`
	Email      string    `gorm:"size:100" json:"email"`
	Office     string    `gorm:"size:100" json:"office"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Teacher) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

type Canteen struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;index" json:"name"`
	Building     string    `gorm:"size:50;not null;index" json:"building"`
	Location     string    `gorm:"size:100" json:"location"`
	Description  string    `gorm:"type:text" json:"description"`
	Specialties  string    `gorm:"type:text" json:"specialties"`
	PriceRange   string    `gorm:"size:50" json:"price_range"`
	OpeningHours string    `gorm:"size:100" json:"opening_hours"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Canteen) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// Rating is one scored review per (user, target). HelpfulCount caches the
// live HelpfulMark count and only moves inside RatingRepository transactions.
type Rating struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_unique,priority:1" json:"user_id"`
	User         User       `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	TargetType   TargetType `gorm:"size:30;not null;uniqueIndex:idx_ratings_unique,priority:2;index:idx_ratings_target,priority:1" json:"target_type"`
	TargetID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_unique,priority:3;index:idx_ratings_target,priority:2" json:"target_id"`
	Score        int        `gorm:"not null" json:"score"`
	Comment      string     `gorm:"type:text" json:"comment"`
	Tags         []Tag      `gorm:"many2many:rating_tags;constraint:OnDelete:CASCADE" json:"tags"`
	IsAnonymous  bool       `gorm:"default:false" json:"is_anonymous"`
	HelpfulCount int64      `gorm:"default:0" json:"helpful_count"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

type HelpfulMark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_helpful_unique,priority:1" json:"user_id"`
	RatingID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_helpful_unique,priority:2;index" json:"rating_id"`
	Rating    Rating    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (h *HelpfulMark) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID, err = uuid.NewV7()
	}
	return
}
