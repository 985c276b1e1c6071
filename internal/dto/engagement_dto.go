package dto

import (
	"github.com/google/uuid"
)

type ToggleLikeRequest struct {
	TargetType string    `json:"target_type" binding:"required,oneof=post comment treehole_post treehole_comment"`
	TargetID   uuid.UUID `json:"target_id" binding:"required"`
}

type RatingCreateRequest struct {
	TargetType  string      `json:"target_type" binding:"required,oneof=teacher canteen"`
	TargetID    uuid.UUID   `json:"target_id" binding:"required"`
	Score       int         `json:"score" binding:"required"`
	Comment     string      `json:"comment" binding:"max=2000"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
	IsAnonymous bool        `json:"is_anonymous"`
}

type RatingUpdateRequest struct {
	Score       *int         `json:"score,omitempty"`
	Comment     *string      `json:"comment,omitempty" binding:"omitempty,max=2000"`
	TagIDs      *[]uuid.UUID `json:"tag_ids,omitempty"`
	IsAnonymous *bool        `json:"is_anonymous,omitempty"`
}

type CommentCreateRequest struct {
	PostID   uuid.UUID  `json:"post_id" binding:"required"`
	Content  string     `json:"content" binding:"required,max=2000"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}
