package dto

import (
	"time"

	"github.com/google/uuid"
)

type PostCreateRequest struct {
	Title      string     `json:"title" binding:"required,max=200"`
	Content    string     `json:"content" binding:"required"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

type TreeholePostCreateRequest struct {
	Content  string `json:"content" binding:"required,max=5000"`
	PostType string `json:"post_type" binding:"omitempty,oneof=CONFESSION COMPLAINT MOOD OTHER"`
}

type TreeholeCommentCreateRequest struct {
	PostID   uuid.UUID  `json:"post_id" binding:"required"`
	Content  string     `json:"content" binding:"required,max=2000"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

type PaginatedResponse struct {
	Items  any   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// CommentResponse hides the author on anonymous surfaces and carries the
// nested replies for the two-level thread view.
type CommentResponse struct {
	ID         uuid.UUID         `json:"id"`
	PostID     uuid.UUID         `json:"post_id"`
	Author     string            `json:"author"`
	Content    string            `json:"content"`
	ParentID   *uuid.UUID        `json:"parent_id,omitempty"`
	LikesCount int64             `json:"likes_count"`
	Replies    []CommentResponse `json:"replies,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
