package service

import (
	"context"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/repository"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
)

// CommentService maintains the two-level thread tree under forum posts.
type CommentService interface {
	Add(ctx context.Context, authorID, postID uuid.UUID, content string, parentID *uuid.UUID) (*model.Comment, error)
	Delete(ctx context.Context, caller *model.User, commentID uuid.UUID) error
	GetThread(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	Hide(ctx context.Context, caller *model.User, commentID uuid.UUID, hidden bool) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	sanitizer   *bluemonday.Policy
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *commentService) Add(ctx context.Context, authorID, postID uuid.UUID, content string, parentID *uuid.UUID) (*model.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if err == apperror.ErrNotFound {
			return nil, apperror.ErrTargetNotFound
		}
		return nil, err
	}

	if parentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperror.ErrParentMismatch
		}
		// Replies to replies would make a third level.
		if parent.ParentID != nil {
			return nil, apperror.ErrNestingTooDeep
		}
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  s.sanitizer.Sanitize(content),
		ParentID: parentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, caller *model.User, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != caller.ID && !caller.IsStaff {
		return apperror.ErrNotOwner
	}

	if err := s.commentRepo.DeleteWithReplies(ctx, comment); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"comment_id": commentID,
		"post_id":    comment.PostID,
	}).Info("comment deleted")
	return nil
}

func (s *commentService) GetThread(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	return s.commentRepo.ListThread(ctx, postID)
}

func (s *commentService) Hide(ctx context.Context, caller *model.User, commentID uuid.UUID, hidden bool) error {
	if !caller.IsStaff {
		return apperror.ErrForbidden
	}
	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		return err
	}
	return s.commentRepo.SetHidden(ctx, commentID, hidden)
}
