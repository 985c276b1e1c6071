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

type PostInput struct {
	Title      string
	Content    string
	CategoryID *uuid.UUID
}

type PostService interface {
	Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*model.Post, error)
	Update(ctx context.Context, caller *model.User, postID uuid.UUID, input PostInput) (*model.Post, error)
	Delete(ctx context.Context, caller *model.User, postID uuid.UUID) error
	// Get bumps the view counter on each read.
	Get(ctx context.Context, postID uuid.UUID) (*model.Post, error)
	List(ctx context.Context, categoryID *uuid.UUID, offset, limit int) ([]model.Post, int64, error)
}

type postService struct {
	postRepo  repository.PostRepository
	sanitizer *bluemonday.Policy
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{
		postRepo:  postRepo,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*model.Post, error) {
	post := &model.Post{
		AuthorID:   authorID,
		CategoryID: input.CategoryID,
		Title:      s.sanitizer.Sanitize(input.Title),
		Content:    s.sanitizer.Sanitize(input.Content),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	logrus.WithField("post_id", post.ID).Info("post created")
	return post, nil
}

func (s *postService) Update(ctx context.Context, caller *model.User, postID uuid.UUID, input PostInput) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != caller.ID && !caller.IsStaff {
		return nil, apperror.ErrNotOwner
	}

	post.Title = s.sanitizer.Sanitize(input.Title)
	post.Content = s.sanitizer.Sanitize(input.Content)
	post.CategoryID = input.CategoryID
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.FindByID(ctx, postID)
}

func (s *postService) Delete(ctx context.Context, caller *model.User, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != caller.ID && !caller.IsStaff {
		return apperror.ErrNotOwner
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *postService) Get(ctx context.Context, postID uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.IncrementViews(ctx, postID); err != nil {
		logrus.WithError(err).Warn("view count bump failed")
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, categoryID *uuid.UUID, offset, limit int) ([]model.Post, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postRepo.List(ctx, categoryID, offset, limit)
}
