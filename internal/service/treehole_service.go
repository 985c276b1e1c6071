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

// TreeholeService is the anonymous confession board. Authors are stored but
// never serialized; every public surface shows the resolved pseudonym.
type TreeholeService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, content string, postType model.TreeholePostType) (*model.TreeholePost, error)
	DeletePost(ctx context.Context, caller *model.User, postID uuid.UUID) error
	GetPost(ctx context.Context, postID uuid.UUID) (*model.TreeholePost, error)
	ListPosts(ctx context.Context, postType *model.TreeholePostType, offset, limit int) ([]model.TreeholePost, int64, error)
	AddComment(ctx context.Context, authorID, postID uuid.UUID, content string, parentID *uuid.UUID) (*model.TreeholeComment, error)
	DeleteComment(ctx context.Context, caller *model.User, commentID uuid.UUID) error
	GetThread(ctx context.Context, postID uuid.UUID) ([]model.TreeholeComment, error)
}

type treeholeService struct {
	treeholeRepo repository.TreeholeRepository
	anonService  AnonymousNameService
	sanitizer    *bluemonday.Policy
}

func NewTreeholeService(treeholeRepo repository.TreeholeRepository, anonService AnonymousNameService) TreeholeService {
	return &treeholeService{
		treeholeRepo: treeholeRepo,
		anonService:  anonService,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func (s *treeholeService) CreatePost(ctx context.Context, authorID uuid.UUID, content string, postType model.TreeholePostType) (*model.TreeholePost, error) {
	if !postType.Valid() {
		postType = model.TreeholeOther
	}

	// The post id doubles as the pseudonym scope, so it is minted up front:
	// the author keeps this name for every comment they leave on the post.
	postID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	identity, err := s.anonService.Resolve(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}

	post := &model.TreeholePost{
		ID:            postID,
		AuthorID:      authorID,
		AnonymousName: identity.DisplayName,
		Content:       s.sanitizer.Sanitize(content),
		PostType:      postType,
	}
	if err := s.treeholeRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"post_id":   post.ID,
		"post_type": postType,
	}).Info("treehole post created")
	return post, nil
}

func (s *treeholeService) DeletePost(ctx context.Context, caller *model.User, postID uuid.UUID) error {
	post, err := s.treeholeRepo.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != caller.ID && !caller.IsStaff {
		return apperror.ErrNotOwner
	}
	return s.treeholeRepo.DeletePost(ctx, postID)
}

func (s *treeholeService) GetPost(ctx context.Context, postID uuid.UUID) (*model.TreeholePost, error) {
	post, err := s.treeholeRepo.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsHidden {
		return nil, apperror.ErrNotFound
	}
	return post, nil
}

func (s *treeholeService) ListPosts(ctx context.Context, postType *model.TreeholePostType, offset, limit int) ([]model.TreeholePost, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.treeholeRepo.ListPosts(ctx, postType, offset, limit)
}

func (s *treeholeService) AddComment(ctx context.Context, authorID, postID uuid.UUID, content string, parentID *uuid.UUID) (*model.TreeholeComment, error) {
	if _, err := s.treeholeRepo.FindPostByID(ctx, postID); err != nil {
		if err == apperror.ErrNotFound {
			return nil, apperror.ErrTargetNotFound
		}
		return nil, err
	}

	if parentID != nil {
		parent, err := s.treeholeRepo.FindCommentByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperror.ErrParentMismatch
		}
		if parent.ParentID != nil {
			return nil, apperror.ErrNestingTooDeep
		}
	}

	// Comment pseudonyms are scoped to the post, not the comment: the same
	// author keeps one name across the whole thread while the window holds.
	identity, err := s.anonService.Resolve(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}

	comment := &model.TreeholeComment{
		PostID:        postID,
		AuthorID:      authorID,
		AnonymousName: identity.DisplayName,
		Content:       s.sanitizer.Sanitize(content),
		ParentID:      parentID,
	}
	if err := s.treeholeRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *treeholeService) DeleteComment(ctx context.Context, caller *model.User, commentID uuid.UUID) error {
	comment, err := s.treeholeRepo.FindCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != caller.ID && !caller.IsStaff {
		return apperror.ErrNotOwner
	}
	return s.treeholeRepo.DeleteCommentWithReplies(ctx, comment)
}

func (s *treeholeService) GetThread(ctx context.Context, postID uuid.UUID) ([]model.TreeholeComment, error) {
	return s.treeholeRepo.ListThread(ctx, postID)
}
