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

type RatingInput struct {
	TargetType  model.TargetType
	TargetID    uuid.UUID
	Score       int
	Comment     string
	TagIDs      []uuid.UUID
	IsAnonymous bool
}

type RatingUpdateInput struct {
	Score       *int
	Comment     *string
	TagIDs      *[]uuid.UUID
	IsAnonymous *bool
}

type HelpfulResult struct {
	Marked       bool  `json:"marked"`
	HelpfulCount int64 `json:"helpful_count"`
}

type RatingService interface {
	Create(ctx context.Context, userID uuid.UUID, input RatingInput) (*model.Rating, error)
	Update(ctx context.Context, userID, ratingID uuid.UUID, input RatingUpdateInput) (*model.Rating, error)
	Delete(ctx context.Context, caller *model.User, ratingID uuid.UUID) error
	MarkHelpful(ctx context.Context, userID, ratingID uuid.UUID) (*HelpfulResult, error)
	Statistics(ctx context.Context, kind model.TargetType, targetID uuid.UUID) (*repository.TargetStatistics, error)
	ListByTarget(ctx context.Context, kind model.TargetType, targetID uuid.UUID, offset, limit int) ([]model.Rating, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Rating, error)
	ListTags(ctx context.Context, category *model.TagCategory) ([]model.Tag, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	registry   repository.TargetRegistry
	sanitizer  *bluemonday.Policy
}

func NewRatingService(ratingRepo repository.RatingRepository, registry repository.TargetRegistry) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		registry:   registry,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

func (s *ratingService) Create(ctx context.Context, userID uuid.UUID, input RatingInput) (*model.Rating, error) {
	if !input.TargetType.Rateable() {
		return nil, apperror.ErrTargetNotFound
	}
	if input.Score < 1 || input.Score > 5 {
		return nil, apperror.ErrInvalidScore
	}

	exists, err := s.registry.Exists(ctx, input.TargetType, input.TargetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrTargetNotFound
	}

	tags, err := s.resolveTags(ctx, input.TagIDs, input.TargetType)
	if err != nil {
		return nil, err
	}

	rating := &model.Rating{
		UserID:      userID,
		TargetType:  input.TargetType,
		TargetID:    input.TargetID,
		Score:       input.Score,
		Comment:     s.sanitizer.Sanitize(input.Comment),
		IsAnonymous: input.IsAnonymous,
	}
	if err := s.ratingRepo.Create(ctx, rating, tags); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"rating_id":   rating.ID,
		"target_type": input.TargetType,
		"target_id":   input.TargetID,
	}).Info("rating created")

	return s.ratingRepo.FindByID(ctx, rating.ID)
}

func (s *ratingService) Update(ctx context.Context, userID, ratingID uuid.UUID, input RatingUpdateInput) (*model.Rating, error) {
	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating.UserID != userID {
		return nil, apperror.ErrNotOwner
	}

	if input.Score != nil {
		if *input.Score < 1 || *input.Score > 5 {
			return nil, apperror.ErrInvalidScore
		}
		rating.Score = *input.Score
	}
	if input.Comment != nil {
		rating.Comment = s.sanitizer.Sanitize(*input.Comment)
	}
	if input.IsAnonymous != nil {
		rating.IsAnonymous = *input.IsAnonymous
	}

	// Tags re-validate against the rating's original target category.
	tags := rating.Tags
	if input.TagIDs != nil {
		tags, err = s.resolveTags(ctx, *input.TagIDs, rating.TargetType)
		if err != nil {
			return nil, err
		}
	}

	if err := s.ratingRepo.Update(ctx, rating, tags); err != nil {
		return nil, err
	}
	return s.ratingRepo.FindByID(ctx, ratingID)
}

func (s *ratingService) Delete(ctx context.Context, caller *model.User, ratingID uuid.UUID) error {
	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating.UserID != caller.ID && !caller.IsStaff {
		return apperror.ErrNotOwner
	}
	return s.ratingRepo.Delete(ctx, ratingID)
}

func (s *ratingService) MarkHelpful(ctx context.Context, userID, ratingID uuid.UUID) (*HelpfulResult, error) {
	if _, err := s.ratingRepo.FindByID(ctx, ratingID); err != nil {
		return nil, err
	}

	marked, count, err := s.ratingRepo.ToggleHelpful(ctx, userID, ratingID)
	if err != nil {
		return nil, err
	}
	return &HelpfulResult{Marked: marked, HelpfulCount: count}, nil
}

func (s *ratingService) Statistics(ctx context.Context, kind model.TargetType, targetID uuid.UUID) (*repository.TargetStatistics, error) {
	if !kind.Rateable() {
		return nil, apperror.ErrTargetNotFound
	}
	exists, err := s.registry.Exists(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrTargetNotFound
	}
	return s.ratingRepo.Statistics(ctx, kind, targetID)
}

func (s *ratingService) ListByTarget(ctx context.Context, kind model.TargetType, targetID uuid.UUID, offset, limit int) ([]model.Rating, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.ratingRepo.ListByTarget(ctx, kind, targetID, offset, limit)
}

func (s *ratingService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Rating, error) {
	return s.ratingRepo.ListByUser(ctx, userID)
}

func (s *ratingService) ListTags(ctx context.Context, category *model.TagCategory) ([]model.Tag, error) {
	return s.ratingRepo.ListTags(ctx, category)
}

// resolveTags loads the requested tags and rejects any whose category does
// not match the target's: teacher tags never attach to canteen ratings and
// vice versa.
func (s *ratingService) resolveTags(ctx context.Context, tagIDs []uuid.UUID, kind model.TargetType) ([]model.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	category, ok := model.CategoryFor(kind)
	if !ok {
		return nil, apperror.ErrInvalidTag
	}

	tags, err := s.ratingRepo.FindTags(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, apperror.ErrInvalidTag
	}
	for _, tag := range tags {
		if tag.Category != category {
			return nil, apperror.ErrInvalidTag
		}
	}
	return tags, nil
}
