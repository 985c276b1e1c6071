package service

import (
	"context"
	"fmt"
	"time"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/repository"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type ToggleResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// LikeService is the toggle-style reaction ledger. The database owns the
// truth; Redis only caches counts for the read path.
type LikeService interface {
	Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetType, targetID uuid.UUID) (*ToggleResult, error)
	IsLiked(ctx context.Context, userID uuid.UUID, kind model.TargetType, targetID uuid.UUID) (bool, error)
	Count(ctx context.Context, kind model.TargetType, targetID uuid.UUID) (int64, error)
}

type likeService struct {
	likeRepo    repository.LikeRepository
	registry    repository.TargetRegistry
	redisClient *redis.Client
}

func NewLikeService(likeRepo repository.LikeRepository, registry repository.TargetRegistry, redisClient *redis.Client) LikeService {
	return &likeService{
		likeRepo:    likeRepo,
		registry:    registry,
		redisClient: redisClient,
	}
}

func (s *likeService) Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetType, targetID uuid.UUID) (*ToggleResult, error) {
	if !kind.Likeable() {
		return nil, apperror.ErrTargetNotFound
	}
	exists, err := s.registry.Exists(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrTargetNotFound
	}

	liked, count, err := s.likeRepo.Toggle(ctx, userID, kind, targetID)
	if err != nil {
		return nil, err
	}

	s.cacheCount(ctx, kind, targetID, count)

	return &ToggleResult{Liked: liked, Count: count}, nil
}

func (s *likeService) IsLiked(ctx context.Context, userID uuid.UUID, kind model.TargetType, targetID uuid.UUID) (bool, error) {
	return s.likeRepo.IsLiked(ctx, userID, kind, targetID)
}

func (s *likeService) Count(ctx context.Context, kind model.TargetType, targetID uuid.UUID) (int64, error) {
	if s.redisClient != nil {
		val, err := s.redisClient.Get(ctx, likeCountKey(kind, targetID)).Int64()
		if err == nil {
			return val, nil
		}
		if err != redis.Nil {
			logrus.WithError(err).Warn("like count cache read failed")
		}
	}

	count, err := s.likeRepo.CountForTarget(ctx, kind, targetID)
	if err != nil {
		return 0, err
	}
	s.cacheCount(ctx, kind, targetID, count)
	return count, nil
}

func (s *likeService) cacheCount(ctx context.Context, kind model.TargetType, targetID uuid.UUID, count int64) {
	if s.redisClient == nil {
		return
	}
	// Best effort. A miss just falls back to the database.
	if err := s.redisClient.Set(ctx, likeCountKey(kind, targetID), count, 7*24*time.Hour).Err(); err != nil {
		logrus.WithError(err).Warn("like count cache write failed")
	}
}

func likeCountKey(kind model.TargetType, targetID uuid.UUID) string {
	return fmt.Sprintf("likes:%s:%s", kind, targetID.String())
}
