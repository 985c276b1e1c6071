package repository

import (
	"context"
	"errors"
	"fmt"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TargetStatistics is the read-side aggregation over live ratings.
type TargetStatistics struct {
	AverageRating     float64        `json:"average_rating"`
	TotalRatings      int64          `json:"total_ratings"`
	ScoreDistribution map[string]int `json:"score_distribution"`
	PopularTags       []TagCount     `json:"popular_tags"`
}

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating, tags []model.Tag) error
	Update(ctx context.Context, rating *model.Rating, tags []model.Tag) error
	Delete(ctx context.Context, ratingID uuid.UUID) error
	FindByID(ctx context.Context, ratingID uuid.UUID) (*model.Rating, error)
	ListByTarget(ctx context.Context, kind model.TargetType, targetID uuid.UUID, offset, limit int) ([]model.Rating, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Rating, error)
	ToggleHelpful(ctx context.Context, userID, ratingID uuid.UUID) (marked bool, helpfulCount int64, err error)
	Statistics(ctx context.Context, kind model.TargetType, targetID uuid.UUID) (*TargetStatistics, error)
	FindTags(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error)
	ListTags(ctx context.Context, category *model.TagCategory) ([]model.Tag, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating, tags []model.Tag) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rating).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			return tx.Model(rating).Association("Tags").Replace(tags)
		}
		return nil
	})
	if isDuplicateKey(err) {
		return apperror.ErrDuplicateRating
	}
	return err
}

func (r *ratingRepository) Update(ctx context.Context, rating *model.Rating, tags []model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(rating).Select("score", "comment", "is_anonymous").Updates(rating).Error; err != nil {
			return err
		}
		return tx.Model(rating).Association("Tags").Replace(tags)
	})
}

func (r *ratingRepository) Delete(ctx context.Context, ratingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rating_id = ?", ratingID).Delete(&model.HelpfulMark{}).Error; err != nil {
			return err
		}
		rating := model.Rating{ID: ratingID}
		if err := tx.Model(&rating).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&rating).Error
	})
}

func (r *ratingRepository) FindByID(ctx context.Context, ratingID uuid.UUID) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).
		Preload("Tags").
		First(&rating, "id = ?", ratingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByTarget(ctx context.Context, kind model.TargetType, targetID uuid.UUID, offset, limit int) ([]model.Rating, int64, error) {
	var ratings []model.Rating
	var total int64

	q := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Where("target_type = ? AND target_id = ?", kind, targetID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Tags").Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&ratings).Error
	return ratings, total, err
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

// ToggleHelpful moves helpful_count with atomic arithmetic expressions in the
// same transaction as the mark create/delete. The counter only moves when a
// mark row actually changed, so it tracks the live mark count even when two
// off-toggles race.
func (r *ratingRepository) ToggleHelpful(ctx context.Context, userID, ratingID uuid.UUID) (bool, int64, error) {
	var marked bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mark := model.HelpfulMark{
			UserID:   userID,
			RatingID: ratingID,
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mark)
		if res.Error != nil {
			return res.Error
		}

		delta := int64(1)
		if res.RowsAffected == 0 {
			del := tx.
				Where("user_id = ? AND rating_id = ?", userID, ratingID).
				Delete(&model.HelpfulMark{})
			if del.Error != nil {
				return del.Error
			}
			marked = false
			// A concurrent off-toggle may have beaten us to the delete; the
			// counter only moves when this transaction removed the row.
			delta = -del.RowsAffected
		} else {
			marked = true
		}

		if delta == 0 {
			return nil
		}
		return tx.Model(&model.Rating{}).
			Where("id = ?", ratingID).
			Update("helpful_count", gorm.Expr("helpful_count + ?", delta)).Error
	})
	if err != nil {
		return false, 0, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Where("id = ?", ratingID).
		Pluck("helpful_count", &count).Error
	return marked, count, err
}

func (r *ratingRepository) Statistics(ctx context.Context, kind model.TargetType, targetID uuid.UUID) (*TargetStatistics, error) {
	stats := &TargetStatistics{
		ScoreDistribution: make(map[string]int),
		PopularTags:       []TagCount{},
	}

	type scoreRow struct {
		Score int
		Count int
	}
	var scores []scoreRow
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("score, count(*) as count").
		Where("target_type = ? AND target_id = ?", kind, targetID).
		Group("score").
		Scan(&scores).Error
	if err != nil {
		return nil, err
	}

	var sum int64
	for i := 1; i <= 5; i++ {
		stats.ScoreDistribution[scoreKey(i)] = 0
	}
	for _, row := range scores {
		stats.ScoreDistribution[scoreKey(row.Score)] = row.Count
		stats.TotalRatings += int64(row.Count)
		sum += int64(row.Score) * int64(row.Count)
	}
	if stats.TotalRatings > 0 {
		// One decimal place, matching the public profile display.
		stats.AverageRating = float64(int(float64(sum)/float64(stats.TotalRatings)*10+0.5)) / 10
	}

	var tagRows []TagCount
	err = r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tags.name, count(*) as count").
		Joins("JOIN rating_tags ON rating_tags.tag_id = tags.id").
		Joins("JOIN ratings ON ratings.id = rating_tags.rating_id").
		Where("ratings.target_type = ? AND ratings.target_id = ?", kind, targetID).
		Group("tags.name").
		Order("count DESC").
		Limit(10).
		Scan(&tagRows).Error
	if err != nil {
		return nil, err
	}
	stats.PopularTags = tagRows

	return stats, nil
}

func (r *ratingRepository) FindTags(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

func (r *ratingRepository) ListTags(ctx context.Context, category *model.TagCategory) ([]model.Tag, error) {
	q := r.db.WithContext(ctx).Order("category, \"order\", name")
	if category != nil {
		q = q.Where("category = ?", *category)
	}
	var tags []model.Tag
	err := q.Find(&tags).Error
	return tags, err
}

func scoreKey(score int) string {
	return fmt.Sprintf("%d星", score)
}
