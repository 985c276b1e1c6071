package repository

import (
	"context"
	"errors"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository manages the rateable target catalogs (teachers and
// canteen stalls) plus forum categories. All writes are staff-gated at the
// service layer.
type CatalogRepository interface {
	CreateTeacher(ctx context.Context, teacher *model.Teacher) error
	FindTeacherByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
	ListTeachers(ctx context.Context, department string) ([]model.Teacher, error)
	DeleteTeacher(ctx context.Context, id uuid.UUID) error

	CreateCanteen(ctx context.Context, canteen *model.Canteen) error
	FindCanteenByID(ctx context.Context, id uuid.UUID) (*model.Canteen, error)
	ListCanteens(ctx context.Context, building string) ([]model.Canteen, error)
	DeleteCanteen(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]model.Category, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateTeacher(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *catalogRepository) FindTeacherByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).First(&teacher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *catalogRepository) ListTeachers(ctx context.Context, department string) ([]model.Teacher, error) {
	q := r.db.WithContext(ctx).Order("department, name")
	if department != "" {
		q = q.Where("department LIKE ?", "%"+department+"%")
	}
	var teachers []model.Teacher
	err := q.Find(&teachers).Error
	return teachers, err
}

func (r *catalogRepository) DeleteTeacher(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Teacher{}).Error
}

func (r *catalogRepository) CreateCanteen(ctx context.Context, canteen *model.Canteen) error {
	return r.db.WithContext(ctx).Create(canteen).Error
}

func (r *catalogRepository) FindCanteenByID(ctx context.Context, id uuid.UUID) (*model.Canteen, error) {
	var canteen model.Canteen
	err := r.db.WithContext(ctx).First(&canteen, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &canteen, nil
}

func (r *catalogRepository) ListCanteens(ctx context.Context, building string) ([]model.Canteen, error) {
	q := r.db.WithContext(ctx).Order("building, name")
	if building != "" {
		q = q.Where("building LIKE ?", "%"+building+"%")
	}
	var canteens []model.Canteen
	err := q.Find(&canteens).Error
	return canteens, err
}

func (r *catalogRepository) DeleteCanteen(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Canteen{}).Error
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("\"order\", created_at DESC").Find(&categories).Error
	return categories, err
}
