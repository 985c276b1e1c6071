package service

import (
	"context"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/repository"
	"campuslink.cn/community/pkg/apperror"
	"github.com/google/uuid"
)

// CatalogService exposes the rateable target catalogs. Mutations are staff
// only; reads are public.
type CatalogService interface {
	CreateTeacher(ctx context.Context, caller *model.User, teacher *model.Teacher) error
	GetTeacher(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
	ListTeachers(ctx context.Context, department string) ([]model.Teacher, error)
	DeleteTeacher(ctx context.Context, caller *model.User, id uuid.UUID) error

	CreateCanteen(ctx context.Context, caller *model.User, canteen *model.Canteen) error
	GetCanteen(ctx context.Context, id uuid.UUID) (*model.Canteen, error)
	ListCanteens(ctx context.Context, building string) ([]model.Canteen, error)
	DeleteCanteen(ctx context.Context, caller *model.User, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]model.Category, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) CreateTeacher(ctx context.Context, caller *model.User, teacher *model.Teacher) error {
	if !caller.IsStaff {
		return apperror.ErrForbidden
	}
	return s.catalogRepo.CreateTeacher(ctx, teacher)
}

func (s *catalogService) GetTeacher(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	return s.catalogRepo.FindTeacherByID(ctx, id)
}

func (s *catalogService) ListTeachers(ctx context.Context, department string) ([]model.Teacher, error) {
	return s.catalogRepo.ListTeachers(ctx, department)
}

func (s *catalogService) DeleteTeacher(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if !caller.IsStaff {
		return apperror.ErrForbidden
	}
	return s.catalogRepo.DeleteTeacher(ctx, id)
}

func (s *catalogService) CreateCanteen(ctx context.Context, caller *model.User, canteen *model.Canteen) error {
	if !caller.IsStaff {
		return apperror.ErrForbidden
	}
	return s.catalogRepo.CreateCanteen(ctx, canteen)
}

func (s *catalogService) GetCanteen(ctx context.Context, id uuid.UUID) (*model.Canteen, error) {
	return s.catalogRepo.FindCanteenByID(ctx, id)
}

func (s *catalogService) ListCanteens(ctx context.Context, building string) ([]model.Canteen, error) {
	return s.catalogRepo.ListCanteens(ctx, building)
}

func (s *catalogService) DeleteCanteen(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if !caller.IsStaff {
		return apperror.ErrForbidden
	}
	return s.catalogRepo.DeleteCanteen(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.catalogRepo.ListCategories(ctx)
}
