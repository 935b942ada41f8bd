package service

import (
	"errors"
	"fmt"

	"go-stocktrack/internal/domain"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	CreateCategory(req *CategoryRequest, staff string) (*model.Category, error)
	UpdateCategory(id uuid.UUID, req *CategoryRequest, staff string) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
	GetCategories() ([]model.Category, error)
	GetCategory(id uuid.UUID) (*model.Category, error)
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(req *CategoryRequest, staff string) (*model.Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("category '%s': %w", req.Name, domain.ErrConflict)
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	category.CreatedBy = staff
	category.UpdatedBy = staff

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return category, nil
}

// UpdateCategory renames in place. Items reference categories by id, so no
// cascade is needed.
func (s *categoryService) UpdateCategory(id uuid.UUID, req *CategoryRequest, staff string) (*model.Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "category")
	}

	if req.Name != category.Name {
		existing, err := s.categoryRepo.FindByName(req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		if existing != nil {
			return nil, fmt.Errorf("category '%s': %w", req.Name, domain.ErrConflict)
		}
	}

	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedBy = staff

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return category, nil
}

// DeleteCategory rejects the delete while any item still references the
// category, keeping the items-reference-existing-categories invariant intact.
func (s *categoryService) DeleteCategory(id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return lookupErr(err, "category")
	}

	count, err := s.categoryRepo.CountItems(id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if count > 0 {
		return fmt.Errorf("%d item(s) attached: %w", count, domain.ErrCategoryInUse)
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *categoryService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetCategory(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "category")
	}
	return category, nil
}
