package services

import (
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"

	"gorm.io/gorm"
)

type CategoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) Create(db *gorm.DB, name string) (*models.Category, error) {
	category := &models.Category{Name: name, IsActive: true}
	if err := s.categoryRepo.Create(db, category); err != nil {
		return nil, toAppError(err)
	}
	return category, nil
}

func (s *CategoryService) ListActive(db *gorm.DB) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListActive(db)
	if err != nil {
		return nil, toAppError(err)
	}
	return categories, nil
}
