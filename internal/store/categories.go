package store

import (
	"context"

	"jobboard/pkg/models"
)

func (s *Store) ListCategories(ctx context.Context, approvedOnly bool) ([]models.JobCategory, error) {
	q := s.with(ctx).Order("category_name")
	if approvedOnly {
		q = q.Where("is_approved = ?", true)
	}
	var categories []models.JobCategory
	err := q.Find(&categories).Error
	return categories, err
}

func (s *Store) CategoryByID(ctx context.Context, id uint) (*models.JobCategory, error) {
	var category models.JobCategory
	if err := s.with(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err, "job category")
	}
	return &category, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.JobCategory) error {
	return s.with(ctx).Create(category).Error
}

func (s *Store) ApproveCategory(ctx context.Context, id uint) error {
	if _, err := s.CategoryByID(ctx, id); err != nil {
		return err
	}
	return s.with(ctx).Model(&models.JobCategory{}).Where("id = ?", id).Update("is_approved", true).Error
}
