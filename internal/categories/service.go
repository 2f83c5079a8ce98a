package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobboard/internal/api/validation"
	"jobboard/internal/auth"
	"jobboard/internal/logging"
	"jobboard/internal/store"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

// Service manages job categories. Employers propose, admins approve.
type Service struct {
	store    *store.Store
	validate *validator.Validate
	logger   logging.Logger
}

func NewService(s *store.Store, logger logging.Logger) *Service {
	return &Service{
		store:    s,
		validate: validation.New(),
		logger:   logger.WithField("component", "categories"),
	}
}

// List returns every category to admins and only approved ones to everyone else
func (s *Service) List(ctx context.Context, p auth.Principal) ([]models.JobCategory, error) {
	approvedOnly := p.Require(auth.ActionListAllCategories) != nil
	return s.store.ListCategories(ctx, approvedOnly)
}

// Propose creates a category. Admin proposals are approved immediately.
func (s *Service) Propose(ctx context.Context, p auth.Principal, in models.CategoryInput) (*models.JobCategory, error) {
	if err := p.Require(auth.ActionProposeCategory); err != nil {
		return nil, err
	}
	in.CategoryName = strings.TrimSpace(in.CategoryName)
	if err := validation.Check(s.validate, in); err != nil {
		return nil, err
	}

	category := &models.JobCategory{
		CategoryName: in.CategoryName,
		IsApproved:   p.Has(auth.RoleAdmin),
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("category proposed", map[string]interface{}{
		"category_id": category.ID,
		"approved":    category.IsApproved,
		"user_id":     p.UserID,
	})
	return category, nil
}

func (s *Service) Approve(ctx context.Context, p auth.Principal, id uint) error {
	if err := p.Require(auth.ActionApproveCategory); err != nil {
		return err
	}
	if err := s.store.ApproveCategory(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.NewNotFoundError(fmt.Sprintf("job category %d", id))
		}
		return err
	}
	s.logger.Info("category approved", map[string]interface{}{"category_id": id})
	return nil
}
