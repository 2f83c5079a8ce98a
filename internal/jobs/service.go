package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobboard/internal/api/validation"
	"jobboard/internal/auth"
	"jobboard/internal/logging"
	"jobboard/internal/storage"
	"jobboard/internal/store"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

// Image is an uploaded file attached to a create or edit
type Image struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Service implements job listing and employer-owned job management
type Service struct {
	store    *store.Store
	images   storage.Store
	validate *validator.Validate
	logger   logging.Logger
}

func NewService(s *store.Store, images storage.Store, logger logging.Logger) *Service {
	return &Service{
		store:    s,
		images:   images,
		validate: validation.New(),
		logger:   logger.WithField("component", "jobs"),
	}
}

// List returns every job whose title contains search
func (s *Service) List(ctx context.Context, search string) ([]models.JobListing, error) {
	return s.store.ListJobs(ctx, search)
}

// Detail returns a job and whether the viewing job seeker already applied
func (s *Service) Detail(ctx context.Context, p auth.Principal, id uint) (*models.JobDetail, error) {
	listing, err := s.store.JobListingByID(ctx, id)
	if err != nil {
		return nil, notFoundJob(err, id)
	}

	detail := &models.JobDetail{JobListing: *listing}
	if p.Authenticated() && p.Has(auth.RoleJobSeeker) {
		seeker, err := s.store.JobSeekerByUserID(ctx, p.UserID)
		switch {
		case err == nil:
			detail.HasApplied, err = s.store.HasApplied(ctx, id, seeker.ID)
			if err != nil {
				return nil, err
			}
		case !errors.Is(err, utils.ErrNotFound):
			return nil, err
		}
	}
	return detail, nil
}

// CreateForm returns the approved categories an employer may post under
func (s *Service) CreateForm(ctx context.Context, p auth.Principal) (*models.JobForm, error) {
	if _, err := s.employerFor(ctx, p, auth.ActionCreateJob); err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	return &models.JobForm{Categories: categories}, nil
}

// Create persists a job owned by the caller's employer record
func (s *Service) Create(ctx context.Context, p auth.Principal, in models.JobInput, image *Image) (*models.Job, error) {
	employer, err := s.employerFor(ctx, p, auth.ActionCreateJob)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, &in); err != nil {
		return nil, err
	}

	job := &models.Job{
		EmployerID:             employer.ID,
		CategoryID:             in.CategoryID,
		Title:                  in.Title,
		Description:            in.Description,
		RequiredQualifications: in.RequiredQualifications,
		ApplicationDeadline:    in.ApplicationDeadline,
	}

	if image != nil {
		ref, err := s.images.Save(ctx, image.Name, image.ContentType, image.Body)
		if err != nil {
			return nil, err
		}
		job.ImagePath = ref
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		s.discardImage(ctx, image, job.ImagePath)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("job created", map[string]interface{}{"job_id": job.ID, "employer_id": employer.ID})
	return job, nil
}

// EditForm returns the job and categories for an owner's edit page
func (s *Service) EditForm(ctx context.Context, p auth.Principal, id uint) (*models.JobForm, error) {
	job, err := s.ownedJob(ctx, p, id, auth.ActionEditJob)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	return &models.JobForm{Job: job, Categories: categories}, nil
}

// Edit updates an owned job. A new image replaces the old file; without one the
// stored path is kept. The employer never changes.
func (s *Service) Edit(ctx context.Context, p auth.Principal, id uint, in models.JobInput, image *Image) (*models.Job, error) {
	if err := p.Require(auth.ActionEditJob); err != nil {
		return nil, err
	}
	if in.ID != 0 && in.ID != id {
		return nil, utils.NewNotFoundError(fmt.Sprintf("job %d", in.ID))
	}

	job, err := s.ownedJob(ctx, p, id, auth.ActionEditJob)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, &in); err != nil {
		return nil, err
	}

	job.Title = in.Title
	job.Description = in.Description
	job.RequiredQualifications = in.RequiredQualifications
	job.ApplicationDeadline = in.ApplicationDeadline
	job.CategoryID = in.CategoryID

	if image != nil {
		if job.ImagePath != "" {
			if err := s.images.Delete(ctx, job.ImagePath); err != nil {
				return nil, err
			}
		}
		ref, err := s.images.Save(ctx, image.Name, image.ContentType, image.Body)
		if err != nil {
			return nil, err
		}
		job.ImagePath = ref
	}

	rows, err := s.store.UpdateJob(ctx, job)
	if err != nil {
		s.discardImage(ctx, image, job.ImagePath)
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	if rows == 0 {
		exists, err := s.store.JobExists(ctx, id)
		if err != nil {
			s.discardImage(ctx, image, job.ImagePath)
			return nil, err
		}
		if !exists {
			s.discardImage(ctx, image, job.ImagePath)
			return nil, utils.NewNotFoundError(fmt.Sprintf("job %d", id))
		}
	}

	s.logger.Info("job updated", map[string]interface{}{
		"job_id":        id,
		"image_changed": image != nil,
	})
	return job, nil
}

// discardImage removes a file saved for a write that did not happen
func (s *Service) discardImage(ctx context.Context, image *Image, ref string) {
	if image == nil || ref == "" {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		s.logger.Warn("failed to remove orphaned image", map[string]interface{}{"path": ref, "error": err.Error()})
	}
}

// DeleteConfirmation returns the job an owner is about to delete
func (s *Service) DeleteConfirmation(ctx context.Context, p auth.Principal, id uint) (*models.JobListing, error) {
	if _, err := s.ownedJob(ctx, p, id, auth.ActionDeleteJob); err != nil {
		return nil, err
	}
	listing, err := s.store.JobListingByID(ctx, id)
	if err != nil {
		return nil, notFoundJob(err, id)
	}
	return listing, nil
}

// Delete removes an owned job, its image and its applications
func (s *Service) Delete(ctx context.Context, p auth.Principal, id uint) error {
	job, err := s.ownedJob(ctx, p, id, auth.ActionDeleteJob)
	if err != nil {
		return err
	}

	if err := s.images.Delete(ctx, job.ImagePath); err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.DeleteJob(ctx, id)
	})
	if err != nil {
		return notFoundJob(err, id)
	}

	s.logger.Info("job deleted", map[string]interface{}{"job_id": id})
	return nil
}

// employerFor enforces the role and resolves the caller's employer record
func (s *Service) employerFor(ctx context.Context, p auth.Principal, action auth.Action) (*models.Employer, error) {
	if err := p.Require(action); err != nil {
		return nil, err
	}
	employer, err := s.store.EmployerByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NewAccessDeniedError("no employer record for user")
		}
		return nil, err
	}
	return employer, nil
}

// ownedJob loads a job and checks the caller's employer owns it
func (s *Service) ownedJob(ctx context.Context, p auth.Principal, id uint, action auth.Action) (*models.Job, error) {
	employer, err := s.employerFor(ctx, p, action)
	if err != nil {
		return nil, err
	}
	job, err := s.store.JobByID(ctx, id)
	if err != nil {
		return nil, notFoundJob(err, id)
	}
	if job.EmployerID != employer.ID {
		s.logger.Warn("job ownership check failed", map[string]interface{}{
			"job_id":      id,
			"employer_id": employer.ID,
		})
		return nil, utils.NewAccessDeniedError("job belongs to another employer")
	}
	return job, nil
}

func (s *Service) validateInput(ctx context.Context, in *models.JobInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Check(s.validate, in); err != nil {
		return err
	}

	category, err := s.store.CategoryByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.NewFieldValidationError("CategoryID", "The selected category does not exist.")
		}
		return err
	}
	if !category.IsApproved {
		return utils.NewFieldValidationError("CategoryID", "The selected category is not approved yet.")
	}
	return nil
}

func notFoundJob(err error, id uint) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.NewNotFoundError(fmt.Sprintf("job %d", id))
	}
	return err
}
