package applications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"jobboard/internal/api/validation"
	"jobboard/internal/auth"
	"jobboard/internal/logging"
	"jobboard/internal/store"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

// Service drives the application lifecycle: Pending, then Approved or Rejected
type Service struct {
	store    *store.Store
	validate *validator.Validate
	logger   logging.Logger
	now      func() time.Time
}

func NewService(s *store.Store, logger logging.Logger) *Service {
	return &Service{
		store:    s,
		validate: validation.New(),
		logger:   logger.WithField("component", "applications"),
		now:      time.Now,
	}
}

// NewForm returns the job a seeker is applying to and the seeker id the form is bound to
func (s *Service) NewForm(ctx context.Context, p auth.Principal, jobID uint) (*models.ApplicationForm, error) {
	seeker, err := s.seekerFor(ctx, p, auth.ActionApply)
	if err != nil {
		return nil, err
	}
	job, err := s.store.JobListingByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "job", jobID)
	}
	return &models.ApplicationForm{Job: *job, JobSeekerID: seeker.ID}, nil
}

// Submit records a Pending application for the caller's job seeker record.
// The write is transactional and any failure is returned.
func (s *Service) Submit(ctx context.Context, p auth.Principal, in models.ApplicationInput) (*models.Application, error) {
	seeker, err := s.seekerFor(ctx, p, auth.ActionApply)
	if err != nil {
		return nil, err
	}
	if err := validation.Check(s.validate, in); err != nil {
		return nil, err
	}

	app := &models.Application{
		JobID:            in.JobID,
		JobSeekerID:      seeker.ID,
		Resume:           in.Resume,
		CoverLetter:      in.CoverLetter,
		SelfIntroduction: in.SelfIntroduction,
		SubmissionDate:   s.now().UTC(),
		Status:           models.StatusPending,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		exists, err := tx.JobExists(ctx, in.JobID)
		if err != nil {
			return err
		}
		if !exists {
			return utils.NewNotFoundError(fmt.Sprintf("job %d", in.JobID))
		}

		applied, err := tx.HasApplied(ctx, in.JobID, seeker.ID)
		if err != nil {
			return err
		}
		if applied {
			return utils.NewConflictError("you have already applied for this job")
		}
		return tx.CreateApplication(ctx, app)
	})
	if err != nil {
		var ce *utils.CustomError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	s.logger.Info("application submitted", map[string]interface{}{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"job_seeker_id":  seeker.ID,
	})
	return app, nil
}

// ListForSeeker returns the caller's own applications
func (s *Service) ListForSeeker(ctx context.Context, p auth.Principal) ([]models.ApplicationListing, error) {
	seeker, err := s.seekerFor(ctx, p, auth.ActionListOwnApplications)
	if err != nil {
		return nil, err
	}
	return s.store.ApplicationsForSeeker(ctx, seeker.ID)
}

// ListForEmployer returns applications to jobs the caller's employer owns
func (s *Service) ListForEmployer(ctx context.Context, p auth.Principal) ([]models.ApplicationListing, error) {
	employer, err := s.employerFor(ctx, p, auth.ActionListEmployerApplications)
	if err != nil {
		return nil, err
	}
	return s.store.ApplicationsForEmployer(ctx, employer.ID)
}

func (s *Service) Approve(ctx context.Context, p auth.Principal, id uint) error {
	return s.decide(ctx, p, id, models.StatusApproved)
}

func (s *Service) Reject(ctx context.Context, p auth.Principal, id uint) error {
	return s.decide(ctx, p, id, models.StatusRejected)
}

func (s *Service) decide(ctx context.Context, p auth.Principal, id uint, to models.ApplicationStatus) error {
	employer, err := s.employerFor(ctx, p, auth.ActionDecideApplication)
	if err != nil {
		return err
	}
	app, err := s.store.ApplicationByID(ctx, id)
	if err != nil {
		return notFound(err, "application", id)
	}
	if app.JobEmployerID != employer.ID {
		return utils.NewAccessDeniedError("application belongs to another employer's job")
	}
	if !app.Status.CanTransitionTo(to) {
		return utils.NewConflictError(fmt.Sprintf("application is already %s", app.Status))
	}

	changed, err := s.store.TransitionApplication(ctx, id, app.Status, to)
	if err != nil {
		return fmt.Errorf("failed to update application %d: %w", id, err)
	}
	if !changed {
		return utils.NewConflictError("application was decided concurrently")
	}

	s.logger.Info("application decided", map[string]interface{}{
		"application_id": id,
		"status":         string(to),
		"employer_id":    employer.ID,
	})
	return nil
}

// Delete removes an application. Only the applicant or the job's employer may do so.
func (s *Service) Delete(ctx context.Context, p auth.Principal, id uint) error {
	if err := p.Require(auth.ActionDeleteApplication); err != nil {
		return err
	}
	app, err := s.store.ApplicationByID(ctx, id)
	if err != nil {
		return notFound(err, "application", id)
	}

	allowed, err := s.mayDelete(ctx, p, app)
	if err != nil {
		return err
	}
	if !allowed {
		return utils.NewAccessDeniedError("application belongs to someone else")
	}

	if err := s.store.DeleteApplication(ctx, id); err != nil {
		return notFound(err, "application", id)
	}
	s.logger.Info("application deleted", map[string]interface{}{"application_id": id, "user_id": p.UserID})
	return nil
}

func (s *Service) mayDelete(ctx context.Context, p auth.Principal, app *models.ApplicationListing) (bool, error) {
	if p.Has(auth.RoleJobSeeker) {
		seeker, err := s.store.JobSeekerByUserID(ctx, p.UserID)
		if err != nil && !errors.Is(err, utils.ErrNotFound) {
			return false, err
		}
		if err == nil && seeker.ID == app.JobSeekerID {
			return true, nil
		}
	}
	if p.Has(auth.RoleEmployer) {
		employer, err := s.store.EmployerByUserID(ctx, p.UserID)
		if err != nil && !errors.Is(err, utils.ErrNotFound) {
			return false, err
		}
		if err == nil && employer.ID == app.JobEmployerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) seekerFor(ctx context.Context, p auth.Principal, action auth.Action) (*models.JobSeeker, error) {
	if err := p.Require(action); err != nil {
		return nil, err
	}
	seeker, err := s.store.JobSeekerByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NewAccessDeniedError("no job seeker record for user")
		}
		return nil, err
	}
	return seeker, nil
}

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

func notFound(err error, what string, id uint) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.NewNotFoundError(fmt.Sprintf("%s %d", what, id))
	}
	return err
}
