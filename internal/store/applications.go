package store

import (
	"context"

	"gorm.io/gorm"

	"jobboard/pkg/models"
)

func (s *Store) applicationQuery(ctx context.Context) *gorm.DB {
	return s.with(ctx).Table("applications").
		Select("applications.*, jobs.title AS job_title, jobs.employer_id AS job_employer_id, job_seekers.full_name AS applicant_name").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Joins("LEFT JOIN job_seekers ON job_seekers.id = applications.job_seeker_id")
}

func (s *Store) CreateApplication(ctx context.Context, app *models.Application) error {
	return s.with(ctx).Create(app).Error
}

func (s *Store) ApplicationByID(ctx context.Context, id uint) (*models.ApplicationListing, error) {
	var apps []models.ApplicationListing
	if err := s.applicationQuery(ctx).Where("applications.id = ?", id).Limit(1).Scan(&apps).Error; err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, notFound(gorm.ErrRecordNotFound, "application")
	}
	return &apps[0], nil
}

func (s *Store) ApplicationsForSeeker(ctx context.Context, seekerID uint) ([]models.ApplicationListing, error) {
	var apps []models.ApplicationListing
	err := s.applicationQuery(ctx).
		Where("applications.job_seeker_id = ?", seekerID).
		Order("applications.submission_date DESC, applications.id DESC").
		Scan(&apps).Error
	return apps, err
}

// ApplicationsForEmployer returns applications to jobs owned by employerID
func (s *Store) ApplicationsForEmployer(ctx context.Context, employerID uint) ([]models.ApplicationListing, error) {
	var apps []models.ApplicationListing
	err := s.applicationQuery(ctx).
		Where("jobs.employer_id = ?", employerID).
		Order("applications.submission_date DESC, applications.id DESC").
		Scan(&apps).Error
	return apps, err
}

func (s *Store) HasApplied(ctx context.Context, jobID, seekerID uint) (bool, error) {
	n, err := s.Count(ctx, &models.Application{}, "job_id = ? AND job_seeker_id = ?", jobID, seekerID)
	return n > 0, err
}

// TransitionApplication moves an application from one status to another only
// if it is still in from. It reports whether the row changed.
func (s *Store) TransitionApplication(ctx context.Context, id uint, from, to models.ApplicationStatus) (bool, error) {
	res := s.with(ctx).Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

func (s *Store) DeleteApplication(ctx context.Context, id uint) error {
	res := s.with(ctx).Delete(&models.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "application")
	}
	return nil
}
