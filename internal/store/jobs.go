package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"jobboard/pkg/models"
)

func (s *Store) listingQuery(ctx context.Context) *gorm.DB {
	return s.with(ctx).Table("jobs").
		Select("jobs.*, job_categories.category_name AS category_name, employers.company_name AS company_name").
		Joins("LEFT JOIN job_categories ON job_categories.id = jobs.category_id").
		Joins("LEFT JOIN employers ON employers.id = jobs.employer_id")
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ListJobs returns every job whose title contains search, ignoring case
func (s *Store) ListJobs(ctx context.Context, search string) ([]models.JobListing, error) {
	q := s.listingQuery(ctx)
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("LOWER(jobs.title) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}

	var jobs []models.JobListing
	err := q.Order("jobs.created_at DESC, jobs.id DESC").Scan(&jobs).Error
	return jobs, err
}

func (s *Store) JobListingByID(ctx context.Context, id uint) (*models.JobListing, error) {
	var jobs []models.JobListing
	if err := s.listingQuery(ctx).Where("jobs.id = ?", id).Limit(1).Scan(&jobs).Error; err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, notFound(gorm.ErrRecordNotFound, "job")
	}
	return &jobs[0], nil
}

func (s *Store) JobByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := s.with(ctx).First(&job, id).Error; err != nil {
		return nil, notFound(err, "job")
	}
	return &job, nil
}

func (s *Store) JobExists(ctx context.Context, id uint) (bool, error) {
	n, err := s.Count(ctx, &models.Job{}, "id = ?", id)
	return n > 0, err
}

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	return s.with(ctx).Create(job).Error
}

// UpdateJob writes the editable columns of job and returns the affected row count.
// The employer column is never written.
func (s *Store) UpdateJob(ctx context.Context, job *models.Job) (int64, error) {
	res := s.with(ctx).Model(&models.Job{}).Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"title":                   job.Title,
			"description":             job.Description,
			"required_qualifications": job.RequiredQualifications,
			"application_deadline":    job.ApplicationDeadline,
			"image_path":              job.ImagePath,
			"category_id":             job.CategoryID,
		})
	return res.RowsAffected, res.Error
}

// DeleteJob removes the job and its applications. Call it inside Transaction.
func (s *Store) DeleteJob(ctx context.Context, id uint) error {
	if err := s.with(ctx).Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
		return err
	}
	res := s.with(ctx).Delete(&models.Job{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "job")
	}
	return nil
}
