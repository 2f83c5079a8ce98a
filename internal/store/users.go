package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobboard/pkg/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return s.with(ctx).Create(user).Error
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.with(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.with(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// ConfirmEmail marks the account confirmed and clears its token
func (s *Store) ConfirmEmail(ctx context.Context, userID string) error {
	res := s.with(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"email_confirmed": true, "confirmation_token": ""})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

// EnsureRole returns the named role, creating it when missing
func (s *Store) EnsureRole(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.with(ctx).Where("name = ?", name).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role = models.Role{ID: uuid.New().String(), Name: name}
	if err := s.with(ctx).Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *Store) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := s.with(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, notFound(err, "role "+name)
	}
	return &role, nil
}

func (s *Store) AddUserToRole(ctx context.Context, userID, roleID string) error {
	return s.with(ctx).Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error
}

// RoleNames returns the names of every role the user belongs to
func (s *Store) RoleNames(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := s.with(ctx).Model(&models.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Pluck("roles.name", &names).Error
	return names, err
}

func (s *Store) CreateEmployer(ctx context.Context, employer *models.Employer) error {
	return s.with(ctx).Create(employer).Error
}

func (s *Store) EmployerByUserID(ctx context.Context, userID string) (*models.Employer, error) {
	var employer models.Employer
	if err := s.with(ctx).Where("user_id = ?", userID).First(&employer).Error; err != nil {
		return nil, notFound(err, "employer")
	}
	return &employer, nil
}

func (s *Store) CreateJobSeeker(ctx context.Context, seeker *models.JobSeeker) error {
	return s.with(ctx).Create(seeker).Error
}

func (s *Store) JobSeekerByUserID(ctx context.Context, userID string) (*models.JobSeeker, error) {
	var seeker models.JobSeeker
	if err := s.with(ctx).Where("user_id = ?", userID).First(&seeker).Error; err != nil {
		return nil, notFound(err, "job seeker")
	}
	return &seeker, nil
}

func (s *Store) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return s.with(ctx).Create(profile).Error
}

func (s *Store) ProfilesForSeeker(ctx context.Context, seekerID uint) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.with(ctx).Where("job_seeker_id = ?", seekerID).Order("id").Find(&profiles).Error
	return profiles, err
}

// Count returns the number of rows of model matching the optional condition
func (s *Store) Count(ctx context.Context, model interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	q := s.with(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	err := q.Count(&n).Error
	return n, err
}
