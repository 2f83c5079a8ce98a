package models

import "time"

// User is an identity account. Role membership lives in UserRole.
type User struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Email             string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	UserName          string    `gorm:"size:256;not null" json:"user_name"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	EmailConfirmed    bool      `gorm:"not null;default:false" json:"email_confirmed"`
	ConfirmationToken string    `gorm:"size:128" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Role struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"uniqueIndex;size:64;not null" json:"name"`
}

type UserRole struct {
	UserID string `gorm:"primaryKey;size:36"`
	RoleID string `gorm:"primaryKey;size:36"`
}

type Employer struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      string `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	CompanyName string `gorm:"size:256;not null" json:"company_name"`
}

type JobSeeker struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   string `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	FullName string `gorm:"size:256;not null" json:"full_name"`
}

type JobCategory struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CategoryName string `gorm:"size:128;not null" json:"category_name"`
	IsApproved   bool   `gorm:"not null;default:false" json:"is_approved"`
}

type Job struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	EmployerID             uint       `gorm:"index;not null" json:"employer_id"`
	CategoryID             uint       `gorm:"index;not null" json:"category_id"`
	Title                  string     `gorm:"size:256;not null" json:"title"`
	Description            string     `gorm:"type:text" json:"description"`
	RequiredQualifications string     `gorm:"type:text" json:"required_qualifications"`
	ApplicationDeadline    *time.Time `json:"application_deadline,omitempty"`
	ImagePath              string     `gorm:"size:512" json:"image_path,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

type Application struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	JobID            uint              `gorm:"index;not null" json:"job_id"`
	JobSeekerID      uint              `gorm:"index;not null" json:"job_seeker_id"`
	Resume           string            `gorm:"type:text" json:"resume"`
	CoverLetter      string            `gorm:"type:text" json:"cover_letter"`
	SelfIntroduction string            `gorm:"type:text" json:"self_introduction"`
	SubmissionDate   time.Time         `gorm:"not null" json:"submission_date"`
	Status           ApplicationStatus `gorm:"size:16;not null;index" json:"status"`
}

type Profile struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	JobSeekerID        uint   `gorm:"index;not null" json:"job_seeker_id"`
	Resume             string `gorm:"type:text" json:"resume"`
	ContactInformation string `gorm:"type:text" json:"contact_information"`
}

// AllEntities lists every table for migration
func AllEntities() []interface{} {
	return []interface{}{
		&User{}, &Role{}, &UserRole{},
		&Employer{}, &JobSeeker{}, &Profile{},
		&JobCategory{}, &Job{}, &Application{},
	}
}
