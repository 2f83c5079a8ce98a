package models

import "time"

// RegisterRequest is the registration form
type RegisterRequest struct {
	Email           string `json:"email" form:"Email" validate:"required,email"`
	Password        string `json:"password" form:"Password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirm_password" form:"ConfirmPassword" validate:"eqfield=Password"`
	UserType        string `json:"user_type" form:"UserType" validate:"required,user_type"`
	ReturnURL       string `json:"return_url" form:"ReturnUrl" query:"ReturnUrl"`
}

type LoginRequest struct {
	Email     string `json:"email" form:"Email" validate:"required,email"`
	Password  string `json:"password" form:"Password" validate:"required"`
	ReturnURL string `json:"return_url" form:"ReturnUrl" query:"ReturnUrl"`
}

// JobInput carries the editable fields of a Job. EmployerID is deliberately absent.
type JobInput struct {
	ID                     uint       `json:"id" form:"Id"`
	Title                  string     `json:"title" form:"Title" validate:"required,max=256"`
	Description            string     `json:"description" form:"Description"`
	RequiredQualifications string     `json:"required_qualifications" form:"RequiredQualifications"`
	ApplicationDeadline    *time.Time `json:"application_deadline,omitempty" form:"-"`
	CategoryID             uint       `json:"category_id" form:"CategoryId" validate:"required"`
}

// ApplicationInput is the application form. Seeker, date and status are always set server side.
type ApplicationInput struct {
	JobID            uint   `json:"job_id" form:"JobId" validate:"required"`
	Resume           string `json:"resume" form:"Resume" validate:"required"`
	CoverLetter      string `json:"cover_letter" form:"CoverLetter"`
	SelfIntroduction string `json:"self_introduction" form:"SelfIntroduction"`
}

type CategoryInput struct {
	CategoryName string `json:"category_name" form:"CategoryName" validate:"required,max=128"`
}

type SendOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
}

type VerifyOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Otp         string `json:"otp" form:"otp"`
}
