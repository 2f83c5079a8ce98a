package models

// JobListing is a Job joined with its category and employer names
type JobListing struct {
	Job
	CategoryName string `json:"category_name"`
	CompanyName  string `json:"company_name"`
}

// JobDetail adds the viewer specific HasApplied flag to a listing
type JobDetail struct {
	JobListing
	HasApplied bool `json:"has_applied"`
}

// ApplicationListing is an Application joined with the job it targets
type ApplicationListing struct {
	Application
	JobTitle      string `json:"job_title"`
	JobEmployerID uint   `json:"job_employer_id"`
	ApplicantName string `json:"applicant_name"`
}
