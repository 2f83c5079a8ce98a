package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
	Timestamp time.Time         `json:"timestamp"`
}

// RegisterResponse tells the client where registration continues
type RegisterResponse struct {
	UserID      string `json:"user_id"`
	RedirectURL string `json:"redirect_url"`
	SignedIn    bool   `json:"signed_in"`
}

// JobForm is returned by the create and edit form endpoints
type JobForm struct {
	Job        *Job          `json:"job,omitempty"`
	Categories []JobCategory `json:"categories"`
}

// ApplicationForm is returned by the application create form endpoint
type ApplicationForm struct {
	Job         JobListing `json:"job"`
	JobSeekerID uint       `json:"job_seeker_id"`
}
