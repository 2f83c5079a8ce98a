package identity

import (
	"jobboard/internal/config"
	"jobboard/pkg/models"
)

// ProvisionDefaults holds the initial values given to rows created at registration
type ProvisionDefaults struct {
	CompanyName        string
	FullName           string
	Resume             string
	ContactInformation string
}

// DefaultProvisioning returns the stock placeholder values
func DefaultProvisioning() ProvisionDefaults {
	return ProvisionDefaults{
		CompanyName:        "Default Company",
		FullName:           "Default Name",
		Resume:             "Default Resume",
		ContactInformation: "Default Contact Information",
	}
}

// ProvisioningFromConfig overrides the stock values with any configured ones
func ProvisioningFromConfig(cfg *config.Config) ProvisionDefaults {
	d := DefaultProvisioning()
	c := cfg.Identity.Defaults
	if c.CompanyName != "" {
		d.CompanyName = c.CompanyName
	}
	if c.FullName != "" {
		d.FullName = c.FullName
	}
	if c.Resume != "" {
		d.Resume = c.Resume
	}
	if c.ContactInformation != "" {
		d.ContactInformation = c.ContactInformation
	}
	return d
}

func (d ProvisionDefaults) Employer(userID string) *models.Employer {
	return &models.Employer{UserID: userID, CompanyName: d.CompanyName}
}

func (d ProvisionDefaults) JobSeeker(userID string) *models.JobSeeker {
	return &models.JobSeeker{UserID: userID, FullName: d.FullName}
}

func (d ProvisionDefaults) Profile(jobSeekerID uint) *models.Profile {
	return &models.Profile{JobSeekerID: jobSeekerID, Resume: d.Resume, ContactInformation: d.ContactInformation}
}
