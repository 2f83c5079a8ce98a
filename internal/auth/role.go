package auth

import "fmt"

// Role is the closed set of account roles
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleEmployer
	RoleJobSeeker
)

// AllRoles lists every assignable role
var AllRoles = []Role{RoleAdmin, RoleEmployer, RoleJobSeeker}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleEmployer:
		return "Employer"
	case RoleJobSeeker:
		return "JobSeeker"
	case RoleUnknown:
		return "Unknown"
	}
	panic(fmt.Sprintf("auth: unhandled role %d", int(r)))
}

// ParseRole maps a stored role name onto a Role
func ParseRole(name string) (Role, error) {
	switch name {
	case "Admin":
		return RoleAdmin, nil
	case "Employer":
		return RoleEmployer, nil
	case "JobSeeker":
		return RoleJobSeeker, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", name)
}

// Registrable reports whether users may pick r when signing up
func (r Role) Registrable() bool {
	switch r {
	case RoleEmployer, RoleJobSeeker:
		return true
	case RoleAdmin, RoleUnknown:
		return false
	}
	panic(fmt.Sprintf("auth: unhandled role %d", int(r)))
}
