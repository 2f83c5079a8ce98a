package auth

import "jobboard/pkg/utils"

// Principal is the authenticated caller
type Principal struct {
	UserID string
	Email  string
	Roles  []Role
}

// Anonymous is the zero principal
var Anonymous = Principal{}

func (p Principal) Authenticated() bool {
	return p.UserID != ""
}

func (p Principal) Has(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns access-denied unless p may perform action
func (p Principal) Require(action Action) error {
	if !p.Authenticated() {
		return utils.NewAccessDeniedError("authentication required")
	}
	for _, r := range p.Roles {
		if Allowed(r, action) {
			return nil
		}
	}
	return utils.NewAccessDeniedError(action.String() + " is not permitted")
}

// PrincipalFromNames builds a principal from stored role names, skipping unknown ones
func PrincipalFromNames(userID, email string, names []string) Principal {
	p := Principal{UserID: userID, Email: email}
	for _, n := range names {
		if r, err := ParseRole(n); err == nil {
			p.Roles = append(p.Roles, r)
		}
	}
	return p
}
