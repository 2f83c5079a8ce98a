package auth

import "fmt"

// Action is a role-gated operation
type Action int

const (
	ActionCreateJob Action = iota
	ActionEditJob
	ActionDeleteJob
	ActionApply
	ActionListOwnApplications
	ActionListEmployerApplications
	ActionDecideApplication
	ActionDeleteApplication
	ActionProposeCategory
	ActionApproveCategory
	ActionListAllCategories
)

func (a Action) String() string {
	switch a {
	case ActionCreateJob:
		return "create job"
	case ActionEditJob:
		return "edit job"
	case ActionDeleteJob:
		return "delete job"
	case ActionApply:
		return "apply"
	case ActionListOwnApplications:
		return "list own applications"
	case ActionListEmployerApplications:
		return "list employer applications"
	case ActionDecideApplication:
		return "decide application"
	case ActionDeleteApplication:
		return "delete application"
	case ActionProposeCategory:
		return "propose category"
	case ActionApproveCategory:
		return "approve category"
	case ActionListAllCategories:
		return "list all categories"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Allowed is the role authorization table. Ownership checks happen in the services.
func Allowed(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		switch action {
		case ActionProposeCategory, ActionApproveCategory, ActionListAllCategories:
			return true
		}
		return false
	case RoleEmployer:
		switch action {
		case ActionCreateJob, ActionEditJob, ActionDeleteJob,
			ActionListEmployerApplications, ActionDecideApplication,
			ActionDeleteApplication, ActionProposeCategory:
			return true
		}
		return false
	case RoleJobSeeker:
		switch action {
		case ActionApply, ActionListOwnApplications, ActionDeleteApplication:
			return true
		}
		return false
	case RoleUnknown:
		return false
	}
	panic(fmt.Sprintf("auth: unhandled role %d", int(role)))
}
