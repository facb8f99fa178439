package businessflow

import "github.com/mnemosyne-app/mnemosyne/models"

// Permission is the closed set of actions the event policy rules on.
type Permission string

const (
	PermissionView   Permission = "VIEW"
	PermissionEdit   Permission = "EDIT"
	PermissionDelete Permission = "DELETE"
)

// Decision is the outcome of an access check. Abstain means the policy does
// not apply to the request at all; callers compose it with a default deny.
type Decision int

const (
	DecisionAbstain Decision = iota
	DecisionAllow
	DecisionDeny
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDeny:
		return "deny"
	default:
		return "abstain"
	}
}

// DecideEventAccess rules on whether the principal may view, edit, or delete
// the given event. All three permissions collapse to the same ownership
// check: only the author is granted, with no admin override. An anonymous
// principal (nil user) is always denied; permissions outside the closed set
// or a nil event produce an abstention.
func DecideEventAccess(permission Permission, principal *models.User, event *models.Event) Decision {
	switch permission {
	case PermissionView, PermissionEdit, PermissionDelete:
	default:
		return DecisionAbstain
	}
	if event == nil {
		return DecisionAbstain
	}
	if principal == nil {
		return DecisionDeny
	}
	if event.AuthorID == principal.ID {
		return DecisionAllow
	}
	return DecisionDeny
}
