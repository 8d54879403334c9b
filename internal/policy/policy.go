// Package policy holds the ticket authorization matrix: per-object
// read/write decisions and the listing scope for each role.
package policy

import "github.com/service-bay/ticket-service/internal/domain"

// Action is the kind of access requested on a ticket.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Decision is the outcome of an access check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool { return d == Allow }

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Decide evaluates the ticket access matrix for actor.
//
//	admin       read+write on every ticket
//	technician  only tickets assigned to them; write frozen in terminal states
//	customer    only tickets they created; read only
//
// Creation is not a write under this matrix; any authenticated actor may file
// a ticket.
func Decide(actor domain.Actor, ticket *domain.Ticket, action Action) Decision {
	if ticket == nil || actor.ID == "" {
		return Deny
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return Allow
	case domain.RoleTechnician:
		if !ticket.AssignedToUser(actor.ID) {
			return Deny
		}
		switch action {
		case ActionRead:
			return Allow
		case ActionWrite:
			if ticket.Status.Terminal() {
				return Deny
			}
			return Allow
		default:
			return Deny
		}
	case domain.RoleCustomer:
		if ticket.CreatedBy != actor.ID {
			return Deny
		}
		if action == ActionRead {
			return Allow
		}
		return Deny
	default:
		return Deny
	}
}
