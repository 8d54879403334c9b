package policy

import "github.com/service-bay/ticket-service/internal/domain"

// Scope restricts which tickets a listing may return. Exactly one of the
// filters is set for non-admin actors; admins get neither.
type Scope struct {
	CreatedBy  *string
	AssignedTo *string
	Paginated  bool
	// Empty marks a scope that matches no ticket.
	Empty bool
}

// ScopeFor returns the listing scope for actor. Admin listings are
// paginated; technician and customer listings return everything visible.
// An unknown role gets a scope that matches nothing.
func ScopeFor(actor domain.Actor) Scope {
	id := actor.ID
	switch actor.Role {
	case domain.RoleAdmin:
		return Scope{Paginated: true}
	case domain.RoleTechnician:
		return Scope{AssignedTo: &id}
	case domain.RoleCustomer:
		return Scope{CreatedBy: &id}
	default:
		return Scope{Empty: true}
	}
}

// Matches reports whether ticket falls inside the scope.
func (s Scope) Matches(ticket *domain.Ticket) bool {
	if s.Empty {
		return false
	}
	if s.CreatedBy != nil && ticket.CreatedBy != *s.CreatedBy {
		return false
	}
	if s.AssignedTo != nil && !ticket.AssignedToUser(*s.AssignedTo) {
		return false
	}
	return true
}
