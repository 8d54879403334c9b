package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/service-bay/ticket-service/internal/domain"
)

var allStatuses = []domain.TicketStatus{
	domain.TicketStatusOpen,
	domain.TicketStatusScheduled,
	domain.TicketStatusInProgress,
	domain.TicketStatusAwaitingParts,
	domain.TicketStatusCompleted,
	domain.TicketStatusCancelled,
}

func ticketFor(creator string, assignee *string, status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{ID: "t-1", CreatedBy: creator, AssignedTo: assignee, Status: status}
}

func strPtr(s string) *string { return &s }

func TestAdminAlwaysAllowed(t *testing.T) {
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	for _, status := range allStatuses {
		for _, assignee := range []*string{nil, strPtr("tech-1"), strPtr("admin-1")} {
			ticket := ticketFor("cust-1", assignee, status)
			assert.Equal(t, Allow, Decide(admin, ticket, ActionRead), "read %s", status)
			assert.Equal(t, Allow, Decide(admin, ticket, ActionWrite), "write %s", status)
		}
	}
}

func TestTechnicianAssignedTicket(t *testing.T) {
	tech := domain.Actor{ID: "tech-1", Role: domain.RoleTechnician}
	for _, status := range allStatuses {
		ticket := ticketFor("cust-1", strPtr("tech-1"), status)
		assert.Equal(t, Allow, Decide(tech, ticket, ActionRead), "read %s", status)

		want := Allow
		if status == domain.TicketStatusCompleted || status == domain.TicketStatusCancelled {
			want = Deny
		}
		assert.Equal(t, want, Decide(tech, ticket, ActionWrite), "write %s", status)
	}
}

func TestTechnicianUnassignedTicket(t *testing.T) {
	tech := domain.Actor{ID: "tech-1", Role: domain.RoleTechnician}
	for _, status := range allStatuses {
		for _, assignee := range []*string{nil, strPtr("tech-2")} {
			ticket := ticketFor("cust-1", assignee, status)
			assert.Equal(t, Deny, Decide(tech, ticket, ActionRead))
			assert.Equal(t, Deny, Decide(tech, ticket, ActionWrite))
		}
	}
}

func TestTechnicianAsCreatorStillNeedsAssignment(t *testing.T) {
	tech := domain.Actor{ID: "tech-1", Role: domain.RoleTechnician}
	ticket := ticketFor("tech-1", nil, domain.TicketStatusOpen)
	assert.Equal(t, Deny, Decide(tech, ticket, ActionRead))
}

func TestCustomerOwnTicketReadOnly(t *testing.T) {
	cust := domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}
	for _, status := range allStatuses {
		ticket := ticketFor("cust-1", strPtr("tech-1"), status)
		assert.Equal(t, Allow, Decide(cust, ticket, ActionRead))
		assert.Equal(t, Deny, Decide(cust, ticket, ActionWrite))
	}
}

func TestCustomerForeignTicketDenied(t *testing.T) {
	cust := domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}
	ticket := ticketFor("cust-2", strPtr("cust-1"), domain.TicketStatusOpen)
	assert.Equal(t, Deny, Decide(cust, ticket, ActionRead))
	assert.Equal(t, Deny, Decide(cust, ticket, ActionWrite))
}

func TestUnknownRoleAndMissingInputsDenied(t *testing.T) {
	ticket := ticketFor("x", strPtr("x"), domain.TicketStatusOpen)
	assert.Equal(t, Deny, Decide(domain.Actor{ID: "x", Role: "manager"}, ticket, ActionRead))
	assert.Equal(t, Deny, Decide(domain.Actor{Role: domain.RoleAdmin}, ticket, ActionRead))
	assert.Equal(t, Deny, Decide(domain.Actor{ID: "a", Role: domain.RoleAdmin}, nil, ActionRead))
}

func TestDecisionStrings(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
	assert.Equal(t, "write", ActionWrite.String())
	assert.True(t, Allow.Allowed())
	assert.False(t, Deny.Allowed())
}
