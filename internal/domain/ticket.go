package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen          TicketStatus = "Open"
	TicketStatusScheduled     TicketStatus = "Scheduled"
	TicketStatusInProgress    TicketStatus = "In Progress"
	TicketStatusAwaitingParts TicketStatus = "Awaiting Parts"
	TicketStatusCompleted     TicketStatus = "Completed"
	TicketStatusCancelled     TicketStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusScheduled, TicketStatusInProgress,
		TicketStatusAwaitingParts, TicketStatusCompleted, TicketStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status freezes technician writes.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusCompleted || s == TicketStatusCancelled
}

// TicketPriority enumerates service urgency.
type TicketPriority string

const (
	TicketPriorityRoutine  TicketPriority = "Routine"
	TicketPriorityStandard TicketPriority = "Standard"
	TicketPriorityUrgent   TicketPriority = "Urgent"
	TicketPriorityCritical TicketPriority = "Critical"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityRoutine, TicketPriorityStandard, TicketPriorityUrgent, TicketPriorityCritical:
		return true
	}
	return false
}

// TicketCategory enumerates the service categories a bay offers.
type TicketCategory string

const (
	CategoryEngine      TicketCategory = "Engine"
	CategoryBrakes      TicketCategory = "Brakes"
	CategoryTires       TicketCategory = "Tires"
	CategorySuspension  TicketCategory = "Suspension"
	CategoryElectrical  TicketCategory = "Electrical"
	CategoryMaintenance TicketCategory = "Maintenance"
	CategoryDiagnostics TicketCategory = "Diagnostics"
	CategoryBodywork    TicketCategory = "Bodywork"
	CategoryOther       TicketCategory = "Other"
)

var categoryLabels = map[TicketCategory]string{
	CategoryEngine:      "Engine Services",
	CategoryBrakes:      "Brake Services",
	CategoryTires:       "Tire Services",
	CategorySuspension:  "Suspension & Steering",
	CategoryElectrical:  "Electrical System",
	CategoryMaintenance: "Routine Maintenance",
	CategoryDiagnostics: "Diagnostics",
	CategoryBodywork:    "Bodywork/Cosmetic",
	CategoryOther:       "Other Service",
}

// Valid reports whether c is a known category.
func (c TicketCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the human readable category name.
func (c TicketCategory) Label() string {
	return categoryLabels[c]
}

// Field length limits.
const (
	MaxTitleLength        = 200
	MaxVehicleMakeLength  = 50
	MaxVehicleModelLength = 50
	MaxLicensePlateLength = 20
	MaxVINLength          = 17
)

// Vehicle holds the optional descriptive fields of the serviced vehicle.
type Vehicle struct {
	Make         *string
	Model        *string
	Year         *int
	LicensePlate *string
	VIN          *string
}

// Ticket is the aggregate for service requests.
type Ticket struct {
	ID               string
	CustomerTicketID int
	Title            string
	Description      string
	Status           TicketStatus
	Priority         TicketPriority
	Category         TicketCategory
	CreatedBy        string
	AssignedTo       *string
	Vehicle          Vehicle
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClosedAt         *time.Time
}

// AssignedToUser reports whether the ticket is assigned to userID.
func (t *Ticket) AssignedToUser(userID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}
