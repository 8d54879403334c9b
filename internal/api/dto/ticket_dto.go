package dto

import (
	"time"

	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/service"
	"github.com/service-bay/ticket-service/pkg/util/optional"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Priority     *domain.TicketPriority `json:"priority"`
	Category     *domain.TicketCategory `json:"category"`
	VehicleMake  *string                `json:"vehicle_make"`
	VehicleModel *string                `json:"vehicle_model"`
	VehicleYear  *int                   `json:"vehicle_year"`
	LicensePlate *string                `json:"license_plate"`
	VIN          *string                `json:"vin"`
}

// Input converts the payload for the ticket service.
func (r CreateTicketRequest) Input() service.TicketCreateInput {
	return service.TicketCreateInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Category:    r.Category,
		Vehicle: service.VehicleInput{
			Make:         r.VehicleMake,
			Model:        r.VehicleModel,
			Year:         r.VehicleYear,
			LicensePlate: r.LicensePlate,
			VIN:          r.VIN,
		},
	}
}

// UpdateTicketRequest is shared by PUT and PATCH; absent keys are left alone.
type UpdateTicketRequest struct {
	Title        optional.Value[string]                `json:"title"`
	Description  optional.Value[string]                `json:"description"`
	Status       optional.Value[domain.TicketStatus]   `json:"status"`
	Priority     optional.Value[domain.TicketPriority] `json:"priority"`
	Category     optional.Value[domain.TicketCategory] `json:"category"`
	AssignedTo   optional.Value[string]                `json:"assigned_to"`
	VehicleMake  optional.Value[string]                `json:"vehicle_make"`
	VehicleModel optional.Value[string]                `json:"vehicle_model"`
	VehicleYear  optional.Value[int]                   `json:"vehicle_year"`
	LicensePlate optional.Value[string]                `json:"license_plate"`
	VIN          optional.Value[string]                `json:"vin"`
	ClosedAt     optional.Value[time.Time]             `json:"closed_at"`
}

// Input converts the payload; replace marks a full PUT.
func (r UpdateTicketRequest) Input(replace bool) service.TicketUpdateInput {
	return service.TicketUpdateInput{
		Replace:      replace,
		Title:        r.Title,
		Description:  r.Description,
		Status:       r.Status,
		Priority:     r.Priority,
		Category:     r.Category,
		AssignedTo:   r.AssignedTo,
		VehicleMake:  r.VehicleMake,
		VehicleModel: r.VehicleModel,
		VehicleYear:  r.VehicleYear,
		LicensePlate: r.LicensePlate,
		VIN:          r.VIN,
		ClosedAt:     r.ClosedAt,
	}
}

// TicketResponse is the public ticket representation.
type TicketResponse struct {
	ID               string                `json:"id"`
	CustomerTicketID int                   `json:"customer_ticket_id"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Status           domain.TicketStatus   `json:"status"`
	Priority         domain.TicketPriority `json:"priority"`
	Category         domain.TicketCategory `json:"category"`
	CategoryDisplay  string                `json:"category_display"`
	CreatedBy        string                `json:"created_by"`
	CreatedByEmail   *string               `json:"created_by_email"`
	CreatedByName    *string               `json:"created_by_name"`
	AssignedTo       *string               `json:"assigned_to"`
	AssignedToEmail  *string               `json:"assigned_to_email"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	ClosedAt         *time.Time            `json:"closed_at"`
	VehicleMake      *string               `json:"vehicle_make"`
	VehicleModel     *string               `json:"vehicle_model"`
	VehicleYear      *int                  `json:"vehicle_year"`
	LicensePlate     *string               `json:"license_plate"`
	VIN              *string               `json:"vin"`
}

// NewTicketResponse maps a ticket with its resolved users.
func NewTicketResponse(details *service.TicketDetails) TicketResponse {
	t := details.Ticket
	resp := TicketResponse{
		ID:               t.ID,
		CustomerTicketID: t.CustomerTicketID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           t.Status,
		Priority:         t.Priority,
		Category:         t.Category,
		CategoryDisplay:  t.Category.Label(),
		CreatedBy:        t.CreatedBy,
		AssignedTo:       t.AssignedTo,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		ClosedAt:         t.ClosedAt,
		VehicleMake:      t.Vehicle.Make,
		VehicleModel:     t.Vehicle.Model,
		VehicleYear:      t.Vehicle.Year,
		LicensePlate:     t.Vehicle.LicensePlate,
		VIN:              t.Vehicle.VIN,
	}
	if creator := details.Creator; creator != nil {
		email, name := creator.Email, creator.DisplayName()
		resp.CreatedByEmail = &email
		resp.CreatedByName = &name
	}
	if assignee := details.Assignee; assignee != nil {
		email := assignee.Email
		resp.AssignedToEmail = &email
	}
	return resp
}

// NewTicketResponses maps a listing.
func NewTicketResponses(items []service.TicketDetails) []TicketResponse {
	out := make([]TicketResponse, 0, len(items))
	for i := range items {
		out = append(out, NewTicketResponse(&items[i]))
	}
	return out
}
