package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/service-bay/ticket-service/internal/config"
	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/events"
	"github.com/service-bay/ticket-service/internal/policy"
	"github.com/service-bay/ticket-service/internal/repository"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
	"github.com/service-bay/ticket-service/pkg/util/optional"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	pages      paginator
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Pagination config.PaginationConfig
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		pages:      paginator{cfg: deps.Pagination},
		logger:     logger,
		now:        time.Now,
	}
}

// TicketDetails is a ticket with its creator and assignee resolved.
type TicketDetails struct {
	Ticket   domain.Ticket
	Creator  *domain.User
	Assignee *domain.User
}

// TicketPage is the result of a scoped listing. Info is nil for
// unpaginated listings.
type TicketPage struct {
	Items []TicketDetails
	Info  *PageInfo
}

// VehicleInput carries optional vehicle fields on creation.
type VehicleInput struct {
	Make         *string
	Model        *string
	Year         *int
	LicensePlate *string
	VIN          *string
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    *domain.TicketCategory
	Priority    *domain.TicketPriority
	Vehicle     VehicleInput
}

// TicketUpdateInput is a partial update. With Replace set, title and
// description become mandatory.
type TicketUpdateInput struct {
	Replace      bool
	Title        optional.Value[string]
	Description  optional.Value[string]
	Status       optional.Value[domain.TicketStatus]
	Priority     optional.Value[domain.TicketPriority]
	Category     optional.Value[domain.TicketCategory]
	AssignedTo   optional.Value[string]
	VehicleMake  optional.Value[string]
	VehicleModel optional.Value[string]
	VehicleYear  optional.Value[int]
	LicensePlate optional.Value[string]
	VIN          optional.Value[string]
	ClosedAt     optional.Value[time.Time]
}

// CreateTicket files a ticket owned by actor.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*TicketDetails, error) {
	errs := fieldErrors{}
	ticket := &domain.Ticket{
		Title:       requiredText(errs, "title", input.Title, domain.MaxTitleLength),
		Description: requiredText(errs, "description", input.Description, 0),
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityStandard,
		Category:    domain.CategoryMaintenance,
		CreatedBy:   actor.ID,
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			errs.add("priority", msgInvalidChoice(string(*input.Priority)))
		}
		ticket.Priority = *input.Priority
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			errs.add("category", msgInvalidChoice(string(*input.Category)))
		}
		ticket.Category = *input.Category
	}
	ticket.Vehicle = domain.Vehicle{
		Make:         optionalText(errs, "vehicle_make", input.Vehicle.Make, domain.MaxVehicleMakeLength),
		Model:        optionalText(errs, "vehicle_model", input.Vehicle.Model, domain.MaxVehicleModelLength),
		Year:         validYear(errs, input.Vehicle.Year),
		LicensePlate: optionalText(errs, "license_plate", input.Vehicle.LicensePlate, domain.MaxLicensePlateLength),
		VIN:          optionalText(errs, "vin", input.Vehicle.VIN, domain.MaxVINLength),
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("created_by", ticket.CreatedBy),
		zap.Int("customer_ticket_id", ticket.CustomerTicketID))

	s.publishEvent(ctx, actor, ticket, events.EventTicketCreated, events.TicketCreatedPayload{
		Priority: ticket.Priority,
		Category: ticket.Category,
	})
	return s.describe(ctx, ticket)
}

// ListTickets returns the tickets visible to actor. Admin listings are
// paginated; everyone else receives the full scoped list.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, page PageRequest) (*TicketPage, error) {
	scope := policy.ScopeFor(actor)
	if scope.Empty {
		return &TicketPage{Items: []TicketDetails{}}, nil
	}
	filter := repository.TicketFilter{CreatedBy: scope.CreatedBy, AssignedTo: scope.AssignedTo}

	var info *PageInfo
	if scope.Paginated {
		count, err := s.tickets.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		resolved, offset, err := s.pages.resolve(page, count)
		if err != nil {
			return nil, err
		}
		filter.Limit = resolved.PageSize
		filter.Offset = offset
		info = &resolved
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.describeAll(ctx, tickets)
	if err != nil {
		return nil, err
	}
	return &TicketPage{Items: items, Info: info}, nil
}

// GetTicket returns a ticket actor may read. Tickets outside the actor's
// reach are reported as not found.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, id string) (*TicketDetails, error) {
	ticket, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, ticket)
}

// UpdateTicket applies a partial update and emits change events once the
// write succeeded.
func (s *TicketService) UpdateTicket(ctx context.Context, actor domain.Actor, id string, input TicketUpdateInput) (*TicketDetails, error) {
	ticket, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.Decide(actor, ticket, policy.ActionWrite).Allowed() {
		return nil, apperrors.NewForbidden(permissionDenied)
	}

	previousStatus := ticket.Status
	previousAssignee := ticket.AssignedTo

	if err := s.apply(ctx, ticket, input); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if ticket.Status != previousStatus {
		s.publishEvent(ctx, actor, ticket, events.EventTicketStatusChanged, events.TicketStatusChangedPayload{
			OldStatus: previousStatus,
			NewStatus: ticket.Status,
		})
	}
	if ticket.AssignedTo != nil && !sameID(previousAssignee, ticket.AssignedTo) {
		s.publishEvent(ctx, actor, ticket, events.EventTicketAssigned, events.TicketAssignedPayload{
			PreviousAssignee: previousAssignee,
			Assignee:         *ticket.AssignedTo,
		})
	}
	return s.describe(ctx, ticket)
}

func (s *TicketService) load(ctx context.Context, actor domain.Actor, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if !policy.Decide(actor, ticket, policy.ActionRead).Allowed() {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

func (s *TicketService) apply(ctx context.Context, ticket *domain.Ticket, input TicketUpdateInput) error {
	errs := fieldErrors{}

	if input.Replace {
		if !input.Title.Set {
			errs.add("title", msgRequired)
		}
		if !input.Description.Set {
			errs.add("description", msgRequired)
		}
	}
	patchRequired(errs, "title", input.Title, func(v string) {
		ticket.Title = requiredText(errs, "title", v, domain.MaxTitleLength)
	})
	patchRequired(errs, "description", input.Description, func(v string) {
		ticket.Description = requiredText(errs, "description", v, 0)
	})
	patchRequired(errs, "status", input.Status, func(v domain.TicketStatus) {
		if !v.Valid() {
			errs.add("status", msgInvalidChoice(string(v)))
		}
		ticket.Status = v
	})
	patchRequired(errs, "priority", input.Priority, func(v domain.TicketPriority) {
		if !v.Valid() {
			errs.add("priority", msgInvalidChoice(string(v)))
		}
		ticket.Priority = v
	})
	patchRequired(errs, "category", input.Category, func(v domain.TicketCategory) {
		if !v.Valid() {
			errs.add("category", msgInvalidChoice(string(v)))
		}
		ticket.Category = v
	})

	if input.VehicleMake.Set {
		ticket.Vehicle.Make = optionalText(errs, "vehicle_make", input.VehicleMake.Ptr, domain.MaxVehicleMakeLength)
	}
	if input.VehicleModel.Set {
		ticket.Vehicle.Model = optionalText(errs, "vehicle_model", input.VehicleModel.Ptr, domain.MaxVehicleModelLength)
	}
	if input.VehicleYear.Set {
		ticket.Vehicle.Year = validYear(errs, input.VehicleYear.Ptr)
	}
	if input.LicensePlate.Set {
		ticket.Vehicle.LicensePlate = optionalText(errs, "license_plate", input.LicensePlate.Ptr, domain.MaxLicensePlateLength)
	}
	if input.VIN.Set {
		ticket.Vehicle.VIN = optionalText(errs, "vin", input.VIN.Ptr, domain.MaxVINLength)
	}
	if input.ClosedAt.Set {
		ticket.ClosedAt = input.ClosedAt.Ptr
	}

	if input.AssignedTo.Set {
		assignee, err := s.resolveAssignee(ctx, errs, input.AssignedTo.Ptr)
		if err != nil {
			return err
		}
		ticket.AssignedTo = assignee
	}
	return errs.err()
}

// resolveAssignee checks that id names a technician or admin.
func (s *TicketService) resolveAssignee(ctx context.Context, errs fieldErrors, id *string) (*string, error) {
	if id == nil {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			errs.add("assigned_to", msgUnknownPK(*id))
			return nil, nil
		}
		return nil, err
	}
	if !user.Role.CanBeAssigned() {
		errs.add("assigned_to", "Select a valid choice. That choice is not one of the available choices.")
		return nil, nil
	}
	assignee := user.ID
	return &assignee, nil
}

func (s *TicketService) describe(ctx context.Context, ticket *domain.Ticket) (*TicketDetails, error) {
	items, err := s.describeAll(ctx, []domain.Ticket{*ticket})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *TicketService) describeAll(ctx context.Context, tickets []domain.Ticket) ([]TicketDetails, error) {
	ids := make([]string, 0, len(tickets)*2)
	for _, ticket := range tickets {
		ids = append(ids, ticket.CreatedBy)
		if ticket.AssignedTo != nil {
			ids = append(ids, *ticket.AssignedTo)
		}
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]TicketDetails, 0, len(tickets))
	for _, ticket := range tickets {
		details := TicketDetails{Ticket: ticket, Creator: users[ticket.CreatedBy]}
		if ticket.AssignedTo != nil {
			details.Assignee = users[*ticket.AssignedTo]
		}
		items = append(items, details)
	}
	return items, nil
}

func (s *TicketService) publishEvent(ctx context.Context, actor domain.Actor, ticket *domain.Ticket, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Ticket:    events.RefFor(ticket),
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: s.now().UTC(),
		Payload:   payload,
	})
}

func validYear(errs fieldErrors, year *int) *int {
	if year != nil && *year < 1 {
		errs.add("vehicle_year", "Ensure this value is greater than or equal to 1.")
	}
	return year
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
