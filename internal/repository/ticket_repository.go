package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/service-bay/ticket-service/internal/domain"
)

// TicketFilter scopes ticket listings. A zero Limit returns every match.
type TicketFilter struct {
	CreatedBy  *string
	AssignedTo *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	// Create inserts ticket and assigns its ID and per-creator sequence number.
	// Concurrent creations by the same creator never share a sequence number.
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, customer_ticket_id, title, description, status, priority, category, created_by, assigned_to,
               vehicle_make, vehicle_model, vehicle_year, license_plate, vin, created_at, updated_at, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Serializes sequence assignment per creator until commit.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, ticket.CreatedBy); err != nil {
			return fmt.Errorf("lock creator sequence: %w", err)
		}

		var existing int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE created_by=$1`, ticket.CreatedBy).Scan(&existing); err != nil {
			return fmt.Errorf("count creator tickets: %w", err)
		}
		ticket.CustomerTicketID = existing + 1

		const query = `
            INSERT INTO tickets (customer_ticket_id, title, description, status, priority, category, created_by, assigned_to,
                vehicle_make, vehicle_model, vehicle_year, license_plate, vin, closed_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
            RETURNING id, created_at, updated_at`
		return tx.QueryRow(ctx, query,
			ticket.CustomerTicketID,
			ticket.Title,
			ticket.Description,
			ticket.Status,
			ticket.Priority,
			ticket.Category,
			ticket.CreatedBy,
			ticket.AssignedTo,
			ticket.Vehicle.Make,
			ticket.Vehicle.Model,
			ticket.Vehicle.Year,
			ticket.Vehicle.LicensePlate,
			ticket.Vehicle.VIN,
			ticket.ClosedAt,
		).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	})
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, category=$5, assigned_to=$6,
            vehicle_make=$7, vehicle_model=$8, vehicle_year=$9, license_plate=$10, vin=$11, closed_at=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.AssignedTo,
		ticket.Vehicle.Make,
		ticket.Vehicle.Model,
		ticket.Vehicle.Year,
		ticket.Vehicle.LicensePlate,
		ticket.Vehicle.VIN,
		ticket.ClosedAt,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	return scanTicket(r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	where, args := ticketWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC, id DESC`, ticketColumns, where)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, max(filter.Offset, 0))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int, error) {
	where, args := ticketWhere(filter)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE `+where, args...).Scan(&total)
	return total, err
}

func ticketWhere(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.CustomerTicketID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.Vehicle.Make,
		&ticket.Vehicle.Model,
		&ticket.Vehicle.Year,
		&ticket.Vehicle.LicensePlate,
		&ticket.Vehicle.VIN,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
