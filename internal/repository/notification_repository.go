package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/service-bay/ticket-service/internal/domain"
)

// NotificationRepository stores the per-user message log.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
	// MarkAllRead flags every unread notification of recipientID and
	// returns how many changed.
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, ticket_id, message, is_read)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.RecipientID,
		notification.TicketID,
		notification.Message,
		notification.IsRead,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	if !validID(recipientID) {
		return nil, nil
	}
	const query = `
        SELECT id, recipient_id, ticket_id, message, is_read, created_at
        FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.TicketID,
			&n.Message,
			&n.IsRead,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	if !validID(recipientID) {
		return 0, nil
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE recipient_id=$1 AND is_read=FALSE`, recipientID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
