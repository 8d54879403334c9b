package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/service-bay/ticket-service/internal/domain"
)

// MemoryStore keeps every aggregate in process memory behind one lock.
// It backs the service when no database DSN is configured and in tests.
type MemoryStore struct {
	mu            sync.RWMutex
	seq           uint64
	users         map[string]*memoryUser
	emails        map[string]string
	tickets       map[string]*memoryTicket
	notifications []*memoryNotification
	now           func() time.Time
}

type memoryUser struct {
	user domain.User
	seq  uint64
}

type memoryTicket struct {
	ticket domain.Ticket
	seq    uint64
}

type memoryNotification struct {
	notification domain.Notification
	seq          uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*memoryUser),
		emails:  make(map[string]string),
		tickets: make(map[string]*memoryTicket),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Users exposes the store as a UserRepository.
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Tickets exposes the store as a TicketRepository.
func (s *MemoryStore) Tickets() TicketRepository { return memoryTickets{s} }

// Notifications exposes the store as a NotificationRepository.
func (s *MemoryStore) Notifications() NotificationRepository { return memoryNotifications{s} }

// Stats exposes the store as a StatsRepository.
func (s *MemoryStore) Stats() StatsRepository { return memoryStats{s} }

func (s *MemoryStore) next() uint64 {
	s.seq++
	return s.seq
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(_ context.Context, user *domain.User) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, taken := s.emails[email]; taken {
		return ErrDuplicateEmail
	}
	now := s.now()
	user.ID = uuid.NewString()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = &memoryUser{user: *user, seq: s.next()}
	s.emails[email] = user.ID
	return nil
}

func (m memoryUsers) Update(_ context.Context, user *domain.User) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	email := domain.NormalizeEmail(user.Email)
	if owner, taken := s.emails[email]; taken && owner != user.ID {
		return ErrDuplicateEmail
	}
	delete(s.emails, stored.user.Email)
	s.emails[email] = user.ID

	user.Email = email
	user.CreatedAt = stored.user.CreatedAt
	user.UpdatedAt = s.now()
	stored.user = *user
	return nil
}

func (m memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := stored.user
	return &user, nil
}

func (m memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[domain.NormalizeEmail(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := s.users[id].user
	return &user, nil
}

func (m memoryUsers) GetByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if stored, ok := s.users[id]; ok {
			user := stored.user
			result[id] = &user
		}
	}
	return result, nil
}

func (m memoryUsers) List(_ context.Context, filter UserFilter) ([]domain.User, int, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*memoryUser, 0, len(s.users))
	for _, stored := range s.users {
		if filter.Role != nil && stored.user.Role != *filter.Role {
			continue
		}
		if search != "" && !userMatches(&stored.user, search) {
			continue
		}
		matched = append(matched, stored)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	total := len(matched)
	matched = window(matched, filter.Limit, filter.Offset)
	result := make([]domain.User, 0, len(matched))
	for _, stored := range matched {
		result = append(result, stored.user)
	}
	return result, total, nil
}

func userMatches(user *domain.User, search string) bool {
	return strings.Contains(strings.ToLower(user.Email), search) ||
		strings.Contains(strings.ToLower(user.FirstName), search) ||
		strings.Contains(strings.ToLower(user.LastName), search)
}

type memoryTickets struct{ s *MemoryStore }

func (m memoryTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := 0
	for _, stored := range s.tickets {
		if stored.ticket.CreatedBy == ticket.CreatedBy {
			existing++
		}
	}
	now := s.now()
	ticket.ID = uuid.NewString()
	ticket.CustomerTicketID = existing + 1
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	s.tickets[ticket.ID] = &memoryTicket{ticket: *ticket, seq: s.next()}
	return nil
}

func (m memoryTickets) Update(_ context.Context, ticket *domain.Ticket) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.CustomerTicketID = stored.ticket.CustomerTicketID
	ticket.CreatedBy = stored.ticket.CreatedBy
	ticket.CreatedAt = stored.ticket.CreatedAt
	ticket.UpdatedAt = s.now()
	stored.ticket = *ticket
	return nil
}

func (m memoryTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket := stored.ticket
	return &ticket, nil
}

func (m memoryTickets) List(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchTickets(filter)
	matched = window(matched, filter.Limit, filter.Offset)
	result := make([]domain.Ticket, 0, len(matched))
	for _, stored := range matched {
		result = append(result, stored.ticket)
	}
	return result, nil
}

func (m memoryTickets) Count(_ context.Context, filter TicketFilter) (int, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchTickets(filter)), nil
}

// matchTickets returns newest first. Caller holds the lock.
func (s *MemoryStore) matchTickets(filter TicketFilter) []*memoryTicket {
	matched := make([]*memoryTicket, 0, len(s.tickets))
	for _, stored := range s.tickets {
		if filter.CreatedBy != nil && stored.ticket.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.AssignedTo != nil && !stored.ticket.AssignedToUser(*filter.AssignedTo) {
			continue
		}
		matched = append(matched, stored)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.ticket.CreatedAt.Equal(b.ticket.CreatedAt) {
			return a.ticket.CreatedAt.After(b.ticket.CreatedAt)
		}
		return a.seq > b.seq
	})
	return matched
}

type memoryNotifications struct{ s *MemoryStore }

func (m memoryNotifications) Create(_ context.Context, notification *domain.Notification) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	notification.ID = uuid.NewString()
	notification.CreatedAt = s.now()
	s.notifications = append(s.notifications, &memoryNotification{notification: *notification, seq: s.next()})
	return nil
}

func (m memoryNotifications) ListByRecipient(_ context.Context, recipientID string) ([]domain.Notification, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Notification
	// Appended in creation order, so walking backwards yields newest first.
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if n := s.notifications[i].notification; n.RecipientID == recipientID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m memoryNotifications) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	for _, stored := range s.notifications {
		if stored.notification.RecipientID == recipientID && !stored.notification.IsRead {
			stored.notification.IsRead = true
			changed++
		}
	}
	return changed, nil
}

type memoryStats struct{ s *MemoryStore }

func (m memoryStats) Snapshot(_ context.Context) (*domain.DashboardStats, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.DashboardStats
	for _, stored := range s.tickets {
		stats.TotalTickets++
		switch stored.ticket.Status {
		case domain.TicketStatusOpen:
			stats.OpenTickets++
		case domain.TicketStatusInProgress:
			stats.InProgressTickets++
		}
	}
	for _, stored := range s.users {
		switch stored.user.Role {
		case domain.RoleCustomer:
			stats.TotalCustomers++
		case domain.RoleTechnician:
			stats.TotalTechnicians++
		case domain.RoleAdmin:
			stats.TotalAdmins++
		}
	}
	return &stats, nil
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
