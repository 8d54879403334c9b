package repository

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/service-bay/ticket-service/internal/domain"
)

func newUser(t *testing.T, store *MemoryStore, email string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Role: role, IsActive: true}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func TestMemoryUsers_EmailUniqueCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := newUser(t, store, "Jane@Example.com", domain.RoleCustomer)
	assert.Equal(t, "jane@example.com", first.Email)

	err := store.Users().Create(ctx, &domain.User{Email: "JANE@example.com ", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := store.Users().GetByEmail(ctx, "JANE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestMemoryUsers_UpdateRejectsTakenEmail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	newUser(t, store, "a@example.com", domain.RoleCustomer)
	b := newUser(t, store, "b@example.com", domain.RoleCustomer)

	b.Email = "a@example.com"
	assert.ErrorIs(t, store.Users().Update(ctx, b), ErrDuplicateEmail)

	b.Email = "c@example.com"
	require.NoError(t, store.Users().Update(ctx, b))
	_, err := store.Users().GetByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryUsers_ListFiltersAndPages(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	newUser(t, store, "c1@example.com", domain.RoleCustomer)
	newUser(t, store, "t1@example.com", domain.RoleTechnician)
	newUser(t, store, "c2@example.com", domain.RoleCustomer)

	role := domain.RoleCustomer
	users, total, err := store.Users().List(ctx, UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, "c1@example.com", users[0].Email)

	users, total, err = store.Users().List(ctx, UserFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "t1@example.com", users[0].Email)

	users, _, err = store.Users().List(ctx, UserFilter{Search: "T1"})
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestMemoryTickets_SequencePerCreator(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	alice := newUser(t, store, "alice@example.com", domain.RoleCustomer)
	bob := newUser(t, store, "bob@example.com", domain.RoleCustomer)

	for i, creator := range []string{alice.ID, bob.ID, alice.ID} {
		ticket := &domain.Ticket{Title: "t", CreatedBy: creator}
		require.NoError(t, store.Tickets().Create(ctx, ticket))
		want := map[int]int{0: 1, 1: 1, 2: 2}[i]
		assert.Equal(t, want, ticket.CustomerTicketID)
	}
}

func TestMemoryTickets_ConcurrentCreatesGetDistinctSequence(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	creator := newUser(t, store, "busy@example.com", domain.RoleCustomer)

	const n = 50
	ids := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ticket := &domain.Ticket{Title: "t", CreatedBy: creator.ID}
			if err := store.Tickets().Create(ctx, ticket); err == nil {
				ids[i] = ticket.CustomerTicketID
			}
		}(i)
	}
	wg.Wait()

	sort.Ints(ids)
	for i, id := range ids {
		assert.Equal(t, i+1, id)
	}
}

func TestMemoryTickets_ListNewestFirstWithScope(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	owner := newUser(t, store, "owner@example.com", domain.RoleCustomer)
	tech := newUser(t, store, "tech@example.com", domain.RoleTechnician)

	first := &domain.Ticket{Title: "first", CreatedBy: owner.ID, AssignedTo: &tech.ID}
	require.NoError(t, store.Tickets().Create(ctx, first))
	second := &domain.Ticket{Title: "second", CreatedBy: owner.ID}
	require.NoError(t, store.Tickets().Create(ctx, second))
	clock = clock.Add(time.Minute)
	third := &domain.Ticket{Title: "third", CreatedBy: tech.ID}
	require.NoError(t, store.Tickets().Create(ctx, third))

	all, err := store.Tickets().List(ctx, TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{all[0].Title, all[1].Title, all[2].Title})

	mine, err := store.Tickets().List(ctx, TicketFilter{CreatedBy: &owner.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	assigned, err := store.Tickets().List(ctx, TicketFilter{AssignedTo: &tech.ID})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, first.ID, assigned[0].ID)

	page, err := store.Tickets().List(ctx, TicketFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "first", page[0].Title)

	count, err := store.Tickets().Count(ctx, TicketFilter{CreatedBy: &owner.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryTickets_UpdateKeepsImmutableFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := newUser(t, store, "owner@example.com", domain.RoleCustomer)

	ticket := &domain.Ticket{Title: "t", CreatedBy: owner.ID, Status: domain.TicketStatusOpen}
	require.NoError(t, store.Tickets().Create(ctx, ticket))

	changed := *ticket
	changed.CreatedBy = "someone-else"
	changed.CustomerTicketID = 99
	changed.Status = domain.TicketStatusScheduled
	require.NoError(t, store.Tickets().Update(ctx, &changed))

	got, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.CreatedBy)
	assert.Equal(t, 1, got.CustomerTicketID)
	assert.Equal(t, domain.TicketStatusScheduled, got.Status)

	_, err = store.Tickets().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryNotifications_MarkAllRead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	repo := store.Notifications()

	require.NoError(t, repo.Create(ctx, &domain.Notification{RecipientID: "u1", Message: "one"}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{RecipientID: "u2", Message: "other"}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{RecipientID: "u1", Message: "two"}))

	list, err := repo.ListByRecipient(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "two", list[0].Message)

	changed, err := repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	changed, err = repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)

	others, err := repo.ListByRecipient(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].IsRead)
}

func TestMemoryStats_Snapshot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	owner := newUser(t, store, "c@example.com", domain.RoleCustomer)
	newUser(t, store, "t@example.com", domain.RoleTechnician)
	newUser(t, store, "a@example.com", domain.RoleAdmin)
	newUser(t, store, "a2@example.com", domain.RoleAdmin)

	for _, status := range []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusCompleted} {
		require.NoError(t, store.Tickets().Create(ctx, &domain.Ticket{Title: "t", CreatedBy: owner.ID, Status: status}))
	}

	stats, err := store.Stats().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		TotalTickets:      4,
		OpenTickets:       2,
		InProgressTickets: 1,
		TotalCustomers:    1,
		TotalTechnicians:  1,
		TotalAdmins:       2,
	}, *stats)
}
