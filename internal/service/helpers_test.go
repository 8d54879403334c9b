package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/service-bay/ticket-service/internal/config"
	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/events"
	"github.com/service-bay/ticket-service/internal/repository"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
	"github.com/service-bay/ticket-service/pkg/util/optional"
)

var testPagination = config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 100}

type fixture struct {
	store         *repository.MemoryStore
	dispatcher    events.Dispatcher
	tickets       *TicketService
	users         *UserService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithNotifications(t, nil)
}

// newFixtureWithNotifications swaps the notification repository when repo is non-nil.
func newFixtureWithNotifications(t *testing.T, repo repository.NotificationRepository) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	if repo == nil {
		repo = store.Notifications()
	}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	notifications := NewNotificationService(repo, zap.NewNop(), nil)
	notifications.RegisterHandlers(dispatcher)

	return &fixture{
		store:      store,
		dispatcher: dispatcher,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo: store.Tickets(),
			UserRepo:   store.Users(),
			Dispatcher: dispatcher,
			Pagination: testPagination,
		}),
		users: NewUserService(UserDependencies{
			UserRepo:   store.Users(),
			BcryptCost: bcrypt.MinCost,
			Pagination: testPagination,
		}),
		notifications: notifications,
	}
}

func (f *fixture) user(t *testing.T, email string, role domain.UserRole) domain.Actor {
	t.Helper()
	user := &domain.User{Email: email, FirstName: "First", LastName: "Last", Role: role, IsActive: true}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return user.Actor()
}

func (f *fixture) ticket(t *testing.T, creator domain.Actor, title string) *TicketDetails {
	t.Helper()
	created, err := f.tickets.CreateTicket(context.Background(), creator, TicketCreateInput{Title: title, Description: "details"})
	require.NoError(t, err)
	return created
}

// assign sets the assignee as admin, bypassing notification assertions.
func (f *fixture) assign(t *testing.T, admin domain.Actor, ticketID string, assignee domain.Actor) {
	t.Helper()
	_, err := f.tickets.UpdateTicket(context.Background(), admin, ticketID, TicketUpdateInput{AssignedTo: optional.Of(assignee.ID)})
	require.NoError(t, err)
}

func (f *fixture) inbox(t *testing.T, actor domain.Actor) []domain.Notification {
	t.Helper()
	items, err := f.notifications.List(context.Background(), actor)
	require.NoError(t, err)
	return items
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T: %v", err, err)
	require.Equal(t, code, domainErr.Code, domainErr.Message)
}

func detailsOf(t *testing.T, err error) map[string]any {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T: %v", err, err)
	return domainErr.Details
}

type failingNotifications struct{}

func (failingNotifications) Create(context.Context, *domain.Notification) error {
	return errors.New("notifications table unavailable")
}

func (failingNotifications) ListByRecipient(context.Context, string) ([]domain.Notification, error) {
	return nil, errors.New("notifications table unavailable")
}

func (failingNotifications) MarkAllRead(context.Context, string) (int64, error) {
	return 0, errors.New("notifications table unavailable")
}
