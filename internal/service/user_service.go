package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/service-bay/ticket-service/internal/auth"
	"github.com/service-bay/ticket-service/internal/config"
	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/repository"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
	"github.com/service-bay/ticket-service/pkg/util/optional"
)

const (
	maxNameLength  = 150
	maxPhoneLength = 20
)

// UserService manages the account directory.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	pages      paginator
	logger     *zap.Logger
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	BcryptCost int
	Pagination config.PaginationConfig
	Logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		bcryptCost: deps.BcryptCost,
		pages:      paginator{cfg: deps.Pagination},
		logger:     logger,
	}
}

// UserCreateInput describes a new account.
type UserCreateInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber *string
	Role        *domain.UserRole
	IsActive    *bool
}

// UserUpdateInput is a partial account update. With Replace set, email
// becomes mandatory.
type UserUpdateInput struct {
	Replace     bool
	Email       optional.Value[string]
	Password    optional.Value[string]
	FirstName   optional.Value[string]
	LastName    optional.Value[string]
	PhoneNumber optional.Value[string]
	Role        optional.Value[domain.UserRole]
	IsActive    optional.Value[bool]
}

// UserListFilter narrows the admin directory listing.
type UserListFilter struct {
	Role   string
	Search string
	Page   PageRequest
}

// UserPage is one page of the admin directory.
type UserPage struct {
	Items []domain.User
	Info  PageInfo
}

// Register creates an account through the public sign-up flow. The role
// defaults to customer.
func (s *UserService) Register(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	input.IsActive = nil
	return s.create(ctx, input)
}

// CreateUser creates an account on behalf of an admin.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	return s.create(ctx, input)
}

func (s *UserService) create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	errs := fieldErrors{}
	user := &domain.User{
		Email:       s.checkEmail(errs, input.Email),
		FirstName:   boundedName(errs, "first_name", input.FirstName),
		LastName:    boundedName(errs, "last_name", input.LastName),
		PhoneNumber: optionalText(errs, "phone_number", input.PhoneNumber, maxPhoneLength),
		Role:        domain.RoleCustomer,
		IsActive:    true,
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			errs.add("user_role", msgInvalidChoice(string(*input.Role)))
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password == "" {
		errs.add("password", msgRequired)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewFieldErrors(map[string]string{"email": msgEmailTaken})
		}
		return nil, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Me returns the actor's own profile.
func (s *UserService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.GetUser(ctx, actor.ID)
}

// GetUser fetches one account.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns one page of accounts ordered by creation.
func (s *UserService) ListUsers(ctx context.Context, filter UserListFilter) (*UserPage, error) {
	repoFilter := repository.UserFilter{Search: filter.Search}
	if role := strings.TrimSpace(filter.Role); role != "" {
		r := domain.UserRole(role)
		repoFilter.Role = &r
	}

	size := s.pages.size(filter.Page)
	page := filter.Page.Page
	switch page {
	case 0:
		page = 1
	case LastPage:
		_, total, err := s.users.List(ctx, repository.UserFilter{Role: repoFilter.Role, Search: repoFilter.Search, Limit: 1})
		if err != nil {
			return nil, err
		}
		page = max((total+size-1)/size, 1)
	}
	if page < 1 {
		return nil, ErrInvalidPage()
	}
	repoFilter.Limit = size
	repoFilter.Offset = (page - 1) * size

	users, total, err := s.users.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	info, _, err := s.pages.resolve(PageRequest{Page: page, PageSize: size}, total)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return &UserPage{Items: users, Info: info}, nil
}

// UpdateUser applies an admin edit. Admins may not deactivate themselves
// or change their own role.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.ID == actor.ID {
		if input.IsActive.Ptr != nil && *input.IsActive.Ptr != user.IsActive {
			return nil, apperrors.NewForbidden("You cannot deactivate your own account.")
		}
		if input.Role.Ptr != nil && *input.Role.Ptr != user.Role {
			return nil, apperrors.NewForbidden("You cannot change your own role.")
		}
	}

	errs := fieldErrors{}
	if input.Replace && !input.Email.Set {
		errs.add("email", msgRequired)
	}
	patchRequired(errs, "email", input.Email, func(v string) {
		user.Email = s.checkEmail(errs, v)
	})
	patchRequired(errs, "first_name", input.FirstName, func(v string) {
		user.FirstName = boundedName(errs, "first_name", v)
	})
	patchRequired(errs, "last_name", input.LastName, func(v string) {
		user.LastName = boundedName(errs, "last_name", v)
	})
	if input.PhoneNumber.Set {
		user.PhoneNumber = optionalText(errs, "phone_number", input.PhoneNumber.Ptr, maxPhoneLength)
	}
	patchRequired(errs, "user_role", input.Role, func(v domain.UserRole) {
		if !v.Valid() {
			errs.add("user_role", msgInvalidChoice(string(v)))
		}
		user.Role = v
	})
	patchRequired(errs, "is_active", input.IsActive, func(v bool) {
		user.IsActive = v
	})
	var newPassword string
	patchRequired(errs, "password", input.Password, func(v string) {
		if v == "" {
			errs.add("password", msgBlank)
		}
		newPassword = v
	})
	if err := errs.err(); err != nil {
		return nil, err
	}

	if newPassword != "" {
		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewFieldErrors(map[string]string{"email": msgEmailTaken})
		}
		return nil, err
	}
	s.logger.Info("user updated",
		zap.String("user_id", user.ID),
		zap.String("actor_id", actor.ID),
		zap.String("role", string(user.Role)),
		zap.Bool("is_active", user.IsActive))
	return user, nil
}

// EnsureAdmin creates an active admin account unless the email is taken.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	role := domain.RoleAdmin
	if _, err := s.create(ctx, UserCreateInput{Email: email, Password: password, Role: &role}); err != nil {
		if emailTaken(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func emailTaken(err error) bool {
	var domainErr *apperrors.DomainError
	return errors.As(err, &domainErr) && domainErr.Details["email"] == msgEmailTaken
}

func (s *UserService) checkEmail(errs fieldErrors, email string) string {
	email = domain.NormalizeEmail(email)
	switch {
	case email == "":
		errs.add("email", msgBlank)
	case !validEmail(email):
		errs.add("email", msgInvalidMail)
	}
	return email
}

func boundedName(errs fieldErrors, field, value string) string {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > maxNameLength {
		errs.add(field, msgMaxLength(maxNameLength))
	}
	return value
}
