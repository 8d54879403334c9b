package dto

import (
	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/service"
	"github.com/service-bay/ticket-service/pkg/util/optional"
)

// CreateUserRequest is used by registration and admin creation.
type CreateUserRequest struct {
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	PhoneNumber *string          `json:"phone_number"`
	Role        *domain.UserRole `json:"user_role"`
	IsActive    *bool            `json:"is_active"`
}

// Input converts the payload for the user service.
func (r CreateUserRequest) Input() service.UserCreateInput {
	return service.UserCreateInput{
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		Role:        r.Role,
		IsActive:    r.IsActive,
	}
}

// UpdateUserRequest is shared by PUT and PATCH on users.
type UpdateUserRequest struct {
	Email       optional.Value[string]          `json:"email"`
	Password    optional.Value[string]          `json:"password"`
	FirstName   optional.Value[string]          `json:"first_name"`
	LastName    optional.Value[string]          `json:"last_name"`
	PhoneNumber optional.Value[string]          `json:"phone_number"`
	Role        optional.Value[domain.UserRole] `json:"user_role"`
	IsActive    optional.Value[bool]            `json:"is_active"`
}

// Input converts the payload; replace marks a full PUT.
func (r UpdateUserRequest) Input(replace bool) service.UserUpdateInput {
	return service.UserUpdateInput{
		Replace:     replace,
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		Role:        r.Role,
		IsActive:    r.IsActive,
	}
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	PhoneNumber *string         `json:"phone_number"`
	Role        domain.UserRole `json:"user_role"`
	IsActive    bool            `json:"is_active"`
}

// NewUserResponse maps a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsActive:    u.IsActive,
	}
}

// NewUserResponses maps a listing.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// TokenRequest payload for login.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenResponse standard response for token endpoints.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
