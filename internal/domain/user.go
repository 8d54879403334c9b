package domain

import (
	"strings"
	"time"
)

// UserRole is the closed set of account roles.
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleTechnician UserRole = "technician"
	RoleAdmin      UserRole = "admin"
)

// Roles lists every valid role.
var Roles = []UserRole{RoleCustomer, RoleTechnician, RoleAdmin}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// CanBeAssigned reports whether users with this role may own ticket work.
func (r UserRole) CanBeAssigned() bool {
	return r == RoleTechnician || r == RoleAdmin
}

// User is an account in the directory.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PhoneNumber  *string
	Role         UserRole
	IsActive     bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name, trimming blanks.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName is the full name, falling back to the email.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}

// Actor returns the identity used for authorization decisions.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// Actor is the authenticated identity performing a request.
type Actor struct {
	ID   string
	Role UserRole
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
