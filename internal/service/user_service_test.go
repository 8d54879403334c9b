package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/service-bay/ticket-service/internal/auth"
	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/pkg/util/optional"
)

func TestRegister_DefaultsToActiveCustomer(t *testing.T) {
	f := newFixture(t)
	inactive := false

	user, err := f.users.Register(context.Background(), UserCreateInput{
		Email:     " New.User@Example.com ",
		Password:  "s3cret-pass",
		FirstName: "New",
		IsActive:  &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "new.user@example.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "s3cret-pass"))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, UserCreateInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = f.users.Register(ctx, UserCreateInput{Email: "A@EXAMPLE.COM", Password: "pw"})
	requireCode(t, err, "VALIDATION_FAILED")
	assert.Equal(t, msgEmailTaken, detailsOf(t, err)["email"])

	_, err = f.users.Register(ctx, UserCreateInput{Email: "not-an-email"})
	requireCode(t, err, "VALIDATION_FAILED")
	details := detailsOf(t, err)
	assert.Equal(t, msgInvalidMail, details["email"])
	assert.Equal(t, msgRequired, details["password"])
}

func TestCreateUser_AdminChoosesRoleAndActivity(t *testing.T) {
	f := newFixture(t)
	role := domain.RoleTechnician
	inactive := false

	user, err := f.users.CreateUser(context.Background(), UserCreateInput{
		Email:    "tech@example.com",
		Password: "pw",
		Role:     &role,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, user.Role)
	assert.False(t, user.IsActive)

	bad := domain.UserRole("Owner")
	_, err = f.users.CreateUser(context.Background(), UserCreateInput{Email: "x@example.com", Password: "pw", Role: &bad})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestUpdateUser_AdminSelfProtection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", domain.RoleAdmin)
	other := f.user(t, "other-admin@example.com", domain.RoleAdmin)

	_, err := f.users.UpdateUser(ctx, admin, admin.ID, UserUpdateInput{IsActive: optional.Of(false)})
	requireCode(t, err, "FORBIDDEN")

	_, err = f.users.UpdateUser(ctx, admin, admin.ID, UserUpdateInput{Role: optional.Of(domain.RoleCustomer)})
	requireCode(t, err, "FORBIDDEN")

	same, err := f.users.UpdateUser(ctx, admin, admin.ID, UserUpdateInput{
		Role:      optional.Of(domain.RoleAdmin),
		IsActive:  optional.Of(true),
		FirstName: optional.Of("Ada"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", same.FirstName)

	demoted, err := f.users.UpdateUser(ctx, admin, other.ID, UserUpdateInput{
		Role:     optional.Of(domain.RoleTechnician),
		IsActive: optional.Of(false),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, demoted.Role)
	assert.False(t, demoted.IsActive)
}

func TestUpdateUser_FieldRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", domain.RoleAdmin)
	target := f.user(t, "target@example.com", domain.RoleCustomer)
	f.user(t, "taken@example.com", domain.RoleCustomer)

	_, err := f.users.UpdateUser(ctx, admin, target.ID, UserUpdateInput{Email: optional.Of("taken@example.com")})
	requireCode(t, err, "VALIDATION_FAILED")
	assert.Equal(t, msgEmailTaken, detailsOf(t, err)["email"])

	_, err = f.users.UpdateUser(ctx, admin, target.ID, UserUpdateInput{Replace: true, FirstName: optional.Of("T")})
	requireCode(t, err, "VALIDATION_FAILED")
	assert.Equal(t, msgRequired, detailsOf(t, err)["email"])

	updated, err := f.users.UpdateUser(ctx, admin, target.ID, UserUpdateInput{
		Password:    optional.Of("rotated"),
		PhoneNumber: optional.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.PhoneNumber)
	assert.NoError(t, auth.ComparePassword(updated.PasswordHash, "rotated"))

	_, err = f.users.UpdateUser(ctx, admin, "00000000-0000-0000-0000-000000000000", UserUpdateInput{})
	requireCode(t, err, "NOT_FOUND")
}

func TestListUsers_FilterAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		f.user(t, fmt.Sprintf("customer%02d@example.com", i), domain.RoleCustomer)
	}
	f.user(t, "tech@example.com", domain.RoleTechnician)

	page, err := f.users.ListUsers(ctx, UserListFilter{Role: "customer"})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Info.Count)
	assert.Len(t, page.Items, 10)
	assert.True(t, page.Info.HasNext)

	last, err := f.users.ListUsers(ctx, UserListFilter{Role: "customer", Page: PageRequest{Page: LastPage}})
	require.NoError(t, err)
	assert.Equal(t, 2, last.Info.Page)
	assert.Len(t, last.Items, 2)

	techs, err := f.users.ListUsers(ctx, UserListFilter{Search: "TECH"})
	require.NoError(t, err)
	require.Len(t, techs.Items, 1)
	assert.Equal(t, "tech@example.com", techs.Items[0].Email)

	none, err := f.users.ListUsers(ctx, UserListFilter{Role: "Wizard"})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.NotNil(t, none.Items)

	_, err = f.users.ListUsers(ctx, UserListFilter{Page: PageRequest{Page: 9}})
	requireCode(t, err, "NOT_FOUND")
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.EnsureAdmin(ctx, "root@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.users.EnsureAdmin(ctx, "ROOT@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := f.store.Users().GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash, "pw"))
}
