package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/service-bay/ticket-service/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:        "2f0a3b8e-8d4a-4b7c-9f4e-6d2f3c1a0b9e",
		Email:     "tech@example.com",
		FirstName: "Tess",
		Role:      domain.RoleTechnician,
		IsActive:  true,
	}
}

func TestTokenManager_IssuePairCarriesClaims(t *testing.T) {
	tm := NewTokenManager("secret", 5*time.Minute, 24*time.Hour)

	pair, err := tm.IssuePair(testUser())
	require.NoError(t, err)

	claims, err := tm.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "2f0a3b8e-8d4a-4b7c-9f4e-6d2f3c1a0b9e", claims.UserID)
	assert.Equal(t, "tech@example.com", claims.Email)
	assert.Equal(t, domain.RoleTechnician, claims.UserRole)
	assert.Equal(t, "Tess", claims.FirstName)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)

	refresh, err := tm.ParseRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestTokenManager_RejectsWrongType(t *testing.T) {
	tm := NewTokenManager("secret", 0, 0)
	pair, err := tm.IssuePair(testUser())
	require.NoError(t, err)

	_, err = tm.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = tm.ParseRefresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute, time.Hour)
	issued := time.Now()
	tm.now = func() time.Time { return issued }

	pair, err := tm.IssuePair(testUser())
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenManager("other-secret", time.Minute, time.Hour)
	_, err = other.ParseRefresh(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.ParseAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
