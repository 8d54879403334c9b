package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReplayGuard_SingleUse(t *testing.T) {
	guard := NewMemoryReplayGuard()
	ctx := context.Background()

	require.NoError(t, guard.Consume(ctx, "jti-1", time.Hour))
	assert.ErrorIs(t, guard.Consume(ctx, "jti-1", time.Hour), ErrTokenReused)
	assert.NoError(t, guard.Consume(ctx, "jti-2", time.Hour))
}

func TestMemoryReplayGuard_ForgetsExpiredIDs(t *testing.T) {
	guard := NewMemoryReplayGuard()
	ctx := context.Background()
	now := time.Now()
	guard.now = func() time.Time { return now }

	require.NoError(t, guard.Consume(ctx, "jti-1", time.Minute))

	guard.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.NoError(t, guard.Consume(ctx, "jti-1", time.Minute))
}
