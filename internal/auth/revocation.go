package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenReused is returned when a refresh token id was already consumed.
var ErrTokenReused = errors.New("refresh token already used")

const refreshReplayPrefix = "auth:refresh:used:"

// ReplayGuard marks refresh token ids as consumed.
type ReplayGuard interface {
	// Consume records jti as used for ttl. It returns ErrTokenReused when
	// jti was consumed before.
	Consume(ctx context.Context, jti string, ttl time.Duration) error
}

// RedisReplayGuard stores consumed ids in Redis so every replica sees them.
type RedisReplayGuard struct {
	client *redis.Client
}

// NewRedisReplayGuard builds a guard on client.
func NewRedisReplayGuard(client *redis.Client) *RedisReplayGuard {
	return &RedisReplayGuard{client: client}
}

func (g *RedisReplayGuard) Consume(ctx context.Context, jti string, ttl time.Duration) error {
	ok, err := g.client.SetNX(ctx, refreshReplayPrefix+jti, "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenReused
	}
	return nil
}

// MemoryReplayGuard keeps consumed ids in process memory.
type MemoryReplayGuard struct {
	mu   sync.Mutex
	used map[string]time.Time
	now  func() time.Time
}

// NewMemoryReplayGuard builds an empty guard.
func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{used: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryReplayGuard) Consume(_ context.Context, jti string, ttl time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for id, expires := range g.used {
		if now.After(expires) {
			delete(g.used, id)
		}
	}
	if _, seen := g.used[jti]; seen {
		return ErrTokenReused
	}
	g.used[jti] = now.Add(ttl)
	return nil
}
