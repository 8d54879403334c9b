package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/service-bay/ticket-service/internal/auth"
	"github.com/service-bay/ticket-service/internal/repository"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
)

const noActiveAccount = "No active account found with the given credentials. Please try again."

// AuthService issues and rotates token pairs.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	replay   auth.ReplayGuard
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	ReplayGuard  auth.ReplayGuard
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	replay := deps.ReplayGuard
	if replay == nil {
		replay = auth.NewMemoryReplayGuard()
	}
	return &AuthService{
		users:    deps.UserRepo,
		tokenMgr: deps.TokenManager,
		replay:   replay,
		logger:   logger,
		now:      time.Now,
	}
}

// Login exchanges credentials of an active user for a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	errs := fieldErrors{}
	if strings.TrimSpace(email) == "" {
		errs.add("email", msgRequired)
	}
	if password == "" {
		errs.add("password", msgRequired)
	}
	if err := errs.err(); err != nil {
		return auth.TokenPair{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenPair{}, apperrors.NewUnauthorized(noActiveAccount)
		}
		return auth.TokenPair{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("password check failed", zap.String("user_id", user.ID), zap.Error(err))
		}
		return auth.TokenPair{}, apperrors.NewUnauthorized(noActiveAccount)
	}
	if !user.IsActive {
		return auth.TokenPair{}, apperrors.NewUnauthorized(noActiveAccount)
	}

	return s.tokenMgr.IssuePair(user)
}

// Refresh consumes a refresh token and returns a new pair. Each refresh
// token can be exchanged once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return auth.TokenPair{}, apperrors.NewFieldErrors(map[string]string{"refresh": msgRequired})
	}

	claims, err := s.tokenMgr.ParseRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, apperrors.NewUnauthorized("Token is invalid or expired")
	}

	ttl := s.tokenMgr.RefreshTTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.replay.Consume(ctx, claims.ID, ttl); err != nil {
		if errors.Is(err, auth.ErrTokenReused) {
			s.logger.Warn("refresh token replayed", zap.String("user_id", claims.UserID), zap.String("jti", claims.ID))
			return auth.TokenPair{}, apperrors.NewUnauthorized("Token is blacklisted")
		}
		return auth.TokenPair{}, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenPair{}, apperrors.NewUnauthorized(noActiveAccount)
		}
		return auth.TokenPair{}, err
	}
	if !user.IsActive {
		return auth.TokenPair{}, apperrors.NewUnauthorized(noActiveAccount)
	}

	return s.tokenMgr.IssuePair(user)
}
