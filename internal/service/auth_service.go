package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/risk-catalog/internal/auth"
	"github.com/spec-kit/risk-catalog/internal/config"
	"github.com/spec-kit/risk-catalog/internal/domain"
	"github.com/spec-kit/risk-catalog/internal/events"
	"github.com/spec-kit/risk-catalog/internal/repository"
	"github.com/spec-kit/risk-catalog/internal/store"
	apperrors "github.com/spec-kit/risk-catalog/pkg/util"
)

// AuthService coordinates registration, login and token validation.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLSeconds),
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new principal with the default role. The caller receives
// the persisted record without a token; logging in is a separate step.
func (s *AuthService) Register(ctx context.Context, email, password, companyName string) (*domain.Principal, error) {
	if _, err := s.users.GetByID(ctx, email); err == nil {
		return nil, apperrors.NewAlreadyExists("user already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	principal := &domain.Principal{
		ID:           email,
		Email:        email,
		Role:         domain.RoleUser,
		CompanyName:  companyName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, principal); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, apperrors.NewAlreadyExists("user already exists")
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventUserRegistered,
		Actor: events.Actor{UserID: principal.ID, Role: principal.Role},
		Payload: events.UserRegisteredPayload{
			Email:       principal.Email,
			CompanyName: principal.CompanyName,
		},
	})
	return principal, nil
}

// Login authenticates a claimed identity against its stored password hash and
// issues a time-boxed token. Unknown identity and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Principal, string, time.Time, error) {
	principal, err := s.users.GetByID(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(principal.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.Issue(principal)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventUserLoggedIn,
		Actor: events.Actor{UserID: principal.ID, Role: principal.Role},
	})
	return principal, token, expiresAt, nil
}

// Validate statelessly re-verifies a bearer token and resolves the principal
// it asserts. Used by external callers to check token liveness.
func (s *AuthService) Validate(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokenMgr.Verify(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	if claims.UserID == "" {
		return nil, apperrors.NewUnauthorized("token carries no user_id")
	}

	principal, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, apperrors.MapError(err)
	}
	return principal, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
