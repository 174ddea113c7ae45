package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/events"
	"github.com/spec-kit/cryptid/internal/repository"
)

// ErrRefreshDisabled is returned by Refresh when no refresh lifetime is configured.
var ErrRefreshDisabled = errors.New("refresh tokens are disabled")

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	Access       *auth.IssuedToken
	RefreshToken string
}

// Introspection is the verified content of an access token.
type Introspection struct {
	Claims     *auth.Claims
	UserExists bool
}

// AuthService coordinates login, refresh and token introspection.
type AuthService struct {
	authenticator *auth.Authenticator
	users         repository.UserRepository
	refresh       repository.RefreshTokenRepository
	refreshTTL    time.Duration
	dispatcher    events.Dispatcher
}

// AuthDependencies bundles the collaborators of AuthService. Refresh may be
// nil when RefreshTTL is zero.
type AuthDependencies struct {
	Authenticator *auth.Authenticator
	UserRepo      repository.UserRepository
	RefreshRepo   repository.RefreshTokenRepository
	RefreshTTL    time.Duration
	Dispatcher    events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		authenticator: deps.Authenticator,
		users:         deps.UserRepo,
		refresh:       deps.RefreshRepo,
		refreshTTL:    deps.RefreshTTL,
		dispatcher:    deps.Dispatcher,
	}
}

// RefreshEnabled reports whether logins hand out refresh tokens.
func (s *AuthService) RefreshEnabled() bool {
	return s.refresh != nil && s.refreshTTL > 0
}

// Login authenticates a user by id and password.
func (s *AuthService) Login(ctx context.Context, subjectID, password string) (*TokenPair, error) {
	access, cred, err := s.authenticator.Authenticate(ctx, subjectID, password)
	if err != nil {
		return nil, err
	}
	return s.completePair(ctx, cred.SubjectID, cred.Roles, access, false)
}

// Refresh exchanges a single-use refresh token for a new pair carrying the
// user's current roles.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if !s.RefreshEnabled() {
		return nil, ErrRefreshDisabled
	}
	subjectID, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: refresh token is unknown, used or expired", auth.ErrUnauthorized)
		}
		return nil, err
	}
	cred, err := s.users.FindCredential(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", auth.ErrUnauthorized)
		}
		return nil, err
	}
	access, err := s.authenticator.Issue(cred.SubjectID, cred.Roles)
	if err != nil {
		return nil, err
	}
	return s.completePair(ctx, cred.SubjectID, cred.Roles, access, true)
}

func (s *AuthService) completePair(ctx context.Context, subjectID string, roles []string, access *auth.IssuedToken, refreshed bool) (*TokenPair, error) {
	pair := &TokenPair{Access: access}
	if s.RefreshEnabled() {
		token, err := s.refresh.Create(ctx, subjectID, s.refreshTTL)
		if err != nil {
			return nil, err
		}
		pair.RefreshToken = token.Token
	}

	ctx = events.WithActor(ctx, subjectID)
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventTokenIssued, subjectID, events.TokenIssuedPayload{
		Roles:     roles,
		ExpiresAt: access.ExpiresAt,
		Refreshed: refreshed,
	}))
	return pair, nil
}

// Introspect verifies an access token and reports whether its subject still exists.
func (s *AuthService) Introspect(ctx context.Context, accessToken string) (*Introspection, error) {
	claims, err := s.authenticator.Tokens().Decode(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
	}
	_, err = s.users.GetByID(ctx, claims.Subject)
	switch {
	case err == nil:
		return &Introspection{Claims: claims, UserExists: true}, nil
	case errors.Is(err, domain.ErrNotFound):
		return &Introspection{Claims: claims, UserExists: false}, nil
	default:
		return nil, err
	}
}
