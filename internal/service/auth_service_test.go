package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/events"
	"github.com/spec-kit/cryptid/internal/repository/fake"
)

type authFixture struct {
	svc     *AuthService
	users   *UserService
	refresh *fake.RefreshTokenRepository
	rec     *recorder
}

func newAuthFixture(t *testing.T, refreshTTL time.Duration) *authFixture {
	t.Helper()
	userRepo := fake.NewUserRepository()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	refresh := fake.NewRefreshTokenRepository()
	dispatcher, rec := newRecordingDispatcher(t)

	authenticator := auth.NewAuthenticator(userRepo, hasher, auth.NewTokenCodec("test-secret", nil), 15*time.Minute)
	svc := NewAuthService(AuthDependencies{
		Authenticator: authenticator,
		UserRepo:      userRepo,
		RefreshRepo:   refresh,
		RefreshTTL:    refreshTTL,
		Dispatcher:    dispatcher,
	})
	return &authFixture{
		svc:     svc,
		users:   NewUserService(userRepo, hasher, nil),
		refresh: refresh,
		rec:     rec,
	}
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, 0)

	user, err := f.users.Create(ctx, SignUpInput{Name: "van helsing", Password: "stake", Roles: []string{"user", "admin"}})
	require.NoError(t, err)

	pair, err := f.svc.Login(ctx, user.ID, "stake")
	require.NoError(t, err)
	assert.Empty(t, pair.RefreshToken)
	require.NotNil(t, pair.Access.ExpiresIn)

	issued := f.rec.last(t)
	assert.Equal(t, events.EventTokenIssued, issued.Type)
	assert.Equal(t, user.ID, issued.ActorID)

	_, err = f.svc.Login(ctx, user.ID, "garlic")
	require.ErrorIs(t, err, auth.ErrAuthentication)

	_, err = f.svc.Login(ctx, "no-such-user", "stake")
	require.ErrorIs(t, err, auth.ErrAuthentication)

	_, err = f.svc.Refresh(ctx, "anything")
	require.ErrorIs(t, err, ErrRefreshDisabled)
}

func TestAuthServiceRefreshRotates(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour)

	user, err := f.users.Create(ctx, SignUpInput{Name: "jonathan", Password: "pw"})
	require.NoError(t, err)

	pair, err := f.svc.Login(ctx, user.ID, "pw")
	require.NoError(t, err)
	require.NotEmpty(t, pair.RefreshToken)

	_, err = f.users.Modify(ctx, user.ID, domain.UserPatch{Roles: []string{"user", "admin"}})
	require.NoError(t, err)

	next, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	introspection, err := f.svc.Introspect(ctx, next.Access.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "admin"}, introspection.Claims.Roles)
	assert.True(t, introspection.UserExists)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestAuthServiceRefreshExpired(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute)

	user, err := f.users.Create(ctx, SignUpInput{Name: "renfield", Password: "pw"})
	require.NoError(t, err)
	pair, err := f.svc.Login(ctx, user.ID, "pw")
	require.NoError(t, err)

	f.refresh.Now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestAuthServiceRefreshDeletedUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour)

	user, err := f.users.Create(ctx, SignUpInput{Name: "lucy", Password: "pw"})
	require.NoError(t, err)
	pair, err := f.svc.Login(ctx, user.ID, "pw")
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, user.ID))

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrUnauthorized)

	introspection, err := f.svc.Introspect(ctx, pair.Access.AccessToken)
	require.NoError(t, err)
	assert.False(t, introspection.UserExists)
}

func TestAuthServiceIntrospectRejectsGarbage(t *testing.T) {
	f := newAuthFixture(t, 0)

	_, err := f.svc.Introspect(context.Background(), "not.a.token")
	require.ErrorIs(t, err, auth.ErrUnauthorized)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}
