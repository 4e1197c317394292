package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository/memory"
)

const testSecret = "test-secret"

func newUseCase() (*UseCase, *memory.Store) {
	store := memory.NewStore()
	return New(store.Users(), memory.NewSessionRepository(), testSecret, "taskwise", nil), store
}

func register(t *testing.T, uc *UseCase, email string) (*domain.User, *TokenPair) {
	t.Helper()
	user, pair, err := uc.Register(context.Background(), RegisterInput{
		Name: "Test User", Email: email, Password: "hunter22",
	})
	require.NoError(t, err)
	return user, pair
}

func TestRegisterIssuesTokens(t *testing.T) {
	uc, _ := newUseCase()

	user, pair := register(t, uc, "New@Example.COM")
	assert.Equal(t, "new@example.com", user.Email, "email is normalized")
	assert.Equal(t, domain.UserRoleMember, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.False(t, pair.ExpiresAt.IsZero())

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "new@example.com", claims["email"])
	assert.Equal(t, string(domain.UserRoleMember), claims["role"])
	assert.Equal(t, "taskwise", claims["iss"])
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	uc, _ := newUseCase()

	_, _, err := uc.Register(context.Background(), RegisterInput{
		Name: "Test", Email: "a@b.com", Password: "12345",
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	uc, _ := newUseCase()

	register(t, uc, "dup@example.com")
	_, _, err := uc.Register(context.Background(), RegisterInput{
		Name: "Other", Email: "dup@example.com", Password: "hunter22",
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestLoginRoundTrip(t *testing.T) {
	uc, _ := newUseCase()
	registered, _ := register(t, uc, "login@example.com")

	user, pair, err := uc.Login(context.Background(), Credentials{
		Email: "LOGIN@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotNil(t, user.LastLogin)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _ := newUseCase()
	register(t, uc, "login@example.com")

	_, _, err := uc.Login(context.Background(), Credentials{
		Email: "login@example.com", Password: "not-it",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	uc, _ := newUseCase()

	_, _, err := uc.Login(context.Background(), Credentials{
		Email: "ghost@example.com", Password: "hunter22",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	uc, store := newUseCase()
	user, _ := register(t, uc, "gone@example.com")

	user.IsActive = false
	require.NoError(t, store.Users().Update(context.Background(), user))

	_, _, err := uc.Login(context.Background(), Credentials{
		Email: "gone@example.com", Password: "hunter22",
	})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
}

func TestRefreshRotatesAccessToken(t *testing.T) {
	uc, _ := newUseCase()
	_, pair := register(t, uc, "refresh@example.com")

	next, err := uc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)
	assert.Equal(t, pair.RefreshToken, next.RefreshToken, "the session id survives a refresh")
}

func TestRefreshUnknownSession(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Refresh(context.Background(), "no-such-session")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestLogoutRevokesSession(t *testing.T) {
	uc, _ := newUseCase()
	_, pair := register(t, uc, "bye@example.com")

	require.NoError(t, uc.Logout(context.Background(), pair.RefreshToken))
	_, err := uc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	// revoking twice is fine
	assert.NoError(t, uc.Logout(context.Background(), pair.RefreshToken))
}

func TestChangePassword(t *testing.T) {
	uc, _ := newUseCase()
	user, _ := register(t, uc, "rotate@example.com")
	ctx := context.Background()

	err := uc.ChangePassword(ctx, user.ID, "wrong", "newpassword")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	err = uc.ChangePassword(ctx, user.ID, "hunter22", "short")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	require.NoError(t, uc.ChangePassword(ctx, user.ID, "hunter22", "newpassword"))
	_, _, err = uc.Login(ctx, Credentials{Email: "rotate@example.com", Password: "newpassword"})
	assert.NoError(t, err)
	_, _, err = uc.Login(ctx, Credentials{Email: "rotate@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	uc, _ := newUseCase()
	user, _ := register(t, uc, "profile@example.com")
	ctx := context.Background()

	name := "Renamed"
	avatar := "https://cdn.example.com/a.png"
	updated, err := uc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: &name, Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, avatar, updated.Avatar)

	empty := "   "
	_, err = uc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: &empty})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
