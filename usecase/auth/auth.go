// Package auth covers registration, login, token issuance and profile
// maintenance. Access tokens are stateless JWTs; refresh tokens are opaque
// session ids stored in Redis so a logout can revoke them immediately.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

const (
	minPasswordLen = 6
	accessTokenTTL = 15 * time.Minute
	refreshTTL     = 7 * 24 * time.Hour
)

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	logger   *zap.Logger
	now      func() time.Time
}

func New(users repository.UserRepository, sessions repository.SessionRepository, secret, issuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		issuer:   issuer,
		logger:   logger,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Credentials struct {
	Email    string
	Password string
}

// TokenPair carries a short-lived JWT and the opaque refresh session id.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Register creates a member account and signs the user in.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, nil, domain.NewError(domain.ErrCodeInvalid, "name and email are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, nil, domain.NewError(domain.ErrCodeInvalid, "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	now := uc.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.UserRoleMember,
		Teams:        []string{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user, err = uc.users.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair. The credential
// check never reveals whether the email or the password was wrong.
func (uc *UseCase) Login(ctx context.Context, creds Credentials) (*domain.User, *TokenPair, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, domain.ErrAccountDisabled
	}

	now := uc.now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, pair, nil
}

// Refresh exchanges a live refresh session for a new access token and extends
// the session window.
func (uc *UseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	session, err := uc.sessions.Get(ctx, refreshToken)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.IsExpired(uc.now()) {
		_ = uc.sessions.Delete(ctx, refreshToken)
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		_ = uc.sessions.Delete(ctx, refreshToken)
		return nil, domain.ErrAccountDisabled
	}

	if err := uc.sessions.Extend(ctx, refreshToken, int(refreshTTL.Seconds())); err != nil {
		return nil, err
	}
	access, expiresAt, err := uc.signAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken, ExpiresAt: expiresAt}, nil
}

// Logout revokes the refresh session. Revoking an unknown session is not an
// error.
func (uc *UseCase) Logout(ctx context.Context, refreshToken string) error {
	err := uc.sessions.Delete(ctx, refreshToken)
	if err != nil && domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil
	}
	return err
}

// Profile returns the authenticated user.
func (uc *UseCase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name   *string
	Avatar *string
}

// UpdateProfile applies partial changes to the caller's own record.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "name cannot be empty")
		}
		user.Name = name
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword rotates the password after verifying the current one.
func (uc *UseCase) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.NewError(domain.ErrCodeUnauthorized, "current password is incorrect")
	}
	if len(next) < minPasswordLen {
		return domain.NewError(domain.ErrCodeInvalid, "password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = uc.now()
	return uc.users.Update(ctx, user)
}

func (uc *UseCase) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, expiresAt, err := uc.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(refreshTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: session.ID, ExpiresAt: expiresAt}, nil
}

func (uc *UseCase) signAccessToken(user *domain.User) (string, time.Time, error) {
	now := uc.now()
	expiresAt := now.Add(accessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"iss":     uc.issuer,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString(uc.secret)
	if err != nil {
		return "", time.Time{}, domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}
	return signed, expiresAt, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
