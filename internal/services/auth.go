package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkraev/tubewave/internal/jwt"
	"github.com/mkraev/tubewave/internal/logger"
	"github.com/mkraev/tubewave/internal/models"
	"github.com/mkraev/tubewave/internal/repositories"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCredentials   = errors.New("username and password must not be empty")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, passwordHash string) (*models.UserDB, error)
}

// Tokener defines the token operations the auth service needs.
type Tokener interface {
	Generate(ctx context.Context, userID int64, isAdmin bool) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// SessionRevoker marks issued tokens as logged out.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AuthService handles registration, login and logout. It is the only
// component that decides whether a (username, password) pair may open
// a session.
type AuthService struct {
	reader   UserReader
	writer   UserWriter
	tokener  Tokener
	sessions SessionRevoker
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, tokener Tokener, sessions SessionRevoker) *AuthService {
	return &AuthService{
		reader:   reader,
		writer:   writer,
		tokener:  tokener,
		sessions: sessions,
	}
}

// Register creates a new user with a bcrypt-hashed password. Usernames are
// matched exactly, no trimming or case folding. The pre-check keeps the
// common path cheap, but the unique constraint in the write repository is
// what decides concurrent signups.
func (svc *AuthService) Register(ctx context.Context, username, password string) (*models.UserDB, error) {
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if user != nil {
		logger.Log.Infow("user already exists", "username", username)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	created, err := svc.writer.Save(ctx, username, string(hashedPassword))
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			logger.Log.Infow("username taken at write time", "username", username)
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	return created, nil
}

// Login authenticates a user and returns a signed session token. A missing
// user and a wrong password produce the same error so failed logins never
// reveal whether the username exists.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Infow("login for unknown user", "username", username)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("password mismatch", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.tokener.Generate(ctx, user.UserID, user.IsAdmin)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// Logout revokes the token's session for the remainder of its lifetime.
func (svc *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := svc.tokener.GetClaims(ctx, tokenString)
	if err != nil {
		logger.Log.Infow("logout with invalid token", "err", err)
		return ErrInvalidToken
	}

	if err := svc.sessions.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		logger.Log.Errorw("failed to revoke session", "err", err)
		return err
	}

	return nil
}
