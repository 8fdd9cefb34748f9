package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"task-manager/internal/auth"
	"task-manager/internal/models"
	"task-manager/internal/storage"
)

// SessionDuration is how long a login session lasts.
const SessionDuration = 24 * time.Hour

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// AuthService handles registration, login and session validation.
type AuthService struct {
	db *storage.DB
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *storage.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a new user-role account with the four default
// categories. It does not log the account in.
func (s *AuthService) Register(username, email, password, confirmPassword string) (*models.User, error) {
	if username == "" || email == "" || password == "" || confirmPassword == "" {
		return nil, validationf("all fields are required")
	}
	if password != confirmPassword {
		return nil, validationf("passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return nil, validationf("password must be at least %d characters", MinPasswordLength)
	}

	exists, err := s.db.UserExists(username, email)
	if err != nil {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if exists {
		return nil, ErrConflict
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.db.CreateUser(username, email, hash, models.RoleUser, models.DefaultCategories())
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// LoginResult holds the identity and session established by a successful login.
type LoginResult struct {
	Identity  models.Identity
	Token     string
	ExpiresAt time.Time
}

// Login looks up an account by username or email and verifies the
// password. On success it creates a session and returns the identity
// together with the session token.
func (s *AuthService) Login(identifier, password string) (*LoginResult, error) {
	user, err := s.db.GetUserByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	expiresAt := time.Now().Add(SessionDuration)
	if err := s.db.CreateSession(token, user.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &LoginResult{
		Identity: models.Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout destroys the session. A destruction failure is logged and not
// surfaced; the caller proceeds to the login surface either way.
func (s *AuthService) Logout(token string) {
	if token == "" {
		return
	}
	if err := s.db.DeleteSession(token); err != nil {
		log.Printf("Failed to delete session: %v", err)
	}
}

// ValidateSession resolves a token to an identity. When the session is
// past the halfway point of its lifetime it is renewed; the returned
// expiry is non-nil in that case so the caller can refresh its cookie.
func (s *AuthService) ValidateSession(token string) (*models.Identity, *time.Time, error) {
	info, err := s.db.ValidateSessionWithInfo(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("validating session: %w", err)
	}

	// Rolling session: renew once the remaining lifetime drops below half.
	// Keeps active users logged in while inactive sessions still expire.
	now := time.Now()
	if info.ExpiresAt.Sub(now) < SessionDuration/2 {
		newExpiresAt := now.Add(SessionDuration)
		if err := s.db.RenewSession(token, newExpiresAt); err == nil {
			return info.Identity, &newExpiresAt, nil
		}
		// If renewal fails, just continue with the current session
	}

	return info.Identity, nil, nil
}
