package service

import (
	"database/sql"
	"errors"
	"fmt"

	"task-manager/internal/auth"
	"task-manager/internal/models"
	"task-manager/internal/storage"
)

// AccountService performs privileged operations on all user accounts.
// Callers are expected to have passed the admin guard before dispatch.
type AccountService struct {
	db *storage.DB
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *storage.DB) *AccountService {
	return &AccountService{db: db}
}

// ListAll returns every account, most-recently-created first, each
// annotated with its total task count. Password hashes are stripped.
func (s *AccountService) ListAll() ([]models.UserWithTaskCount, error) {
	users, err := s.db.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// CreateAccount creates an account with an explicit role, applying the
// same validation and conflict rules as self-registration, and provisions
// the default categories.
func (s *AccountService) CreateAccount(username, email, password, role string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, validationf("all fields are required")
	}
	if len(password) < MinPasswordLength {
		return nil, validationf("password must be at least %d characters", MinPasswordLength)
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, validationf("invalid role %q", role)
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

	user, err := s.db.CreateUser(username, email, hash, role, models.DefaultCategories())
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// UpdateAccount updates an account's profile fields. A non-empty password
// is re-hashed and stored; an empty one leaves the stored hash untouched.
func (s *AccountService) UpdateAccount(id int64, username, email, role, password string) error {
	if username == "" || email == "" {
		return validationf("username and email are required")
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return validationf("invalid role %q", role)
	}

	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		if err := s.db.UpdateUserWithPassword(id, username, email, role, hash); err != nil {
			return fmt.Errorf("updating user: %w", err)
		}
		return nil
	}

	if err := s.db.UpdateUser(id, username, email, role); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// DeleteAccount removes the target account and everything it owns.
// Admins cannot delete their own account.
func (s *AccountService) DeleteAccount(requesterID, targetID int64) error {
	if requesterID == targetID {
		return ErrSelfDeletion
	}
	if err := s.db.DeleteUser(targetID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// GetByID returns the account without its password hash, or ErrNotFound.
func (s *AccountService) GetByID(id int64) (*models.User, error) {
	user, err := s.db.GetUserByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
