package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"webgen-backend/internal/database"
)

var (
	ErrDuplicateUsername  = errors.New("username exists")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
)

// CredentialStore persists the username -> password hash mapping.
type CredentialStore struct {
	db *gorm.DB
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

func (s *CredentialStore) Register(ctx context.Context, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("could not hash password: %w", err)
	}

	user := database.User{Username: username, Hash: string(hash)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateUsername
		}
		slog.Error("error creating user", "username", username, "error", err)
		return 0, err
	}

	return user.Id, nil
}

// Authenticate performs a single lookup; bcrypt's compare is constant time,
// so a missing user and a wrong password are indistinguishable to the caller.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (int64, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidCredentials
		}
		slog.Error("error looking up user", "username", username, "error", err)
		return 0, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}

	return user.Id, nil
}
