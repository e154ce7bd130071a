package auth

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"webgen-backend/internal/database"
)

// SessionStore holds per-browser ephemeral state: the authenticated identity
// and the last successful generation. Concurrent tabs share one row; last
// writer wins.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context) (*database.Session, error) {
	session := database.Session{Id: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		slog.Error("error creating session", "error", err)
		return nil, err
	}
	return &session, nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*database.Session, error) {
	var session database.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("error looking up session", "error", err)
		return nil, err
	}
	return &session, nil
}

// Reset forgets the identity and any stored generation, keeping the session
// row (and cookie) itself.
func (s *SessionStore) Reset(ctx context.Context, id string) error {
	updates := map[string]any{
		"user_id":          nil,
		"last_pattern":     "",
		"last_requirement": "",
		"last_message":     "",
		"last_response":    "",
	}
	if err := s.db.WithContext(ctx).Model(&database.Session{Id: id}).Updates(updates).Error; err != nil {
		slog.Error("error resetting session", "error", err)
		return err
	}
	return nil
}

func (s *SessionStore) SetIdentity(ctx context.Context, id string, userId int64) error {
	update := map[string]any{"user_id": sql.NullInt64{Int64: userId, Valid: true}}
	if err := s.db.WithContext(ctx).Model(&database.Session{Id: id}).Updates(update).Error; err != nil {
		slog.Error("error setting session identity", "user_id", userId, "error", err)
		return err
	}
	return nil
}

func (s *SessionStore) SaveGeneration(ctx context.Context, id, pattern, requirement, message, response string) error {
	updates := map[string]any{
		"last_pattern":     pattern,
		"last_requirement": requirement,
		"last_message":     message,
		"last_response":    response,
	}
	if err := s.db.WithContext(ctx).Model(&database.Session{Id: id}).Updates(updates).Error; err != nil {
		slog.Error("error saving generation to session", "error", err)
		return err
	}
	return nil
}

func (s *SessionStore) UpdateResponse(ctx context.Context, id, response string) error {
	if err := s.db.WithContext(ctx).Model(&database.Session{Id: id}).Update("last_response", response).Error; err != nil {
		slog.Error("error updating session response", "error", err)
		return err
	}
	return nil
}
