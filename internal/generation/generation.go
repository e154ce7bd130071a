package generation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"webgen-backend/internal/auth"
	"webgen-backend/internal/database"
)

var (
	ErrEmptyRequirement  = errors.New("must provide requirement")
	ErrUnknownPattern    = errors.New("invalid pattern")
	ErrNoPriorGeneration = errors.New("no prior generation in session")
)

// Completer is the outbound completion call; failures are terminal for the
// request that triggered them.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	db        *gorm.DB
	completer Completer
	sessions  *auth.SessionStore
}

func NewService(db *gorm.DB, completer Completer, sessions *auth.SessionStore) *Service {
	return &Service{db: db, completer: completer, sessions: sessions}
}

// Submit composes the prompt from the optional pattern and the requirement,
// makes exactly one upstream call, and on success appends a history record
// and stores the generation in the session. On failure nothing is persisted
// and the session is untouched.
func (s *Service) Submit(ctx context.Context, session *database.Session, requirement, patternKey string) (string, error) {
	if requirement == "" {
		return "", ErrEmptyRequirement
	}

	message := requirement
	if patternKey != "" {
		instruction, ok := Instruction(patternKey)
		if !ok {
			return "", ErrUnknownPattern
		}
		message = instruction + "\n\n" + requirement
	}

	response, err := s.completer.Complete(ctx, message)
	if err != nil {
		return "", err
	}

	if err := s.sessions.SaveGeneration(ctx, session.Id, patternKey, requirement, message, response); err != nil {
		return "", err
	}
	session.LastPattern = patternKey
	session.LastRequirement = requirement
	session.LastMessage = message
	session.LastResponse = response

	if err := database.CreateHistory(ctx, s.db, session.UserId.Int64, patternKey, requirement, response); err != nil {
		return "", err
	}

	return response, nil
}

// Regenerate resends the stored composed message verbatim for a fresh
// completion. The new record keeps the original pattern and requirement; only
// the stored response changes.
func (s *Service) Regenerate(ctx context.Context, session *database.Session) (string, error) {
	if session.LastMessage == "" {
		return "", ErrNoPriorGeneration
	}

	response, err := s.completer.Complete(ctx, session.LastMessage)
	if err != nil {
		return "", err
	}

	if err := s.sessions.UpdateResponse(ctx, session.Id, response); err != nil {
		return "", err
	}
	session.LastResponse = response

	if err := database.CreateHistory(ctx, s.db, session.UserId.Int64, session.LastPattern, session.LastRequirement, response); err != nil {
		return "", err
	}

	return response, nil
}
