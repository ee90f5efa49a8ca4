package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/satriahrh/audexa/domain/entities"
)

// ErrSessionNotFound is returned when no session matches the lookup
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists conversation sessions
type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	Get(ctx context.Context, id string) (*entities.Session, error)
	// GetLastByUserID returns the most recently active session of a user
	GetLastByUserID(ctx context.Context, userID string) (*entities.Session, error)
	Update(ctx context.Context, session *entities.Session) error
	// DeleteExpired removes sessions whose expiry is before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
