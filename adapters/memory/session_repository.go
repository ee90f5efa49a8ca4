// Package memory keeps sessions in process memory for single-instance deployments and tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

// SessionRepository is an in-memory SessionRepository. Stored sessions are
// copied on the way in and out so callers never share message slices.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session // id -> session
	byUser   map[string][]string          // user_id -> session ids
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*entities.Session),
		byUser:   make(map[string][]string),
	}
}

func (m *SessionRepository) Create(_ context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return errors.New("session already exists")
	}
	m.sessions[session.ID] = clone(session)
	m.byUser[session.UserID] = append(m.byUser[session.UserID], session.ID)
	return nil
}

func (m *SessionRepository) Get(_ context.Context, id string) (*entities.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	return clone(s), nil
}

func (m *SessionRepository) GetLastByUserID(_ context.Context, userID string) (*entities.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var last *entities.Session
	for _, id := range m.byUser[userID] {
		s := m.sessions[id]
		if last == nil || s.LastActiveAt.After(last.LastActiveAt) {
			last = s
		}
	}
	if last == nil {
		return nil, repositories.ErrSessionNotFound
	}
	return clone(last), nil
}

func (m *SessionRepository) Update(_ context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[session.ID]; !ok {
		return repositories.ErrSessionNotFound
	}
	m.sessions[session.ID] = clone(session)
	return nil
}

func (m *SessionRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.sessions {
		if !s.ExpiresAt.Before(before) {
			continue
		}
		delete(m.sessions, id)
		m.byUser[s.UserID] = remove(m.byUser[s.UserID], id)
		if len(m.byUser[s.UserID]) == 0 {
			delete(m.byUser, s.UserID)
		}
		n++
	}
	return n, nil
}

// Len returns the number of stored sessions
func (m *SessionRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func clone(s *entities.Session) *entities.Session {
	c := *s
	c.Messages = append([]entities.SessionMessage(nil), s.Messages...)
	if s.LastMessageAt != nil {
		t := *s.LastMessageAt
		c.LastMessageAt = &t
	}
	return &c
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
