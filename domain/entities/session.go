package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the status of a session
type SessionStatus string

const (
	SessionStatusActive     SessionStatus = "active"
	SessionStatusExpired    SessionStatus = "expired"
	SessionStatusTerminated SessionStatus = "terminated"
)

const (
	sessionTTL       = 24 * time.Hour
	sessionIdleLimit = 30 * time.Minute
)

// SessionMessage represents a message within a session
type SessionMessage struct {
	Timestamp  time.Time              `json:"timestamp" bson:"timestamp"`
	Role       Role                   `json:"role" bson:"role"`
	Content    string                 `json:"content" bson:"content"`
	DurationMs int64                  `json:"duration_ms" bson:"duration_ms"`
	Metadata   SessionMessageMetadata `json:"metadata" bson:"metadata"`
}

// SessionMessageMetadata contains additional metadata for a message
type SessionMessageMetadata struct {
	Sentiment *SentimentLabel `json:"sentiment,omitempty" bson:"sentiment,omitempty"`
	Language  string          `json:"language,omitempty" bson:"language,omitempty"`
	Fallback  bool            `json:"fallback,omitempty" bson:"fallback,omitempty"`
}

// SessionMetadata contains session-level metadata
type SessionMetadata struct {
	Language string `json:"language" bson:"language"`
	Channel  string `json:"channel" bson:"channel"`
}

// Session is one conversation between a user and the assistant on a channel
type Session struct {
	ID            string           `json:"id" bson:"_id"`
	UserID        string           `json:"user_id" bson:"user_id"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at"`
	LastActiveAt  time.Time        `json:"last_active_at" bson:"last_active_at"`
	LastMessageAt *time.Time       `json:"last_message_at" bson:"last_message_at"`
	ExpiresAt     time.Time        `json:"expires_at" bson:"expires_at"`
	Status        SessionStatus    `json:"status" bson:"status"`
	Messages      []SessionMessage `json:"messages" bson:"messages"`
	Metadata      SessionMetadata  `json:"metadata" bson:"metadata"`
}

// NewSession creates a new session for a user on a channel
func NewSession(userID, channel, language string) *Session {
	now := time.Now()
	if language == "" {
		language = "auto"
	}
	return &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(sessionTTL),
		Status:       SessionStatusActive,
		Messages:     make([]SessionMessage, 0),
		Metadata: SessionMetadata{
			Language: language,
			Channel:  channel,
		},
	}
}

// AddMessage appends a message and refreshes activity timestamps
func (s *Session) AddMessage(role Role, content string, durationMs int64, metadata SessionMessageMetadata) {
	now := time.Now()
	s.Messages = append(s.Messages, SessionMessage{
		Timestamp:  now,
		Role:       role,
		Content:    content,
		DurationMs: durationMs,
		Metadata:   metadata,
	})
	s.LastMessageAt = &now
	s.UpdateLastActive()
}

// UpdateLastActive updates the last active timestamp and extends expiration
func (s *Session) UpdateLastActive() {
	s.LastActiveAt = time.Now()
	s.ExpiresAt = s.LastActiveAt.Add(sessionTTL)
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt) || s.Status != SessionStatusActive
}

// ShouldCreateNewSession reports whether the conversation went idle for more than 30 minutes
func (s *Session) ShouldCreateNewSession() bool {
	if s.LastMessageAt == nil {
		return false
	}
	return time.Since(*s.LastMessageAt) > sessionIdleLimit
}

// CanContinue reports whether new turns may be appended to this session
func (s *Session) CanContinue() bool {
	return s != nil && !s.IsExpired() && !s.ShouldCreateNewSession()
}

// Terminate marks the session as terminated
func (s *Session) Terminate() {
	s.Status = SessionStatusTerminated
	s.UpdateLastActive()
}

// Expire marks the session as expired
func (s *Session) Expire() {
	s.Status = SessionStatusExpired
}

// Context projects the stored messages into a conversation history
func (s *Session) Context() ConversationContext {
	turns := make([]Turn, 0, len(s.Messages))
	for _, m := range s.Messages {
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return ConversationContext{ConversationID: s.ID, Turns: turns}
}

// Validate validates the session data
func (s *Session) Validate() error {
	if s.UserID == "" {
		return errors.New("user_id is required")
	}

	if s.Status != SessionStatusActive && s.Status != SessionStatusExpired && s.Status != SessionStatusTerminated {
		return errors.New("invalid session status")
	}

	return nil
}
