package api

import (
	"time"

	"github.com/satriahrh/audexa/domain/entities"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WelcomeResponse carries the greeting shown when a chat opens
type WelcomeResponse struct {
	Language     string `json:"language"`
	LanguageName string `json:"language_name"`
	Message      string `json:"message"`
}

// ResponseRequest is the JSON form of a text query. History is ignored when
// the request carries a session token; the stored session is used instead.
type ResponseRequest struct {
	Query    string          `json:"query"`
	History  []entities.Turn `json:"history"`
	Language string          `json:"language"`
}

// ResponseEnvelope wraps a package with the session it was recorded in
type ResponseEnvelope struct {
	entities.ResponsePackage
	SessionID string `json:"session_id,omitempty"`
}

// MarshalJSON keeps the package's flattened layout and appends the session id
func (e ResponseEnvelope) MarshalJSON() ([]byte, error) {
	return marshalWithSession(e.ResponsePackage, e.SessionID)
}

// VoiceResponse is the transcript of an upload, plus the answer when a session is attached
type VoiceResponse struct {
	Text     string                    `json:"text"`
	Response *entities.ResponsePackage `json:"response,omitempty"`
}

// SpeechRequest asks for answer text to be spoken
type SpeechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// SessionRequest opens a conversation
type SessionRequest struct {
	UserID   string `json:"user_id"`
	Language string `json:"language"`
}

// SessionResponse returns the token used for later calls
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Welcome   string    `json:"welcome"`
}
