package websocket

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/satriahrh/audexa/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeQuery         MessageType = "query"
	MessageTypeAudioEnd      MessageType = "audio_end"
	MessageTypePing          MessageType = "ping"
	MessageTypePong          MessageType = "pong"
	MessageTypeResponse      MessageType = "response"
	MessageTypeSpeakingStart MessageType = "speaking_start"
	MessageTypeSpeakingEnd   MessageType = "speaking_end"
	MessageTypeError         MessageType = "error"
)

const maxQueryLength = 4000

var audioFormats = map[string]bool{
	"webm": true, "wav": true, "mp3": true, "ogg": true, "m4a": true, "mp4": true,
}

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type" validate:"required"`
	Timestamp string      `json:"timestamp"`
	MessageID string      `json:"message_id,omitempty"`
}

// QueryMessage is a typed user turn
type QueryMessage struct {
	BaseMessage
	Text     string `json:"text" validate:"required"`
	Language string `json:"language,omitempty"`
	Speak    bool   `json:"speak,omitempty"`
}

// AudioEndMessage closes a run of binary audio frames
type AudioEndMessage struct {
	BaseMessage
	Format   string `json:"format,omitempty" validate:"omitempty,oneof=webm wav mp3 ogg m4a mp4"`
	Language string `json:"language,omitempty"`
	Speak    bool   `json:"speak,omitempty"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ResponseMessage carries an answered turn
type ResponseMessage struct {
	BaseMessage
	SessionID  string                   `json:"session_id"`
	Transcript string                   `json:"transcript,omitempty"`
	Response   entities.ResponsePackage `json:"response"`
}

// SpeechMessage brackets binary speech frames, or tells the client to speak the text itself
type SpeechMessage struct {
	BaseMessage
	SessionID     string `json:"session_id"`
	Text          string `json:"text,omitempty"`
	Language      string `json:"language,omitempty"`
	MimeType      string `json:"mime_type,omitempty"`
	UseBrowserTTS bool   `json:"use_browser_tts,omitempty"`
	Message       string `json:"message,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct{}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidateMessage validates an incoming message
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeQuery:
		var msg QueryMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid query message: %w", err)
		}
		if err := v.validateQuery(&msg); err != nil {
			return nil, err
		}
		return &msg, nil

	case MessageTypeAudioEnd:
		var msg AudioEndMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid audio end message: %w", err)
		}
		if err := v.validateAudioEnd(&msg); err != nil {
			return nil, err
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

func (v *MessageValidator) validateQuery(msg *QueryMessage) error {
	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Text == "" {
		return fmt.Errorf("text is required")
	}
	if len(msg.Text) > maxQueryLength {
		return fmt.Errorf("text must be at most %d bytes", maxQueryLength)
	}
	return nil
}

// validateAudioEnd defaults the format to webm, which is what browsers record
func (v *MessageValidator) validateAudioEnd(msg *AudioEndMessage) error {
	msg.Format = strings.ToLower(strings.TrimPrefix(msg.Format, "."))
	if msg.Format == "" {
		msg.Format = "webm"
	}
	if !audioFormats[msg.Format] {
		return fmt.Errorf("format must be one of: webm, wav, mp3, ogg, m4a, mp4")
	}
	return nil
}

func stamp(t MessageType) BaseMessage {
	return BaseMessage{Type: t, Timestamp: time.Now().Format(time.RFC3339)}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message, details string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: stamp(MessageTypeError),
		Code:        code,
		Message:     message,
		Details:     details,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{BaseMessage: stamp(MessageTypePong), Data: data}
}

// CreateResponseMessage wraps an answered turn
func CreateResponseMessage(sessionID, transcript string, pkg entities.ResponsePackage) *ResponseMessage {
	return &ResponseMessage{
		BaseMessage: stamp(MessageTypeResponse),
		SessionID:   sessionID,
		Transcript:  transcript,
		Response:    pkg,
	}
}
