package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

// SessionRef identifies the conversation a request belongs to. SessionID may be
// empty, in which case the user's latest usable session is continued or a new one opened.
type SessionRef struct {
	SessionID string
	UserID    string
	Channel   string
	Language  string
}

// Exchange is one answered user turn
type Exchange struct {
	Session    *entities.Session
	Transcript string
	Response   entities.ResponsePackage
}

// ConversationService orchestrates the conversation flow across sessions
type ConversationService struct {
	sessions repositories.SessionRepository
	pipeline *ResponsePipeline
	ingest   *VoiceIngestService
	egress   *VoiceEgressService
	logger   *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	sessions repositories.SessionRepository,
	pipeline *ResponsePipeline,
	ingest *VoiceIngestService,
	egress *VoiceEgressService,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		sessions: sessions,
		pipeline: pipeline,
		ingest:   ingest,
		egress:   egress,
		logger:   logger,
	}
}

// StartSession opens a fresh session for a user
func (s *ConversationService) StartSession(ctx context.Context, userID, channel, lang string) (*entities.Session, error) {
	session := entities.NewSession(userID, channel, lang)
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("Session started",
		zap.String("sessionID", session.ID),
		zap.String("userID", userID),
		zap.String("channel", channel))
	return session, nil
}

// ResolveSession loads the referenced session, or starts a new one when it is
// missing, expired or idle for too long
func (s *ConversationService) ResolveSession(ctx context.Context, ref SessionRef) (*entities.Session, error) {
	var (
		session *entities.Session
		err     error
	)
	switch {
	case ref.SessionID != "":
		session, err = s.sessions.Get(ctx, ref.SessionID)
	case ref.UserID != "":
		session, err = s.sessions.GetLastByUserID(ctx, ref.UserID)
	default:
		return nil, errors.New("session id or user id is required")
	}
	if err != nil && !errors.Is(err, repositories.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session != nil && ref.UserID != "" && session.UserID != ref.UserID {
		return nil, fmt.Errorf("session %s does not belong to user", session.ID)
	}

	if session.CanContinue() {
		return session, nil
	}

	if session != nil && session.Status == entities.SessionStatusActive {
		session.Expire()
		if err := s.sessions.Update(ctx, session); err != nil {
			s.logger.Warn("Failed to mark idle session expired",
				zap.String("sessionID", session.ID),
				zap.Error(err))
		}
	}

	userID := ref.UserID
	if userID == "" && session != nil {
		userID = session.UserID
	}
	if userID == "" {
		return nil, repositories.ErrSessionNotFound
	}
	return s.StartSession(ctx, userID, ref.Channel, ref.Language)
}

// Ask answers a text query inside a session and records both turns
func (s *ConversationService) Ask(ctx context.Context, ref SessionRef, query string) (*Exchange, error) {
	session, err := s.ResolveSession(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.answer(ctx, session, ref.Language, query, 0)
}

// AskVoice transcribes a recording and answers it. A non-nil TranscriptionFailure
// means the audio was rejected; the error return is reserved for storage problems.
func (s *ConversationService) AskVoice(ctx context.Context, ref SessionRef, asset *entities.AudioAsset) (*Exchange, *entities.TranscriptionFailure, error) {
	transcript, fail := s.ingest.Transcribe(ctx, asset, ref.Language)
	if fail != nil {
		return nil, fail, nil
	}

	session, err := s.ResolveSession(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	exchange, err := s.answer(ctx, session, ref.Language, transcript, asset.DurationMs)
	if err != nil {
		return nil, nil, err
	}
	exchange.Transcript = transcript
	return exchange, nil, nil
}

// Answer runs the pipeline on a caller-supplied history without touching sessions
func (s *ConversationService) Answer(ctx context.Context, query string, history entities.ConversationContext, lang string) entities.ResponsePackage {
	return s.pipeline.Answer(ctx, query, history, lang)
}

// Speak renders answer text as audio, or asks the client to speak it
func (s *ConversationService) Speak(ctx context.Context, text, lang string) entities.SpeechResult {
	return s.egress.Synthesize(ctx, text, lang)
}

// Transcribe exposes the ingest pipeline without touching sessions
func (s *ConversationService) Transcribe(ctx context.Context, asset *entities.AudioAsset, lang string) (string, *entities.TranscriptionFailure) {
	return s.ingest.Transcribe(ctx, asset, lang)
}

// TempAudioPath returns a fresh temp path for an upload
func (s *ConversationService) TempAudioPath(ext string) string {
	return s.ingest.TempPath(ext)
}

func (s *ConversationService) answer(ctx context.Context, session *entities.Session, lang, query string, durationMs int64) (*Exchange, error) {
	if lang == "" {
		lang = session.Metadata.Language
	}

	start := time.Now()
	pkg := s.pipeline.Answer(ctx, query, session.Context(), lang)

	label := pkg.Sentiment.Label
	session.AddMessage(entities.RoleUser, query, durationMs, entities.SessionMessageMetadata{
		Sentiment: &label,
		Language:  pkg.Language,
	})
	session.AddMessage(entities.RoleAssistant, pkg.Answer, 0, entities.SessionMessageMetadata{
		Language: pkg.Language,
		Fallback: pkg.Fallback,
	})

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Info("Query answered",
		zap.String("sessionID", session.ID),
		zap.String("language", pkg.Language),
		zap.Bool("fallback", pkg.Fallback),
		zap.Duration("elapsed", time.Since(start)))

	return &Exchange{Session: session, Response: pkg}, nil
}
