package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/internal/auth"
	"github.com/satriahrh/audexa/internal/language"
	"github.com/satriahrh/audexa/internal/websocket"
	"github.com/satriahrh/audexa/usecase"
)

const (
	maxUploadBytes = 25 << 20
	claimsKey      = "claims"
	webChannel     = "web"
)

// Conversation is the slice of the conversation service the HTTP layer drives
type Conversation interface {
	StartSession(ctx context.Context, userID, channel, lang string) (*entities.Session, error)
	Ask(ctx context.Context, ref usecase.SessionRef, query string) (*usecase.Exchange, error)
	AskVoice(ctx context.Context, ref usecase.SessionRef, asset *entities.AudioAsset) (*usecase.Exchange, *entities.TranscriptionFailure, error)
	Answer(ctx context.Context, query string, history entities.ConversationContext, lang string) entities.ResponsePackage
	Speak(ctx context.Context, text, lang string) entities.SpeechResult
	Transcribe(ctx context.Context, asset *entities.AudioAsset, lang string) (string, *entities.TranscriptionFailure)
	TempAudioPath(ext string) string
}

// TokenManager issues and checks session tokens
type TokenManager interface {
	GenerateSessionToken(userID, sessionID, channel string) (string, time.Time, error)
	ValidateToken(token string) (*auth.JWTClaims, error)
}

type handler struct {
	conversation Conversation
	tokens       TokenManager
	logger       *zap.Logger
}

// InitRoutes initializes all API routes. hub may be nil to disable the websocket channel.
func InitRoutes(e *echo.Echo, conversation Conversation, tokens TokenManager, hub *websocket.Hub, logger *zap.Logger) {
	h := &handler{conversation: conversation, tokens: tokens, logger: logger}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "audexa",
		})
	})

	v1 := e.Group("/api/v1", h.optionalSession)
	v1.GET("/welcome", h.welcome)
	v1.GET("/response", h.responseQuery)
	v1.POST("/response", h.responseJSON)
	v1.POST("/voice", h.voice)
	v1.POST("/text_to_speech", h.textToSpeech)
	v1.POST("/sessions", h.createSession)

	if hub != nil {
		e.GET("/ws", func(c echo.Context) error {
			return h.websocketWithAuth(hub, c)
		})
	}
}

func (h *handler) welcome(c echo.Context) error {
	code := c.QueryParam("language")
	if language.IsAuto(code) {
		code = language.Baseline
	}
	return c.JSON(http.StatusOK, WelcomeResponse{
		Language:     code,
		LanguageName: language.DisplayName(code),
		Message:      language.Welcome(code),
	})
}

// responseQuery serves the query-string form used by the chat page
func (h *handler) responseQuery(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("msg"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_query",
			Message: "msg parameter is required",
		})
	}
	lang := c.QueryParam("lang")

	if ref, ok := sessionRef(c, lang); ok {
		return h.ask(c, ref, query)
	}

	history := entities.ConversationContext{
		Turns: ParseHistory(c.QueryParam("questions"), c.QueryParam("answers")),
	}
	pkg := h.conversation.Answer(c.Request().Context(), query, history, lang)
	return c.JSON(http.StatusOK, pkg)
}

func (h *handler) responseJSON(c echo.Context) error {
	var req ResponseRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Failed to bind response request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_query",
			Message: "query is required",
		})
	}

	if ref, ok := sessionRef(c, req.Language); ok {
		return h.ask(c, ref, req.Query)
	}

	pkg := h.conversation.Answer(c.Request().Context(), req.Query,
		entities.ConversationContext{Turns: req.History}, req.Language)
	return c.JSON(http.StatusOK, pkg)
}

func (h *handler) ask(c echo.Context, ref usecase.SessionRef, query string) error {
	exchange, err := h.conversation.Ask(c.Request().Context(), ref, query)
	if err != nil {
		return h.sessionError(c, ref, err)
	}
	return c.JSON(http.StatusOK, ResponseEnvelope{
		ResponsePackage: exchange.Response,
		SessionID:       exchange.Session.ID,
	})
}

func (h *handler) voice(c echo.Context) error {
	file, err := c.FormFile("audio_data")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_audio",
			Message: "No audio file provided",
		})
	}
	if file.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "audio_too_large",
			Message: "Audio file is too large",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".webm"
	}
	asset, err := h.saveUpload(file.Open, ext)
	if err != nil {
		h.logger.Error("Failed to store audio upload", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "upload_failed",
			Message: "Could not store the recording",
		})
	}

	lang := c.FormValue("language")
	ctx := c.Request().Context()

	if ref, ok := sessionRef(c, lang); ok {
		exchange, fail, err := h.conversation.AskVoice(ctx, ref, asset)
		if fail != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: string(fail.Reason), Message: fail.Message})
		}
		if err != nil {
			return h.sessionError(c, ref, err)
		}
		return c.JSON(http.StatusOK, VoiceResponse{Text: exchange.Transcript, Response: &exchange.Response})
	}

	text, fail := h.conversation.Transcribe(ctx, asset, lang)
	if fail != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: string(fail.Reason), Message: fail.Message})
	}
	return c.JSON(http.StatusOK, VoiceResponse{Text: text})
}

// saveUpload copies the multipart body to a temp file owned by the ingest pipeline
func (h *handler) saveUpload(open func() (multipartFile, error), ext string) (*entities.AudioAsset, error) {
	src, err := open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	path := h.conversation.TempAudioPath(ext)
	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	n, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return &entities.AudioAsset{
		Path:           path,
		DeclaredFormat: strings.TrimPrefix(ext, "."),
		SizeBytes:      n,
	}, nil
}

func (h *handler) textToSpeech(c echo.Context) error {
	var req SpeechRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_text",
			Message: "No text provided",
		})
	}

	result := h.conversation.Speak(c.Request().Context(), req.Text, req.Language)
	if result.UseClientSide {
		return c.JSON(http.StatusOK, result)
	}
	return c.Blob(http.StatusOK, result.MimeType, result.Audio)
}

func (h *handler) createSession(c echo.Context) error {
	if h.tokens == nil {
		return c.JSON(http.StatusNotImplemented, ErrorResponse{
			Error:   "sessions_disabled",
			Message: "Sessions are not configured on this server",
		})
	}

	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}

	session, err := h.conversation.StartSession(c.Request().Context(), req.UserID, webChannel, req.Language)
	if err != nil {
		h.logger.Error("Failed to start session", zap.String("userID", req.UserID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "session_failed",
			Message: "Could not start a session",
		})
	}

	token, expiresAt, err := h.tokens.GenerateSessionToken(session.UserID, session.ID, webChannel)
	if err != nil {
		h.logger.Error("Failed to generate session token", zap.String("sessionID", session.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusCreated, SessionResponse{
		SessionID: session.ID,
		UserID:    session.UserID,
		Token:     token,
		ExpiresAt: expiresAt,
		Welcome:   language.Welcome(language.Resolve(req.Language)),
	})
}

func (h *handler) sessionError(c echo.Context, ref usecase.SessionRef, err error) error {
	h.logger.Error("Session request failed",
		zap.String("sessionID", ref.SessionID),
		zap.String("userID", ref.UserID),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "session_error",
		Message: "Could not record the conversation",
	})
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func (h *handler) websocketWithAuth(hub *websocket.Hub, c echo.Context) error {
	claims, ok := c.Get(claimsKey).(*auth.JWTClaims)
	if !ok {
		token := bearerToken(c.Request())
		if token == "" {
			token = c.QueryParam("token")
		}
		if token == "" || h.tokens == nil {
			h.logger.Warn("WebSocket connection rejected: missing token")
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "missing_token",
				Message: "JWT token is required in Authorization header or token parameter",
			})
		}
		var err error
		claims, err = h.tokens.ValidateToken(token)
		if err != nil {
			h.logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Invalid or expired JWT token",
			})
		}
	}

	h.logger.Info("WebSocket connection authenticated",
		zap.String("userID", claims.UserID),
		zap.String("sessionID", claims.SessionID))

	return websocket.HandleWebSocketWithAuth(hub, c, refFromClaims(claims, ""), h.logger)
}
