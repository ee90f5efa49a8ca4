package stt

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/adapters/audio"
	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

// WhisperConfig configures the hosted Whisper transcription endpoint
type WhisperConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL"`
	Model   string `env:"WHISPER_MODEL"`
}

// WhisperSpeechToText implements SpeechToText with the OpenAI audio API
type WhisperSpeechToText struct {
	client  *openai.Client
	model   string
	tempDir string
	logger  *zap.Logger
}

var _ repositories.SpeechToText = (*WhisperSpeechToText)(nil)

// NewWhisperSpeechToText creates the adapter. httpClient may carry a proxy transport.
func NewWhisperSpeechToText(config WhisperConfig, httpClient *http.Client, tempDir string, logger *zap.Logger) (*WhisperSpeechToText, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("whisper API key is required")
	}
	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if config.Model == "" {
		config.Model = openai.Whisper1
		logger.Info("Using default whisper model", zap.String("model", config.Model))
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &WhisperSpeechToText{
		client:  openai.NewClientWithConfig(cfg),
		model:   config.Model,
		tempDir: tempDir,
		logger:  logger,
	}, nil
}

// TranscribeFile uploads the file as is; the service accepts every common container
func (w *WhisperSpeechToText) TranscribeFile(ctx context.Context, path string, options repositories.TranscribeOptions) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       w.model,
		FilePath:    path,
		Language:    options.Language,
		Temperature: options.Temperature,
		Format:      openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	w.logger.Debug("Whisper transcription completed",
		zap.String("language", options.Language),
		zap.Int("chars", len(resp.Text)))
	return strings.TrimSpace(resp.Text), nil
}

// TranscribeSamples writes the samples to a temporary WAV and uploads it
func (w *WhisperSpeechToText) TranscribeSamples(ctx context.Context, samples []float32, options repositories.TranscribeOptions) (string, error) {
	path := filepath.Join(w.tempDir, "whisper_"+uuid.NewString()+".wav")
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("Failed to remove whisper upload", zap.String("path", path), zap.Error(err))
		}
	}()

	clip := &entities.AudioClip{Samples: samples, SampleRate: options.SampleRate, Channels: 1}
	if err := audio.WriteWAV(path, clip); err != nil {
		return "", err
	}
	return w.TranscribeFile(ctx, path, options)
}
