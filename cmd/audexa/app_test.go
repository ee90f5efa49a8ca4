package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/audexa/adapters/stt"
	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/internal/config"
	"github.com/satriahrh/audexa/internal/fallback"
	"github.com/satriahrh/audexa/usecase"
)

func keylessConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Sentiment.Backend = config.BackendGemini
	cfg.Speech.Provider = config.ProviderWhisper
	cfg.Speech.Whisper = stt.WhisperConfig{APIKey: "unused"}
	cfg.Storage.Backend = config.StorageMemory
	cfg.Pipeline.Ingest.TempDir = t.TempDir()
	return cfg
}

func TestNewAppWithoutGeminiKeyAnswersFromFallback(t *testing.T) {
	ctx := context.Background()
	a, err := newApp(ctx, keylessConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	query := "I'm feeling really anxious about my exam"
	pkg := a.conversation.Answer(ctx, query, entities.ConversationContext{}, "auto")

	assert.True(t, pkg.Fallback)
	assert.Equal(t, fallback.NewResponder().Respond(query), pkg.Answer)
	assert.Equal(t, "en", pkg.Language)
	assert.Contains(t, pkg.Advisory, "⚠️ Note: "+usecase.ErrorNotice(entities.ErrorKindUnknown))
}

func TestSentimentBackendWithoutGeminiUsesLexicon(t *testing.T) {
	cfg := keylessConfig(t)
	assert.Nil(t, sentimentBackend(cfg, nil, nil, zaptest.NewLogger(t)))
}
