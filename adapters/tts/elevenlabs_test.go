package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/audexa/domain/repositories"
)

func TestNewElevenLabsTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewElevenLabsTTS(ElevenLabsConfig{}, nil, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	_, err = NewElevenLabsTTS(ElevenLabsConfig{APIKey: "k", Stability: 1.5}, nil, logger)
	if err == nil {
		t.Error("Expected error for stability out of range")
	}

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key"}, nil, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if tts.voiceID != defaultVoiceID {
		t.Errorf("Expected default voice ID '%s', got '%s'", defaultVoiceID, tts.voiceID)
	}
	if tts.outputFormat != defaultOutputFormat {
		t.Errorf("Expected default output format '%s', got '%s'", defaultOutputFormat, tts.outputFormat)
	}
}

func TestElevenLabsTTS_Synthesize(t *testing.T) {
	var got ElevenLabsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3fake"))
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
		VoiceID:    "voice-1",
	}, server.Client(), zaptest.NewLogger(t))
	require.NoError(t, err)

	audio, err := tts.Synthesize(context.Background(), "Take a slow breath.", repositories.SynthesisOptions{Language: "hi", Fast: true})
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3fake"), audio)
	assert.Equal(t, "hi", got.LanguageCode)
	assert.Equal(t, defaultFastModelID, got.ModelID)
	assert.Equal(t, "Take a slow breath.", got.Text)
}

func TestElevenLabsTTS_SynthesizeErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unsupported language"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "k", APIBaseURL: server.URL}, server.Client(), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = tts.Synthesize(context.Background(), "   ", repositories.SynthesisOptions{})
	assert.Error(t, err, "whitespace-only text")

	_, err = tts.Synthesize(context.Background(), "hello", repositories.SynthesisOptions{Language: "xx"})
	assert.ErrorContains(t, err, "422")
}
