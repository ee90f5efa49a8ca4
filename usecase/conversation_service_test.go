package usecase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/internal/fallback"
)

func newTestConversation(t *testing.T, repo *fakeSessionRepo, generator *fakeGenerator) *ConversationService {
	logger := zaptest.NewLogger(t)
	pipeline := NewResponsePipeline(&fakeDetector{code: "en"},
		&fakeClassifier{result: entities.SentimentResult{Label: entities.SentimentNegative, Confidence: 1, Source: entities.SentimentSourceLexicon}},
		generator, fallback.NewResponder(), logger)
	dir := t.TempDir()
	ingest := NewVoiceIngestService(&fakeSTT{respond: textFor("spoken words")}, &fakeCodec{clip: constantClip(0.5, 1, 16000, 1)},
		VoiceIngestConfig{TempDir: dir}, logger)
	egress := NewVoiceEgressService(&fakeTTS{}, VoiceEgressConfig{}, logger)
	return NewConversationService(repo, pipeline, ingest, egress, logger)
}

func TestAskCreatesSessionAndRecordsTurns(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestConversation(t, repo, &fakeGenerator{outcome: entities.Success("I'm here for you.")})

	exchange, err := svc.Ask(context.Background(), SessionRef{UserID: "user-1", Channel: "web"}, "I feel sad")
	require.NoError(t, err)

	session := exchange.Session
	assert.Equal(t, "user-1", session.UserID)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, entities.RoleUser, session.Messages[0].Role)
	assert.Equal(t, "I feel sad", session.Messages[0].Content)
	require.NotNil(t, session.Messages[0].Metadata.Sentiment)
	assert.Equal(t, entities.SentimentNegative, *session.Messages[0].Metadata.Sentiment)
	assert.Equal(t, entities.RoleAssistant, session.Messages[1].Role)
	assert.Equal(t, "I'm here for you.", session.Messages[1].Content)
	assert.Equal(t, 1, repo.updates)
}

func TestAskContinuesSessionWithHistory(t *testing.T) {
	repo := newFakeSessionRepo()
	generator := &fakeGenerator{outcome: entities.Success("Okay.")}
	svc := newTestConversation(t, repo, generator)

	first, err := svc.Ask(context.Background(), SessionRef{UserID: "user-1"}, "hello")
	require.NoError(t, err)

	second, err := svc.Ask(context.Background(), SessionRef{SessionID: first.Session.ID, UserID: "user-1"}, "again")
	require.NoError(t, err)

	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Len(t, generator.history.Turns, 2)
	assert.Len(t, second.Session.Messages, 4)
}

func TestAskStartsFreshAfterIdle(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestConversation(t, repo, &fakeGenerator{outcome: entities.Success("Okay.")})

	old := entities.NewSession("user-1", "web", "en")
	old.AddMessage(entities.RoleUser, "hi", 0, entities.SessionMessageMetadata{})
	idle := time.Now().Add(-31 * time.Minute)
	old.LastMessageAt = &idle
	require.NoError(t, repo.Create(context.Background(), old))

	exchange, err := svc.Ask(context.Background(), SessionRef{SessionID: old.ID, UserID: "user-1"}, "hello")
	require.NoError(t, err)

	assert.NotEqual(t, old.ID, exchange.Session.ID)
	assert.Equal(t, entities.SessionStatusExpired, repo.sessions[old.ID].Status)
}

func TestAskRejectsForeignSession(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestConversation(t, repo, &fakeGenerator{outcome: entities.Success("Okay.")})

	other := entities.NewSession("user-2", "web", "en")
	require.NoError(t, repo.Create(context.Background(), other))

	_, err := svc.Ask(context.Background(), SessionRef{SessionID: other.ID, UserID: "user-1"}, "hello")
	assert.Error(t, err)
}

func TestAskVoice(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestConversation(t, repo, &fakeGenerator{outcome: entities.Success("Okay.")})

	asset := writeUpload(t, t.TempDir(), 4096)
	exchange, fail, err := svc.AskVoice(context.Background(), SessionRef{UserID: "user-1"}, asset)
	require.NoError(t, err)
	require.Nil(t, fail)
	assert.Equal(t, "spoken words", exchange.Transcript)
	assert.Equal(t, int64(1000), exchange.Session.Messages[0].DurationMs)
}

func TestAskVoiceRejectedAudioCreatesNoSession(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestConversation(t, repo, &fakeGenerator{outcome: entities.Success("Okay.")})

	asset := writeUpload(t, t.TempDir(), 10)
	exchange, fail, err := svc.AskVoice(context.Background(), SessionRef{UserID: "user-1"}, asset)
	require.NoError(t, err)
	assert.Nil(t, exchange)
	require.NotNil(t, fail)
	assert.Equal(t, entities.TranscriptionTooShort, fail.Reason)
	assert.Empty(t, repo.sessions)
}

func TestTempAudioPathIsUnique(t *testing.T) {
	svc := newTestConversation(t, newFakeSessionRepo(), &fakeGenerator{})
	a := svc.TempAudioPath(".webm")
	b := svc.TempAudioPath(".webm")
	assert.NotEqual(t, a, b)
	assert.Equal(t, ".webm", filepath.Ext(a))
}
