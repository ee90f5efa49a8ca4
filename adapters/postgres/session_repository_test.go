package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.Error(t, err)
}

func TestEncodeNilMessages(t *testing.T) {
	s := entities.NewSession("u", "web", "")
	s.Messages = nil
	messages, metadata, err := encode(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(messages))
	assert.JSONEq(t, `{"language":"auto","channel":"web"}`, string(metadata))
}

// Requires a reachable database; skipped unless POSTGRES_DSN is set
func TestSessionRepository_Integration(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres integration test - POSTGRES_DSN not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepository(db, zaptest.NewLogger(t))
	require.NoError(t, repo.Migrate(ctx))

	session := entities.NewSession("pg-user", "web", "es")
	require.NoError(t, repo.Create(ctx, session))
	defer db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, "pg-user")

	session.AddMessage(entities.RoleUser, "hola", 0, entities.SessionMessageMetadata{Language: "es"})
	require.NoError(t, repo.Update(ctx, session))

	got, err := repo.GetLastByUserID(ctx, "pg-user")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hola", got.Messages[0].Content)
	require.NotNil(t, got.LastMessageAt)

	_, err = repo.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)

	session.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Update(ctx, session))
	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
