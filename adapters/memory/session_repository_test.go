package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	first := entities.NewSession("alice", "web", "")
	require.NoError(t, repo.Create(ctx, first))
	assert.Error(t, repo.Create(ctx, first), "duplicate id")

	second := entities.NewSession("alice", "telegram", "hi")
	second.LastActiveAt = first.LastActiveAt.Add(time.Second)
	require.NoError(t, repo.Create(ctx, second))

	last, err := repo.GetLastByUserID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, second.ID, last.ID)

	_, err = repo.GetLastByUserID(ctx, "bob")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
}

func TestSessionRepositoryCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	s := entities.NewSession("alice", "web", "")
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	got.AddMessage(entities.RoleUser, "not saved", 0, entities.SessionMessageMetadata{})

	again, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Messages)

	require.NoError(t, repo.Update(ctx, got))
	again, err = repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, again.Messages, 1)
}

func TestSessionRepositoryUpdateMissing(t *testing.T) {
	err := NewSessionRepository().Update(context.Background(), entities.NewSession("x", "web", ""))
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
}

func TestDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	stale := entities.NewSession("alice", "web", "")
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	fresh := entities.NewSession("bob", "web", "")
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, fresh))

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, repo.Len())

	_, err = repo.GetLastByUserID(ctx, "alice")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
}
