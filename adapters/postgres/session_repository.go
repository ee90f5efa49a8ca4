// Package postgres stores sessions in PostgreSQL through database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	last_active_at  TIMESTAMPTZ NOT NULL,
	last_message_at TIMESTAMPTZ,
	expires_at      TIMESTAMPTZ NOT NULL,
	status          TEXT NOT NULL,
	messages        JSONB NOT NULL DEFAULT '[]',
	metadata        JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS sessions_user_active_idx ON sessions (user_id, last_active_at DESC);
CREATE INDEX IF NOT EXISTS sessions_expires_idx ON sessions (expires_at);
`

const selectColumns = `id, user_id, created_at, last_active_at, last_message_at, expires_at, status, messages, metadata`

// Config holds the connection string
type Config struct {
	DSN string `env:"POSTGRES_DSN"`
}

// Open connects and verifies the database is reachable
func Open(ctx context.Context, config Config) (*sql.DB, error) {
	if config.DSN == "" {
		return nil, errors.New("postgres DSN is required")
	}
	db, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// SessionRepository keeps messages and metadata as JSONB columns
type SessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(db *sql.DB, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

// Migrate creates the sessions table when it does not exist
func (r *SessionRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	messages, metadata, err := encode(session)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, last_active_at, last_message_at, expires_at, status, messages, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		session.ID,
		session.UserID,
		session.CreatedAt,
		session.LastActiveAt,
		session.LastMessageAt,
		session.ExpiresAt,
		string(session.Status),
		messages,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*entities.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (r *SessionRepository) GetLastByUserID(ctx context.Context, userID string) (*entities.Session, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM sessions
		WHERE user_id = $1
		ORDER BY last_active_at DESC
		LIMIT 1
	`, userID)
	return scanSession(row)
}

func (r *SessionRepository) Update(ctx context.Context, session *entities.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	messages, metadata, err := encode(session)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET last_active_at = $2, last_message_at = $3, expires_at = $4, status = $5, messages = $6, metadata = $7
		WHERE id = $1
	`,
		session.ID,
		session.LastActiveAt,
		session.LastMessageAt,
		session.ExpiresAt,
		string(session.Status),
		messages,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		r.logger.Error("Failed to delete expired sessions", zap.Error(err))
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.logger.Info("Deleted expired sessions", zap.Int64("count", n))
	}
	return n, nil
}

func encode(session *entities.Session) ([]byte, []byte, error) {
	messages := session.Messages
	if messages == nil {
		messages = []entities.SessionMessage{}
	}
	m, err := json.Marshal(messages)
	if err != nil {
		return nil, nil, fmt.Errorf("encode messages: %w", err)
	}
	md, err := json.Marshal(session.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("encode metadata: %w", err)
	}
	return m, md, nil
}

func scanSession(row *sql.Row) (*entities.Session, error) {
	var (
		s             entities.Session
		status        string
		lastMessageAt sql.NullTime
		messages      []byte
		metadata      []byte
	)
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.CreatedAt,
		&s.LastActiveAt,
		&lastMessageAt,
		&s.ExpiresAt,
		&status,
		&messages,
		&metadata,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	s.Status = entities.SessionStatus(status)
	if lastMessageAt.Valid {
		t := lastMessageAt.Time
		s.LastMessageAt = &t
	}
	if err := json.Unmarshal(messages, &s.Messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if err := json.Unmarshal(metadata, &s.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &s, nil
}
