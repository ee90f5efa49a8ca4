package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

const sessionsCollection = "sessions"

// SessionRepository stores sessions as one document each, messages embedded
type SessionRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new MongoDB session repository
func NewSessionRepository(db *mongo.Database, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		collection: db.Collection(sessionsCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the lookup and TTL indexes
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "last_active_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expires_at", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	r.logger.Info("Session indexes created successfully")
	return nil
}

// Create implements repositories.SessionRepository
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get implements repositories.SessionRepository
func (r *SessionRepository) Get(ctx context.Context, id string) (*entities.Session, error) {
	var session entities.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &session, nil
}

// GetLastByUserID implements repositories.SessionRepository
func (r *SessionRepository) GetLastByUserID(ctx context.Context, userID string) (*entities.Session, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "last_active_at", Value: -1}})

	var session entities.Session
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get last session for user %s: %w", userID, err)
	}
	return &session, nil
}

// Update implements repositories.SessionRepository
func (r *SessionRepository) Update(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired implements repositories.SessionRepository
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": before}})
	if err != nil {
		r.logger.Error("Failed to delete expired sessions", zap.Error(err))
		return 0, err
	}
	if result.DeletedCount > 0 {
		r.logger.Info("Deleted expired sessions", zap.Int64("count", result.DeletedCount))
	}
	return result.DeletedCount, nil
}
