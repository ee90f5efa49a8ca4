package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/repositories"
)

const (
	defaultCleanupInterval = 30 * time.Minute
	initialCleanupDelay    = time.Minute
)

// SessionCleanupService purges expired sessions in the background
type SessionCleanupService struct {
	sessionRepo repositories.SessionRepository
	interval    time.Duration
	logger      *zap.Logger
	stopChan    chan struct{}
	done        chan struct{}
}

// NewSessionCleanupService creates a cleaner running every interval, or every 30 minutes when zero
func NewSessionCleanupService(sessionRepo repositories.SessionRepository, interval time.Duration, logger *zap.Logger) *SessionCleanupService {
	if interval <= 0 {
		interval = defaultCleanupInterval
		logger.Info("Using default session cleanup interval", zap.Duration("interval", interval))
	}
	return &SessionCleanupService{
		sessionRepo: sessionRepo,
		interval:    interval,
		logger:      logger,
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start begins the background cleanup process
func (s *SessionCleanupService) Start() {
	go s.cleanupLoop()
	s.logger.Info("Session cleanup service started")
}

// Stop stops the loop and waits for a running pass to finish
func (s *SessionCleanupService) Stop() {
	close(s.stopChan)
	<-s.done
	s.logger.Info("Session cleanup service stopped")
}

func (s *SessionCleanupService) cleanupLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	initialTimer := time.NewTimer(min(initialCleanupDelay, s.interval))
	defer initialTimer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-initialTimer.C:
			s.RunCleanup(context.Background())
		case <-ticker.C:
			s.RunCleanup(context.Background())
		}
	}
}

// RunCleanup deletes every session that expired before now
func (s *SessionCleanupService) RunCleanup(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	n, err := s.sessionRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to delete expired sessions", zap.Error(err))
		return 0
	}

	s.logger.Info("Session cleanup completed", zap.Int64("deleted", n))
	return n
}
