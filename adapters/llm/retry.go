package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/satriahrh/audexa/internal/retry"
)

// transientMarkers are provider error fragments worth another attempt.
// Quota and auth failures are never retried.
var transientMarkers = []string{"unavailable", "503", "500", "internal error", "connection reset", "eof"}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func newRetrier(maxRetries int) *retry.Retrier {
	return retry.NewRetrier(&retry.Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2.0,
		InitialDelay:  time.Second,
		MaxDelay:      4 * time.Second,
		Jitter:        200 * time.Millisecond,
		Retryable:     isTransient,
	})
}
