package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:    2,
		BackoffFactor: 2.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		Jitter:        time.Millisecond,
	}
}

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	counter := 0
	err := NewRetrier(fastConfig()).Do(context.Background(), func() error {
		counter++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, counter)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	counter := 0
	err := NewRetrier(fastConfig()).Do(context.Background(), func() error {
		counter++
		if counter < 2 {
			return errors.New("temporary error")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, counter)
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	expectedErr := errors.New("permanent error")
	counter := 0
	err := NewRetrier(fastConfig()).Do(context.Background(), func() error {
		counter++
		return expectedErr
	})
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 3, counter) // initial try + 2 retries
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	fatal := errors.New("bad api key")
	config := fastConfig()
	config.Retryable = func(err error) bool { return !errors.Is(err, fatal) }

	counter := 0
	err := NewRetrier(config).Do(context.Background(), func() error {
		counter++
		return fatal
	})
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, counter)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := NewRetrier(fastConfig()).Do(ctx, func() error {
		cancel()
		return errors.New("operation error after cancel")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRetrier_NilConfigUsesDefaults(t *testing.T) {
	r := NewRetrier(nil)
	assert.Equal(t, NewDefaultConfig().MaxRetries, r.config.MaxRetries)
}
