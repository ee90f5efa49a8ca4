// Package sentiment labels user text as positive, negative or neutral.
package sentiment

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

const (
	DefaultConfidenceThreshold = 0.3
	DefaultTimeout             = 10 * time.Second
)

// Config tunes the backend acceptance gate
type Config struct {
	ConfidenceThreshold float64       `env:"SENTIMENT_CONFIDENCE_THRESHOLD" envDefault:"0.3"`
	Timeout             time.Duration `env:"SENTIMENT_TIMEOUT" envDefault:"10s"`
}

// Classifier prefers the external backend and falls back to the lexicon
type Classifier struct {
	backend   repositories.SentimentBackend
	threshold float64
	timeout   time.Duration
	logger    *zap.Logger
}

// NewClassifier builds a classifier. A nil backend means lexicon only.
func NewClassifier(backend repositories.SentimentBackend, config Config, logger *zap.Logger) *Classifier {
	if config.ConfidenceThreshold <= 0 {
		logger.Info("Using default confidence threshold", zap.Float64("confidenceThreshold", DefaultConfidenceThreshold))
		config.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if config.Timeout <= 0 {
		logger.Info("Using default sentiment timeout", zap.Duration("timeout", DefaultTimeout))
		config.Timeout = DefaultTimeout
	}
	return &Classifier{
		backend:   backend,
		threshold: config.ConfidenceThreshold,
		timeout:   config.Timeout,
		logger:    logger,
	}
}

// Classify never fails; any backend trouble degrades to the lexicon
func (c *Classifier) Classify(ctx context.Context, text string) entities.SentimentResult {
	if c.backend != nil {
		if result, ok := c.external(ctx, text); ok {
			return result
		}
	}
	return entities.SentimentResult{
		Label:      Lexicon(text),
		Confidence: 1.0,
		Source:     entities.SentimentSourceLexicon,
	}
}

func (c *Classifier) external(ctx context.Context, text string) (entities.SentimentResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	label, confidence, err := c.backend.Classify(ctx, text, Examples)
	if err != nil {
		c.logger.Warn("Sentiment backend failed, using lexicon", zap.Error(err))
		return entities.SentimentResult{}, false
	}
	if confidence <= c.threshold {
		c.logger.Debug("Sentiment backend below confidence threshold",
			zap.String("label", label),
			zap.Float64("confidence", confidence),
		)
		return entities.SentimentResult{}, false
	}

	return entities.SentimentResult{
		Label:      NormalizeLabel(label),
		Confidence: clampConfidence(confidence),
		Source:     entities.SentimentSourceExternal,
	}, true
}

// NormalizeLabel maps free-form backend labels onto the three polarities
func NormalizeLabel(label string) entities.SentimentLabel {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "positive"):
		return entities.SentimentPositive
	case strings.Contains(lower, "negative"):
		return entities.SentimentNegative
	default:
		return entities.SentimentNeutral
	}
}

func clampConfidence(c float64) float64 {
	if c > 1 {
		return 1
	}
	return c
}
