package sentiment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

type fakeBackend struct {
	label      string
	confidence float64
	err        error
	block      bool
	calls      int
	examples   int
}

func (f *fakeBackend) Classify(ctx context.Context, text string, examples []repositories.LabeledExample) (string, float64, error) {
	f.calls++
	f.examples = len(examples)
	if f.block {
		<-ctx.Done()
		return "", 0, ctx.Err()
	}
	return f.label, f.confidence, f.err
}

func TestLexicon(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected entities.SentimentLabel
	}{
		{name: "negative words", input: "I am sad and hopeless", expected: entities.SentimentNegative},
		{name: "positive words", input: "I feel happy and grateful", expected: entities.SentimentPositive},
		{name: "tie is neutral", input: "happy sad", expected: entities.SentimentNeutral},
		{name: "empty is neutral", input: "", expected: entities.SentimentNeutral},
		{name: "case insensitive", input: "I am SAD", expected: entities.SentimentNegative},
		{name: "duplicates count once", input: "sad sad sad happy", expected: entities.SentimentNeutral},
		{name: "punctuation stays attached", input: "happy!", expected: entities.SentimentNeutral},
		{name: "question without polarity", input: "What are the side effects?", expected: entities.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Lexicon(tt.input))
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, entities.SentimentPositive, NormalizeLabel("Positive"))
	assert.Equal(t, entities.SentimentNegative, NormalizeLabel("very NEGATIVE"))
	assert.Equal(t, entities.SentimentNeutral, NormalizeLabel("mixed"))
	assert.Equal(t, entities.SentimentNeutral, NormalizeLabel(""))
}

func TestClassifyWithoutBackendUsesLexicon(t *testing.T) {
	c := NewClassifier(nil, Config{}, zaptest.NewLogger(t))

	result := c.Classify(context.Background(), "I am sad and hopeless")
	assert.Equal(t, entities.SentimentNegative, result.Label)
	assert.Equal(t, entities.SentimentSourceLexicon, result.Source)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestClassifyAcceptsConfidentBackend(t *testing.T) {
	backend := &fakeBackend{label: "positive", confidence: 0.9}
	c := NewClassifier(backend, Config{}, zaptest.NewLogger(t))

	result := c.Classify(context.Background(), "I am sad")
	assert.Equal(t, entities.SentimentPositive, result.Label)
	assert.Equal(t, entities.SentimentSourceExternal, result.Source)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, len(Examples), backend.examples)
}

func TestClassifyConfidenceGateIsStrict(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		source     entities.SentimentSource
	}{
		{name: "below threshold", confidence: 0.2, source: entities.SentimentSourceLexicon},
		{name: "at threshold", confidence: 0.3, source: entities.SentimentSourceLexicon},
		{name: "above threshold", confidence: 0.31, source: entities.SentimentSourceExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{label: "positive", confidence: tt.confidence}
			c := NewClassifier(backend, Config{}, zaptest.NewLogger(t))
			result := c.Classify(context.Background(), "I am sad and hopeless")
			assert.Equal(t, tt.source, result.Source)
		})
	}
}

func TestClassifyBackendErrorFallsBack(t *testing.T) {
	backend := &fakeBackend{err: errors.New("quota exceeded")}
	c := NewClassifier(backend, Config{}, zaptest.NewLogger(t))

	result := c.Classify(context.Background(), "I feel happy and grateful")
	assert.Equal(t, entities.SentimentPositive, result.Label)
	assert.Equal(t, entities.SentimentSourceLexicon, result.Source)
	assert.Equal(t, 1, backend.calls)
}

func TestClassifyBackendTimeoutFallsBack(t *testing.T) {
	backend := &fakeBackend{block: true}
	c := NewClassifier(backend, Config{Timeout: 10 * time.Millisecond}, zaptest.NewLogger(t))

	result := c.Classify(context.Background(), "sad")
	assert.Equal(t, entities.SentimentNegative, result.Label)
	assert.Equal(t, entities.SentimentSourceLexicon, result.Source)
}

func TestExamplesBankIsBalanced(t *testing.T) {
	counts := map[entities.SentimentLabel]int{}
	for _, e := range Examples {
		counts[e.Label]++
	}
	assert.Equal(t, 15, counts[entities.SentimentNegative])
	assert.Equal(t, 15, counts[entities.SentimentPositive])
	assert.Equal(t, 15, counts[entities.SentimentNeutral])
}
