package repositories

import (
	"context"

	"github.com/satriahrh/audexa/domain/entities"
)

// LabeledExample is one few-shot example for the sentiment backend
type LabeledExample struct {
	Text  string                  `json:"text"`
	Label entities.SentimentLabel `json:"label"`
}

// SentimentBackend is an external few-shot text classifier
type SentimentBackend interface {
	Classify(ctx context.Context, text string, examples []LabeledExample) (label string, confidence float64, err error)
}
