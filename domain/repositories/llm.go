package repositories

import (
	"context"

	"github.com/satriahrh/audexa/domain/entities"
)

// LargeLanguageModel abstracts any generative text provider
type LargeLanguageModel interface {
	// Generate sends one assembled prompt and returns the raw model reply
	Generate(ctx context.Context, request GenerationRequest) (string, error)
}

// GenerationRequest is a fully assembled prompt plus sampling bounds
type GenerationRequest struct {
	SystemPreamble string
	History        []entities.Turn
	Query          string
	Sampling       SamplingParams
}

// SamplingParams bounds the length and randomness of a generation
type SamplingParams struct {
	MaxOutputTokens int
	Temperature     float32
	TopP            float32
	TopK            float32
}
