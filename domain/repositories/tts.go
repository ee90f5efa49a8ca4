package repositories

import "context"

// TextToSpeech abstracts speech synthesis services
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, options SynthesisOptions) ([]byte, error)
}

// SynthesisOptions selects language and pace
type SynthesisOptions struct {
	Language string
	Fast     bool
}
