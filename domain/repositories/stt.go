package repositories

import (
	"context"
	"errors"
)

// ErrDecoderMissing is returned when the transcriber cannot find its external audio decoder
var ErrDecoderMissing = errors.New("audio decoder binary not found")

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// TranscribeFile transcribes an audio file on local storage
	TranscribeFile(ctx context.Context, path string, options TranscribeOptions) (string, error)
	// TranscribeSamples transcribes mono float32 PCM at options.SampleRate
	TranscribeSamples(ctx context.Context, samples []float32, options TranscribeOptions) (string, error)
}

// TranscribeOptions controls decoding. An empty Language means auto-detect.
type TranscribeOptions struct {
	Language            string  `json:"language"`
	SampleRate          int     `json:"sample_rate"`
	Temperature         float32 `json:"temperature"`
	ConditionOnPrevious bool    `json:"condition_on_previous_text"`
	NoSpeechThreshold   float32 `json:"no_speech_threshold"`
}
