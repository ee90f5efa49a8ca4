package entities

import (
	"math"
	"time"
)

// AudioAsset is an uploaded recording moving through the ingest pipeline
type AudioAsset struct {
	Path           string  `json:"path"`
	DeclaredFormat string  `json:"declared_format"`
	SizeBytes      int64   `json:"size_bytes"`
	DurationMs     int64   `json:"duration_ms"`
	LoudnessDBFS   float64 `json:"loudness_dbfs"`
}

// AudioClip holds decoded PCM. Samples are interleaved and normalized to [-1, 1].
type AudioClip struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of samples per channel
func (c *AudioClip) Frames() int {
	if c.Channels <= 1 {
		return len(c.Samples)
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playback length of the clip
func (c *AudioClip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(c.Frames()) / float64(c.SampleRate) * float64(time.Second))
}

// DBFS returns the RMS loudness relative to full scale; silence is -Inf
func (c *AudioClip) DBFS() float64 {
	if len(c.Samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range c.Samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(c.Samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}

// Gain returns a copy amplified by db decibels, hard clipped to full scale
func (c *AudioClip) Gain(db float64) *AudioClip {
	factor := math.Pow(10, db/20)
	out := make([]float32, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = float32(clamp(float64(s)*factor, -1, 1))
	}
	return &AudioClip{Samples: out, SampleRate: c.SampleRate, Channels: c.Channels}
}

// Mono averages interleaved channels into one
func (c *AudioClip) Mono() *AudioClip {
	if c.Channels <= 1 {
		return &AudioClip{Samples: c.Samples, SampleRate: c.SampleRate, Channels: 1}
	}
	n := c.Frames()
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		var sum float64
		base := i * c.Channels
		for ch := 0; ch < c.Channels; ch++ {
			sum += float64(c.Samples[base+ch])
		}
		out[i] = float32(sum / float64(c.Channels))
	}
	return &AudioClip{Samples: out, SampleRate: c.SampleRate, Channels: 1}
}

// Resample converts a mono clip to rate using linear interpolation
func (c *AudioClip) Resample(rate int) *AudioClip {
	if c.SampleRate == rate || len(c.Samples) == 0 || c.SampleRate <= 0 {
		return &AudioClip{Samples: c.Samples, SampleRate: rate, Channels: c.Channels}
	}
	in := c.Samples
	ratio := float64(rate) / float64(c.SampleRate)
	n := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		src := float64(i) / ratio
		i0 := int(math.Floor(src))
		i1 := i0 + 1
		switch {
		case i0 >= len(in):
			out[i] = in[len(in)-1]
		case i1 >= len(in):
			out[i] = in[i0]
		default:
			a := float32(src - float64(i0))
			out[i] = in[i0]*(1-a) + in[i1]*a
		}
	}
	return &AudioClip{Samples: out, SampleRate: rate, Channels: c.Channels}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// TranscriptionFailureReason enumerates why the ingest pipeline gave up
type TranscriptionFailureReason string

const (
	TranscriptionTooShort        TranscriptionFailureReason = "too_short"
	TranscriptionNoSpeech        TranscriptionFailureReason = "no_speech"
	TranscriptionCorrupted       TranscriptionFailureReason = "corrupted"
	TranscriptionUnavailable     TranscriptionFailureReason = "unavailable"
	TranscriptionEmptyTranscript TranscriptionFailureReason = "empty_transcript"
)

// TranscriptionFailure carries a reason code and user-facing guidance
type TranscriptionFailure struct {
	Reason  TranscriptionFailureReason `json:"error"`
	Message string                     `json:"message"`
}

func (f *TranscriptionFailure) Error() string {
	return string(f.Reason) + ": " + f.Message
}

// SpeechResult is either synthesized audio or a request to speak client-side
type SpeechResult struct {
	Audio         []byte `json:"-"`
	MimeType      string `json:"-"`
	Text          string `json:"text"`
	Language      string `json:"language"`
	UseClientSide bool   `json:"use_browser_tts"`
	Message       string `json:"message,omitempty"`
}
