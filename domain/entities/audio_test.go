package entities

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(rate int, seconds float64, amplitude float64) []float32 {
	n := int(float64(rate) * seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	return out
}

func TestAudioClipDuration(t *testing.T) {
	clip := &AudioClip{Samples: make([]float32, 16000*2), SampleRate: 16000, Channels: 2}
	assert.Equal(t, time.Second, clip.Duration())
	assert.Equal(t, 16000, clip.Frames())
}

func TestAudioClipDBFS(t *testing.T) {
	silent := &AudioClip{Samples: make([]float32, 1000), SampleRate: 16000, Channels: 1}
	assert.True(t, math.IsInf(silent.DBFS(), -1))

	full := &AudioClip{Samples: []float32{1, -1, 1, -1}, SampleRate: 16000, Channels: 1}
	assert.InDelta(t, 0.0, full.DBFS(), 1e-9)

	half := &AudioClip{Samples: []float32{0.5, -0.5}, SampleRate: 16000, Channels: 1}
	assert.InDelta(t, -6.0206, half.DBFS(), 1e-3)
}

func TestAudioClipGain(t *testing.T) {
	clip := &AudioClip{Samples: sine(16000, 0.5, 0.01), SampleRate: 16000, Channels: 1}
	before := clip.DBFS()

	boosted := clip.Gain(20)
	assert.InDelta(t, before+20, boosted.DBFS(), 0.01)

	clipped := clip.Gain(80)
	for _, s := range clipped.Samples {
		require.LessOrEqual(t, math.Abs(float64(s)), 1.0)
	}
}

func TestAudioClipMonoAndResample(t *testing.T) {
	stereo := &AudioClip{Samples: []float32{1, 0, 0.5, 0.5, -1, 1}, SampleRate: 48000, Channels: 2}
	mono := stereo.Mono()
	assert.Equal(t, 1, mono.Channels)
	assert.Equal(t, []float32{0.5, 0.5, 0}, mono.Samples)

	long := &AudioClip{Samples: sine(48000, 1, 0.3), SampleRate: 48000, Channels: 1}
	down := long.Resample(16000)
	assert.Equal(t, 16000, down.SampleRate)
	assert.Equal(t, 16000, len(down.Samples))
	assert.InDelta(t, long.Duration().Seconds(), down.Duration().Seconds(), 0.001)
}
