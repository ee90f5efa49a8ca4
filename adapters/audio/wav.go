package audio

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/satriahrh/audexa/domain/entities"
)

const pcmBitDepth = 16

// WriteWAV writes the clip as 16-bit PCM
func WriteWAV(path string, clip *entities.AudioClip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	channels := clip.Channels
	if channels <= 0 {
		channels = 1
	}
	enc := wav.NewEncoder(f, clip.SampleRate, pcmBitDepth, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: clip.SampleRate},
		Data:           PCM16(clip.Samples),
		SourceBitDepth: pcmBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}

// PCM16 converts normalized samples to 16-bit integer values
func PCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(math.Round(clamp(float64(s), -1, 1) * math.MaxInt16))
	}
	return out
}

// LinearPCM encodes normalized samples as little-endian 16-bit bytes
func LinearPCM(samples []float32) []byte {
	out := make([]byte, 2*len(samples))
	for i, v := range PCM16(samples) {
		u := uint16(int16(v))
		out[2*i] = byte(u)
		out[2*i+1] = byte(u >> 8)
	}
	return out
}
