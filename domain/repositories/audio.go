package repositories

import (
	"context"
	"errors"

	"github.com/satriahrh/audexa/domain/entities"
)

// ErrCorruptAudio is returned when a container cannot be parsed at all
var ErrCorruptAudio = errors.New("audio data is corrupted")

// AudioCodec decodes uploaded containers and writes normalized WAV files
type AudioCodec interface {
	// Decode reads any supported container, using external tools when needed
	Decode(ctx context.Context, path string) (*entities.AudioClip, error)
	// DecodeNative reads the file without external tools
	DecodeNative(ctx context.Context, path string) (*entities.AudioClip, error)
	// WriteWAV writes the clip as 16-bit PCM WAV
	WriteWAV(path string, clip *entities.AudioClip) error
}
