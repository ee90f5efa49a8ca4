// Package audio decodes uploaded recordings and writes normalized WAV files.
package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

const transcodeSampleRate = 16000

// Codec decodes natively when it can and through ffmpeg otherwise
type Codec struct {
	ffmpeg  *FFmpeg
	tempDir string
	logger  *zap.Logger
}

var _ repositories.AudioCodec = (*Codec)(nil)

// NewCodec creates a codec. ffmpeg may be nil, limiting input to WAV, MP3 and Ogg Vorbis.
func NewCodec(ffmpeg *FFmpeg, tempDir string, logger *zap.Logger) *Codec {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Codec{ffmpeg: ffmpeg, tempDir: tempDir, logger: logger}
}

func (c *Codec) Decode(ctx context.Context, path string) (*entities.AudioClip, error) {
	clip, err := DecodeFile(path)
	if err == nil {
		return clip, nil
	}
	if c.ffmpeg == nil {
		return nil, err
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		c.logger.Debug("Native decode failed, trying ffmpeg", zap.String("path", path), zap.Error(err))
	}

	out := filepath.Join(c.tempDir, "transcode_"+uuid.NewString()+".wav")
	defer func() {
		if rmErr := os.Remove(out); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			c.logger.Warn("Failed to remove transcode output", zap.String("path", out), zap.Error(rmErr))
		}
	}()

	if err := c.ffmpeg.ToWAV(ctx, path, out, transcodeSampleRate); err != nil {
		return nil, err
	}
	return DecodeFile(out)
}

func (c *Codec) DecodeNative(_ context.Context, path string) (*entities.AudioClip, error) {
	return DecodeFile(path)
}

func (c *Codec) WriteWAV(path string, clip *entities.AudioClip) error {
	return WriteWAV(path, clip)
}
