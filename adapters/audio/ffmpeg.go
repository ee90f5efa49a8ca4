package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrFFmpegNotFound is returned when the ffmpeg binary is not installed
var ErrFFmpegNotFound = errors.New("ffmpeg binary not found")

const defaultFFmpegBinary = "ffmpeg"

// FFmpeg transcodes containers the native decoders cannot read
type FFmpeg struct {
	binary string
	logger *zap.Logger
}

// NewFFmpeg returns a transcoder running binary, or "ffmpeg" from PATH when empty
func NewFFmpeg(binary string, logger *zap.Logger) *FFmpeg {
	if binary == "" {
		binary = defaultFFmpegBinary
		logger.Info("Using default ffmpeg binary", zap.String("binary", binary))
	}
	return &FFmpeg{binary: binary, logger: logger}
}

// Available reports whether the binary can be found
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.binary)
	return err == nil
}

// ToWAV converts any input into a mono 16-bit WAV at sampleRate. The error
// carries ffmpeg's stderr so callers can recognize unreadable input.
func (f *FFmpeg) ToWAV(ctx context.Context, in, out string, sampleRate int) error {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", in,
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-acodec", "pcm_s16le",
		"-f", "wav",
		out,
	}
	cmd := exec.CommandContext(ctx, f.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrFFmpegNotFound
		}
		msg := strings.TrimSpace(stderr.String())
		f.logger.Warn("ffmpeg conversion failed",
			zap.String("input", in),
			zap.String("stderr", msg),
			zap.Error(err))
		return fmt.Errorf("ffmpeg: %w: %s", err, msg)
	}
	return nil
}
