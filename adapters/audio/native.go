package audio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

// ErrUnsupportedFormat is returned for containers that need an external decoder
var ErrUnsupportedFormat = errors.New("unsupported audio format")

type format int

const (
	formatUnknown format = iota
	formatWAV
	formatMP3
	formatOgg
	formatWebM
)

var ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

// sniff picks a decoder from the extension, then from the leading bytes
func sniff(path string, r *bufio.Reader) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return formatWAV
	case ".mp3":
		return formatMP3
	case ".ogg", ".oga":
		return formatOgg
	case ".webm", ".mkv":
		return formatWebM
	}

	magic, _ := r.Peek(4)
	switch {
	case bytes.HasPrefix(magic, []byte("RIFF")):
		return formatWAV
	case bytes.HasPrefix(magic, []byte("OggS")):
		return formatOgg
	case bytes.HasPrefix(magic, []byte("ID3")), len(magic) >= 2 && magic[0] == 0xFF && magic[1]&0xE0 == 0xE0:
		return formatMP3
	case bytes.Equal(magic, ebmlMagic):
		return formatWebM
	}
	return formatUnknown
}

// DecodeFile decodes WAV, MP3 and Ogg Vorbis without external tools, keeping
// the native sample rate and channel layout
func DecodeFile(path string) (*entities.AudioClip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	switch sniff(path, br) {
	case formatWAV:
		return decodeWAV(f)
	case formatMP3:
		return decodeMP3(br)
	case formatOgg:
		return decodeOggVorbis(br)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func decodeWAV(r io.ReadSeeker) (*entities.AudioClip, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav header", repositories.ErrCorruptAudio)
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read wav pcm: %w", err)
	}
	if pb == nil || pb.Data == nil {
		return nil, errors.New("empty wav")
	}

	bd := int(dec.BitDepth)
	if bd == 0 {
		bd = 16
	}
	clip := &entities.AudioClip{
		Samples:    intSliceToFloat32(pb.Data, bd),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			clip.Channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			clip.SampleRate = pb.Format.SampleRate
		}
	}
	if clip.Channels <= 0 {
		clip.Channels = 1
	}
	return clip, nil
}

func decodeMP3(r io.Reader) (*entities.AudioClip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("open mp3: %w", err)
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return nil, err
	}

	sr := dec.SampleRate()
	if sr <= 0 {
		sr = 44100
	}
	// go-mp3 always emits interleaved 16-bit stereo
	return &entities.AudioClip{Samples: int16SliceToFloat32(ints), SampleRate: sr, Channels: 2}, nil
}

func decodeOggVorbis(r io.Reader) (*entities.AudioClip, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode ogg vorbis: %w", err)
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, errors.New("invalid ogg/vorbis stream")
	}
	return &entities.AudioClip{Samples: pcm, SampleRate: format.SampleRate, Channels: format.Channels}, nil
}

func intSliceToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1.0, 1.0))
	}
	return out
}

func int16SliceToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	const scale = 1.0 / 32768.0
	for i, v := range data {
		out[i] = float32(float64(v) * scale)
	}
	return out
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
