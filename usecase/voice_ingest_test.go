package usecase

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

func constantClip(value float32, seconds float64, rate, channels int) *entities.AudioClip {
	samples := make([]float32, int(seconds*float64(rate))*channels)
	for i := range samples {
		samples[i] = value
	}
	return &entities.AudioClip{Samples: samples, SampleRate: rate, Channels: channels}
}

func writeUpload(t *testing.T, dir string, size int) *entities.AudioAsset {
	t.Helper()
	path := filepath.Join(dir, "upload.webm")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	return &entities.AudioAsset{Path: path, DeclaredFormat: "webm"}
}

func newTestIngest(t *testing.T, dir string, stt repositories.SpeechToText, codec repositories.AudioCodec) *VoiceIngestService {
	return NewVoiceIngestService(stt, codec, VoiceIngestConfig{TempDir: dir}, zaptest.NewLogger(t))
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func textFor(text string) func(sttCall) (string, error) {
	return func(sttCall) (string, error) { return text, nil }
}

func TestTranscribeRejectsTinyUpload(t *testing.T) {
	dir := t.TempDir()
	stt := &fakeSTT{respond: textFor("hello")}
	svc := newTestIngest(t, dir, stt, &fakeCodec{clip: constantClip(0.5, 1, 16000, 1)})

	text, fail := svc.Transcribe(context.Background(), writeUpload(t, dir, 500), "auto")

	assert.Empty(t, text)
	require.NotNil(t, fail)
	assert.Equal(t, entities.TranscriptionTooShort, fail.Reason)
	assert.Empty(t, stt.calls)
	assertDirEmpty(t, dir)
}

func TestTranscribeMissingFile(t *testing.T) {
	dir := t.TempDir()
	svc := newTestIngest(t, dir, &fakeSTT{respond: textFor("hello")}, &fakeCodec{})

	_, fail := svc.Transcribe(context.Background(), &entities.AudioAsset{Path: filepath.Join(dir, "nope.webm")}, "")
	require.NotNil(t, fail)
	assert.Equal(t, entities.TranscriptionTooShort, fail.Reason)
}

func TestTranscribeQualityGates(t *testing.T) {
	tests := []struct {
		name     string
		codec    *fakeCodec
		expected entities.TranscriptionFailureReason
	}{
		{name: "short clip", codec: &fakeCodec{clip: constantClip(0.5, 0.5, 16000, 1)}, expected: entities.TranscriptionTooShort},
		{name: "silence", codec: &fakeCodec{clip: constantClip(0, 2, 16000, 1)}, expected: entities.TranscriptionNoSpeech},
		{name: "below floor", codec: &fakeCodec{clip: constantClip(0.0001, 2, 16000, 1)}, expected: entities.TranscriptionNoSpeech},
		{name: "corrupted container", codec: &fakeCodec{err: errors.New("ffmpeg: EBML header parsing failed")}, expected: entities.TranscriptionCorrupted},
		{name: "invalid data", codec: &fakeCodec{err: errors.New("Invalid data found when processing input")}, expected: entities.TranscriptionCorrupted},
		{name: "corrupt sentinel", codec: &fakeCodec{err: repositories.ErrCorruptAudio}, expected: entities.TranscriptionCorrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			stt := &fakeSTT{respond: textFor("hello")}
			svc := newTestIngest(t, dir, stt, tt.codec)

			text, fail := svc.Transcribe(context.Background(), writeUpload(t, dir, 4096), "auto")

			assert.Empty(t, text)
			require.NotNil(t, fail)
			assert.Equal(t, tt.expected, fail.Reason)
			assert.NotEmpty(t, fail.Message)
			assert.Empty(t, stt.calls)
			assertDirEmpty(t, dir)
		})
	}
}

func TestTranscribeNormalizesAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	codec := &fakeCodec{clip: constantClip(0.5, 1, 48000, 2)}
	stt := &fakeSTT{respond: textFor("  I feel anxious  ")}
	svc := newTestIngest(t, dir, stt, codec)
	asset := writeUpload(t, dir, 4096)

	text, fail := svc.Transcribe(context.Background(), asset, "en")

	require.Nil(t, fail)
	assert.Equal(t, "I feel anxious", text)
	require.NotNil(t, codec.written)
	assert.Equal(t, 16000, codec.written.SampleRate)
	assert.Equal(t, 1, codec.written.Channels)
	require.Len(t, stt.calls, 1)
	assert.NotEqual(t, asset.Path, stt.calls[0].path)
	assert.Equal(t, "en", stt.calls[0].lang)
	assert.Equal(t, int64(1000), asset.DurationMs)
	assertDirEmpty(t, dir)
}

func TestTranscribeBoostsQuietAudio(t *testing.T) {
	dir := t.TempDir()
	quiet := float32(math.Pow(10, -50.0/20))
	codec := &fakeCodec{clip: constantClip(quiet, 1, 16000, 1)}
	svc := newTestIngest(t, dir, &fakeSTT{respond: textFor("hi")}, codec)

	_, fail := svc.Transcribe(context.Background(), writeUpload(t, dir, 4096), "auto")

	require.Nil(t, fail)
	require.NotNil(t, codec.written)
	assert.InDelta(t, -15.0, codec.written.DBFS(), 0.1)
}

func TestTranscribeContinuesAfterConversionError(t *testing.T) {
	dir := t.TempDir()
	stt := &fakeSTT{respond: textFor("hola")}
	svc := newTestIngest(t, dir, stt, &fakeCodec{err: errors.New("exit status 1")})
	asset := writeUpload(t, dir, 4096)

	text, fail := svc.Transcribe(context.Background(), asset, "auto")

	require.Nil(t, fail)
	assert.Equal(t, "hola", text)
	require.Len(t, stt.calls, 1)
	assert.Equal(t, asset.Path, stt.calls[0].path)
	assert.Equal(t, "", stt.calls[0].lang)
	assertDirEmpty(t, dir)
}

func TestTranscribeDecoderMissingUsesSamples(t *testing.T) {
	dir := t.TempDir()
	stt := &fakeSTT{respond: func(call sttCall) (string, error) {
		if !call.samples {
			return "", repositories.ErrDecoderMissing
		}
		return "from samples", nil
	}}
	svc := newTestIngest(t, dir, stt, &fakeCodec{clip: constantClip(0.5, 1, 16000, 1)})

	text, fail := svc.Transcribe(context.Background(), writeUpload(t, dir, 4096), "auto")

	require.Nil(t, fail)
	assert.Equal(t, "from samples", text)
	assertDirEmpty(t, dir)
}

func TestTranscribeDecoderMissingAndNativeFailure(t *testing.T) {
	dir := t.TempDir()
	stt := &fakeSTT{respond: func(sttCall) (string, error) { return "", repositories.ErrDecoderMissing }}
	codec := &fakeCodec{clip: constantClip(0.5, 1, 16000, 1), nativeErr: errors.New("unsupported container")}
	svc := newTestIngest(t, dir, stt, codec)

	_, fail := svc.Transcribe(context.Background(), writeUpload(t, dir, 4096), "auto")

	require.NotNil(t, fail)
	assert.Equal(t, entities.TranscriptionUnavailable, fail.Reason)
	assertDirEmpty(t, dir)
}

func TestTranscribeRetriesOriginalUpload(t *testing.T) {
	dir := t.TempDir()
	asset := writeUpload(t, dir, 4096)
	stt := &fakeSTT{respond: func(call sttCall) (string, error) {
		if call.path == asset.Path {
			return "original worked", nil
		}
		return "", nil
	}}
	svc := newTestIngest(t, dir, stt, &fakeCodec{clip: constantClip(0.5, 1, 16000, 1)})

	text, fail := svc.Transcribe(context.Background(), asset, "auto")

	require.Nil(t, fail)
	assert.Equal(t, "original worked", text)
	require.Len(t, stt.calls, 2)
	assert.Equal(t, asset.Path, stt.calls[1].path)
}

func TestTranscribeLanguageSweep(t *testing.T) {
	dir := t.TempDir()
	stt := &fakeSTT{respond: func(call sttCall) (string, error) {
		if call.lang == "es" {
			return "hola", nil
		}
		return "", nil
	}}
	svc := newTestIngest(t, dir, stt, &fakeCodec{clip: constantClip(0.5, 1, 16000, 1)})

	text, fail := svc.Transcribe(context.Background(), writeUpload(t, dir, 4096), "fr")

	require.Nil(t, fail)
	assert.Equal(t, "hola", text)

	langs := make([]string, 0, len(stt.calls))
	for _, c := range stt.calls {
		langs = append(langs, c.lang)
	}
	assert.Equal(t, []string{"fr", "fr", "", "hi", "en", "es"}, langs)
	assertDirEmpty(t, dir)
}

func TestTranscribeAllEmpty(t *testing.T) {
	dir := t.TempDir()
	stt := &fakeSTT{respond: textFor("")}
	svc := newTestIngest(t, dir, stt, &fakeCodec{clip: constantClip(0.5, 1, 16000, 1)})

	text, fail := svc.Transcribe(context.Background(), writeUpload(t, dir, 4096), "auto")

	assert.Empty(t, text)
	require.NotNil(t, fail)
	assert.Equal(t, entities.TranscriptionEmptyTranscript, fail.Reason)
	// converted, original, then the ten candidates
	assert.Len(t, stt.calls, 12)
	assertDirEmpty(t, dir)
}

func TestTranscribeWithoutTranscriber(t *testing.T) {
	dir := t.TempDir()
	svc := newTestIngest(t, dir, nil, &fakeCodec{})

	_, fail := svc.Transcribe(context.Background(), writeUpload(t, dir, 4096), "auto")
	require.NotNil(t, fail)
	assert.Equal(t, entities.TranscriptionUnavailable, fail.Reason)
	assertDirEmpty(t, dir)
}

func TestBoostFor(t *testing.T) {
	assert.Equal(t, 25.0, BoostFor(-36))
	assert.Equal(t, 25.0, BoostFor(-40))
	assert.Equal(t, 35.0, BoostFor(-50))
	assert.Equal(t, 45.0, BoostFor(-65))
}
