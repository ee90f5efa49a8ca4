package usecase

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
	"github.com/satriahrh/audexa/internal/language"
)

const (
	defaultMinAudioBytes      = 800
	defaultMinAudioDuration   = 700 * time.Millisecond
	defaultSilenceFloorDBFS   = -70.0
	defaultQuietDBFS          = -35.0
	defaultTargetSampleRate   = 16000
	defaultTranscribeTimeout  = 60 * time.Second
	defaultNoSpeechThreshold  = 0.3
	minBoostDB                = 25.0
	maxBoostDB                = 45.0
	boostHeadroomDB           = 15.0
	ingestMessageTooShort     = "Audio recording too short or empty. Please speak clearly for at least 2-3 seconds and ensure your microphone is working."
	ingestMessageNoSpeech     = "No speech detected. Please check:\n1. Microphone permissions are granted\n2. Microphone is not muted\n3. Speak louder and closer to microphone\n4. Try using the 'Browser STT' button instead"
	ingestMessageCorrupted    = "Audio file appears to be corrupted. Please try recording again with a clear voice."
	ingestMessageUnavailable  = "Speech-to-text is temporarily unavailable: Audio processing tools are not properly installed. Please use text input for now."
	ingestMessageNoTranscript = "I couldn't detect any speech in your recording. Please try:\n1. Speaking more clearly and loudly\n2. Recording for at least 3-5 seconds\n3. Checking your microphone permissions\n4. Moving closer to your microphone\n5. Using text input instead"
)

// corruptionMarkers identify decoder output for unreadable containers
var corruptionMarkers = []string{"Invalid data", "EBML header parsing failed"}

// DefaultCandidateLanguages are swept in order when auto-detection yields nothing
var DefaultCandidateLanguages = []string{"hi", "en", "es", "fr", "de", "zh", "ja", "ko", "ar", "ru"}

// VoiceIngestConfig tunes the audio quality gates and the transcription sweep
type VoiceIngestConfig struct {
	TempDir            string        `env:"AUDIO_TEMP_DIR"`
	MinBytes           int64         `env:"AUDIO_MIN_BYTES" envDefault:"800"`
	MinDuration        time.Duration `env:"AUDIO_MIN_DURATION" envDefault:"700ms"`
	TargetSampleRate   int           `env:"AUDIO_TARGET_SAMPLE_RATE" envDefault:"16000"`
	Timeout            time.Duration `env:"STT_TIMEOUT" envDefault:"60s"`
	CandidateLanguages []string      `env:"STT_CANDIDATE_LANGUAGES" envSeparator:","`
}

// VoiceIngestService turns an uploaded recording into text
type VoiceIngestService struct {
	stt        repositories.SpeechToText
	codec      repositories.AudioCodec
	tempDir    string
	minBytes   int64
	minLength  time.Duration
	sampleRate int
	timeout    time.Duration
	candidates []string
	logger     *zap.Logger
}

// NewVoiceIngestService creates a new voice ingest service. A nil stt reports every upload as unavailable.
func NewVoiceIngestService(stt repositories.SpeechToText, codec repositories.AudioCodec, config VoiceIngestConfig, logger *zap.Logger) *VoiceIngestService {
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
		logger.Info("Using default audio temp dir", zap.String("tempDir", config.TempDir))
	}
	if config.MinBytes <= 0 {
		config.MinBytes = defaultMinAudioBytes
	}
	if config.MinDuration <= 0 {
		config.MinDuration = defaultMinAudioDuration
	}
	if config.TargetSampleRate <= 0 {
		config.TargetSampleRate = defaultTargetSampleRate
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTranscribeTimeout
		logger.Info("Using default transcription timeout", zap.Duration("timeout", config.Timeout))
	}
	if len(config.CandidateLanguages) == 0 {
		config.CandidateLanguages = DefaultCandidateLanguages
	}

	return &VoiceIngestService{
		stt:        stt,
		codec:      codec,
		tempDir:    config.TempDir,
		minBytes:   config.MinBytes,
		minLength:  config.MinDuration,
		sampleRate: config.TargetSampleRate,
		timeout:    config.Timeout,
		candidates: config.CandidateLanguages,
		logger:     logger,
	}
}

// TempPath returns a collision-resistant path in the ingest temp dir
func (s *VoiceIngestService) TempPath(ext string) string {
	return filepath.Join(s.tempDir, "audio_"+uuid.NewString()+ext)
}

// Transcribe runs the quality gates and the transcription ladder. The uploaded file
// and every intermediate file are removed before it returns.
func (s *VoiceIngestService) Transcribe(ctx context.Context, asset *entities.AudioAsset, languageHint string) (string, *entities.TranscriptionFailure) {
	cleanup := []string{asset.Path}
	defer func() {
		for _, path := range cleanup {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("Failed to remove audio file", zap.String("path", path), zap.Error(err))
			}
		}
	}()

	info, err := os.Stat(asset.Path)
	if err != nil || info.Size() < s.minBytes {
		s.logger.Info("Audio upload too small", zap.String("path", asset.Path), zap.Error(err))
		return "", failure(entities.TranscriptionTooShort, ingestMessageTooShort)
	}
	asset.SizeBytes = info.Size()

	if s.stt == nil {
		return "", failure(entities.TranscriptionUnavailable, ingestMessageUnavailable)
	}

	workPath := asset.Path
	converted, fail := s.normalize(ctx, asset)
	if fail != nil {
		return "", fail
	}
	if converted != "" {
		cleanup = append(cleanup, converted)
		workPath = converted
	}

	hint := ""
	if !language.IsAuto(languageHint) {
		hint = languageHint
	}

	text, err := s.transcribe(ctx, workPath, hint)
	if errors.Is(err, errNoTranscriber) {
		return "", failure(entities.TranscriptionUnavailable, ingestMessageUnavailable)
	}
	if text != "" {
		return text, nil
	}

	if workPath != asset.Path {
		s.logger.Info("Empty transcript from converted audio, trying original upload")
		if text, _ = s.transcribe(ctx, asset.Path, hint); text != "" {
			return text, nil
		}
	}

	for _, lang := range s.sweep(hint) {
		if text, _ = s.transcribe(ctx, workPath, lang); text != "" {
			s.logger.Info("Transcript recovered by language sweep", zap.String("language", lang))
			return text, nil
		}
	}

	return "", failure(entities.TranscriptionEmptyTranscript, ingestMessageNoTranscript)
}

// normalize decodes the upload, applies the quality gates and writes a 16 kHz mono WAV.
// An empty path with no failure means conversion was skipped and the original should be used.
func (s *VoiceIngestService) normalize(ctx context.Context, asset *entities.AudioAsset) (string, *entities.TranscriptionFailure) {
	if s.codec == nil {
		return "", nil
	}

	clip, err := s.codec.Decode(ctx, asset.Path)
	if err != nil {
		if isCorrupted(err) {
			s.logger.Info("Audio upload is corrupted", zap.Error(err))
			return "", failure(entities.TranscriptionCorrupted, ingestMessageCorrupted)
		}
		s.logger.Warn("Audio conversion failed, continuing with original file", zap.Error(err))
		return "", nil
	}

	duration := clip.Duration()
	loudness := clip.DBFS()
	asset.DurationMs = duration.Milliseconds()
	asset.LoudnessDBFS = loudness

	s.logger.Info("Audio analyzed",
		zap.Int64("durationMs", asset.DurationMs),
		zap.Int("sampleRate", clip.SampleRate),
		zap.Int("channels", clip.Channels),
		zap.Float64("dBFS", loudness))

	if duration < s.minLength {
		return "", failure(entities.TranscriptionTooShort, ingestMessageTooShort)
	}
	if math.IsInf(loudness, -1) || loudness < defaultSilenceFloorDBFS {
		return "", failure(entities.TranscriptionNoSpeech, ingestMessageNoSpeech)
	}
	if loudness < defaultQuietDBFS {
		boost := BoostFor(loudness)
		clip = clip.Gain(boost)
		s.logger.Info("Boosted quiet audio", zap.Float64("boostDB", boost), zap.Float64("dBFS", clip.DBFS()))
	}

	clip = clip.Mono().Resample(s.sampleRate)
	out := s.TempPath(".wav")
	if err := s.codec.WriteWAV(out, clip); err != nil {
		s.logger.Warn("Failed to write normalized audio, continuing with original file", zap.Error(err))
		_ = os.Remove(out)
		return "", nil
	}
	return out, nil
}

var errNoTranscriber = errors.New("no usable transcriber")

// transcribe runs one attempt. Errors other than a missing transcriber count as an empty result.
func (s *VoiceIngestService) transcribe(ctx context.Context, path, lang string) (string, error) {
	opts := repositories.TranscribeOptions{
		Language:            lang,
		SampleRate:          s.sampleRate,
		Temperature:         0,
		ConditionOnPrevious: false,
		NoSpeechThreshold:   defaultNoSpeechThreshold,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.stt.TranscribeFile(callCtx, path, opts)
	if errors.Is(err, repositories.ErrDecoderMissing) {
		s.logger.Warn("Transcriber decoder missing, loading samples natively")
		text, err = s.transcribeNative(callCtx, path, opts)
		if err != nil {
			s.logger.Error("Native transcription failed", zap.Error(err))
			return "", errNoTranscriber
		}
	} else if err != nil {
		s.logger.Warn("Transcription attempt failed",
			zap.String("language", lang),
			zap.Error(err))
		return "", nil
	}
	return strings.TrimSpace(text), nil
}

func (s *VoiceIngestService) transcribeNative(ctx context.Context, path string, opts repositories.TranscribeOptions) (string, error) {
	if s.codec == nil {
		return "", errNoTranscriber
	}
	clip, err := s.codec.DecodeNative(ctx, path)
	if err != nil {
		return "", err
	}
	clip = clip.Mono().Resample(s.sampleRate)
	return s.stt.TranscribeSamples(ctx, clip.Samples, opts)
}

// sweep lists the languages to retry: auto-detect first, then every candidate except the hint
func (s *VoiceIngestService) sweep(hint string) []string {
	langs := make([]string, 0, len(s.candidates)+1)
	if hint != "" {
		langs = append(langs, "")
	}
	for _, c := range s.candidates {
		if c != hint {
			langs = append(langs, c)
		}
	}
	return langs
}

// BoostFor returns the gain applied to quiet audio: min(45, max(25, -dBFS-15))
func BoostFor(dbfs float64) float64 {
	return math.Min(maxBoostDB, math.Max(minBoostDB, -dbfs-boostHeadroomDB))
}

func isCorrupted(err error) bool {
	if errors.Is(err, repositories.ErrCorruptAudio) {
		return true
	}
	msg := err.Error()
	for _, m := range corruptionMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func failure(reason entities.TranscriptionFailureReason, message string) *entities.TranscriptionFailure {
	return &entities.TranscriptionFailure{Reason: reason, Message: message}
}
