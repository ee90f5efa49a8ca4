package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/adapters/audio"
	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

const (
	googleSampleRate      = 16000
	googleChunkBytes      = 16 * 1024
	defaultGoogleLanguage = "en-US"
)

// locales maps the assistant's language codes to recognizer locales
var locales = map[string]string{
	"en": "en-US", "hi": "hi-IN", "bn": "bn-IN", "ta": "ta-IN", "te": "te-IN",
	"gu": "gu-IN", "pa": "pa-Guru-IN", "kn": "kn-IN", "ml": "ml-IN", "ur": "ur-IN",
	"es": "es-ES", "fr": "fr-FR", "de": "de-DE", "it": "it-IT", "pt": "pt-BR",
	"ru": "ru-RU", "ja": "ja-JP", "ko": "ko-KR", "zh": "cmn-Hans-CN", "ar": "ar-SA",
}

// GoogleConfig selects the fallback locales used when no language is forced
type GoogleConfig struct {
	DefaultLanguage      string   `env:"GOOGLE_STT_LANGUAGE"`
	AlternativeLanguages []string `env:"GOOGLE_STT_ALTERNATIVES" envSeparator:","`
}

// GoogleSpeechToText implements SpeechToText with Cloud Speech streaming recognition
type GoogleSpeechToText struct {
	client       *speech.Client
	ffmpeg       *audio.FFmpeg
	tempDir      string
	language     string
	alternatives []string
	logger       *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText dials Cloud Speech using application default credentials.
// ffmpeg is needed for anything that is not WAV, MP3 or Ogg Vorbis.
func NewGoogleSpeechToText(ctx context.Context, config GoogleConfig, ffmpeg *audio.FFmpeg, tempDir string, logger *zap.Logger) (*GoogleSpeechToText, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	if config.DefaultLanguage == "" {
		config.DefaultLanguage = defaultGoogleLanguage
		logger.Info("Using default recognition language", zap.String("language", config.DefaultLanguage))
	}
	alternatives := make([]string, 0, 3)
	for _, code := range config.AlternativeLanguages {
		if len(alternatives) == 3 {
			break
		}
		alternatives = append(alternatives, Locale(strings.TrimSpace(code)))
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &GoogleSpeechToText{
		client:       client,
		ffmpeg:       ffmpeg,
		tempDir:      tempDir,
		language:     Locale(config.DefaultLanguage),
		alternatives: alternatives,
		logger:       logger,
	}, nil
}

// Close releases the gRPC connection
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// Locale returns the recognizer locale for a short language code
func Locale(code string) string {
	if l, ok := locales[strings.ToLower(code)]; ok {
		return l
	}
	return code
}

// TranscribeFile decodes the file to 16 kHz mono and recognizes it. Containers
// without a native decoder are converted with ffmpeg first.
func (g *GoogleSpeechToText) TranscribeFile(ctx context.Context, path string, options repositories.TranscribeOptions) (string, error) {
	clip, err := audio.DecodeFile(path)
	if errors.Is(err, audio.ErrUnsupportedFormat) {
		clip, err = g.transcode(ctx, path)
	}
	if err != nil {
		return "", err
	}

	mono := clip.Mono().Resample(googleSampleRate)
	options.SampleRate = googleSampleRate
	return g.TranscribeSamples(ctx, mono.Samples, options)
}

func (g *GoogleSpeechToText) transcode(ctx context.Context, path string) (*entities.AudioClip, error) {
	if g.ffmpeg == nil || !g.ffmpeg.Available() {
		return nil, repositories.ErrDecoderMissing
	}

	out := filepath.Join(g.tempDir, "stt_"+uuid.NewString()+".wav")
	defer os.Remove(out)

	if err := g.ffmpeg.ToWAV(ctx, path, out, googleSampleRate); err != nil {
		if errors.Is(err, audio.ErrFFmpegNotFound) {
			return nil, repositories.ErrDecoderMissing
		}
		return nil, err
	}
	return audio.DecodeFile(out)
}

func (g *GoogleSpeechToText) TranscribeSamples(ctx context.Context, samples []float32, options repositories.TranscribeOptions) (string, error) {
	if len(samples) == 0 {
		return "", fmt.Errorf("no audio data received")
	}
	rate := options.SampleRate
	if rate <= 0 {
		rate = googleSampleRate
	}

	stream, err := g.client.StreamingRecognize(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create streaming recognize: %w", err)
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config:         g.recognitionConfig(options.Language, rate),
				InterimResults: false,
			},
		},
	}); err != nil {
		stream.CloseSend()
		return "", fmt.Errorf("failed to send streaming config: %w", err)
	}

	pcm := audio.LinearPCM(samples)
	for start := 0; start < len(pcm); start += googleChunkBytes {
		end := min(start+googleChunkBytes, len(pcm))
		if err := stream.Send(&speechpb.StreamingRecognizeRequest{
			StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
				AudioContent: pcm[start:end],
			},
		}); err != nil {
			stream.CloseSend()
			return "", fmt.Errorf("failed to send audio data: %w", err)
		}
	}

	if err := stream.CloseSend(); err != nil {
		return "", fmt.Errorf("failed to close send stream: %w", err)
	}

	return collectTranscript(stream)
}

func (g *GoogleSpeechToText) recognitionConfig(language string, rate int) *speechpb.RecognitionConfig {
	config := &speechpb.RecognitionConfig{
		Encoding:                   speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:            int32(rate),
		AudioChannelCount:          1,
		EnableAutomaticPunctuation: true,
	}
	if language != "" {
		config.LanguageCode = Locale(language)
		return config
	}
	config.LanguageCode = g.language
	config.AlternativeLanguageCodes = g.alternatives
	return config
}

type recognizeStream interface {
	Recv() (*speechpb.StreamingRecognizeResponse, error)
}

// collectTranscript joins the final results in the order they arrive
func collectTranscript(stream recognizeStream) (string, error) {
	var parts []string
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return strings.TrimSpace(strings.Join(parts, " ")), nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to receive response: %w", err)
		}

		for _, result := range resp.GetResults() {
			if result.GetIsFinal() && len(result.GetAlternatives()) > 0 {
				parts = append(parts, strings.TrimSpace(result.GetAlternatives()[0].GetTranscript()))
			}
		}
	}
}
