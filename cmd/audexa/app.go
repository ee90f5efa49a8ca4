package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/adapters/audio"
	"github.com/satriahrh/audexa/adapters/llm"
	"github.com/satriahrh/audexa/adapters/memory"
	"github.com/satriahrh/audexa/adapters/mongo"
	"github.com/satriahrh/audexa/adapters/postgres"
	sentimentbackend "github.com/satriahrh/audexa/adapters/sentiment"
	"github.com/satriahrh/audexa/adapters/stt"
	"github.com/satriahrh/audexa/adapters/tts"
	"github.com/satriahrh/audexa/domain/repositories"
	"github.com/satriahrh/audexa/internal/config"
	"github.com/satriahrh/audexa/internal/fallback"
	"github.com/satriahrh/audexa/internal/language"
	"github.com/satriahrh/audexa/internal/proxy"
	"github.com/satriahrh/audexa/internal/sentiment"
	"github.com/satriahrh/audexa/usecase"
)

// app holds the wired services and everything that must be released on exit
type app struct {
	sessions     repositories.SessionRepository
	conversation *usecase.ConversationService
	ingest       *usecase.VoiceIngestService
	closers      []func(context.Context) error
	logger       *zap.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *app, err error) {
	a := &app{logger: logger}
	defer func() {
		if err != nil {
			a.Close(context.Background())
		}
	}()

	httpClient, err := proxy.NewClient(cfg.Server.SocksProxy)
	if err != nil {
		return nil, err
	}
	if cfg.Server.SocksProxy != "" {
		logger.Info("Routing provider traffic through SOCKS proxy", zap.String("proxy", cfg.Server.SocksProxy))
	}

	var primary repositories.LargeLanguageModel
	var gemini *llm.GeminiLLM
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, running without a primary generation model")
	} else {
		gemini, err = llm.NewGeminiLLM(ctx, cfg.Gemini, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini: %w", err)
		}
		primary = gemini
	}

	var secondary repositories.LargeLanguageModel
	if cfg.Pipeline.Secondary == config.BackendOpenAI {
		openaiLLM, err := llm.NewOpenAILLM(cfg.OpenAI, httpClient, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI: %w", err)
		}
		secondary = openaiLLM
	}

	classifier := sentiment.NewClassifier(sentimentBackend(cfg, gemini, httpClient, logger), cfg.Sentiment.Config, logger)
	generation := usecase.NewGenerationService(primary, secondary, cfg.Pipeline.Generation, logger)
	pipeline := usecase.NewResponsePipeline(language.NewDetector(language.Baseline), classifier, generation, fallback.NewResponder(), logger)

	ffmpeg := audio.NewFFmpeg(cfg.Speech.FFmpegBinary, logger)
	if !ffmpeg.Available() {
		logger.Warn("ffmpeg not found, only WAV, MP3 and Ogg Vorbis uploads can be decoded",
			zap.String("binary", cfg.Speech.FFmpegBinary))
		ffmpeg = nil
	}
	tempDir := cfg.Pipeline.Ingest.TempDir
	codec := audio.NewCodec(ffmpeg, tempDir, logger)

	transcriber, err := a.speechToText(ctx, cfg, ffmpeg, httpClient)
	if err != nil {
		return nil, err
	}

	var synthesizer repositories.TextToSpeech
	elevenLabs, err := tts.NewElevenLabsTTS(cfg.Speech.ElevenLabs, httpClient, logger)
	if err != nil {
		logger.Warn("Speech synthesis disabled, replies will be spoken by the client", zap.Error(err))
	} else {
		synthesizer = elevenLabs
	}

	a.sessions, err = a.sessionRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.ingest = usecase.NewVoiceIngestService(transcriber, codec, cfg.Pipeline.Ingest, logger)
	egress := usecase.NewVoiceEgressService(synthesizer, cfg.Pipeline.Egress, logger)
	a.conversation = usecase.NewConversationService(a.sessions, pipeline, a.ingest, egress, logger)

	return a, nil
}

func sentimentBackend(cfg *config.Config, gemini *llm.GeminiLLM, httpClient *http.Client, logger *zap.Logger) repositories.SentimentBackend {
	switch cfg.Sentiment.Backend {
	case config.BackendGemini:
		if gemini == nil {
			logger.Warn("Gemini sentiment backend needs GEMINI_API_KEY, using lexicon only")
			return nil
		}
		return sentimentbackend.NewGeminiClassifier(gemini.Client(), cfg.Sentiment.Model, logger)
	case config.BackendOpenAI:
		opts := []option.RequestOption{
			option.WithAPIKey(cfg.OpenAI.APIKey),
			option.WithHTTPClient(httpClient),
		}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		return sentimentbackend.NewOpenAIClassifier(cfg.Sentiment.Model, logger, opts...)
	default:
		logger.Info("Sentiment backend disabled, using lexicon only")
		return nil
	}
}

func (a *app) speechToText(ctx context.Context, cfg *config.Config, ffmpeg *audio.FFmpeg, httpClient *http.Client) (repositories.SpeechToText, error) {
	tempDir := cfg.Pipeline.Ingest.TempDir
	switch cfg.Speech.Provider {
	case config.ProviderWhisper:
		whisper, err := stt.NewWhisperSpeechToText(cfg.Speech.Whisper, httpClient, tempDir, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Whisper: %w", err)
		}
		return whisper, nil
	default:
		google, err := stt.NewGoogleSpeechToText(ctx, cfg.Speech.Google, ffmpeg, tempDir, a.logger)
		if err != nil {
			a.logger.Warn("Google Speech-to-Text unavailable, voice input disabled", zap.Error(err))
			return nil, nil
		}
		a.closers = append(a.closers, func(context.Context) error { return google.Close() })
		return google, nil
	}
}

func (a *app) sessionRepository(ctx context.Context, cfg *config.Config) (repositories.SessionRepository, error) {
	switch cfg.Storage.Backend {
	case config.StorageMongo:
		client, err := mongo.NewClient(ctx, cfg.Storage.Mongo, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		repo := mongo.NewSessionRepository(client.Database, a.logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to create session indexes: %w", err)
		}
		return repo, nil
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, cfg.Storage.Postgres)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		repo := postgres.NewSessionRepository(db, a.logger)
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate session schema: %w", err)
		}
		return repo, nil
	default:
		a.logger.Info("Using in-memory session storage")
		return memory.NewSessionRepository(), nil
	}
}

// Close releases connections in reverse order of acquisition
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
