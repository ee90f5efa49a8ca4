// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/satriahrh/audexa/adapters/llm"
	"github.com/satriahrh/audexa/adapters/mongo"
	"github.com/satriahrh/audexa/adapters/postgres"
	"github.com/satriahrh/audexa/adapters/stt"
	"github.com/satriahrh/audexa/adapters/tts"
	"github.com/satriahrh/audexa/internal/auth"
	"github.com/satriahrh/audexa/internal/sentiment"
	"github.com/satriahrh/audexa/usecase"
)

const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendNone   = "none"

	ProviderGoogle  = "google"
	ProviderWhisper = "whisper"

	StorageMemory   = "memory"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
)

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	Debug       bool     `env:"DEBUG"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	SocksProxy  string   `env:"SOCKS_PROXY"`
}

// SentimentConfig selects the external classifier behind the lexicon
type SentimentConfig struct {
	Backend string `env:"SENTIMENT_BACKEND" envDefault:"gemini"`
	Model   string `env:"SENTIMENT_MODEL"`
	sentiment.Config
}

// SpeechConfig selects the transcriber and the synthesizer
type SpeechConfig struct {
	Provider     string `env:"STT_PROVIDER" envDefault:"google"`
	FFmpegBinary string `env:"FFMPEG_BINARY" envDefault:"ffmpeg"`
	Google       stt.GoogleConfig
	Whisper      stt.WhisperConfig
	ElevenLabs   tts.ElevenLabsConfig
}

// StorageConfig selects where sessions live
type StorageConfig struct {
	Backend         string        `env:"STORAGE_BACKEND" envDefault:"memory"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"30m"`
	Mongo           mongo.Config
	Postgres        postgres.Config
}

// TelegramConfig enables the bot when a token is present
type TelegramConfig struct {
	Token           string `env:"TELEGRAM_TOKEN"`
	DefaultLanguage string `env:"TELEGRAM_DEFAULT_LANGUAGE" envDefault:"auto"`
}

// Enabled reports whether the bot should start
func (c TelegramConfig) Enabled() bool {
	return c.Token != ""
}

// PipelineConfig tunes generation and the voice pipelines
type PipelineConfig struct {
	Secondary  string `env:"GENERATION_SECONDARY"`
	Generation usecase.GenerationConfig
	Ingest     usecase.VoiceIngestConfig
	Egress     usecase.VoiceEgressConfig
}

// Config is the whole process configuration
type Config struct {
	Server    ServerConfig
	Gemini    llm.GeminiConfig
	OpenAI    llm.OpenAIConfig
	Sentiment SentimentConfig
	Speech    SpeechConfig
	Storage   StorageConfig
	Auth      auth.Config
	Telegram  TelegramConfig
	Pipeline  PipelineConfig
}

// Load reads the given .env files (".env" when none are named) and parses the
// environment. Missing files are ignored; variables already set win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the selector fields. Provider credentials are checked by
// the adapters when they are constructed.
func (c *Config) Validate() error {
	switch c.Sentiment.Backend {
	case BackendGemini, BackendOpenAI, BackendNone:
	default:
		return fmt.Errorf("unknown sentiment backend %q", c.Sentiment.Backend)
	}
	switch c.Speech.Provider {
	case ProviderGoogle, ProviderWhisper:
	default:
		return fmt.Errorf("unknown speech provider %q", c.Speech.Provider)
	}
	switch c.Storage.Backend {
	case StorageMemory:
	case StorageMongo:
		if c.Storage.Mongo.URI == "" {
			return errors.New("MONGODB_URI is required for mongo storage")
		}
	case StoragePostgres:
		if c.Storage.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Pipeline.Secondary {
	case "", BackendNone, BackendOpenAI:
	default:
		return fmt.Errorf("unknown secondary generator %q", c.Pipeline.Secondary)
	}
	return nil
}
