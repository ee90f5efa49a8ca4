package usecase

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
	"github.com/satriahrh/audexa/internal/language"
	"github.com/satriahrh/audexa/internal/speechtext"
)

const (
	defaultSpeechCharLimit  = 200
	defaultSynthesisTimeout = 15 * time.Second

	clientSideLongText = "Text too long for server TTS, using browser TTS"
	clientSideFailure  = "Server TTS unavailable, using browser TTS"
)

var errEmptyAudio = errors.New("synthesizer returned no audio")

// VoiceEgressConfig limits what is synthesized server-side
type VoiceEgressConfig struct {
	CharLimit int           `env:"TTS_CHAR_LIMIT" envDefault:"200"`
	Timeout   time.Duration `env:"TTS_TIMEOUT" envDefault:"15s"`
}

// VoiceEgressService renders reply text as audio or asks the client to speak it
type VoiceEgressService struct {
	tts       repositories.TextToSpeech
	charLimit int
	timeout   time.Duration
	logger    *zap.Logger
}

// NewVoiceEgressService creates a new voice egress service. A nil tts always delegates to the client.
func NewVoiceEgressService(tts repositories.TextToSpeech, config VoiceEgressConfig, logger *zap.Logger) *VoiceEgressService {
	if config.CharLimit <= 0 {
		config.CharLimit = defaultSpeechCharLimit
		logger.Info("Using default speech charLimit", zap.Int("charLimit", config.CharLimit))
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultSynthesisTimeout
		logger.Info("Using default synthesis timeout", zap.Duration("timeout", config.Timeout))
	}
	return &VoiceEgressService{
		tts:       tts,
		charLimit: config.CharLimit,
		timeout:   config.Timeout,
		logger:    logger,
	}
}

// Synthesize never fails; the worst case is a client-side speech request
func (s *VoiceEgressService) Synthesize(ctx context.Context, text, lang string) entities.SpeechResult {
	lang = language.Resolve(lang)

	if utf8.RuneCountInString(text) > s.charLimit {
		return clientSide(text, lang, clientSideLongText)
	}
	if s.tts == nil {
		return clientSide(text, lang, clientSideFailure)
	}

	spoken := speechtext.PlainText(text)

	audio, err := s.synthesize(ctx, spoken, lang)
	if err == nil {
		return serverSide(audio, text, lang)
	}
	s.logger.Warn("Synthesis failed",
		zap.String("language", lang),
		zap.Error(err))

	if lang != language.Baseline {
		audio, err = s.synthesize(ctx, spoken, language.Baseline)
		if err == nil {
			return serverSide(audio, text, language.Baseline)
		}
		s.logger.Warn("English synthesis failed", zap.Error(err))
	}

	return clientSide(text, language.Baseline, clientSideFailure)
}

func (s *VoiceEgressService) synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	audio, err := s.tts.Synthesize(ctx, text, repositories.SynthesisOptions{Language: lang, Fast: true})
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, errEmptyAudio
	}
	return audio, nil
}

func serverSide(audio []byte, text, lang string) entities.SpeechResult {
	return entities.SpeechResult{
		Audio:    audio,
		MimeType: "audio/mpeg",
		Text:     text,
		Language: lang,
	}
}

func clientSide(text, lang, message string) entities.SpeechResult {
	return entities.SpeechResult{
		Text:          text,
		Language:      lang,
		UseClientSide: true,
		Message:       message,
	}
}
