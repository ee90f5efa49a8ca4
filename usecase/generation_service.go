package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
	"github.com/satriahrh/audexa/internal/language"
)

const (
	systemPreamble = "You are AUDEXA, a compassionate mental health AI assistant. " +
		"Provide helpful, evidence-based guidance. Be warm and supportive."

	historyWindow = 3

	defaultGenerationTimeout = 30 * time.Second
	defaultMaxOutputTokens   = 1000
	defaultTemperature       = 0.7
	defaultTopP              = 0.8
	defaultTopK              = 40
)

// GenerationConfig bounds every generation request
type GenerationConfig struct {
	Timeout         time.Duration `env:"GENERATION_TIMEOUT" envDefault:"30s"`
	MaxOutputTokens int           `env:"GENERATION_MAX_OUTPUT_TOKENS" envDefault:"1000"`
	Temperature     float32       `env:"GENERATION_TEMPERATURE" envDefault:"0.7"`
	TopP            float32       `env:"GENERATION_TOP_P" envDefault:"0.8"`
	TopK            float32       `env:"GENERATION_TOP_K" envDefault:"40"`
}

type errorRule struct {
	kind    entities.ErrorKind
	markers []string
}

// errorRules are matched case-insensitively, first rule wins
var errorRules = []errorRule{
	{entities.ErrorKindQuotaExhausted, []string{"quota", "429", "resourceexhausted", "rate limit"}},
	{entities.ErrorKindAuth, []string{"api key", "authentication", "expired", "permission denied", "unauthenticated"}},
	{entities.ErrorKindTransient, []string{"deadline exceeded", "timeout", "context canceled", "unavailable"}},
}

// redFlags mark replies that are really error text in disguise
var redFlags = []string{"error", "unable", "quota", "credit"}

var errorNotices = map[entities.ErrorKind]string{
	entities.ErrorKindQuotaExhausted: "AUDEXA is under high demand right now. You're receiving pre-programmed guidance from the fallback system.",
	entities.ErrorKindAuth:           "AUDEXA's AI service is having trouble right now. You're receiving pre-programmed guidance from the fallback system.",
	entities.ErrorKindTransient:      "AI models are currently unavailable. You're receiving pre-programmed guidance from the fallback system.",
	entities.ErrorKindUnknown:        "AI models are currently unavailable. You're receiving pre-programmed guidance from the fallback system.",
}

// DegradedNotice is appended to the advisory when the backup model answered
const DegradedNotice = "AUDEXA's main AI service is busy, so this reply comes from a backup model."

// ClassifyError maps a backend error onto an ErrorKind
func ClassifyError(err error) entities.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return entities.ErrorKindTransient
	}
	msg := strings.ToLower(err.Error())
	for _, rule := range errorRules {
		for _, m := range rule.markers {
			if strings.Contains(msg, m) {
				return rule.kind
			}
		}
	}
	return entities.ErrorKindUnknown
}

// ErrorNotice is the user-facing sentence for a failure kind
func ErrorNotice(kind entities.ErrorKind) string {
	if notice, ok := errorNotices[kind]; ok {
		return notice
	}
	return errorNotices[entities.ErrorKindUnknown]
}

// HasRedFlag reports whether text looks like a leaked error message
func HasRedFlag(text string) bool {
	lower := strings.ToLower(text)
	for _, flag := range redFlags {
		if strings.Contains(lower, flag) {
			return true
		}
	}
	return false
}

// LanguageDirective tells the model which language and style to answer in.
// detected is true when the target came from auto-detection rather than the caller.
func LanguageDirective(target string, detected bool) string {
	if target == "" || target == language.Baseline {
		return " Respond in English. Keep your response to 2-3 sentences maximum, be warm and conversational, " +
			"and always end with a follow-up question or encouragement."
	}
	name := language.DisplayName(target)
	prefix := " IMPORTANT:"
	if detected {
		prefix = fmt.Sprintf(" IMPORTANT: I detected this message is in %s.", name)
	}
	return fmt.Sprintf("%s Respond ONLY in %s. Do not use English. Keep your response to 2-3 sentences maximum, "+
		"be warm and conversational, and always end with a follow-up question or encouragement in %s.", prefix, name, name)
}

// GenerationService turns a query into a GenerationOutcome and never returns an error.
// When the primary model fails and a secondary is configured, a secondary reply is Degraded.
type GenerationService struct {
	primary   repositories.LargeLanguageModel
	secondary repositories.LargeLanguageModel
	timeout   time.Duration
	sampling  repositories.SamplingParams
	logger    *zap.Logger
}

// NewGenerationService creates a new generation service. secondary may be nil;
// a nil primary makes every call fail as unknown.
func NewGenerationService(primary, secondary repositories.LargeLanguageModel, config GenerationConfig, logger *zap.Logger) *GenerationService {
	if config.Timeout <= 0 {
		config.Timeout = defaultGenerationTimeout
		logger.Info("Using default generation timeout", zap.Duration("timeout", config.Timeout))
	}
	if config.MaxOutputTokens <= 0 {
		config.MaxOutputTokens = defaultMaxOutputTokens
		logger.Info("Using default maxOutputTokens", zap.Int("maxOutputTokens", config.MaxOutputTokens))
	}
	if config.Temperature <= 0 {
		config.Temperature = defaultTemperature
		logger.Info("Using default temperature", zap.Float32("temperature", config.Temperature))
	}
	if config.TopP <= 0 {
		config.TopP = defaultTopP
		logger.Info("Using default topP", zap.Float32("topP", config.TopP))
	}
	if config.TopK <= 0 {
		config.TopK = defaultTopK
		logger.Info("Using default topK", zap.Float32("topK", config.TopK))
	}

	return &GenerationService{
		primary:   primary,
		secondary: secondary,
		timeout:   config.Timeout,
		sampling: repositories.SamplingParams{
			MaxOutputTokens: config.MaxOutputTokens,
			Temperature:     config.Temperature,
			TopP:            config.TopP,
			TopK:            config.TopK,
		},
		logger: logger,
	}
}

// Generate asks the model for a reply in the given language.
// detected marks a language chosen by auto-detection.
func (s *GenerationService) Generate(ctx context.Context, query string, history entities.ConversationContext, lang string, detected bool) entities.GenerationOutcome {
	if s.primary == nil {
		s.logger.Warn("No generation model configured")
		return entities.Failure(entities.ErrorKindUnknown)
	}

	req := repositories.GenerationRequest{
		SystemPreamble: systemPreamble,
		History:        history.Window(historyWindow),
		Query:          query + LanguageDirective(lang, detected),
		Sampling:       s.sampling,
	}

	text, kind, ok := s.attempt(ctx, s.primary, "primary", req)
	if ok {
		return entities.Success(text)
	}
	if s.secondary == nil {
		return entities.Failure(kind)
	}

	text, _, ok = s.attempt(ctx, s.secondary, "secondary", req)
	if ok {
		return entities.Degraded(text, "primary model unavailable: "+string(kind))
	}
	return entities.Failure(kind)
}

func (s *GenerationService) attempt(ctx context.Context, model repositories.LargeLanguageModel, name string, req repositories.GenerationRequest) (string, entities.ErrorKind, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := model.Generate(ctx, req)
	if err != nil {
		kind := ClassifyError(err)
		s.logger.Warn("Generation failed",
			zap.String("model", name),
			zap.String("errorKind", string(kind)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", kind, false
	}

	if strings.TrimSpace(text) == "" || HasRedFlag(text) {
		s.logger.Warn("Generation reply rejected",
			zap.String("model", name),
			zap.Int("responseLength", len(text)))
		return "", entities.ErrorKindUnknown, false
	}

	s.logger.Info("Generation succeeded",
		zap.String("model", name),
		zap.Int("responseLength", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, "", true
}
