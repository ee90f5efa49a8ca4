package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
	"github.com/satriahrh/audexa/internal/retry"
)

// OpenAIConfig holds the connection settings for OpenAI chat completions
type OpenAIConfig struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_BASE_URL"`
	Model      string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	// MaxRetries counts attempts after the first; 0 disables retries.
	MaxRetries int    `env:"OPENAI_MAX_RETRIES" envDefault:"2"`
}

// ValidateOpenAIConfig validates the OpenAIConfig
func ValidateOpenAIConfig(config OpenAIConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", config.MaxRetries)
	}
	return nil
}

// OpenAILLM implements LargeLanguageModel on the chat completions API
type OpenAILLM struct {
	client  *openai.Client
	logger  *zap.Logger
	model   string
	retrier *retry.Retrier
}

var _ repositories.LargeLanguageModel = (*OpenAILLM)(nil)

// NewOpenAILLM creates a chat completions client. doer may be nil to use the default HTTP client.
func NewOpenAILLM(config OpenAIConfig, doer openai.HTTPDoer, logger *zap.Logger) (*OpenAILLM, error) {
	if err := ValidateOpenAIConfig(config); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if doer != nil {
		clientConfig.HTTPClient = doer
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
		logger.Info("Using default model", zap.String("model", model))
	}

	return &OpenAILLM{
		client:  openai.NewClientWithConfig(clientConfig),
		logger:  logger,
		model:   model,
		retrier: newRetrier(config.MaxRetries),
	}, nil
}

// Generate maps the request onto system, history and user chat messages
func (o *OpenAILLM) Generate(ctx context.Context, req repositories.GenerationRequest) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.SystemPreamble,
	})
	for _, turn := range req.History {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    chatRole(turn.Role),
			Content: turn.Content,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Query,
	})

	var resp openai.ChatCompletionResponse
	err := o.retrier.Do(ctx, func() error {
		var err error
		resp, err = o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       o.model,
			Messages:    msgs,
			MaxTokens:   req.Sampling.MaxOutputTokens,
			Temperature: req.Sampling.Temperature,
			TopP:        req.Sampling.TopP,
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		o.logger.Warn("OpenAI returned no choices")
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func chatRole(role entities.Role) string {
	switch role {
	case entities.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case entities.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
