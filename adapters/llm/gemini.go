package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/audexa/domain/repositories"
	"github.com/satriahrh/audexa/internal/retry"
)

const defaultModel = "gemini-2.0-flash"

// GeminiConfig holds the connection settings for the Gemini API
type GeminiConfig struct {
	APIKey     string `env:"GEMINI_API_KEY"`
	Model      string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	// MaxRetries counts attempts after the first; 0 disables retries.
	MaxRetries int    `env:"GEMINI_MAX_RETRIES" envDefault:"2"`
}

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Gemini API key is required")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", config.MaxRetries)
	}
	return nil
}

// GeminiLLM implements the LargeLanguageModel interface using Google's Gemini API
type GeminiLLM struct {
	client  *genai.Client
	logger  *zap.Logger
	model   string
	retrier *retry.Retrier
}

var _ repositories.LargeLanguageModel = (*GeminiLLM)(nil)

// NewGeminiLLM creates a new Gemini LLM instance
func NewGeminiLLM(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiLLM, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	return &GeminiLLM{
		client:  client,
		logger:  logger,
		model:   model,
		retrier: newRetrier(config.MaxRetries),
	}, nil
}

// Client exposes the underlying genai client so other adapters can share it
func (g *GeminiLLM) Client() *genai.Client {
	return g.client
}

// Generate sends the rendered prompt in one request and returns the concatenated text parts
func (g *GeminiLLM) Generate(ctx context.Context, req repositories.GenerationRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(RenderPrompt(req), genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Sampling.Temperature),
		TopP:            genai.Ptr(req.Sampling.TopP),
		TopK:            genai.Ptr(req.Sampling.TopK),
		MaxOutputTokens: int32(req.Sampling.MaxOutputTokens),
	}

	var response *genai.GenerateContentResponse
	attempt := 0
	err := g.retrier.Do(ctx, func() error {
		attempt++
		var err error
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			g.logger.Warn("Failed to generate content",
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := extractText(response)
	g.logger.Info("Gemini response generated",
		zap.String("model", g.model),
		zap.Int("responseLength", len(text)))
	return text, nil
}

func extractText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}
	return text
}
