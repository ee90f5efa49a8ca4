package sentiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/audexa/domain/repositories"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClassifier asks Gemini for a JSON verdict
type GeminiClassifier struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

var _ repositories.SentimentBackend = (*GeminiClassifier)(nil)

// NewGeminiClassifier builds a classifier on an existing genai client
func NewGeminiClassifier(client *genai.Client, model string, logger *zap.Logger) *GeminiClassifier {
	if model == "" {
		model = defaultGeminiModel
		logger.Info("Using default sentiment model", zap.String("model", model))
	}
	return &GeminiClassifier{client: client, model: model, logger: logger}
}

func (g *GeminiClassifier) Classify(ctx context.Context, text string, examples []repositories.LabeledExample) (string, float64, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instructions, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		ResponseMIMEType:  "application/json",
		MaxOutputTokens:   64,
	}
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(text, examples), genai.RoleUser),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", 0, fmt.Errorf("gemini sentiment: %w", err)
	}

	v, err := parseVerdict(responseText(response))
	if err != nil {
		return "", 0, err
	}
	g.logger.Debug("Gemini sentiment verdict",
		zap.String("label", v.Label),
		zap.Float64("confidence", v.Confidence))
	return v.Label, v.Confidence, nil
}

func responseText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text
}
