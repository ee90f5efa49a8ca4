package sentiment

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/repositories"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClassifier asks an OpenAI chat model for a JSON verdict
type OpenAIClassifier struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

var _ repositories.SentimentBackend = (*OpenAIClassifier)(nil)

// NewOpenAIClassifier builds a classifier. opts typically carry the API key and HTTP client.
func NewOpenAIClassifier(model string, logger *zap.Logger, opts ...option.RequestOption) *OpenAIClassifier {
	if model == "" {
		model = defaultOpenAIModel
		logger.Info("Using default sentiment model", zap.String("model", model))
	}
	return &OpenAIClassifier{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

func (o *OpenAIClassifier) Classify(ctx context.Context, text string, examples []repositories.LabeledExample) (string, float64, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(buildPrompt(text, examples)),
		},
		Model:       openai.ChatModel(o.model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", 0, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("no choices in response")
	}

	v, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return "", 0, err
	}
	o.logger.Debug("OpenAI sentiment verdict",
		zap.String("label", v.Label),
		zap.Float64("confidence", v.Confidence))
	return v.Label, v.Confidence, nil
}
