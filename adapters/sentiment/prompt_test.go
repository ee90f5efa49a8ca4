package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

func TestParseVerdict(t *testing.T) {
	v, err := parseVerdict(`{"label":"negative","confidence":0.82}`)
	require.NoError(t, err)
	assert.Equal(t, "negative", v.Label)
	assert.Equal(t, 0.82, v.Confidence)

	v, err = parseVerdict("```json\n{\"label\": \"positive\", \"confidence\": 0.5}\n```")
	require.NoError(t, err)
	assert.Equal(t, "positive", v.Label)

	_, err = parseVerdict("I think it is positive")
	assert.Error(t, err)

	_, err = parseVerdict(`{"confidence":0.9}`)
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("I'm fine", []repositories.LabeledExample{
		{Text: "I'm feeling hopeful", Label: entities.SentimentPositive},
	})
	assert.Contains(t, prompt, `"I'm feeling hopeful" => positive`)
	assert.Contains(t, prompt, `Message: "I'm fine"`)
}
