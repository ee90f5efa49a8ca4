// Package sentiment holds few-shot sentiment backends built on hosted language models.
package sentiment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/satriahrh/audexa/domain/repositories"
)

const instructions = `Classify the sentiment of the final message as positive, negative or neutral.
Reply with JSON only, no markdown: {"label":"<positive|negative|neutral>","confidence":<0.0-1.0>}`

type verdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func buildPrompt(text string, examples []repositories.LabeledExample) string {
	var b strings.Builder
	b.WriteString("Examples:\n")
	for _, e := range examples {
		fmt.Fprintf(&b, "%q => %s\n", e.Text, e.Label)
	}
	fmt.Fprintf(&b, "\nMessage: %q", text)
	return b.String()
}

// parseVerdict tolerates code fences around the JSON object
func parseVerdict(raw string) (verdict, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return verdict{}, fmt.Errorf("no JSON object in reply: %q", raw)
	}
	var v verdict
	if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
		return verdict{}, fmt.Errorf("unmarshal sentiment verdict: %w", err)
	}
	if v.Label == "" {
		return verdict{}, fmt.Errorf("empty label in reply: %q", raw)
	}
	return v, nil
}
