package llm

import (
	"strings"

	"github.com/satriahrh/audexa/domain/repositories"
)

// RenderPrompt flattens a request into a single text prompt:
// preamble, "ROLE: content" history lines, then the query and an open
// assistant slot.
func RenderPrompt(req repositories.GenerationRequest) string {
	var b strings.Builder
	b.WriteString(req.SystemPreamble)
	b.WriteString("\n\n")

	lines := make([]string, 0, len(req.History))
	for _, turn := range req.History {
		if turn.Role == "" || turn.Content == "" {
			continue
		}
		lines = append(lines, strings.ToUpper(string(turn.Role))+": "+turn.Content)
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\nUSER: ")
	b.WriteString(req.Query)
	b.WriteString("\nASSISTANT:")
	return b.String()
}
