// Package speechtext turns markdown replies into text suitable for speech synthesis.
package speechtext

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
)

var extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock

// PlainText strips markdown decoration. On conversion failure the input is returned trimmed.
func PlainText(md string) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.Render(p.Parse([]byte(md)), renderer)

	text, err := html2text.FromString(string(rendered), html2text.Options{OmitLinks: true})
	if err != nil {
		return strings.TrimSpace(md)
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
		if line == "" || isRule(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// isRule matches the underline rows html2text draws under headings
func isRule(line string) bool {
	return strings.Trim(line, "=-") == ""
}
