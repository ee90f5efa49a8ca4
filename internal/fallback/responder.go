// Package fallback answers queries from canned guidance when generation is unavailable.
package fallback

import (
	"strconv"
	"strings"
)

// Responder is pure and total
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// Respond always returns a non-empty guidance block
func (r *Responder) Respond(query string) string {
	return render(match(query))
}

// Match returns the name of the topic that answers the query
func Match(query string) string {
	return match(query).name
}

func match(query string) topic {
	lower := strings.ToLower(query)
	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t
			}
		}
	}
	return defaultTopic
}

func render(t topic) string {
	var b strings.Builder
	b.WriteString(t.heading)
	for i, s := range t.sections {
		b.WriteString("\n\n**STEP ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(strings.ToUpper(s.title))
		b.WriteString("**")
		for _, item := range s.items {
			b.WriteString("\n• ")
			b.WriteString(item)
		}
	}
	if t.footer != "" {
		b.WriteString("\n\n")
		b.WriteString(t.footer)
	}
	return b.String()
}
