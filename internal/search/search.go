// Package search narrows message lists by a free-text query.
package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/nhle/mailspace/internal/model"
)

// PreviewLength is how many runes of the body the preview keeps.
const PreviewLength = 100

// Filter returns the messages whose subject, sender or body preview
// contains query, ignoring case. An empty query returns messages as is.
// Input order is preserved and messages is never modified.
func Filter(messages []model.Message, query string) []model.Message {
	if query == "" {
		return messages
	}
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		if matches(fold, m, needle) {
			out = append(out, m)
		}
	}
	return out
}

func matches(fold cases.Caser, m model.Message, needle string) bool {
	for _, field := range []string{m.Subject, m.Sender, excerpt(m.Body)} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// Preview returns the list preview of body: its first PreviewLength runes
// followed by "...".
func Preview(body string) string {
	return excerpt(body) + "..."
}

func excerpt(body string) string {
	n := 0
	for i := range body {
		if n == PreviewLength {
			return body[:i]
		}
		n++
	}
	return body
}
