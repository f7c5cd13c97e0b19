package ui

import (
	"fmt"
	"strings"
)

// Field is one labelled line of a summary box.
type Field struct {
	Label string
	Value string
}

// RenderSummary renders an invocation result as a header line followed by
// the non-empty fields in a bordered box.
func RenderSummary(statusCode int, body string, fields ...Field) string {
	var b strings.Builder
	header := fmt.Sprintf("%s %s", StatusIcon(statusCode), OutcomeStyle(statusCode).Bold(true).Render(fmt.Sprintf("%d %s", statusCode, body)))
	b.WriteString(header)

	var lines []string
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		lines = append(lines, StyleLabel.Render(f.Label)+" "+f.Value)
	}
	if len(lines) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleSummary.Render(strings.Join(lines, "\n")))
	}
	return b.String()
}

// Highlight marks the first occurrence of term within line.
func Highlight(line, term string) string {
	if term == "" {
		return line
	}
	i := strings.Index(line, term)
	if i < 0 {
		return line
	}
	return line[:i] + StyleMatch.Render(term) + line[i+len(term):]
}
