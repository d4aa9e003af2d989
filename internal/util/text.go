// Package util contains small internal helpers shared across packages.
package util

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s`)

// WrapText inserts newline characters into text so no line exceeds maxLen
// characters, breaking at spaces. Text already within maxLen is returned
// unchanged. A single word longer than maxLen occupies its own line rather
// than being split.
func WrapText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	words := strings.Split(text, " ")
	var lines []string
	current := ""

	for _, word := range words {
		if len(current)+len(word) > maxLen {
			lines = append(lines, strings.TrimSpace(current))
			current = ""
		}
		current += word + " "
	}
	lines = append(lines, strings.TrimSpace(current))

	return strings.Join(lines, "\n")
}

// SafeFilename derives a download filename from a prompt by replacing every
// whitespace character with an underscore. The caller appends the extension.
func SafeFilename(prompt string) string {
	return whitespaceRe.ReplaceAllString(prompt, "_")
}
