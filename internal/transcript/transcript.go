// Package transcript flattens fetched channel messages into the sanitized
// text block submitted to the scheduling model.
package transcript

import (
	"strings"
	"unicode/utf8"
)

// MaxEntryLen is the longest individual message (in runes) that makes it
// into a transcript. Longer messages are dropped entirely, not truncated.
const MaxEntryLen = 500

// Message is one channel message as the builder sees it.
type Message struct {
	Name    string
	Content string
}

// Build renders messages, oldest first, as "name: content" lines joined by
// newlines with no trailing newline. Empty and oversized messages are
// skipped. Mass-mention tokens are neutralized so re-posting the transcript
// can never ping a whole channel.
func Build(msgs []Message) string {
	var lines []string
	for _, m := range msgs {
		content := strings.TrimSpace(m.Content)
		if content == "" || utf8.RuneCountInString(content) > MaxEntryLen {
			continue
		}
		lines = append(lines, m.Name+": "+Neutralize(content))
	}
	return strings.Join(lines, "\n")
}

// Neutralize defuses @everyone and @here by inserting a zero-width space
// after the @.
func Neutralize(s string) string {
	s = strings.ReplaceAll(s, "@everyone", "@​everyone")
	s = strings.ReplaceAll(s, "@here", "@​here")
	return s
}
