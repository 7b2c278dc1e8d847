package rag

import (
	"strings"
	"unicode/utf8"
)

const (
	// NoInformationFound is returned when there is nothing to summarize.
	NoInformationFound = "No information found for this request."
	// TruncationMarker is appended when a summary is cut to its length bound.
	TruncationMarker = " ...[truncated]"
	// ChunkSeparator sits between chunk texts in a summary.
	ChunkSeparator = "\n---\n"
)

// SummaryContext describes the request a summary answers.
type SummaryContext struct {
	Source    string
	Query     string
	Drug      string
	Condition string
	MaxLength int
}

// Summarize joins the non-blank chunk texts in the order given under a
// context header. The result is at most MaxLength bytes plus TruncationMarker.
func Summarize(chunks []RankedChunk, sc SummaryContext) (string, error) {
	if sc.MaxLength <= 0 {
		return "", configErr("max length", "must be greater than zero, got %d", sc.MaxLength)
	}
	if len(chunks) == 0 {
		return NoInformationFound, nil
	}

	texts := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		if text := strings.TrimSpace(ch.Text); text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		return NoInformationFound, nil
	}

	var b strings.Builder
	b.WriteString(header(sc))
	b.WriteString(strings.Join(texts, ChunkSeparator))

	out := b.String()
	if len(out) <= sc.MaxLength {
		return out, nil
	}
	return truncateBytes(out, sc.MaxLength) + TruncationMarker, nil
}

func header(sc SummaryContext) string {
	parts := make([]string, 0, 3)
	if sc.Drug != "" {
		parts = append(parts, "drug: "+sc.Drug)
	}
	if sc.Condition != "" {
		parts = append(parts, "condition: "+sc.Condition)
	}
	if sc.Query != "" {
		parts = append(parts, "query: "+sc.Query)
	}

	var b strings.Builder
	if sc.Source != "" {
		b.WriteString("[" + sc.Source + "]")
	}
	if len(parts) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.Join(parts, " | "))
	}
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	return b.String()
}

// truncateBytes cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// truncateRunes keeps the first n runes of s and reports whether it cut.
func truncateRunes(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
