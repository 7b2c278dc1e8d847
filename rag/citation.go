package rag

import "strings"

const (
	// SnippetLength is the preview length of a citation, in runes.
	SnippetLength   = 120
	snippetEllipsis = "..."
)

// ExtractCitations returns one citation per chunk in the same order.
func ExtractCitations(chunks []RankedChunk) []Citation {
	citations := make([]Citation, 0, len(chunks))
	for _, ch := range chunks {
		snippet, cut := truncateRunes(strings.Join(strings.Fields(ch.Text), " "), SnippetLength)
		if cut {
			snippet += snippetEllipsis
		}
		sourceID := ch.Source
		if sourceID == "" {
			sourceID = ch.ID
		}
		citations = append(citations, Citation{
			SourceID: sourceID,
			Snippet:  snippet,
			Offset:   ch.Start,
		})
	}
	return citations
}
