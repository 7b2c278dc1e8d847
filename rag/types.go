package rag

// TextChunk is an overlapping window of a labeled text blob.
// Start and End are rune offsets into the originating blob.
type TextChunk struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Text     string         `json:"text"`
	Start    int            `json:"startOffset"`
	End      int            `json:"endOffset"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RankedChunk is a chunk with its relevance score for one query.
type RankedChunk struct {
	TextChunk
	Score float64 `json:"score"`
}

// Citation points back to the chunk backing part of a summary.
type Citation struct {
	SourceID string `json:"sourceId"`
	Snippet  string `json:"snippet"`
	Offset   int    `json:"offset"`
}

// LabeledText is one rendered lookup result, e.g. ("atc", "...").
type LabeledText struct {
	Label    string
	Text     string
	Metadata map[string]any
}

// Result is what a single pipeline run returns.
type Result struct {
	Source    string        `json:"source"`
	Query     string        `json:"query,omitempty"`
	Drug      string        `json:"drug,omitempty"`
	Condition string        `json:"condition,omitempty"`
	TopChunks []RankedChunk `json:"top_chunks"`
	Summary   string        `json:"summary"`
	Citations []Citation    `json:"citations"`
}
