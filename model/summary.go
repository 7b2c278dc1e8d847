package model

import "github.com/Aki894/mcp-RxNav/rag"

// SummaryRequest is the body of POST /rag/summary.
type SummaryRequest struct {
	Drug      string `json:"drug"`
	Query     string `json:"query,omitempty"`
	Condition string `json:"condition,omitempty"`
	TopK      int    `json:"top_k,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// TopChunk is a ranked passage flattened for clients.
type TopChunk struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Label       string  `json:"label"`
	Text        string  `json:"text"`
	StartOffset int     `json:"startOffset"`
	EndOffset   int     `json:"endOffset"`
	Score       float64 `json:"score"`
}

type SummaryResponse struct {
	Source    string         `json:"source"`
	Query     string         `json:"query,omitempty"`
	Drug      string         `json:"drug,omitempty"`
	Condition string         `json:"condition,omitempty"`
	TopChunks []TopChunk     `json:"top_chunks"`
	Summary   string         `json:"summary"`
	Citations []rag.Citation `json:"citations"`
}

// ToolInfo describes one MCP tool for GET /metadata/tools.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ErrorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func NewSummaryResponse(res *rag.Result) SummaryResponse {
	out := SummaryResponse{
		Source:    res.Source,
		Query:     res.Query,
		Drug:      res.Drug,
		Condition: res.Condition,
		TopChunks: make([]TopChunk, 0, len(res.TopChunks)),
		Summary:   res.Summary,
		Citations: res.Citations,
	}
	for _, rc := range res.TopChunks {
		label, _ := rc.Metadata[rag.MetaLabel].(string)
		out.TopChunks = append(out.TopChunks, TopChunk{
			ID:          rc.ID,
			Source:      rc.Source,
			Label:       label,
			Text:        rc.Text,
			StartOffset: rc.Start,
			EndOffset:   rc.End,
			Score:       rc.Score,
		})
	}
	if out.Citations == nil {
		out.Citations = []rag.Citation{}
	}
	return out
}
