package rag

import (
	"maps"
	"strconv"
	"strings"
)

// Chunk splits text into windows of chunkSize runes advancing by
// chunkSize-overlap. The final window may be shorter. Every chunk receives
// its own shallow copy of metadata.
func Chunk(text string, chunkSize, overlap int, sourceID string, metadata map[string]any) ([]TextChunk, error) {
	if chunkSize <= 0 {
		return nil, configErr("chunk size", "must be greater than zero, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, configErr("overlap", "cannot be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, configErr("overlap", "%d must be smaller than chunk size %d", overlap, chunkSize)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	n := len(runes)
	step := chunkSize - overlap

	chunks := make([]TextChunk, 0, n/step+1)
	for start := 0; ; start += step {
		end := min(start+chunkSize, n)
		chunks = append(chunks, TextChunk{
			ID:       sourceID + ":" + strconv.Itoa(len(chunks)),
			Source:   sourceID,
			Text:     string(runes[start:end]),
			Start:    start,
			End:      end,
			Metadata: maps.Clone(metadata),
		})
		if end == n {
			break
		}
	}
	return chunks, nil
}
