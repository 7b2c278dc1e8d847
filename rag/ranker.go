package rag

import (
	"slices"
	"strings"
	"unicode"

	"github.com/SaiNageswarS/go-collection-boot/ds"
)

// Scorer assigns a non-negative relevance score to a chunk for a keyword set.
// Keywords arrive lowercased and deduplicated.
type Scorer interface {
	Score(chunk TextChunk, keywords []string) float64
}

// Ranker orders chunks by Scorer output, keeping original order on ties.
type Ranker struct {
	scorer Scorer
}

func NewRanker(scorer Scorer) *Ranker {
	if scorer == nil {
		scorer = DefaultKeywordScorer()
	}
	return &Ranker{scorer: scorer}
}

// Rank ranks chunks with the default keyword scorer.
func Rank(chunks []TextChunk, query string, topK int, extraKeywords []string) ([]RankedChunk, error) {
	return NewRanker(nil).Rank(chunks, query, topK, extraKeywords)
}

// Rank returns at most topK chunks, highest score first, earlier chunks
// first on equal scores. Scores below zero or NaN are clamped to zero.
// Keywords are the query tokens minus stopwords plus extraKeywords; when
// nothing is left (for example a query of only stopwords) every chunk scores
// zero and the first topK chunks come back in input order.
func (r *Ranker) Rank(chunks []TextChunk, query string, topK int, extraKeywords []string) ([]RankedChunk, error) {
	if topK <= 0 {
		return nil, configErr("top k", "must be greater than zero, got %d", topK)
	}

	keywords := Keywords(query, extraKeywords)

	type scored struct {
		idx   int
		chunk RankedChunk
	}
	// Worst on top: lower score, then later position.
	h := ds.NewMinHeap(func(a, b scored) bool {
		if a.chunk.Score != b.chunk.Score {
			return a.chunk.Score < b.chunk.Score
		}
		return a.idx > b.idx
	})
	for i, ch := range chunks {
		score := 0.0
		if len(keywords) > 0 {
			score = r.scorer.Score(ch, keywords)
		}
		if !(score > 0) {
			score = 0
		}
		h.Push(scored{idx: i, chunk: RankedChunk{TextChunk: ch, Score: score}})
		if h.Len() > topK {
			h.Pop()
		}
	}

	kept := h.ToSortedSlice()
	slices.Reverse(kept)
	ranked := make([]RankedChunk, 0, len(kept))
	for _, s := range kept {
		ranked = append(ranked, s.chunk)
	}
	return ranked, nil
}

// Keywords builds the lowercase keyword set for a query: its alphanumeric
// tokens minus stopwords, unioned with extra. Order of first appearance is kept.
func Keywords(query string, extra []string) []string {
	seen := ds.NewSet[string]()
	out := make([]string, 0, 8)
	add := func(kw string) {
		if kw == "" || seen.Contains(kw) {
			return
		}
		seen.Add(kw)
		out = append(out, kw)
	}

	for _, tok := range tokenize(query) {
		if stopwords.Contains(tok) {
			continue
		}
		add(tok)
	}
	for _, kw := range extra {
		add(strings.ToLower(strings.TrimSpace(kw)))
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isSingleToken(kw string) bool {
	for _, r := range kw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var stopwords = ds.NewSet[string]()

func init() {
	for _, w := range []string{
		"a", "an", "the", "and", "or", "of", "for", "to", "in", "on", "at", "by", "with",
		"is", "are", "was", "were", "be", "it", "this", "that", "what", "which", "who",
		"how", "does", "do", "about", "from", "as", "me", "tell",
	} {
		stopwords.Add(w)
	}
}
