package rag

import (
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-collection-boot/ds"
)

// DefaultHintBoost is added to a chunk's raw match count when one of its
// metadata hints lines up with a matched keyword. It stays below 1 so a hint
// can break ties but never beat a higher raw count.
const DefaultHintBoost = 0.5

// HintRule boosts chunks whose Metadata[Key] equals Value when any of
// Keywords matched in the chunk.
type HintRule struct {
	Key      string
	Value    any
	Keywords []string
}

// DefaultHintRules covers the labeled blocks produced by the terminology layer.
var DefaultHintRules = []HintRule{
	{Key: MetaHasATCCode, Value: true, Keywords: []string{"atc", "classification", "class", "code", "therapeutic", "anatomical", "chemical"}},
	{Key: MetaLabel, Value: "ingredients", Keywords: []string{"ingredient", "ingredients", "active", "component", "components"}},
	{Key: MetaLabel, Value: "brand", Keywords: []string{"brand", "brands", "trade", "proprietary"}},
	{Key: MetaLabel, Value: "generic", Keywords: []string{"generic", "nonproprietary"}},
}

// KeywordScorer counts keyword occurrences: single-token keywords match whole
// tokens, multi-word keywords match as substrings.
type KeywordScorer struct {
	rules []HintRule
	boost float64
}

func NewKeywordScorer(boost float64, rules ...HintRule) (*KeywordScorer, error) {
	if boost < 0 || boost >= 1 {
		return nil, configErr("hint boost", "must be in [0, 1), got %v", boost)
	}
	normalized := make([]HintRule, len(rules))
	for i, rule := range rules {
		kws := make([]string, len(rule.Keywords))
		for j, kw := range rule.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		normalized[i] = HintRule{Key: rule.Key, Value: rule.Value, Keywords: kws}
	}
	return &KeywordScorer{rules: normalized, boost: boost}, nil
}

func DefaultKeywordScorer() *KeywordScorer {
	s, err := NewKeywordScorer(DefaultHintBoost, DefaultHintRules...)
	if err != nil {
		panic(fmt.Sprintf("rag: default scorer: %v", err))
	}
	return s
}

func (s *KeywordScorer) Score(chunk TextChunk, keywords []string) float64 {
	lower := strings.ToLower(chunk.Text)
	tokenCounts := make(map[string]int)
	for _, tok := range tokenize(lower) {
		tokenCounts[tok]++
	}

	matched := ds.NewSet[string]()
	raw := 0
	for _, kw := range keywords {
		var n int
		if isSingleToken(kw) {
			n = tokenCounts[kw]
		} else {
			n = strings.Count(lower, kw)
		}
		if n > 0 {
			matched.Add(kw)
			raw += n
		}
	}
	if raw == 0 {
		return 0
	}
	return float64(raw) + s.hintBoost(chunk.Metadata, matched.Contains)
}

func (s *KeywordScorer) hintBoost(meta map[string]any, matched func(string) bool) float64 {
	for _, rule := range s.rules {
		v, ok := meta[rule.Key]
		if !ok || !isScalar(v) || v != rule.Value {
			continue
		}
		for _, kw := range rule.Keywords {
			if matched(kw) {
				return s.boost
			}
		}
	}
	return 0
}
