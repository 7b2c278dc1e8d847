package rag

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"
)

// Metadata keys attached to every chunk by the pipeline.
const (
	MetaLabel      = "label"
	MetaSource     = "source"
	MetaHasATCCode = "has_atc_code"
)

const (
	DefaultSource           = "RxNav"
	DefaultChunkSize        = 800
	DefaultOverlap          = 150
	DefaultSummaryMaxLength = 2000
	DefaultTopChunkLength   = 500
)

var atcCodePattern = regexp.MustCompile(`\b[ABCDGHJLMNPRSV][0-9]{2}[A-Z]{1,2}(?:[0-9]{2})?\b`)

// PipelineConfig holds the per-deployment knobs of the pipeline.
type PipelineConfig struct {
	Source           string
	ChunkSize        int
	Overlap          int
	SummaryMaxLength int
	TopChunkLength   int
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Source:           DefaultSource,
		ChunkSize:        DefaultChunkSize,
		Overlap:          DefaultOverlap,
		SummaryMaxLength: DefaultSummaryMaxLength,
		TopChunkLength:   DefaultTopChunkLength,
	}
}

func (c PipelineConfig) validate() error {
	switch {
	case c.ChunkSize <= 0:
		return configErr("chunk size", "must be greater than zero, got %d", c.ChunkSize)
	case c.Overlap < 0:
		return configErr("overlap", "cannot be negative, got %d", c.Overlap)
	case c.Overlap >= c.ChunkSize:
		return configErr("overlap", "%d must be smaller than chunk size %d", c.Overlap, c.ChunkSize)
	case c.SummaryMaxLength <= 0:
		return configErr("max length", "must be greater than zero, got %d", c.SummaryMaxLength)
	case c.TopChunkLength <= 0:
		return configErr("top chunk length", "must be greater than zero, got %d", c.TopChunkLength)
	}
	return nil
}

// PipelineInput is one retrieval-and-summary request.
type PipelineInput struct {
	Texts         []LabeledText
	Query         string
	Drug          string
	Condition     string
	TopK          int
	ExtraKeywords []string
}

// Pipeline runs Chunk → Rank → Summarize + ExtractCitations. It keeps no
// state between runs and may be shared by concurrent callers.
type Pipeline struct {
	cfg    PipelineConfig
	ranker *Ranker
}

func NewPipeline(cfg PipelineConfig, scorer Scorer) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	return &Pipeline{cfg: cfg, ranker: NewRanker(scorer)}, nil
}

// RunPipeline runs a one-off pipeline with the default scorer.
func RunPipeline(texts []LabeledText, query, drug, condition string, topK, chunkSize, overlap int) (*Result, error) {
	cfg := DefaultPipelineConfig()
	cfg.ChunkSize = chunkSize
	cfg.Overlap = overlap
	p, err := NewPipeline(cfg, nil)
	if err != nil {
		return nil, err
	}
	return p.Run(PipelineInput{Texts: texts, Query: query, Drug: drug, Condition: condition, TopK: topK})
}

func (p *Pipeline) Config() PipelineConfig {
	return p.cfg
}

func (p *Pipeline) Run(in PipelineInput) (*Result, error) {
	if in.TopK <= 0 {
		return nil, configErr("top k", "must be greater than zero, got %d", in.TopK)
	}

	result := &Result{
		Source:    p.cfg.Source,
		Query:     in.Query,
		Drug:      in.Drug,
		Condition: in.Condition,
		TopChunks: []RankedChunk{},
		Citations: []Citation{},
	}

	var chunks []TextChunk
	for i, lt := range in.Texts {
		meta, err := p.metadataFor(lt)
		if err != nil {
			return nil, &PipelineError{Stage: "chunk", Err: err}
		}
		sourceID := sourceIDFor(lt.Label, i)
		cs, err := Chunk(lt.Text, p.cfg.ChunkSize, p.cfg.Overlap, sourceID, meta)
		if err != nil {
			return nil, &PipelineError{Stage: "chunk", Err: err}
		}
		chunks = append(chunks, cs...)
	}

	if len(chunks) == 0 {
		result.Summary = NoInformationFound
		return result, nil
	}

	extra := append(nonEmpty(in.Drug, in.Condition), in.ExtraKeywords...)
	ranked, err := p.ranker.Rank(chunks, in.Query, in.TopK, extra)
	if err != nil {
		return nil, &PipelineError{Stage: "rank", Err: err}
	}

	summary, err := Summarize(ranked, SummaryContext{
		Source:    p.cfg.Source,
		Query:     in.Query,
		Drug:      in.Drug,
		Condition: in.Condition,
		MaxLength: p.cfg.SummaryMaxLength,
	})
	if err != nil {
		return nil, &PipelineError{Stage: "summarize", Err: err}
	}

	result.Summary = summary
	result.Citations = ExtractCitations(ranked)
	for _, rc := range ranked {
		if text, cut := truncateRunes(rc.Text, p.cfg.TopChunkLength); cut {
			rc.Text = text + snippetEllipsis
		}
		result.TopChunks = append(result.TopChunks, rc)
	}
	return result, nil
}

func (p *Pipeline) metadataFor(lt LabeledText) (map[string]any, error) {
	for k, v := range lt.Metadata {
		if !isScalar(v) {
			return nil, fmt.Errorf("metadata %q of %s has non-scalar value %T", k, lt.Label, v)
		}
	}
	meta := maps.Clone(lt.Metadata)
	if meta == nil {
		meta = make(map[string]any, 3)
	}
	meta[MetaLabel] = lt.Label
	meta[MetaSource] = p.cfg.Source
	meta[MetaHasATCCode] = strings.EqualFold(lt.Label, "atc") || atcCodePattern.MatchString(lt.Text)
	return meta, nil
}

// sourceIDFor derives a reproducible source id from the block's label and position.
func sourceIDFor(label string, index int) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "text"
	}
	return label + "-" + strconv.Itoa(index)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
