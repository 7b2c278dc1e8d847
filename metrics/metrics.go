package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rxnav_mcp",
		Name:      "upstream_requests_total",
		Help:      "RxNav REST calls by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rxnav_mcp",
		Name:      "cache_lookups_total",
		Help:      "Response cache lookups by backend and result.",
	}, []string{"backend", "result"})

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rxnav_mcp",
		Name:      "tool_calls_total",
		Help:      "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})

	PipelineChunks = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rxnav_mcp",
		Name:      "pipeline_top_chunks",
		Help:      "Number of chunks selected per summary.",
		Buckets:   prometheus.LinearBuckets(0, 1, 11),
	})
)

// Outcome labels.
const (
	OK    = "ok"
	Error = "error"
	Hit   = "hit"
	Miss  = "miss"
)
