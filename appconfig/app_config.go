package appconfig

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Aki894/mcp-RxNav/rag"
	"github.com/Aki894/mcp-RxNav/rxnav"
	"github.com/SaiNageswarS/go-api-boot/config"
)

const DefaultPath = "config.ini"

// AppConfig is read from the config.ini section named by ENV. Secrets
// (API_KEY, MONGO_URI) come from the environment only.
type AppConfig struct {
	config.BootConfig `ini:",extends"`

	GrpcPort string `ini:"grpc_port"`
	HttpPort string `ini:"http_port"`
	Version  string `ini:"version"`
	ApiKey   string `ini:"-"`

	RxNavBaseURL       string `ini:"rxnav_base_url"`
	HTTPTimeoutSeconds int    `ini:"http_timeout_seconds"`
	RetryCount         int    `ini:"retry_count"`
	RetryWaitMillis    int    `ini:"retry_wait_millis"`
	RetryMaxWaitMillis int    `ini:"retry_max_wait_millis"`

	CacheSize       int    `ini:"cache_size"`
	CacheTTLSeconds int    `ini:"cache_ttl_seconds"`
	MongoURI        string `ini:"-"`
	MongoDatabase   string `ini:"mongo_database"`
	MongoCollection string `ini:"mongo_collection"`

	EnableRagSummary bool    `ini:"enable_rag_summary"`
	SourceName       string  `ini:"source_name"`
	ChunkSize        int     `ini:"chunk_size"`
	ChunkOverlap     int     `ini:"chunk_overlap"`
	SummaryMaxLength int     `ini:"summary_max_length"`
	TopChunkLength   int     `ini:"top_chunk_length"`
	HintBoost        float64 `ini:"hint_boost"`
}

func Default() *AppConfig {
	return &AppConfig{
		GrpcPort:           ":50051",
		HttpPort:           ":8081",
		Version:            "dev",
		RxNavBaseURL:       rxnav.DefaultBaseURL,
		HTTPTimeoutSeconds: 15,
		RetryCount:         3,
		RetryWaitMillis:    500,
		RetryMaxWaitMillis: 4000,
		CacheSize:          2048,
		CacheTTLSeconds:    3600,
		MongoDatabase:      "rxnav",
		MongoCollection:    "response_cache",
		EnableRagSummary:   true,
		SourceName:         rag.DefaultSource,
		ChunkSize:          rag.DefaultChunkSize,
		ChunkOverlap:       rag.DefaultOverlap,
		SummaryMaxLength:   rag.DefaultSummaryMaxLength,
		TopChunkLength:     rag.DefaultTopChunkLength,
		HintBoost:          rag.DefaultHintBoost,
	}
}

// Load fills the defaults, overlays the ENV section of path when the file
// exists and then applies the secrets from the environment.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := config.LoadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("appconfig: load %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("appconfig: stat %s: %w", path, err)
	}

	cfg.ApiKey = os.Getenv("API_KEY")
	cfg.MongoURI = os.Getenv("MONGO_URI")
	return cfg, nil
}

func (c *AppConfig) RxNavConfig() rxnav.Config {
	return rxnav.Config{
		BaseURL:      c.RxNavBaseURL,
		Timeout:      time.Duration(c.HTTPTimeoutSeconds) * time.Second,
		RetryCount:   c.RetryCount,
		RetryWait:    time.Duration(c.RetryWaitMillis) * time.Millisecond,
		RetryMaxWait: time.Duration(c.RetryMaxWaitMillis) * time.Millisecond,
	}
}

func (c *AppConfig) PipelineConfig() rag.PipelineConfig {
	return rag.PipelineConfig{
		Source:           c.SourceName,
		ChunkSize:        c.ChunkSize,
		Overlap:          c.ChunkOverlap,
		SummaryMaxLength: c.SummaryMaxLength,
		TopChunkLength:   c.TopChunkLength,
	}
}

func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
