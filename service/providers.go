package service

import (
	"context"
	"time"

	"github.com/Aki894/mcp-RxNav/appconfig"
	"github.com/Aki894/mcp-RxNav/rag"
	"github.com/Aki894/mcp-RxNav/rxnav"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

const mongoConnectTimeout = 10 * time.Second

// ProvideCache picks the Mongo response cache when mongo_uri is set and the
// in-process LRU otherwise. An unreachable Mongo falls back to the LRU.
func ProvideCache(cfg *appconfig.AppConfig) rxnav.Cache {
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
		defer cancel()

		cache, err := rxnav.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.CacheTTL())
		if err == nil {
			logger.Info("Using Mongo response cache",
				zap.String("database", cfg.MongoDatabase),
				zap.String("collection", cfg.MongoCollection))
			return cache
		}
		logger.Error("Mongo cache unavailable, using in-memory cache", zap.Error(err))
	}
	return rxnav.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL())
}

func ProvideResolver(cfg *appconfig.AppConfig, cache rxnav.Cache) rxnav.Resolver {
	return rxnav.NewClient(cfg.RxNavConfig(), cache)
}

func ProvidePipeline(cfg *appconfig.AppConfig) *rag.Pipeline {
	pipeline, err := NewPipeline(cfg)
	if err != nil {
		logger.Fatal("Invalid pipeline configuration", zap.Error(err))
	}
	return pipeline
}

// NewPipeline builds the summary pipeline with the keyword scorer tuned by cfg.
func NewPipeline(cfg *appconfig.AppConfig) (*rag.Pipeline, error) {
	scorer, err := rag.NewKeywordScorer(cfg.HintBoost, rag.DefaultHintRules...)
	if err != nil {
		return nil, err
	}
	return rag.NewPipeline(cfg.PipelineConfig(), scorer)
}

func ProvideDrugService(resolver rxnav.Resolver, pipeline *rag.Pipeline) *DrugService {
	return NewDrugService(resolver, pipeline)
}
