package rxnav

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aki894/mcp-RxNav/metrics"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// Cache stores raw RxNav response bodies keyed by request path and query.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

// MemoryCache is a size-bounded LRU with per-entry expiry.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	body, ok := m.lru.Get(key)
	if ok {
		metrics.CacheLookups.WithLabelValues("memory", metrics.Hit).Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("memory", metrics.Miss).Inc()
	}
	return body, ok
}

func (m *MemoryCache) Set(_ context.Context, key string, body []byte) {
	m.lru.Add(key, body)
}

type cachedResponse struct {
	Key       string    `bson:"_id"`
	Body      []byte    `bson:"body"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoCache shares cached responses between server instances. Expired
// documents are reaped by a TTL index on expiresAt.
type MongoCache struct {
	client     *mongo.Client
	collection *mongo.Collection
	ttl        time.Duration
}

func NewMongoCache(ctx context.Context, uri, database, collection string, ttl time.Duration) (*MongoCache, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("rxnav: connect mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("rxnav: create ttl index: %w", err)
	}

	return &MongoCache{client: client, collection: coll, ttl: ttl}, nil
}

func (m *MongoCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var doc cachedResponse
	filter := bson.M{"_id": key, "expiresAt": bson.M{"$gt": time.Now()}}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			logger.Error("Failed to read cached response", zap.String("key", key), zap.Error(err))
		}
		metrics.CacheLookups.WithLabelValues("mongo", metrics.Miss).Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("mongo", metrics.Hit).Inc()
	return doc.Body, true
}

func (m *MongoCache) Set(ctx context.Context, key string, body []byte) {
	doc := cachedResponse{Key: key, Body: body, ExpiresAt: time.Now().Add(m.ttl)}
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		logger.Error("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}

func (m *MongoCache) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
