package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	defaultMaxEntries = 10000
)

type Config struct {
	Backend    string // memory or redis
	RedisURL   string `json:"redisUrl"`
	MaxEntries int    `json:"maxEntries"`
	TTL        string // freshness window of collection records
	Sweep      string // memory sweep interval
}

// Entry is an encoded response body and the moment it was fetched upstream.
type Entry struct {
	Body      []byte    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
}

// New returns the configured backend. Redis is used only when it answers a
// ping, otherwise the process-local memory cache is returned.
func New(cfg Config, sugar *zap.SugaredLogger) Cache {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if cfg.Backend != BackendRedis {
		return NewMemory(maxEntries)
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Warnf("parse redis url error: %s, use memory cache", err)
		return NewMemory(maxEntries)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		sugar.Warnf("redis ping error: %s, use memory cache", err)
		_ = client.Close()
		return NewMemory(maxEntries)
	}
	sugar.Infof("redis cache connected: %s", opt.Addr)
	return NewRedis(client)
}
