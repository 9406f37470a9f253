package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xyths/nft-dashboard/cache"
	"github.com/xyths/nft-dashboard/metrics"
	"github.com/xyths/nft-dashboard/nft"
)

const (
	DefaultTTL = 60 * time.Second

	keyPrefix = "collection:"
)

// Source tells where a response body came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
	SourceError    Source = "error"
)

var errorBody = []byte(`{"error":"Failed to fetch collection"}`)

// Upstream fetches a collection by contract address from the marketplace.
type Upstream interface {
	CollectionByContract(ctx context.Context, address string) (nft.Collection, error)
}

// Result is always displayable: Body is either a {"collection": ...}
// document or, with Status 500, an {"error": ...} document.
type Result struct {
	Status int
	Body   []byte
	Hit    bool
	Source Source
}

type Gateway struct {
	ttl      time.Duration
	cache    cache.Cache
	upstream Upstream
	now      func() time.Time
	mock     func(address string) ([]byte, error)

	Sugar *zap.SugaredLogger
}

// New builds a gateway. A nil upstream means no marketplace credential is
// configured and every miss is served from fallback data.
func New(ttl time.Duration, c cache.Cache, upstream Upstream, sugar *zap.SugaredLogger) *Gateway {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if c == nil {
		c = cache.NewMemory(0)
	}
	return &Gateway{
		ttl:      ttl,
		cache:    c,
		upstream: upstream,
		now:      time.Now,
		mock:     func(address string) ([]byte, error) { return encode(MockCollection(address)) },
		Sugar:    sugar,
	}
}

// HasCredential reports whether live upstream calls are attempted.
func (g *Gateway) HasCredential() bool {
	return g.upstream != nil
}

// CacheKey is the cache key of the collection lookup for address.
func CacheKey(address string) string {
	return keyPrefix + Normalize(address)
}

// Collection returns the record for the contract address: a fresh cached
// body first, then a live upstream call, then fallback data.
func (g *Gateway) Collection(ctx context.Context, address string) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			g.Sugar.Errorw("collection lookup failed", "address", address, "error", fmt.Sprint(rec))
			res = g.fallback(address)
		}
		metrics.ObserveCollection(string(res.Source))
	}()

	addr := Normalize(address)
	key := CacheKey(addr)
	now := g.now()

	if e, ok := g.cache.Get(ctx, key); ok && now.Sub(e.FetchedAt) < g.ttl {
		g.Sugar.Infow("using cached collection data", "address", address)
		return Result{Status: http.StatusOK, Body: e.Body, Hit: true, Source: SourceCache}
	}

	if g.upstream == nil {
		g.Sugar.Warnw("no OpenSea API key configured, using mock data", "address", address)
		return g.fallback(address)
	}

	c, err := g.upstream.CollectionByContract(ctx, addr)
	if err != nil {
		g.Sugar.Warnw("OpenSea API call failed, using mock data", "address", address, "error", err)
		return g.fallback(address)
	}
	body, err := encode(c)
	if err != nil {
		g.Sugar.Errorw("encode collection error", "address", address, "error", err)
		return g.fallback(address)
	}
	if err := g.cache.Set(ctx, key, cache.Entry{Body: body, FetchedAt: now}, g.ttl); err != nil {
		g.Sugar.Warnw("cache collection error", "address", address, "error", err)
	}
	return Result{Status: http.StatusOK, Body: body, Source: SourceLive}
}

func (g *Gateway) fallback(address string) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			g.Sugar.Errorw("mock data generation failed", "address", address, "error", fmt.Sprint(rec))
			res = Result{Status: http.StatusInternalServerError, Body: errorBody, Source: SourceError}
		}
	}()
	g.Sugar.Infow("using mock data for contract address", "address", address)
	body, err := g.mock(address)
	if err != nil {
		g.Sugar.Errorw("mock data generation failed", "address", address, "error", err)
		return Result{Status: http.StatusInternalServerError, Body: errorBody, Source: SourceError}
	}
	return Result{Status: http.StatusOK, Body: body, Source: SourceFallback}
}
