// Package facetcache caches facet count responses in a key-value store.
package facetcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/stashapp/stash-sub011/internal/db"
	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/facet"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
)

// KeyPrefix namespaces every cache entry.
const KeyPrefix = "stashfilter:facets:"

// SharedCallTimeout bounds a backend call shared by concurrent misses. The
// shared call outlives any single caller's cancellation.
const SharedCallTimeout = 30 * time.Second

// store is the consumer interface for the facet cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) (int64, error)
}

// CachedFaceter caches facet responses keyed by the request.
// Concurrent misses for the same request share one backend call.
type CachedFaceter struct {
	inner      domain.Faceter
	store      store
	ttl        time.Duration
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Faceter,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFaceter {
	return &CachedFaceter{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Facets returns cached counts or asks the inner faceter.
func (c *CachedFaceter) Facets(ctx context.Context, req domain.FacetRequest) ([]facet.Entry, error) {
	key, err := cacheKey(req)
	if err != nil {
		c.logger.Warn("Facet request not cacheable", zap.Error(err))
		return c.inner.Facets(ctx, req)
	}

	if entries, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return entries, nil
	}

	c.incCache("miss")

	ch := c.group.DoChan(key, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedCallTimeout)
		defer cancel()
		entries, err := c.inner.Facets(sctx, req)
		if err != nil {
			return nil, err
		}
		c.putToCache(sctx, key, entries)
		return entries, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("facets %s/%s: %w", req.Mode, req.Field, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("facets %s/%s: %w", req.Mode, req.Field, res.Err)
		}
		return res.Val.([]facet.Entry), nil
	}
}

// Purge drops every cached response of m, as needed after the collection changes.
func (c *CachedFaceter) Purge(ctx context.Context, m mode.Mode) (int64, error) {
	keys, err := c.store.Scan(ctx, KeyPrefix+string(m)+":*")
	if err != nil {
		return 0, fmt.Errorf("scan facet cache: %w", err)
	}
	n, err := c.store.Del(ctx, keys...)
	if err != nil {
		return 0, fmt.Errorf("purge facet cache: %w", err)
	}
	c.logger.Info("Purged facet cache", zap.String("mode", string(m)), zap.Int64("keys", n))
	return n, nil
}

func (c *CachedFaceter) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey is <prefix><mode>:<xxhash of the request>. Map keys marshal sorted.
func cacheKey(req domain.FacetRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return KeyPrefix + string(req.Mode) + ":" + strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

func (c *CachedFaceter) getFromCache(ctx context.Context, key string) ([]facet.Entry, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached facets", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var entries []facet.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("Failed to parse cached facets", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return entries, true
}

func (c *CachedFaceter) putToCache(ctx context.Context, key string, entries []facet.Entry) {
	if entries == nil {
		entries = []facet.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("Failed to encode facets", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache facets", zap.String("key", key), zap.Error(err))
	}
}
