package stashfilter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/catalog"
	"github.com/stashapp/stash-sub011/internal/db"
	dbRedis "github.com/stashapp/stash-sub011/internal/db/redis"
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	"github.com/stashapp/stash-sub011/internal/domain/listfilter"
	"github.com/stashapp/stash-sub011/internal/metrics"
	"github.com/stashapp/stash-sub011/internal/repository/facetcache"
	"github.com/stashapp/stash-sub011/internal/transport/backend"
	candidatesuc "github.com/stashapp/stash-sub011/internal/usecase/candidates"
	filteruc "github.com/stashapp/stash-sub011/internal/usecase/filter"
	healthuc "github.com/stashapp/stash-sub011/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultBackendTimeout   = 5 * time.Second
	defaultRetryMax         = 2
	defaultCacheTTL         = 30 * time.Second
)

// Внутренние интерфейсы для подмены в тестах.
type filterUseCase interface {
	Option(m mode.Mode, typ string) (*criterion.Option, error)
	Options(m mode.Mode, typ string) ([]filteruc.OptionInfo, error)
	Restore(m mode.Mode, data []byte) (*listfilter.Filter, []filteruc.Warning, error)
	Compile(m mode.Mode, data []byte) (*filteruc.Compiled, error)
	FromQuery(m mode.Mode, raw string) (*filteruc.Restored, error)
	Reduce(m mode.Mode, req filteruc.ReduceRequest) (*filteruc.Reduced, error)
}

type candidateResolver interface {
	Resolve(ctx context.Context, req candidatesuc.Request) (candidatesuc.Result, error)
}

type cachePurger interface {
	Purge(ctx context.Context, m mode.Mode) (int64, error)
}

// Client is the stashfilter SDK entry point.
type Client struct {
	store     db.Store
	filterSvc filterUseCase
	resolver  candidateResolver
	healthSvc healthUseCase
	purger    cachePurger
	searcher  candidatesuc.Searcher
	faceter   candidatesuc.Faceter
	limit     int
	debounce  time.Duration
	logger    *zap.Logger
	obs       *observer
}

// New creates a Client. When a cache store is configured the provided
// context bounds its readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout:  defaultBackendTimeout,
		retryMax: defaultRetryMax,
		cacheTTL: defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.backendURL == "" {
		return nil, errors.New("stashfilter: query backend required (use WithBackend)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	bc, err := backend.NewClient(&backend.Config{
		BaseURL:  cfg.backendURL,
		Token:    cfg.backendToken,
		Timeout:  cfg.timeout,
		RetryMax: cfg.retryMax,
		Logger:   cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("stashfilter: create backend client: %w", err)
	}

	var store db.Store
	if len(cfg.addrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
		if err != nil {
			return nil, fmt.Errorf("stashfilter: create store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("stashfilter: store not ready: %w", err)
		}
		store = s
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return wireClient(store, bc, cfg, obs), nil
}

func wireClient(store db.Store, bc *backend.Client, cfg *clientConfig, obs *observer) *Client {
	var faceter candidatesuc.Faceter = bc
	var purger cachePurger
	if store != nil && cfg.cacheTTL > 0 {
		cache := facetcache.New(bc, store, cfg.cacheTTL, metrics.FacetCacheTotal, cfg.logger)
		faceter = cache
		purger = cache
	}

	// nil interface, not a typed nil pointer, when there is no store
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:     store,
		filterSvc: filteruc.New(catalog.Default(), nil, cfg.logger),
		resolver:  candidatesuc.NewResolver(bc, faceter, cfg.facetLimit, cfg.logger),
		healthSvc: healthuc.New(pinger, bc),
		purger:    purger,
		searcher:  bc,
		faceter:   faceter,
		limit:     cfg.facetLimit,
		debounce:  cfg.debounce,
		logger:    cfg.logger,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Filters returns the filter service for an entity collection
// ("scenes", "performers", ...; case-insensitive).
func (c *Client) Filters(collection string) *FilterService {
	m, ok := mode.Parse(collection)
	return &FilterService{
		mode:  m,
		valid: ok,
		raw:   collection,
		label: collectionLabel(m, ok),
		svc:   c.filterSvc,
		obs:   c.obs,
	}
}

// Candidates returns the candidate service for an entity collection.
func (c *Client) Candidates(collection string) *CandidateService {
	m, ok := mode.Parse(collection)
	return &CandidateService{
		mode:     m,
		valid:    ok,
		raw:      collection,
		label:    collectionLabel(m, ok),
		filters:  c.filterSvc,
		resolver: c.resolver,
		searcher: c.searcher,
		faceter:  c.faceter,
		limit:    c.limit,
		debounce: c.debounce,
		logger:   c.logger,
		obs:      c.obs,
	}
}

// PurgeFacetCache drops the cached facet counts of a collection and returns
// how many entries went away. It fails with ErrNotFound when no cache is configured.
func (c *Client) PurgeFacetCache(ctx context.Context, collection string) (n int64, err error) {
	start := time.Now()
	m, ok := mode.Parse(collection)
	defer func() { c.obs.observe("cache.purge", collectionLabel(m, ok), start, err) }()

	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, collection)
	}
	if c.purger == nil {
		return 0, fmt.Errorf("facet cache: %w", ErrNotFound)
	}
	n, err = c.purger.Purge(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("purge facet cache: %w", err)
	}
	return n, nil
}
