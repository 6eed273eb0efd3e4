package stashfilter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	backendURL   string
	backendToken string
	timeout      time.Duration
	retryMax     int

	addrs    []string
	password string

	cacheTTL   time.Duration
	facetLimit int
	debounce   time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithBackend sets the query backend answering searches and facet counts.
// Required.
func WithBackend(baseURL, token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backendURL = baseURL
		c.backendToken = token
	})
}

// WithBackendTimeout bounds a single backend round trip. Default: 5s.
func WithBackendTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithRetries sets how many times a failed backend call is retried. Default: 2.
func WithRetries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.retryMax = n
	})
}

// WithValkey caches facet counts in a Valkey instance.
func WithValkey(addr, password string) Option {
	return withStore(addr, password)
}

// WithRedis caches facet counts in a Redis instance.
func WithRedis(addr, password string) Option {
	return withStore(addr, password)
}

func withStore(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithFacetCacheTTL sets how long cached facet counts live. Zero disables
// the cache even when a store is configured. Default: 30s.
func WithFacetCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithFacetLimit caps search results and facet rows per lookup. Default: 50.
func WithFacetLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.facetLimit = n
	})
}

// WithDebounce sets the pause widgets wait after the last keystroke.
// Default: 250ms.
func WithDebounce(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.debounce = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
