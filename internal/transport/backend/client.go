// Package backend is the HTTP client of the remote query service that
// answers candidate searches and facet counts.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/facet"
	"github.com/stashapp/stash-sub011/internal/metrics"
	"github.com/stashapp/stash-sub011/internal/version"
)

// Compile-time check: Client implements the backend contracts.
var (
	_ domain.Backend       = (*Client)(nil)
	_ domain.HealthChecker = (*Client)(nil)
)

// Config holds the query backend settings.
type Config struct {
	BaseURL      string
	Token        string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *zap.Logger
}

// Client calls the query backend over HTTP with retries on transient failures.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	token   string
	logger  *zap.Logger
}

// NewClient creates a backend client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	rc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	rc.Logger = leveledLogger{logger.Sugar()}
	// keep the last response so its status reaches the caller
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		http:    rc,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger,
	}, nil
}

type searchResponse struct {
	Results []facet.Candidate `json:"results"`
}

type facetsResponse struct {
	Facets []facet.Entry `json:"facets"`
}

// Search implements domain.Searcher via POST /search.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) ([]facet.Candidate, error) {
	var resp searchResponse
	if err := c.post(ctx, "search", "/search", req, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []facet.Candidate{}, nil
	}
	return resp.Results, nil
}

// Facets implements domain.Faceter via POST /facets.
func (c *Client) Facets(ctx context.Context, req domain.FacetRequest) ([]facet.Entry, error) {
	var resp facetsResponse
	if err := c.post(ctx, "facets", "/facets", req, &resp); err != nil {
		return nil, err
	}
	if resp.Facets == nil {
		return []facet.Entry{}, nil
	}
	return resp.Facets, nil
}

// HealthCheck verifies the backend answers GET /health.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil)
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, data, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, "error", start)
		if ctx.Err() != nil {
			return fmt.Errorf("backend %s: %w", op, ctx.Err())
		}
		return fmt.Errorf("backend %s: %v: %w", op, err, domain.ErrBackendUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(op, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend %s: decode response: %v: %w", op, err, domain.ErrBackendUnavailable)
	}
	return nil
}

func (c *Client) observe(op, status string, start time.Time) {
	metrics.BackendRequestDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

// statusError extracts a human-readable error from a non-2xx response.
// 4xx means the request itself was rejected; everything else is an outage.
func statusError(op string, resp *http.Response) error {
	detail := extractDetail(resp.Body)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("backend %s rejected request %d: %s: %w", op, resp.StatusCode, detail, domain.ErrInvalidValue)
	}
	return fmt.Errorf("backend %s error %d: %s: %w", op, resp.StatusCode, detail, domain.ErrBackendUnavailable)
}

// extractDetail reads the "error" field of a JSON error body, or the raw body.
func extractDetail(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))
	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		return parsed.Error
	}
	return strings.TrimSpace(string(body))
}

// leveledLogger routes retryablehttp logs through zap.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...any)  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
