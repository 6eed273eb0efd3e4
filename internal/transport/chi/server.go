package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	logpkg "github.com/stashapp/stash-sub011/internal/logger"
	candidatesuc "github.com/stashapp/stash-sub011/internal/usecase/candidates"
	filteruc "github.com/stashapp/stash-sub011/internal/usecase/filter"
	healthuc "github.com/stashapp/stash-sub011/internal/usecase/health"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// CachePurger drops the cached facet responses of a collection.
type CachePurger interface {
	Purge(ctx context.Context, m mode.Mode) (int64, error)
}

// Server implements ServerInterface over the filter, candidate and health use cases.
type Server struct {
	filters       *filteruc.Service
	candidates    *candidatesuc.Resolver
	health        *healthuc.Service
	cache         CachePurger
	metrics       http.Handler
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	filters *filteruc.Service,
	candidates *candidatesuc.Resolver,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		filters:    filters,
		candidates: candidates,
		health:     health,
		metrics:    promhttp.Handler(),
		logger:     logger,
	}
	// order matters: the first matching sentinel wins
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownMode, http.StatusNotFound, CodeUnknownMode),
		sentinelHandler(domain.ErrUnknownCriterionType, http.StatusNotFound, CodeUnknownCriterionType),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrInvalidModifier, http.StatusBadRequest, CodeInvalidModifier),
		sentinelHandler(domain.ErrMetaUnavailable, http.StatusUnprocessableEntity, CodeMetaUnavailable),
		sentinelHandler(domain.ErrExclusionUnsupported, http.StatusUnprocessableEntity, CodeExclusionUnsupported),
		sentinelHandler(domain.ErrInvalidValue, http.StatusBadRequest, CodeInvalidValue),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, CodeBackendUnavailable),
	}
	return s
}

// WithMetricsHandler replaces the /metrics handler (default promhttp.Handler).
func (s *Server) WithMetricsHandler(h http.Handler) *Server {
	s.metrics = h
	return s
}

// WithCachePurger enables DELETE /cache/facets/{mode}.
func (s *Server) WithCachePurger(p CachePurger) *Server {
	s.cache = p
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

// ListCriteria handles GET /criteria/{mode}.
func (s *Server) ListCriteria(w http.ResponseWriter, r *http.Request, rawMode string, params ListCriteriaParams) {
	m, ok := mode.Parse(rawMode)
	if !ok {
		s.handleDomainError(w, r, fmt.Errorf("%q: %w", rawMode, domain.ErrUnknownMode))
		return
	}
	typ := ""
	if params.Type != nil {
		typ = *params.Type
	}
	opts, err := s.filters.Options(m, typ)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CriteriaResponse{Mode: string(m), Criteria: opts})
}

// CompileFilter handles POST /filters/{mode}/compile. The body is saved-filter JSON.
func (s *Server) CompileFilter(w http.ResponseWriter, r *http.Request, rawMode string) {
	m, ok := s.parseMode(w, r, rawMode)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	compiled, err := s.filters.Compile(m, body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, compiled)
}

// FilterFromQuery handles POST /filters/{mode}/query.
func (s *Server) FilterFromQuery(w http.ResponseWriter, r *http.Request, rawMode string) {
	m, ok := s.parseMode(w, r, rawMode)
	if !ok {
		return
	}
	var req QueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	restored, err := s.filters.FromQuery(m, req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restored)
}

// ReduceSelection handles POST /selection/{mode}.
func (s *Server) ReduceSelection(w http.ResponseWriter, r *http.Request, rawMode string) {
	m, ok := s.parseMode(w, r, rawMode)
	if !ok {
		return
	}
	var req filteruc.ReduceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" && len(req.Criterion) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "type or criterion is required")
		return
	}
	reduced, err := s.filters.Reduce(m, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reduced)
}

// ResolveCandidates handles POST /candidates/{mode}/{type}.
func (s *Server) ResolveCandidates(
	w http.ResponseWriter, r *http.Request, rawMode, criterionType string, params ResolveCandidatesParams,
) {
	m, ok := s.parseMode(w, r, rawMode)
	if !ok {
		return
	}
	var req CandidatesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := s.filters.Option(m, criterionType)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	saved := []byte(req.Filter)
	if len(saved) == 0 || string(saved) == "null" {
		saved = []byte(`{"c":[]}`)
	}
	f, warnings, err := s.filters.Restore(m, saved)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	limit := 0
	if params.Limit != nil {
		if *params.Limit < 1 {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be positive")
			return
		}
		limit = *params.Limit
	}

	res, err := s.candidates.Resolve(r.Context(), candidatesuc.Request{
		Filter: f,
		Option: o,
		Query:  req.Query,
		Limit:  limit,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if len(res.Degraded) > 0 {
		w.Header().Set("X-Degraded", strings.Join(res.Degraded, ","))
	}
	writeJSON(w, http.StatusOK, CandidatesResponse{
		Candidates: res.Candidates,
		Degraded:   res.Degraded,
		Warnings:   warnings,
	})
}

// PurgeFacetCache handles DELETE /cache/facets/{mode}.
func (s *Server) PurgeFacetCache(w http.ResponseWriter, r *http.Request, rawMode string) {
	m, ok := s.parseMode(w, r, rawMode)
	if !ok {
		return
	}
	if s.cache == nil {
		s.handleDomainError(w, r, fmt.Errorf("facet cache disabled: %w", domain.ErrNotFound))
		return
	}
	n, err := s.cache.Purge(r.Context(), m)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logpkg.FromContextOr(r.Context(), s.logger).Info("Purged facet cache",
		zap.String("mode", string(m)), zap.Int64("keys", n))
	writeJSON(w, http.StatusOK, PurgeResponse{Purged: n})
}

func (s *Server) parseMode(w http.ResponseWriter, r *http.Request, raw string) (mode.Mode, bool) {
	m, ok := mode.Parse(raw)
	if !ok {
		s.handleDomainError(w, r, fmt.Errorf("%q: %w", raw, domain.ErrUnknownMode))
		return "", false
	}
	return m, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	if len(body) > maxBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
		return nil, false
	}
	return body, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownMode,
		domain.ErrUnknownCriterionType,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidModifier,
		domain.ErrMetaUnavailable,
		domain.ErrExclusionUnsupported,
		domain.ErrInvalidValue,
		domain.ErrBackendUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
