package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/stashapp/stash-sub011/internal/domain/facet"
	filteruc "github.com/stashapp/stash-sub011/internal/usecase/filter"
)

// ErrorCode classifies an API error for clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeUnauthorized         ErrorCode = "unauthorized"
	CodeNotFound             ErrorCode = "not_found"
	CodeAlreadyExists        ErrorCode = "already_exists"
	CodeUnknownMode          ErrorCode = "unknown_mode"
	CodeUnknownCriterionType ErrorCode = "unknown_criterion_type"
	CodeInvalidModifier      ErrorCode = "invalid_modifier"
	CodeInvalidValue         ErrorCode = "invalid_value"
	CodeMetaUnavailable      ErrorCode = "meta_unavailable"
	CodeExclusionUnsupported ErrorCode = "exclusion_unsupported"
	CodeBackendUnavailable   ErrorCode = "backend_unavailable"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// CriteriaResponse is the body of GET /criteria/{mode}.
type CriteriaResponse struct {
	Mode     string                `json:"mode"`
	Criteria []filteruc.OptionInfo `json:"criteria"`
}

// QueryRequest is the body of POST /filters/{mode}/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// CandidatesRequest is the body of POST /candidates/{mode}/{type}.
// Filter is saved-filter JSON; absent means an empty filter.
type CandidatesRequest struct {
	Filter json.RawMessage `json:"filter,omitempty"`
	Query  string          `json:"q"`
}

// PurgeResponse is the body of DELETE /cache/facets/{mode}.
type PurgeResponse struct {
	Purged int64 `json:"purged"`
}

// CandidatesResponse is the body of a candidate lookup.
type CandidatesResponse struct {
	Candidates []facet.Candidate  `json:"candidates"`
	Degraded   []string           `json:"degraded,omitempty"`
	Warnings   []filteruc.Warning `json:"warnings"`
}

// ListCriteriaParams are the query parameters of GET /criteria/{mode}.
type ListCriteriaParams struct {
	Type *string
}

// ResolveCandidatesParams are the query parameters of POST /candidates/{mode}/{type}.
type ResolveCandidatesParams struct {
	Limit *int
}

// ServerInterface lists the API operations.
type ServerInterface interface {
	HealthCheck(w http.ResponseWriter, r *http.Request)
	Metrics(w http.ResponseWriter, r *http.Request)
	ListCriteria(w http.ResponseWriter, r *http.Request, mode string, params ListCriteriaParams)
	CompileFilter(w http.ResponseWriter, r *http.Request, mode string)
	FilterFromQuery(w http.ResponseWriter, r *http.Request, mode string)
	ReduceSelection(w http.ResponseWriter, r *http.Request, mode string)
	ResolveCandidates(w http.ResponseWriter, r *http.Request, mode, criterionType string, params ResolveCandidatesParams)
	PurgeFacetCache(w http.ResponseWriter, r *http.Request, mode string)
}

// ChiServerOptions configures Handler.
type ChiServerOptions struct {
	BaseRouter chi.Router
	// ErrorHandlerFunc answers requests whose parameters fail to bind.
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts si on a router.
func Handler(si ServerInterface, opts ChiServerOptions) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	onErr := opts.ErrorHandlerFunc
	if onErr == nil {
		onErr = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		}
	}
	b := binder{si: si, onErr: onErr}

	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	r.Get("/criteria/{mode}", b.listCriteria)
	r.Post("/filters/{mode}/compile", b.compileFilter)
	r.Post("/filters/{mode}/query", b.filterFromQuery)
	r.Post("/selection/{mode}", b.reduceSelection)
	r.Post("/candidates/{mode}/{type}", b.resolveCandidates)
	r.Delete("/cache/facets/{mode}", b.purgeFacetCache)
	return r
}

// binder decodes path and query parameters before calling the server.
type binder struct {
	si    ServerInterface
	onErr func(w http.ResponseWriter, r *http.Request, err error)
}

func (b binder) pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	return v, err
}

func (b binder) withMode(next func(w http.ResponseWriter, r *http.Request, mode string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := b.pathParam(r, "mode")
		if err != nil {
			b.onErr(w, r, err)
			return
		}
		next(w, r, m)
	}
}

func (b binder) listCriteria(w http.ResponseWriter, r *http.Request) {
	b.withMode(func(w http.ResponseWriter, r *http.Request, m string) {
		var params ListCriteriaParams
		if err := runtime.BindQueryParameter("form", true, false, "type", r.URL.Query(), &params.Type); err != nil {
			b.onErr(w, r, err)
			return
		}
		b.si.ListCriteria(w, r, m, params)
	})(w, r)
}

func (b binder) compileFilter(w http.ResponseWriter, r *http.Request) {
	b.withMode(b.si.CompileFilter)(w, r)
}

func (b binder) filterFromQuery(w http.ResponseWriter, r *http.Request) {
	b.withMode(b.si.FilterFromQuery)(w, r)
}

func (b binder) reduceSelection(w http.ResponseWriter, r *http.Request) {
	b.withMode(b.si.ReduceSelection)(w, r)
}

func (b binder) resolveCandidates(w http.ResponseWriter, r *http.Request) {
	b.withMode(func(w http.ResponseWriter, r *http.Request, m string) {
		typ, err := b.pathParam(r, "type")
		if err != nil {
			b.onErr(w, r, err)
			return
		}
		var params ResolveCandidatesParams
		if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
			b.onErr(w, r, err)
			return
		}
		b.si.ResolveCandidates(w, r, m, typ, params)
	})(w, r)
}

func (b binder) purgeFacetCache(w http.ResponseWriter, r *http.Request) {
	b.withMode(b.si.PurgeFacetCache)(w, r)
}
