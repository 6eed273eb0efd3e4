package stashfilter

import (
	"context"

	healthuc "github.com/stashapp/stash-sub011/internal/usecase/health"
)

// Check names reported in HealthStatus.Checks.
const (
	// CheckBackend is the library query backend serving search and facets.
	CheckBackend = "backend"
	// CheckFacetCache is the valkey store behind the facet cache. It is
	// absent when the client runs without a store.
	CheckFacetCache = "database"
)

// HealthStatus reports whether candidate lookups can be served.
// Status is "ok", "degraded" (some checks failed) or "error".
type HealthStatus struct {
	Status string
	Checks map[string]string // check name → "ok"/"error"
}

// Ready reports whether the query backend is reachable. A failing facet
// cache only costs counts, so it does not make the client unready.
func (h HealthStatus) Ready() bool {
	return h.Checks[CheckBackend] == string(healthuc.CheckOK)
}

// Health checks the query backend and, when configured, the facet cache store.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
