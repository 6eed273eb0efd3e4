package health

import "context"

// DBPinger checks facet cache availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker checks query backend availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}
