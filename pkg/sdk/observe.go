package stashfilter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
)

// sdkMetrics counts filter and candidate calls per entity collection.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stashfilter",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Filter compile/reduce and candidate lookups by collection and status.",
		}, []string{"operation", "collection", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stashfilter",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "Time spent in filter and candidate calls, per collection.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "collection"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("stashfilter: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("stashfilter: register metric: %w", err)
	}
	return nil
}

// unknownCollection labels calls made against a collection name that did not
// parse, so arbitrary input cannot grow the label set.
const unknownCollection = "unknown"

func collectionLabel(m mode.Mode, valid bool) string {
	if !valid {
		return unknownCollection
	}
	return strings.ToLower(string(m))
}

// observer times each call and logs failures with the collection it ran on.
type observer struct {
	logger  *zap.Logger
	metrics *sdkMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// observe records one call. collection is a label from collectionLabel.
func (o *observer) observe(op, collection string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, collection, status).Inc()
		o.metrics.duration.WithLabelValues(op, collection).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("stashfilter call failed",
				zap.String("op", op),
				zap.String("collection", collection),
				zap.Duration("duration", dur),
				zap.Error(err),
			)
		} else {
			o.logger.Debug("stashfilter call done",
				zap.String("op", op),
				zap.String("collection", collection),
				zap.Duration("duration", dur),
			)
		}
	}
}
