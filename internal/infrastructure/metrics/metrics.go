// Package metrics holds the Prometheus collectors of the portal.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector the portal exports
type Metrics struct {
	HTTPRequests            *prometheus.CounterVec
	HTTPDuration            *prometheus.HistogramVec
	BlottersArchived        prometheus.Counter
	ArchiveFailures         prometheus.Counter
	ReconcileRepairs        *prometheus.CounterVec
	IncidentTypesRegistered prometheus.Counter
	BlobDeleteFailures      prometheus.Counter
	LoginAttempts           *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg uses
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bps_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bps_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BlottersArchived: f.NewCounter(prometheus.CounterOpts{
			Name: "bps_blotters_archived_total",
			Help: "Blotters moved to the archive",
		}),
		ArchiveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "bps_blotter_archive_failures_total",
			Help: "Archive transactions that rolled back",
		}),
		ReconcileRepairs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bps_blotter_reconcile_repairs_total",
			Help: "Blotters repaired by archive reconciliation, by kind",
		}, []string{"kind"}),
		IncidentTypesRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "bps_incident_types_registered_total",
			Help: "Custom incident types added to the registry",
		}),
		BlobDeleteFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "bps_blob_delete_failures_total",
			Help: "Best-effort ID document deletions that failed",
		}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bps_login_attempts_total",
			Help: "Sign-in attempts by result",
		}, []string{"result"}),
	}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide collectors, registered on first use.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(nil)
	})
	return defaultMetrics
}
