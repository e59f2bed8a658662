package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.BlottersArchived.Inc()
	m.ReconcileRepairs.WithLabelValues("duplicate").Add(2)
	m.HTTPRequests.WithLabelValues("GET", "/api/blotters", "200").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BlottersArchived))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReconcileRepairs.WithLabelValues("duplicate")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "bps_blotters_archived_total")
	assert.Contains(t, names, "bps_http_requests_total")
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
