package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	require.NotNil(t, c)
	require.NotNil(t, c.Registry)

	c.ExecutionsTotal.WithLabelValues("success").Inc()
	c.ExecutionsTotal.WithLabelValues("timeout").Inc()
	c.ExecutionsTotal.WithLabelValues("timeout").Inc()
	c.ExecutionDuration.Observe(0.42)
	c.ActiveExecutions.Inc()
	c.HTTPRequestsTotal.WithLabelValues("/run", "200").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ExecutionsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ExecutionsTotal.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ActiveExecutions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequestsTotal.WithLabelValues("/run", "200")))
}

func TestCollectorsAreIndependent(t *testing.T) {
	first := NewCollector()
	second := NewCollector()

	first.ExecutionsTotal.WithLabelValues("success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.ExecutionsTotal.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.ExecutionsTotal.WithLabelValues("success")))
}
