package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()
	require.NotNil(t, m)
	require.NotNil(t, m.GetRegistry())
}

func TestSweepMetrics(t *testing.T) {
	m := New()

	m.IncrementSweepsTotal("ping", "success")
	m.IncrementSweepsTotal("ping", "success")
	m.IncrementSweepsTotal("scan", "success")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.sweepsTotal.WithLabelValues("ping", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sweepsTotal.WithLabelValues("scan", "success")))

	m.IncrementHostsSwept("up", 3)
	m.IncrementHostsSwept("down", 1)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.hostsSwept.WithLabelValues("up")))

	m.SetChecksPlanned(240)
	assert.Equal(t, float64(240), testutil.ToFloat64(m.checksPlanned))

	m.IncrementTruncations()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.truncations))
}

func TestProbeMetrics(t *testing.T) {
	m := New()

	m.IncrementProbesTotal("scan", "open")
	m.IncrementProbesTotal("scan", "closed")
	m.IncrementProbesTotal("scan", "closed")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.probesTotal.WithLabelValues("scan", "closed")))

	m.RecordProbeDuration("ping", 120*time.Millisecond)
	m.RecordSweepDuration("ping", time.Second)

	m.AddActiveWorkers(5)
	m.AddActiveWorkers(-2)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.activeWorkers))
}

func TestGetGlobal(t *testing.T) {
	first := GetGlobal()
	second := GetGlobal()
	assert.Same(t, first, second)
}
