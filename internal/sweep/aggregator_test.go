package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmartell/netsweep/internal/targets"
)

func makeTargets(hosts ...string) []targets.Target {
	ts := make([]targets.Target, len(hosts))
	for i, h := range hosts {
		ts[i] = targets.New(h)
	}
	return ts
}

func TestAggregatorPing(t *testing.T) {
	agg := NewAggregator()
	agg.RecordPing("10.0.0.1", true)
	agg.RecordPing("10.0.0.2", false)

	assert.Equal(t, StatusUp, agg.Status("10.0.0.1"))
	assert.Equal(t, StatusDown, agg.Status("10.0.0.2"))
	assert.Equal(t, StatusUnknown, agg.Status("10.0.0.3"))
}

func TestAggregatorReachableSubset(t *testing.T) {
	ts := makeTargets("10.0.0.1", "10.0.0.2", "10.0.0.3")

	agg := NewAggregator()
	agg.RecordPing("10.0.0.1", false)
	agg.RecordPing("10.0.0.2", true)
	agg.RecordPing("10.0.0.3", true)

	subset := agg.ReachableSubset(ts)
	require.Len(t, subset, 2)
	assert.Equal(t, "10.0.0.2", subset[0].Host)
	assert.Equal(t, "10.0.0.3", subset[1].Host)

	assert.Empty(t, NewAggregator().ReachableSubset(ts))
}

func TestAggregatorPorts(t *testing.T) {
	t.Run("collects open ports sorted ascending", func(t *testing.T) {
		agg := NewAggregator()
		agg.RecordPort("10.0.0.1", 443, true)
		agg.RecordPort("10.0.0.1", 22, true)
		agg.RecordPort("10.0.0.1", 80, false)

		results := agg.Finalize(makeTargets("10.0.0.1"))
		require.Len(t, results, 1)
		assert.Equal(t, []int{22, 443}, results[0].OpenPorts)
	})

	t.Run("scanned host with nothing open keeps an empty list", func(t *testing.T) {
		agg := NewAggregator()
		agg.RecordPort("10.0.0.1", 22, false)

		results := agg.Finalize(makeTargets("10.0.0.1"))
		require.Len(t, results, 1)
		assert.Empty(t, results[0].OpenPorts)
	})
}

func TestAggregatorFinalizeOrdering(t *testing.T) {
	// Deliberately unsorted input: ordering must come from the sort key,
	// not from arrival or expansion order.
	ts := makeTargets("web.example", "10.0.0.10", "10.0.0.2", "api.example", "9.1.1.1")

	agg := NewAggregator()
	for _, target := range ts {
		agg.RecordPing(target.Host, true)
	}

	results := agg.Finalize(ts)
	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Target.Host
	}
	assert.Equal(t, []string{"9.1.1.1", "10.0.0.2", "10.0.0.10", "api.example", "web.example"}, got)
}

func TestAggregatorHostnames(t *testing.T) {
	agg := NewAggregator()
	agg.RecordHostname("10.0.0.1", "gw.internal.example")
	agg.RecordHostname("10.0.0.2", "")

	results := agg.Finalize(makeTargets("10.0.0.1", "10.0.0.2"))
	assert.Equal(t, "gw.internal.example", results[0].Hostname)
	assert.Empty(t, results[1].Hostname)
}
