package sweep

import (
	"sort"

	"github.com/kmartell/netsweep/internal/targets"
)

// Aggregator merges probe outcomes into per-host state and produces the
// ordered report. Outcomes reach it through the scheduler's drained result
// sets, so each outcome is consumed exactly once.
type Aggregator struct {
	status    map[string]HostStatus
	openPorts map[string][]int
	hostnames map[string]string
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		status:    make(map[string]HostStatus),
		openPorts: make(map[string][]int),
		hostnames: make(map[string]string),
	}
}

// RecordPing merges one reachability outcome.
func (a *Aggregator) RecordPing(host string, up bool) {
	if up {
		a.status[host] = StatusUp
	} else {
		a.status[host] = StatusDown
	}
}

// RecordPort merges one port outcome. Closed ports are recorded implicitly:
// a scanned host with no open ports keeps an empty list.
func (a *Aggregator) RecordPort(host string, port int, open bool) {
	if _, seen := a.openPorts[host]; !seen {
		a.openPorts[host] = nil
	}
	if open {
		a.openPorts[host] = append(a.openPorts[host], port)
	}
}

// RecordHostname attaches a reverse-DNS annotation to a host.
func (a *Aggregator) RecordHostname(host, name string) {
	if name != "" {
		a.hostnames[host] = name
	}
}

// Status returns the recorded reachability status for a host, or UNKNOWN
// when the host was never covered by a ping phase.
func (a *Aggregator) Status(host string) HostStatus {
	if s, ok := a.status[host]; ok {
		return s
	}
	return StatusUnknown
}

// ReachableSubset returns the targets out of ts whose status is UP,
// preserving input order.
func (a *Aggregator) ReachableSubset(ts []targets.Target) []targets.Target {
	subset := make([]targets.Target, 0, len(ts))
	for _, t := range ts {
		if a.status[t.Host] == StatusUp {
			subset = append(subset, t)
		}
	}
	return subset
}

// Finalize produces the per-host results for all targets, ordered by the
// target sort key. Hosts never probed in a phase render as UNKNOWN or an
// empty port list rather than being omitted.
func (a *Aggregator) Finalize(ts []targets.Target) []HostResult {
	ordered := make([]targets.Target, len(ts))
	copy(ordered, ts)
	targets.Sort(ordered)

	results := make([]HostResult, 0, len(ordered))
	for _, t := range ordered {
		open := a.openPorts[t.Host]
		sorted := make([]int, len(open))
		copy(sorted, open)
		sort.Ints(sorted)

		results = append(results, HostResult{
			Target:    t,
			Status:    a.Status(t.Host),
			OpenPorts: sorted,
			Hostname:  a.hostnames[t.Host],
		})
	}
	return results
}
