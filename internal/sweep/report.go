package sweep

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmartell/netsweep/internal/targets"
)

// Phase names used in logs, metrics, and report bookkeeping.
const (
	phasePing = "ping"
	phaseScan = "scan"
)

// HostStatus is the reachability verdict for one host.
type HostStatus string

const (
	StatusUp      HostStatus = "UP"
	StatusDown    HostStatus = "DOWN"
	StatusUnknown HostStatus = "UNKNOWN"
)

// NoOpenPortsLine is emitted when the scan phase found nothing open.
const NoOpenPortsLine = "No open ports found for scanned hosts."

// HostResult is the aggregated outcome for a single target.
type HostResult struct {
	Target targets.Target

	// Status is UNKNOWN when the host was never covered by a ping phase.
	Status HostStatus

	// OpenPorts is sorted ascending; empty means none found (or the host
	// was outside the scan scope), never "not recorded".
	OpenPorts []int

	// Hostname is the optional reverse-DNS annotation.
	Hostname string
}

// StatusLine renders the per-host reachability line.
func (h HostResult) StatusLine() string {
	return fmt.Sprintf("%s: %s", h.Target.Host, h.Status)
}

// OpenPortsLine renders the per-host open-ports line. Only meaningful when
// OpenPorts is non-empty.
func (h HostResult) OpenPortsLine() string {
	parts := make([]string, len(h.OpenPorts))
	for i, p := range h.OpenPorts {
		parts[i] = strconv.Itoa(p)
	}
	return fmt.Sprintf("%s: open ports -> %s", h.Target.Host, strings.Join(parts, ", "))
}

// openPortsCSV renders the summary-field form of the open port list.
func (h HostResult) openPortsCSV() string {
	if len(h.OpenPorts) == 0 {
		return "none"
	}
	parts := make([]string, len(h.OpenPorts))
	for i, p := range h.OpenPorts {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

// Report is the final aggregate of one run. It is assembled while outcomes
// arrive but immutable once finalized, and its host order follows the
// target sort key regardless of completion order.
type Report struct {
	RunID      uuid.UUID
	TargetSpec string
	StartedAt  time.Time
	FinishedAt time.Time

	// Which phases actually ran; summary lines include only the fields
	// their phases computed.
	PingRan bool
	ScanRan bool

	// Truncated reports that target expansion hit the host cap.
	Truncated bool

	Hosts []HostResult
}

// SummaryLine renders the final per-host summary in the persisted format.
func (r *Report) SummaryLine(h HostResult) string {
	parts := []string{h.Target.Host}
	if r.PingRan {
		parts = append(parts, string(h.Status))
	}
	if r.ScanRan {
		parts = append(parts, "open:"+h.openPortsCSV())
	}
	return strings.Join(parts, " | ")
}

// SummaryLines renders every host's summary line in report order.
func (r *Report) SummaryLines() []string {
	lines := make([]string, len(r.Hosts))
	for i, h := range r.Hosts {
		lines[i] = r.SummaryLine(h)
	}
	return lines
}

// UpHosts counts hosts that pinged UP.
func (r *Report) UpHosts() int {
	count := 0
	for _, h := range r.Hosts {
		if h.Status == StatusUp {
			count++
		}
	}
	return count
}

// OpenPortCount counts open ports across all hosts.
func (r *Report) OpenPortCount() int {
	count := 0
	for _, h := range r.Hosts {
		count += len(h.OpenPorts)
	}
	return count
}
