package probe

import (
	"context"
	"time"

	"github.com/Ullaakut/nmap/v3"
)

// NmapProber checks reachability with an nmap ping scan against a single
// host. It needs the nmap binary on the path; any scanner failure resolves
// to unreachable.
type NmapProber struct {
	Timeout time.Duration
}

// Reachable runs a host-discovery-only nmap scan and reports whether the
// host came back up.
func (p NmapProber) Reachable(ctx context.Context, host string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout+pingProcessMargin)
	defer cancel()

	scanner, err := nmap.NewScanner(ctx,
		nmap.WithTargets(host),
		nmap.WithPingScan(),
		nmap.WithTimingTemplate(nmap.TimingAggressive),
	)
	if err != nil {
		return false
	}

	result, _, err := scanner.Run()
	if err != nil || result == nil {
		return false
	}

	for i := range result.Hosts {
		if result.Hosts[i].Status.State == "up" {
			return true
		}
	}
	return false
}
