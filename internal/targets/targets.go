// Package targets turns a target specification (single host, IP address, or
// CIDR range) into a deduplicated, bounded list of scan targets with a
// deterministic sort order. Expansion is purely syntactic: no network I/O
// happens here.
package targets

import (
	"net/netip"
	"sort"
	"strings"
)

// DefaultMaxHosts caps the expanded target set when no explicit limit is
// configured.
const DefaultMaxHosts = 512

// Prefix lengths at which an IPv4 range still has distinct network and
// broadcast addresses to exclude.
const maxUsableIPv4Prefix = 30

// Target is a single host to probe: an IP address or a literal hostname.
type Target struct {
	// Host is the identifier handed to probers and rendered in reports.
	Host string

	addr netip.Addr
	isIP bool
}

// New creates a target from a host identifier, classifying it as an IP
// address or a literal hostname for ordering purposes.
func New(host string) Target {
	if addr, err := netip.ParseAddr(host); err == nil {
		return Target{Host: host, addr: addr.Unmap(), isIP: true}
	}
	return Target{Host: host}
}

// IsIP reports whether the target is an IP address.
func (t Target) IsIP() bool {
	return t.isIP
}

// Addr returns the parsed address. Only meaningful when IsIP is true.
func (t Target) Addr() netip.Addr {
	return t.addr
}

// Compare orders targets by their sort key: IP addresses numerically first,
// then non-IP hostnames lexically (case-folded).
func Compare(a, b Target) int {
	switch {
	case a.isIP && b.isIP:
		return a.addr.Compare(b.addr)
	case a.isIP:
		return -1
	case b.isIP:
		return 1
	default:
		return strings.Compare(strings.ToLower(a.Host), strings.ToLower(b.Host))
	}
}

// Sort sorts targets in place by their sort key.
func Sort(ts []Target) {
	sort.Slice(ts, func(i, j int) bool {
		return Compare(ts[i], ts[j]) < 0
	})
}

// Expand turns a target specification into a deduplicated list of targets.
// CIDR specs enumerate usable host addresses (network and broadcast excluded
// when the range is large enough to have them); a single-address range falls
// back to the range's own address. Anything that does not parse as a range
// or address is treated as one literal hostname. The result is capped at
// maxHosts, keeping the first entries in expansion order; the second return
// value reports whether truncation occurred.
func Expand(spec string, maxHosts int) ([]Target, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, false
	}
	if maxHosts <= 0 {
		maxHosts = DefaultMaxHosts
	}

	if strings.Contains(spec, "/") {
		if prefix, err := netip.ParsePrefix(spec); err == nil {
			return expandPrefix(prefix, maxHosts)
		}
		// Not a valid range: fall through to a literal host.
		return []Target{New(spec)}, false
	}

	// Single IP or hostname.
	return []Target{New(spec)}, false
}

// expandPrefix enumerates the usable host addresses of a range, capped at
// maxHosts.
func expandPrefix(prefix netip.Prefix, maxHosts int) ([]Target, bool) {
	network := prefix.Masked()
	first := network.Addr()
	last := lastAddr(network)

	start, end := first, last
	if network.Addr().Is4() && network.Bits() <= maxUsableIPv4Prefix {
		// Skip network and broadcast addresses.
		start = first.Next()
		end = last.Prev()
	}

	if start.Compare(end) > 0 {
		// No usable hosts; fall back to the range's own address.
		return []Target{New(first.String())}, false
	}

	out := make([]Target, 0, 16)
	truncated := false
	for addr := start; addr.IsValid() && addr.Compare(end) <= 0; addr = addr.Next() {
		if len(out) == maxHosts {
			truncated = true
			break
		}
		out = append(out, Target{Host: addr.String(), addr: addr, isIP: true})
	}
	return out, truncated
}

// lastAddr returns the highest address contained in the prefix.
func lastAddr(prefix netip.Prefix) netip.Addr {
	raw := prefix.Addr().AsSlice()
	hostBits := len(raw)*8 - prefix.Bits()
	for i := len(raw) - 1; i >= 0 && hostBits > 0; i-- {
		bits := hostBits
		if bits > 8 {
			bits = 8
		}
		raw[i] |= byte(0xff >> (8 - bits))
		hostBits -= bits
	}
	addr, _ := netip.AddrFromSlice(raw)
	return addr
}
