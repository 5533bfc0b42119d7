// Package probe defines the capability interfaces the sweep engine depends
// on for reachability and port checks, along with the default
// implementations. Probers never leak failures past their boundary: any
// timeout, refusal, or OS error resolves to a negative answer.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

// DefaultTimeout is the per-probe network timeout.
const DefaultTimeout = time.Second

// ReachabilityProber answers whether a host is responsive, independent of
// any specific port.
type ReachabilityProber interface {
	Reachable(ctx context.Context, host string) bool
}

// PortProber answers whether a TCP port accepts connections on a host.
type PortProber interface {
	PortOpen(ctx context.Context, host string, port int) bool
}

// ConnectProber probes TCP ports with plain connect attempts. The zero
// value uses DefaultTimeout.
type ConnectProber struct {
	Timeout time.Duration
}

// PortOpen attempts a TCP connection to host:port. The connection, if any,
// is closed before returning.
func (p ConnectProber) PortOpen(ctx context.Context, host string, port int) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
