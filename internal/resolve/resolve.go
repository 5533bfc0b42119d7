// Package resolve provides best-effort reverse DNS lookups used to annotate
// reachable hosts in sweep reports. Lookup failures are never fatal; a host
// that cannot be resolved is simply left unannotated.
package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const defaultLookupTimeout = 2 * time.Second

// Resolver answers reverse lookups for IP addresses.
type Resolver interface {
	// ReverseLookup returns the PTR name for an address, or "" when the
	// address has no usable PTR record.
	ReverseLookup(ctx context.Context, addr string) string
}

// DNSResolver performs PTR queries against the system's configured
// nameservers.
type DNSResolver struct {
	Timeout time.Duration

	// ConfigPath overrides the resolver configuration file, used by tests.
	ConfigPath string
}

// ReverseLookup implements Resolver.
func (r *DNSResolver) ReverseLookup(ctx context.Context, addr string) string {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	reverse, err := dns.ReverseAddr(addr)
	if err != nil {
		return ""
	}

	configPath := r.ConfigPath
	if configPath == "" {
		configPath = "/etc/resolv.conf"
	}
	config, err := dns.ClientConfigFromFile(configPath)
	if err != nil || len(config.Servers) == 0 {
		return ""
	}

	msg := new(dns.Msg)
	msg.SetQuestion(reverse, dns.TypePTR)

	client := &dns.Client{Timeout: timeout}
	for _, server := range config.Servers {
		reply, _, err := client.ExchangeContext(ctx, msg, server+":"+config.Port)
		if err != nil || reply == nil || reply.Rcode != dns.RcodeSuccess {
			continue
		}
		for _, answer := range reply.Answer {
			if ptr, ok := answer.(*dns.PTR); ok {
				return strings.TrimSuffix(ptr.Ptr, ".")
			}
		}
	}
	return ""
}
