package probe

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

// Extra margin on top of the network timeout to cover ping process startup
// and teardown.
const pingProcessMargin = 2 * time.Second

// PingProber checks reachability by invoking the platform ping command for
// a single echo request. The zero value uses DefaultTimeout of network time
// plus a process-overhead margin.
type PingProber struct {
	Timeout time.Duration
}

// Reachable runs one ping against the host and reports whether it answered.
// Process failures of any kind resolve to false.
func (p PingProber) Reachable(ctx context.Context, host string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout+pingProcessMargin)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		ms := strconv.FormatInt(timeout.Milliseconds(), 10)
		cmd = exec.CommandContext(ctx, "ping", "-n", "1", "-w", ms, host)
	} else {
		secs := int(timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		cmd = exec.CommandContext(ctx, "ping", "-c", "1", "-W", strconv.Itoa(secs), host)
	}
	cmd.Stdout = nil
	cmd.Stderr = nil

	return cmd.Run() == nil
}
