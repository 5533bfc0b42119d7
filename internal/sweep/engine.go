// Package sweep implements the scan orchestration engine: target and port
// derivation, the two-phase concurrent probing pipeline (reachability, then
// port scan), result aggregation, and deterministic report ordering.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kmartell/netsweep/internal/config"
	"github.com/kmartell/netsweep/internal/errors"
	"github.com/kmartell/netsweep/internal/logging"
	"github.com/kmartell/netsweep/internal/metrics"
	"github.com/kmartell/netsweep/internal/ports"
	"github.com/kmartell/netsweep/internal/probe"
	"github.com/kmartell/netsweep/internal/resolve"
	"github.com/kmartell/netsweep/internal/sink"
	"github.com/kmartell/netsweep/internal/targets"
)

// ConfirmFunc decides whether a large batch may proceed. It receives the
// host count, port count, and total check count.
type ConfirmFunc func(hosts, portCount, totalChecks int) bool

// Engine runs one sweep according to an immutable configuration value.
type Engine struct {
	cfg        config.SweepConfig
	reach      probe.ReachabilityProber
	portProber probe.PortProber

	resultSink sink.Sink
	resolver   resolve.Resolver
	confirm    ConfirmFunc
	onLine     func(line string)

	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewEngine creates a sweep engine with the given configuration and probe
// capabilities.
func NewEngine(cfg config.SweepConfig, reach probe.ReachabilityProber, portProber probe.PortProber) *Engine {
	return &Engine{
		cfg:        cfg,
		reach:      reach,
		portProber: portProber,
		logger:     logging.Default().WithComponent("sweep"),
		metrics:    metrics.GetGlobal(),
	}
}

// SetSink attaches an optional sink that receives every emitted report
// line. The caller owns the sink's lifecycle and must close it on every
// exit path.
func (e *Engine) SetSink(s sink.Sink) {
	e.resultSink = s
}

// SetResolver attaches an optional reverse-DNS resolver used to annotate
// reachable hosts.
func (e *Engine) SetResolver(r resolve.Resolver) {
	e.resolver = r
}

// SetConfirm attaches the large-batch confirmation gate. Without it, an
// unconfirmed oversized batch aborts before phase 2.
func (e *Engine) SetConfirm(fn ConfirmFunc) {
	e.confirm = fn
}

// SetLineWriter attaches the display callback for report and progress
// lines. The engine itself never touches an interactive channel.
func (e *Engine) SetLineWriter(fn func(line string)) {
	e.onLine = fn
}

// SetLogger overrides the engine logger.
func (e *Engine) SetLogger(logger *logging.Logger) {
	e.logger = logger
}

// Run executes the configured phases and returns the finalized report.
// Input errors abort before any probing; individual probe failures never
// abort the run.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	runID := uuid.New()
	log := e.logger.WithSweepID(runID.String())

	report := &Report{
		RunID:      runID,
		TargetSpec: e.cfg.Target,
		StartedAt:  time.Now(),
	}

	ts, truncated := targets.Expand(e.cfg.Target, e.cfg.MaxHosts)
	if len(ts) == 0 {
		return nil, errors.ErrNoTargets(e.cfg.Target)
	}
	report.Truncated = truncated
	if truncated {
		e.metrics.IncrementTruncations()
		log.Warn("Target set truncated at host cap",
			"max_hosts", e.cfg.MaxHosts,
			"target", e.cfg.Target)
		e.notice(fmt.Sprintf("[!] Target expands beyond %d hosts - limiting to first %d hosts for safety.",
			e.cfg.MaxHosts, e.cfg.MaxHosts))
	}

	var portSet []int
	if e.cfg.Phase.IncludesScan() {
		portSet = ports.Parse(e.cfg.Ports)
		if len(portSet) == 0 {
			return nil, errors.ErrNoPorts(e.cfg.Ports)
		}
		if err := e.checkBatchSize(len(ts), len(portSet)); err != nil {
			return nil, err
		}
	}

	log.Info("Sweep starting",
		"target", e.cfg.Target,
		"hosts", len(ts),
		"ports", len(portSet),
		"phase", string(e.cfg.Phase),
		"concurrency", e.cfg.Concurrency)

	e.writeHeader(report, len(ts), portSet)

	scheduler := NewScheduler(e.cfg.Concurrency)
	agg := NewAggregator()

	if e.cfg.Phase.IncludesPing() {
		report.PingRan = true
		e.runPingPhase(ctx, log, scheduler, agg, ts)
	}

	if e.cfg.Phase.IncludesScan() {
		report.ScanRan = true
		scope := e.scanScope(agg, ts, report.PingRan)
		e.runScanPhase(ctx, log, scheduler, agg, scope, portSet)
	}

	if e.resolver != nil {
		e.annotateHostnames(ctx, agg, ts)
	}

	report.Hosts = agg.Finalize(ts)
	report.FinishedAt = time.Now()

	e.notice("--- Final Summary (sorted) ---")
	for _, h := range report.Hosts {
		e.emitResult(report.SummaryLine(h))
	}
	e.writeFooter(report)

	log.Info("Sweep finished",
		"hosts", len(report.Hosts),
		"up", report.UpHosts(),
		"open_ports", report.OpenPortCount(),
		"duration", report.FinishedAt.Sub(report.StartedAt))

	return report, nil
}

// checkBatchSize enforces the pre-flight gate before any scanning starts.
func (e *Engine) checkBatchSize(hosts, portCount int) error {
	total := hosts * portCount
	if total <= e.cfg.LargeBatchThreshold || e.cfg.ConfirmLargeBatch {
		return nil
	}
	if e.confirm != nil && e.confirm(hosts, portCount, total) {
		return nil
	}
	return errors.ErrBatchTooLarge(hosts, portCount, e.cfg.LargeBatchThreshold)
}

// runPingPhase probes every target for reachability and records outcomes.
func (e *Engine) runPingPhase(
	ctx context.Context,
	log *logging.Logger,
	scheduler *Scheduler,
	agg *Aggregator,
	ts []targets.Target,
) {
	e.notice("-> Pinging hosts...")
	start := time.Now()

	tasks := make([]Task, len(ts))
	for i, t := range ts {
		tasks[i] = Task{Host: t.Host}
	}

	outcomes := scheduler.Run(ctx, phasePing, tasks, func(ctx context.Context, task Task) bool {
		return e.reach.Reachable(ctx, task.Host)
	})

	up := 0
	for _, o := range outcomes {
		agg.RecordPing(o.Task.Host, o.Positive)
		if o.Positive {
			up++
		}
	}

	e.metrics.RecordSweepDuration(phasePing, time.Since(start))
	e.metrics.IncrementSweepsTotal(phasePing, "success")
	e.metrics.IncrementHostsSwept("up", up)
	e.metrics.IncrementHostsSwept("down", len(outcomes)-up)
	log.InfoSweep("Reachability phase drained", phasePing,
		"hosts", len(ts),
		"up", up,
		"duration", time.Since(start))

	e.notice("--- Ping results (sorted) ---")
	for _, h := range agg.Finalize(ts) {
		e.emitResult(h.StatusLine())
	}
}

// scanScope applies the phase-2 scoping policy: restrict to the reachable
// subset when the ping phase found one; scan everything when pings all
// failed (ICMP may be filtered while TCP is not) or when no ping phase ran.
func (e *Engine) scanScope(agg *Aggregator, ts []targets.Target, pingRan bool) []targets.Target {
	if !pingRan {
		return ts
	}
	reachable := agg.ReachableSubset(ts)
	if len(reachable) == 0 {
		e.notice("No hosts reported UP by ping; scanning all targets.")
		return ts
	}
	e.notice(fmt.Sprintf("Scanning %d reachable host(s) (skipping hosts that pinged DOWN).", len(reachable)))
	return reachable
}

// runScanPhase probes every host/port pair in scope and records outcomes.
func (e *Engine) runScanPhase(
	ctx context.Context,
	log *logging.Logger,
	scheduler *Scheduler,
	agg *Aggregator,
	scope []targets.Target,
	portSet []int,
) {
	e.notice("-> Scanning ports (this may take a moment)...")
	totalChecks := len(scope) * len(portSet)
	e.metrics.SetChecksPlanned(totalChecks)
	e.notice(fmt.Sprintf("Total checks: %d (hosts %d x ports %d)", totalChecks, len(scope), len(portSet)))

	start := time.Now()
	tasks := make([]Task, 0, totalChecks)
	for _, t := range scope {
		for _, p := range portSet {
			tasks = append(tasks, Task{Host: t.Host, Port: p})
		}
	}

	outcomes := scheduler.Run(ctx, phaseScan, tasks, func(ctx context.Context, task Task) bool {
		return e.portProber.PortOpen(ctx, task.Host, task.Port)
	})

	open := 0
	for _, o := range outcomes {
		agg.RecordPort(o.Task.Host, o.Task.Port, o.Positive)
		if o.Positive {
			open++
		}
	}

	e.metrics.RecordSweepDuration(phaseScan, time.Since(start))
	e.metrics.IncrementSweepsTotal(phaseScan, "success")
	log.InfoSweep("Port-scan phase drained", phaseScan,
		"checks", totalChecks,
		"open", open,
		"duration", time.Since(start))

	e.notice("--- Open ports (sorted) ---")
	found := false
	for _, h := range agg.Finalize(scope) {
		if len(h.OpenPorts) > 0 {
			found = true
			e.emitResult(h.OpenPortsLine())
		}
	}
	if !found {
		e.emitResult(NoOpenPortsLine)
	}
}

// annotateHostnames attaches reverse-DNS names to hosts that answered the
// ping phase, or to every IP target when no ping phase ran.
func (e *Engine) annotateHostnames(ctx context.Context, agg *Aggregator, ts []targets.Target) {
	for _, t := range ts {
		if !t.IsIP() {
			continue
		}
		if status := agg.Status(t.Host); status == StatusDown {
			continue
		}
		agg.RecordHostname(t.Host, e.resolver.ReverseLookup(ctx, t.Host))
	}
}

// notice sends a progress line to the display callback only.
func (e *Engine) notice(line string) {
	if e.onLine != nil {
		e.onLine(line)
	}
}

// emitResult sends a report line to the display callback and the sink.
func (e *Engine) emitResult(line string) {
	if e.onLine != nil {
		e.onLine(line)
	}
	e.appendToSink(line)
}

// appendToSink persists one line, logging but not propagating failures so
// persistence problems never abort a run in flight.
func (e *Engine) appendToSink(line string) {
	if e.resultSink == nil {
		return
	}
	if err := e.resultSink.Append(line); err != nil {
		e.logger.ErrorSink("Failed to persist report line", err)
	}
}

// writeHeader records the run header in the sink.
func (e *Engine) writeHeader(report *Report, hostCount int, portSet []int) {
	if e.resultSink == nil {
		return
	}
	portsField := "None"
	if len(portSet) > 0 {
		portsField = ports.Render(portSet)
	}
	e.appendToSink(fmt.Sprintf("Scan started: %s", report.StartedAt.Format(time.RFC3339)))
	e.appendToSink(fmt.Sprintf("Run ID: %s", report.RunID))
	e.appendToSink(fmt.Sprintf("Target: %s", report.TargetSpec))
	e.appendToSink(fmt.Sprintf("Hosts: %d", hostCount))
	e.appendToSink(fmt.Sprintf("Ports: %s", portsField))
}

// writeFooter records the run footer in the sink.
func (e *Engine) writeFooter(report *Report) {
	if e.resultSink == nil {
		return
	}
	e.appendToSink(fmt.Sprintf("Scan finished: %s", report.FinishedAt.Format(time.RFC3339)))
}
