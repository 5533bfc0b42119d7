package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kmartell/netsweep/internal/api"
	"github.com/kmartell/netsweep/internal/config"
	"github.com/kmartell/netsweep/internal/errors"
	"github.com/kmartell/netsweep/internal/metrics"
	"github.com/kmartell/netsweep/internal/probe"
	"github.com/kmartell/netsweep/internal/resolve"
	"github.com/kmartell/netsweep/internal/sink"
	"github.com/kmartell/netsweep/internal/sweep"
)

var (
	sweepTarget         string
	sweepPorts          string
	sweepPhase          string
	sweepConcurrency    int
	sweepMaxHosts       int
	sweepPingTimeout    time.Duration
	sweepConnectTimeout time.Duration
	sweepProber         string
	sweepResolve        bool
	sweepOutput         string
	sweepMetricsAddr    string
	sweepYes            bool
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Ping and port-scan a target or CIDR range",
	Long: `Sweep expands the target specification into a host list, checks each
host for reachability, scans the reachable hosts for open TCP ports, and
prints a summary sorted by address. Phases can be selected independently
with --phase.`,
	Example: `  netsweep sweep --target 192.168.1.0/24
  netsweep sweep --target 192.168.1.10 --ports 22,80,443
  netsweep sweep --target 10.0.0.0/28 --ports 1-1024 --phase scan --yes
  netsweep sweep --target gateway.local --phase ping
  netsweep sweep --target 192.168.1.0/24 --ports 22,80 --output results.txt --resolve`,
	Run: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&sweepTarget, "target", "t", "", "Target host, IP, or CIDR range (e.g. 192.168.1.0/24)")
	sweepCmd.Flags().StringVarP(&sweepPorts, "ports", "p", "", "Port specification: '80', '22,80,443', or '1-1024'")
	sweepCmd.Flags().StringVar(&sweepPhase, "phase", string(config.PhaseBoth), "Phases to run: ping, scan, or both")
	sweepCmd.Flags().IntVarP(&sweepConcurrency, "concurrency", "c", config.DefaultConcurrency, "Number of probe workers (clamped to 1-200)")
	sweepCmd.Flags().IntVar(&sweepMaxHosts, "max-hosts", config.DefaultMaxHosts, "Cap on the expanded host count")
	sweepCmd.Flags().DurationVar(&sweepPingTimeout, "ping-timeout", config.DefaultProbeTimeout, "Per-host reachability timeout")
	sweepCmd.Flags().DurationVar(&sweepConnectTimeout, "connect-timeout", config.DefaultProbeTimeout, "Per-port TCP connect timeout")
	sweepCmd.Flags().StringVar(&sweepProber, "prober", "", "Reachability prober: ping or nmap")
	sweepCmd.Flags().BoolVar(&sweepResolve, "resolve", false, "Annotate reachable hosts with reverse DNS names")
	sweepCmd.Flags().StringVarP(&sweepOutput, "output", "o", "", "Append every report line to this file")
	sweepCmd.Flags().StringVar(&sweepMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")
	sweepCmd.Flags().BoolVarP(&sweepYes, "yes", "y", false, "Proceed without confirmation on large scans")

	if err := sweepCmd.MarkFlagRequired("target"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to mark target flag required: %v\n", err)
	}
}

func runSweep(cmd *cobra.Command, _ []string) {
	cfg, err := buildSweepConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := sweep.NewEngine(cfg.Sweep, reachabilityProber(cfg.Sweep), probe.ConnectProber{
		Timeout: cfg.Sweep.ConnectTimeout,
	})
	engine.SetLineWriter(func(line string) {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	})
	engine.SetConfirm(confirmLargeBatch(cmd))

	if cfg.Sweep.Resolve {
		engine.SetResolver(&resolve.DNSResolver{})
	}

	if cfg.Sweep.OutputFile != "" {
		fileSink, sinkErr := sink.NewFileSink(cfg.Sweep.OutputFile)
		if sinkErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", sinkErr)
			os.Exit(1)
		}
		defer func() {
			if closeErr := fileSink.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close results file: %v\n", closeErr)
			}
		}()
		engine.SetSink(fileSink)
	}

	if cfg.Metrics.Enabled {
		metricsServer := api.New(cfg.Metrics.ListenAddr, metrics.GetGlobal())
		metricsServer.Start()
		defer func() {
			if shutdownErr := metricsServer.Shutdown(); shutdownErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to stop metrics endpoint: %v\n", shutdownErr)
			}
		}()
	}

	report, err := engine.Run(context.Background())
	if err != nil {
		if errors.IsCode(err, errors.CodeBatchTooLarge) {
			fmt.Fprintf(os.Stderr, "Error: %v\nRe-run with --yes to scan anyway.\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	displayReportTable(cmd, report)

	if cfg.Sweep.OutputFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", cfg.Sweep.OutputFile)
	}
}

// buildSweepConfig layers flag values over the loaded configuration file.
func buildSweepConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("target") || cfg.Sweep.Target == "" {
		cfg.Sweep.Target = sweepTarget
	}
	if flags.Changed("ports") || cfg.Sweep.Ports == "" {
		cfg.Sweep.Ports = sweepPorts
	}
	if flags.Changed("phase") {
		cfg.Sweep.Phase = config.Phase(sweepPhase)
	}
	if flags.Changed("concurrency") {
		cfg.Sweep.Concurrency = sweepConcurrency
	}
	if flags.Changed("max-hosts") {
		cfg.Sweep.MaxHosts = sweepMaxHosts
	}
	if flags.Changed("ping-timeout") {
		cfg.Sweep.PingTimeout = sweepPingTimeout
	}
	if flags.Changed("connect-timeout") {
		cfg.Sweep.ConnectTimeout = sweepConnectTimeout
	}
	if flags.Changed("prober") {
		cfg.Sweep.Prober = sweepProber
	}
	if flags.Changed("resolve") {
		cfg.Sweep.Resolve = sweepResolve
	}
	if flags.Changed("output") {
		cfg.Sweep.OutputFile = sweepOutput
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = sweepMetricsAddr
	}
	if sweepYes {
		cfg.Sweep.ConfirmLargeBatch = true
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// confirmLargeBatch prompts on stdin before running a scan whose check count
// exceeds the configured threshold.
func confirmLargeBatch(cmd *cobra.Command) sweep.ConfirmFunc {
	return func(hosts, portCount, totalChecks int) bool {
		fmt.Fprintf(cmd.OutOrStdout(),
			"About to run %d checks (%d hosts x %d ports). Continue? [y/N]: ",
			totalChecks, hosts, portCount)

		var answer string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil {
			return false
		}
		return answer == "y" || answer == "Y" || answer == "yes"
	}
}

// reachabilityProber selects the configured reachability implementation.
func reachabilityProber(cfg config.SweepConfig) probe.ReachabilityProber {
	if cfg.Prober == "nmap" {
		return probe.NmapProber{Timeout: cfg.PingTimeout}
	}
	return probe.PingProber{Timeout: cfg.PingTimeout}
}

// displayReportTable renders the final per-host summary as a table.
func displayReportTable(cmd *cobra.Command, report *sweep.Report) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())

	headers := []string{"Host"}
	if report.PingRan {
		headers = append(headers, "Status")
	}
	if report.ScanRan {
		headers = append(headers, "Open Ports")
	}
	withHostnames := false
	for _, h := range report.Hosts {
		if h.Hostname != "" {
			withHostnames = true
			break
		}
	}
	if withHostnames {
		headers = append(headers, "Hostname")
	}
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	table.Header(cells...)

	for _, h := range report.Hosts {
		row := []string{h.Target.Host}
		if report.PingRan {
			row = append(row, string(h.Status))
		}
		if report.ScanRan {
			open := "none"
			if len(h.OpenPorts) > 0 {
				open = ""
				for i, p := range h.OpenPorts {
					if i > 0 {
						open += ", "
					}
					open += strconv.Itoa(p)
				}
			}
			row = append(row, open)
		}
		if withHostnames {
			row = append(row, h.Hostname)
		}
		_ = table.Append(row)
	}

	_ = table.Render()
}
