package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmartell/netsweep/internal/config"
	"github.com/kmartell/netsweep/internal/probe"
)

func TestCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"sweep", "targets", "ports"} {
		assert.True(t, names[want], "command %q should be registered", want)
	}
}

func TestSweepFlagDefaults(t *testing.T) {
	flags := sweepCmd.Flags()

	phase, err := flags.GetString("phase")
	require.NoError(t, err)
	assert.Equal(t, "both", phase)

	concurrency, err := flags.GetInt("concurrency")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConcurrency, concurrency)

	maxHosts, err := flags.GetInt("max-hosts")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxHosts, maxHosts)

	yes, err := flags.GetBool("yes")
	require.NoError(t, err)
	assert.False(t, yes)
}

func TestBuildSweepConfigFlagOverrides(t *testing.T) {
	flags := sweepCmd.Flags()
	require.NoError(t, flags.Set("target", "10.0.0.0/30"))
	require.NoError(t, flags.Set("ports", "22,80"))
	require.NoError(t, flags.Set("phase", "scan"))
	require.NoError(t, flags.Set("concurrency", "500"))
	require.NoError(t, flags.Set("ping-timeout", "250ms"))
	sweepYes = true
	t.Cleanup(func() {
		sweepYes = false
		resetSweepFlags(t)
	})

	cfg, err := buildSweepConfig(sweepCmd)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.0/30", cfg.Sweep.Target)
	assert.Equal(t, "22,80", cfg.Sweep.Ports)
	assert.Equal(t, config.PhaseScan, cfg.Sweep.Phase)
	assert.Equal(t, config.MaxConcurrency, cfg.Sweep.Concurrency, "concurrency should be clamped")
	assert.Equal(t, 250*time.Millisecond, cfg.Sweep.PingTimeout)
	assert.True(t, cfg.Sweep.ConfirmLargeBatch)
}

func TestBuildSweepConfigRejectsBadPhase(t *testing.T) {
	flags := sweepCmd.Flags()
	require.NoError(t, flags.Set("target", "10.0.0.1"))
	require.NoError(t, flags.Set("phase", "everything"))
	t.Cleanup(func() { resetSweepFlags(t) })

	_, err := buildSweepConfig(sweepCmd)
	assert.Error(t, err)
}

func TestReachabilityProberSelection(t *testing.T) {
	pingCfg := config.SweepConfig{Prober: "ping", PingTimeout: time.Second}
	_, ok := reachabilityProber(pingCfg).(probe.PingProber)
	assert.True(t, ok, "ping prober expected")

	nmapCfg := config.SweepConfig{Prober: "nmap", PingTimeout: time.Second}
	_, ok = reachabilityProber(nmapCfg).(probe.NmapProber)
	assert.True(t, ok, "nmap prober expected")

	defaultCfg := config.SweepConfig{PingTimeout: time.Second}
	_, ok = reachabilityProber(defaultCfg).(probe.PingProber)
	assert.True(t, ok, "ping prober should be the default")
}

// resetSweepFlags restores flag state so tests don't leak into each other.
func resetSweepFlags(t *testing.T) {
	t.Helper()
	defaults := map[string]string{
		"target":       "",
		"ports":        "",
		"phase":        string(config.PhaseBoth),
		"concurrency":  "50",
		"ping-timeout": config.DefaultProbeTimeout.String(),
	}
	flags := sweepCmd.Flags()
	for name, value := range defaults {
		if err := flags.Set(name, value); err != nil {
			t.Fatalf("reset flag %s: %v", name, err)
		}
	}
	flags.VisitAll(func(f *pflag.Flag) { f.Changed = false })
}
