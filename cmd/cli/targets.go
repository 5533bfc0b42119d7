package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kmartell/netsweep/internal/targets"
)

var targetsMaxHosts int

// targetsCmd previews target expansion without probing anything.
var targetsCmd = &cobra.Command{
	Use:   "targets <spec>",
	Short: "Show the hosts a target specification expands to",
	Long: `Targets expands a host, IP, or CIDR specification the same way the
sweep command does and prints the resulting host list in sweep order,
without sending any probes.`,
	Example: `  netsweep targets 192.168.1.0/28
  netsweep targets gateway.local
  netsweep targets 10.0.0.0/16 --max-hosts 20`,
	Args: cobra.ExactArgs(1),
	Run:  runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)

	targetsCmd.Flags().IntVar(&targetsMaxHosts, "max-hosts", targets.DefaultMaxHosts, "Cap on the expanded host count")
}

func runTargets(cmd *cobra.Command, args []string) {
	hosts, truncated := targets.Expand(args[0], targetsMaxHosts)
	if len(hosts) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %q did not expand to any hosts\n", args[0])
		os.Exit(1)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("#", "Host")
	for i, h := range hosts {
		_ = table.Append([]string{fmt.Sprintf("%d", i+1), h.Host})
	}
	_ = table.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d host(s)\n", len(hosts))
	if truncated {
		fmt.Fprintf(cmd.OutOrStdout(), "Host list truncated at %d; raise --max-hosts to expand further.\n", targetsMaxHosts)
	}
}
