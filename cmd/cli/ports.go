package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmartell/netsweep/internal/ports"
)

// portsCmd previews port-specification parsing.
var portsCmd = &cobra.Command{
	Use:   "ports <spec>",
	Short: "Show the ports a port specification parses to",
	Long: `Ports parses a port specification the same way the sweep command does
and prints the resulting port list. Invalid tokens are skipped and
out-of-range bounds are clamped to 1-65535.`,
	Example: `  netsweep ports 22,80,443
  netsweep ports 1-1024
  netsweep ports "80, 8000-8010, bogus, 443"`,
	Args: cobra.ExactArgs(1),
	Run:  runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) {
	parsed := ports.Parse(args[0])
	if len(parsed) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %q did not parse to any ports\n", args[0])
		os.Exit(1)
	}

	fmt.Fprintln(cmd.OutOrStdout(), ports.Render(parsed))
	fmt.Fprintf(cmd.OutOrStdout(), "%d port(s)\n", len(parsed))
}
