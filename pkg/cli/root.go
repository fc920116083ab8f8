package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build.
	Version = "dev"

	verbose bool
)

// rootCmd is the wamprouterd base command.
var rootCmd = &cobra.Command{
	Use:   "wamprouterd",
	Short: "wamprouterd is a WAMP v2 router",
	Long: `wamprouterd runs a WAMP v2 router over WebSocket, speaking both the
wamp.2.json and wamp.2.msgpack sub-protocols, with a Prometheus /metrics
and a /healthz endpoint on a separate admin port.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, printing errors and setting the process
// exit code on failure. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
}
