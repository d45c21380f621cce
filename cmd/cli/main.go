package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jsonprof",
		Short: "Statistical profiler for JSON documents",
		Long: `jsonprof walks a JSON document and reports per-node statistics,
numeric boundaries of every sampled array and z-score anomalies.

Configuration is read from .env, JSONPROF_* environment variables and the
file named by JSONPROF_CONFIG. Flags override configuration.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newBatchCmd(),
		newSampleCmd(),
		newServeCmd(),
		newMCPCmd(),
	)

	return rootCmd
}
