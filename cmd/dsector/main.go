// Package main provides the dsector CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/dynamicsector/dynamicsector/internal/config"
	"github.com/dynamicsector/dynamicsector/internal/starmap"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	config.LoadEnv()
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors (like bad flags) are printed here.
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dsector",
	Short: "Interactive star maps from system and sector tables",
	Long: `dsector turns two tables into an interactive star map.

The system data table lists star systems (label, value, type, description
and optional x, y, z coordinates). The sector map table lists weighted
routes between them (source, target, weight, type). Tables may be CSV,
Excel (.xlsx) or JSON.

Maps are drawn as a 3D Plotly scene or a 2D vis-network graph, either
written to a file with 'render' or served as an upload dashboard with 'serve'.
Commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// exitCodeFor maps a pipeline error to an exit code.
func exitCodeFor(err error) int {
	if starmap.IsDataError(err) {
		return ExitDataError
	}
	return ExitError
}
