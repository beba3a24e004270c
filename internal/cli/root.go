// Package cli implements the at2d command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "at2d",
	Short: "goAT2 - AT2 transfer actor in Go",
	Long: `goAT2 implements the client-side Actor of an AT2 (Asynchronous
Trustworthy Transfers) protocol: it initiates debits, collects a quorum of
Replica signature shares into a debit agreement proof, registers certified
debits and synchronises credits propagated from remote Replica groups.

The core performs no network I/O; transports plug in above it.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./at2d.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
