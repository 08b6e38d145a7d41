// Package cli implements the CLI adapter for stevedore.
// The Cobra commands delegate to the app layer.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "stevedore",
		Short: "stevedore - compose project orchestration backend",
		Long: `stevedore serves the REST API behind the container console.

It edits docker-compose projects on disk, reports and controls their
containers through the Docker Engine, and browses a private image registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newHashPasswordCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(version, commit, date string) {
	if version != "" {
		Version = version
	}
	if commit != "" {
		Commit = commit
	}
	if date != "" {
		BuildDate = date
	}
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version, commit, date string) {
	SetVersionInfo(version, commit, date)
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("Error: ")+err.Error())
		os.Exit(1)
	}
}
