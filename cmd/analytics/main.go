// Package main is the entry point for the repo-analytics CLI.
//
//	@title			Repository Analytics API
//	@version		1.0
//	@description	Stores repository activity and serves contributor rollups and snapshots
//	@host			localhost:8080
//	@BasePath		/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "repo-analytics",
		Short:         "Repository activity store and contributor analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	cmd.AddCommand(serveCmd(&envFile))
	cmd.AddCommand(migrateCmd(&envFile))
	cmd.AddCommand(syncCmd(&envFile))
	cmd.AddCommand(aggregateCmd(&envFile))
	cmd.AddCommand(snapshotCmd(&envFile))
	cmd.AddCommand(versionCmd())

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "repo-analytics version %s\n  commit: %s\n", version, commit)
		},
	}
}
