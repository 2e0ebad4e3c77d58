// Package main provides the entry point for the dropdex CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalDataset string
	globalSource  string
	globalVerbose bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "dropdex",
		Short:         "Look up monsters and the items they drop",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalDataset, "dataset", "d", "", "Named dataset from datasets.yaml")
	rootCmd.PersistentFlags().StringVarP(&globalSource, "source", "s", "", "Drop table location (file, http(s) URL, or snapshot:<id|latest>)")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(),
		newSearchCmd(),
		newExportCmd(),
		newBrowseCmd(),
		newShowCmd(),
		newRangesCmd(),
		newSnapshotCmd(),
		newDatasetsCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
