package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/dropdex/internal/infrastructure/config"
	"github.com/ersonp/dropdex/internal/infrastructure/sources"
)

func newDatasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Manage named drop table locations",
		Long:  "Named datasets let --dataset NAME stand in for a file path or URL.",
		RunE:  runDatasetsList,
	}

	cmd.AddCommand(
		newDatasetsListCmd(),
		newDatasetsAddCmd(),
		newDatasetsRemoveCmd(),
	)

	return cmd
}

func newDatasetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all datasets",
		RunE:  runDatasetsList,
	}
}

func runDatasetsList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	datasets, err := config.LoadDatasets(cwd)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}

	return printDatasets(os.Stdout, datasets)
}

func printDatasets(w io.Writer, datasets *config.DatasetsConfig) error {
	if len(datasets.Datasets) == 0 {
		fmt.Fprintln(w, "No datasets configured.")
		fmt.Fprintln(w, "Use 'dropdex datasets add NAME LOCATION' to add one.")
		return nil
	}

	fmt.Fprintf(w, "%-20s %-40s %-6s %s\n", "NAME", "LOCATION", "FORMAT", "DESCRIPTION")
	fmt.Fprintf(w, "%-20s %-40s %-6s %s\n", "----", "--------", "------", "-----------")

	for _, name := range datasets.Names() {
		entry := datasets.Datasets[name]
		format := entry.Format
		switch {
		case entry.IsSnapshot():
			format = "-"
		case format == "":
			format = "auto"
		}
		fmt.Fprintf(w, "%-20s %-40s %-6s %s\n", name, entry.Location, format, entry.Description)
	}

	return nil
}

func newDatasetsAddCmd() *cobra.Command {
	var description string
	var format string
	var force bool

	cmd := &cobra.Command{
		Use:   "add NAME LOCATION",
		Short: "Add a named dataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			key, err := addDataset(cwd, args[0], args[1], format, description, force)
			if err != nil {
				return err
			}

			fmt.Printf("Added dataset %q -> %s\n", key, args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Dataset description")
	cmd.Flags().StringVar(&format, "format", "", "Force csv or tsv parsing (default: by extension)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing dataset with the same name")

	return cmd
}

// addDataset records a dataset and returns the name it was stored under.
func addDataset(basePath, name, location, format, description string, force bool) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("location is required")
	}

	// Local files are checked up front; URLs and snapshots are checked on load
	if !sources.IsRemote(location) && !strings.HasPrefix(location, config.SnapshotScheme) {
		if _, err := os.Stat(location); err != nil {
			return "", fmt.Errorf("dataset file: %w", err)
		}
	}

	datasets, err := config.LoadDatasets(basePath)
	if err != nil {
		return "", fmt.Errorf("loading datasets: %w", err)
	}

	if datasets.Exists(name) && !force {
		return "", fmt.Errorf("dataset %q already exists, use --force to replace it", config.SanitizeDatasetName(name))
	}

	key, err := datasets.Add(name, config.DatasetEntry{
		Location:    location,
		Format:      format,
		Description: description,
	})
	if err != nil {
		return "", err
	}

	if err := datasets.Save(basePath); err != nil {
		return "", fmt.Errorf("saving datasets: %w", err)
	}

	return key, nil
}

func newDatasetsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"delete"},
		Short:   "Remove a named dataset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if err := removeDataset(cwd, args[0]); err != nil {
				return err
			}

			fmt.Printf("Removed dataset %q\n", args[0])
			return nil
		},
	}
}

func removeDataset(basePath, name string) error {
	datasets, err := config.LoadDatasets(basePath)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}

	if !datasets.Exists(name) {
		return fmt.Errorf("dataset %q not found", name)
	}

	datasets.Remove(name)

	if err := datasets.Save(basePath); err != nil {
		return fmt.Errorf("saving datasets: %w", err)
	}

	return nil
}
