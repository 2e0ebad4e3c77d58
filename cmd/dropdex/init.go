package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/dropdex/internal/application/handlers"
	"github.com/ersonp/dropdex/internal/domain/ports"
	"github.com/ersonp/dropdex/internal/infrastructure/config"
	"github.com/ersonp/dropdex/internal/infrastructure/relationaldb/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a dropdex workspace",
		Long:  "Creates a .dropdex directory with default configuration and the snapshot database.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	handler := handlers.NewInitHandler(func(path string) (ports.SnapshotStore, error) {
		repo, err := sqlite.NewRepository(config.SnapshotConfig{Path: path})
		if err != nil {
			return nil, err
		}
		return repo, nil
	})

	result, err := handler.Handle(cmd.Context(), cwd)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Created %s\n", result.SnapshotPath)
	fmt.Printf("Drop table: %s\n", result.Source)
	fmt.Println("dropdex initialized successfully!")

	return nil
}
