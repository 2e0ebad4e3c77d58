// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/dropdex/internal/domain/ports"
	"github.com/ersonp/dropdex/internal/infrastructure/config"
)

// StoreOpener opens the snapshot store at path.
type StoreOpener func(path string) (ports.SnapshotStore, error)

// InitHandler handles workspace initialization.
type InitHandler struct {
	openStore StoreOpener
}

// NewInitHandler creates a new init handler. A nil opener skips creating the snapshot database.
func NewInitHandler(openStore StoreOpener) *InitHandler {
	return &InitHandler{
		openStore: openStore,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	SnapshotPath string
	Source       string
}

// Handle writes the default config and creates the snapshot database.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("dropdex already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	snapshotPath := cfg.SnapshotPath(basePath)
	if h.openStore != nil {
		store, err := h.openStore(snapshotPath)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot store: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating snapshot schema: %w", err)
		}
	}

	return &InitResult{
		ConfigPath:   config.ConfigFilePath(basePath),
		SnapshotPath: snapshotPath,
		Source:       cfg.Source.Location,
	}, nil
}
