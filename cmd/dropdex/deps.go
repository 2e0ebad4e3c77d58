package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ersonp/dropdex/internal/application/handlers"
	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/ports"
	"github.com/ersonp/dropdex/internal/domain/services"
	"github.com/ersonp/dropdex/internal/infrastructure/config"
	"github.com/ersonp/dropdex/internal/infrastructure/logging"
	"github.com/ersonp/dropdex/internal/infrastructure/relationaldb/sqlite"
)

// errNotInitialized is returned by commands that need the snapshot store.
var errNotInitialized = errors.New("snapshot store unavailable (run 'dropdex init' first)")

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Location string
	Mode     services.FilterMode
	Ranges   []entities.LevelRange

	LoadHandler   *handlers.LoadHandler
	SearchHandler *handlers.SearchHandler
	// SnapshotHandler is nil until the workspace is initialized.
	SnapshotHandler *handlers.SnapshotHandler
}

// depsOptions tweaks how dependencies are built for a command.
type depsOptions struct {
	// fullScreen keeps logs off the terminal while a TUI owns it.
	fullScreen bool
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withDepsOptions(ctx, depsOptions{}, fn)
}

func withDepsOptions(ctx context.Context, opts depsOptions, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cwd, cfg, opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	headers, err := cfg.HeaderSet()
	if err != nil {
		return fmt.Errorf("reading dataset headers: %w", err)
	}

	mode, err := services.ParseFilterMode(cfg.Filter.Mode)
	if err != nil {
		return err
	}

	location, format, err := resolveLocation(cwd, cfg)
	if err != nil {
		return err
	}

	var store ports.SnapshotStore
	if config.Exists(cwd) {
		repo, err := sqlite.NewRepository(config.SnapshotConfig{Path: cfg.SnapshotPath(cwd)})
		if err != nil {
			return fmt.Errorf("creating sqlite repository: %w", err)
		}
		defer repo.Close()

		// Ensure schema exists
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensuring sqlite schema: %w", err)
		}
		store = repo
	}

	ingest := services.NewIngestService(headers, logger)
	loader := handlers.NewLoadHandler(ingest, store, cfg.Source.Timeout, logger).WithFormat(format)

	deps := &Deps{
		Config:        cfg,
		Logger:        logger,
		Location:      location,
		Mode:          mode,
		Ranges:        cfg.Filter.Ranges,
		LoadHandler:   loader,
		SearchHandler: handlers.NewSearchHandler(loader),
	}
	if store != nil {
		deps.SnapshotHandler = handlers.NewSnapshotHandler(loader, store, logger)
	}

	return fn(deps)
}

// newLogger builds the command logger. Full-screen commands log to a file in the
// workspace, or nowhere when there is no workspace.
func newLogger(cwd string, cfg *config.Config, opts depsOptions) (*zap.Logger, error) {
	logCfg := cfg.Log
	if opts.fullScreen && logCfg.File == "" {
		if !config.Exists(cwd) {
			return zap.NewNop(), nil
		}
		logCfg.File = filepath.Join(config.ConfigDir(cwd), "browse.log")
	}

	logger, err := logging.New(logCfg, globalVerbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// resolveLocation picks the drop table and its format: --source, then --dataset,
// then config. A dataset's own format wins over source.format.
func resolveLocation(cwd string, cfg *config.Config) (location, format string, err error) {
	if globalSource != "" {
		return globalSource, cfg.Source.Format, nil
	}

	if globalDataset != "" {
		datasets, err := config.LoadDatasets(cwd)
		if err != nil {
			return "", "", fmt.Errorf("loading datasets: %w", err)
		}
		entry, err := datasets.Get(globalDataset)
		if err != nil {
			return "", "", err
		}
		if entry.Format != "" || entry.IsSnapshot() {
			return entry.Location, entry.Format, nil
		}
		return entry.Location, cfg.Source.Format, nil
	}

	if cfg.Source.Location == "" {
		return config.DefaultSourceLocation, cfg.Source.Format, nil
	}
	return cfg.Source.Location, cfg.Source.Format, nil
}

// statusError shows the user a load failure by its status line rather than the raw error.
type statusError struct {
	status services.Status
	err    error
}

func (e *statusError) Error() string {
	return strings.TrimPrefix(e.status.Message, "Error: ")
}

func (e *statusError) Unwrap() error {
	return e.err
}

func loadFailure(status services.Status, err error) error {
	return &statusError{status: status, err: err}
}
