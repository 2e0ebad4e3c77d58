package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/ports"
	"github.com/ersonp/dropdex/internal/domain/services"
	"github.com/ersonp/dropdex/internal/infrastructure/config"
	"github.com/ersonp/dropdex/internal/infrastructure/parsers"
	"github.com/ersonp/dropdex/internal/infrastructure/sources"
)

// SnapshotScheme prefixes locations that load a saved snapshot instead of a file.
const SnapshotScheme = config.SnapshotScheme

// LatestSnapshot names the newest snapshot in a snapshot location.
const LatestSnapshot = "latest"

// SourceFactory builds the source for a location.
type SourceFactory func(location string) ports.Source

// LoadHandler fetches a drop table once and normalizes it into monsters.
type LoadHandler struct {
	ingest    *services.IngestService
	store     ports.SnapshotStore
	sourceFor SourceFactory
	format    string
	logger    *zap.Logger
}

// NewLoadHandler creates a new load handler. store may be nil when snapshots are unavailable.
func NewLoadHandler(ingest *services.IngestService, store ports.SnapshotStore, timeout time.Duration, logger *zap.Logger) *LoadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadHandler{
		ingest: ingest,
		store:  store,
		sourceFor: func(location string) ports.Source {
			return sources.ForLocation(location, timeout)
		},
		logger: logger,
	}
}

// WithSourceFactory replaces how locations are turned into sources.
func (h *LoadHandler) WithSourceFactory(f SourceFactory) *LoadHandler {
	h.sourceFor = f
	return h
}

// WithFormat forces the drop table format ("csv" or "tsv") instead of
// picking it from the location's extension.
func (h *LoadHandler) WithFormat(format string) *LoadHandler {
	h.format = format
	return h
}

// LoadResult contains the outcome of a load.
type LoadResult struct {
	Location string
	Monsters []entities.Monster
	// Ingest is nil when the monsters came from a snapshot.
	Ingest   *services.IngestResult
	Snapshot *entities.Snapshot
	Status   services.Status
}

// SkippedRows returns the number of malformed rows dropped during the load.
func (r *LoadResult) SkippedRows() int {
	if r.Ingest != nil {
		return r.Ingest.SkippedRows
	}
	if r.Snapshot != nil {
		return r.Snapshot.SkippedRows
	}
	return 0
}

// Handle loads the drop table at location. The result is never nil, so callers can
// show its Status even when err is set.
func (h *LoadHandler) Handle(ctx context.Context, location string) (*LoadResult, error) {
	if id, ok := strings.CutPrefix(location, SnapshotScheme); ok {
		return h.loadSnapshot(ctx, location, id)
	}

	parser, err := parsers.ForSource(location, h.format)
	if err != nil {
		return h.failed(location, fmt.Errorf("loading %s: %w", location, err))
	}

	src := h.sourceFor(location)
	h.logger.Debug("fetching drop table", zap.String("source", src.Describe()))

	data, err := src.Fetch(ctx)
	if err != nil {
		return h.failed(location, fmt.Errorf("fetching drop table: %w", err))
	}

	parsed, err := h.ingest.Ingest(parser, bytes.NewReader(data))
	if err != nil {
		return h.failed(location, fmt.Errorf("normalizing %s: %w", src.Describe(), err))
	}

	if parsed.SkippedRows > 0 {
		h.logger.Info("skipped malformed rows",
			zap.String("source", src.Describe()),
			zap.Int("skipped", parsed.SkippedRows))
	}
	h.logger.Debug("drop table loaded",
		zap.String("source", src.Describe()),
		zap.Int("rows", parsed.Rows),
		zap.Int("monsters", len(parsed.Monsters)))

	return &LoadResult{
		Location: location,
		Monsters: parsed.Monsters,
		Ingest:   parsed,
		Status:   services.LoadStatus(parsed, nil),
	}, nil
}

func (h *LoadHandler) loadSnapshot(ctx context.Context, location, id string) (*LoadResult, error) {
	if h.store == nil {
		return h.failed(location, fmt.Errorf("loading %s: snapshot store not configured", location))
	}

	var (
		snap *entities.Snapshot
		err  error
	)
	if id == "" || id == LatestSnapshot {
		snap, err = h.store.LatestSnapshot(ctx)
	} else {
		snap, err = h.store.FindSnapshot(ctx, id)
	}
	if err != nil {
		return h.failed(location, fmt.Errorf("finding snapshot: %w", err))
	}
	if snap == nil {
		return h.failed(location, &services.RetrievalError{Location: location, Err: services.ErrSnapshotNotFound})
	}

	monsters, err := h.store.LoadMonsters(ctx, snap.ID)
	if err != nil {
		return h.failed(location, &services.RetrievalError{Location: location, Err: err})
	}

	h.logger.Debug("snapshot loaded",
		zap.String("snapshot", snap.ID),
		zap.Int("monsters", len(monsters)))

	result := &services.IngestResult{Monsters: monsters, Empty: len(monsters) == 0}
	return &LoadResult{
		Location: location,
		Monsters: monsters,
		Snapshot: snap,
		Status:   services.LoadStatus(result, nil),
	}, nil
}

func (h *LoadHandler) failed(location string, err error) (*LoadResult, error) {
	status := services.LoadStatus(nil, err)
	h.logger.Error("load failed",
		zap.String("location", location),
		zap.String("status", string(status.Kind)),
		zap.Error(err))
	return &LoadResult{
		Location: location,
		Monsters: []entities.Monster{},
		Status:   status,
	}, err
}
