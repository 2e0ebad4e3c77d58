package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/ports"
	"github.com/ersonp/dropdex/internal/domain/services"
)

// SnapshotHandler saves loaded catalogs and reads them back.
type SnapshotHandler struct {
	loader *LoadHandler
	store  ports.SnapshotStore
	logger *zap.Logger
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(loader *LoadHandler, store ports.SnapshotStore, logger *zap.Logger) *SnapshotHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotHandler{
		loader: loader,
		store:  store,
		logger: logger,
	}
}

// SnapshotDetail is a snapshot together with its monsters and history.
type SnapshotDetail struct {
	Snapshot *entities.Snapshot
	Monsters []entities.Monster
	Audit    []entities.AuditEntry
}

// Save loads location and stores the merged catalog as a new snapshot.
func (h *SnapshotHandler) Save(ctx context.Context, location string) (*entities.Snapshot, error) {
	loaded, err := h.loader.Handle(ctx, location)
	if err != nil {
		return nil, err
	}

	snap := &entities.Snapshot{
		ID:           uuid.NewString(),
		Source:       location,
		MonsterCount: len(loaded.Monsters),
		SkippedRows:  loaded.SkippedRows(),
	}
	if err := h.store.SaveSnapshot(ctx, snap, loaded.Monsters); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	details := map[string]any{
		"source":       location,
		"monsters":     snap.MonsterCount,
		"skipped_rows": snap.SkippedRows,
	}
	if err := h.store.LogAction(ctx, entities.AuditActionSnapshotSaved, snap.ID, details); err != nil {
		h.logger.Warn("failed to record snapshot in audit log", zap.String("snapshot", snap.ID), zap.Error(err))
	}

	h.logger.Info("snapshot saved",
		zap.String("snapshot", snap.ID),
		zap.String("source", location),
		zap.Int("monsters", snap.MonsterCount))
	return snap, nil
}

// List lists saved snapshots, newest first. limit <= 0 lists all.
func (h *SnapshotHandler) List(ctx context.Context, limit int) ([]entities.Snapshot, error) {
	list, err := h.store.ListSnapshots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return list, nil
}

// Show returns a snapshot by ID, or the newest one for "latest".
func (h *SnapshotHandler) Show(ctx context.Context, id string) (*SnapshotDetail, error) {
	snap, err := h.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	monsters, err := h.store.LoadMonsters(ctx, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("loading monsters: %w", err)
	}

	audit, err := h.store.FindAuditLog(ctx, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("loading audit log: %w", err)
	}

	return &SnapshotDetail{
		Snapshot: snap,
		Monsters: monsters,
		Audit:    audit,
	}, nil
}

// Delete removes a snapshot and records the deletion.
func (h *SnapshotHandler) Delete(ctx context.Context, id string) error {
	snap, err := h.resolve(ctx, id)
	if err != nil {
		return err
	}

	if err := h.store.DeleteSnapshot(ctx, snap.ID); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}

	details := map[string]any{"source": snap.Source}
	if err := h.store.LogAction(ctx, entities.AuditActionSnapshotDeleted, snap.ID, details); err != nil {
		h.logger.Warn("failed to record deletion in audit log", zap.String("snapshot", snap.ID), zap.Error(err))
	}
	return nil
}

func (h *SnapshotHandler) resolve(ctx context.Context, id string) (*entities.Snapshot, error) {
	id = strings.TrimPrefix(strings.TrimSpace(id), SnapshotScheme)

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
		return nil, fmt.Errorf("finding snapshot: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", services.ErrSnapshotNotFound, orLatest(id))
	}
	return snap, nil
}

func orLatest(id string) string {
	if id == "" {
		return LatestSnapshot
	}
	return id
}

// IsNotFound reports whether err means the requested snapshot does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, services.ErrSnapshotNotFound)
}
