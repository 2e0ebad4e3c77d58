package ports

import (
	"context"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

// SnapshotStore persists merged catalogs so they can be reloaded without the source file.
type SnapshotStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveSnapshot stores a snapshot and its monsters in one transaction.
	SaveSnapshot(ctx context.Context, snapshot *entities.Snapshot, monsters []entities.Monster) error

	// FindSnapshot finds a snapshot by ID. Returns nil if it doesn't exist.
	FindSnapshot(ctx context.Context, id string) (*entities.Snapshot, error)

	// LatestSnapshot returns the most recently saved snapshot, or nil if there are none.
	LatestSnapshot(ctx context.Context) (*entities.Snapshot, error)

	// ListSnapshots lists snapshots, newest first.
	ListSnapshots(ctx context.Context, limit int) ([]entities.Snapshot, error)

	// LoadMonsters returns a snapshot's monsters in their original order.
	LoadMonsters(ctx context.Context, snapshotID string) ([]entities.Monster, error)

	// DeleteSnapshot deletes a snapshot and its monsters.
	DeleteSnapshot(ctx context.Context, id string) error

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action string, snapshotID string, details map[string]any) error

	// FindAuditLog finds audit log entries for a snapshot.
	FindAuditLog(ctx context.Context, snapshotID string) ([]entities.AuditEntry, error)
}
