package mocks

import (
	"context"
	"sort"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

// SnapshotStore is a mock implementation of ports.SnapshotStore.
type SnapshotStore struct {
	Snapshots map[string]*entities.Snapshot
	Monsters  map[string][]entities.Monster
	Audit     []entities.AuditEntry
	Err       error

	SaveCallCount int
}

// NewSnapshotStore creates a new mock SnapshotStore.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		Snapshots: make(map[string]*entities.Snapshot),
		Monsters:  make(map[string][]entities.Monster),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *SnapshotStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *SnapshotStore) Close() error {
	return nil
}

// SaveSnapshot stores a snapshot and its monsters.
func (m *SnapshotStore) SaveSnapshot(_ context.Context, snapshot *entities.Snapshot, monsters []entities.Monster) error {
	m.SaveCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Snapshots[snapshot.ID] = snapshot
	m.Monsters[snapshot.ID] = monsters
	return nil
}

// FindSnapshot finds a snapshot by ID.
func (m *SnapshotStore) FindSnapshot(_ context.Context, id string) (*entities.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snapshots[id], nil
}

// LatestSnapshot returns the newest snapshot.
func (m *SnapshotStore) LatestSnapshot(ctx context.Context) (*entities.Snapshot, error) {
	list, err := m.ListSnapshots(ctx, 1)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return m.Snapshots[list[0].ID], nil
}

// ListSnapshots lists snapshots, newest first.
func (m *SnapshotStore) ListSnapshots(_ context.Context, limit int) ([]entities.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.Snapshot, 0, len(m.Snapshots))
	for _, s := range m.Snapshots {
		result = append(result, *s)
	}
	// Sort newest first for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// LoadMonsters returns a snapshot's monsters.
func (m *SnapshotStore) LoadMonsters(_ context.Context, snapshotID string) ([]entities.Monster, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Monsters[snapshotID], nil
}

// DeleteSnapshot deletes a snapshot.
func (m *SnapshotStore) DeleteSnapshot(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Snapshots, id)
	delete(m.Monsters, id)
	return nil
}

// LogAction records an audit entry.
func (m *SnapshotStore) LogAction(_ context.Context, action string, snapshotID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:         int64(len(m.Audit) + 1),
		Action:     action,
		SnapshotID: snapshotID,
		Details:    details,
	})
	return nil
}

// FindAuditLog finds audit entries for a snapshot.
func (m *SnapshotStore) FindAuditLog(_ context.Context, snapshotID string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for _, e := range m.Audit {
		if e.SnapshotID == snapshotID {
			result = append(result, e)
		}
	}
	return result, nil
}
