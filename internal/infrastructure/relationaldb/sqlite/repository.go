// Package sqlite provides a SQLite implementation of the SnapshotStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.SnapshotStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SnapshotConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Snapshots (one merged catalog per save)
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		monster_count INTEGER NOT NULL,
		skipped_rows INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);

	-- Monsters in catalog order
	CREATE TABLE IF NOT EXISTS monsters (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		level TEXT NOT NULL,
		hp TEXT NOT NULL,
		base_exp TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, position)
	);

	-- Drops in first-seen order per monster
	CREATE TABLE IF NOT EXISTS drops (
		snapshot_id TEXT NOT NULL,
		monster_position INTEGER NOT NULL,
		position INTEGER NOT NULL,
		item TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, monster_position, position),
		FOREIGN KEY (snapshot_id, monster_position)
			REFERENCES monsters(snapshot_id, position) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_drops_item ON drops(item);

	-- Audit log (tracks all actions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		snapshot_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_snapshot ON audit_log(snapshot_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveSnapshot stores a snapshot and its monsters in one transaction.
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *entities.Snapshot, monsters []entities.Monster) (err error) {
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = timeNow()
	}
	snapshot.MonsterCount = len(monsters)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, source, monster_count, skipped_rows, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.Source, snapshot.MonsterCount, snapshot.SkippedRows, snapshot.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	monsterStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO monsters (snapshot_id, position, name, level, hp, base_exp)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing monster insert: %w", err)
	}
	defer monsterStmt.Close()

	dropStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO drops (snapshot_id, monster_position, position, item)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing drop insert: %w", err)
	}
	defer dropStmt.Close()

	for i := range monsters {
		m := &monsters[i]
		if _, err = monsterStmt.ExecContext(ctx, snapshot.ID, i, m.Name, m.Level, m.HP, m.BaseExp); err != nil {
			return fmt.Errorf("saving monster %q: %w", m.Name, err)
		}
		for j, item := range m.Drops {
			if _, err = dropStmt.ExecContext(ctx, snapshot.ID, i, j, item); err != nil {
				return fmt.Errorf("saving drop %q of %q: %w", item, m.Name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// FindSnapshot finds a snapshot by ID.
func (r *Repository) FindSnapshot(ctx context.Context, id string) (*entities.Snapshot, error) {
	query := `
		SELECT id, source, monster_count, skipped_rows, created_at
		FROM snapshots
		WHERE id = ?
	`
	return r.scanSnapshot(r.db.QueryRowContext(ctx, query, id))
}

// LatestSnapshot returns the most recently saved snapshot.
func (r *Repository) LatestSnapshot(ctx context.Context) (*entities.Snapshot, error) {
	query := `
		SELECT id, source, monster_count, skipped_rows, created_at
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`
	return r.scanSnapshot(r.db.QueryRowContext(ctx, query))
}

func (r *Repository) scanSnapshot(row *sql.Row) (*entities.Snapshot, error) {
	var s entities.Snapshot
	err := row.Scan(&s.ID, &s.Source, &s.MonsterCount, &s.SkippedRows, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	return &s, nil
}

// ListSnapshots lists snapshots, newest first.
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]entities.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, source, monster_count, skipped_rows, created_at
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	result := make([]entities.Snapshot, 0)
	for rows.Next() {
		var s entities.Snapshot
		if err := rows.Scan(&s.ID, &s.Source, &s.MonsterCount, &s.SkippedRows, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// LoadMonsters returns a snapshot's monsters in their original order.
func (r *Repository) LoadMonsters(ctx context.Context, snapshotID string) ([]entities.Monster, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, level, hp, base_exp
		FROM monsters
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("querying monsters: %w", err)
	}

	monsters := make([]entities.Monster, 0)
	for rows.Next() {
		m := entities.Monster{Drops: []string{}}
		if err := rows.Scan(&m.Name, &m.Level, &m.HP, &m.BaseExp); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning monster: %w", err)
		}
		monsters = append(monsters, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating monsters: %w", err)
	}
	rows.Close()

	if err := r.loadDrops(ctx, snapshotID, monsters); err != nil {
		return nil, err
	}
	return monsters, nil
}

// loadDrops fills in drops with one query per snapshot rather than one per monster.
func (r *Repository) loadDrops(ctx context.Context, snapshotID string, monsters []entities.Monster) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT monster_position, item
		FROM drops
		WHERE snapshot_id = ?
		ORDER BY monster_position ASC, position ASC
	`, snapshotID)
	if err != nil {
		return fmt.Errorf("querying drops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos int
		var item string
		if err := rows.Scan(&pos, &item); err != nil {
			return fmt.Errorf("scanning drop: %w", err)
		}
		if pos < 0 || pos >= len(monsters) {
			return fmt.Errorf("drop references missing monster position %d", pos)
		}
		monsters[pos].Drops = append(monsters[pos].Drops, item)
	}
	return rows.Err()
}

// DeleteSnapshot deletes a snapshot and, by cascade, its monsters and drops.
func (r *Repository) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("snapshot not found: %s", id)
	}
	return nil
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, snapshotID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var snapshotIDPtr sql.NullString
	if snapshotID != "" {
		snapshotIDPtr = sql.NullString{String: snapshotID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, snapshot_id, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, snapshotIDPtr, detailsJSON, timeNow())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a specific snapshot.
func (r *Repository) FindAuditLog(ctx context.Context, snapshotID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, snapshot_id, details, created_at
		FROM audit_log
		WHERE snapshot_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var id, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&id,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.SnapshotID = id.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
