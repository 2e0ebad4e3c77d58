package entities

import "time"

// Snapshot is a merged monster catalog persisted for offline reuse.
type Snapshot struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	MonsterCount int       `json:"monster_count"`
	SkippedRows  int       `json:"skipped_rows"`
	CreatedAt    time.Time `json:"created_at"`
}
