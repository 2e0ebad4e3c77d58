// Package entities contains core domain data structures.
package entities

import (
	"slices"
	"strconv"
	"strings"
)

// Headers lists the expected column labels of a drop table, in file order:
// monster name, level, hit points, base experience, drop item.
type Headers [ColumnCount]string

// DefaultHeaders are the labels used by the published drop table.
var DefaultHeaders = Headers{"怪物名稱", "等級", "生命值", "基礎經驗", "掉落物品"}

// Column positions within Headers.
const (
	ColumnName = iota
	ColumnLevel
	ColumnHP
	ColumnBaseExp
	ColumnDrop

	ColumnCount
)

// Slice returns the labels as a slice.
func (h Headers) Slice() []string {
	return h[:]
}

// DropRow is one line of the long-form drop table: a single monster/drop pair.
// All fields hold raw, trimmed text.
type DropRow struct {
	Name    string `json:"name"`
	Level   string `json:"level"`
	HP      string `json:"hp"`
	BaseExp string `json:"base_exp"`
	Drop    string `json:"drop"`
	Line    int    `json:"-"` // Line number in the source file
}

// Monster is the wide form of a monster: scalar stats plus every item it drops.
type Monster struct {
	Name    string   `json:"name"`
	Level   string   `json:"level"`
	HP      string   `json:"hp"`
	BaseExp string   `json:"base_exp"`
	Drops   []string `json:"drops"`
}

// LevelValue parses Level as an integer. ok is false unless the trimmed level is
// a plain integer, so "12.0" and "12級" do not count.
func (m *Monster) LevelValue() (level int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(m.Level))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Clone returns a deep copy so callers can't alias the Drops slice.
// An empty non-nil Drops stays non-nil.
func (m Monster) Clone() Monster {
	m.Drops = slices.Clone(m.Drops)
	return m
}
