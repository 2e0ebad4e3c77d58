package services

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/infrastructure/parsers"
)

// ScalarConflict records a repeated monster row whose stats disagree with the first row.
// The first row always wins; conflicts are diagnostics only.
type ScalarConflict struct {
	Name    string
	Line    int
	Field   string
	Kept    string
	Ignored string
}

func (c ScalarConflict) String() string {
	return fmt.Sprintf("line %d: %s %s %q ignored, keeping %q", c.Line, c.Name, c.Field, c.Ignored, c.Kept)
}

// IngestResult contains the outcome of normalizing a drop table.
type IngestResult struct {
	Monsters    []entities.Monster
	Rows        int  // Accepted long-form rows
	SkippedRows int  // Data lines dropped for a column-count mismatch
	Empty       bool // The text had no data lines at all
	Conflicts   []ScalarConflict
}

// IngestService turns long-form delimited text into merged monsters.
type IngestService struct {
	headers entities.Headers
	logger  *zap.Logger
}

// NewIngestService creates a new ingest service.
func NewIngestService(headers entities.Headers, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		headers: headers,
		logger:  logger,
	}
}

// Normalize parses comma-delimited text with the given expected headers.
func Normalize(raw string, headers entities.Headers) (*IngestResult, error) {
	return NewIngestService(headers, nil).Ingest(parsers.NewDelimitedParser(','), strings.NewReader(raw))
}

// Ingest tokenizes the text with parser and folds the rows into monsters.
// A header with the wrong column count fails the whole load; rows with the
// wrong column count are skipped.
func (s *IngestService) Ingest(parser parsers.Parser, r io.Reader) (*IngestResult, error) {
	table, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing drop table: %w", err)
	}

	if table.Empty() {
		return &IngestResult{Monsters: []entities.Monster{}, Empty: true}, nil
	}

	if len(table.Header) != len(s.headers) {
		return nil, &HeaderMismatchError{Expected: len(s.headers), Found: len(table.Header)}
	}

	index := s.columnIndex(table.Header)
	result := &IngestResult{}

	rows := make([]entities.DropRow, 0, len(table.Rows))
	for _, raw := range table.Rows {
		if len(raw.Fields) != len(table.Header) {
			result.SkippedRows++
			s.logger.Debug("skipping malformed row",
				zap.Int("line", raw.Line),
				zap.Int("fields", len(raw.Fields)),
				zap.Int("expected", len(table.Header)))
			continue
		}
		rows = append(rows, toDropRow(raw, index))
	}

	result.Rows = len(rows)
	result.Monsters, result.Conflicts = Merge(rows)

	for _, c := range result.Conflicts {
		s.logger.Warn("conflicting stats for repeated monster",
			zap.String("monster", c.Name),
			zap.Int("line", c.Line),
			zap.String("field", c.Field),
			zap.String("kept", c.Kept),
			zap.String("ignored", c.Ignored))
	}

	return result, nil
}

// columnIndex maps each expected column to its position in the file header.
// Labels are matched by name; a label missing from the file falls back to its position.
func (s *IngestService) columnIndex(header []string) [entities.ColumnCount]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		if _, seen := byName[h]; !seen {
			byName[h] = i
		}
	}

	var index [entities.ColumnCount]int
	for col, label := range s.headers {
		if i, ok := byName[label]; ok {
			index[col] = i
		} else {
			index[col] = col
		}
	}
	return index
}

func toDropRow(raw parsers.RawRow, index [entities.ColumnCount]int) entities.DropRow {
	return entities.DropRow{
		Name:    raw.Fields[index[entities.ColumnName]],
		Level:   raw.Fields[index[entities.ColumnLevel]],
		HP:      raw.Fields[index[entities.ColumnHP]],
		BaseExp: raw.Fields[index[entities.ColumnBaseExp]],
		Drop:    raw.Fields[index[entities.ColumnDrop]],
		Line:    raw.Line,
	}
}

// Merge folds long-form rows into one monster per exact name, in first-seen order.
// Scalars come from the first row for a name; later rows only add their drop.
// Empty and repeated drops are not recorded.
func Merge(rows []entities.DropRow) ([]entities.Monster, []ScalarConflict) {
	monsters := make([]entities.Monster, 0)
	positions := make(map[string]int)
	var conflicts []ScalarConflict

	for _, row := range rows {
		pos, ok := positions[row.Name]
		if !ok {
			pos = len(monsters)
			positions[row.Name] = pos
			monsters = append(monsters, entities.Monster{
				Name:    row.Name,
				Level:   row.Level,
				HP:      row.HP,
				BaseExp: row.BaseExp,
				Drops:   []string{},
			})
		} else {
			conflicts = append(conflicts, scalarConflicts(&monsters[pos], row)...)
		}

		drop := strings.TrimSpace(row.Drop)
		if drop != "" && !slices.Contains(monsters[pos].Drops, drop) {
			monsters[pos].Drops = append(monsters[pos].Drops, drop)
		}
	}

	return monsters, conflicts
}

func scalarConflicts(kept *entities.Monster, row entities.DropRow) []ScalarConflict {
	var conflicts []ScalarConflict
	check := func(field, have, got string) {
		if have != got {
			conflicts = append(conflicts, ScalarConflict{
				Name: kept.Name, Line: row.Line, Field: field, Kept: have, Ignored: got,
			})
		}
	}
	check("level", kept.Level, row.Level)
	check("hp", kept.HP, row.HP)
	check("base_exp", kept.BaseExp, row.BaseExp)
	return conflicts
}
