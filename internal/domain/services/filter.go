package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

// FilterMode selects how text queries combine.
type FilterMode string

const (
	// ModeCombined checks one query against the name OR any drop.
	ModeCombined FilterMode = "combined"
	// ModeSplit checks a name query against the name AND a drop query against the drops.
	ModeSplit FilterMode = "split"
)

// ParseFilterMode validates a mode name. An empty name selects ModeCombined.
func ParseFilterMode(name string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeCombined:
		return ModeCombined, nil
	case ModeSplit:
		return ModeSplit, nil
	default:
		return "", fmt.Errorf("invalid filter mode %q (valid: combined, split)", name)
	}
}

// Criteria holds the active predicates of a filter run.
type Criteria struct {
	Mode      FilterMode
	Query     string // ModeCombined only
	NameQuery string // ModeSplit only
	DropQuery string // ModeSplit only
	// Ranges are OR-ed together. No ranges means no level filtering.
	Ranges []entities.LevelRange
}

// Filter returns the monsters matching c, preserving input order.
// The range stage runs first, then the text stage. It never returns nil and
// never modifies monsters.
func Filter(monsters []entities.Monster, c Criteria) []entities.Monster {
	result := make([]entities.Monster, 0, len(monsters))

	query := foldQuery(c.Query)
	nameQuery := foldQuery(c.NameQuery)
	dropQuery := foldQuery(c.DropQuery)

	for i := range monsters {
		m := &monsters[i]

		if !matchesRanges(m, c.Ranges) {
			continue
		}

		switch c.Mode {
		case ModeSplit:
			if nameQuery != "" && !containsFolded(m.Name, nameQuery) {
				continue
			}
			if dropQuery != "" && !anyDropContains(m.Drops, dropQuery) {
				continue
			}
		default:
			if query != "" && !containsFolded(m.Name, query) && !anyDropContains(m.Drops, query) {
				continue
			}
		}

		result = append(result, *m)
	}

	return result
}

// matchesRanges reports whether the monster's level falls in any range.
// A monster with a non-numeric level never matches an active range.
func matchesRanges(m *entities.Monster, ranges []entities.LevelRange) bool {
	if len(ranges) == 0 {
		return true
	}

	level, ok := m.LevelValue()
	if !ok {
		return false
	}

	for _, r := range ranges {
		if r.Contains(level) {
			return true
		}
	}
	return false
}

func anyDropContains(drops []string, query string) bool {
	for _, d := range drops {
		if containsFolded(d, query) {
			return true
		}
	}
	return false
}

func containsFolded(field, foldedQuery string) bool {
	return strings.Contains(fold(field), foldedQuery)
}

func foldQuery(q string) string {
	return fold(strings.TrimSpace(q))
}

// fold case-folds s. A cases.Caser holds state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
