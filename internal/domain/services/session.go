package services

import (
	"github.com/ersonp/dropdex/internal/domain/entities"
)

// Session holds a loaded catalog and the user's current filter state.
// The catalog is read-only; only the criteria change between calls.
type Session struct {
	monsters []entities.Monster
	ranges   []entities.LevelRange // ranges offered to the user
	active   []bool                // active[i] reports whether ranges[i] is selected
	criteria Criteria
}

// NewSession creates a session over monsters with every offered range active.
func NewSession(monsters []entities.Monster, mode FilterMode, ranges []entities.LevelRange) *Session {
	if mode == "" {
		mode = ModeCombined
	}

	owned := make([]entities.Monster, len(monsters))
	for i := range monsters {
		owned[i] = monsters[i].Clone()
	}

	s := &Session{
		monsters: owned,
		ranges:   append([]entities.LevelRange(nil), ranges...),
		active:   make([]bool, len(ranges)),
		criteria: Criteria{Mode: mode},
	}
	for i := range s.active {
		s.active[i] = true
	}
	s.syncRanges()
	return s
}

// Mode returns the configured filter mode.
func (s *Session) Mode() FilterMode {
	return s.criteria.Mode
}

// Monsters returns a copy of the full catalog.
func (s *Session) Monsters() []entities.Monster {
	return cloneAll(s.monsters)
}

// SetQuery sets the text query. In split mode it sets the name query.
func (s *Session) SetQuery(text string) {
	if s.criteria.Mode == ModeSplit {
		s.criteria.NameQuery = text
		return
	}
	s.criteria.Query = text
}

// SetNameQuery sets the split-mode name query.
func (s *Session) SetNameQuery(text string) {
	s.criteria.NameQuery = text
}

// SetDropQuery sets the split-mode drop query.
func (s *Session) SetDropQuery(text string) {
	s.criteria.DropQuery = text
}

// Query returns the combined-mode query, or the name query in split mode.
func (s *Session) Query() string {
	if s.criteria.Mode == ModeSplit {
		return s.criteria.NameQuery
	}
	return s.criteria.Query
}

// SetActiveRanges replaces the active level ranges. Ranges that aren't among
// the offered ones are still applied. An empty set disables level filtering.
func (s *Session) SetActiveRanges(ranges []entities.LevelRange) {
	for i := range s.active {
		s.active[i] = false
	}
	s.criteria.Ranges = make([]entities.LevelRange, 0, len(ranges))
	for _, r := range ranges {
		s.criteria.Ranges = append(s.criteria.Ranges, r)
		for i, offered := range s.ranges {
			if offered.Min == r.Min && offered.Max == r.Max {
				s.active[i] = true
			}
		}
	}
}

// OfferedRanges returns the ranges a view should present as checkboxes.
func (s *Session) OfferedRanges() []entities.LevelRange {
	return append([]entities.LevelRange(nil), s.ranges...)
}

// RangeActive reports whether offered range i is selected.
func (s *Session) RangeActive(i int) bool {
	return i >= 0 && i < len(s.active) && s.active[i]
}

// ToggleRange flips offered range i.
func (s *Session) ToggleRange(i int) {
	if i < 0 || i >= len(s.active) {
		return
	}
	s.active[i] = !s.active[i]
	s.syncRanges()
}

// ActiveRanges returns the ranges currently applied.
func (s *Session) ActiveRanges() []entities.LevelRange {
	return append([]entities.LevelRange(nil), s.criteria.Ranges...)
}

func (s *Session) syncRanges() {
	s.criteria.Ranges = make([]entities.LevelRange, 0, len(s.ranges))
	for i, r := range s.ranges {
		if s.active[i] {
			s.criteria.Ranges = append(s.criteria.Ranges, r)
		}
	}
}

// Criteria returns the current filter criteria.
func (s *Session) Criteria() Criteria {
	c := s.criteria
	c.Ranges = s.ActiveRanges()
	return c
}

// Visible returns the monsters matching the current state.
func (s *Session) Visible() []entities.Monster {
	return cloneAll(Filter(s.monsters, s.criteria))
}

// StatusSummary reports the loaded and visible counts.
func (s *Session) StatusSummary() entities.StatusSummary {
	return entities.StatusSummary{
		TotalLoaded:      len(s.monsters),
		CurrentlyVisible: len(Filter(s.monsters, s.criteria)),
	}
}

// Suggest returns up to limit names close to the current query, for when
// nothing is visible.
func (s *Session) Suggest(limit int) []string {
	query := s.Query()
	if s.criteria.Mode == ModeSplit && query == "" {
		query = s.criteria.DropQuery
	}
	return Suggest(s.monsters, query, limit)
}

func cloneAll(monsters []entities.Monster) []entities.Monster {
	out := make([]entities.Monster, len(monsters))
	for i := range monsters {
		out[i] = monsters[i].Clone()
	}
	return out
}
