package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

func TestSession_DefaultsShowEverythingWithNumericLevel(t *testing.T) {
	s := NewSession(testCatalog(), ModeCombined, entities.DefaultLevelRanges)

	assert.Len(t, s.ActiveRanges(), len(entities.DefaultLevelRanges))
	assert.Equal(t, []string{"Slime", "Orc", "Dragon"}, names(s.Visible()))
	assert.Equal(t, entities.StatusSummary{TotalLoaded: 4, CurrentlyVisible: 3}, s.StatusSummary())
}

func TestSession_NoOfferedRanges(t *testing.T) {
	s := NewSession(testCatalog(), ModeCombined, nil)

	assert.Len(t, s.Visible(), 4)
}

func TestSession_SetQuery(t *testing.T) {
	s := NewSession(testCatalog(), ModeCombined, nil)

	s.SetQuery("gel")
	assert.Equal(t, []string{"Slime", "Dragon"}, names(s.Visible()))
	assert.Equal(t, "gel", s.Query())

	s.SetQuery("")
	assert.Len(t, s.Visible(), 4)
}

func TestSession_SplitMode(t *testing.T) {
	s := NewSession(testCatalog(), ModeSplit, nil)
	assert.Equal(t, ModeSplit, s.Mode())

	s.SetQuery("dra")
	assert.Equal(t, "dra", s.Criteria().NameQuery)
	assert.Equal(t, []string{"Dragon"}, names(s.Visible()))

	s.SetDropQuery("axe")
	assert.Empty(t, s.Visible())

	s.SetNameQuery("")
	assert.Equal(t, []string{"Orc"}, names(s.Visible()))
}

func TestSession_SetActiveRanges(t *testing.T) {
	s := NewSession(testCatalog(), ModeCombined, entities.DefaultLevelRanges)

	s.SetActiveRanges([]entities.LevelRange{{Min: 11, Max: 20}})
	assert.Equal(t, []string{"Orc"}, names(s.Visible()))
	assert.True(t, s.RangeActive(1))
	assert.False(t, s.RangeActive(0))

	s.SetActiveRanges(nil)
	assert.Len(t, s.Visible(), 4, "no active ranges disables level filtering")
	assert.Equal(t, entities.StatusSummary{TotalLoaded: 4, CurrentlyVisible: 4}, s.StatusSummary())
}

func TestSession_ToggleRange(t *testing.T) {
	s := NewSession(testCatalog(), ModeCombined, entities.DefaultLevelRanges)

	s.ToggleRange(0)
	assert.False(t, s.RangeActive(0))
	assert.Equal(t, []string{"Orc", "Dragon"}, names(s.Visible()))

	s.ToggleRange(0)
	assert.True(t, s.RangeActive(0))
	assert.Len(t, s.Visible(), 3)

	s.ToggleRange(-1)
	s.ToggleRange(99)
	assert.Len(t, s.ActiveRanges(), len(entities.DefaultLevelRanges))
}

func TestSession_CatalogIsIsolated(t *testing.T) {
	catalog := testCatalog()
	s := NewSession(catalog, ModeCombined, nil)

	catalog[0].Drops[0] = "changed"
	visible := s.Visible()
	require.NotEmpty(t, visible)
	assert.Equal(t, "Gel", visible[0].Drops[0])

	visible[0].Drops[0] = "changed again"
	assert.Equal(t, "Gel", s.Monsters()[0].Drops[0])
}

func TestSession_Suggest(t *testing.T) {
	s := NewSession(testCatalog(), ModeCombined, nil)

	s.SetQuery("drgon")
	assert.Empty(t, s.Visible())
	assert.Equal(t, []string{"Dragon"}, s.Suggest(3))
}
