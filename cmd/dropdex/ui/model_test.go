package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/dropdex/internal/application/handlers"
	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/services"
)

var testRanges = []entities.LevelRange{
	{Label: "Lv. 1-10", Min: 1, Max: 10},
	{Label: "Lv. 11-20", Min: 11, Max: 20},
}

func testCatalog() []entities.Monster {
	return []entities.Monster{
		{Name: "Slime (史萊姆)", Level: "1", HP: "10", BaseExp: "5", Drops: []string{"Gel", "Herb"}},
		{Name: "Orc", Level: "15", HP: "50", BaseExp: "20", Drops: []string{"Axe"}},
		{Name: "Dragon", Level: "25", HP: "900", BaseExp: "300", Drops: []string{"Scale"}},
	}
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func loaded(monsters []entities.Monster) LoadedMsg {
	return LoadedMsg{
		Monsters: monsters,
		Status:   services.LoadStatus(&services.IngestResult{Monsters: monsters}, nil),
	}
}

func TestModel_StartsLoading(t *testing.T) {
	m := New(Options{Ranges: testRanges})

	assert.Equal(t, services.StatusLoading, m.Status().Kind)
	assert.Contains(t, m.View(), "Loading data...")
}

func TestModel_LoadAndFilter(t *testing.T) {
	m := New(Options{Ranges: testRanges})
	m = send(t, m, loaded(testCatalog()))

	// Both ranges start checked, so the level-25 dragon is hidden
	assert.Equal(t, 2, m.VisibleCount())
	assert.Equal(t, "Data loaded, 3 monster records.", m.Status().Message)

	m = typeText(t, m, "gel")
	assert.Equal(t, 1, m.VisibleCount())
	assert.Equal(t, "Found 1 of 3 records.", m.Status().Message)

	view := m.View()
	assert.Contains(t, view, "Slime")
	assert.Contains(t, view, "史萊姆")
	assert.NotContains(t, view, "Orc")
}

func TestModel_ToggleRanges(t *testing.T) {
	m := New(Options{Ranges: testRanges})
	m = send(t, m, loaded(testCatalog()))

	// Focus the range row
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

	// Uncheck Lv. 1-10
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, 1, m.VisibleCount())

	// Uncheck Lv. 11-20 too: no ranges means no level filter
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, 3, m.VisibleCount())
	assert.Contains(t, m.View(), "[ ] Lv. 11-20")

	// "a" selects every range again
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	assert.Equal(t, 2, m.VisibleCount())
}

func TestModel_SplitMode(t *testing.T) {
	m := New(Options{Mode: services.ModeSplit})
	m = send(t, m, loaded(testCatalog()))

	m = typeText(t, m, "orc")
	assert.Equal(t, 1, m.VisibleCount())

	// Second box filters drops only, AND-ed with the name box
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "gel")
	assert.Equal(t, 0, m.VisibleCount())
	assert.Equal(t, "Found 0 of 3 records.", m.Status().Message)
}

func TestModel_Suggestions(t *testing.T) {
	m := New(Options{SuggestLimit: 3})
	m = send(t, m, loaded(testCatalog()))

	m = typeText(t, m, "drgon")
	assert.Equal(t, 0, m.VisibleCount())
	assert.Equal(t, []string{"Dragon"}, m.Suggestions())
	assert.Contains(t, m.View(), "Did you mean: Dragon?")
}

func TestModel_LoadError(t *testing.T) {
	m := New(Options{})
	err := &services.RetrievalError{Location: "data.csv", StatusCode: 404}
	m = send(t, m, FromLoad(nil, err))

	assert.True(t, m.Status().IsError())
	assert.Contains(t, m.View(), "Error: could not load data (HTTP 404).")

	// Typing doesn't replace the error
	m = typeText(t, m, "x")
	assert.True(t, m.Status().IsError())
}

func TestModel_EmptyDataset(t *testing.T) {
	m := New(Options{})
	m = send(t, m, FromLoad(&handlers.LoadResult{
		Monsters: []entities.Monster{},
		Status:   services.LoadStatus(&services.IngestResult{Empty: true}, nil),
	}, nil))

	m = typeText(t, m, "slime")
	assert.Equal(t, services.StatusEmpty, m.Status().Kind)
	assert.Equal(t, "Data loaded, 0 records.", m.Status().Message)
}

func TestModel_ReloadKeepsQuery(t *testing.T) {
	m := New(Options{})
	m = send(t, m, loaded(testCatalog()))
	m = typeText(t, m, "orc")
	require.Equal(t, 1, m.VisibleCount())

	more := append(testCatalog(), entities.Monster{Name: "Orc Chief", Level: "18", Drops: []string{}})
	m = send(t, m, loaded(more))
	assert.Equal(t, 2, m.VisibleCount())
}

func TestModel_Quit(t *testing.T) {
	m := New(Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_WindowResize(t *testing.T) {
	m := New(Options{})
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.True(t, strings.Contains(m.View(), "Drops"))
}

func TestFromLoad_PassesError(t *testing.T) {
	err := errors.New("boom")
	msg := FromLoad(&handlers.LoadResult{Status: services.LoadStatus(nil, err)}, err)
	assert.Equal(t, err, msg.Err)
	assert.Equal(t, services.StatusFailed, msg.Status.Kind)
}
