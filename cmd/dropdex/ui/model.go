package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ersonp/dropdex/internal/application/handlers"
	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/services"
)

// LoadedMsg delivers a (re)loaded catalog to the browser.
type LoadedMsg struct {
	Monsters []entities.Monster
	Status   services.Status
	Err      error
}

// FromLoad converts a load handler result into a LoadedMsg.
func FromLoad(result *handlers.LoadResult, err error) LoadedMsg {
	if result == nil {
		return LoadedMsg{Status: services.LoadStatus(nil, err), Err: err}
	}
	return LoadedMsg{Monsters: result.Monsters, Status: result.Status, Err: err}
}

// Options configures a browser.
type Options struct {
	Title  string
	Mode   services.FilterMode
	Ranges []entities.LevelRange
	// Load fetches the catalog; its message must be a LoadedMsg.
	Load tea.Cmd
	// SuggestLimit caps "did you mean" names; 0 disables them.
	SuggestLimit int
}

// Model is the browser state: query boxes, range checkboxes and a results table.
type Model struct {
	title   string
	session *services.Session
	load    tea.Cmd

	inputs      []textinput.Model
	focus       int // index into inputs; len(inputs) is the range row, len(inputs)+1 the table
	rangeCursor int
	table       table.Model

	status       services.Status
	loaded       bool
	visible      int
	suggestLimit int
	suggestions  []string

	width  int
	height int
	styles Styles
}

// New creates a browser that starts in the loading state.
func New(opts Options) Model {
	mode := opts.Mode
	if mode == "" {
		mode = services.ModeCombined
	}

	var inputs []textinput.Model
	if mode == services.ModeSplit {
		inputs = []textinput.Model{
			newInput("Monster name..."),
			newInput("Drop item..."),
		}
	} else {
		inputs = []textinput.Model{newInput("Monster or drop...")}
	}
	inputs[0].Focus()

	t := table.New(
		table.WithColumns(columnsFor(80)),
		table.WithHeight(15),
	)

	title := opts.Title
	if title == "" {
		title = "dropdex"
	}

	return Model{
		title:        title,
		session:      services.NewSession(nil, mode, opts.Ranges),
		load:         opts.Load,
		inputs:       inputs,
		table:        t,
		status:       services.LoadingStatus(),
		suggestLimit: opts.SuggestLimit,
		styles:       DefaultStyles(),
	}
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = 30
	return ti
}

// columnsFor sizes the table columns to the terminal width.
func columnsFor(width int) []table.Column {
	drops := width - 20 - 12 - 6 - 8 - 8 - 12
	if drops < 20 {
		drops = 20
	}
	return []table.Column{
		{Title: "Monster", Width: 20},
		{Title: "Alias", Width: 12},
		{Title: "Lv", Width: 6},
		{Title: "HP", Width: 8},
		{Title: "Exp", Width: 8},
		{Title: "Drops", Width: drops},
	}
}

// Init starts loading the catalog.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(columnsFor(msg.Width))
		if h := msg.Height - 12; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case LoadedMsg:
		m.applyLoad(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			return m, m.setFocus((m.focus + 1) % (len(m.inputs) + 2))
		case "shift+tab":
			return m, m.setFocus((m.focus + len(m.inputs) + 1) % (len(m.inputs) + 2))
		}

		switch {
		case m.focus < len(m.inputs):
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			m.refresh()
			return m, cmd
		case m.focus == len(m.inputs):
			m.updateRanges(msg)
			return m, nil
		default:
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}

	if m.focus < len(m.inputs) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(focus int) tea.Cmd {
	m.focus = focus
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == focus {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	if focus == len(m.inputs)+1 {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	return cmd
}

func (m *Model) updateRanges(msg tea.KeyMsg) {
	n := len(m.session.OfferedRanges())
	if n == 0 {
		return
	}
	switch msg.String() {
	case "left", "h":
		m.rangeCursor = (m.rangeCursor + n - 1) % n
	case "right", "l":
		m.rangeCursor = (m.rangeCursor + 1) % n
	case " ", "space", "enter", "x":
		m.session.ToggleRange(m.rangeCursor)
		m.refresh()
	case "a":
		// Select all, or clear all when everything is already selected
		all := len(m.session.ActiveRanges()) == n
		if all {
			m.session.SetActiveRanges(nil)
		} else {
			m.session.SetActiveRanges(m.session.OfferedRanges())
		}
		m.refresh()
	}
}

// applyLoad swaps in a new catalog, keeping the user's queries and range selection.
func (m *Model) applyLoad(msg LoadedMsg) {
	active := m.session.ActiveRanges()
	m.session = services.NewSession(msg.Monsters, m.session.Mode(), m.session.OfferedRanges())
	m.session.SetActiveRanges(active)
	m.loaded = msg.Err == nil && !msg.Status.IsError()
	m.status = msg.Status
	m.refresh()
	// The load message stays up until the user changes the filter.
	m.status = msg.Status
}

// refresh pushes the query boxes into the session and rebuilds the table.
func (m *Model) refresh() {
	if m.session.Mode() == services.ModeSplit {
		m.session.SetNameQuery(m.inputs[0].Value())
		m.session.SetDropQuery(m.inputs[1].Value())
	} else {
		m.session.SetQuery(m.inputs[0].Value())
	}

	visible := m.session.Visible()
	m.visible = len(visible)

	rows := make([]table.Row, 0, len(visible))
	for _, mon := range visible {
		primary, secondary := SplitName(mon.Name)
		rows = append(rows, table.Row{
			primary,
			secondary,
			mon.Level,
			mon.HP,
			mon.BaseExp,
			strings.Join(mon.Drops, ", "),
		})
	}
	m.table.SetRows(rows)

	m.suggestions = nil
	if m.visible == 0 && m.suggestLimit > 0 {
		m.suggestions = m.session.Suggest(m.suggestLimit)
	}

	// Load errors and the empty state stay on screen; filtering can't change them.
	if m.loaded && m.status.Kind != services.StatusEmpty {
		m.status = services.FilterStatus(m.session.StatusSummary())
	}
}

// Status returns the current status line.
func (m Model) Status() services.Status {
	return m.status
}

// VisibleCount returns the number of rows in the results table.
func (m Model) VisibleCount() int {
	return m.visible
}

// Suggestions returns the names offered when nothing matches.
func (m Model) Suggestions() []string {
	return append([]string(nil), m.suggestions...)
}

// View renders the browser.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(" "+m.title+" ") + "\n\n")

	for i, in := range m.inputs {
		style := m.styles.Input
		if i == m.focus {
			style = m.styles.InputFocus
		}
		sb.WriteString(style.Render(in.View()))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	sb.WriteString(m.renderRanges())
	sb.WriteString("\n\n")

	if m.status.IsError() {
		sb.WriteString(m.styles.Error.Render(m.status.Message))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(m.table.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Status.Render(m.status.Message))
	if len(m.suggestions) > 0 {
		sb.WriteString("  ")
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("Did you mean: %s?", strings.Join(m.suggestions, ", "))))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("tab: next field  space: toggle range  a: all ranges  esc: quit"))
	return sb.String()
}

func (m Model) renderRanges() string {
	var sb strings.Builder
	rangesFocused := m.focus == len(m.inputs)
	for i, r := range m.session.OfferedRanges() {
		box := "[ ]"
		if m.session.RangeActive(i) {
			box = "[x]"
		}
		label := box + " " + r.String()
		if rangesFocused && i == m.rangeCursor {
			sb.WriteString(m.styles.RangeCursor.Render(label))
		} else {
			sb.WriteString(m.styles.Range.Render(label))
		}
	}
	return sb.String()
}
