package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

// dropSeparator joins drops into one CSV cell.
const dropSeparator = "|"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderTable renders monsters as a bordered terminal table.
func renderTable(monsters []entities.Monster) string {
	rows := make([][]string, 0, len(monsters))
	for _, m := range monsters {
		rows = append(rows, []string{m.Name, m.Level, m.HP, m.BaseExp, strings.Join(m.Drops, ", ")})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Monster", "Lv", "HP", "Exp", "Drops").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

func formatMonsters(w io.Writer, format string, monsters []entities.Monster) error {
	switch format {
	case "json":
		return formatJSON(w, monsters)
	case "csv":
		return formatCSV(w, monsters)
	case "markdown":
		return formatMarkdown(w, monsters)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatJSON(w io.Writer, monsters []entities.Monster) error {
	if monsters == nil {
		monsters = []entities.Monster{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(monsters)
}

// formatCSV writes one row per monster with drops joined by dropSeparator.
func formatCSV(w io.Writer, monsters []entities.Monster) error {
	writer := csv.NewWriter(w)

	header := []string{"name", "level", "hp", "base_exp", "drops"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, m := range monsters {
		row := []string{
			m.Name,
			m.Level,
			m.HP,
			m.BaseExp,
			strings.Join(m.Drops, dropSeparator),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatLongCSV writes the long form: one row per monster and drop, under the
// dataset headers, so the output loads back through the normal ingest path.
// Fields are joined with bare commas, the same way ingest splits them.
// Monsters without drops get a single row with an empty drop.
func formatLongCSV(w io.Writer, headers entities.Headers, monsters []entities.Monster) error {
	if _, err := fmt.Fprintln(w, strings.Join(headers.Slice(), ",")); err != nil {
		return err
	}

	for _, m := range monsters {
		drops := m.Drops
		if len(drops) == 0 {
			drops = []string{""}
		}
		for _, drop := range drops {
			var row [entities.ColumnCount]string
			row[entities.ColumnName] = m.Name
			row[entities.ColumnLevel] = m.Level
			row[entities.ColumnHP] = m.HP
			row[entities.ColumnBaseExp] = m.BaseExp
			row[entities.ColumnDrop] = drop
			if _, err := fmt.Fprintln(w, strings.Join(row[:], ",")); err != nil {
				return err
			}
		}
	}

	return nil
}

func formatMarkdown(w io.Writer, monsters []entities.Monster) error {
	if _, err := fmt.Fprintf(w, "# Monsters\n\nTotal: %d monsters\n\n", len(monsters)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Monster | Lv | HP | Exp | Drops |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|---------|----|----|-----|-------|\n"); err != nil {
		return err
	}

	for _, m := range monsters {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			escapeMarkdown(m.Name),
			escapeMarkdown(m.Level),
			escapeMarkdown(m.HP),
			escapeMarkdown(m.BaseExp),
			escapeMarkdown(strings.Join(m.Drops, ", ")),
		); err != nil {
			return err
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
