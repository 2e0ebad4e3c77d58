package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/services"
)

// openRangeMax is the upper bound used for "81+" style ranges.
const openRangeMax = 999

// parseRange resolves a --range value: a configured label, "min-max", "min+" or a single level.
func parseRange(spec string, offered []entities.LevelRange) (entities.LevelRange, error) {
	s := strings.TrimSpace(spec)
	for _, r := range offered {
		if strings.EqualFold(r.Label, s) {
			return r, nil
		}
	}

	s = strings.TrimPrefix(strings.TrimPrefix(s, "Lv."), "lv.")
	s = strings.TrimSpace(s)

	var r entities.LevelRange
	var err error
	switch {
	case strings.HasSuffix(s, "+"):
		r.Min, err = strconv.Atoi(strings.TrimSuffix(s, "+"))
		r.Max = openRangeMax
	case strings.Contains(s, "-"):
		lo, hi, _ := strings.Cut(s, "-")
		r.Min, err = strconv.Atoi(strings.TrimSpace(lo))
		if err == nil {
			r.Max, err = strconv.Atoi(strings.TrimSpace(hi))
		}
	default:
		r.Min, err = strconv.Atoi(s)
		r.Max = r.Min
	}
	if err != nil {
		return entities.LevelRange{}, fmt.Errorf("invalid range %q (use min-max, min+, or a configured label)", spec)
	}

	if err := r.Validate(); err != nil {
		return entities.LevelRange{}, fmt.Errorf("invalid range %q: %w", spec, err)
	}
	return r, nil
}

func newRangesCmd() *cobra.Command {
	var counts bool

	cmd := &cobra.Command{
		Use:   "ranges",
		Short: "List the configured level ranges",
		Long:  "Lists the level ranges offered as filters. With --count, loads the drop table and counts monsters per range.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				var monsters []entities.Monster
				if counts {
					loaded, err := d.LoadHandler.Handle(ctx, d.Location)
					if err != nil {
						return loadFailure(loaded.Status, err)
					}
					monsters = loaded.Monsters
				}
				fmt.Fprintln(os.Stdout, renderRanges(d.Ranges, monsters, counts))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&counts, "count", "c", false, "Count monsters in each range")

	return cmd
}

// renderRanges renders the offered ranges, optionally with a monster count per range.
func renderRanges(ranges []entities.LevelRange, monsters []entities.Monster, counts bool) string {
	headers := []string{"Label", "Min", "Max"}
	if counts {
		headers = append(headers, "Monsters")
	}

	rows := make([][]string, 0, len(ranges)+1)
	for _, r := range ranges {
		row := []string{r.String(), strconv.Itoa(r.Min), strconv.Itoa(r.Max)}
		if counts {
			n := len(services.Filter(monsters, services.Criteria{Ranges: []entities.LevelRange{r}}))
			row = append(row, strconv.Itoa(n))
		}
		rows = append(rows, row)
	}

	if counts {
		unranked := len(monsters) - len(services.Filter(monsters, services.Criteria{Ranges: ranges}))
		rows = append(rows, []string{"(no range)", "", "", strconv.Itoa(unranked)})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		Render()
}
