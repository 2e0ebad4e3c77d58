package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/dropdex/internal/application/handlers"
	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/services"
)

// filterFlags are shared by every command that narrows the catalog.
type filterFlags struct {
	query     string
	name      string
	drop      string
	mode      string
	ranges    []string
	allLevels bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Text matched against monster names and drops")
	cmd.Flags().StringVar(&f.name, "name", "", "Monster name query (split mode)")
	cmd.Flags().StringVar(&f.drop, "drop", "", "Drop item query (split mode)")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "Filter mode: combined or split (default from config)")
	cmd.Flags().StringArrayVarP(&f.ranges, "range", "r", nil, `Level range to include, e.g. "1-10", "81+" or a configured label (repeatable)`)
	cmd.Flags().BoolVar(&f.allLevels, "all-levels", false, "Ignore level ranges")
}

// request builds a search request from the flags and the configured defaults.
func (f *filterFlags) request(d *Deps, args []string) (handlers.SearchRequest, error) {
	mode := d.Mode
	if f.mode != "" {
		m, err := services.ParseFilterMode(f.mode)
		if err != nil {
			return handlers.SearchRequest{}, err
		}
		mode = m
	}

	// --name or --drop imply split mode
	if f.mode == "" && (f.name != "" || f.drop != "") {
		mode = services.ModeSplit
	}

	query := f.query
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	var active []entities.LevelRange
	if !f.allLevels {
		for _, spec := range f.ranges {
			r, err := parseRange(spec, d.Ranges)
			if err != nil {
				return handlers.SearchRequest{}, err
			}
			active = append(active, r)
		}
	}

	return handlers.SearchRequest{
		Location:     d.Location,
		Mode:         mode,
		Query:        query,
		NameQuery:    f.name,
		DropQuery:    f.drop,
		Ranges:       d.Ranges,
		Active:       active,
		SuggestLimit: DefaultSuggestLimit,
	}, nil
}

type searchFlags struct {
	filterFlags
	format string
}

func newSearchCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search monsters by name, drop and level",
		Long: `Loads the drop table and prints the monsters matching the query and level ranges.

In combined mode one query matches the monster name or any drop.
In split mode --name and --drop each match their own field and both must match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.format, "format", "f", "table", "Output format (table, json, csv, markdown)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string, flags searchFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		req, err := flags.request(d, args)
		if err != nil {
			return err
		}

		result, err := d.SearchHandler.Handle(ctx, req)
		if err != nil {
			return loadFailure(result.Status, err)
		}

		return printSearch(os.Stdout, flags.format, result)
	})
}

func printSearch(w io.Writer, format string, result *handlers.SearchResult) error {
	if format != "table" {
		return formatMonsters(w, format, result.Monsters)
	}

	if len(result.Monsters) > 0 {
		if _, err := fmt.Fprintln(w, renderTable(result.Monsters)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, result.Status.Message); err != nil {
		return err
	}
	if len(result.Suggestions) > 0 {
		if _, err := fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(result.Suggestions, ", ")); err != nil {
			return err
		}
	}
	return nil
}
