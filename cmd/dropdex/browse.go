package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/dropdex/cmd/dropdex/ui"
	"github.com/ersonp/dropdex/internal/application/handlers"
	"github.com/ersonp/dropdex/internal/domain/services"
	"github.com/ersonp/dropdex/internal/infrastructure/sources"
	"github.com/ersonp/dropdex/internal/infrastructure/watcher"
)

type browseFlags struct {
	mode  string
	watch bool
}

func newBrowseCmd() *cobra.Command {
	var flags browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the drop table interactively",
		Long: `Opens a full-screen browser that re-filters on every keystroke.

Tab moves between the query boxes, the level range checkboxes and the results.
With --watch, saving the drop table file reloads it in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "Filter mode: combined or split (default from config)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Reload when the drop table file changes")

	return cmd
}

func runBrowse(cmd *cobra.Command, flags browseFlags) error {
	ctx := cmd.Context()

	return withDepsOptions(ctx, depsOptions{fullScreen: true}, func(d *Deps) error {
		mode := d.Mode
		if flags.mode != "" {
			m, err := services.ParseFilterMode(flags.mode)
			if err != nil {
				return err
			}
			mode = m
		}

		if flags.watch && !watchable(d.Location) {
			return fmt.Errorf("--watch needs a local file, not %s", d.Location)
		}

		load := func() tea.Msg {
			return ui.FromLoad(d.LoadHandler.Handle(ctx, d.Location))
		}

		model := ui.New(ui.Options{
			Title:        "dropdex: " + d.Location,
			Mode:         mode,
			Ranges:       d.Ranges,
			Load:         load,
			SuggestLimit: DefaultSuggestLimit,
		})
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

		if !flags.watch {
			return runProgram(ctx, program)
		}

		w, err := watcher.New(d.Location, watcher.DefaultDebounce, func() {
			program.Send(load())
		}, d.Logger)
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		watchCtx, stopWatching := context.WithCancel(gctx)
		g.Go(func() error {
			if err := w.Run(watchCtx); err != nil {
				program.Quit()
				return fmt.Errorf("watching %s: %w", d.Location, err)
			}
			return nil
		})
		g.Go(func() error {
			defer stopWatching()
			return runProgram(ctx, program)
		})
		return g.Wait()
	})
}

// watchable reports whether location is a local file.
func watchable(location string) bool {
	return !sources.IsRemote(location) && !strings.HasPrefix(location, handlers.SnapshotScheme)
}

// runProgram runs the browser; an interrupt is a normal exit.
func runProgram(ctx context.Context, program *tea.Program) error {
	_, err := program.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil) {
		return nil
	}
	return err
}
