package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and inspect offline copies of the drop table",
		Long: `Snapshots store the merged monster list in the workspace database.
Load one later with --source snapshot:<id> or --source snapshot:latest.`,
	}

	cmd.AddCommand(
		newSnapshotSaveCmd(),
		newSnapshotListCmd(),
		newSnapshotShowCmd(),
		newSnapshotDeleteCmd(),
	)

	return cmd
}

// withSnapshots runs fn with deps that have a snapshot store.
func withSnapshots(cmd *cobra.Command, fn func(*Deps) error) error {
	return withDeps(cmd.Context(), func(d *Deps) error {
		if d.SnapshotHandler == nil {
			return errNotInitialized
		}
		return fn(d)
	})
}

func newSnapshotSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Load the drop table and save it as a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(d *Deps) error {
				snap, err := d.SnapshotHandler.Save(cmd.Context(), d.Location)
				if err != nil {
					return fmt.Errorf("saving snapshot: %w", err)
				}
				fmt.Printf("Saved snapshot %s (%d monsters from %s)\n", snap.ID, snap.MonsterCount, snap.Source)
				return nil
			})
		},
	}
}

func newSnapshotListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(d *Deps) error {
				list, err := d.SnapshotHandler.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Println("No snapshots saved.")
					return nil
				}
				fmt.Fprintln(os.Stdout, renderSnapshots(list))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSnapshotListLimit, "Maximum number of snapshots to list (0 for all)")

	return cmd
}

func newSnapshotShowCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a snapshot (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return withSnapshots(cmd, func(d *Deps) error {
				detail, err := d.SnapshotHandler.Show(cmd.Context(), id)
				if err != nil {
					return err
				}

				s := detail.Snapshot
				fmt.Printf("Snapshot:  %s\n", s.ID)
				fmt.Printf("Source:    %s\n", s.Source)
				fmt.Printf("Created:   %s\n", s.CreatedAt.Local().Format(time.DateTime))
				fmt.Printf("Monsters:  %d\n", s.MonsterCount)
				fmt.Printf("Skipped:   %d rows\n", s.SkippedRows)

				preview := detail.Monsters
				if rows > 0 && len(preview) > rows {
					preview = preview[:rows]
				}
				if len(preview) > 0 {
					fmt.Println()
					fmt.Println(renderTable(preview))
					if len(preview) < len(detail.Monsters) {
						fmt.Printf("... and %d more\n", len(detail.Monsters)-len(preview))
					}
				}

				if len(detail.Audit) > 0 {
					fmt.Println("\nHistory:")
					for _, e := range detail.Audit {
						fmt.Printf("  %s  %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Action)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", DefaultPreviewRows, "Monsters to preview (0 for all)")

	return cmd
}

func newSnapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(d *Deps) error {
				if err := d.SnapshotHandler.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted snapshot %s\n", args[0])
				return nil
			})
		},
	}
}

func renderSnapshots(list []entities.Snapshot) string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.ID,
			s.CreatedAt.Local().Format(time.DateTime),
			strconv.Itoa(s.MonsterCount),
			s.Source,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Created", "Monsters", "Source").
		Rows(rows...).
		Render()
}
