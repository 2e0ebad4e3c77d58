package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ersonp/dropdex/cmd/dropdex/ui"
	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/services"
)

func newShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <monster>",
		Short: "Show one monster's stats and drops",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.Join(args, " ")

			return withDeps(ctx, func(d *Deps) error {
				loaded, err := d.LoadHandler.Handle(ctx, d.Location)
				if err != nil {
					return loadFailure(loaded.Status, err)
				}

				m := findMonster(loaded.Monsters, name)
				if m == nil {
					msg := fmt.Sprintf("no monster named %q", name)
					if s := services.Suggest(loaded.Monsters, name, DefaultSuggestLimit); len(s) > 0 {
						msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(s, ", "))
					}
					return errors.New(msg)
				}

				md := monsterMarkdown(m)
				if raw {
					fmt.Print(md)
					return nil
				}

				out, err := renderMarkdown(md)
				if err != nil {
					return err
				}
				fmt.Fprint(os.Stdout, out)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")

	return cmd
}

// findMonster finds a monster by name, ignoring case and surrounding space.
// An exact match wins over a case-insensitive one.
func findMonster(monsters []entities.Monster, name string) *entities.Monster {
	name = strings.TrimSpace(name)
	var folded *entities.Monster
	for i := range monsters {
		if monsters[i].Name == name {
			return &monsters[i]
		}
		if folded == nil && strings.EqualFold(monsters[i].Name, name) {
			folded = &monsters[i]
		}
	}
	return folded
}

// monsterMarkdown renders a monster card.
func monsterMarkdown(m *entities.Monster) string {
	var sb strings.Builder

	primary, secondary := ui.SplitName(m.Name)
	fmt.Fprintf(&sb, "# %s\n\n", primary)
	if secondary != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", secondary)
	}

	sb.WriteString("| Level | HP | Base Exp |\n")
	sb.WriteString("|-------|----|----------|\n")
	fmt.Fprintf(&sb, "| %s | %s | %s |\n\n",
		escapeMarkdown(m.Level), escapeMarkdown(m.HP), escapeMarkdown(m.BaseExp))

	sb.WriteString("## Drops\n\n")
	if len(m.Drops) == 0 {
		sb.WriteString("_No drops._\n")
		return sb.String()
	}
	for _, d := range m.Drops {
		fmt.Fprintf(&sb, "- %s\n", d)
	}
	return sb.String()
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
