package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

type exportFlags struct {
	filterFlags
	format string
	output string
	long   bool
}

type exporter struct {
	format  string
	output  string
	long    bool
	headers entities.Headers
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export [query]",
		Short: "Export monsters to file",
		Long: `Exports the merged monster list, optionally filtered, to JSON, CSV, or markdown.

CSV output has one row per monster with drops joined by "|". With --long it
writes one row per monster and drop under the dataset headers instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&flags.long, "long", false, "Write CSV in long form, one row per drop")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, flags exportFlags) error {
	if !slices.Contains(exportFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, exportFormats)
	}
	if flags.long && flags.format != "csv" {
		return fmt.Errorf("--long requires --format csv")
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

		headers, err := d.Config.HeaderSet()
		if err != nil {
			return err
		}

		e := &exporter{
			format:  flags.format,
			output:  flags.output,
			long:    flags.long,
			headers: headers,
		}
		return e.export(result.Monsters)
	})
}

func (e *exporter) export(monsters []entities.Monster) (err error) {
	var w io.Writer
	var f *os.File

	if e.output != "" {
		f, err = os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := e.write(w, monsters); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Printf("Exported %d monsters to %s\n", len(monsters), e.output)
	}

	return nil
}

func (e *exporter) write(w io.Writer, monsters []entities.Monster) error {
	if e.long {
		return formatLongCSV(w, e.headers, monsters)
	}
	return formatMonsters(w, e.format, monsters)
}
