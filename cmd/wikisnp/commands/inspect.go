package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/wikisnp/internal/providers/scraper"
)

const maxHeaderWidth = 60

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <url>",
		Short: "Lists the tables of a page and which ones would be parsed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(opts)
			if err != nil {
				return err
			}

			inspection, err := env.runner.Inspect(cmd.Context(), args[0])
			if err != nil {
				return env.close(err)
			}
			tables := inspection.Tables

			printPage(cmd.OutOrStdout(), inspection.Page)

			t := table.NewWriter()
			t.SetStyle(table.StyleRounded)
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Role", "Class", "Caption", "Headers", "Rows"})
			for _, summary := range tables {
				t.AppendRow(table.Row{
					summary.Position,
					summary.Role,
					summary.Class,
					summary.Caption,
					truncate(strings.Join(summary.Headers, ", "), maxHeaderWidth),
					summary.Rows,
				})
			}
			t.AppendFooter(table.Row{"", "", "", "", "Tables", len(tables)})
			t.Render()

			if len(tables) < 2 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Page has fewer than two tables and cannot be parsed.")
			}
			return env.close(nil)
		},
	}
}

func printPage(w io.Writer, page scraper.PageInfo) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	for _, row := range []table.Row{
		{"Title", page.Title},
		{"Canonical", page.Canonical},
		{"Language", page.Language},
		{"Modified", page.Modified},
	} {
		if row[1] != "" {
			t.AppendRow(row)
		}
	}
	if t.Length() > 0 {
		t.Render()
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
