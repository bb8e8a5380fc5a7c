package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/wikisnp/internal/app"
)

func newCompareCmd() *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "compare <old> <new>",
		Short: "Reports index changes between two saved YAML snapshots.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldData, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			newData, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if text {
				fmt.Fprint(out, app.TextDiff(string(oldData), string(newData)))
				return nil
			}

			cmp, err := app.Compare(oldData, newData)
			if err != nil {
				return err
			}
			if cmp.Empty() {
				fmt.Fprintln(out, "No changes.")
				return nil
			}
			fmt.Fprint(out, cmp.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "Show a line diff of the files instead")
	return cmd
}
