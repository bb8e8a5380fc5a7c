package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/wikisnp/internal/app"
)

// options holds flags shared by every command
type options struct {
	configPath  string
	logLevel    string
	development bool
	noCache     bool
	metricsFile string
}

// ExecuteContext runs the command line and returns the process exit code
func ExecuteContext(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}
	var format string

	rootCmd := &cobra.Command{
		Use:   "wikisnp <url> [out]",
		Short: "wikisnp scrapes index constituents and their change history from a wiki page.",
		Long: "wikisnp fetches a wiki page listing the members of a stock index, parses the\n" +
			"components and changes tables and writes them as tagged YAML (or JSON).\n" +
			"The result goes to stdout unless an output file is given.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := app.ParseFormat(format)
			if err != nil {
				return err
			}

			var out string
			if len(args) == 2 {
				out = args[1]
			}

			env, err := setup(opts)
			if err != nil {
				return err
			}
			env.runner.Stdout = cmd.OutOrStdout()

			err = env.runner.Run(cmd.Context(), args[0], out, outFormat)
			return env.close(err)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (.yaml, .yml or .toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.development, "dev", false, "Human-readable console logs")
	flags.BoolVar(&opts.noCache, "no-cache", false, "Bypass the on-disk response cache")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	rootCmd.Flags().StringVarP(&format, "format", "f", string(app.FormatYAML), "Output format: yaml or json")

	rootCmd.AddCommand(newInspectCmd(opts))
	rootCmd.AddCommand(newCompareCmd())

	return rootCmd
}
