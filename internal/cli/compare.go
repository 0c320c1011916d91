/*
PURPOSE:
  Defines the 'compare' subcommand.
  Classifies a recorded result file against a reference without running an encoder.

USAGE:
  astc-image-test compare <results.csv> <reference.csv>
*/

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/outlawever/astc-encoder/internal/engine"
	"github.com/outlawever/astc-encoder/internal/model"
	"github.com/outlawever/astc-encoder/internal/output"
)

var compareCmd = &cobra.Command{
	Use:   "compare <results.csv> <reference.csv>",
	Short: "Compare a recorded result file against a reference without running the encoder",
	Long: `Classifies every record of an existing result file against the matching record of
a reference file using the configured thresholds. Every result record must have a
reference counterpart. Exits with 1 when any record is a FAIL.`,
	Example: `  astc-image-test compare TestOutput/Small/astc_develop-avx2_results.csv \
      Test/Images/Small/astc_reference-1.7_results.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		name := filepath.Base(filepath.Dir(args[0]))
		result, err := output.LoadResultSet(name, args[0])
		if err != nil {
			return err
		}
		ref, err := output.LoadResultSet(name, args[1])
		if err != nil {
			return err
		}

		entries, err := engine.Compare(cfg.Thresholds, result, ref)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, e := range entries {
			fmt.Fprintf(out, "[%3d] %s\n", i+1, engine.FormatResult(e.Reference, e.Record))
		}
		summary := result.Summary()
		fmt.Fprintln(out, summary)

		if summary.Worst == model.Fail {
			return engine.ErrRegression
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
