/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the image test matrix and compares against reference results.

REQUIREMENTS:
  User-specified:
  - Select encoder, color profile, color format, block sizes, test set, repeats.
  - Exit non-zero when any test regressed to FAIL.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.
  - Test sets are discovered from the image root, so they are validated after parsing.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Runner.Run()
  - Uses: internal/config, internal/testset

ERROR HANDLING:
  - Invalid choices fail at parse time; nothing runs.
  - Returns engine.ErrRegression when the worst verdict is FAIL.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Resolve -> Runner.Run.

USAGE:
  astc-image-test run --encoder all --block-size 4x4 --block-size 6x6x6

RELATED FILES:
  - internal/cli/root.go
  - internal/engine/params.go
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/outlawever/astc-encoder/internal/engine"
	"github.com/outlawever/astc-encoder/internal/model"
	"github.com/outlawever/astc-encoder/internal/output"
	"github.com/outlawever/astc-encoder/internal/testset"
)

var (
	encoderFlag     string
	profileFlag     string
	formatFlag      string
	blockSizeFlags  []string
	testSetFlag     string
	repeatsFlag     int
	imageRootFlag   string
	outputRootFlag  string
	jsonResultsFlag bool
	redisAddrFlag   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the image test matrix",
	Long: `Runs the selected encoder over every compatible (block size, image) pair of the
selected test sets. 2D block sizes only run on 2D images and 3D block sizes only on
3D images.

Reference encoders (1.7, prototype, intelispc) write their results into the image
directory and become the baseline. Developer encoders write into the output
directory and are compared against the 1.7 baseline; a PSNR loss beyond the
configured thresholds is a WARN or FAIL. Any FAIL makes the command exit with 1.

intelispc only handles 2D LDR images; HDR images and 3D block sizes are skipped
for it.`,
	Example: `  # Compare the AVX2 build on the Small set (defaults)
  astc-image-test run

  # Regenerate the 1.7 baseline for every test set
  astc-image-test run --encoder 1.7 --test-set all

  # All developer builds, LDR only, two block sizes, averaged over 3 runs
  astc-image-test run --encoder all --color-profile ldr --block-size 4x4 --block-size 6x6x6 --repeats 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// 2. Overrides
		if imageRootFlag != "" {
			cfg.ImageRoot = imageRootFlag
		}
		if outputRootFlag != "" {
			cfg.OutputRoot = outputRootFlag
		}
		if jsonResultsFlag {
			cfg.JSONResults = true
		}
		if redisAddrFlag != "" {
			cfg.Redis.Addr = redisAddrFlag
		}

		// 3. Resolve the matrix
		sets, err := testset.Discover(cfg.ImageRoot)
		if err != nil {
			return err
		}
		matrix, err := engine.Resolve(engine.Selection{
			Encoder:    encoderFlag,
			Profile:    profileFlag,
			Format:     formatFlag,
			BlockSizes: blockSizeFlags,
			TestSet:    testSetFlag,
			Repeats:    repeatsFlag,
		}, sets)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		// 4. Execution
		ctx := cmd.Context()
		sinks, err := engine.OpenSinks(ctx, cfg)
		if err != nil {
			return err
		}

		runner := engine.NewRunner(cfg, cmd.OutOrStdout())
		runner.Sinks = sinks
		worst, err := runner.Run(ctx, matrix)
		if err := engine.CloseSinks(sinks, err); err != nil {
			return err
		}

		if worst == model.Fail {
			return engine.ErrRegression
		}
		output.Logger.Debug("Run passed", "worst", worst)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	choiceFlag(runCmd, &encoderFlag, "encoder", "avx2", engine.EncoderChoices(), "test encoder variant")
	choiceFlag(runCmd, &profileFlag, "color-profile", engine.All, engine.ProfileChoices(), "test color profile")
	choiceFlag(runCmd, &formatFlag, "color-format", engine.All, engine.FormatChoices(), "test color format")

	runCmd.Flags().Var(newChoiceSliceValue(&blockSizeFlags, engine.BlockSizeChoices()), "block-size", "test block size, repeatable (default all)")
	_ = runCmd.RegisterFlagCompletionFunc("block-size", cobra.FixedCompletions(engine.BlockSizeChoices(), cobra.ShellCompDirectiveNoFileComp))

	runCmd.Flags().StringVar(&testSetFlag, "test-set", "Small", "test image set (a directory under the image root, or all)")
	_ = runCmd.RegisterFlagCompletionFunc("test-set", completeTestSets)

	runCmd.Flags().IntVar(&repeatsFlag, "repeats", 1, "test iteration count used to average timings")
	runCmd.Flags().StringVar(&imageRootFlag, "image-root", "", "test image root (overrides config)")
	runCmd.Flags().StringVar(&outputRootFlag, "output-root", "", "developer result root (overrides config)")
	runCmd.Flags().BoolVar(&jsonResultsFlag, "json", false, "also write JSON Lines results next to each CSV")
	runCmd.Flags().StringVar(&redisAddrFlag, "redis-addr", "", "publish set reports to this Redis server (overrides config)")
}

func completeTestSets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	sets, err := testset.Discover(cfg.ImageRoot)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return append(sets, engine.All), cobra.ShellCompDirectiveNoFileComp
}
