/*
PURPOSE:
  Defines the root Cobra command for the image regression harness CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Ctrl-C must terminate the running encoder process.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/astc-image-test/main.go
  - Calls: Child commands (run, compare, list-sets)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands.

RELATED FILES:
  - cmd/astc-image-test/main.go
*/

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/outlawever/astc-encoder/internal/config"
	"github.com/outlawever/astc-encoder/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "astc-image-test",
		Short: "Image quality regression harness for the ASTC codec",
		Long: `Runs the ASTC codec over test image sets and compares PSNR against stored
reference results. Use 'run --help' for test matrix options.`,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./astc_test.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

// loadConfig loads the config file and applies the global overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	output.SetLogger(output.NewLogger(level, os.Stderr))
	return cfg, nil
}
