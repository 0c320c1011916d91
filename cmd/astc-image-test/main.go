/*
PURPOSE:
  Entry point for the ASTC image regression harness.
  Initializes the CLI root command and executes it.

REQUIREMENTS:
  User-specified:
  - Must serve as the single binary entry point.
  - Exit code 1 when the run's worst verdict is FAIL or the run errored.

  Implementation-discovered:
  - Uses cobra for CLI command management.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.Execute()
  - Depends on: internal/cli package

ERROR HANDLING:
  - Explicit error check on Execute(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Critical: Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o astc-image-test ./cmd/astc-image-test
  ./astc-image-test run --encoder avx2 --test-set Small

RELATED FILES:
  - internal/cli/root.go - The actual root command definition.
*/

package main

import (
	"fmt"
	"os"

	"github.com/outlawever/astc-encoder/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
