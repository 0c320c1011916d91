/*
PURPOSE:
  Adapter layer over the external ASTC codec binaries.
  Runs one compress/decompress test and reports PSNR and timings.

REQUIREMENTS:
  User-specified:
  - One capability: run a test for an image, block size, extra flags and repeat count.
  - Variants: frozen references (1.7, prototype, intelispc) and developer SIMD builds.

  Implementation-discovered:
  - Each variant has its own command line syntax and log format.
  - Timings are averaged over repeats; PSNR is deterministic so the last run is kept.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Uses: internal/model, internal/output

ERROR HANDLING:
  - Non-zero exit and unparseable output are hard errors. No retries.

IMPLEMENTATION RULES:
  - The variant set is closed; New() is the only constructor callers need.
  - Use exec.CommandContext so cancellation kills the child process.

USAGE:
  enc, err := encoder.New("avx2", cfg.Binaries)
  m, err := enc.RunTest(ctx, img, "6x6", []string{"-thorough"}, 1)

RELATED FILES:
  - internal/encoder/variants.go
  - internal/encoder/process.go
*/

package encoder

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/outlawever/astc-encoder/internal/model"
)

var (
	ErrUnknownVariant = errors.New("unknown encoder variant")
	ErrMissingMetric  = errors.New("metric missing from encoder output")
	ErrUnsupported    = errors.New("image not supported by encoder")
)

// Variant names accepted on the command line.
const (
	Variant17        = "1.7"
	VariantPrototype = "prototype"
	VariantISPC      = "intelispc"
)

// ReferenceVariants are frozen baselines; they are never part of "all".
var ReferenceVariants = []string{Variant17, VariantPrototype, VariantISPC}

// TestVariants are the developer builds under test.
var TestVariants = []string{"nointrin", "sse2", "sse4.2", "avx2"}

// Metrics is what a single test reports back.
type Metrics struct {
	PSNR       float64 // dB
	TotalTime  float64 // seconds
	CodingTime float64 // seconds
}

// Encoder runs a single test of an image at a block size.
type Encoder interface {
	Name() string
	RunTest(ctx context.Context, img model.Image, blockSize string, extraArgs []string, repeats int) (Metrics, error)
}

// Supporter is implemented by encoders that only handle part of the test
// matrix. Callers drop unsupported images instead of running them.
type Supporter interface {
	Supports(img model.Image) bool
}

// Supported reports whether enc can run img. Encoders without a Supporter
// implementation accept everything.
func Supported(enc Encoder, img model.Image) bool {
	s, ok := enc.(Supporter)
	return !ok || s.Supports(img)
}

// IsReference reports whether variant is a frozen reference build.
func IsReference(variant string) bool {
	return slices.Contains(ReferenceVariants, variant)
}

// DefaultBinary returns the conventional executable path for a variant.
func DefaultBinary(variant string) string {
	switch variant {
	case Variant17:
		return "Binaries/1.7/astcenc"
	case VariantPrototype:
		return "Binaries/prototype/astcenc"
	case VariantISPC:
		return "Binaries/ispc/astcenc-ispc"
	}
	return "Source/astcenc-" + variant
}

// New returns the encoder for variant. binaries may override executable paths.
func New(variant string, binaries map[string]string) (Encoder, error) {
	bin := binaries[variant]
	if bin == "" {
		bin = DefaultBinary(variant)
	}

	switch {
	case variant == Variant17:
		return &Encoder1x{tool: newTool(bin, patterns1x)}, nil
	case variant == VariantPrototype:
		return &EncoderProto{tool: newTool(bin, patterns2x)}, nil
	case variant == VariantISPC:
		return &EncoderISPC{tool: newTool(bin, patterns2x)}, nil
	case slices.Contains(TestVariants, variant):
		return &Encoder2x{variant: variant, tool: newTool(bin, patterns2x)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
}
