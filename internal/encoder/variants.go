/*
PURPOSE:
  Command line syntax of each encoder variant.

ARCHITECTURE INTEGRATION:
  - Constructed by: encoder.New()
  - Uses: internal/encoder/process.go

RELATED FILES:
  - internal/encoder/encoder.go
*/

package encoder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/outlawever/astc-encoder/internal/model"
)

// outputExt picks a decompressed container able to hold the image.
func outputExt(img model.Image) string {
	switch {
	case img.Is3D:
		return strings.ToLower(filepath.Ext(img.Path))
	case img.Profile == model.ProfileHDR:
		return ".exr"
	}
	return ".png"
}

// mode2x maps a color profile onto the 2.x compress+decompress switch.
func mode2x(p model.Profile) string {
	switch p {
	case model.ProfileLDRSRGB:
		return "-ts"
	case model.ProfileHDR:
		return "-th"
	}
	return "-tl"
}

func args2x(mode string, img model.Image, out, blockSize string, extra []string) []string {
	args := []string{mode, img.Path, out, blockSize}
	return append(args, extra...)
}

// Encoder2x is a developer build of the 2.x codec for one SIMD variant.
type Encoder2x struct {
	variant string
	*tool
}

func (e *Encoder2x) Name() string { return "astcenc-" + e.variant }

func (e *Encoder2x) RunTest(ctx context.Context, img model.Image, blockSize string, extraArgs []string, repeats int) (Metrics, error) {
	return e.measure(ctx, outputExt(img), repeats, func(out string) []string {
		return append(args2x(mode2x(img.Profile), img, out, blockSize, extraArgs), "-silent")
	})
}

// EncoderProto is the frozen prototype reference. It shares the 2.x syntax.
type EncoderProto struct {
	*tool
}

func (e *EncoderProto) Name() string { return "astcenc-prototype" }

func (e *EncoderProto) RunTest(ctx context.Context, img model.Image, blockSize string, extraArgs []string, repeats int) (Metrics, error) {
	return e.measure(ctx, outputExt(img), repeats, func(out string) []string {
		return args2x(mode2x(img.Profile), img, out, blockSize, extraArgs)
	})
}

// Encoder1x is the frozen 1.7 reference.
type Encoder1x struct {
	*tool
}

func (e *Encoder1x) Name() string { return "astcenc-1.7" }

func (e *Encoder1x) RunTest(ctx context.Context, img model.Image, blockSize string, extraArgs []string, repeats int) (Metrics, error) {
	return e.measure(ctx, outputExt(img), repeats, func(out string) []string {
		args := []string{"-t", img.Path, out, blockSize}
		args = append(args, extraArgs...)
		switch img.Profile {
		case model.ProfileLDRSRGB:
			args = append(args, "-srgb")
		case model.ProfileHDR:
			args = append(args, "-hdr")
		}
		return args
	})
}

// EncoderISPC is the Intel ISPC texture compressor reference. It only
// handles 2D LDR content and takes no search presets.
type EncoderISPC struct {
	*tool
}

func (e *EncoderISPC) Name() string { return "astcenc-ispc" }

// Supports excludes 3D and HDR images.
func (e *EncoderISPC) Supports(img model.Image) bool {
	return !img.Is3D && img.Profile != model.ProfileHDR
}

func (e *EncoderISPC) RunTest(ctx context.Context, img model.Image, blockSize string, _ []string, repeats int) (Metrics, error) {
	if !e.Supports(img) {
		return Metrics{}, fmt.Errorf("%w: %s (%s, 3d=%t)", ErrUnsupported, img.TestFile, img.Profile, img.Is3D)
	}
	return e.measure(ctx, ".png", repeats, func(out string) []string {
		args := []string{img.Path, out, blockSize}
		if img.Profile == model.ProfileLDRSRGB {
			args = append(args, "-srgb")
		}
		return args
	})
}
