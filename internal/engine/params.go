/*
PURPOSE:
  Resolves command line selections into a test matrix and maps encoder
  variants onto names, directories and reference baselines.

REQUIREMENTS:
  User-specified:
  - "all" expands to every developer encoder, profile, format, block size or set.
  - Reference encoders write baselines next to the images; developer builds write
    into the output root and compare against reference-1.7.

  Implementation-discovered:
  - Test sets are only known after discovery, so they are validated here rather
    than at flag parse time.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/run.go, internal/engine/runner.go
  - Uses: internal/encoder, internal/output (file naming)

ERROR HANDLING:
  - Any unknown selection or repeats < 1 is an error before anything runs.

RELATED FILES:
  - internal/cli/flags.go
*/

package engine

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/outlawever/astc-encoder/internal/encoder"
	"github.com/outlawever/astc-encoder/internal/model"
	"github.com/outlawever/astc-encoder/internal/output"
)

// All is the selection sentinel that expands to a canonical list.
const All = "all"

// TestBlockSizes is the curated subset of ASTC block sizes exercised by the
// harness, chosen to keep run times manageable.
var TestBlockSizes = []string{"4x4", "5x5", "6x6", "8x8", "12x12", "3x3x3", "6x6x6"}

// Profiles and Formats are the selectable image attributes in canonical order.
var (
	Profiles = []model.Profile{model.ProfileLDR, model.ProfileLDRSRGB, model.ProfileHDR}
	Formats  = []model.Format{model.FormatL, model.FormatXY, model.FormatRGB, model.FormatRGBA}
)

// ReferenceName is the baseline every developer build is compared against.
const ReferenceName = "reference-1.7"

// Selection is the raw, possibly "all", request from the command line.
type Selection struct {
	Encoder    string
	Profile    string
	Format     string
	BlockSizes []string
	TestSet    string
	Repeats    int
}

// Matrix is a Selection expanded into canonical lists.
type Matrix struct {
	Encoders   []string
	Profiles   []model.Profile
	Formats    []model.Format
	BlockSizes []string
	TestSets   []string
	Repeats    int
}

// EncoderChoices lists every accepted --encoder value.
func EncoderChoices() []string {
	return slices.Concat(encoder.ReferenceVariants, encoder.TestVariants, []string{All})
}

// ProfileChoices lists every accepted --color-profile value.
func ProfileChoices() []string {
	var out []string
	for _, p := range Profiles {
		out = append(out, string(p))
	}
	return append(out, All)
}

// FormatChoices lists every accepted --color-format value.
func FormatChoices() []string {
	var out []string
	for _, f := range Formats {
		out = append(out, string(f))
	}
	return append(out, All)
}

// BlockSizeChoices lists every accepted --block-size value.
func BlockSizeChoices() []string {
	return slices.Concat(TestBlockSizes, []string{All})
}

// Resolve expands sel against the discovered test sets.
func Resolve(sel Selection, discovered []string) (Matrix, error) {
	var m Matrix

	switch {
	case sel.Encoder == All:
		m.Encoders = slices.Clone(encoder.TestVariants)
	case slices.Contains(EncoderChoices(), sel.Encoder):
		m.Encoders = []string{sel.Encoder}
	default:
		return m, fmt.Errorf("invalid encoder %q (choose from %v)", sel.Encoder, EncoderChoices())
	}

	switch {
	case sel.Profile == All:
		m.Profiles = slices.Clone(Profiles)
	case slices.Contains(Profiles, model.Profile(sel.Profile)):
		m.Profiles = []model.Profile{model.Profile(sel.Profile)}
	default:
		return m, fmt.Errorf("invalid color profile %q (choose from %v)", sel.Profile, ProfileChoices())
	}

	switch {
	case sel.Format == All:
		m.Formats = slices.Clone(Formats)
	case slices.Contains(Formats, model.Format(sel.Format)):
		m.Formats = []model.Format{model.Format(sel.Format)}
	default:
		return m, fmt.Errorf("invalid color format %q (choose from %v)", sel.Format, FormatChoices())
	}

	if len(sel.BlockSizes) == 0 || slices.Contains(sel.BlockSizes, All) {
		m.BlockSizes = slices.Clone(TestBlockSizes)
	} else {
		for _, b := range sel.BlockSizes {
			if !slices.Contains(TestBlockSizes, b) {
				return m, fmt.Errorf("invalid block size %q (choose from %v)", b, BlockSizeChoices())
			}
		}
		m.BlockSizes = slices.Clone(sel.BlockSizes)
	}

	switch {
	case sel.TestSet == All:
		m.TestSets = slices.Clone(discovered)
	case slices.Contains(discovered, sel.TestSet):
		m.TestSets = []string{sel.TestSet}
	default:
		return m, fmt.Errorf("invalid test set %q (choose from %v)", sel.TestSet, append(slices.Clone(discovered), All))
	}

	if sel.Repeats < 1 {
		return m, fmt.Errorf("repeats must be >= 1, got %d", sel.Repeats)
	}
	m.Repeats = sel.Repeats

	return m, nil
}

// Layout is the on-disk directory convention shared with other tooling.
type Layout struct {
	ImageRoot  string // Test/Images
	OutputRoot string // TestOutput
}

// SetDir returns the directory holding a test set's images and baselines.
func (l Layout) SetDir(set string) string {
	return filepath.Join(l.ImageRoot, set)
}

// Params is what the driver needs to run one encoder variant on one set.
type Params struct {
	Variant string
	Name    string // display name, also names the result file
	OutDir  string
	RefName string // empty for reference variants
	SetDir  string
}

// EncoderParams maps a variant onto its display name, output directory and
// the reference it is diffed against. Only developer builds have a reference.
func EncoderParams(variant, set string, l Layout) Params {
	p := Params{Variant: variant, SetDir: l.SetDir(set)}
	if encoder.IsReference(variant) {
		p.Name = "reference-" + variant
		p.OutDir = l.SetDir(set)
		return p
	}
	p.Name = "develop-" + variant
	p.OutDir = filepath.Join(l.OutputRoot, set)
	p.RefName = ReferenceName
	return p
}

// ResultPath is where this run's results are written.
func (p Params) ResultPath() string {
	return filepath.Join(p.OutDir, output.ResultFileName(p.Name))
}

// ReferencePath is where the baseline is read from; empty without a reference.
func (p Params) ReferencePath() string {
	if p.RefName == "" {
		return ""
	}
	return filepath.Join(p.SetDir, output.ResultFileName(p.RefName))
}
