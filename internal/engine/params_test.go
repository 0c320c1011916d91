package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlawever/astc-encoder/internal/model"
)

var discovered = []string{"Large", "Small"}

func defaultSelection() Selection {
	return Selection{Encoder: "avx2", Profile: All, Format: All, TestSet: "Small", Repeats: 1}
}

func TestResolveDefaults(t *testing.T) {
	m, err := Resolve(defaultSelection(), discovered)
	require.NoError(t, err)

	assert.Equal(t, []string{"avx2"}, m.Encoders)
	assert.Equal(t, []model.Profile{"ldr", "ldrs", "hdr"}, m.Profiles)
	assert.Equal(t, []model.Format{"l", "xy", "rgb", "rgba"}, m.Formats)
	assert.Equal(t, TestBlockSizes, m.BlockSizes)
	assert.Equal(t, []string{"Small"}, m.TestSets)
	assert.Equal(t, 1, m.Repeats)
}

func TestResolveAllEncodersExcludesReferences(t *testing.T) {
	sel := defaultSelection()
	sel.Encoder = All
	m, err := Resolve(sel, discovered)
	require.NoError(t, err)

	assert.Equal(t, []string{"nointrin", "sse2", "sse4.2", "avx2"}, m.Encoders)
	for _, ref := range []string{"1.7", "prototype", "intelispc"} {
		assert.NotContains(t, m.Encoders, ref)
	}
}

func TestResolveExplicitReference(t *testing.T) {
	sel := defaultSelection()
	sel.Encoder = "1.7"
	m, err := Resolve(sel, discovered)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.7"}, m.Encoders)
}

func TestResolveSelections(t *testing.T) {
	sel := Selection{
		Encoder:    "sse2",
		Profile:    "ldrs",
		Format:     "xy",
		BlockSizes: []string{"8x8", "3x3x3"},
		TestSet:    All,
		Repeats:    5,
	}
	m, err := Resolve(sel, discovered)
	require.NoError(t, err)
	assert.Equal(t, []model.Profile{model.ProfileLDRSRGB}, m.Profiles)
	assert.Equal(t, []model.Format{model.FormatXY}, m.Formats)
	assert.Equal(t, []string{"8x8", "3x3x3"}, m.BlockSizes)
	assert.Equal(t, discovered, m.TestSets)
	assert.Equal(t, 5, m.Repeats)

	sel.BlockSizes = []string{"4x4", All}
	m, err = Resolve(sel, discovered)
	require.NoError(t, err)
	assert.Equal(t, TestBlockSizes, m.BlockSizes)
}

func TestResolveRejects(t *testing.T) {
	tests := map[string]func(*Selection){
		"encoder":    func(s *Selection) { s.Encoder = "neon" },
		"profile":    func(s *Selection) { s.Profile = "sdr" },
		"format":     func(s *Selection) { s.Format = "cmyk" },
		"block size": func(s *Selection) { s.BlockSizes = []string{"10x10"} },
		"test set":   func(s *Selection) { s.TestSet = "Huge" },
		"repeats":    func(s *Selection) { s.Repeats = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			sel := defaultSelection()
			mutate(&sel)
			_, err := Resolve(sel, discovered)
			assert.Error(t, err)
		})
	}
}

func TestChoices(t *testing.T) {
	assert.Equal(t, []string{"1.7", "prototype", "intelispc", "nointrin", "sse2", "sse4.2", "avx2", "all"}, EncoderChoices())
	assert.Equal(t, []string{"ldr", "ldrs", "hdr", "all"}, ProfileChoices())
	assert.Equal(t, []string{"l", "xy", "rgb", "rgba", "all"}, FormatChoices())
	assert.Equal(t, "all", BlockSizeChoices()[len(BlockSizeChoices())-1])
}

func TestEncoderParams(t *testing.T) {
	l := Layout{ImageRoot: "Test/Images", OutputRoot: "TestOutput"}

	ref := EncoderParams("1.7", "Small", l)
	assert.Equal(t, "reference-1.7", ref.Name)
	assert.Equal(t, filepath.Join("Test/Images", "Small"), ref.OutDir)
	assert.Empty(t, ref.RefName)
	assert.Empty(t, ref.ReferencePath())
	assert.Equal(t, filepath.Join("Test/Images/Small", "astc_reference-1.7_results.csv"), ref.ResultPath())

	proto := EncoderParams("prototype", "Small", l)
	assert.Equal(t, "reference-prototype", proto.Name)
	assert.Empty(t, proto.RefName)

	dev := EncoderParams("avx2", "Small", l)
	assert.Equal(t, "develop-avx2", dev.Name)
	assert.Equal(t, filepath.Join("TestOutput", "Small"), dev.OutDir)
	assert.Equal(t, "reference-1.7", dev.RefName)
	assert.Equal(t, filepath.Join("TestOutput/Small", "astc_develop-avx2_results.csv"), dev.ResultPath())
	assert.Equal(t, filepath.Join("Test/Images/Small", "astc_reference-1.7_results.csv"), dev.ReferencePath())
}
