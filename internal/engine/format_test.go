package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlawever/astc-encoder/internal/model"
)

func TestFormatSolo(t *testing.T) {
	rec := model.NewRecord("4x4", "ldr-rgb-00.png", 38.5, 1.25, 0.5)
	assert.Equal(t, "  4x4 ldr-rgb-00.png | 38.50000 dB | 1.25000 s | 0.50000 s", FormatSolo(rec))
}

func TestFormatResult(t *testing.T) {
	ref := model.NewRecord("4x4", "ldr-rgb-00.png", 40, 2, 1)
	res := model.NewRecord("4x4", "ldr-rgb-00.png", 39.75, 1, 0.5)
	require.NoError(t, res.SetVerdict(model.Fail))

	want := "  4x4 ldr-rgb-00.png             |  39.750 dB (-0.250 dB) |  1.00 s (2.0x) |  0.50 s (2.0x) | FAIL"
	assert.Equal(t, want, FormatResult(ref, res))
}

func TestFormatResultSigns(t *testing.T) {
	ref := model.NewRecord("6x6x6", "cube.dds", 30, 1, 1)
	res := model.NewRecord("6x6x6", "cube.dds", 30.25, 2, 5)
	require.NoError(t, res.SetVerdict(model.Pass))

	line := FormatResult(ref, res)
	assert.Contains(t, line, "30.250 dB ( 0.250 dB)")
	assert.Contains(t, line, "2.00 s (0.5x)")
	assert.Contains(t, line, "5.00 s (0.2x)")
	assert.Contains(t, line, "| PASS")
}

func TestFormatTitle(t *testing.T) {
	assert.Equal(t, "Test Set: Small / Encoder: astcenc-avx2\n=======================================", FormatTitle("Small", "astcenc-avx2"))
}
