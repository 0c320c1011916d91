package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlawever/astc-encoder/internal/config"
	"github.com/outlawever/astc-encoder/internal/model"
)

var defaultThresholds = config.DefaultConfig().Thresholds

// classifyDelta builds records whose PSNR difference is exactly delta.
func classifyDelta(is3D bool, delta float64) model.Verdict {
	var ref, res *model.Record
	if delta < 0 {
		ref = model.NewRecord("4x4", "a.png", -delta, 1, 1)
		res = model.NewRecord("4x4", "a.png", 0, 1, 1)
	} else {
		ref = model.NewRecord("4x4", "a.png", 0, 1, 1)
		res = model.NewRecord("4x4", "a.png", delta, 1, 1)
	}
	return Classify(defaultThresholds, model.Image{Is3D: is3D}, ref, res)
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		is3D  bool
		delta float64
		want  model.Verdict
	}{
		{"2D exactly at fail is not fail", false, -0.2, model.Warn},
		{"2D just below fail", false, -0.20001, model.Fail},
		{"3D exactly at 3D fail is not fail", true, -0.6, model.Warn},
		{"3D just below 3D fail", true, -0.60001, model.Fail},
		{"3D below 2D fail only warns", true, -0.3, model.Warn},
		{"exactly at warn passes", false, -0.1, model.Pass},
		{"just below warn", false, -0.10001, model.Warn},
		{"3D just below warn", true, -0.10001, model.Warn},
		{"no change", false, 0, model.Pass},
		{"improvement", false, 1.5, model.Pass},
		{"3D improvement", true, 0.2, model.Pass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyDelta(tt.is3D, tt.delta))
		})
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	th := config.Thresholds{Warn: -0.5, Fail: -1, Fail3D: -2}
	ref := model.NewRecord("4x4", "a.png", 1.5, 1, 1)
	res := model.NewRecord("4x4", "a.png", 0.75, 1, 1)
	assert.Equal(t, model.Warn, Classify(th, model.Image{}, ref, res))
}

func TestCompareOffline(t *testing.T) {
	ref := model.NewResultSet("Small")
	require.NoError(t, ref.Add(model.NewRecord("4x4", "a.png", 40, 2, 1)))
	require.NoError(t, ref.Add(model.NewRecord("6x6x6", "cube.dds", 30, 2, 1)))

	res := model.NewResultSet("Small")
	require.NoError(t, res.Add(model.NewRecord("4x4", "a.png", 39.5, 1, 1)))
	require.NoError(t, res.Add(model.NewRecord("6x6x6", "cube.dds", 29.5, 1, 1)))

	entries, err := Compare(defaultThresholds, res, ref)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, model.Fail, entries[0].Record.Verdict())
	assert.Equal(t, model.Warn, entries[1].Record.Verdict(), "3D threshold applies to 3D block sizes")
	assert.True(t, entries[1].Image.Is3D)
	assert.Equal(t, model.Fail, res.Summary().Worst)

	_, err = Compare(defaultThresholds, res, ref)
	assert.ErrorIs(t, err, model.ErrVerdictSet, "records are classified once")
}

func TestCompareUnmatched(t *testing.T) {
	ref := model.NewResultSet("Small")
	res := model.NewResultSet("Small")
	require.NoError(t, res.Add(model.NewRecord("4x4", "new.png", 40, 1, 1)))

	_, err := Compare(defaultThresholds, res, ref)
	assert.ErrorIs(t, err, model.ErrNoMatchingRecord)
}
