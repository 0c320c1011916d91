package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlawever/astc-encoder/internal/engine"
	"github.com/outlawever/astc-encoder/internal/model"
	"github.com/outlawever/astc-encoder/internal/output"
)

// execute runs the root command with fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, logLevel = "", "error"
	encoderFlag, profileFlag, formatFlag = "avx2", engine.All, engine.All
	blockSizeFlags, testSetFlag, repeatsFlag = nil, "Small", 1
	imageRootFlag, outputRootFlag, redisAddrFlag = "", "", ""
	jsonResultsFlag, listImagesFlag = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, data string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), mode))
}

func saveSet(t *testing.T, path string, recs ...*model.Record) {
	t.Helper()
	rs := model.NewResultSet("Small")
	for _, r := range recs {
		require.NoError(t, rs.Add(r))
	}
	require.NoError(t, output.SaveResultSet(path, rs))
}

func TestChoiceValue(t *testing.T) {
	var s string
	v := newChoiceValue(&s, "b", []string{"a", "b"})
	assert.Equal(t, "b", v.String())
	require.NoError(t, v.Set("a"))
	assert.Equal(t, "a", s)
	assert.Error(t, v.Set("c"))
	assert.Equal(t, "a", s)

	var list []string
	sv := newChoiceSliceValue(&list, []string{"4x4", "6x6", "all"})
	require.NoError(t, sv.Set("4x4"))
	require.NoError(t, sv.Append("6x6"))
	assert.Equal(t, []string{"4x4", "6x6"}, sv.GetSlice())
	assert.Error(t, sv.Set("7x7"))
	require.NoError(t, sv.Replace([]string{"all"}))
	assert.Equal(t, []string{"all"}, list)
	assert.Equal(t, "[all]", sv.String())
}

func TestRunRejectsInvalidChoices(t *testing.T) {
	for _, args := range [][]string{
		{"run", "--encoder", "neon"},
		{"run", "--color-profile", "sdr"},
		{"run", "--color-format", "cmyk"},
		{"run", "--block-size", "10x10"},
	} {
		_, err := execute(t, args...)
		assert.Error(t, err, args)
	}
}

func TestRunUnknownTestSet(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Small"), 0755))

	_, err := execute(t, "run", "--image-root", root, "--test-set", "Huge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Huge")
}

func TestRunEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the encoder")
	}
	dir := t.TempDir()
	imageRoot := filepath.Join(dir, "Images")
	outputRoot := filepath.Join(dir, "Output")

	bin := filepath.Join(dir, "astcenc-avx2")
	writeFile(t, bin, "#!/bin/sh\necho 'PSNR (LDR-RGBA): 40.000 dB'\necho 'Total time: 1.0 s'\necho 'Coding time: 0.5 s'\n", 0755)
	cfg := filepath.Join(dir, "astc_test.yaml")
	writeFile(t, cfg, "binaries:\n  avx2: "+bin+"\n", 0644)

	writeFile(t, filepath.Join(imageRoot, "Small", "LDR-RGB", "ldr-rgb-a.png"), "x", 0644)
	writeFile(t, filepath.Join(imageRoot, "Small", "3D", "ldr-l-3d-cube.dds"), "x", 0644)
	refPath := filepath.Join(imageRoot, "Small", "astc_reference-1.7_results.csv")

	t.Run("pass", func(t *testing.T) {
		saveSet(t, refPath,
			model.NewRecord("4x4", "LDR-RGB/ldr-rgb-a.png", 40, 1, 0.5),
			model.NewRecord("6x6x6", "3D/ldr-l-3d-cube.dds", 40, 1, 0.5),
		)
		out, err := execute(t, "run", "--config", cfg, "--image-root", imageRoot, "--output-root", outputRoot,
			"--block-size", "4x4", "--block-size", "6x6x6", "--json")
		require.NoError(t, err)
		assert.Contains(t, out, "Set Status: PASS (PASS: 2, WARN: 0, FAIL: 0)")

		_, err = os.Stat(filepath.Join(outputRoot, "Small", "astc_develop-avx2_results.csv"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(outputRoot, "Small", "astc_develop-avx2_results.jsonl"))
		assert.NoError(t, err)
	})

	t.Run("fail", func(t *testing.T) {
		saveSet(t, refPath,
			model.NewRecord("4x4", "LDR-RGB/ldr-rgb-a.png", 40.5, 1, 0.5),
		)
		out, err := execute(t, "run", "--config", cfg, "--image-root", imageRoot, "--output-root", outputRoot,
			"--block-size", "4x4")
		assert.ErrorIs(t, err, engine.ErrRegression)
		assert.Contains(t, out, "| FAIL")
	})
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	res := filepath.Join(dir, "Small", "res.csv")
	ref := filepath.Join(dir, "Small", "ref.csv")
	saveSet(t, ref, model.NewRecord("4x4", "a.png", 40, 2, 1), model.NewRecord("6x6x6", "b.dds", 30, 2, 1))

	saveSet(t, res, model.NewRecord("4x4", "a.png", 39.95, 1, 1), model.NewRecord("6x6x6", "b.dds", 29.7, 1, 1))
	out, err := execute(t, "compare", res, ref)
	require.NoError(t, err)
	assert.Contains(t, out, "[  1]   4x4 a.png")
	assert.Contains(t, out, "Set Status: WARN (PASS: 1, WARN: 1, FAIL: 0)")

	saveSet(t, res, model.NewRecord("4x4", "a.png", 39, 1, 1))
	_, err = execute(t, "compare", res, ref)
	assert.ErrorIs(t, err, engine.ErrRegression)

	saveSet(t, res, model.NewRecord("8x8", "a.png", 39, 1, 1))
	_, err = execute(t, "compare", res, ref)
	assert.ErrorIs(t, err, model.ErrNoMatchingRecord)
}

func TestListSets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Small", "ldr-rgb-a.png"), "x", 0644)
	writeFile(t, filepath.Join(root, "Small", "hdr-rgba-3d-b.dds"), "x", 0644)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Empty"), 0755))

	out, err := execute(t, "list-sets", "--image-root", root, "--images")
	require.NoError(t, err)
	assert.Equal(t, "Empty (0 images)\nSmall (2 images)\n- hdr-rgba-3d-b.dds [hdr rgba 3D]\n- ldr-rgb-a.png [ldr rgb 2D]\n", out)
}
