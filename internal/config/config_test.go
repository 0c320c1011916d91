package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Test/Images", cfg.ImageRoot)
	assert.Equal(t, "TestOutput", cfg.OutputRoot)
	assert.Equal(t, Thresholds{Warn: -0.1, Fail: -0.2, Fail3D: -0.6}, cfg.Thresholds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := `
image_root: /data/images
thresholds:
  fail_3d: -1.0
binaries:
  avx2: /opt/astc/astcenc-avx2
json_results: true
redis:
  addr: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/images", cfg.ImageRoot)
	assert.Equal(t, "TestOutput", cfg.OutputRoot)
	assert.Equal(t, -0.1, cfg.Thresholds.Warn)
	assert.Equal(t, -0.2, cfg.Thresholds.Fail)
	assert.Equal(t, -1.0, cfg.Thresholds.Fail3D)
	assert.Equal(t, "/opt/astc/astcenc-avx2", cfg.Binaries["avx2"])
	assert.True(t, cfg.JSONResults)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "astc:results", cfg.Redis.Stream)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadNoDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"positive threshold": "thresholds:\n  warn: 0.5\n",
		"fail above warn":    "thresholds:\n  warn: -0.3\n  fail: -0.2\n",
		"bad level":          "log_level: loud\n",
		"bad yaml":           "thresholds: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			require.NoError(t, os.WriteFile(path, []byte(data), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}
