package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doppelganger/archviz/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archviz.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// No file at the default location: defaults apply.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "diagrams", cfg.OutputDir)
	assert.Equal(t, "png", cfg.Format)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
output_dir = "docs/diagrams"
format = "svg"
preview_addr = "localhost:9000"
topologies = ["topologies/*.yaml"]
disabled = ["sidecar_relay"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs/diagrams", cfg.OutputDir)
	assert.Equal(t, "svg", cfg.Format)
	assert.Equal(t, "localhost:9000", cfg.PreviewAddr)
	assert.Equal(t, []string{"topologies/*.yaml"}, cfg.Topologies)
	assert.True(t, cfg.IsDisabled("sidecar_relay"))
	assert.False(t, cfg.IsDisabled("advanced_web_service"))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `format = "jpg"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jpg", cfg.Format)
	assert.Equal(t, Default().OutputDir, cfg.OutputDir)
	assert.Equal(t, Default().PreviewAddr, cfg.PreviewAddr)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `outptu_dir = "typo"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "outptu_dir")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad format", `format = "gif"`},
		{"empty output dir", `output_dir = ""`},
		{"disabled with separator", `disabled = ["a/b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
		})
	}
}

func TestWatchPaths(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "archviz.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`format = "png"`), 0644))

	cfg := Default()
	cfg.Topologies = []string{
		filepath.Join(dir, "topologies", "*.yaml"),
		filepath.Join(dir, "topologies", "*.yml"), // same dir, de-duplicated
	}

	paths := cfg.WatchPaths(cfgPath)
	assert.Contains(t, paths, dir)
	assert.Contains(t, paths, filepath.Join(dir, "topologies"))
	assert.Len(t, paths, 2)
}
