package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DefaultWorkflows)
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
log_level = "debug"
default_workflows = ["build", "ui"]
manifest_dir = "/etc/xcmcp/manifest"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"build", "ui"}, cfg.DefaultWorkflows)
	assert.Equal(t, "/etc/xcmcp/manifest", cfg.ManifestDir)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("log_level = ["), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := Config{LogLevel: "warn", DefaultWorkflows: []string{"simulator"}}
	require.NoError(t, Save(dir, in))

	out, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, in.LogLevel, out.LogLevel)
	assert.Equal(t, in.DefaultWorkflows, out.DefaultWorkflows)
}

func TestDirHonorsEnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	t.Setenv("XCMCP_HOME", dir)

	got, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
