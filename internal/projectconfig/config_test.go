package projectconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultEngine, cfg.Engine)
	assert.Equal(t, DefaultTaskFile, cfg.TaskFile)
	assert.Equal(t, DefaultAgentsDir, cfg.AgentsDir)
	assert.Equal(t, DefaultCycles, cfg.Loop.Cycles)
	assert.Equal(t, DefaultPauseSeconds, cfg.Loop.PauseSeconds)
}

func TestLoad_MergesFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "model: claude-sonnet-4\nloop:\n  cycles: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".autocoder.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4", cfg.Model)
	assert.Equal(t, 5, cfg.Loop.Cycles)
	// Unset fields keep defaults.
	assert.Equal(t, DefaultEngine, cfg.Engine)
	assert.Equal(t, DefaultPauseSeconds, cfg.Loop.PauseSeconds)
}

func TestLoad_WalksUpToParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".autocoder.yaml"), []byte("engine: mock\n"), 0o644))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Engine)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".autocoder.yaml"), []byte("loop: [broken\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .autocoder.yaml")
}
