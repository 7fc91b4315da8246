package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand_CreatesProjectStructure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "my-project")

	var buf bytes.Buffer
	cmd := newInitCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{target})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(target, "todo.md"))
	assert.FileExists(t, filepath.Join(target, ".autocoder", "agents", "todo-agent.md"))
	assert.FileExists(t, filepath.Join(target, ".autocoder", "agents", "developer.md"))
	assert.FileExists(t, filepath.Join(target, ".autocoder", "agents", "git-agent.md"))

	output := buf.String()
	assert.Contains(t, output, "Initialized project")
	assert.Contains(t, output, "todo.md")
}

func TestInitCommand_Idempotent(t *testing.T) {
	dir := t.TempDir()

	cmd1 := newInitCommand()
	cmd1.SetOut(&bytes.Buffer{})
	cmd1.SetArgs([]string{dir})
	require.NoError(t, cmd1.Execute())

	var buf bytes.Buffer
	cmd2 := newInitCommand()
	cmd2.SetOut(&buf)
	cmd2.SetArgs([]string{dir})
	require.NoError(t, cmd2.Execute())

	assert.Contains(t, buf.String(), "already initialized")
}

func TestInitCommand_PreservesExistingTodo(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "todo.md")
	require.NoError(t, os.WriteFile(existing, []byte("# Mine\n"), 0o644))

	cmd := newInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "# Mine\n", string(content))
}
