package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTodo(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.md"), []byte(content), 0o644))
}

func TestTasksCommand_RendersTable(t *testing.T) {
	dir := t.TempDir()
	writeTodo(t, dir, `# Todo

- [x] **P0** Ship the first feature
- [ ] **P1** Write the changelog
`)

	var buf bytes.Buffer
	cmd := newTasksCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-p", dir})
	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Ship the first feature")
	assert.Contains(t, output, "Write the changelog")
	assert.Contains(t, output, "Next up: [P1] Write the changelog")
}

func TestTasksCommand_AllDone(t *testing.T) {
	dir := t.TempDir()
	writeTodo(t, dir, "- [x] **P0** Done already\n")

	var buf bytes.Buffer
	cmd := newTasksCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-p", dir})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "All tasks completed")
}

func TestTasksCommand_NoTaskItems(t *testing.T) {
	dir := t.TempDir()
	writeTodo(t, dir, "# Empty\n\nNothing here yet.\n")

	var buf bytes.Buffer
	cmd := newTasksCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-p", dir})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "No tasks found")
}

func TestTasksCommand_MissingFile(t *testing.T) {
	cmd := newTasksCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-p", t.TempDir()})
	require.Error(t, cmd.Execute())
}
