package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsZeroValue(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.IssuePrefix)
}

func TestConfig_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{IssuePrefix: "demo"}
	require.NoError(t, cfg.Save(dir))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", got.IssuePrefix)
}

func TestFlags_DefaultsToSequential(t *testing.T) {
	dir := t.TempDir()
	flags, err := LoadFlags(dir)
	require.NoError(t, err)
	assert.False(t, flags.HashIDs)
}

func TestInferPrefix(t *testing.T) {
	storeDir := "/home/user/myproject/.textbeads"
	assert.Equal(t, "myproject", InferPrefix(storeDir))
}

func TestEnsureGitignore_CreatesWithRequiredEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureGitignore(dir))

	data, err := os.ReadFile(filepath.Join(dir, GitignoreName))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".textbeads.lock")
	assert.Contains(t, string(data), "command_history.log")
}

func TestEnsureGitignore_PreservesExistingEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, GitignoreName)
	require.NoError(t, os.WriteFile(path, []byte("*.tmp\n"), 0644))

	require.NoError(t, EnsureGitignore(dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "*.tmp")
	assert.Contains(t, string(data), ".textbeads.lock")
}
