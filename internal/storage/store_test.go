package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesConfigAndIssuesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "myproject", ".textbeads")
	s, err := Init(dir, "demo")
	require.NoError(t, err)

	prefix, err := s.GetPrefix()
	require.NoError(t, err)
	assert.Equal(t, "demo", prefix)
	assert.DirExists(t, s.IssuesDir())
}

func TestInit_InfersPrefixWhenNotGiven(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "myproject", ".textbeads")
	s, err := Init(dir, "")
	require.NoError(t, err)

	prefix, err := s.GetPrefix()
	require.NoError(t, err)
	assert.Equal(t, "myproject", prefix)
}

func TestOpen_OnExistingStoreReusesConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(dir, "demo")
	require.NoError(t, err)

	s, err := Open(dir)
	require.NoError(t, err)
	prefix, err := s.GetPrefix()
	require.NoError(t, err)
	assert.Equal(t, "demo", prefix)
}
