package jsonl

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textbeads/textbeads/internal/types"
)

func TestWriteIssuesToFile_SortsByID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issues.jsonl")

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := types.New("demo-2", "second", 2, types.TypeTask)
	b.CreatedAt, b.UpdatedAt = now, now
	a := types.New("demo-1", "first", 2, types.TypeTask)
	a.CreatedAt, a.UpdatedAt = now, now

	require.NoError(t, WriteIssuesToFile(path, []*types.Issue{b, a}))

	got, err := ReadIssuesFromFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "demo-1", got[0].ID)
	assert.Equal(t, "demo-2", got[1].ID)
}

func TestWriteIssuesToFile_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issues.jsonl")

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := types.New("demo-1", "first", 2, types.TypeTask)
	first.CreatedAt, first.UpdatedAt = now, now
	require.NoError(t, WriteIssuesToFile(path, []*types.Issue{first}))

	second := types.New("demo-2", "second", 2, types.TypeTask)
	second.CreatedAt, second.UpdatedAt = now, now
	require.NoError(t, WriteIssuesToFile(path, []*types.Issue{second}))

	got, err := ReadIssuesFromFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "demo-2", got[0].ID)
}
