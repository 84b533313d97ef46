package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textbeads/textbeads/internal/types"
)

func TestExportImportJSONL_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "issues.jsonl")
	n, err := s.ExportJSONL(path, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s2 := newTestStore(t)
	result, err := s2.ImportJSONL(path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)

	got, err := s2.GetIssue("demo-1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
}

func TestImportJSONL_SkipsExistingWithoutOverwrite(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "original", IssueType: types.TypeTask})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "issues.jsonl")
	_, err = s.ExportJSONL(path, ListFilter{})
	require.NoError(t, err)

	_, err = s.UpdateIssue("demo-1", map[string]string{"title": "changed locally"})
	require.NoError(t, err)

	result, err := s.ImportJSONL(path, false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	got, err := s.GetIssue("demo-1")
	require.NoError(t, err)
	assert.Equal(t, "changed locally", got.Title)
}
