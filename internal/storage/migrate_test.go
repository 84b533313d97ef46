package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textbeads/textbeads/internal/config"
	"github.com/textbeads/textbeads/internal/types"
)

func TestMigrateSequentialToHash(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)
	require.NoError(t, s.AddDependency("demo-2", "demo-1", types.DepBlocks))

	report, err := s.MigrateToHash(false, true, false)
	require.NoError(t, err)
	require.Len(t, report.Mapping, 2)

	newIDForOne := report.Mapping["demo-1"]
	newIDForTwo := report.Mapping["demo-2"]

	got, err := s.GetIssue(newIDForTwo)
	require.NoError(t, err)
	assert.Equal(t, types.DepBlocks, got.DependsOn[newIDForOne])

	flags, err := config.LoadFlags(s.Dir())
	require.NoError(t, err)
	assert.True(t, flags.HashIDs)
}

func TestMigrateHashToSequentialWithAllDigitHash(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ids := []string{"demo-1", "demo-2", "demo-3", "demo-4", "demo-7418392"}
	for i, id := range ids {
		issue, err := s.CreateIssue(CreateOptions{ID: id, Title: id, IssueType: types.TypeTask})
		require.NoError(t, err)
		issue.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		issue.UpdatedAt = issue.CreatedAt
		require.NoError(t, s.writeIssue(issue))
	}

	report, err := s.MigrateToSequential(false, true, 100)
	require.NoError(t, err)
	require.Contains(t, report.Reclassified, "demo-7418392")
	assert.Equal(t, "demo-5", report.Mapping["demo-7418392"])

	got, err := s.GetIssue("demo-5")
	require.NoError(t, err)
	assert.Equal(t, "demo-7418392", got.Title)

	flags, err := config.LoadFlags(s.Dir())
	require.NoError(t, err)
	assert.False(t, flags.HashIDs)
}
