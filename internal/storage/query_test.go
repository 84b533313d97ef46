package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textbeads/textbeads/internal/types"
)

func TestGetIssue_ComputesDependents(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)
	require.NoError(t, s.AddDependency("demo-2", a.ID, types.DepRelated))

	got, err := s.GetIssue(a.ID)
	require.NoError(t, err)
	require.Len(t, got.Dependents, 1)
	assert.Equal(t, "demo-2", got.Dependents[0].ID)
}

func TestGetIssue_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetIssue("demo-999")
	assert.Error(t, err)
}

func TestListIssues_SortsByCreatedAtAscending(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "first", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "second", IssueType: types.TypeTask})
	require.NoError(t, err)

	issues, err := s.ListIssues(ListFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.True(t, issues[0].CreatedAt.Before(issues[1].CreatedAt) || issues[0].CreatedAt.Equal(issues[1].CreatedAt))
}

func TestDependencyTree_FlagsCycle(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)
	require.NoError(t, s.AddDependency("demo-1", "demo-2", types.DepRelated))
	require.NoError(t, s.AddDependency("demo-2", "demo-1", types.DepRelated))

	tree, err := s.DependencyTree("demo-1", 10, false)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	require.Len(t, tree.Children[0].Children, 1)
	assert.True(t, tree.Children[0].Children[0].IsCycle)
}

func TestDetectCycles_FindsDirectedCycle(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)
	require.NoError(t, s.AddDependency("demo-1", "demo-2", types.DepRelated))
	require.NoError(t, s.AddDependency("demo-2", "demo-1", types.DepRelated))

	cycles, err := s.DetectCycles()
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0], 2)
}
