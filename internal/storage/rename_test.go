package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textbeads/textbeads/internal/types"
)

func TestRenameWithTextReference(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateIssue(CreateOptions{Title: "a", Description: "See demo-2 for context", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)

	_, err = s.RenameIssue("demo-2", "demo-7", false)
	require.NoError(t, err)

	got, err := s.GetIssue("demo-1")
	require.NoError(t, err)
	assert.Equal(t, "See demo-7 for context", got.Description)

	_, err = s.GetIssue("demo-2")
	assert.Error(t, err)
	_, err = s.GetIssue("demo-7")
	assert.NoError(t, err)
}

func TestRenameIssue_DryRunDoesNotWrite(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask})
	require.NoError(t, err)

	changes, err := s.RenameIssue("demo-1", "demo-9", true)
	require.NoError(t, err)
	assert.NotEmpty(t, changes)

	_, err = s.GetIssue("demo-1")
	assert.NoError(t, err)
	_, err = s.GetIssue("demo-9")
	assert.Error(t, err)
}

func TestRenameIssue_FailsWhenTargetExists(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)

	_, err = s.RenameIssue("demo-1", "demo-2", false)
	assert.Error(t, err)
}

func TestRenameIssue_UpdatesDependencyKeyPreservingKind(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)
	require.NoError(t, s.AddDependency("demo-2", "demo-1", types.DepBlocks))

	_, err = s.RenameIssue("demo-1", "demo-5", false)
	require.NoError(t, err)

	got, err := s.GetIssue("demo-2")
	require.NoError(t, err)
	assert.Equal(t, types.DepBlocks, got.DependsOn["demo-5"])
	_, stillHasOld := got.DependsOn["demo-1"]
	assert.False(t, stillHasOld)
}

// Renaming p -> q -> p restores demo-1's title and its free-text reference
// to demo-2.
func TestPrefixRenameIdempotence(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", Description: "ref demo-2", IssueType: types.TypeTask})
	require.NoError(t, err)
	_, err = s.CreateIssue(CreateOptions{Title: "b", IssueType: types.TypeTask})
	require.NoError(t, err)

	before, err := s.GetIssue("demo-1")
	require.NoError(t, err)

	_, err = s.PrefixRename("other", false, false)
	require.NoError(t, err)
	_, err = s.PrefixRename("demo", false, false)
	require.NoError(t, err)

	after, err := s.GetIssue("demo-1")
	require.NoError(t, err)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Description, after.Description)
}

func TestRepairReferences_DropsBrokenEdge(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask, Deps: []types.Dependency{{ID: "demo-999", Type: "related"}}})
	require.NoError(t, err)

	changes, err := s.RepairReferences(false)
	require.NoError(t, err)
	assert.NotEmpty(t, changes)

	got, err := s.GetIssue("demo-1")
	require.NoError(t, err)
	assert.Empty(t, got.DependsOn)
}

func TestRepairReferences_DryRunDoesNotMutate(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateIssue(CreateOptions{Title: "a", IssueType: types.TypeTask, Deps: []types.Dependency{{ID: "demo-999", Type: "related"}}})
	require.NoError(t, err)

	changes, err := s.RepairReferences(true)
	require.NoError(t, err)
	assert.NotEmpty(t, changes)

	got, err := s.GetIssue("demo-1")
	require.NoError(t, err)
	assert.NotEmpty(t, got.DependsOn)
}
