package syncengine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textbeads/textbeads/internal/jsonl"
	"github.com/textbeads/textbeads/internal/textformat"
	"github.com/textbeads/textbeads/internal/types"
)

func newIssue(id, title string, updatedAt time.Time) *types.Issue {
	issue := types.New(id, title, 2, types.TypeTask)
	issue.CreatedAt = updatedAt
	issue.UpdatedAt = updatedAt
	return issue
}

func writeMarkdownFile(t *testing.T, dir, id string, issue *types.Issue, mtime time.Time) {
	t.Helper()
	issuesDir := filepath.Join(dir, issuesSubdir)
	require.NoError(t, os.MkdirAll(issuesDir, 0o755))
	content, err := textformat.ToMarkdown(issue)
	require.NoError(t, err)
	path := filepath.Join(issuesDir, id+".md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func writeJSONLFile(t *testing.T, dir string, issues ...*types.Issue) {
	t.Helper()
	require.NoError(t, jsonl.WriteIssuesToFile(filepath.Join(dir, jsonlName), issues))
}

func TestBidirectionalSync(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a := newIssue("demo-1", "a", base)
	b := newIssue("demo-2", "b", base)
	writeMarkdownFile(t, dir, "demo-1", a, base)
	writeMarkdownFile(t, dir, "demo-2", b, base)

	engine := New()
	_, report, err := engine.Run(dir, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.CreatedInJSONL)

	jsIssues, err := LoadJSONLIssues(dir)
	require.NoError(t, err)
	assert.Equal(t, base, jsIssues["demo-1"].UpdatedAt.UTC())
	assert.Equal(t, base, jsIssues["demo-2"].UpdatedAt.UTC())

	later := base.Add(2 * time.Hour)
	c := newIssue("demo-3", "c", later)
	writeJSONLFile(t, dir, jsIssues["demo-1"].Issue, jsIssues["demo-2"].Issue, c)

	_, report, err = engine.Run(dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.CreatedInMarkdown)

	info, err := os.Stat(filepath.Join(dir, issuesSubdir, "demo-3.md"))
	require.NoError(t, err)
	assert.WithinDuration(t, later, info.ModTime(), time.Second)

	updatedA := newIssue("demo-1", "a changed", base)
	editTime := later.Add(2 * time.Hour)
	writeMarkdownFile(t, dir, "demo-1", updatedA, editTime)

	_, report, err = engine.Run(dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UpdatedJSONL)

	jsIssues, err = LoadJSONLIssues(dir)
	require.NoError(t, err)
	assert.Equal(t, "a changed", jsIssues["demo-1"].Issue.Title)
	assert.Equal(t, "c", jsIssues["demo-3"].Issue.Title)

	// Once converged, another sync changes nothing.
	_, report, err = engine.Run(dir, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalChanges())
}

func TestAnalyze_ClassifiesEveryCategory(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	engine := New()

	md := map[string]MarkdownIssue{
		"md-only":   {Issue: newIssue("md-only", "x", base), MTime: base},
		"md-newer":  {Issue: newIssue("md-newer", "x", base), MTime: base.Add(time.Hour)},
		"js-newer":  {Issue: newIssue("js-newer", "x", base), MTime: base},
		"no-change": {Issue: newIssue("no-change", "x", base), MTime: base},
	}
	js := map[string]JSONLIssue{
		"js-only":   {Issue: newIssue("js-only", "y", base), UpdatedAt: base},
		"js-newer":  {Issue: newIssue("js-newer", "y", base.Add(time.Hour)), UpdatedAt: base.Add(time.Hour)},
		"md-newer":  {Issue: newIssue("md-newer", "y", base), UpdatedAt: base},
		"no-change": {Issue: newIssue("no-change", "y", base), UpdatedAt: base},
	}

	plan := engine.Analyze(md, js)
	assert.Equal(t, []string{"md-only"}, plan.MarkdownOnly)
	assert.Equal(t, []string{"js-only"}, plan.JSONLOnly)
	assert.Equal(t, []string{"md-newer"}, plan.MarkdownNewer)
	assert.Equal(t, []string{"js-newer"}, plan.JSONLNewer)
	assert.Equal(t, []string{"no-change"}, plan.NoChange)
	assert.Empty(t, plan.Conflicts)
}

func TestCompareTimestamps_WithinToleranceIsNoChange(t *testing.T) {
	engine := NewWithTolerance(1000)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, engine.compareTimestamps(base.Add(500*time.Millisecond), base))
	assert.Equal(t, 1, engine.compareTimestamps(base.Add(2*time.Second), base))
	assert.Equal(t, -1, engine.compareTimestamps(base.Add(-2*time.Second), base))
}

func TestRun_DryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	writeMarkdownFile(t, dir, "demo-1", newIssue("demo-1", "a", base), base)

	engine := New()
	plan, report, err := engine.Run(dir, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-1"}, plan.MarkdownOnly)
	assert.Equal(t, 0, report.CreatedInJSONL)

	_, err = os.Stat(filepath.Join(dir, jsonlName))
	assert.True(t, os.IsNotExist(err))
}
