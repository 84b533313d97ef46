// Package syncengine reconciles the markdown issue files and the
// issues.jsonl projection: load both sides with their timestamps,
// classify every id by a tolerance-based timestamp comparison, then apply
// changes in a fixed order so a reader always sees text creation happen
// before JSON replace.
package syncengine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/textbeads/textbeads/internal/jsonl"
	"github.com/textbeads/textbeads/internal/textformat"
	"github.com/textbeads/textbeads/internal/types"
)

const issuesSubdir = "issues"
const jsonlName = "issues.jsonl"

// defaultToleranceMs is the default timestamp comparison window.
const defaultToleranceMs = 1000

// MarkdownIssue pairs a parsed issue with the filesystem mtime of the file
// it came from.
type MarkdownIssue struct {
	Issue *types.Issue
	MTime time.Time
	Path  string
}

// JSONLIssue pairs a parsed issue with its updated_at field, the JSONL
// side's notion of "last changed".
type JSONLIssue struct {
	Issue     *types.Issue
	UpdatedAt time.Time
}

// Plan is the set-union classification of every id on either side.
type Plan struct {
	MarkdownOnly  []string
	JSONLOnly     []string
	MarkdownNewer []string
	JSONLNewer    []string
	NoChange      []string
	Conflicts     []string
}

// IsEmpty reports whether applying this plan would do anything.
func (p *Plan) IsEmpty() bool {
	return len(p.MarkdownOnly) == 0 && len(p.JSONLOnly) == 0 &&
		len(p.MarkdownNewer) == 0 && len(p.JSONLNewer) == 0 && len(p.Conflicts) == 0
}

// TotalChanges counts the entries a non-dry-run Apply would write.
func (p *Plan) TotalChanges() int {
	return len(p.MarkdownOnly) + len(p.JSONLOnly) + len(p.MarkdownNewer) + len(p.JSONLNewer)
}

// Report is the outcome of Apply.
type Report struct {
	CreatedInJSONL    int
	CreatedInMarkdown int
	UpdatedJSONL      int
	UpdatedMarkdown   int
	SkippedConflicts  int
	Errors            []string
}

// TotalChanges counts the writes Apply actually performed.
func (r *Report) TotalChanges() int {
	return r.CreatedInJSONL + r.CreatedInMarkdown + r.UpdatedJSONL + r.UpdatedMarkdown
}

// Engine runs sync analysis and application for one store directory.
type Engine struct {
	toleranceMs int64
}

// New creates a sync engine with the default 1000ms tolerance.
func New() *Engine {
	return NewWithTolerance(defaultToleranceMs)
}

// NewWithTolerance creates a sync engine with a caller-chosen tolerance, in
// milliseconds.
func NewWithTolerance(toleranceMs int64) *Engine {
	return &Engine{toleranceMs: toleranceMs}
}

// compareTimestamps returns -1 if mtime is older than jsonlTime outside
// tolerance, +1 if it's newer, 0 if the two are within tolerance.
func (e *Engine) compareTimestamps(mtime, jsonlTime time.Time) int {
	diffMs := mtime.Sub(jsonlTime).Milliseconds()
	switch {
	case diffMs > e.toleranceMs:
		return 1
	case diffMs < -e.toleranceMs:
		return -1
	default:
		return 0
	}
}

// LoadMarkdownIssues reads every *.md file under dir/issues, returning a
// map keyed by issue id. A missing issues directory is not an error — it
// is an empty store.
func LoadMarkdownIssues(dir string) (map[string]MarkdownIssue, error) {
	issuesDir := filepath.Join(dir, issuesSubdir)
	entries, err := os.ReadDir(issuesDir)
	if os.IsNotExist(err) {
		return map[string]MarkdownIssue{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", types.ErrIO, issuesDir, err)
	}

	result := make(map[string]MarkdownIssue, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		id := strings.TrimSuffix(name, ".md")
		path := filepath.Join(issuesDir, name)

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %v", types.ErrIO, path, err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", types.ErrIO, path, err)
		}
		issue, err := textformat.FromMarkdown(id, string(content))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		result[id] = MarkdownIssue{Issue: issue, MTime: info.ModTime(), Path: path}
	}
	return result, nil
}

// LoadJSONLIssues reads the store's issues.jsonl, returning a map keyed by
// issue id. A missing file is not an error — it is an empty projection.
func LoadJSONLIssues(dir string) (map[string]JSONLIssue, error) {
	path := filepath.Join(dir, jsonlName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]JSONLIssue{}, nil
	}
	issues, err := jsonl.ReadIssuesFromFile(path)
	if err != nil {
		return nil, err
	}
	result := make(map[string]JSONLIssue, len(issues))
	for _, issue := range issues {
		result[issue.ID] = JSONLIssue{Issue: issue, UpdatedAt: issue.UpdatedAt}
	}
	return result, nil
}

// Analyze classifies every id present in either side.
func (e *Engine) Analyze(md map[string]MarkdownIssue, js map[string]JSONLIssue) *Plan {
	ids := make(map[string]struct{}, len(md)+len(js))
	for id := range md {
		ids[id] = struct{}{}
	}
	for id := range js {
		ids[id] = struct{}{}
	}

	plan := &Plan{}
	for id := range ids {
		mdIssue, hasMd := md[id]
		jsIssue, hasJs := js[id]
		switch {
		case hasMd && !hasJs:
			plan.MarkdownOnly = append(plan.MarkdownOnly, id)
		case !hasMd && hasJs:
			plan.JSONLOnly = append(plan.JSONLOnly, id)
		case hasMd && hasJs:
			switch e.compareTimestamps(mdIssue.MTime, jsIssue.UpdatedAt) {
			case 1:
				plan.MarkdownNewer = append(plan.MarkdownNewer, id)
			case -1:
				plan.JSONLNewer = append(plan.JSONLNewer, id)
			default:
				// Within tolerance. Content-based conflict detection is
				// not implemented yet, so this is simply no-change.
				plan.NoChange = append(plan.NoChange, id)
			}
		}
	}

	sort.Strings(plan.MarkdownOnly)
	sort.Strings(plan.JSONLOnly)
	sort.Strings(plan.MarkdownNewer)
	sort.Strings(plan.JSONLNewer)
	sort.Strings(plan.NoChange)
	sort.Strings(plan.Conflicts)
	return plan
}
