package syncengine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/textbeads/textbeads/internal/debug"
	"github.com/textbeads/textbeads/internal/jsonl"
	"github.com/textbeads/textbeads/internal/textformat"
	"github.com/textbeads/textbeads/internal/types"
)

// Apply executes a plan against dir in a fixed order: JSON-only creates
// a text file, JSON-newer updates a text file, text-only appends a JSON
// entry, text-newer replaces a JSON entry, conflicts are skipped with a
// warning. dryRun logs what would happen without touching disk.
func (e *Engine) Apply(plan *Plan, md map[string]MarkdownIssue, js map[string]JSONLIssue, dir string, dryRun bool) (*Report, error) {
	report := &Report{}
	issuesDir := filepath.Join(dir, issuesSubdir)
	jsonlPath := filepath.Join(dir, jsonlName)

	if !dryRun {
		if err := os.MkdirAll(issuesDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", types.ErrIO, issuesDir, err)
		}
	}

	for _, id := range plan.JSONLOnly {
		jsIssue, ok := js[id]
		if !ok {
			continue
		}
		if dryRun {
			debug.Logf("sync: would create markdown for %s\n", id)
			continue
		}
		if err := e.writeMarkdownIssue(issuesDir, jsIssue); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("create %s.md: %v", id, err))
			continue
		}
		report.CreatedInMarkdown++
	}

	for _, id := range plan.JSONLNewer {
		jsIssue, ok := js[id]
		if !ok {
			continue
		}
		if dryRun {
			debug.Logf("sync: would update markdown for %s (jsonl newer)\n", id)
			continue
		}
		if err := e.writeMarkdownIssue(issuesDir, jsIssue); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("update %s.md: %v", id, err))
			continue
		}
		report.UpdatedMarkdown++
	}

	toUpsert := append(append([]string{}, plan.MarkdownOnly...), plan.MarkdownNewer...)
	if len(toUpsert) > 0 {
		if dryRun {
			for _, id := range plan.MarkdownOnly {
				debug.Logf("sync: would create jsonl entry for %s\n", id)
			}
			for _, id := range plan.MarkdownNewer {
				debug.Logf("sync: would update jsonl entry for %s (markdown newer)\n", id)
			}
		} else {
			merged := make(map[string]JSONLIssue, len(js)+len(toUpsert))
			for id, jsIssue := range js {
				merged[id] = jsIssue
			}
			for _, id := range toUpsert {
				mdIssue, ok := md[id]
				if !ok {
					continue
				}
				// Stamp the record with the file's mtime, not the
				// frontmatter updated_at: the comparison predicate pairs
				// mtime against the record, so anything else would keep
				// classifying this id as markdown-newer on every sync.
				mdIssue.Issue.UpdatedAt = mdIssue.MTime.UTC()
				merged[id] = JSONLIssue{Issue: mdIssue.Issue, UpdatedAt: mdIssue.Issue.UpdatedAt}
			}
			if err := writeMergedJSONL(jsonlPath, merged); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("write %s: %v", jsonlPath, err))
			} else {
				report.CreatedInJSONL += len(plan.MarkdownOnly)
				report.UpdatedJSONL += len(plan.MarkdownNewer)
			}
		}
	}

	for _, id := range plan.Conflicts {
		report.SkippedConflicts++
		debug.Warnf("warning: sync conflict skipped for %s\n", id)
		if dryRun {
			continue
		}
		report.Errors = append(report.Errors, fmt.Sprintf("conflict skipped: %s", id))
	}

	return report, nil
}

// writeMarkdownIssue writes one issue's markdown file and sets its mtime
// to the JSONL side's updated_at, so a subsequent Analyze sees the two
// sides as in sync.
func (e *Engine) writeMarkdownIssue(issuesDir string, jsIssue JSONLIssue) error {
	content, err := textformat.ToMarkdown(jsIssue.Issue)
	if err != nil {
		return err
	}
	path := filepath.Join(issuesDir, jsIssue.Issue.ID+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Chtimes(path, jsIssue.UpdatedAt, jsIssue.UpdatedAt)
}

// writeMergedJSONL rewrites issues.jsonl from a full id->issue map in one
// pass: every markdown-side change in a sync batches into a single sorted
// rewrite via internal/jsonl's atomic writer.
func writeMergedJSONL(path string, merged map[string]JSONLIssue) error {
	issues := make([]*types.Issue, 0, len(merged))
	for _, v := range merged {
		issues = append(issues, v.Issue)
	}
	return jsonl.WriteIssuesToFile(path, issues)
}
