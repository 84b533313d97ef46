package storage

import (
	"fmt"
	"os"

	"github.com/textbeads/textbeads/internal/jsonl"
	"github.com/textbeads/textbeads/internal/lockfile"
)

// ExportJSONL runs ListIssues with the given filter and serializes the
// result to a line-JSON sink.
func (s *Store) ExportJSONL(path string, filter ListFilter) (int, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return 0, err
	}
	defer lock.Release()

	issues, err := s.listIssuesLocked(filter)
	if err != nil {
		return 0, err
	}
	if err := jsonl.WriteIssuesToFile(path, issues); err != nil {
		return 0, err
	}
	return len(issues), nil
}

// ImportResult is the structured per-line report: counts plus collected
// per-line errors rather than an abort on first failure.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []string
}

// ImportJSONL reads issue records from a line-JSON source and writes them
// as issue files. A record is skipped (counted, not an error) when its
// file already exists and overwrite is false; otherwise the file is
// written and its mtime is set to the record's updated_at.
func (s *Store) ImportJSONL(path string, overwrite bool) (*ImportResult, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	records, err := jsonl.ReadIssuesFromFile(path)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, issue := range records {
		issuePath := s.issuePath(issue.ID)
		if !overwrite {
			if _, statErr := os.Stat(issuePath); statErr == nil {
				result.Skipped++
				continue
			}
		}
		if err := s.writeIssue(issue); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", issue.ID, err))
			continue
		}
		if err := os.Chtimes(issuePath, issue.UpdatedAt, issue.UpdatedAt); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: set mtime: %v", issue.ID, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}
