// Package storage is the filesystem storage engine: CRUD over one
// markdown file per issue, the dependency graph derived by scanning, and
// the rename/migration/repair operations that keep referential integrity
// across the whole directory. Every mutating or multi-file operation
// acquires internal/lockfile's single-writer lock before touching disk
// and releases it on every exit path.
package storage

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"

	"github.com/textbeads/textbeads/internal/config"
	"github.com/textbeads/textbeads/internal/textformat"
	"github.com/textbeads/textbeads/internal/types"
)

const issuesSubdir = "issues"

// Store owns a single store directory: its issues subdirectory, its
// lazily-created config files, and the lock that guards all of it.
type Store struct {
	dir       string
	issuesDir string
}

// Open opens an existing (or not-yet-initialized) store directory,
// creating the issues subdirectory and the lazily-created config files if
// they are missing.
func Open(dir string) (*Store, error) {
	s := &Store{dir: dir, issuesDir: filepath.Join(dir, issuesSubdir)}

	if err := os.MkdirAll(s.issuesDir, 0750); err != nil {
		return nil, fmt.Errorf("%w: create issues directory: %v", types.ErrIO, err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if cfg.IssuePrefix == "" {
		cfg.IssuePrefix = config.InferPrefix(dir)
		if err := cfg.Save(dir); err != nil {
			return nil, err
		}
	}

	flags, err := config.LoadFlags(dir)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(filepath.Join(dir, config.FlagsFileName)); os.IsNotExist(statErr) {
		if err := flags.Save(dir); err != nil {
			return nil, err
		}
	}

	if err := config.EnsureGitignore(dir); err != nil {
		return nil, err
	}

	return s, nil
}

// Init creates a brand-new store directory with the given (or inferred)
// issue prefix.
func Init(dir, prefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: create store directory: %v", types.ErrIO, err)
	}
	if prefix == "" {
		prefix = config.InferPrefix(dir)
	}
	if err := (&config.Config{IssuePrefix: prefix}).Save(dir); err != nil {
		return nil, err
	}
	return Open(dir)
}

// Dir returns the store directory path.
func (s *Store) Dir() string { return s.dir }

// IssuesDir returns the issues subdirectory path.
func (s *Store) IssuesDir() string { return s.issuesDir }

// GetPrefix returns the configured issue-id prefix, falling back to the
// most common prefix among existing issue files if config.yaml has none.
func (s *Store) GetPrefix() (string, error) {
	cfg, err := config.Load(s.dir)
	if err != nil {
		return "", err
	}
	if cfg.IssuePrefix != "" {
		return cfg.IssuePrefix, nil
	}
	return s.inferPrefixFromIssues()
}

func (s *Store) inferPrefixFromIssues() (string, error) {
	entries, err := os.ReadDir(s.issuesDir)
	if err != nil {
		return "", fmt.Errorf("%w: read issues directory: %v", types.ErrIO, err)
	}
	counts := map[string]int{}
	for _, entry := range entries {
		id, ok := idFromFilename(entry.Name())
		if !ok {
			continue
		}
		prefix, _, ok := splitID(id)
		if ok {
			counts[prefix]++
		}
	}
	best, bestCount := "", 0
	for prefix, count := range counts {
		if count > bestCount || (count == bestCount && prefix < best) {
			best, bestCount = prefix, count
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: no issues found to infer prefix", types.ErrNotFound)
	}
	return best, nil
}

func (s *Store) issuePath(id string) string {
	return filepath.Join(s.issuesDir, id+".md")
}

func idFromFilename(name string) (string, bool) {
	const suffix = ".md"
	if len(name) <= len(suffix) || name[len(name)-len(suffix):] != suffix {
		return "", false
	}
	return name[:len(name)-len(suffix)], true
}

func splitID(id string) (prefix, suffix string, ok bool) {
	i := len(id) - 1
	for i >= 0 && id[i] != '-' {
		i--
	}
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}

// loadIssue reads and parses a single issue file. Returns types.ErrNotFound
// if the file does not exist.
func (s *Store) loadIssue(id string) (*types.Issue, error) {
	path := s.issuePath(id)
	data, err := os.ReadFile(path) // #nosec G304 - path is derived from the store's own issues directory
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: issue %s", types.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read issue file %s: %v", types.ErrIO, id, err)
	}
	return textformat.FromMarkdown(id, string(data))
}

// writeIssue serializes and writes an issue's file whole.
func (s *Store) writeIssue(issue *types.Issue) error {
	content, err := textformat.ToMarkdown(issue)
	if err != nil {
		return err
	}
	path := s.issuePath(issue.ID)
	if err := os.WriteFile(path, []byte(content), 0640); err != nil { // #nosec G306 - issue files are not sensitive
		return fmt.Errorf("%w: write issue file %s: %v", types.ErrIO, issue.ID, err)
	}
	return nil
}

// removeIssueFile deletes an issue's file; a missing file is not an
// error, since rename/migration may be retried after a partial crash.
func (s *Store) removeIssueFile(id string) error {
	if err := os.Remove(s.issuePath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove issue file %s: %v", types.ErrIO, id, err)
	}
	return nil
}

// loadAllIssuesNoDependents loads every issue in the store without
// computing reverse edges, for callers that compute dependents
// themselves.
func (s *Store) loadAllIssuesNoDependents() ([]*types.Issue, error) {
	entries, err := os.ReadDir(s.issuesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read issues directory: %v", types.ErrIO, err)
	}
	issues := make([]*types.Issue, 0, len(entries))
	for _, entry := range entries {
		id, ok := idFromFilename(entry.Name())
		if !ok {
			continue
		}
		issue, err := s.loadIssue(id)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// populateDependents computes, for every issue in the slice, the reverse
// edges of every other issue's depends_on map in a single
// reverse-indexing pass.
func populateDependents(issues []*types.Issue) {
	reverse := map[string][]types.Dependency{}
	for _, issue := range issues {
		for id, kind := range issue.DependsOn {
			reverse[id] = append(reverse[id], types.Dependency{ID: issue.ID, Type: string(kind)})
		}
	}
	for _, issue := range issues {
		deps := reverse[issue.ID]
		sort.Slice(deps, func(i, j int) bool { return deps[i].ID < deps[j].ID })
		issue.Dependents = deps
	}
}

// populateDependentsForOne computes dependents for a single issue against
// an already-loaded set of all issues, without mutating the others.
func populateDependentsForOne(all []*types.Issue, target *types.Issue) {
	var deps []types.Dependency
	for _, issue := range all {
		if kind, ok := issue.DependsOn[target.ID]; ok {
			deps = append(deps, types.Dependency{ID: issue.ID, Type: string(kind)})
		}
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].ID < deps[j].ID })
	target.Dependents = deps
}

// currentUser resolves the caller identity fed into the hash scheme's
// creator input. Issue has no creator field to persist it in; it is used
// only as hash input, so an unresolvable user degrades to "" rather than
// failing the create.
func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}
