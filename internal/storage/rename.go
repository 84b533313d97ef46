package storage

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/textbeads/textbeads/internal/config"
	"github.com/textbeads/textbeads/internal/lockfile"
	"github.com/textbeads/textbeads/internal/types"
)

// buildReferenceRegexp builds the shared text-reference rewrite pattern:
// a single alternation of the mapping's old IDs, escaped and sorted by
// length descending so a longer ID is tried before a shorter one that
// could be its prefix, flanked by word boundaries. A nil result means
// nothing to rewrite; a compile failure is treated the same way rather
// than propagated, leaving text unchanged. With regexp.QuoteMeta that
// path is unreachable in practice, but the fallback keeps the contract.
func buildReferenceRegexp(mapping map[string]string) *regexp.Regexp {
	if len(mapping) == 0 {
		return nil
	}
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = regexp.QuoteMeta(k)
	}
	re, err := regexp.Compile(`\b(?:` + strings.Join(escaped, "|") + `)\b`)
	if err != nil {
		return nil
	}
	return re
}

// rewriteFreeText rewrites every occurrence of a mapped ID, word-boundary
// flanked, across an issue's free-text fields (title, description,
// design, notes, acceptance_criteria), returning whether anything
// changed. selfID is left alone: a renamed issue keeps references to its
// own old id in its own text; only other issues' references to it move.
func rewriteFreeText(issue *types.Issue, re *regexp.Regexp, mapping map[string]string, selfID string) bool {
	if re == nil {
		return false
	}
	replace := func(s string) (string, bool) {
		if s == "" {
			return s, false
		}
		changed := false
		out := re.ReplaceAllStringFunc(s, func(match string) string {
			if match == selfID {
				return match
			}
			if replacement, ok := mapping[match]; ok {
				changed = true
				return replacement
			}
			return match
		})
		return out, changed
	}

	anyChanged := false
	for _, field := range []*string{&issue.Title, &issue.Description, &issue.Design, &issue.Notes, &issue.AcceptanceCriteria} {
		if out, changed := replace(*field); changed {
			*field = out
			anyChanged = true
		}
	}
	return anyChanged
}

// multiRename is the shared engine behind RenameIssue and PrefixRename:
// given a mapping of old id -> new id, it rewrites every issue's
// dependency keys and free-text references for the whole mapping in one
// locked pass, then (unless dryRun) writes peers in place, writes renamed
// issues under their new filename, and finally deletes the old files.
// That ordering means no old file is deleted until every peer and every
// renamed file has been written.
func (s *Store) multiRename(mapping map[string]string, dryRun bool) ([]string, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	all, err := s.loadAllIssuesNoDependents()
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	re := buildReferenceRegexp(mapping)
	now := time.Now().UTC()

	var changes []string
	var peers []*types.Issue  // content changed, ID unchanged
	var renamed []*types.Issue // ID changed; issue.ID already holds the new id

	for _, issue := range all {
		originalID := issue.ID
		changed := false

		for oldDep, newDep := range mapping {
			if kind, ok := issue.DependsOn[oldDep]; ok {
				delete(issue.DependsOn, oldDep)
				issue.DependsOn[newDep] = kind
				changes = append(changes, fmt.Sprintf("Update dependency in %s: %s -> %s", originalID, oldDep, newDep))
				changed = true
			}
		}

		if rewriteFreeText(issue, re, mapping, originalID) {
			changes = append(changes, fmt.Sprintf("Update text reference in %s", originalID))
			changed = true
		}

		if newID, ok := mapping[originalID]; ok {
			changes = append(changes,
				fmt.Sprintf("Rename file: %s.md -> %s.md", originalID, newID),
				fmt.Sprintf("Update ID in frontmatter: %s -> %s", originalID, newID))
			issue.ID = newID
			issue.UpdatedAt = now
			renamed = append(renamed, issue)
			continue
		}

		if changed {
			issue.UpdatedAt = now
			peers = append(peers, issue)
		}
	}

	if dryRun {
		return changes, nil
	}

	for _, issue := range peers {
		if err := s.writeIssue(issue); err != nil {
			return nil, err
		}
	}
	for _, issue := range renamed {
		if err := s.writeIssue(issue); err != nil {
			return nil, err
		}
	}
	for oldID := range mapping {
		if err := s.removeIssueFile(oldID); err != nil {
			return nil, err
		}
	}

	return changes, nil
}

// RenameIssue renames a single issue ID, rewriting every reference to it
// across the store.
func (s *Store) RenameIssue(oldID, newID string, dryRun bool) ([]string, error) {
	if _, err := s.loadIssue(oldID); err != nil {
		return nil, err
	}
	if _, err := s.loadIssue(newID); err == nil {
		return nil, fmt.Errorf("%w: issue %s", types.ErrAlreadyExists, newID)
	}
	return s.multiRename(map[string]string{oldID: newID}, dryRun)
}

// PrefixRename renames every sequential-scheme issue under the current
// configured prefix to newPrefix, then rewrites the prefix config.
func (s *Store) PrefixRename(newPrefix string, dryRun, force bool) ([]string, error) {
	prefix, err := s.GetPrefix()
	if err != nil {
		return nil, err
	}

	all, err := s.loadAllIssuesNoDependents()
	if err != nil {
		return nil, err
	}

	mapping := map[string]string{}
	for _, issue := range all {
		p, suffix, ok := splitID(issue.ID)
		if !ok || p != prefix || !isDecimal(suffix) {
			continue
		}
		mapping[issue.ID] = fmt.Sprintf("%s-%s", newPrefix, suffix)
	}

	if !force {
		for _, newID := range mapping {
			if _, err := s.loadIssue(newID); err == nil {
				return nil, fmt.Errorf("%w: issue %s", types.ErrAlreadyExists, newID)
			}
		}
	}

	changes, err := s.multiRename(mapping, dryRun)
	if err != nil {
		return nil, err
	}
	if !dryRun {
		cfg, err := config.Load(s.dir)
		if err != nil {
			return nil, err
		}
		cfg.IssuePrefix = newPrefix
		if err := cfg.Save(s.dir); err != nil {
			return nil, err
		}
	}
	return changes, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RepairReferences scans every issue and drops dependency edges whose
// target no longer exists.
func (s *Store) RepairReferences(dryRun bool) ([]string, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	all, err := s.loadAllIssuesNoDependents()
	if err != nil {
		return nil, err
	}
	valid := make(map[string]bool, len(all))
	for _, issue := range all {
		valid[issue.ID] = true
	}

	var changes []string
	for _, issue := range all {
		var broken []string
		for dep := range issue.DependsOn {
			if !valid[dep] {
				broken = append(broken, dep)
			}
		}
		if len(broken) == 0 {
			continue
		}
		sort.Strings(broken)
		for _, dep := range broken {
			changes = append(changes, fmt.Sprintf("Remove broken reference in %s: %s (does not exist)", issue.ID, dep))
		}
		if dryRun {
			continue
		}
		for _, dep := range broken {
			delete(issue.DependsOn, dep)
		}
		issue.UpdatedAt = time.Now().UTC()
		if err := s.writeIssue(issue); err != nil {
			return nil, err
		}
	}
	return changes, nil
}
