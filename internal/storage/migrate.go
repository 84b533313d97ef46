package storage

import (
	"fmt"
	"sort"

	"github.com/textbeads/textbeads/internal/config"
	"github.com/textbeads/textbeads/internal/idgen"
	"github.com/textbeads/textbeads/internal/types"
)

// defaultMaxGap is the hash->sequential migration threshold separating
// true sequential IDs from all-digit hash IDs.
const defaultMaxGap = 100

// MigrateToHash renames every sequential-scheme issue under the current
// prefix to a content-addressed hash ID.
func (s *Store) MigrateToHash(dryRun, updateConfig, hex bool) (*MigrationReport, error) {
	prefix, err := s.GetPrefix()
	if err != nil {
		return nil, err
	}
	all, err := s.loadAllIssuesNoDependents()
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(all))
	byID := make(map[string]*types.Issue, len(all))
	for _, issue := range all {
		taken[issue.ID] = true
		byID[issue.ID] = issue
	}

	encoding := idgen.Base36
	if hex {
		encoding = idgen.Hex
	}

	var candidates []*types.Issue
	for _, issue := range all {
		p, suffix, ok := splitID(issue.ID)
		if !ok || p != prefix || !isDecimal(suffix) {
			continue
		}
		candidates = append(candidates, issue)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	mapping := map[string]string{}
	exists := func(candidate string) bool { return taken[candidate] }
	for _, issue := range candidates {
		newID, err := idgen.GenerateUniqueHashID(prefix, issue.Title, issue.Description, currentUser(), issue.CreatedAt, len(all), encoding, exists)
		if err != nil {
			return nil, err
		}
		mapping[issue.ID] = newID
		taken[newID] = true
	}

	changes, err := s.multiRename(mapping, dryRun)
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{Changes: changes, Mapping: mapping}
	if !dryRun && updateConfig {
		flags, err := config.LoadFlags(s.dir)
		if err != nil {
			return nil, err
		}
		flags.HashIDs = true
		flags.HashHex = hex
		if err := flags.Save(s.dir); err != nil {
			return nil, err
		}
		report.ConfigUpdated = true
	}
	return report, nil
}

// MigrateToSequential reclassifies hash-scheme IDs back to sequential
// integers, using the maxGap heuristic to separate true sequential IDs
// from all-digit hash IDs.
func (s *Store) MigrateToSequential(dryRun, updateConfig bool, maxGap int) (*MigrationReport, error) {
	if maxGap <= 0 {
		maxGap = defaultMaxGap
	}
	prefix, err := s.GetPrefix()
	if err != nil {
		return nil, err
	}
	all, err := s.loadAllIssuesNoDependents()
	if err != nil {
		return nil, err
	}

	var decimalMatching []int
	decimalByValue := map[int]*types.Issue{}
	var nonDecimalMatching []*types.Issue
	var otherPrefixLongSuffix []*types.Issue

	for _, issue := range all {
		p, suffix, ok := splitID(issue.ID)
		if !ok {
			continue
		}
		if p == prefix {
			if n, okNum := idgen.ParseDecimalSuffix(suffix); okNum {
				decimalMatching = append(decimalMatching, n)
				decimalByValue[n] = issue
			} else {
				nonDecimalMatching = append(nonDecimalMatching, issue)
			}
		} else if len(suffix) >= 4 {
			otherPrefixLongSuffix = append(otherPrefixLongSuffix, issue)
		}
	}
	sort.Ints(decimalMatching)

	maxBeforeGap := 0
	gapFound := false
	reclassifiedDecimals := map[int]bool{}
	for i, n := range decimalMatching {
		if i == 0 {
			maxBeforeGap = n
			continue
		}
		if !gapFound && n-decimalMatching[i-1] >= maxGap {
			gapFound = true
		}
		if gapFound {
			reclassifiedDecimals[n] = true
		} else {
			maxBeforeGap = n
		}
	}

	var reclassified []*types.Issue
	var reclassifiedIDs []string
	for n := range reclassifiedDecimals {
		issue := decimalByValue[n]
		reclassified = append(reclassified, issue)
		reclassifiedIDs = append(reclassifiedIDs, issue.ID)
	}
	reclassified = append(reclassified, nonDecimalMatching...)
	reclassified = append(reclassified, otherPrefixLongSuffix...)
	sort.Strings(reclassifiedIDs)

	sort.Slice(reclassified, func(i, j int) bool { return reclassified[i].CreatedAt.Before(reclassified[j].CreatedAt) })

	mapping := map[string]string{}
	next := maxBeforeGap + 1
	for _, issue := range reclassified {
		mapping[issue.ID] = fmt.Sprintf("%s-%d", prefix, next)
		next++
	}

	changes, err := s.multiRename(mapping, dryRun)
	if err != nil {
		return nil, err
	}
	for _, id := range reclassifiedIDs {
		changes = append([]string{fmt.Sprintf("Reclassified decimal-looking ID as hash: %s", id)}, changes...)
	}

	report := &MigrationReport{Changes: changes, Mapping: mapping, Reclassified: reclassifiedIDs}
	if !dryRun && updateConfig {
		flags, err := config.LoadFlags(s.dir)
		if err != nil {
			return nil, err
		}
		flags.HashIDs = false
		if err := flags.Save(s.dir); err != nil {
			return nil, err
		}
		report.ConfigUpdated = true
	}
	return report, nil
}
