package codepatch

import (
	"fmt"
	"sort"

	"github.com/textbeads/textbeads/internal/debug"
)

// PatchForRename is the single-id entry point: find references to oldID,
// confirm, patch. Returns the number of files
// patched; a nil error and zero count with no references found or the
// terminal isn't interactive.
func PatchForRename(oldID, newID, storeDir string) (int, error) {
	if !IsInteractiveTTY() {
		debug.Warnf("warning: code patching requires an interactive terminal, skipping\n")
		return 0, nil
	}

	refs, err := FindReferences(oldID, storeDir)
	if err != nil {
		return 0, err
	}
	if refs.TotalMatches == 0 {
		return 0, nil
	}

	ok, err := Confirm(oldID, newID, refs)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	return PatchFiles(oldID, newID, refs)
}

// PatchForMigration runs PatchForRename's search-confirm-patch sequence
// for every old->new pair in mapping, used by the prefix-rename and
// scheme-migration commands which move many ids at once. Only mappings
// with at least one match prompt for confirmation; entries with zero
// matches are silently skipped.
func PatchForMigration(mapping map[string]string, storeDir string) (int, error) {
	if !IsInteractiveTTY() {
		debug.Warnf("warning: code patching requires an interactive terminal, skipping\n")
		return 0, nil
	}

	oldIDs := make([]string, 0, len(mapping))
	for oldID := range mapping {
		oldIDs = append(oldIDs, oldID)
	}
	sort.Strings(oldIDs)

	total := 0
	for _, oldID := range oldIDs {
		newID := mapping[oldID]
		refs, err := FindReferences(oldID, storeDir)
		if err != nil {
			return total, err
		}
		if refs.TotalMatches == 0 {
			continue
		}

		ok, err := Confirm(oldID, newID, refs)
		if err != nil {
			return total, err
		}
		if !ok {
			continue
		}

		patched, err := PatchFiles(oldID, newID, refs)
		if err != nil {
			return total, fmt.Errorf("patching %s -> %s: %w", oldID, newID, err)
		}
		total += patched
	}
	return total, nil
}
