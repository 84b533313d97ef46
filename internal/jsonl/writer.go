package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/textbeads/textbeads/internal/types"
)

// WriteIssuesToFile rewrites path to contain exactly the given issues,
// one per line sorted by ID, so repeated syncs of an unchanged store
// produce a byte-identical file. The write itself is atomic: temp file in
// the same directory, then rename.
func WriteIssuesToFile(path string, issues []*types.Issue) error {
	sorted := make([]*types.Issue, len(issues))
	copy(sorted, issues)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var buf bytes.Buffer
	for _, issue := range sorted {
		data, err := json.Marshal(issue)
		if err != nil {
			return fmt.Errorf("%w: marshal issue %s: %v", types.ErrInvalidFormat, issue.ID, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("%w: create temp jsonl file: %v", types.ErrIO, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write temp jsonl file: %v", types.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp jsonl file: %v", types.ErrIO, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename temp jsonl file: %v", types.ErrIO, err)
	}
	return nil
}
