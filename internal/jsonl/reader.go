// Package jsonl reads and writes the line-JSON projection file: one Issue
// per line, blank lines ignored on read, whole-file atomic rewrite sorted
// by id on write.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/textbeads/textbeads/internal/types"
)

// ReadIssuesFromFile reads every issue from a line-JSON file, ignoring
// blank lines.
func ReadIssuesFromFile(path string) ([]*types.Issue, error) {
	// #nosec G304 - path is the store's own issues.jsonl, not request input
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open jsonl file: %v", types.ErrIO, err)
	}
	defer file.Close()

	return readIssues(bufio.NewScanner(file))
}

// ReadIssuesFromData parses line-JSON already held in memory.
func ReadIssuesFromData(data []byte) ([]*types.Issue, error) {
	return readIssues(bufio.NewScanner(bytes.NewReader(data)))
}

func readIssues(scanner *bufio.Scanner) ([]*types.Issue, error) {
	// Large descriptions can make a single line big; allow up to 64MB.
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	var issues []*types.Issue
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		var issue types.Issue
		if err := json.Unmarshal([]byte(line), &issue); err != nil {
			return nil, fmt.Errorf("%w: parse issue at line %d: %v", types.ErrInvalidFormat, lineNum, err)
		}
		issues = append(issues, &issue)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan jsonl: %v", types.ErrIO, err)
	}
	return issues, nil
}
