// Package textformat implements the front-matter-plus-sections document
// format issue files are stored in. The ID is authoritative from the file
// name and is never read back out of the front-matter.
package textformat

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/textbeads/textbeads/internal/types"
)

const delimiter = "---"

// section names, in their fixed write order.
const (
	sectionDescription        = "Description"
	sectionDesign              = "Design"
	sectionAcceptanceCriteria  = "Acceptance Criteria"
	sectionNotes               = "Notes"
)

// frontmatter is the YAML document between the "---" delimiters. Field
// order is fixed so diffs between rewrites of the same file stay small.
type frontmatter struct {
	Title       string            `yaml:"title"`
	Status      string            `yaml:"status"`
	Priority    int               `yaml:"priority"`
	IssueType   string            `yaml:"issue_type"`
	Assignee    string            `yaml:"assignee,omitempty"`
	ExternalRef *string           `yaml:"external_ref,omitempty"`
	Labels      []string          `yaml:"labels,omitempty"`
	DependsOn   map[string]string `yaml:"depends_on,omitempty"`
	CreatedAt   string            `yaml:"created_at"`
	UpdatedAt   string            `yaml:"updated_at"`
	ClosedAt    *string           `yaml:"closed_at,omitempty"`
}

// ToMarkdown serializes an issue to its on-disk document. The id itself is
// not written into the body; it is carried by the file name.
func ToMarkdown(issue *types.Issue) (string, error) {
	fm := frontmatter{
		Title:       issue.Title,
		Status:      string(issue.Status),
		Priority:    issue.Priority,
		IssueType:   string(issue.IssueType),
		Assignee:    issue.Assignee,
		ExternalRef: issue.ExternalRef,
		Labels:      issue.Labels,
		CreatedAt:   issue.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   issue.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if len(issue.DependsOn) > 0 {
		fm.DependsOn = make(map[string]string, len(issue.DependsOn))
		for id, kind := range issue.DependsOn {
			fm.DependsOn[id] = string(kind)
		}
	}
	if issue.ClosedAt != nil {
		s := issue.ClosedAt.UTC().Format(time.RFC3339Nano)
		fm.ClosedAt = &s
	}

	fmYAML, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("%w: marshal frontmatter for %s: %v", types.ErrIO, issue.ID, err)
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.Write(fmYAML)
	b.WriteString(delimiter)
	b.WriteByte('\n')

	writeSection(&b, sectionDescription, issue.Description)
	writeSection(&b, sectionDesign, issue.Design)
	writeSection(&b, sectionAcceptanceCriteria, issue.AcceptanceCriteria)
	writeSection(&b, sectionNotes, issue.Notes)

	return b.String(), nil
}

func writeSection(b *strings.Builder, name, content string) {
	if content == "" {
		return
	}
	b.WriteString("\n# ")
	b.WriteString(name)
	b.WriteString("\n\n")
	b.WriteString(sanitize(content))
	b.WriteByte('\n')
}

// sanitize demotes any line that is itself a top-level ("# ") header by one
// level, so a section body can never be mistaken for a section delimiter on
// re-read.
func sanitize(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			lines[i] = "#" + line
		}
	}
	return strings.Join(lines, "\n")
}

// ParseError carries the full parse diagnostic: the issue id, the literal
// front-matter block, and the required keys found absent.
type ParseError struct {
	IssueID        string
	Raw            string
	MissingKeys    []string
	QuotingHint    bool
	Cause          error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to parse frontmatter in %s.md: %v", e.IssueID, e.Cause)
	b.WriteString("\n\nFrontmatter content (between --- markers):\n")
	for i, line := range strings.Split(e.Raw, "\n") {
		fmt.Fprintf(&b, "%3d: %s\n", i+1, line)
	}
	if len(e.MissingKeys) > 0 {
		b.WriteString("\nMissing required fields: ")
		b.WriteString(strings.Join(e.MissingKeys, ", "))
		b.WriteByte('\n')
	}
	if e.QuotingHint {
		b.WriteString("\nPossible cause: improperly quoted string value.\n")
		b.WriteString("If a value contains special characters (like colons), it must be fully quoted.\n")
		b.WriteString(`Example: title: "This is: a properly quoted title"` + "\n")
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return types.ErrInvalidFormat }

var requiredKeys = []string{"title:", "status:", "priority:", "issue_type:", "created_at:", "updated_at:"}

// FromMarkdown parses a stored document back into an Issue. id is the
// file-name-derived identifier and becomes authoritative on the result.
func FromMarkdown(id, content string) (*types.Issue, error) {
	parts := strings.SplitN(content, delimiter+"\n", 3)
	if len(parts) < 3 {
		return nil, &ParseError{IssueID: id, Raw: content, Cause: fmt.Errorf("missing frontmatter delimiters")}
	}
	raw := parts[1]

	newParseError := func(cause error) *ParseError {
		pe := &ParseError{IssueID: id, Raw: raw, Cause: cause}
		for _, key := range requiredKeys {
			if !strings.Contains(raw, key) {
				pe.MissingKeys = append(pe.MissingKeys, strings.TrimSuffix(key, ":"))
			}
		}
		if strings.Contains(cause.Error(), "did not find expected key") {
			pe.QuotingHint = true
		}
		return pe
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, newParseError(err)
	}

	status, err := types.ParseStatus(fm.Status)
	if err != nil {
		return nil, newParseError(err)
	}
	issueType, err := types.ParseIssueType(fm.IssueType)
	if err != nil {
		return nil, newParseError(err)
	}

	createdAt, err := parseTimestamp(fm.CreatedAt)
	if err != nil {
		return nil, newParseError(fmt.Errorf("created_at: %w", err))
	}
	updatedAt, err := parseTimestamp(fm.UpdatedAt)
	if err != nil {
		return nil, newParseError(fmt.Errorf("updated_at: %w", err))
	}
	var closedAt *time.Time
	if fm.ClosedAt != nil {
		t, err := parseTimestamp(*fm.ClosedAt)
		if err != nil {
			return nil, newParseError(fmt.Errorf("closed_at: %w", err))
		}
		closedAt = &t
	}

	dependsOn := types.DependencyMap{}
	for depID, kindStr := range fm.DependsOn {
		kind, err := types.ParseDependencyType(kindStr)
		if err != nil {
			return nil, newParseError(err)
		}
		dependsOn[depID] = kind
	}

	description, design, acceptance, notes := parseSections(parts[2])

	return &types.Issue{
		ID:                 id,
		Title:              fm.Title,
		Description:        description,
		Design:             design,
		Notes:              notes,
		AcceptanceCriteria: acceptance,
		Status:             status,
		Priority:           fm.Priority,
		IssueType:          issueType,
		Assignee:           fm.Assignee,
		ExternalRef:        fm.ExternalRef,
		Labels:             fm.Labels,
		DependsOn:          dependsOn,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
		ClosedAt:           closedAt,
	}, nil
}

// parseSections walks the body line by line, accumulating content under
// whichever "# <Name>" header introduced it. Unknown sections are silently
// dropped.
func parseSections(body string) (description, design, acceptance, notes string) {
	var current string
	var buf strings.Builder

	flush := func() {
		content := strings.TrimSpace(buf.String())
		switch current {
		case sectionDescription:
			description = content
		case sectionDesign:
			design = content
		case sectionAcceptanceCriteria:
			acceptance = content
		case sectionNotes:
			notes = content
		}
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimRight(line, " \t\r")
		if header, ok := strings.CutPrefix(trimmed, "# "); ok {
			if current != "" {
				flush()
			}
			current = header
			buf.Reset()
			continue
		}
		if current == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
	}
	if current != "" {
		flush()
	}
	return
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", s)
}
