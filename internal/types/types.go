// Package types defines the domain model shared by every other package in
// this module: the Issue entity, its closed enumerations, and the derived
// shapes (Stats, BlockedIssue, TreeNode) that the storage and sync engines
// produce.
package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status is the lifecycle state of an issue. The set is closed: no custom
// or extended statuses.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusClosed     Status = "closed"
)

// ParseStatus validates and normalizes a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusClosed:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: invalid status %q (valid: open, in_progress, blocked, closed)", ErrInvalidFormat, s)
	}
}

// IssueType classifies the kind of work an issue represents.
type IssueType string

const (
	TypeBug     IssueType = "bug"
	TypeFeature IssueType = "feature"
	TypeTask    IssueType = "task"
	TypeEpic    IssueType = "epic"
	TypeChore   IssueType = "chore"
)

// ParseIssueType validates and normalizes an issue-type string.
func ParseIssueType(s string) (IssueType, error) {
	switch IssueType(s) {
	case TypeBug, TypeFeature, TypeTask, TypeEpic, TypeChore:
		return IssueType(s), nil
	default:
		return "", fmt.Errorf("%w: invalid issue type %q (valid: bug, feature, task, epic, chore)", ErrInvalidFormat, s)
	}
}

// DependencyType classifies an edge in the dependency graph.
type DependencyType string

const (
	DepBlocks         DependencyType = "blocks"
	DepRelated        DependencyType = "related"
	DepParentChild    DependencyType = "parent-child"
	DepDiscoveredFrom DependencyType = "discovered-from"
)

// ParseDependencyType validates and normalizes a dependency-type string.
func ParseDependencyType(s string) (DependencyType, error) {
	switch DependencyType(s) {
	case DepBlocks, DepRelated, DepParentChild, DepDiscoveredFrom:
		return DependencyType(s), nil
	default:
		return "", fmt.Errorf("%w: invalid dependency type %q (valid: blocks, related, parent-child, discovered-from)", ErrInvalidFormat, s)
	}
}

// ParsePriority accepts "0".."4" or "P0".."P4" (case-insensitive), trims
// surrounding whitespace, and rejects anything outside that range.
func ParsePriority(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToUpper(s), "P")
	var p int
	if _, err := fmt.Sscanf(s, "%d", &p); err != nil {
		return 0, fmt.Errorf("%w: invalid priority %q", ErrInvalidFormat, s)
	}
	if p < 0 || p > 4 {
		return 0, fmt.Errorf("%w: priority %d out of range [0,4]", ErrInvalidFormat, p)
	}
	return p, nil
}

// Dependency is the wire representation of one depends_on edge in the
// line-JSON projection: an array of {id, type} objects rather than a map,
// so ordering is stable and JSON keys stay plain strings. Front-matter
// (internal/textformat) stores depends_on as a map of id to kind instead.
type Dependency struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`
}

// DependencyMap is the in-memory shape of depends_on: issue id -> kind.
type DependencyMap map[string]DependencyType

// toDependencies renders a DependencyMap as the array-of-pairs wire form,
// sorted by target id so serialization is deterministic.
func (m DependencyMap) toDependencies() []Dependency {
	if len(m) == 0 {
		return nil
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	deps := make([]Dependency, 0, len(ids))
	for _, id := range ids {
		deps = append(deps, Dependency{ID: id, Type: string(m[id])})
	}
	return deps
}

// dependenciesToMap parses either wire form of depends_on: the current
// array-of-{id,type} form, or the legacy map-of-id-to-kind form. Accepting
// both keeps the reader compatible with line-JSON files written by an older
// version of the format.
func dependenciesToMap(raw json.RawMessage) (DependencyMap, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return DependencyMap{}, nil
	}

	var asArray []Dependency
	if err := json.Unmarshal(raw, &asArray); err == nil {
		m := make(DependencyMap, len(asArray))
		for _, d := range asArray {
			dt, err := ParseDependencyType(d.Type)
			if err != nil {
				return nil, err
			}
			m[d.ID] = dt
		}
		return m, nil
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, fmt.Errorf("%w: depends_on is neither an array of {id,type} nor a map: %v", ErrInvalidFormat, err)
	}
	m := make(DependencyMap, len(asMap))
	for id, kind := range asMap {
		dt, err := ParseDependencyType(kind)
		if err != nil {
			return nil, err
		}
		m[id] = dt
	}
	return m, nil
}

// Issue is the single domain entity.
type Issue struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Design             string         `json:"design"`
	Notes              string         `json:"notes"`
	AcceptanceCriteria string         `json:"acceptance_criteria"`
	Status             Status         `json:"status"`
	Priority           int            `json:"priority"`
	IssueType          IssueType      `json:"issue_type"`
	Assignee           string         `json:"assignee"`
	ExternalRef        *string        `json:"external_ref,omitempty"`
	Labels             []string       `json:"labels,omitempty"`
	DependsOn          DependencyMap  `json:"-"`
	Dependents         []Dependency   `json:"dependents,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	ClosedAt           *time.Time     `json:"closed_at,omitempty"`
}

// issueWire is the JSON-marshaled shape of Issue: identical except
// depends_on is the array-of-pairs wire form instead of the in-memory map.
type issueWire struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Design             string         `json:"design"`
	Notes              string         `json:"notes"`
	AcceptanceCriteria string         `json:"acceptance_criteria"`
	Status             Status         `json:"status"`
	Priority           int            `json:"priority"`
	IssueType          IssueType      `json:"issue_type"`
	Assignee           string         `json:"assignee"`
	ExternalRef        *string        `json:"external_ref,omitempty"`
	Labels             []string       `json:"labels,omitempty"`
	Dependencies       []Dependency   `json:"dependencies,omitempty"`
	Dependents         []Dependency   `json:"dependents,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	ClosedAt           *time.Time     `json:"closed_at,omitempty"`
}

// MarshalJSON renders depends_on as the {id,type} array form used by the
// line-JSON projection.
func (i Issue) MarshalJSON() ([]byte, error) {
	w := issueWire{
		ID: i.ID, Title: i.Title, Description: i.Description, Design: i.Design,
		Notes: i.Notes, AcceptanceCriteria: i.AcceptanceCriteria, Status: i.Status,
		Priority: i.Priority, IssueType: i.IssueType, Assignee: i.Assignee,
		ExternalRef: i.ExternalRef, Labels: i.Labels,
		Dependencies: i.DependsOn.toDependencies(), Dependents: i.Dependents,
		CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt, ClosedAt: i.ClosedAt,
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts either wire form of dependencies (array or legacy
// map).
func (i *Issue) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                 string          `json:"id"`
		Title              string          `json:"title"`
		Description        string          `json:"description"`
		Design             string          `json:"design"`
		Notes              string          `json:"notes"`
		AcceptanceCriteria string          `json:"acceptance_criteria"`
		Status             Status          `json:"status"`
		Priority           int             `json:"priority"`
		IssueType          IssueType       `json:"issue_type"`
		Assignee           string          `json:"assignee"`
		ExternalRef        *string         `json:"external_ref,omitempty"`
		Labels             []string        `json:"labels,omitempty"`
		Dependencies       json.RawMessage `json:"dependencies,omitempty"`
		Dependents         []Dependency    `json:"dependents,omitempty"`
		CreatedAt          time.Time       `json:"created_at"`
		UpdatedAt          time.Time       `json:"updated_at"`
		ClosedAt           *time.Time      `json:"closed_at,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	deps, err := dependenciesToMap(raw.Dependencies)
	if err != nil {
		return err
	}
	*i = Issue{
		ID: raw.ID, Title: raw.Title, Description: raw.Description, Design: raw.Design,
		Notes: raw.Notes, AcceptanceCriteria: raw.AcceptanceCriteria, Status: raw.Status,
		Priority: raw.Priority, IssueType: raw.IssueType, Assignee: raw.Assignee,
		ExternalRef: raw.ExternalRef, Labels: raw.Labels, DependsOn: deps,
		Dependents: raw.Dependents, CreatedAt: raw.CreatedAt, UpdatedAt: raw.UpdatedAt,
		ClosedAt: raw.ClosedAt,
	}
	return nil
}

// New constructs an issue with lifecycle defaults: status open, empty
// free-text fields, no dependencies, created_at == updated_at.
func New(id, title string, priority int, issueType IssueType) *Issue {
	now := time.Now().UTC()
	return &Issue{
		ID:        id,
		Title:     title,
		Status:    StatusOpen,
		Priority:  priority,
		IssueType: issueType,
		DependsOn: DependencyMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasBlockingDependency reports whether the issue has any depends_on edge
// of kind "blocks".
func (i *Issue) HasBlockingDependency() bool {
	for _, kind := range i.DependsOn {
		if kind == DepBlocks {
			return true
		}
	}
	return false
}

// IsReady reports the "ready" predicate from the glossary: open and no
// blocking dependency.
func (i *Issue) IsReady() bool {
	return i.Status == StatusOpen && !i.HasBlockingDependency()
}

// Stats is the aggregate produced by Storage.Stats.
type Stats struct {
	TotalIssues          int     `json:"total_issues"`
	OpenIssues           int     `json:"open_issues"`
	InProgressIssues     int     `json:"in_progress_issues"`
	BlockedIssues        int     `json:"blocked_issues"`
	ClosedIssues         int     `json:"closed_issues"`
	ReadyIssues          int     `json:"ready_issues"`
	AverageLeadTimeHours float64 `json:"average_lead_time_hours"`
}

// BlockedIssue pairs an issue with the ids blocking it.
type BlockedIssue struct {
	Issue         *Issue   `json:"issue"`
	BlockedBy     []string `json:"blocked_by"`
	BlockedByCount int     `json:"blocked_by_count"`
}

// TreeNode is one node of a dependency tree built by Storage.DependencyTree.
type TreeNode struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Status        Status      `json:"status"`
	Priority      int         `json:"priority"`
	DepType       string      `json:"dep_type,omitempty"`
	Children      []*TreeNode `json:"children,omitempty"`
	IsCycle       bool        `json:"is_cycle"`
	DepthExceeded bool        `json:"depth_exceeded"`
}
