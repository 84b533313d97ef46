package storage

import "github.com/textbeads/textbeads/internal/types"

// CreateOptions is the input to CreateIssue. ID is optional: when empty,
// the ID engine assigns one per the store's configured scheme.
type CreateOptions struct {
	ID                 string
	Title              string
	Description        string
	Design             string
	AcceptanceCriteria string
	Notes              string
	Priority           int
	IssueType          types.IssueType
	Assignee           string
	Labels             []string
	ExternalRef        *string
	Deps               []types.Dependency
}

// ListFilter narrows ListIssues (and the query operations built on it).
// Zero values mean "no filter" for that field.
type ListFilter struct {
	Status    *types.Status
	Priority  *int
	IssueType *types.IssueType
	Assignee  string
	Limit     int
}

// ReadySortPolicy selects how Ready orders its result.
type ReadySortPolicy string

const (
	SortPriority ReadySortPolicy = "priority"
	SortOldest   ReadySortPolicy = "oldest"
	SortHybrid   ReadySortPolicy = "hybrid"
)

// ReadyOptions is the input to Ready.
type ReadyOptions struct {
	Assignee string
	Priority *int
	Limit    int
	Sort     ReadySortPolicy
}

// MigrationReport summarizes a sequential<->hash migration, including
// every decimal-looking ID migrate-to-numeric reclassified as a hash.
type MigrationReport struct {
	Changes       []string
	Mapping       map[string]string
	Reclassified  []string
	ConfigUpdated bool
}
