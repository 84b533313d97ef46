package storage

import (
	"fmt"
	"sort"

	"github.com/textbeads/textbeads/internal/lockfile"
	"github.com/textbeads/textbeads/internal/types"
)

// GetIssue reads a single issue and computes its dependents by scanning
// every other file.
func (s *Store) GetIssue(id string) (*types.Issue, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	issue, err := s.loadIssue(id)
	if err != nil {
		return nil, err
	}
	all, err := s.loadAllIssuesNoDependents()
	if err != nil {
		return nil, err
	}
	populateDependentsForOne(all, issue)
	return issue, nil
}

// ListIssues loads every issue, applies filter, sorts by created_at
// ascending, truncates to filter.Limit, and computes dependents by one
// reverse-indexing pass over the unfiltered result.
func (s *Store) ListIssues(filter ListFilter) ([]*types.Issue, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()
	return s.listIssuesLocked(filter)
}

// listIssuesLocked is ListIssues without acquiring the lock, for callers
// (Stats, Blocked, Ready, DependencyTree, DetectCycles) that already hold
// it or compose multiple queries into one locked section.
func (s *Store) listIssuesLocked(filter ListFilter) ([]*types.Issue, error) {
	all, err := s.loadAllIssuesNoDependents()
	if err != nil {
		return nil, err
	}
	populateDependents(all)

	filtered := all[:0:0]
	for _, issue := range all {
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && issue.Priority != *filter.Priority {
			continue
		}
		if filter.IssueType != nil && issue.IssueType != *filter.IssueType {
			continue
		}
		if filter.Assignee != "" && issue.Assignee != filter.Assignee {
			continue
		}
		filtered = append(filtered, issue)
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt.Before(filtered[j].CreatedAt) })
	if filter.Limit > 0 && len(filtered) > filter.Limit {
		filtered = filtered[:filter.Limit]
	}
	return filtered, nil
}

// Stats computes aggregate counts plus ready count and mean lead time
// over closed issues.
func (s *Store) Stats() (*types.Stats, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	all, err := s.listIssuesLocked(ListFilter{})
	if err != nil {
		return nil, err
	}

	var stats types.Stats
	var leadTimeHours float64
	var leadTimeCount int
	stats.TotalIssues = len(all)
	for _, issue := range all {
		switch issue.Status {
		case types.StatusOpen:
			stats.OpenIssues++
		case types.StatusInProgress:
			stats.InProgressIssues++
		case types.StatusClosed:
			stats.ClosedIssues++
		}
		if issue.Status != types.StatusClosed && issue.HasBlockingDependency() {
			stats.BlockedIssues++
		}
		if issue.IsReady() {
			stats.ReadyIssues++
		}
		if issue.Status == types.StatusClosed && issue.ClosedAt != nil {
			leadTimeHours += issue.ClosedAt.Sub(issue.CreatedAt).Hours()
			leadTimeCount++
		}
	}
	if leadTimeCount > 0 {
		stats.AverageLeadTimeHours = leadTimeHours / float64(leadTimeCount)
	}
	return &stats, nil
}

// Blocked returns every non-closed issue with at least one blocking
// dependency.
func (s *Store) Blocked() ([]types.BlockedIssue, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	all, err := s.listIssuesLocked(ListFilter{})
	if err != nil {
		return nil, err
	}

	var blocked []types.BlockedIssue
	for _, issue := range all {
		if issue.Status == types.StatusClosed {
			continue
		}
		var blockedBy []string
		for id, kind := range issue.DependsOn {
			if kind == types.DepBlocks {
				blockedBy = append(blockedBy, id)
			}
		}
		if len(blockedBy) == 0 {
			continue
		}
		sort.Strings(blockedBy)
		blocked = append(blocked, types.BlockedIssue{Issue: issue, BlockedBy: blockedBy, BlockedByCount: len(blockedBy)})
	}
	return blocked, nil
}

// Ready returns open issues with no blocking dependency, filtered and
// sorted per opts.
func (s *Store) Ready(opts ReadyOptions) ([]*types.Issue, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	open := types.StatusOpen
	filter := ListFilter{Status: &open, Priority: opts.Priority, Assignee: opts.Assignee}
	all, err := s.listIssuesLocked(filter)
	if err != nil {
		return nil, err
	}

	ready := all[:0:0]
	for _, issue := range all {
		if !issue.HasBlockingDependency() {
			ready = append(ready, issue)
		}
	}

	switch opts.Sort {
	case SortPriority:
		sort.SliceStable(ready, func(i, j int) bool { return ready[i].Priority < ready[j].Priority })
	case SortOldest:
		sort.SliceStable(ready, func(i, j int) bool { return ready[i].CreatedAt.Before(ready[j].CreatedAt) })
	default: // hybrid, or an unrecognized policy
		sort.SliceStable(ready, func(i, j int) bool {
			if ready[i].Priority != ready[j].Priority {
				return ready[i].Priority < ready[j].Priority
			}
			return ready[i].CreatedAt.Before(ready[j].CreatedAt)
		})
	}

	if opts.Limit > 0 && len(ready) > opts.Limit {
		ready = ready[:opts.Limit]
	}
	return ready, nil
}

// DependencyTree recursively builds a tree rooted at root from depends_on
// edges. When showAllPaths is false, a node revisited on
// the current DFS path is flagged is_cycle and not expanded further;
// exceeding maxDepth flags depth_exceeded.
func (s *Store) DependencyTree(root string, maxDepth int, showAllPaths bool) (*types.TreeNode, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	all, err := s.listIssuesLocked(ListFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*types.Issue, len(all))
	for _, issue := range all {
		byID[issue.ID] = issue
	}
	rootIssue, ok := byID[root]
	if !ok {
		return nil, fmt.Errorf("%w: issue %s", types.ErrNotFound, root)
	}

	visited := map[string]bool{}
	return buildTreeNode(rootIssue, byID, visited, 0, maxDepth, showAllPaths, ""), nil
}

func buildTreeNode(issue *types.Issue, byID map[string]*types.Issue, visited map[string]bool, depth, maxDepth int, showAllPaths bool, depType string) *types.TreeNode {
	node := &types.TreeNode{
		ID: issue.ID, Title: issue.Title, Status: issue.Status, Priority: issue.Priority, DepType: depType,
	}

	if !showAllPaths && visited[issue.ID] {
		node.IsCycle = true
		return node
	}
	if depth >= maxDepth {
		node.DepthExceeded = true
		return node
	}

	if !showAllPaths {
		visited[issue.ID] = true
	}

	ids := make([]string, 0, len(issue.DependsOn))
	for id := range issue.DependsOn {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		dep, ok := byID[id]
		if !ok {
			continue
		}
		child := buildTreeNode(dep, byID, visited, depth+1, maxDepth, showAllPaths, string(issue.DependsOn[id]))
		node.Children = append(node.Children, child)
	}

	if !showAllPaths {
		delete(visited, issue.ID)
	}
	return node
}

// DetectCycles runs a classical DFS with a recursion set over the whole
// dependency graph and emits each distinct directed cycle once, compared
// up to rotation.
func (s *Store) DetectCycles() ([][]string, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	all, err := s.listIssuesLocked(ListFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*types.Issue, len(all))
	ids := make([]string, 0, len(all))
	for _, issue := range all {
		byID[issue.ID] = issue
		ids = append(ids, issue.ID)
	}
	sort.Strings(ids)

	var cycles [][]string
	visited := map[string]bool{}
	recStack := map[string]bool{}
	var path []string

	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		issue := byID[id]
		depIDs := make([]string, 0, len(issue.DependsOn))
		for depID := range issue.DependsOn {
			depIDs = append(depIDs, depID)
		}
		sort.Strings(depIDs)

		for _, depID := range depIDs {
			if _, ok := byID[depID]; !ok {
				continue
			}
			if !visited[depID] {
				dfs(depID)
			} else if recStack[depID] {
				for i, pathID := range path {
					if pathID == depID {
						cycle := append([]string(nil), path[i:]...)
						if !containsCycle(cycles, cycle) {
							cycles = append(cycles, cycle)
						}
						break
					}
				}
			}
		}

		recStack[id] = false
		path = path[:len(path)-1]
	}

	for _, id := range ids {
		if !visited[id] {
			dfs(id)
		}
	}
	return cycles, nil
}

func containsCycle(cycles [][]string, candidate []string) bool {
	for _, cycle := range cycles {
		if cyclesEqual(cycle, candidate) {
			return true
		}
	}
	return false
}

func cyclesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	n := len(a)
	for offset := 0; offset < n; offset++ {
		match := true
		for i := 0; i < n; i++ {
			if a[(offset+i)%n] != b[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
