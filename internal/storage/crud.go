package storage

import (
	"fmt"
	"time"

	"github.com/textbeads/textbeads/internal/config"
	"github.com/textbeads/textbeads/internal/debug"
	"github.com/textbeads/textbeads/internal/idgen"
	"github.com/textbeads/textbeads/internal/lockfile"
	"github.com/textbeads/textbeads/internal/types"
)

// CreateIssue assigns an ID (unless one is given explicitly) and writes a
// new issue file. Dependencies whose target does not yet exist are still
// recorded, with a warning logged rather than rejected.
func (s *Store) CreateIssue(opts CreateOptions) (*types.Issue, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", types.ErrInvalidFormat)
	}

	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	id := opts.ID
	if id == "" {
		id, err = s.nextID()
		if err != nil {
			return nil, err
		}
	} else if _, statErr := s.loadIssue(id); statErr == nil {
		return nil, fmt.Errorf("%w: issue %s", types.ErrAlreadyExists, id)
	}

	issue := types.New(id, opts.Title, opts.Priority, opts.IssueType)
	issue.Description = opts.Description
	issue.Design = opts.Design
	issue.AcceptanceCriteria = opts.AcceptanceCriteria
	issue.Notes = opts.Notes
	issue.Assignee = opts.Assignee
	issue.Labels = opts.Labels
	issue.ExternalRef = opts.ExternalRef

	for _, dep := range opts.Deps {
		kind, err := types.ParseDependencyType(dep.Type)
		if err != nil {
			return nil, err
		}
		issue.DependsOn[dep.ID] = kind
		if _, statErr := s.loadIssue(dep.ID); statErr != nil {
			debug.Warnf("warning: dependency target %s does not exist for issue %s\n", dep.ID, id)
		}
	}

	if err := s.writeIssue(issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// nextID assigns an ID using whichever scheme flags.yaml currently
// declares (sequential by default).
func (s *Store) nextID() (string, error) {
	prefix, err := s.GetPrefix()
	if err != nil {
		return "", err
	}
	flags, err := config.LoadFlags(s.dir)
	if err != nil {
		return "", err
	}
	all, err := s.loadAllIssuesNoDependents()
	if err != nil {
		return "", err
	}

	if !flags.HashIDs {
		var suffixes []int
		for _, issue := range all {
			p, suf, ok := splitID(issue.ID)
			if !ok || p != prefix {
				continue
			}
			if n, ok := idgen.ParseDecimalSuffix(suf); ok {
				suffixes = append(suffixes, n)
			}
		}
		return fmt.Sprintf("%s-%d", prefix, idgen.NextSequentialID(suffixes)), nil
	}

	encoding := idgen.Base36
	if flags.HashHex {
		encoding = idgen.Hex
	}
	exists := func(candidate string) bool {
		_, err := s.loadIssue(candidate)
		return err == nil
	}
	return idgen.GenerateUniqueHashID(prefix, "", "", currentUser(), time.Now().UTC(), len(all), encoding, exists)
}

// recognizedUpdateFields is the closed set UpdateIssue applies; any other
// key is silently ignored.
var recognizedUpdateFields = map[string]bool{
	"title": true, "description": true, "design": true, "notes": true,
	"acceptance_criteria": true, "status": true, "priority": true,
	"issue_type": true, "assignee": true, "external_ref": true,
}

// UpdateIssue applies a field->value map to an existing issue, ignoring
// unrecognized keys.
func (s *Store) UpdateIssue(id string, updates map[string]string) (*types.Issue, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	issue, err := s.loadIssue(id)
	if err != nil {
		return nil, err
	}

	for key, value := range updates {
		if !recognizedUpdateFields[key] {
			continue
		}
		switch key {
		case "title":
			issue.Title = value
		case "description":
			issue.Description = value
		case "design":
			issue.Design = value
		case "notes":
			issue.Notes = value
		case "acceptance_criteria":
			issue.AcceptanceCriteria = value
		case "assignee":
			issue.Assignee = value
		case "external_ref":
			if value == "" {
				issue.ExternalRef = nil
			} else {
				v := value
				issue.ExternalRef = &v
			}
		case "status":
			status, err := types.ParseStatus(value)
			if err != nil {
				return nil, err
			}
			issue.Status = status
		case "priority":
			priority, err := types.ParsePriority(value)
			if err != nil {
				return nil, err
			}
			issue.Priority = priority
		case "issue_type":
			issueType, err := types.ParseIssueType(value)
			if err != nil {
				return nil, err
			}
			issue.IssueType = issueType
		}
	}

	issue.UpdatedAt = time.Now().UTC()
	if err := s.writeIssue(issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// CloseIssue sets status=closed and stamps closed_at.
func (s *Store) CloseIssue(id string) (*types.Issue, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	issue, err := s.loadIssue(id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	issue.Status = types.StatusClosed
	issue.ClosedAt = &now
	issue.UpdatedAt = now
	if err := s.writeIssue(issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// ReopenIssue sets status=open and clears closed_at.
func (s *Store) ReopenIssue(id string) (*types.Issue, error) {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	issue, err := s.loadIssue(id)
	if err != nil {
		return nil, err
	}
	issue.Status = types.StatusOpen
	issue.ClosedAt = nil
	issue.UpdatedAt = time.Now().UTC()
	if err := s.writeIssue(issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// AddDependency records a new edge from->to of the given kind, in place.
func (s *Store) AddDependency(from, to string, kind types.DependencyType) error {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return err
	}
	defer lock.Release()

	issue, err := s.loadIssue(from)
	if err != nil {
		return err
	}
	if _, err := s.loadIssue(to); err != nil {
		debug.Warnf("warning: dependency target %s does not exist for issue %s\n", to, from)
	}
	issue.DependsOn[to] = kind
	issue.UpdatedAt = time.Now().UTC()
	return s.writeIssue(issue)
}

// RemoveDependency deletes an edge, failing if no such edge exists.
func (s *Store) RemoveDependency(from, to string) error {
	lock, err := lockfile.Acquire(s.dir)
	if err != nil {
		return err
	}
	defer lock.Release()

	issue, err := s.loadIssue(from)
	if err != nil {
		return err
	}
	if _, ok := issue.DependsOn[to]; !ok {
		return fmt.Errorf("%w: no dependency %s -> %s", types.ErrNotFound, from, to)
	}
	delete(issue.DependsOn, to)
	issue.UpdatedAt = time.Now().UTC()
	return s.writeIssue(issue)
}
