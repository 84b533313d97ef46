package syncengine

import "github.com/textbeads/textbeads/internal/lockfile"

// Run performs one full sync cycle: load both sides, analyze, apply. It
// takes the store's single-writer lock for the whole cycle, since sync
// reads and rewrites both representations at once.
func (e *Engine) Run(dir string, dryRun bool) (*Plan, *Report, error) {
	lock, err := lockfile.Acquire(dir)
	if err != nil {
		return nil, nil, err
	}
	defer lock.Release()

	md, err := LoadMarkdownIssues(dir)
	if err != nil {
		return nil, nil, err
	}
	js, err := LoadJSONLIssues(dir)
	if err != nil {
		return nil, nil, err
	}

	plan := e.Analyze(md, js)
	report, err := e.Apply(plan, md, js, dir, dryRun)
	if err != nil {
		return plan, nil, err
	}
	return plan, report, nil
}
