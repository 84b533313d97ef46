package syncengine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/textbeads/textbeads/internal/debug"
)

// debounceDelay collapses rapid successive writes to issues.jsonl or a
// markdown file into one sync.
const debounceDelay = 500 * time.Millisecond

// WatchCallback is invoked after each debounced sync cycle.
type WatchCallback func(plan *Plan, report *Report, err error)

// Watch runs Run once immediately, then again every time issues.jsonl or
// a *.md file is written or created (removals and renames do not trigger
// a run), until ctx is canceled: an fsnotify
// watcher on the store directory, debounced with time.AfterFunc, torn
// down on context cancellation.
func (e *Engine) Watch(ctx context.Context, dir string, onChange WatchCallback) error {
	plan, report, err := e.Run(dir, false)
	onChange(plan, report, err)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	issuesDir := filepath.Join(dir, issuesSubdir)
	if err := watcher.Add(issuesDir); err != nil {
		debug.Warnf("warning: sync watch could not watch issues directory: %v\n", err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	sync := func() {
		plan, report, err := e.Run(dir, false)
		onChange(plan, report, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			base := filepath.Base(event.Name)
			if base != jsonlName && filepath.Ext(base) != ".md" {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, sync)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Warnf("warning: sync watch watcher error: %v\n", err)
		}
	}
}
