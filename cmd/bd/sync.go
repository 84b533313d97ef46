package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/syncengine"
)

var (
	syncDryRun bool
	syncWatch  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the markdown issue files and the issues.jsonl projection",
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := resolveStore()
		if err != nil {
			fail(err)
		}
		engine := syncengine.New()

		if syncWatch {
			runSyncWatch(engine, dir)
			return
		}

		plan, report, err := engine.Run(dir, syncDryRun)
		if err != nil {
			fail(err)
		}
		printSyncResult(plan, report, syncDryRun)
	},
}

func printSyncResult(plan *syncengine.Plan, report *syncengine.Report, dryRun bool) {
	printResult(struct {
		Plan   *syncengine.Plan   `json:"plan"`
		Report *syncengine.Report `json:"report"`
	}{plan, report}, func() {
		if dryRun {
			fmt.Printf("Would change %d issue(s): %d markdown-only, %d jsonl-only, %d markdown-newer, %d jsonl-newer, %d conflicts\n",
				plan.TotalChanges(), len(plan.MarkdownOnly), len(plan.JSONLOnly), len(plan.MarkdownNewer), len(plan.JSONLNewer), len(plan.Conflicts))
			return
		}
		fmt.Printf("Synced: %d created in jsonl, %d created in markdown, %d updated in jsonl, %d updated in markdown, %d conflicts skipped\n",
			report.CreatedInJSONL, report.CreatedInMarkdown, report.UpdatedJSONL, report.UpdatedMarkdown, report.SkippedConflicts)
		for _, e := range report.Errors {
			fmt.Println(e)
		}
	})
}

// runSyncWatch drives syncengine.Watch until interrupted, printing each
// debounced cycle's outcome as it lands.
func runSyncWatch(engine *syncengine.Engine, dir string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := engine.Watch(ctx, dir, func(plan *syncengine.Plan, report *syncengine.Report, err error) {
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
			return
		}
		printSyncResult(plan, report, false)
	})
	if err != nil {
		fail(err)
	}
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report planned changes without writing")
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "Keep running, re-syncing on every filesystem change")
}
