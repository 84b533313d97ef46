package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/codepatch"
)

var (
	renameDryRun bool
	renamePatch  bool
)

var renameCmd = &cobra.Command{
	Use:   "rename <old-id> <new-id>",
	Short: "Rename a single issue id, rewriting every reference to it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		oldID, newID := args[0], args[1]
		store := openStore()
		changes, err := store.RenameIssue(oldID, newID, renameDryRun)
		if err != nil {
			fail(err)
		}

		if !renameDryRun && renamePatch {
			n, err := codepatch.PatchForRename(oldID, newID, store.Dir())
			if err != nil {
				fail(err)
			}
			if n > 0 {
				changes = append(changes, fmt.Sprintf("Patched %d source file(s)", n))
			}
		}

		printResult(changes, func() {
			if renameDryRun {
				fmt.Println("Planned changes (dry run):")
			}
			for _, change := range changes {
				fmt.Println(change)
			}
		})
	},
}

var (
	prefixRenameDryRun bool
	prefixRenameForce  bool
)

var prefixRenameCmd = &cobra.Command{
	Use:   "prefix-rename <new-prefix>",
	Short: "Rename every sequential-scheme issue under the current prefix",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		changes, err := store.PrefixRename(args[0], prefixRenameDryRun, prefixRenameForce)
		if err != nil {
			fail(err)
		}
		printResult(changes, func() {
			if prefixRenameDryRun {
				fmt.Println("Planned changes (dry run):")
			}
			for _, change := range changes {
				fmt.Println(change)
			}
		})
	},
}

func init() {
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false, "Report planned changes without writing")
	renameCmd.Flags().BoolVar(&renamePatch, "patch", false, "Also offer to patch matching source references (interactive only)")

	prefixRenameCmd.Flags().BoolVar(&prefixRenameDryRun, "dry-run", false, "Report planned changes without writing")
	prefixRenameCmd.Flags().BoolVar(&prefixRenameForce, "force", false, "Proceed even if a target id already exists")
}
