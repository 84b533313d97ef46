package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close an issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := openStore().CloseIssue(args[0])
		if err != nil {
			fail(err)
		}
		printResult(issue, func() { fmt.Printf("Closed %s\n", issue.ID) })
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Reopen a closed issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := openStore().ReopenIssue(args[0])
		if err != nil {
			fail(err)
		}
		printResult(issue, func() { fmt.Printf("Reopened %s\n", issue.ID) })
	},
}
