package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "List non-closed issues with at least one blocking dependency",
	Run: func(cmd *cobra.Command, args []string) {
		blocked, err := openStore().Blocked()
		if err != nil {
			fail(err)
		}
		printResult(blocked, func() {
			for _, b := range blocked {
				fmt.Printf("%s\t%s\tblocked by %d: %v\n", b.Issue.ID, b.Issue.Title, b.BlockedByCount, b.BlockedBy)
			}
		})
	},
}
