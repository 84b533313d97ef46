package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/storage"
)

var (
	readyAssignee string
	readyPriority int
	readyLimit    int
	readySort     string
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List open issues with no blocking dependency",
	Run: func(cmd *cobra.Command, args []string) {
		opts := storage.ReadyOptions{
			Assignee: readyAssignee,
			Limit:    readyLimit,
			Sort:     storage.ReadySortPolicy(readySort),
		}
		if cmd.Flags().Changed("priority") {
			opts.Priority = &readyPriority
		}

		issues, err := openStore().Ready(opts)
		if err != nil {
			fail(err)
		}

		printResult(issues, func() {
			for _, issue := range issues {
				fmt.Printf("%s\tp%d\t%s\n", issue.ID, issue.Priority, issue.Title)
			}
		})
	},
}

func init() {
	readyCmd.Flags().StringVar(&readyAssignee, "assignee", "", "Filter by assignee")
	readyCmd.Flags().IntVar(&readyPriority, "priority", 0, "Filter by priority")
	readyCmd.Flags().IntVar(&readyLimit, "limit", 0, "Maximum number of results (0 = no limit)")
	readyCmd.Flags().StringVar(&readySort, "sort", string(storage.SortHybrid), "Sort policy: priority, oldest, or hybrid")
}
