package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/storage"
	"github.com/textbeads/textbeads/internal/types"
)

var (
	listStatus   string
	listPriority int
	listType     string
	listAssignee string
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues matching a filter",
	Run: func(cmd *cobra.Command, args []string) {
		filter := storage.ListFilter{Assignee: listAssignee, Limit: listLimit}
		if listStatus != "" {
			status, err := types.ParseStatus(listStatus)
			if err != nil {
				fail(err)
			}
			filter.Status = &status
		}
		if cmd.Flags().Changed("priority") {
			filter.Priority = &listPriority
		}
		if listType != "" {
			issueType, err := types.ParseIssueType(listType)
			if err != nil {
				fail(err)
			}
			filter.IssueType = &issueType
		}

		issues, err := openStore().ListIssues(filter)
		if err != nil {
			fail(err)
		}

		printResult(issues, func() {
			for _, issue := range issues {
				fmt.Printf("%s\t[%s]\tp%d\t%s\n", issue.ID, issue.Status, issue.Priority, issue.Title)
			}
		})
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().IntVar(&listPriority, "priority", 0, "Filter by priority")
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by issue type")
	listCmd.Flags().StringVar(&listAssignee, "assignee", "", "Filter by assignee")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of results (0 = no limit)")
}
