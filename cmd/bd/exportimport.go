package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/storage"
	"github.com/textbeads/textbeads/internal/types"
)

var (
	exportStatus   string
	exportPriority int
	exportType     string
	exportAssignee string
	exportLimit    int
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write every matching issue to a line-JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter := storage.ListFilter{Assignee: exportAssignee, Limit: exportLimit}
		if exportStatus != "" {
			status, err := types.ParseStatus(exportStatus)
			if err != nil {
				fail(err)
			}
			filter.Status = &status
		}
		if cmd.Flags().Changed("priority") {
			filter.Priority = &exportPriority
		}
		if exportType != "" {
			issueType, err := types.ParseIssueType(exportType)
			if err != nil {
				fail(err)
			}
			filter.IssueType = &issueType
		}

		n, err := openStore().ExportJSONL(args[0], filter)
		if err != nil {
			fail(err)
		}
		printResult(struct {
			Exported int `json:"exported"`
		}{n}, func() {
			fmt.Printf("Exported %d issue(s) to %s\n", n, args[0])
		})
	},
}

var importOverwrite bool

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Read a line-JSON file and write each record as an issue file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := openStore().ImportJSONL(args[0], importOverwrite)
		if err != nil {
			fail(err)
		}
		printResult(result, func() {
			fmt.Printf("Imported %d, skipped %d\n", result.Imported, result.Skipped)
			for _, e := range result.Errors {
				fmt.Println(e)
			}
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Filter by status")
	exportCmd.Flags().IntVar(&exportPriority, "priority", 0, "Filter by priority")
	exportCmd.Flags().StringVar(&exportType, "type", "", "Filter by issue type")
	exportCmd.Flags().StringVar(&exportAssignee, "assignee", "", "Filter by assignee")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum number of results (0 = no limit)")

	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false, "Overwrite issue files that already exist")
}
