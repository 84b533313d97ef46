package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/types"
)

var updateSet []string

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update recognized fields on an issue",
	Long:  "Update applies only the closed set of recognized fields (title, description, design, notes, acceptance_criteria, status, priority, issue_type, assignee, external_ref); unknown --set keys are silently ignored.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		updates := map[string]string{}
		for _, kv := range updateSet {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				fail(fmt.Errorf("%w: --set must be <field>=<value>, got %q", types.ErrInvalidFormat, kv))
			}
			updates[key] = value
		}

		issue, err := openStore().UpdateIssue(args[0], updates)
		if err != nil {
			fail(err)
		}

		printResult(issue, func() {
			fmt.Printf("Updated %s\n", issue.ID)
		})
	},
}

func init() {
	updateCmd.Flags().StringArrayVar(&updateSet, "set", nil, "Field assignment <field>=<value> (repeatable)")
}
