package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/storage"
	"github.com/textbeads/textbeads/internal/types"
)

var (
	createPriority    int
	createType        string
	createAssignee    string
	createLabels      []string
	createDescription string
	createDesign      string
	createNotes       string
	createAcceptance  string
	createExternalRef string
	createDeps        []string
	createID          string
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		issueType, err := types.ParseIssueType(createType)
		if err != nil {
			fail(err)
		}

		deps, err := parseDepFlags(createDeps)
		if err != nil {
			fail(err)
		}

		opts := storage.CreateOptions{
			ID:                 createID,
			Title:              args[0],
			Description:        createDescription,
			Design:             createDesign,
			AcceptanceCriteria: createAcceptance,
			Notes:              createNotes,
			Priority:           createPriority,
			IssueType:          issueType,
			Assignee:           createAssignee,
			Labels:             createLabels,
			Deps:               deps,
		}
		if createExternalRef != "" {
			opts.ExternalRef = &createExternalRef
		}

		issue, err := openStore().CreateIssue(opts)
		if err != nil {
			fail(err)
		}

		printResult(issue, func() {
			fmt.Printf("Created %s: %s\n", issue.ID, issue.Title)
		})
	},
}

// parseDepFlags parses "--dep id:kind" flags into Dependency values.
func parseDepFlags(raw []string) ([]types.Dependency, error) {
	deps := make([]types.Dependency, 0, len(raw))
	for _, spec := range raw {
		id, kind, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("%w: --dep must be <id>:<kind>, got %q", types.ErrInvalidFormat, spec)
		}
		if _, err := types.ParseDependencyType(kind); err != nil {
			return nil, err
		}
		deps = append(deps, types.Dependency{ID: id, Type: kind})
	}
	return deps, nil
}

func init() {
	createCmd.Flags().IntVarP(&createPriority, "priority", "p", 2, "Priority 0 (highest) to 4 (lowest)")
	createCmd.Flags().StringVarP(&createType, "type", "t", "task", "Issue type: bug, feature, task, epic, chore")
	createCmd.Flags().StringVar(&createAssignee, "assignee", "", "Assignee")
	createCmd.Flags().StringSliceVar(&createLabels, "label", nil, "Label (repeatable)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Description text")
	createCmd.Flags().StringVar(&createDesign, "design", "", "Design text")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "Notes text")
	createCmd.Flags().StringVar(&createAcceptance, "acceptance-criteria", "", "Acceptance criteria text")
	createCmd.Flags().StringVar(&createExternalRef, "external-ref", "", "External reference")
	createCmd.Flags().StringSliceVar(&createDeps, "dep", nil, "Dependency as <id>:<kind> (repeatable)")
	createCmd.Flags().StringVar(&createID, "id", "", "Explicit issue id (default: assigned by the configured ID scheme)")
}
