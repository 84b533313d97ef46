package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/types"
)

var (
	showTree     bool
	showDepth    int
	showAllPaths bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		if showTree {
			tree, err := store.DependencyTree(args[0], showDepth, showAllPaths)
			if err != nil {
				fail(err)
			}
			printResult(tree, func() { printTreeNode(tree, 0) })
			return
		}

		issue, err := store.GetIssue(args[0])
		if err != nil {
			fail(err)
		}

		printResult(issue, func() {
			fmt.Printf("%s: %s\n", issue.ID, issue.Title)
			fmt.Printf("status: %s  priority: %d  type: %s\n", issue.Status, issue.Priority, issue.IssueType)
			if issue.Assignee != "" {
				fmt.Printf("assignee: %s\n", issue.Assignee)
			}
			if issue.Description != "" {
				fmt.Printf("\n%s\n", issue.Description)
			}
			for id, kind := range issue.DependsOn {
				fmt.Printf("depends_on: %s (%s)\n", id, kind)
			}
			for _, dep := range issue.Dependents {
				fmt.Printf("dependent: %s (%s)\n", dep.ID, dep.Type)
			}
		})
	},
}

func printTreeNode(node *types.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	marker := ""
	if node.IsCycle {
		marker = " (cycle)"
	} else if node.DepthExceeded {
		marker = " (depth exceeded)"
	}
	dep := ""
	if node.DepType != "" {
		dep = fmt.Sprintf(" [%s]", node.DepType)
	}
	fmt.Printf("%s%s%s %s (%s)%s\n", indent, node.ID, dep, node.Title, node.Status, marker)
	for _, child := range node.Children {
		printTreeNode(child, depth+1)
	}
}

func init() {
	showCmd.Flags().BoolVar(&showTree, "tree", false, "Show the dependency tree rooted at this issue")
	showCmd.Flags().IntVar(&showDepth, "depth", 5, "Maximum tree depth")
	showCmd.Flags().BoolVar(&showAllPaths, "all-paths", false, "Do not suppress cycles; caller must bound --depth")
}
