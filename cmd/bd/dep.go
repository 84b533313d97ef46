package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/types"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage dependency edges",
}

var depAddCmd = &cobra.Command{
	Use:   "add <from> <to> <kind>",
	Short: "Add a dependency edge",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := types.ParseDependencyType(args[2])
		if err != nil {
			fail(err)
		}
		if err := openStore().AddDependency(args[0], args[1], kind); err != nil {
			fail(err)
		}
		printResult(map[string]string{"from": args[0], "to": args[1], "kind": args[2]}, func() {
			fmt.Printf("Added dependency %s -> %s (%s)\n", args[0], args[1], args[2])
		})
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove <from> <to>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := openStore().RemoveDependency(args[0], args[1]); err != nil {
			fail(err)
		}
		printResult(map[string]string{"from": args[0], "to": args[1]}, func() {
			fmt.Printf("Removed dependency %s -> %s\n", args[0], args[1])
		})
	},
}

func init() {
	depCmd.AddCommand(depAddCmd, depRemoveCmd)
}
