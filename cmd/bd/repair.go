package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var repairDryRun bool

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Scan every issue for dangling dependency references and fix or report them",
	Run: func(cmd *cobra.Command, args []string) {
		changes, err := openStore().RepairReferences(repairDryRun)
		if err != nil {
			fail(err)
		}
		printResult(changes, func() {
			if len(changes) == 0 {
				fmt.Println("No dangling references found.")
				return
			}
			if repairDryRun {
				fmt.Println("Planned changes (dry run):")
			}
			for _, change := range changes {
				fmt.Println(change)
			}
		})
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "Report dangling references without writing")
}
