package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/types"
)

var statsCycles bool

type statsResult struct {
	*types.Stats
	Cycles [][]string `json:"cycles,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate counts and ready/lead-time metrics",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		stats, err := store.Stats()
		if err != nil {
			fail(err)
		}

		var cycles [][]string
		if statsCycles {
			cycles, err = store.DetectCycles()
			if err != nil {
				fail(err)
			}
		}

		printResult(statsResult{Stats: stats, Cycles: cycles}, func() {
			fmt.Printf("total: %d  open: %d  in_progress: %d  blocked: %d  closed: %d\n",
				stats.TotalIssues, stats.OpenIssues, stats.InProgressIssues, stats.BlockedIssues, stats.ClosedIssues)
			fmt.Printf("ready: %d  avg lead time: %.1fh\n", stats.ReadyIssues, stats.AverageLeadTimeHours)
			for _, cycle := range cycles {
				fmt.Printf("cycle: %v\n", cycle)
			}
		})
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsCycles, "cycles", false, "Also report detected dependency cycles")
}
