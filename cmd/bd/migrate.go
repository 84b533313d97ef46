package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/codepatch"
	"github.com/textbeads/textbeads/internal/storage"
)

var (
	migrateToHashDryRun       bool
	migrateToHashUpdateConfig bool
	migrateToHashHex          bool
	migrateToHashPatch        bool
)

var migrateToHashCmd = &cobra.Command{
	Use:   "migrate-to-hash",
	Short: "Migrate sequential-scheme issues under the current prefix to content-addressed hash ids",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		report, err := store.MigrateToHash(migrateToHashDryRun, migrateToHashUpdateConfig, migrateToHashHex)
		if err != nil {
			fail(err)
		}
		maybePatchMigration(store, report.Mapping, migrateToHashDryRun, migrateToHashPatch)
		printMigrationReport(report, migrateToHashDryRun)
	},
}

var (
	migrateToNumericDryRun       bool
	migrateToNumericUpdateConfig bool
	migrateToNumericMaxGap       int
	migrateToNumericPatch        bool
)

var migrateToNumericCmd = &cobra.Command{
	Use:   "migrate-to-numeric",
	Short: "Migrate hash-scheme issues under the current prefix back to sequential ids",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		report, err := store.MigrateToSequential(migrateToNumericDryRun, migrateToNumericUpdateConfig, migrateToNumericMaxGap)
		if err != nil {
			fail(err)
		}
		maybePatchMigration(store, report.Mapping, migrateToNumericDryRun, migrateToNumericPatch)
		printMigrationReport(report, migrateToNumericDryRun)
	},
}

func maybePatchMigration(store *storage.Store, mapping map[string]string, dryRun, patch bool) {
	if dryRun || !patch || len(mapping) == 0 {
		return
	}
	if _, err := codepatch.PatchForMigration(mapping, store.Dir()); err != nil {
		fail(err)
	}
}

func printMigrationReport(report *storage.MigrationReport, dryRun bool) {
	printResult(report, func() {
		if dryRun {
			fmt.Println("Planned changes (dry run):")
		}
		for _, id := range report.Reclassified {
			fmt.Printf("Reclassified decimal-looking id as hash: %s\n", id)
		}
		for old, new := range report.Mapping {
			fmt.Printf("%s -> %s\n", old, new)
		}
		for _, change := range report.Changes {
			fmt.Println(change)
		}
		if report.ConfigUpdated {
			fmt.Println("Scheme flag updated.")
		}
	})
}

func init() {
	migrateToHashCmd.Flags().BoolVar(&migrateToHashDryRun, "dry-run", false, "Report planned changes without writing")
	migrateToHashCmd.Flags().BoolVar(&migrateToHashUpdateConfig, "update-config", true, "Flip the hash-id scheme flag in flags.yaml")
	migrateToHashCmd.Flags().BoolVar(&migrateToHashHex, "hex", false, "Use legacy hexadecimal encoding instead of base-36")
	migrateToHashCmd.Flags().BoolVar(&migrateToHashPatch, "patch", false, "Also offer to patch matching source references (interactive only)")

	migrateToNumericCmd.Flags().BoolVar(&migrateToNumericDryRun, "dry-run", false, "Report planned changes without writing")
	migrateToNumericCmd.Flags().BoolVar(&migrateToNumericUpdateConfig, "update-config", true, "Flip the hash-id scheme flag off in flags.yaml")
	migrateToNumericCmd.Flags().IntVar(&migrateToNumericMaxGap, "max-gap", 100, "MAX_GAP threshold separating sequential ids from all-digit hash ids")
	migrateToNumericCmd.Flags().BoolVar(&migrateToNumericPatch, "patch", false, "Also offer to patch matching source references (interactive only)")
}
