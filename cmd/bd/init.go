package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/textbeads/textbeads/internal/config"
	"github.com/textbeads/textbeads/internal/storage"
)

var initPrefix string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new store directory",
	Run: func(cmd *cobra.Command, args []string) {
		dir := storeFlag
		if dir == "" {
			dir = config.DefaultStoreDirName
		}
		store, err := storage.Init(dir, initPrefix)
		if err != nil {
			fail(err)
		}
		prefix, err := store.GetPrefix()
		if err != nil {
			fail(err)
		}

		printResult(map[string]string{"store": store.Dir(), "prefix": prefix}, func() {
			fmt.Fprintf(os.Stdout, "Initialized store %s with prefix %q\n", store.Dir(), prefix)
		})
	},
}

func init() {
	initCmd.Flags().StringVar(&initPrefix, "prefix", "", "Issue-id prefix (default: inferred from the parent directory name)")
}
