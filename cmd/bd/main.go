// Command bd is the thin CLI front-end over this module's storage and
// sync engines. It owns argument parsing, output formatting, and
// command-history logging; every mutation is delegated straight to
// internal/storage or internal/syncengine.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/textbeads/textbeads/internal/config"
	"github.com/textbeads/textbeads/internal/debug"
)

// Global flags, bound to both CLI flags and TEXTBEADS_-prefixed
// environment variables via viper.
var (
	storeFlag      string
	jsonOutput     bool
	noLog          bool
	validationMode string
)

// Validation severity is a runtime policy, never an on-disk format
// variation: silent suppresses warnings (e.g. a dangling dependency
// target), warn prints them, and strict prints them and also turns on
// debug output. No mode turns a warning into a failure.
const (
	ValidationStrict = "strict"
	ValidationWarn   = "warn"
	ValidationSilent = "silent"
)

var rootCmd = &cobra.Command{
	Use:           "bd",
	Short:         "A filesystem-native, dependency-aware issue tracker",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput = viper.GetBool("json")
		noLog = viper.GetBool("no-log")
		validationMode = viper.GetString("validation")

		switch validationMode {
		case ValidationStrict, ValidationWarn, ValidationSilent:
		default:
			return fmt.Errorf("invalid --validation %q (must be strict, warn, or silent)", validationMode)
		}

		debug.SetQuiet(validationMode == ValidationSilent)
		debug.SetVerbose(validationMode == ValidationStrict)

		if !noLog && cmd.Name() != "init" {
			logCommandHistory()
		}
		return nil
	},
}

func init() {
	viper.SetEnvPrefix("TEXTBEADS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Store directory path (default: auto-discover .textbeads)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output structured JSON instead of plain text")
	rootCmd.PersistentFlags().BoolVar(&noLog, "no-log", false, "Disable command-history logging")
	rootCmd.PersistentFlags().StringVar(&validationMode, "validation", ValidationWarn, "Validation severity: strict, warn, or silent")

	_ = viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("no-log", rootCmd.PersistentFlags().Lookup("no-log"))
	_ = viper.BindPFlag("validation", rootCmd.PersistentFlags().Lookup("validation"))

	rootCmd.AddCommand(
		initCmd,
		createCmd,
		listCmd,
		showCmd,
		updateCmd,
		closeCmd,
		reopenCmd,
		depCmd,
		statsCmd,
		blockedCmd,
		readyCmd,
		renameCmd,
		prefixRenameCmd,
		migrateToHashCmd,
		migrateToNumericCmd,
		repairCmd,
		exportCmd,
		importCmd,
		syncCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+strings.TrimPrefix(err.Error(), "Error: "))
		os.Exit(1)
	}
}

// resolveStore locates the store directory path for every command but
// init, which creates one instead.
func resolveStore() (string, error) {
	return config.ResolveStoreDir(viper.GetString("store"))
}

// logCommandHistory appends one "<RFC-3339 timestamp> <argv-joined>"
// line to command_history.log inside the store directory unless --no-log
// is set. Failure to log a command is never fatal to the command itself.
func logCommandHistory() {
	dir, err := resolveStore()
	if err != nil {
		return
	}
	path := dir + string(os.PathSeparator) + "command_history.log"
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640) // #nosec G304 - dir is the resolved store directory
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	line := fmt.Sprintf("%s %s\n", time.Now().UTC().Format(time.RFC3339), strings.Join(os.Args, " "))
	_, _ = f.WriteString(line)
}
