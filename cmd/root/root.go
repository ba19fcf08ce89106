// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fjacquet/ynab-autocat/internal/config"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.StandardLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ynab-autocat",
		Short: "Assign categories to uncategorized budget transactions.",
		Long: `ynab-autocat categorizes uncategorized budget transactions by learning from
your past categorization decisions, with an optional Gemini-backed fallback
when history alone is not conclusive.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ynab-autocat!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
		},
	}
)

// Init initializes the root command and all persistent flags.
func Init() {
	Cmd.PersistentFlags().String("budget", "", "Budget identifier (defaults to YNAB_BUDGET_ID)")
	Cmd.PersistentFlags().String("since", "", "Only consider uncategorized transactions on or after this ISO date")
	Cmd.PersistentFlags().String("history-since", "", "Only build history from transactions on or after this ISO date")
	Cmd.PersistentFlags().Float64("min-confidence", 0.6, "Minimum confidence for a historical match")
}
