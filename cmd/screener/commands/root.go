package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Multi-formula value and momentum stock screener",
	Long: `Stock screening bot.

Ranks a fixed US equity universe through six screens (Magic Formula,
Acquirer's Multiple, Graham Number, Altman Z-Score, Piotroski F-Score,
Reddit momentum) and posts the top picks to Discord.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener run
  go run ./cmd/screener run --dry-run
  go run ./cmd/screener screen magic --top 10
  go run ./cmd/screener universe`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
