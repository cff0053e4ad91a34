package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/brain"
	"github.com/wonny/screener/pkg/config"
)

// screenCmd runs a single formula and prints the ranking to stdout
// without touching Discord.
var screenCmd = &cobra.Command{
	Use:       "screen [formula]",
	Short:     "Run a single screen and print the ranking",
	ValidArgs: []string{"magic", "acquirer", "graham", "altman", "piotroski", "momentum"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `Runs one formula against the universe and prints the top picks to
stdout. Nothing is posted to Discord.

Formulas:
  magic      Magic Formula (earnings yield + return on capital)
  acquirer   Acquirer's Multiple (EV / EBIT)
  graham     Graham Number (margin of safety)
  altman     Altman Z-Score (Safe zone only)
  piotroski  Piotroski F-Score (nine fundamental signals)
  momentum   Reddit momentum (r/wallstreetbets sentiment)

Example:
  go run ./cmd/screener screen magic
  go run ./cmd/screener screen momentum --top 10`,
	RunE: runScreen,
}

var screenTop int

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().IntVar(&screenTop, "top", 0, "number of picks to show (default: TOP_N_STOCKS)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	formula := args[0]

	orchestrator, err := initOrchestratorWith(func(cfg *config.Config) {
		cfg.Formulas = config.FormulaToggles{
			MagicFormula:     formula == "magic",
			AcquirerMultiple: formula == "acquirer",
			GrahamNumber:     formula == "graham",
			AltmanZScore:     formula == "altman",
			PiotroskiFScore:  formula == "piotroski",
			RedditMomentum:   formula == "momentum",
		}
		cfg.PortfolioAnalysis = false
		if screenTop > 0 {
			cfg.TopN = screenTop
		}
	})
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	result, err := orchestrator.Run(cmd.Context(), brain.RunConfig{DryRun: true})
	if err != nil {
		return fmt.Errorf("screen failed: %w", err)
	}

	printRunResult(result)
	return nil
}
