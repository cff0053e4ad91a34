package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/brain"
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/external/optimizer"
	"github.com/wonny/screener/internal/external/tradestie"
	"github.com/wonny/screener/internal/external/yahoo"
	"github.com/wonny/screener/internal/notify"
	"github.com/wonny/screener/internal/portfolio"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// runCmd executes the full screening pipeline and posts to Discord.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every enabled screen and post the results",
	Long: `Fetches fundamentals for the whole universe, ranks it through every
enabled formula, optionally runs portfolio risk analysis on the top
picks, and posts each result to the configured Discord webhook.

Example:
  go run ./cmd/screener run
  go run ./cmd/screener run --dry-run`,
	RunE: runScreening,
}

var runDryRun bool

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "rank only, do not post to Discord")
}

func runScreening(cmd *cobra.Command, args []string) error {
	orchestrator, err := initOrchestrator()
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	result, err := orchestrator.Run(cmd.Context(), brain.RunConfig{DryRun: runDryRun})
	if err != nil {
		return fmt.Errorf("screening run failed: %w", err)
	}

	printRunResult(result)

	if !result.Success {
		return fmt.Errorf("screening run finished with %d error(s)", len(result.Errors))
	}
	return nil
}

// initOrchestrator wires config, logger, HTTP clients, providers, and
// the notifier into a ready-to-run orchestrator.
func initOrchestrator() (*brain.Orchestrator, error) {
	return initOrchestratorWith(nil)
}

// initOrchestratorWith lets a command adjust the loaded config (toggle
// formulas, disable analytics) before wiring.
func initOrchestratorWith(adjust func(*config.Config)) (*brain.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if adjust != nil {
		adjust(cfg)
	}

	log := logger.New(cfg)

	// Yahoo throttles aggressive callers, so its client gets a rate cap
	// on top of the shared retry policy.
	yahooHTTP := httputil.New(log).WithRateLimit(cfg.Yahoo.RatePerSecond)
	defaultHTTP := httputil.New(log)

	fundamentals := yahoo.NewClient(cfg, yahooHTTP, log)
	sentiment := tradestie.NewClient(cfg, defaultHTTP, log)
	notifier := notify.NewDiscordNotifier(cfg, defaultHTTP, log)

	var analyzer contracts.PortfolioAnalyzer
	if cfg.PortfolioAnalysis {
		engine := optimizer.NewClient(cfg, defaultHTTP, log)
		analyzer = portfolio.NewAnalyzer(cfg, fundamentals, engine, log)
	}

	return brain.NewOrchestrator(fundamentals, sentiment, analyzer, notifier, cfg, log), nil
}
