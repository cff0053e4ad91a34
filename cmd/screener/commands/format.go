package commands

import (
	"fmt"

	"github.com/wonny/screener/internal/brain"
	"github.com/wonny/screener/internal/contracts"
)

// printRunResult prints a run summary and every non-empty ranking to
// stdout.
func printRunResult(result *brain.RunResult) {
	fmt.Println("\n═══════════════════════════════════════════════════════════")
	if result.Success {
		fmt.Println("  ✅ Screening Run Completed")
	} else {
		fmt.Println("  ⚠️  Screening Run Completed With Errors")
	}
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Duration : %.2fs\n", result.Duration.Seconds())
	fmt.Printf("  Records  : %d\n", len(result.Records))
	fmt.Println("───────────────────────────────────────────────────────────")

	fmt.Println("Completed Stages:")
	for _, stage := range result.CompletedStages {
		fmt.Printf("  ✅ %s\n", stage)
	}
	for _, err := range result.Errors {
		fmt.Printf("  ❌ %v\n", err)
	}

	if len(result.Magic) > 0 {
		fmt.Println("\n🪄 Magic Formula")
		for _, r := range result.Magic {
			fmt.Printf("  %2d. %-6s  score=%-3d  EY=%6.2f%%  ROC=%6.2f%%  $%.2f\n",
				r.Rank, r.Record.Symbol, r.MagicScore, r.EarningsYield*100, r.ReturnOnCapital*100,
				contracts.Value(r.Record.Price))
		}
	}

	if len(result.Acquirer) > 0 {
		fmt.Println("\n💰 Acquirer's Multiple")
		for _, r := range result.Acquirer {
			fmt.Printf("  %2d. %-6s  multiple=%6.2f  $%.2f\n",
				r.Rank, r.Record.Symbol, r.Multiple, contracts.Value(r.Record.Price))
		}
	}

	if len(result.Graham) > 0 {
		fmt.Println("\n📐 Graham Number")
		for _, r := range result.Graham {
			fmt.Printf("  %2d. %-6s  graham=$%-8.2f  margin=%6.2f%%  $%.2f\n",
				r.Rank, r.Record.Symbol, r.GrahamNumber, r.MarginOfSafety,
				contracts.Value(r.Record.Price))
		}
	}

	if len(result.Altman) > 0 {
		fmt.Println("\n🛡️ Altman Z-Score")
		for _, r := range result.Altman {
			fmt.Printf("  %2d. %-6s  z=%6.2f  zone=%s\n",
				r.Rank, r.Record.Symbol, r.ZScore, r.RiskZone)
		}
	}

	if len(result.Piotroski) > 0 {
		fmt.Println("\n💪 Piotroski F-Score")
		for _, r := range result.Piotroski {
			fmt.Printf("  %2d. %-6s  f-score=%d/9\n", r.Rank, r.Record.Symbol, r.FScore)
		}
	}

	if len(result.Momentum) > 0 {
		fmt.Println("\n🚀 Reddit Momentum")
		for i, r := range result.Momentum {
			fmt.Printf("  %2d. %-6s  %s (%.3f)  comments=%-5d  momentum=%.2f\n",
				i+1, r.Record.Ticker, r.Record.Sentiment, r.Record.SentimentScore,
				r.Record.NoOfComments, r.MomentumScore)
		}
	}

	for _, report := range result.RiskReports {
		fmt.Printf("\n📊 Portfolio Risk: %s (%v)\n", report.Formula, report.Symbols)
		if report.Volatility != nil {
			fmt.Printf("  Volatility           : %.2f%%\n", *report.Volatility*100)
		}
		if report.SharpeRatio != nil {
			fmt.Printf("  Sharpe Ratio         : %.2f\n", *report.SharpeRatio)
		}
		if report.DiversificationRatio != nil {
			fmt.Printf("  Diversification Ratio: %.2f\n", *report.DiversificationRatio)
		}
	}

	fmt.Println()
}
