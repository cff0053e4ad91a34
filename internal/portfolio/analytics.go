package portfolio

import (
	"context"
	"fmt"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/logger"
)

// tradingDaysPerYear annualizes daily statistics.
const tradingDaysPerYear = 252

// historyRange is the price history window used for risk statistics.
const historyRange = "1y"

// PriceSource supplies daily closing prices, most recent last.
type PriceSource interface {
	DailyCloses(ctx context.Context, symbol, chartRange string) ([]float64, error)
}

// RiskEngine computes portfolio statistics and optimal allocations from
// a covariance matrix and expected returns.
type RiskEngine interface {
	AnalyzeVolatility(ctx context.Context, assets []string, weights []float64, covariance [][]float64) (float64, error)
	AnalyzeSharpeRatio(ctx context.Context, assets []string, weights []float64, covariance [][]float64, expectedReturns []float64, riskFreeRate float64) (float64, error)
	AnalyzeDiversificationRatio(ctx context.Context, assets []string, weights []float64, covariance [][]float64) (float64, error)
	MaximizeSharpeRatio(ctx context.Context, assets []string, covariance [][]float64, expectedReturns []float64, riskFreeRate float64) (map[string]float64, error)
	MinimizeVariance(ctx context.Context, assets []string, covariance [][]float64) (map[string]float64, error)
	EqualizeRiskContributions(ctx context.Context, assets []string, covariance [][]float64) (map[string]float64, error)
}

// Analyzer builds risk reports for a formula's top picks. It fetches
// price history, derives annualized return statistics, and delegates
// the portfolio math to the risk engine.
type Analyzer struct {
	prices       PriceSource
	engine       RiskEngine
	logger       *logger.Logger
	riskFreeRate float64
}

// NewAnalyzer creates a portfolio analyzer.
func NewAnalyzer(cfg *config.Config, prices PriceSource, engine RiskEngine, log *logger.Logger) *Analyzer {
	return &Analyzer{
		prices:       prices,
		engine:       engine,
		logger:       log,
		riskFreeRate: cfg.RiskFreeRate,
	}
}

// AnalyzeTopPicks produces a risk report for the given symbols. At
// least two symbols are required; portfolio statistics are undefined
// for a single asset. Individual analytics failures are logged and
// leave the corresponding report field empty rather than failing the
// whole report.
func (a *Analyzer) AnalyzeTopPicks(ctx context.Context, formula string, symbols []string) (*contracts.RiskReport, error) {
	if len(symbols) < 2 {
		return nil, fmt.Errorf("portfolio analysis requires at least 2 symbols, got %d", len(symbols))
	}

	returns := make([][]float64, 0, len(symbols))
	kept := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		closes, err := a.prices.DailyCloses(ctx, symbol, historyRange)
		if err != nil {
			a.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to fetch price history, excluding from portfolio analysis")
			continue
		}

		dailyReturns := Returns(closes)
		if len(dailyReturns) < 2 {
			a.logger.WithField("symbol", symbol).Warn("Insufficient price history, excluding from portfolio analysis")
			continue
		}

		returns = append(returns, dailyReturns)
		kept = append(kept, symbol)
	}

	if len(kept) < 2 {
		return nil, fmt.Errorf("portfolio analysis requires at least 2 symbols with price history, got %d", len(kept))
	}

	AlignReturns(returns)
	covariance := Covariance(returns)
	expectedReturns := ExpectedReturns(returns)
	weights := EqualWeights(len(kept))

	report := &contracts.RiskReport{
		Formula: formula,
		Symbols: kept,
	}

	if v, err := a.engine.AnalyzeVolatility(ctx, kept, weights, covariance); err != nil {
		a.logger.WithError(err).WithField("formula", formula).Warn("Volatility analysis failed")
	} else {
		report.Volatility = &v
	}

	if s, err := a.engine.AnalyzeSharpeRatio(ctx, kept, weights, covariance, expectedReturns, a.riskFreeRate); err != nil {
		a.logger.WithError(err).WithField("formula", formula).Warn("Sharpe ratio analysis failed")
	} else {
		report.SharpeRatio = &s
	}

	if d, err := a.engine.AnalyzeDiversificationRatio(ctx, kept, weights, covariance); err != nil {
		a.logger.WithError(err).WithField("formula", formula).Warn("Diversification ratio analysis failed")
	} else {
		report.DiversificationRatio = &d
	}

	if w, err := a.engine.MaximizeSharpeRatio(ctx, kept, covariance, expectedReturns, a.riskFreeRate); err != nil {
		a.logger.WithError(err).WithField("formula", formula).Warn("Sharpe ratio maximization failed")
	} else {
		report.MaxSharpeWeights = w
	}

	if w, err := a.engine.MinimizeVariance(ctx, kept, covariance); err != nil {
		a.logger.WithError(err).WithField("formula", formula).Warn("Variance minimization failed")
	} else {
		report.MinVarianceWeights = w
	}

	if w, err := a.engine.EqualizeRiskContributions(ctx, kept, covariance); err != nil {
		a.logger.WithError(err).WithField("formula", formula).Warn("Risk parity optimization failed")
	} else {
		report.RiskParityWeights = w
	}

	return report, nil
}
