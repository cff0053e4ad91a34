package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/signals"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/logger"
)

// Notifier delivers ranked results to the output channel.
type Notifier interface {
	SendMagicFormula(ctx context.Context, results []signals.MagicResult) error
	SendAcquirerMultiple(ctx context.Context, results []signals.AcquirerResult) error
	SendGrahamNumber(ctx context.Context, results []signals.GrahamResult) error
	SendAltmanZScore(ctx context.Context, results []signals.AltmanResult) error
	SendPiotroskiFScore(ctx context.Context, results []signals.PiotroskiResult) error
	SendRedditMomentum(ctx context.Context, results []signals.MomentumResult) error
	SendRiskReport(ctx context.Context, report *contracts.RiskReport) error
}

// Orchestrator coordinates the screening pipeline: fetch, rank per
// formula, analyze, notify.
// SSOT: pipeline coordination happens only here.
type Orchestrator struct {
	fundamentals contracts.FundamentalsProvider
	sentiment    contracts.SentimentProvider
	analyzer     contracts.PortfolioAnalyzer // nil when portfolio analysis is disabled
	notifier     Notifier

	cfg    *config.Config
	logger *logger.Logger
}

// RunConfig holds configuration for a single screening run.
type RunConfig struct {
	DryRun bool // rank but do not notify
}

// RunResult holds the outputs of a complete screening run.
type RunResult struct {
	Success         bool
	CompletedStages []string
	Errors          []error

	Records   []contracts.StockRecord
	Magic     []signals.MagicResult
	Acquirer  []signals.AcquirerResult
	Graham    []signals.GrahamResult
	Altman    []signals.AltmanResult
	Piotroski []signals.PiotroskiResult
	Momentum  []signals.MomentumResult

	RiskReports []*contracts.RiskReport

	Duration time.Duration
}

// NewOrchestrator creates a new orchestrator. analyzer may be nil when
// portfolio analysis is disabled.
func NewOrchestrator(
	fundamentals contracts.FundamentalsProvider,
	sentiment contracts.SentimentProvider,
	analyzer contracts.PortfolioAnalyzer,
	notifier Notifier,
	cfg *config.Config,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		fundamentals: fundamentals,
		sentiment:    sentiment,
		analyzer:     analyzer,
		notifier:     notifier,
		cfg:          cfg,
		logger:       log,
	}
}

// fundamentalsNeeded reports whether any formula requiring stock
// fundamentals is enabled.
func (o *Orchestrator) fundamentalsNeeded() bool {
	f := o.cfg.Formulas
	return f.MagicFormula || f.AcquirerMultiple || f.GrahamNumber || f.AltmanZScore || f.PiotroskiFScore
}

// Run executes the full pipeline. Formulas run sequentially and
// independently: a failure in one is recorded and the run continues
// with the next. Only a fundamentals fetch failure aborts the run,
// since every value formula depends on it.
func (o *Orchestrator) Run(ctx context.Context, runCfg RunConfig) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		CompletedStages: make([]string, 0),
	}

	o.logger.WithFields(map[string]interface{}{
		"top_n":              o.cfg.TopN,
		"dry_run":            runCfg.DryRun,
		"portfolio_analysis": o.analyzer != nil,
	}).Info("Starting screening run")

	if o.fundamentalsNeeded() {
		records, err := o.fetchFundamentals(ctx)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return result, fmt.Errorf("fundamentals fetch failed: %w", err)
		}
		result.Records = records
		result.CompletedStages = append(result.CompletedStages, "fetch:fundamentals")
	}

	if o.cfg.Formulas.MagicFormula {
		o.runMagicFormula(ctx, runCfg, result)
	}
	if o.cfg.Formulas.AcquirerMultiple {
		o.runAcquirerMultiple(ctx, runCfg, result)
	}
	if o.cfg.Formulas.GrahamNumber {
		o.runGrahamNumber(ctx, runCfg, result)
	}
	if o.cfg.Formulas.AltmanZScore {
		o.runAltmanZScore(ctx, runCfg, result)
	}
	if o.cfg.Formulas.PiotroskiFScore {
		o.runPiotroskiFScore(ctx, runCfg, result)
	}
	if o.cfg.Formulas.RedditMomentum {
		o.runRedditMomentum(ctx, runCfg, result)
	}

	result.Success = len(result.Errors) == 0
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
		"errors":   len(result.Errors),
	}).Info("Screening run completed")

	return result, nil
}

// fetchFundamentals pulls a record for every universe symbol, one at a
// time. Symbols the provider filters out or fails on are skipped.
func (o *Orchestrator) fetchFundamentals(ctx context.Context) ([]contracts.StockRecord, error) {
	symbols := o.fundamentals.Universe()
	o.logger.WithField("universe_size", len(symbols)).Info("Fetching fundamentals")

	records := make([]contracts.StockRecord, 0, len(symbols))
	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := o.fundamentals.FetchRecord(ctx, symbol)
		if err != nil {
			o.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to fetch record, skipping")
			continue
		}
		if rec == nil {
			continue
		}
		records = append(records, *rec)

		if (i+1)%10 == 0 {
			o.logger.WithFields(map[string]interface{}{
				"fetched": i + 1,
				"total":   len(symbols),
				"kept":    len(records),
			}).Info("Fetch progress")
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no usable records out of %d symbols", len(symbols))
	}

	o.logger.WithFields(map[string]interface{}{
		"records":  len(records),
		"universe": len(symbols),
	}).Info("Fundamentals fetched")

	return records, nil
}

func (o *Orchestrator) runMagicFormula(ctx context.Context, runCfg RunConfig, result *RunResult) {
	o.logger.Info("Running formula: Magic Formula")

	ranked := signals.RankMagic(contracts.CloneRecords(result.Records))
	top := signals.TopMagic(ranked, o.cfg.TopN)
	result.Magic = top
	result.CompletedStages = append(result.CompletedStages, "formula:magic")

	o.logger.WithFields(map[string]interface{}{
		"ranked": len(ranked),
		"top":    len(top),
	}).Info("Magic Formula completed")

	if runCfg.DryRun {
		return
	}
	if err := o.notifier.SendMagicFormula(ctx, top); err != nil {
		o.recordError(result, "magic", err)
		return
	}

	syms := make([]string, 0, len(top))
	for _, r := range top {
		syms = append(syms, r.Record.Symbol)
	}
	o.analyzeAndReport(ctx, result, "Magic Formula", syms)
}

func (o *Orchestrator) runAcquirerMultiple(ctx context.Context, runCfg RunConfig, result *RunResult) {
	o.logger.Info("Running formula: Acquirer's Multiple")

	ranked := signals.RankAcquirer(contracts.CloneRecords(result.Records))
	top := signals.TopAcquirer(ranked, o.cfg.TopN)
	result.Acquirer = top
	result.CompletedStages = append(result.CompletedStages, "formula:acquirer")

	o.logger.WithFields(map[string]interface{}{
		"ranked": len(ranked),
		"top":    len(top),
	}).Info("Acquirer's Multiple completed")

	if runCfg.DryRun {
		return
	}
	if err := o.notifier.SendAcquirerMultiple(ctx, top); err != nil {
		o.recordError(result, "acquirer", err)
		return
	}

	syms := make([]string, 0, len(top))
	for _, r := range top {
		syms = append(syms, r.Record.Symbol)
	}
	o.analyzeAndReport(ctx, result, "Acquirer's Multiple", syms)
}

func (o *Orchestrator) runGrahamNumber(ctx context.Context, runCfg RunConfig, result *RunResult) {
	o.logger.Info("Running formula: Graham Number")

	ranked := signals.RankGraham(contracts.CloneRecords(result.Records))
	top := signals.TopGraham(ranked, o.cfg.TopN)
	result.Graham = top
	result.CompletedStages = append(result.CompletedStages, "formula:graham")

	o.logger.WithFields(map[string]interface{}{
		"ranked": len(ranked),
		"top":    len(top),
	}).Info("Graham Number completed")

	if runCfg.DryRun {
		return
	}
	if err := o.notifier.SendGrahamNumber(ctx, top); err != nil {
		o.recordError(result, "graham", err)
		return
	}

	syms := make([]string, 0, len(top))
	for _, r := range top {
		syms = append(syms, r.Record.Symbol)
	}
	o.analyzeAndReport(ctx, result, "Graham Number", syms)
}

func (o *Orchestrator) runAltmanZScore(ctx context.Context, runCfg RunConfig, result *RunResult) {
	o.logger.Info("Running formula: Altman Z-Score")

	ranked := signals.RankAltman(contracts.CloneRecords(result.Records))
	top := signals.TopAltman(ranked, o.cfg.TopN)
	result.Altman = top
	result.CompletedStages = append(result.CompletedStages, "formula:altman")

	o.logger.WithFields(map[string]interface{}{
		"safe_zone": len(ranked),
		"top":       len(top),
	}).Info("Altman Z-Score completed")

	if runCfg.DryRun {
		return
	}
	if err := o.notifier.SendAltmanZScore(ctx, top); err != nil {
		o.recordError(result, "altman", err)
		return
	}

	syms := make([]string, 0, len(top))
	for _, r := range top {
		syms = append(syms, r.Record.Symbol)
	}
	o.analyzeAndReport(ctx, result, "Altman Z-Score", syms)
}

func (o *Orchestrator) runPiotroskiFScore(ctx context.Context, runCfg RunConfig, result *RunResult) {
	o.logger.Info("Running formula: Piotroski F-Score")

	ranked := signals.RankPiotroski(contracts.CloneRecords(result.Records))
	top := signals.TopPiotroski(ranked, o.cfg.TopN)
	result.Piotroski = top
	result.CompletedStages = append(result.CompletedStages, "formula:piotroski")

	o.logger.WithFields(map[string]interface{}{
		"ranked": len(ranked),
		"top":    len(top),
	}).Info("Piotroski F-Score completed")

	if runCfg.DryRun {
		return
	}
	if err := o.notifier.SendPiotroskiFScore(ctx, top); err != nil {
		o.recordError(result, "piotroski", err)
		return
	}

	syms := make([]string, 0, len(top))
	for _, r := range top {
		syms = append(syms, r.Record.Symbol)
	}
	o.analyzeAndReport(ctx, result, "Piotroski F-Score", syms)
}

func (o *Orchestrator) runRedditMomentum(ctx context.Context, runCfg RunConfig, result *RunResult) {
	o.logger.Info("Running formula: Reddit Momentum")

	sentiments, err := o.sentiment.FetchSentiment(ctx)
	if err != nil {
		o.recordError(result, "momentum", fmt.Errorf("sentiment fetch: %w", err))
		return
	}

	filtered := signals.FilterUniverse(sentiments)
	ranked := signals.RankMomentum(filtered)
	top := signals.TopBullish(ranked, o.cfg.TopN)
	result.Momentum = top
	result.CompletedStages = append(result.CompletedStages, "formula:momentum")

	o.logger.WithFields(map[string]interface{}{
		"fetched":  len(sentiments),
		"filtered": len(filtered),
		"ranked":   len(ranked),
		"top":      len(top),
	}).Info("Reddit Momentum completed")

	if runCfg.DryRun {
		return
	}
	if err := o.notifier.SendRedditMomentum(ctx, top); err != nil {
		o.recordError(result, "momentum", err)
		return
	}

	syms := make([]string, 0, len(top))
	for _, r := range top {
		syms = append(syms, r.Record.Ticker)
	}
	o.analyzeAndReport(ctx, result, "Reddit Momentum", syms)
}

// analyzeAndReport runs the optional portfolio risk analysis on a
// formula's top picks. It needs at least two symbols; failures are
// logged but never fail the run, risk analytics are best-effort.
func (o *Orchestrator) analyzeAndReport(ctx context.Context, result *RunResult, formula string, symbols []string) {
	if o.analyzer == nil {
		return
	}
	if len(symbols) < 2 {
		o.logger.WithField("formula", formula).Info("Skipping portfolio analysis, fewer than 2 top picks")
		return
	}

	report, err := o.analyzer.AnalyzeTopPicks(ctx, formula, symbols)
	if err != nil {
		o.logger.WithError(err).WithField("formula", formula).Warn("Portfolio analysis failed")
		return
	}
	result.RiskReports = append(result.RiskReports, report)

	if err := o.notifier.SendRiskReport(ctx, report); err != nil {
		o.logger.WithError(err).WithField("formula", formula).Warn("Failed to send risk report")
	}
}

func (o *Orchestrator) recordError(result *RunResult, formula string, err error) {
	o.logger.WithError(err).WithField("formula", formula).Error("Formula stage failed")
	result.Errors = append(result.Errors, fmt.Errorf("%s: %w", formula, err))
}
