package brain

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/signals"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/logger"
)

func f(v float64) *float64 {
	return &v
}

// healthyRecord has every field populated, so each fundamental formula
// can rank it.
func healthyRecord(symbol string, ebit float64) contracts.StockRecord {
	return contracts.StockRecord{
		Symbol:          symbol,
		CompanyName:     symbol + " Inc.",
		Price:           f(50),
		MarketCap:       f(1e9),
		EnterpriseValue: f(1e9),

		EBIT:            f(ebit),
		NetIncome:       f(ebit * 0.8),
		Revenue:         f(1e9),
		GrossProfit:     f(4e8),
		RevenuePrev:     f(9e8),
		GrossProfitPrev: f(3e8),

		TotalAssets:            f(8e8),
		CurrentAssets:          f(3e8),
		CurrentLiabilities:     f(2e8),
		TotalLiabilities:       f(4e8),
		LongTermDebt:           f(1e8),
		RetainedEarnings:       f(2e8),
		SharesOutstanding:      f(1e7),
		TotalAssetsPrev:        f(8e8),
		CurrentLiabilitiesPrev: f(2.5e8),
		LongTermDebtPrev:       f(1.5e8),

		OperatingCashFlow: f(ebit * 0.9),
		EPS:               f(5),
		BookValuePerShare: f(20),

		WorkingCapital:    f(1e8),
		CurrentRatio:      f(1.5),
		CurrentRatioPrev:  f(1.2),
		ROA:               f(0.10),
		ROAPrev:           f(0.08),
		GrossMargin:       f(0.40),
		GrossMarginPrev:   f(0.33),
		AssetTurnover:     f(1.25),
		AssetTurnoverPrev: f(1.12),
	}
}

type stubFundamentals struct {
	records map[string]*contracts.StockRecord
	order   []string
	fetches int
}

func (s *stubFundamentals) Universe() []string {
	return s.order
}

func (s *stubFundamentals) FetchRecord(ctx context.Context, symbol string) (*contracts.StockRecord, error) {
	s.fetches++
	rec, ok := s.records[symbol]
	if !ok {
		return nil, fmt.Errorf("fetch failed for %s", symbol)
	}
	return rec, nil
}

type stubSentiment struct {
	records []contracts.SentimentRecord
	err     error
}

func (s *stubSentiment) FetchSentiment(ctx context.Context) ([]contracts.SentimentRecord, error) {
	return s.records, s.err
}

type stubAnalyzer struct {
	reports []*contracts.RiskReport
	calls   []string
}

func (s *stubAnalyzer) AnalyzeTopPicks(ctx context.Context, formula string, symbols []string) (*contracts.RiskReport, error) {
	s.calls = append(s.calls, formula)
	report := &contracts.RiskReport{Formula: formula, Symbols: symbols}
	s.reports = append(s.reports, report)
	return report, nil
}

type stubNotifier struct {
	sent    []string
	failOn  string
	reports []*contracts.RiskReport
}

func (s *stubNotifier) record(name string) error {
	if s.failOn == name {
		return fmt.Errorf("webhook rejected %s", name)
	}
	s.sent = append(s.sent, name)
	return nil
}

func (s *stubNotifier) SendMagicFormula(ctx context.Context, r []signals.MagicResult) error {
	return s.record("magic")
}
func (s *stubNotifier) SendAcquirerMultiple(ctx context.Context, r []signals.AcquirerResult) error {
	return s.record("acquirer")
}
func (s *stubNotifier) SendGrahamNumber(ctx context.Context, r []signals.GrahamResult) error {
	return s.record("graham")
}
func (s *stubNotifier) SendAltmanZScore(ctx context.Context, r []signals.AltmanResult) error {
	return s.record("altman")
}
func (s *stubNotifier) SendPiotroskiFScore(ctx context.Context, r []signals.PiotroskiResult) error {
	return s.record("piotroski")
}
func (s *stubNotifier) SendRedditMomentum(ctx context.Context, r []signals.MomentumResult) error {
	return s.record("momentum")
}
func (s *stubNotifier) SendRiskReport(ctx context.Context, report *contracts.RiskReport) error {
	s.reports = append(s.reports, report)
	return nil
}

func allFormulasConfig() *config.Config {
	return &config.Config{
		TopN: 5,
		Formulas: config.FormulaToggles{
			MagicFormula:     true,
			AcquirerMultiple: true,
			GrahamNumber:     true,
			AltmanZScore:     true,
			PiotroskiFScore:  true,
			RedditMomentum:   true,
		},
	}
}

func testFundamentals() *stubFundamentals {
	aapl := healthyRecord("AAPL", 2e8)
	msft := healthyRecord("MSFT", 1.5e8)
	return &stubFundamentals{
		order: []string{"AAPL", "MSFT"},
		records: map[string]*contracts.StockRecord{
			"AAPL": &aapl,
			"MSFT": &msft,
		},
	}
}

func testSentiment() *stubSentiment {
	return &stubSentiment{records: []contracts.SentimentRecord{
		{Ticker: "AAPL", NoOfComments: 100, Sentiment: contracts.SentimentBullish, SentimentScore: 0.2},
		{Ticker: "MSFT", NoOfComments: 50, Sentiment: contracts.SentimentBullish, SentimentScore: 0.1},
	}}
}

func TestRun_AllFormulas(t *testing.T) {
	notifier := &stubNotifier{}
	o := NewOrchestrator(testFundamentals(), testSentiment(), nil, notifier, allFormulasConfig(), logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Records, 2)

	assert.Equal(t, []string{
		"fetch:fundamentals",
		"formula:magic",
		"formula:acquirer",
		"formula:graham",
		"formula:altman",
		"formula:piotroski",
		"formula:momentum",
	}, result.CompletedStages)

	assert.Equal(t, []string{"magic", "acquirer", "graham", "altman", "piotroski", "momentum"}, notifier.sent)

	require.Len(t, result.Magic, 2)
	assert.Equal(t, "AAPL", result.Magic[0].Record.Symbol, "higher EBIT on the same base wins both metrics")
	require.Len(t, result.Momentum, 2)
	assert.Equal(t, "AAPL", result.Momentum[0].Record.Ticker)
}

func TestRun_DryRunSkipsNotifications(t *testing.T) {
	notifier := &stubNotifier{}
	o := NewOrchestrator(testFundamentals(), testSentiment(), nil, notifier, allFormulasConfig(), logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{DryRun: true})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, notifier.sent)
	assert.NotEmpty(t, result.Magic, "rankings are still produced")
}

func TestRun_DisabledFormulasAreSkipped(t *testing.T) {
	cfg := &config.Config{
		TopN:     5,
		Formulas: config.FormulaToggles{RedditMomentum: true},
	}
	fundamentals := testFundamentals()
	notifier := &stubNotifier{}
	o := NewOrchestrator(fundamentals, testSentiment(), nil, notifier, cfg, logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{})

	require.NoError(t, err)
	assert.Equal(t, 0, fundamentals.fetches, "no fundamentals needed for momentum only")
	assert.Equal(t, []string{"formula:momentum"}, result.CompletedStages)
	assert.Equal(t, []string{"momentum"}, notifier.sent)
}

func TestRun_FundamentalsFailureAborts(t *testing.T) {
	fundamentals := &stubFundamentals{order: []string{"AAPL"}, records: map[string]*contracts.StockRecord{}}
	o := NewOrchestrator(fundamentals, testSentiment(), nil, &stubNotifier{}, allFormulasConfig(), logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{})

	require.Error(t, err)
	assert.False(t, result.Success)
}

func TestRun_FilteredSymbolsAreSkipped(t *testing.T) {
	aapl := healthyRecord("AAPL", 2e8)
	fundamentals := &stubFundamentals{
		order: []string{"AAPL", "TINY"},
		records: map[string]*contracts.StockRecord{
			"AAPL": &aapl,
			"TINY": nil, // provider filtered it out
		},
	}
	o := NewOrchestrator(fundamentals, testSentiment(), nil, &stubNotifier{}, allFormulasConfig(), logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{})

	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
}

func TestRun_FormulaFailureDoesNotStopOthers(t *testing.T) {
	notifier := &stubNotifier{failOn: "graham"}
	o := NewOrchestrator(testFundamentals(), testSentiment(), nil, notifier, allFormulasConfig(), logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{})

	require.NoError(t, err, "per-formula failures do not abort the run")
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "graham")
	assert.Contains(t, notifier.sent, "piotroski", "later formulas still ran")
	assert.Contains(t, notifier.sent, "momentum")
}

func TestRun_SentimentFailureOnlyFailsMomentum(t *testing.T) {
	sentiment := &stubSentiment{err: fmt.Errorf("api down")}
	notifier := &stubNotifier{}
	o := NewOrchestrator(testFundamentals(), sentiment, nil, notifier, allFormulasConfig(), logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{})

	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.NotContains(t, notifier.sent, "momentum")
	assert.Contains(t, notifier.sent, "magic")
}

func TestRun_PortfolioAnalysis(t *testing.T) {
	analyzer := &stubAnalyzer{}
	notifier := &stubNotifier{}
	o := NewOrchestrator(testFundamentals(), testSentiment(), analyzer, notifier, allFormulasConfig(), logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{})

	require.NoError(t, err)
	assert.True(t, result.Success)
	// Two healthy records qualify in every fundamental formula plus momentum
	assert.Len(t, analyzer.calls, 6)
	assert.Len(t, result.RiskReports, 6)
	assert.Len(t, notifier.reports, 6)
	assert.Contains(t, analyzer.calls, "Magic Formula")
	assert.Contains(t, analyzer.calls, "Reddit Momentum")
}

func TestRun_PortfolioAnalysisSkippedForSinglePick(t *testing.T) {
	aapl := healthyRecord("AAPL", 2e8)
	fundamentals := &stubFundamentals{
		order:   []string{"AAPL"},
		records: map[string]*contracts.StockRecord{"AAPL": &aapl},
	}
	cfg := &config.Config{
		TopN:     5,
		Formulas: config.FormulaToggles{GrahamNumber: true},
	}
	analyzer := &stubAnalyzer{}
	o := NewOrchestrator(fundamentals, testSentiment(), analyzer, &stubNotifier{}, cfg, logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, analyzer.calls, "one symbol is not a portfolio")
}
