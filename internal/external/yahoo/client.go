package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/universe"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// quoteSummary modules needed to cover every screening formula in one
// request per symbol.
const quoteSummaryModules = "price,summaryProfile,defaultKeyStatistics,financialData," +
	"incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory"

// Client fetches company fundamentals from Yahoo Finance.
// SSOT: Yahoo Finance calls happen only in this client.
type Client struct {
	httpClient      *httputil.Client
	logger          *logger.Logger
	baseURL         string
	minMarketCap    float64
	excludedSectors map[string]bool
}

// NewClient creates a new fundamentals client. Market-cap and sector
// filters are applied here at fetch time, upstream of the scoring core.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	excluded := make(map[string]bool, len(cfg.ExcludedSectors))
	for _, s := range cfg.ExcludedSectors {
		excluded[s] = true
	}

	return &Client{
		httpClient:      httpClient,
		logger:          log,
		baseURL:         cfg.Yahoo.BaseURL,
		minMarketCap:    cfg.MinMarketCap,
		excludedSectors: excluded,
	}
}

// Universe returns the fixed symbol list to screen. Yahoo has no
// screener endpoint, so the bot works off a predefined universe.
func (c *Client) Universe() []string {
	c.logger.WithField("size", universe.Size()).Info("Using predefined stock universe")
	return universe.Symbols()
}

// FetchRecord fetches all fundamentals for one symbol and maps them to
// a StockRecord. It returns (nil, nil) when the symbol is filtered out
// by market cap or sector, or lacks the core fields every formula needs;
// transport failures surface as errors.
func (c *Client) FetchRecord(ctx context.Context, symbol string) (*contracts.StockRecord, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(quoteSummaryModules))

	var payload quoteSummaryResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("quoteSummary %s: %w", symbol, err)
	}

	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary %s: %s", symbol, payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		c.logger.WithField("symbol", symbol).Warn("No quoteSummary data")
		return nil, nil
	}

	return c.buildRecord(symbol, payload.QuoteSummary.Result[0]), nil
}

// buildRecord maps a quoteSummary result onto a StockRecord, applying
// the upstream filters and the core-field requirements.
func (c *Client) buildRecord(symbol string, res quoteSummaryResult) *contracts.StockRecord {
	if res.Price == nil || !contracts.Valid(res.Price.RegularMarketPrice.Raw) {
		c.logger.WithField("symbol", symbol).Warn("No price data")
		return nil
	}

	// Market cap filter
	marketCap := res.Price.MarketCap.Raw
	if c.minMarketCap > 0 && (!contracts.Valid(marketCap) || *marketCap < c.minMarketCap) {
		c.logger.WithField("symbol", symbol).Debug("Skipping: market cap below minimum")
		return nil
	}

	// Sector filter
	sector := ""
	if res.SummaryProfile != nil {
		sector = res.SummaryProfile.Sector
	}
	if c.excludedSectors[sector] {
		c.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"sector": sector,
		}).Debug("Skipping: sector is excluded")
		return nil
	}

	income := statementAt(incomeStatements(res), 0)
	incomePrev := statementAt(incomeStatements(res), 1)
	balance := balanceAt(balanceStatements(res), 0)
	balancePrev := balanceAt(balanceStatements(res), 1)

	// Core fields required by every formula run
	ebit := income.EBIT.Raw
	totalAssets := balance.TotalAssets.Raw
	currentLiabilities := balance.TotalCurrentLiabilities.Raw
	var enterpriseValue *float64
	if res.DefaultKeyStatistics != nil {
		enterpriseValue = res.DefaultKeyStatistics.EnterpriseValue.Raw
	}

	if !contracts.Valid(ebit) || !contracts.Valid(totalAssets) ||
		!contracts.Valid(currentLiabilities) || !contracts.Valid(enterpriseValue) {
		c.logger.WithField("symbol", symbol).Warn("Missing core financial data")
		return nil
	}

	price := res.Price.RegularMarketPrice.Raw
	if res.FinancialData != nil && contracts.Valid(res.FinancialData.CurrentPrice.Raw) {
		price = res.FinancialData.CurrentPrice.Raw
	}

	companyName := res.Price.ShortName
	if companyName == "" {
		companyName = res.Price.LongName
	}
	if companyName == "" {
		companyName = symbol
	}

	netIncome := income.NetIncome.Raw
	netIncomePrev := incomePrev.NetIncome.Raw
	revenue := income.TotalRevenue.Raw
	revenuePrev := incomePrev.TotalRevenue.Raw
	grossProfit := income.GrossProfit.Raw
	grossProfitPrev := incomePrev.GrossProfit.Raw

	currentAssets := balance.TotalCurrentAssets.Raw
	currentAssetsPrev := balancePrev.TotalCurrentAssets.Raw
	currentLiabilitiesPrev := balancePrev.TotalCurrentLiabilities.Raw
	totalAssetsPrev := balancePrev.TotalAssets.Raw

	var operatingCashFlow *float64
	cf := cashflowStatements(res)
	if len(cf) > 0 {
		operatingCashFlow = cf[0].TotalCashFromOperatingActivities.Raw
	}

	var sharesOutstanding, eps, bookValuePerShare *float64
	if res.DefaultKeyStatistics != nil {
		sharesOutstanding = res.DefaultKeyStatistics.SharesOutstanding.Raw
		eps = res.DefaultKeyStatistics.TrailingEps.Raw
		bookValuePerShare = res.DefaultKeyStatistics.BookValue.Raw
	}

	// Working capital, when both sides of it exist
	var workingCapital *float64
	if contracts.Valid(currentAssets) && contracts.Valid(currentLiabilities) {
		wc := *currentAssets - *currentLiabilities
		workingCapital = &wc
	}

	var roaPrev *float64
	if contracts.Valid(totalAssetsPrev) {
		roaPrev = contracts.SafeDivide(netIncomePrev, totalAssetsPrev)
	}

	return &contracts.StockRecord{
		Symbol:      symbol,
		CompanyName: companyName,
		Sector:      sector,

		Price:           price,
		MarketCap:       marketCap,
		EnterpriseValue: enterpriseValue,

		EBIT:        ebit,
		NetIncome:   netIncome,
		Revenue:     revenue,
		GrossProfit: grossProfit,

		RevenuePrev:     revenuePrev,
		GrossProfitPrev: grossProfitPrev,

		TotalAssets:        totalAssets,
		CurrentAssets:      currentAssets,
		CurrentLiabilities: currentLiabilities,
		TotalLiabilities:   balance.TotalLiabilities.Raw,
		LongTermDebt:       balance.LongTermDebt.Raw,
		RetainedEarnings:   balance.RetainedEarnings.Raw,
		SharesOutstanding:  sharesOutstanding,

		TotalAssetsPrev:        totalAssetsPrev,
		CurrentLiabilitiesPrev: currentLiabilitiesPrev,
		LongTermDebtPrev:       balancePrev.LongTermDebt.Raw,
		SharesOutstandingPrev:  nil, // provider has no historical share counts

		OperatingCashFlow: operatingCashFlow,

		EPS:               eps,
		BookValuePerShare: bookValuePerShare,

		WorkingCapital:    workingCapital,
		CurrentRatio:      contracts.SafeDivide(currentAssets, currentLiabilities),
		CurrentRatioPrev:  contracts.SafeDivide(currentAssetsPrev, currentLiabilitiesPrev),
		ROA:               contracts.SafeDivide(netIncome, totalAssets),
		ROAPrev:           roaPrev,
		GrossMargin:       contracts.SafeDivide(grossProfit, revenue),
		GrossMarginPrev:   contracts.SafeDivide(grossProfitPrev, revenuePrev),
		AssetTurnover:     contracts.SafeDivide(revenue, totalAssets),
		AssetTurnoverPrev: contracts.SafeDivide(revenuePrev, totalAssetsPrev),
	}
}

// DailyCloses fetches daily closing prices for a symbol over the given
// range (e.g. "1y"). Missing bars from the provider are skipped.
func (c *Client) DailyCloses(ctx context.Context, symbol, chartRange string) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(chartRange))

	var payload chartResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s", symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", symbol)
	}

	raw := payload.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, v := range raw {
		if v == nil {
			continue
		}
		closes = append(closes, *v)
	}

	return closes, nil
}

// getJSON performs a GET and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Statement accessors: history arrays index 0 = most recent year,
// index 1 = previous year. Out-of-range lookups return zero values so
// every field reads as missing.

func incomeStatements(res quoteSummaryResult) []incomeStatement {
	if res.IncomeStatementHistory == nil {
		return nil
	}
	return res.IncomeStatementHistory.Statements
}

func balanceStatements(res quoteSummaryResult) []balanceSheetStatement {
	if res.BalanceSheetHistory == nil {
		return nil
	}
	return res.BalanceSheetHistory.Statements
}

func cashflowStatements(res quoteSummaryResult) []cashflowStatement {
	if res.CashflowStatementHistory == nil {
		return nil
	}
	return res.CashflowStatementHistory.Statements
}

func statementAt(stmts []incomeStatement, idx int) incomeStatement {
	if idx >= len(stmts) {
		return incomeStatement{}
	}
	return stmts[idx]
}

func balanceAt(stmts []balanceSheetStatement, idx int) balanceSheetStatement {
	if idx >= len(stmts) {
		return balanceSheetStatement{}
	}
	return stmts[idx]
}
