package yahoo

// Yahoo Finance quoteSummary / chart response envelopes. Numeric fields
// arrive wrapped as {"raw": <number>, "fmt": "<display>"}; only the raw
// value matters here, and a missing wrapper means the field is missing.

// rawValue is Yahoo's wrapped numeric field.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	Price                   *priceModule          `json:"price"`
	SummaryProfile          *summaryProfileModule `json:"summaryProfile"`
	DefaultKeyStatistics    *keyStatisticsModule  `json:"defaultKeyStatistics"`
	FinancialData           *financialDataModule  `json:"financialData"`
	IncomeStatementHistory  *incomeHistoryModule  `json:"incomeStatementHistory"`
	BalanceSheetHistory     *balanceHistoryModule `json:"balanceSheetHistory"`
	CashflowStatementHistory *cashflowHistoryModule `json:"cashflowStatementHistory"`
}

type priceModule struct {
	ShortName          string   `json:"shortName"`
	LongName           string   `json:"longName"`
	RegularMarketPrice rawValue `json:"regularMarketPrice"`
	MarketCap          rawValue `json:"marketCap"`
}

type summaryProfileModule struct {
	Sector string `json:"sector"`
}

type keyStatisticsModule struct {
	EnterpriseValue   rawValue `json:"enterpriseValue"`
	SharesOutstanding rawValue `json:"sharesOutstanding"`
	TrailingEps       rawValue `json:"trailingEps"`
	BookValue         rawValue `json:"bookValue"`
}

type financialDataModule struct {
	CurrentPrice rawValue `json:"currentPrice"`
}

type incomeHistoryModule struct {
	Statements []incomeStatement `json:"incomeStatementHistory"`
}

type incomeStatement struct {
	EBIT         rawValue `json:"ebit"`
	NetIncome    rawValue `json:"netIncome"`
	TotalRevenue rawValue `json:"totalRevenue"`
	GrossProfit  rawValue `json:"grossProfit"`
}

type balanceHistoryModule struct {
	Statements []balanceSheetStatement `json:"balanceSheetStatements"`
}

type balanceSheetStatement struct {
	TotalAssets             rawValue `json:"totalAssets"`
	TotalCurrentAssets      rawValue `json:"totalCurrentAssets"`
	TotalCurrentLiabilities rawValue `json:"totalCurrentLiabilities"`
	TotalLiabilities        rawValue `json:"totalLiab"`
	LongTermDebt            rawValue `json:"longTermDebt"`
	RetainedEarnings        rawValue `json:"retainedEarnings"`
}

type cashflowHistoryModule struct {
	Statements []cashflowStatement `json:"cashflowStatements"`
}

type cashflowStatement struct {
	TotalCashFromOperatingActivities rawValue `json:"totalCashFromOperatingActivities"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Close []*float64 `json:"close"`
}
