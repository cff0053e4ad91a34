package contracts

import "math"

// StockRecord is one fetched row of fundamentals for a single ticker.
// SSOT: every formula reads from this struct and never writes to it.
//
// Numeric fields are pointers: nil means the provider had no value, which
// is distinct from zero throughout the scoring logic. Records are built
// once per run by the fundamentals provider and treated as immutable by
// every formula.
type StockRecord struct {
	// Identification
	Symbol      string
	CompanyName string
	Sector      string

	// Price & valuation
	Price           *float64
	MarketCap       *float64
	EnterpriseValue *float64

	// Income statement (current year)
	EBIT        *float64
	NetIncome   *float64
	Revenue     *float64
	GrossProfit *float64

	// Income statement (previous year)
	RevenuePrev     *float64
	GrossProfitPrev *float64

	// Balance sheet (current year)
	TotalAssets        *float64
	CurrentAssets      *float64
	CurrentLiabilities *float64
	TotalLiabilities   *float64
	LongTermDebt       *float64
	RetainedEarnings   *float64
	SharesOutstanding  *float64

	// Balance sheet (previous year)
	TotalAssetsPrev        *float64
	CurrentLiabilitiesPrev *float64
	LongTermDebtPrev       *float64
	SharesOutstandingPrev  *float64

	// Cash flow
	OperatingCashFlow *float64

	// Per-share metrics
	EPS               *float64
	BookValuePerShare *float64

	// Derived ratios (computed by the provider with safe division)
	WorkingCapital    *float64
	CurrentRatio      *float64
	CurrentRatioPrev  *float64
	ROA               *float64
	ROAPrev           *float64
	GrossMargin       *float64
	GrossMarginPrev   *float64
	AssetTurnover     *float64
	AssetTurnoverPrev *float64
}

// Float returns a pointer to v. Used when building records and fixtures.
func Float(v float64) *float64 {
	return &v
}

// Value unwraps an optional metric for display, returning 0 when it is
// missing. Use Valid first when zero and missing must stay distinct.
func Value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Valid reports whether an optional metric carries a usable number.
// nil, NaN and Inf all count as missing; a bad number never aborts a
// screen, it just drops the stock from that metric.
func Valid(v *float64) bool {
	if v == nil {
		return false
	}
	return !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// SafeDivide divides two optional numbers, returning nil when either
// side is missing or the denominator is zero.
func SafeDivide(numerator, denominator *float64) *float64 {
	if !Valid(numerator) || !Valid(denominator) {
		return nil
	}
	if *denominator == 0 {
		return nil
	}
	result := *numerator / *denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil
	}
	return &result
}

// CloneRecords returns an independent working copy of a record slice so
// one formula pipeline cannot disturb the input seen by the next.
func CloneRecords(records []StockRecord) []StockRecord {
	out := make([]StockRecord, len(records))
	copy(out, records)
	return out
}
