package signals

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/selection"
)

// Piotroski F-Score: nine binary fundamental-strength signals, one point
// each. Profitability (4), leverage/liquidity (3), operating efficiency
// (2). 8-9 strong, 5-7 average, 0-4 weak. Every signal handles missing
// data on its own; the composite is missing only when the record is too
// thin to say anything at all.

// scorePositiveROA awards 1 point when Net Income / Total Assets > 0.
// Missing inputs or zero assets score 0.
func scorePositiveROA(netIncome, totalAssets *float64) int {
	if !contracts.Valid(netIncome) || !contracts.Valid(totalAssets) || *totalAssets == 0 {
		return 0
	}
	if *netIncome / *totalAssets > 0 {
		return 1
	}
	return 0
}

// scorePositiveCFO awards 1 point when operating cash flow is positive.
func scorePositiveCFO(operatingCashFlow *float64) int {
	if !contracts.Valid(operatingCashFlow) {
		return 0
	}
	if *operatingCashFlow > 0 {
		return 1
	}
	return 0
}

// scoreROAImprovement awards 1 point when ROA increased year over year.
func scoreROAImprovement(roa, roaPrev *float64) int {
	if !contracts.Valid(roa) || !contracts.Valid(roaPrev) {
		return 0
	}
	if *roa > *roaPrev {
		return 1
	}
	return 0
}

// scoreAccruals awards 1 point when operating cash flow exceeds net
// income: cash flow should support reported earnings.
func scoreAccruals(operatingCashFlow, netIncome *float64) int {
	if !contracts.Valid(operatingCashFlow) || !contracts.Valid(netIncome) {
		return 0
	}
	if *operatingCashFlow > *netIncome {
		return 1
	}
	return 0
}

// scoreDecreasedLeverage awards 1 point when the long-term debt ratio
// (LT debt / total assets) decreased. Missing or zero assets in either
// year score 0; missing debt is treated as zero debt, not excluded.
func scoreDecreasedLeverage(longTermDebt, longTermDebtPrev, totalAssets, totalAssetsPrev *float64) int {
	if !contracts.Valid(totalAssets) || *totalAssets == 0 {
		return 0
	}
	if !contracts.Valid(totalAssetsPrev) || *totalAssetsPrev == 0 {
		return 0
	}

	debtCurrent := 0.0
	if contracts.Valid(longTermDebt) {
		debtCurrent = *longTermDebt
	}
	debtPrev := 0.0
	if contracts.Valid(longTermDebtPrev) {
		debtPrev = *longTermDebtPrev
	}

	if debtCurrent / *totalAssets < debtPrev / *totalAssetsPrev {
		return 1
	}
	return 0
}

// scoreImprovedLiquidity awards 1 point when the current ratio increased.
func scoreImprovedLiquidity(currentRatio, currentRatioPrev *float64) int {
	if !contracts.Valid(currentRatio) || !contracts.Valid(currentRatioPrev) {
		return 0
	}
	if *currentRatio > *currentRatioPrev {
		return 1
	}
	return 0
}

// scoreNoDilution awards 1 point when shares outstanding did not
// increase. A missing current-year count scores 0. A missing prior-year
// count with a present current count scores 1: the provider rarely has
// historical share counts, so the signal gives benefit of the doubt.
func scoreNoDilution(sharesOutstanding, sharesOutstandingPrev *float64) int {
	if !contracts.Valid(sharesOutstanding) {
		return 0
	}
	if !contracts.Valid(sharesOutstandingPrev) {
		return 1
	}
	if *sharesOutstanding <= *sharesOutstandingPrev {
		return 1
	}
	return 0
}

// scoreImprovedMargin awards 1 point when gross margin increased.
func scoreImprovedMargin(grossMargin, grossMarginPrev *float64) int {
	if !contracts.Valid(grossMargin) || !contracts.Valid(grossMarginPrev) {
		return 0
	}
	if *grossMargin > *grossMarginPrev {
		return 1
	}
	return 0
}

// scoreImprovedTurnover awards 1 point when asset turnover increased.
func scoreImprovedTurnover(assetTurnover, assetTurnoverPrev *float64) int {
	if !contracts.Valid(assetTurnover) || !contracts.Valid(assetTurnoverPrev) {
		return 0
	}
	if *assetTurnover > *assetTurnoverPrev {
		return 1
	}
	return 0
}

// FScore calculates the Piotroski F-Score (0-9) for a record. The score
// is undefined (nil) when total assets is missing, or when both net
// income and operating cash flow are missing: too little data to score
// at all. Otherwise all nine signals are evaluated, each defaulting to
// 0 on missing data per its own policy.
func FScore(rec *contracts.StockRecord) *int {
	if !contracts.Valid(rec.NetIncome) && !contracts.Valid(rec.OperatingCashFlow) {
		return nil
	}
	if !contracts.Valid(rec.TotalAssets) {
		return nil
	}

	score := 0

	// Profitability signals (4 points)
	score += scorePositiveROA(rec.NetIncome, rec.TotalAssets)
	score += scorePositiveCFO(rec.OperatingCashFlow)
	score += scoreROAImprovement(rec.ROA, rec.ROAPrev)
	score += scoreAccruals(rec.OperatingCashFlow, rec.NetIncome)

	// Leverage/liquidity signals (3 points)
	score += scoreDecreasedLeverage(rec.LongTermDebt, rec.LongTermDebtPrev, rec.TotalAssets, rec.TotalAssetsPrev)
	score += scoreImprovedLiquidity(rec.CurrentRatio, rec.CurrentRatioPrev)
	score += scoreNoDilution(rec.SharesOutstanding, rec.SharesOutstandingPrev)

	// Operating efficiency signals (2 points)
	score += scoreImprovedMargin(rec.GrossMargin, rec.GrossMarginPrev)
	score += scoreImprovedTurnover(rec.AssetTurnover, rec.AssetTurnoverPrev)

	return &score
}

// PiotroskiResult is one stock's F-Score outcome.
type PiotroskiResult struct {
	Record contracts.StockRecord
	FScore int
	Rank   int // 1 = strongest
}

// RankPiotroski ranks stocks by F-Score descending (9 = best). Records
// with an undefined score are dropped; ties are broken by input order.
func RankPiotroski(records []contracts.StockRecord) []PiotroskiResult {
	ranked := selection.RankBy(records, func(rec contracts.StockRecord) *float64 {
		score := FScore(&rec)
		if score == nil {
			return nil
		}
		return contracts.Float(float64(*score))
	}, false)

	results := make([]PiotroskiResult, len(ranked))
	for i, r := range ranked {
		results[i] = PiotroskiResult{
			Record: r.Item,
			FScore: int(r.Score),
			Rank:   r.Rank,
		}
	}

	return results
}

// TopPiotroski returns the first n entries of a ranked table.
func TopPiotroski(ranked []PiotroskiResult, n int) []PiotroskiResult {
	return selection.Top(ranked, n)
}
