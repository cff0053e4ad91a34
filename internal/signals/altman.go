package signals

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/selection"
)

// Altman Z-Score: five weighted ratios predicting bankruptcy risk.
//
//	Z = 1.2*(WC/TA) + 1.4*(RE/TA) + 3.3*(EBIT/TA) + 0.6*(MC/TL) + 1.0*(REV/TA)
//
// Zones: Z > 2.99 Safe, 1.81 < Z <= 2.99 Grey, Z <= 1.81 Distress.
// Only Safe zone stocks are ranked for investment.

// Zone thresholds. Boundary values belong to the lower zone.
const (
	SafeZoneThreshold = 2.99
	GreyZoneThreshold = 1.81
)

// Risk zone labels.
const (
	ZoneSafe     = "Safe"
	ZoneGrey     = "Grey"
	ZoneDistress = "Distress"
	ZoneUnknown  = "Unknown"
)

// ZScore calculates the Altman Z-Score. Each of the five components is
// included only when both its numerator and denominator are present and
// the denominator is non-zero; a zero total_liabilities drops only the
// solvency term. The whole score is missing when total assets is missing
// or zero, or when fewer than 4 of the 5 components could be computed.
func ZScore(
	workingCapital,
	retainedEarnings,
	ebit,
	marketCap,
	totalLiabilities,
	revenue,
	totalAssets *float64,
) *float64 {
	// Total assets is the common denominator for most ratios
	if !contracts.Valid(totalAssets) || *totalAssets == 0 {
		return nil
	}

	score := 0.0
	components := 0

	// 1.2 x Working Capital / Total Assets (liquidity)
	if r := contracts.SafeDivide(workingCapital, totalAssets); r != nil {
		score += 1.2 * *r
		components++
	}

	// 1.4 x Retained Earnings / Total Assets (cumulative profitability)
	if r := contracts.SafeDivide(retainedEarnings, totalAssets); r != nil {
		score += 1.4 * *r
		components++
	}

	// 3.3 x EBIT / Total Assets (operating efficiency)
	if r := contracts.SafeDivide(ebit, totalAssets); r != nil {
		score += 3.3 * *r
		components++
	}

	// 0.6 x Market Cap / Total Liabilities (solvency)
	if r := contracts.SafeDivide(marketCap, totalLiabilities); r != nil {
		score += 0.6 * *r
		components++
	}

	// 1.0 x Revenue / Total Assets (asset turnover)
	if r := contracts.SafeDivide(revenue, totalAssets); r != nil {
		score += 1.0 * *r
		components++
	}

	// Require at least 4 of 5 components for a meaningful score
	if components < 4 {
		return nil
	}

	return &score
}

// RiskZone classifies a Z-Score into its risk zone. A missing score maps
// to Unknown. Boundary values fall into the lower zone: 2.99 is Grey,
// 1.81 is Distress.
func RiskZone(zscore *float64) string {
	if !contracts.Valid(zscore) {
		return ZoneUnknown
	}
	switch {
	case *zscore > SafeZoneThreshold:
		return ZoneSafe
	case *zscore > GreyZoneThreshold:
		return ZoneGrey
	default:
		return ZoneDistress
	}
}

// AltmanResult is one stock's Z-Score outcome.
type AltmanResult struct {
	Record   contracts.StockRecord
	ZScore   float64
	RiskZone string
	Rank     int // 1 = safest
}

// RankAltman scores every record, keeps only Safe zone stocks, and ranks
// them by Z-Score descending. Grey and Distress stocks never reach the
// ranked output; an empty result just means nothing qualified.
func RankAltman(records []contracts.StockRecord) []AltmanResult {
	type scored struct {
		record contracts.StockRecord
		zscore float64
	}

	safe := make([]scored, 0, len(records))
	for _, rec := range records {
		z := ZScore(
			rec.WorkingCapital,
			rec.RetainedEarnings,
			rec.EBIT,
			rec.MarketCap,
			rec.TotalLiabilities,
			rec.Revenue,
			rec.TotalAssets,
		)
		if RiskZone(z) != ZoneSafe {
			continue
		}
		safe = append(safe, scored{record: rec, zscore: *z})
	}

	ranked := selection.RankBy(safe, func(s scored) *float64 {
		return contracts.Float(s.zscore)
	}, false)

	results := make([]AltmanResult, len(ranked))
	for i, r := range ranked {
		results[i] = AltmanResult{
			Record:   r.Item.record,
			ZScore:   r.Item.zscore,
			RiskZone: ZoneSafe,
			Rank:     r.Rank,
		}
	}

	return results
}

// TopAltman returns the first n entries of a ranked table. The result
// may hold fewer than n stocks, or none, when few companies qualify as
// Safe.
func TopAltman(ranked []AltmanResult, n int) []AltmanResult {
	return selection.Top(ranked, n)
}
