package signals

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/selection"
)

// Magic Formula (Greenblatt): rank every stock independently on
// Earnings Yield (cheap) and Return on Capital (good), then combine the
// two ranks. Lower combined score is better because it is a sum of
// ranks, not a magnitude.

// EarningsYield calculates EBIT / Enterprise Value.
// Missing when enterprise value is missing, zero or negative.
func EarningsYield(ebit, enterpriseValue *float64) *float64 {
	if !contracts.Valid(ebit) || !contracts.Valid(enterpriseValue) {
		return nil
	}
	if *enterpriseValue <= 0 {
		return nil
	}
	return contracts.SafeDivide(ebit, enterpriseValue)
}

// ReturnOnCapital calculates EBIT / Capital Employed, where
// Capital Employed = Total Assets - Current Liabilities. This
// approximates net working capital plus net fixed assets.
// Missing when capital employed is missing, zero or negative.
func ReturnOnCapital(ebit, totalAssets, currentLiabilities *float64) *float64 {
	if !contracts.Valid(ebit) || !contracts.Valid(totalAssets) || !contracts.Valid(currentLiabilities) {
		return nil
	}
	capitalEmployed := *totalAssets - *currentLiabilities
	if capitalEmployed <= 0 {
		return nil
	}
	return contracts.SafeDivide(ebit, &capitalEmployed)
}

// MagicResult is one stock's Magic Formula outcome.
type MagicResult struct {
	Record          contracts.StockRecord
	EarningsYield   float64
	ReturnOnCapital float64
	RankEY          int // 1 = highest earnings yield
	RankROC         int // 1 = highest return on capital
	MagicScore      int // RankEY + RankROC, lower is better
	Rank            int // 1 = best combined score
}

// RankMagic ranks stocks by the Magic Formula. Records missing either
// metric are dropped. The two metric ranks are computed independently,
// descending, first-seen wins on ties; the combined score is sorted
// ascending with the same tie-break. Output is ordered best first.
func RankMagic(records []contracts.StockRecord) []MagicResult {
	type metrics struct {
		record contracts.StockRecord
		ey     float64
		roc    float64
	}

	valid := make([]metrics, 0, len(records))
	for _, rec := range records {
		ey := EarningsYield(rec.EBIT, rec.EnterpriseValue)
		roc := ReturnOnCapital(rec.EBIT, rec.TotalAssets, rec.CurrentLiabilities)
		if ey == nil || roc == nil {
			continue
		}
		valid = append(valid, metrics{record: rec, ey: *ey, roc: *roc})
	}

	if len(valid) == 0 {
		return nil
	}

	eyScores := make([]float64, len(valid))
	rocScores := make([]float64, len(valid))
	for i, m := range valid {
		eyScores[i] = m.ey
		rocScores[i] = m.roc
	}

	// Independent sub-ranks, descending (rank 1 = highest)
	rankEY := selection.DenseRanks(eyScores, false)
	rankROC := selection.DenseRanks(rocScores, false)

	interim := make([]MagicResult, len(valid))
	for i, m := range valid {
		interim[i] = MagicResult{
			Record:          m.record,
			EarningsYield:   m.ey,
			ReturnOnCapital: m.roc,
			RankEY:          rankEY[i],
			RankROC:         rankROC[i],
			MagicScore:      rankEY[i] + rankROC[i],
		}
	}

	// Combined score ascending (lower is better), same first-seen tie-break
	ranked := selection.RankBy(interim, func(r MagicResult) *float64 {
		return contracts.Float(float64(r.MagicScore))
	}, true)

	results := make([]MagicResult, len(ranked))
	for i, r := range ranked {
		res := r.Item
		res.Rank = r.Rank
		results[i] = res
	}

	return results
}

// TopMagic returns the first n entries of a ranked Magic Formula table.
func TopMagic(ranked []MagicResult, n int) []MagicResult {
	return selection.Top(ranked, n)
}
