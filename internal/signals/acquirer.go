package signals

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/selection"
)

// Acquirer's Multiple (Carlisle): Enterprise Value / EBIT. A deep value
// metric; lower means cheaper. Interpretation: under 5x very cheap,
// 5-10x reasonable, over 10x expensive.

// AcquirerMultiple calculates Enterprise Value / EBIT.
// Missing when EBIT is zero or negative (losing money, or division by
// zero) or when enterprise value is negative (usually a data issue).
func AcquirerMultiple(enterpriseValue, ebit *float64) *float64 {
	if !contracts.Valid(enterpriseValue) || !contracts.Valid(ebit) {
		return nil
	}
	if *ebit <= 0 {
		return nil
	}
	if *enterpriseValue < 0 {
		return nil
	}
	return contracts.SafeDivide(enterpriseValue, ebit)
}

// AcquirerResult is one stock's Acquirer's Multiple outcome.
type AcquirerResult struct {
	Record   contracts.StockRecord
	Multiple float64
	Rank     int // 1 = cheapest
}

// RankAcquirer ranks stocks by Acquirer's Multiple ascending (cheapest
// first). Records without a valid multiple are dropped; ties are broken
// by input order.
func RankAcquirer(records []contracts.StockRecord) []AcquirerResult {
	ranked := selection.RankBy(records, func(rec contracts.StockRecord) *float64 {
		return AcquirerMultiple(rec.EnterpriseValue, rec.EBIT)
	}, true)

	results := make([]AcquirerResult, len(ranked))
	for i, r := range ranked {
		results[i] = AcquirerResult{
			Record:   r.Item,
			Multiple: r.Score,
			Rank:     r.Rank,
		}
	}

	return results
}

// TopAcquirer returns the first n entries of a ranked table.
func TopAcquirer(ranked []AcquirerResult, n int) []AcquirerResult {
	return selection.Top(ranked, n)
}
