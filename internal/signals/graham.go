package signals

import (
	"math"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/selection"
)

// Graham Number: sqrt(22.5 * EPS * BVPS), Benjamin Graham's conservative
// intrinsic value estimate. The 22.5 multiplier is 15x max P/E times
// 1.5x max P/B.

// GrahamNumber calculates sqrt(22.5 * EPS * BVPS).
// Missing when EPS or book value per share is missing, zero or negative.
func GrahamNumber(eps, bookValuePerShare *float64) *float64 {
	if !contracts.Valid(eps) || !contracts.Valid(bookValuePerShare) {
		return nil
	}
	if *eps <= 0 || *bookValuePerShare <= 0 {
		return nil
	}
	graham := math.Sqrt(22.5 * *eps * *bookValuePerShare)
	if math.IsNaN(graham) || math.IsInf(graham, 0) {
		return nil
	}
	return &graham
}

// MarginOfSafety calculates how far price sits below the Graham Number,
// as a percentage: (graham - price) / graham * 100. Positive means
// undervalued. Missing when either input is missing or graham is zero.
func MarginOfSafety(grahamNumber, price *float64) *float64 {
	if !contracts.Valid(grahamNumber) || !contracts.Valid(price) {
		return nil
	}
	if *grahamNumber == 0 {
		return nil
	}
	margin := (*grahamNumber - *price) / *grahamNumber * 100
	return &margin
}

// GrahamResult is one stock's Graham Number outcome.
type GrahamResult struct {
	Record         contracts.StockRecord
	GrahamNumber   float64
	MarginOfSafety float64
	Rank           int // 1 = most undervalued
}

// RankGraham ranks stocks by margin of safety descending (most
// undervalued first). Records without a valid margin are dropped; ties
// are broken by input order.
func RankGraham(records []contracts.StockRecord) []GrahamResult {
	type derived struct {
		record contracts.StockRecord
		graham float64
		margin float64
	}

	valid := make([]derived, 0, len(records))
	for _, rec := range records {
		graham := GrahamNumber(rec.EPS, rec.BookValuePerShare)
		margin := MarginOfSafety(graham, rec.Price)
		if margin == nil {
			continue
		}
		valid = append(valid, derived{record: rec, graham: *graham, margin: *margin})
	}

	ranked := selection.RankBy(valid, func(d derived) *float64 {
		return contracts.Float(d.margin)
	}, false)

	results := make([]GrahamResult, len(ranked))
	for i, r := range ranked {
		results[i] = GrahamResult{
			Record:         r.Item.record,
			GrahamNumber:   r.Item.graham,
			MarginOfSafety: r.Item.margin,
			Rank:           r.Rank,
		}
	}

	return results
}

// TopGraham returns the first n entries of a ranked table.
func TopGraham(ranked []GrahamResult, n int) []GrahamResult {
	return selection.Top(ranked, n)
}
