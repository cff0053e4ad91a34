package signals

import (
	"math"
	"strings"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/selection"
	"github.com/wonny/screener/internal/universe"
)

// Reddit momentum: sentiment polarity blended with discussion volume.
// Sentiment dominates (x1000) while volume adds a logarithmic bonus, so
// comment spam cannot outweigh a genuine sentiment swing.

// MomentumScore calculates sentiment_score * 1000 + ln(comments + 1).
func MomentumScore(sentimentScore float64, noOfComments int) float64 {
	return sentimentScore*1000 + math.Log(float64(noOfComments)+1)
}

// FilterUniverse keeps only records whose ticker belongs to the equity
// universe, matching case-insensitively. Tickers are upper-cased in the
// output.
func FilterUniverse(records []contracts.SentimentRecord) []contracts.SentimentRecord {
	filtered := make([]contracts.SentimentRecord, 0, len(records))
	for _, rec := range records {
		if !universe.Contains(rec.Ticker) {
			continue
		}
		rec.Ticker = strings.ToUpper(rec.Ticker)
		filtered = append(filtered, rec)
	}
	return filtered
}

// MomentumResult is one ticker's Reddit momentum outcome.
type MomentumResult struct {
	Record        contracts.SentimentRecord
	MomentumScore float64
	Rank          int // 1 = strongest momentum, over the full filtered set
}

// RankMomentum ranks the filtered sentiment set by momentum score
// descending, ties broken by input order. The rank covers Bullish and
// Bearish records alike and is used for diagnostics; top-pick selection
// applies a stricter filter (see TopBullish).
func RankMomentum(records []contracts.SentimentRecord) []MomentumResult {
	ranked := selection.RankBy(records, func(rec contracts.SentimentRecord) *float64 {
		return contracts.Float(MomentumScore(rec.SentimentScore, rec.NoOfComments))
	}, false)

	results := make([]MomentumResult, len(ranked))
	for i, r := range ranked {
		results[i] = MomentumResult{
			Record:        r.Item,
			MomentumScore: r.Score,
			Rank:          r.Rank,
		}
	}

	return results
}

// TopBullish selects the top n picks from a ranked momentum table.
// Unlike the diagnostic ranking, the pick filter first restricts to
// Bullish records, re-sorts that subset by momentum score descending,
// and takes the first n. A Bearish ticker is never surfaced as a pick,
// whatever its raw score; an all-Bearish table yields an empty result.
func TopBullish(ranked []MomentumResult, n int) []MomentumResult {
	bullish := make([]MomentumResult, 0, len(ranked))
	for _, r := range ranked {
		if r.Record.IsBullish() {
			bullish = append(bullish, r)
		}
	}

	resorted := selection.RankBy(bullish, func(r MomentumResult) *float64 {
		return contracts.Float(r.MomentumScore)
	}, false)

	picks := make([]MomentumResult, 0, len(resorted))
	for _, r := range resorted {
		picks = append(picks, r.Item)
	}

	return selection.Top(picks, n)
}
