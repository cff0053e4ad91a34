package selection

import (
	"math"
	"sort"
)

// Shared ranking pipeline: compute score -> drop invalid -> sort with a
// deterministic tie-break -> assign dense ranks -> truncate.
// SSOT: rank and tie-break semantics live here and nowhere else.
//
// The tie-break contract is "first occurrence wins on exact tie":
// entries are ordered by (score, original input index) so equal scores
// keep their input order, and ranks 1..N are assigned by position. The
// guarantee is explicit in the comparator rather than inherited from a
// sort routine's stability.

// Ranked pairs an item with its score and 1-based dense rank.
type Ranked[T any] struct {
	Item  T
	Score float64
	Rank  int
}

// RankBy scores every item, drops the ones whose score is missing
// (nil, NaN or Inf), sorts ascending or descending with first-seen
// tie-break, and assigns ranks 1..N. An empty result is a valid outcome,
// not an error.
func RankBy[T any](items []T, score func(T) *float64, ascending bool) []Ranked[T] {
	type entry struct {
		item  T
		score float64
		index int // original input position, the tie-breaker
	}

	entries := make([]entry, 0, len(items))
	for i, item := range items {
		s := score(item)
		if s == nil || math.IsNaN(*s) || math.IsInf(*s, 0) {
			continue
		}
		entries = append(entries, entry{item: item, score: *s, index: i})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.score != b.score {
			if ascending {
				return a.score < b.score
			}
			return a.score > b.score
		}
		// Exact tie: earlier input row wins
		return a.index < b.index
	})

	ranked := make([]Ranked[T], len(entries))
	for i, e := range entries {
		ranked[i] = Ranked[T]{Item: e.item, Score: e.score, Rank: i + 1}
	}

	return ranked
}

// DenseRanks assigns a 1-based rank to every score, without reordering
// the input. Position k of the result is the rank of scores[k]. Ties are
// broken by input position (first seen gets the better rank). All scores
// must already be valid numbers; filtering happens before this step.
func DenseRanks(scores []float64, ascending bool) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if scores[a] != scores[b] {
			if ascending {
				return scores[a] < scores[b]
			}
			return scores[a] > scores[b]
		}
		return a < b
	})

	ranks := make([]int, len(scores))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}

	return ranks
}

// Top returns a copy of the first n items. Fewer than n valid rows is
// expected, not an error, so the result may be shorter than requested.
func Top[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
