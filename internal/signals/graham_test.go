package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/internal/contracts"
)

func TestGrahamNumber(t *testing.T) {
	tests := []struct {
		name string
		eps  *float64
		bvps *float64
		want *float64
	}{
		// 22.5 * 5 * 8 = 900, sqrt = 30
		{"normal", f(5), f(8), f(30)},
		{"zero eps", f(0), f(8), nil},
		{"negative eps", f(-5), f(8), nil},
		{"zero bvps", f(5), f(0), nil},
		{"negative bvps", f(5), f(-8), nil},
		{"missing eps", nil, f(8), nil},
		{"missing bvps", f(5), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrahamNumber(tt.eps, tt.bvps)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.InDelta(t, *tt.want, *got, 1e-9)
			}
		})
	}
}

func TestMarginOfSafety(t *testing.T) {
	tests := []struct {
		name   string
		graham *float64
		price  *float64
		want   *float64
	}{
		{"undervalued", f(30), f(20), f(100.0 / 3)},
		{"fairly valued", f(30), f(30), f(0)},
		{"overvalued", f(30), f(40), f(-100.0 / 3)},
		{"zero graham", f(0), f(20), nil},
		{"missing graham", nil, f(20), nil},
		{"missing price", f(30), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarginOfSafety(tt.graham, tt.price)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.InDelta(t, *tt.want, *got, 1e-6)
			}
		})
	}
}

func grahamRecord(symbol string, eps, bvps, price float64) contracts.StockRecord {
	return contracts.StockRecord{
		Symbol:            symbol,
		EPS:               f(eps),
		BookValuePerShare: f(bvps),
		Price:             f(price),
	}
}

func TestRankGraham_MostUndervaluedFirst(t *testing.T) {
	// All three share graham number 30 (eps=5, bvps=8)
	records := []contracts.StockRecord{
		grahamRecord("FAIR", 5, 8, 30),  // margin 0%
		grahamRecord("DEEP", 5, 8, 15),  // margin 50%
		grahamRecord("RICH", 5, 8, 45),  // margin -50%
		{Symbol: "NOEPS", BookValuePerShare: f(8), Price: f(10)},
	}

	ranked := RankGraham(records)

	require.Len(t, ranked, 3)
	assert.Equal(t, "DEEP", ranked[0].Record.Symbol)
	assert.InDelta(t, 50, ranked[0].MarginOfSafety, 1e-9)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "FAIR", ranked[1].Record.Symbol)
	assert.Equal(t, "RICH", ranked[2].Record.Symbol)
	assert.InDelta(t, -50, ranked[2].MarginOfSafety, 1e-9)
}

func TestRankGraham_NegativeMarginsStillRank(t *testing.T) {
	// Overvalued stocks rank, they just rank last
	records := []contracts.StockRecord{
		grahamRecord("OVER", 5, 8, 60),
	}

	ranked := RankGraham(records)

	require.Len(t, ranked, 1)
	assert.InDelta(t, -100, ranked[0].MarginOfSafety, 1e-9)
}

func TestTopGraham(t *testing.T) {
	records := []contracts.StockRecord{
		grahamRecord("A", 5, 8, 10),
		grahamRecord("B", 5, 8, 20),
		grahamRecord("C", 5, 8, 25),
	}

	top := TopGraham(RankGraham(records), 2)

	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Record.Symbol)
	assert.Equal(t, "B", top[1].Record.Symbol)
}
