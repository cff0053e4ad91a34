package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

func testClient(serverURL string, minMarketCap float64, excludedSectors []string) *Client {
	cfg := &config.Config{
		MinMarketCap:    minMarketCap,
		ExcludedSectors: excludedSectors,
		Yahoo:           config.YahooConfig{BaseURL: serverURL},
	}
	log := logger.NewNop()
	return NewClient(cfg, httputil.New(log).DisableRetry(), log)
}

// quoteSummaryFixture is a complete response for a healthy large cap.
const quoteSummaryFixture = `{
	"quoteSummary": {
		"result": [{
			"price": {
				"shortName": "Apple Inc.",
				"regularMarketPrice": {"raw": 150.0},
				"marketCap": {"raw": 2400000000000}
			},
			"summaryProfile": {"sector": "Technology"},
			"defaultKeyStatistics": {
				"enterpriseValue": {"raw": 2500000000000},
				"sharesOutstanding": {"raw": 16000000000},
				"trailingEps": {"raw": 6.0},
				"bookValue": {"raw": 4.0}
			},
			"financialData": {"currentPrice": {"raw": 151.0}},
			"incomeStatementHistory": {
				"incomeStatementHistory": [
					{"ebit": {"raw": 120000000000}, "netIncome": {"raw": 100000000000}, "totalRevenue": {"raw": 400000000000}, "grossProfit": {"raw": 170000000000}},
					{"ebit": {"raw": 110000000000}, "netIncome": {"raw": 90000000000}, "totalRevenue": {"raw": 380000000000}, "grossProfit": {"raw": 160000000000}}
				]
			},
			"balanceSheetHistory": {
				"balanceSheetStatements": [
					{"totalAssets": {"raw": 350000000000}, "totalCurrentAssets": {"raw": 140000000000}, "totalCurrentLiabilities": {"raw": 120000000000}, "totalLiab": {"raw": 280000000000}, "longTermDebt": {"raw": 100000000000}, "retainedEarnings": {"raw": 5000000000}},
					{"totalAssets": {"raw": 340000000000}, "totalCurrentAssets": {"raw": 130000000000}, "totalCurrentLiabilities": {"raw": 125000000000}, "totalLiab": {"raw": 270000000000}, "longTermDebt": {"raw": 110000000000}}
				]
			},
			"cashflowStatementHistory": {
				"cashflowStatements": [
					{"totalCashFromOperatingActivities": {"raw": 110000000000}}
				]
			}
		}],
		"error": null
	}
}`

func TestFetchRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("modules"), "incomeStatementHistory")
		w.Write([]byte(quoteSummaryFixture))
	}))
	defer server.Close()

	rec, err := testClient(server.URL, 0, nil).FetchRecord(context.Background(), "AAPL")

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "AAPL", rec.Symbol)
	assert.Equal(t, "Apple Inc.", rec.CompanyName)
	assert.Equal(t, "Technology", rec.Sector)

	// financialData currentPrice takes precedence over the market price
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 151.0, *rec.Price, 1e-9)

	require.NotNil(t, rec.EBIT)
	assert.InDelta(t, 1.2e11, *rec.EBIT, 1)
	require.NotNil(t, rec.EnterpriseValue)
	assert.InDelta(t, 2.5e12, *rec.EnterpriseValue, 1)

	// Derived ratios
	require.NotNil(t, rec.CurrentRatio)
	assert.InDelta(t, 140.0/120.0, *rec.CurrentRatio, 1e-9)
	require.NotNil(t, rec.ROA)
	assert.InDelta(t, 1e11/3.5e11, *rec.ROA, 1e-9)
	require.NotNil(t, rec.ROAPrev)
	assert.InDelta(t, 9e10/3.4e11, *rec.ROAPrev, 1e-9)
	require.NotNil(t, rec.GrossMargin)
	assert.InDelta(t, 1.7e11/4e11, *rec.GrossMargin, 1e-9)

	// Working capital = current assets - current liabilities
	require.NotNil(t, rec.WorkingCapital)
	assert.InDelta(t, 2e10, *rec.WorkingCapital, 1)

	// The provider has no historical share counts
	assert.Nil(t, rec.SharesOutstandingPrev)
	require.NotNil(t, rec.SharesOutstanding)

	require.NotNil(t, rec.OperatingCashFlow)
	assert.InDelta(t, 1.1e11, *rec.OperatingCashFlow, 1)
}

func TestFetchRecord_MarketCapFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quoteSummaryFixture))
	}))
	defer server.Close()

	// Fixture market cap is 2.4e12; demand more
	rec, err := testClient(server.URL, 3e12, nil).FetchRecord(context.Background(), "AAPL")

	require.NoError(t, err, "a filtered symbol is not an error")
	assert.Nil(t, rec)
}

func TestFetchRecord_SectorFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quoteSummaryFixture))
	}))
	defer server.Close()

	rec, err := testClient(server.URL, 0, []string{"Technology"}).FetchRecord(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchRecord_MissingCoreFields(t *testing.T) {
	// Price present but no financial statements at all
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"price": {"shortName": "Thin Co", "regularMarketPrice": {"raw": 10.0}, "marketCap": {"raw": 500000000}}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	rec, err := testClient(server.URL, 0, nil).FetchRecord(context.Background(), "THIN")

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchRecord_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary": {"result": [], "error": {"code": "Not Found", "description": "Quote not found"}}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL, 0, nil).FetchRecord(context.Background(), "NOPE")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Quote not found")
}

func TestFetchRecord_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary": {"result": [], "error": null}}`))
	}))
	defer server.Close()

	rec, err := testClient(server.URL, 0, nil).FetchRecord(context.Background(), "EMPTY")

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchRecord_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(server.URL, 0, nil).FetchRecord(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestDailyCloses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1, 2, 3, 4],
					"indicators": {"quote": [{"close": [100.0, null, 102.5, 103.0]}]}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	closes, err := testClient(server.URL, 0, nil).DailyCloses(context.Background(), "AAPL", "1y")

	require.NoError(t, err)
	assert.Equal(t, []float64{100.0, 102.5, 103.0}, closes, "missing bars are skipped")
}

func TestDailyCloses_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": [], "error": null}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL, 0, nil).DailyCloses(context.Background(), "AAPL", "1y")
	assert.Error(t, err)
}

func TestUniverse_CoversEverySymbolOnce(t *testing.T) {
	c := testClient("http://unused", 0, nil)

	symbols := c.Universe()
	require.NotEmpty(t, symbols)

	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		require.False(t, seen[s], fmt.Sprintf("duplicate symbol %s", s))
		seen[s] = true
	}
}
