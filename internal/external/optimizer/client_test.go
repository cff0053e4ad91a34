package optimizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

func testClient(serverURL string) *Client {
	cfg := &config.Config{
		Optimizer: config.OptimizerConfig{BaseURL: serverURL},
	}
	log := logger.NewNop()
	return NewClient(cfg, httputil.New(log).DisableRetry(), log)
}

var (
	testAssets     = []string{"AAPL", "MSFT"}
	testWeights    = []float64{0.5, 0.5}
	testCovariance = [][]float64{
		{0.04, 0.01},
		{0.01, 0.09},
	}
	testReturns = []float64{0.12, 0.08}
)

func TestAnalyzeVolatility(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/analyzer/volatility", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"portfolioVolatility": 0.1842}`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).AnalyzeVolatility(context.Background(), testAssets, testWeights, testCovariance)

	require.NoError(t, err)
	assert.InDelta(t, 0.1842, got, 1e-9)

	// Covariance travels flattened as asset-pair triples
	cov := captured["marketData"].(map[string]interface{})["covarianceMatrix"].([]interface{})
	assert.Len(t, cov, 4)
	first := cov[0].(map[string]interface{})
	assert.Equal(t, "AAPL", first["asset1"])
	assert.Equal(t, "AAPL", first["asset2"])
	assert.InDelta(t, 0.04, first["value"].(float64), 1e-9)
}

func TestAnalyzeSharpeRatio(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/analyzer/sharpe-ratio", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"sharpeRatio": 1.37}`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).AnalyzeSharpeRatio(context.Background(), testAssets, testWeights, testCovariance, testReturns, 0.02)

	require.NoError(t, err)
	assert.InDelta(t, 1.37, got, 1e-9)
	assert.InDelta(t, 0.02, captured["riskFreeRate"].(float64), 1e-9)

	returns := captured["marketData"].(map[string]interface{})["expectedReturns"].([]interface{})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.12, returns[0].(map[string]interface{})["expectedReturn"].(float64), 1e-9)
}

func TestAnalyzeDiversificationRatio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/analyzer/diversification-ratio", r.URL.Path)
		w.Write([]byte(`{"diversificationRatio": 1.21}`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).AnalyzeDiversificationRatio(context.Background(), testAssets, testWeights, testCovariance)

	require.NoError(t, err)
	assert.InDelta(t, 1.21, got, 1e-9)
}

func TestMaximizeSharpeRatio_MapWeights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/maximizer/sharpe-ratio", r.URL.Path)
		w.Write([]byte(`{"optimalWeights": {"AAPL": 0.7, "MSFT": 0.3}}`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).MaximizeSharpeRatio(context.Background(), testAssets, testCovariance, testReturns, 0.02)

	require.NoError(t, err)
	assert.InDelta(t, 0.7, got["AAPL"], 1e-9)
	assert.InDelta(t, 0.3, got["MSFT"], 1e-9)
}

func TestMinimizeVariance_ListWeights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/minimizer/variance", r.URL.Path)
		w.Write([]byte(`{"optimalWeights": [{"assetId": "AAPL", "weight": 0.8}, {"assetId": "MSFT", "weight": 0.2}]}`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).MinimizeVariance(context.Background(), testAssets, testCovariance)

	require.NoError(t, err)
	assert.InDelta(t, 0.8, got["AAPL"], 1e-9)
	assert.InDelta(t, 0.2, got["MSFT"], 1e-9)
}

func TestEqualizeRiskContributions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/equalizer/risk-contributions", r.URL.Path)
		w.Write([]byte(`{"optimalWeights": {"AAPL": 0.6, "MSFT": 0.4}}`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).EqualizeRiskContributions(context.Background(), testAssets, testCovariance)

	require.NoError(t, err)
	assert.InDelta(t, 0.6, got["AAPL"], 1e-9)
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message": "invalid covariance matrix"}`))
			},
		},
		{
			name: "missing result field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := testClient(server.URL).AnalyzeVolatility(context.Background(), testAssets, testWeights, testCovariance)
			assert.Error(t, err)
		})
	}
}
