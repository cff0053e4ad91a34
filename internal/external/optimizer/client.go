package optimizer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// Client wraps the Portfolio Optimizer Web API
// (https://api.portfoliooptimizer.io/): portfolio risk analytics and
// optimal-weight construction.
// SSOT: Portfolio Optimizer calls happen only in this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Portfolio Optimizer client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Optimizer.BaseURL,
	}
}

// API payload fragments. The covariance matrix travels flattened as
// {asset1, asset2, value} triples.

type assetRef struct {
	AssetID string `json:"assetId"`
}

type assetWeight struct {
	AssetID string  `json:"assetId"`
	Weight  float64 `json:"weight"`
}

type assetReturn struct {
	AssetID        string  `json:"assetId"`
	ExpectedReturn float64 `json:"expectedReturn"`
}

type covarianceEntry struct {
	Asset1 string  `json:"asset1"`
	Asset2 string  `json:"asset2"`
	Value  float64 `json:"value"`
}

type marketData struct {
	ExpectedReturns  []assetReturn     `json:"expectedReturns,omitempty"`
	CovarianceMatrix []covarianceEntry `json:"covarianceMatrix"`
}

func assetRefs(assets []string) []assetRef {
	refs := make([]assetRef, len(assets))
	for i, a := range assets {
		refs[i] = assetRef{AssetID: a}
	}
	return refs
}

func assetWeights(assets []string, weights []float64) []assetWeight {
	out := make([]assetWeight, len(assets))
	for i, a := range assets {
		out[i] = assetWeight{AssetID: a, Weight: weights[i]}
	}
	return out
}

func assetReturns(assets []string, returns []float64) []assetReturn {
	out := make([]assetReturn, len(assets))
	for i, a := range assets {
		out[i] = assetReturn{AssetID: a, ExpectedReturn: returns[i]}
	}
	return out
}

func flattenCovariance(assets []string, covariance [][]float64) []covarianceEntry {
	entries := make([]covarianceEntry, 0, len(assets)*len(assets))
	for i, a1 := range assets {
		for j, a2 := range assets {
			entries = append(entries, covarianceEntry{Asset1: a1, Asset2: a2, Value: covariance[i][j]})
		}
	}
	return entries
}

// AnalyzeVolatility calculates the annualized volatility of a weighted
// portfolio.
func (c *Client) AnalyzeVolatility(ctx context.Context, assets []string, weights []float64, covariance [][]float64) (float64, error) {
	payload := map[string]interface{}{
		"assets":     assetRefs(assets),
		"portfolio":  map[string]interface{}{"weights": assetWeights(assets, weights)},
		"marketData": marketData{CovarianceMatrix: flattenCovariance(assets, covariance)},
	}

	var result struct {
		PortfolioVolatility *float64 `json:"portfolioVolatility"`
	}
	if err := c.post(ctx, "/portfolios/analyzer/volatility", payload, &result); err != nil {
		return 0, err
	}
	if result.PortfolioVolatility == nil {
		return 0, fmt.Errorf("response missing portfolioVolatility")
	}

	return *result.PortfolioVolatility, nil
}

// AnalyzeSharpeRatio calculates the risk-adjusted return of a weighted
// portfolio. Rough guide: under 1 poor, 1-2 good, 2-3 very good.
func (c *Client) AnalyzeSharpeRatio(ctx context.Context, assets []string, weights []float64, covariance [][]float64, expectedReturns []float64, riskFreeRate float64) (float64, error) {
	payload := map[string]interface{}{
		"assets":    assetRefs(assets),
		"portfolio": map[string]interface{}{"weights": assetWeights(assets, weights)},
		"riskFreeRate": riskFreeRate,
		"marketData": marketData{
			ExpectedReturns:  assetReturns(assets, expectedReturns),
			CovarianceMatrix: flattenCovariance(assets, covariance),
		},
	}

	var result struct {
		SharpeRatio *float64 `json:"sharpeRatio"`
	}
	if err := c.post(ctx, "/portfolios/analyzer/sharpe-ratio", payload, &result); err != nil {
		return 0, err
	}
	if result.SharpeRatio == nil {
		return 0, fmt.Errorf("response missing sharpeRatio")
	}

	return *result.SharpeRatio, nil
}

// AnalyzeDiversificationRatio calculates how much a portfolio benefits
// from diversification; values above 1.0 beat the weighted average of
// its assets.
func (c *Client) AnalyzeDiversificationRatio(ctx context.Context, assets []string, weights []float64, covariance [][]float64) (float64, error) {
	payload := map[string]interface{}{
		"assets":     assetRefs(assets),
		"portfolio":  map[string]interface{}{"weights": assetWeights(assets, weights)},
		"marketData": marketData{CovarianceMatrix: flattenCovariance(assets, covariance)},
	}

	var result struct {
		DiversificationRatio *float64 `json:"diversificationRatio"`
	}
	if err := c.post(ctx, "/portfolios/analyzer/diversification-ratio", payload, &result); err != nil {
		return 0, err
	}
	if result.DiversificationRatio == nil {
		return 0, fmt.Errorf("response missing diversificationRatio")
	}

	return *result.DiversificationRatio, nil
}

// optimalWeights unmarshals either the map form {"AAPL": 0.3, ...} or
// the list form [{"assetId": "AAPL", "weight": 0.3}, ...] the API uses.
type optimalWeights map[string]float64

func (w *optimalWeights) UnmarshalJSON(data []byte) error {
	var asMap map[string]float64
	if err := json.Unmarshal(data, &asMap); err == nil {
		*w = asMap
		return nil
	}

	var asList []assetWeight
	if err := json.Unmarshal(data, &asList); err != nil {
		return fmt.Errorf("optimalWeights is neither map nor list: %w", err)
	}

	out := make(map[string]float64, len(asList))
	for _, item := range asList {
		out[item.AssetID] = item.Weight
	}
	*w = out
	return nil
}

// MaximizeSharpeRatio finds the allocation with the best risk-adjusted
// return (the tangency portfolio), long-only.
func (c *Client) MaximizeSharpeRatio(ctx context.Context, assets []string, covariance [][]float64, expectedReturns []float64, riskFreeRate float64) (map[string]float64, error) {
	payload := map[string]interface{}{
		"assets": assetRefs(assets),
		"optimization": map[string]interface{}{
			"objective":    "maximizeSharpeRatio",
			"riskFreeRate": riskFreeRate,
		},
		"constraints": map[string]interface{}{
			"weights": map[string]interface{}{"type": "allLong"},
		},
		"marketData": marketData{
			ExpectedReturns:  assetReturns(assets, expectedReturns),
			CovarianceMatrix: flattenCovariance(assets, covariance),
		},
	}

	return c.postForWeights(ctx, "/portfolios/maximizer/sharpe-ratio", payload)
}

// MinimizeVariance finds the allocation with the lowest possible
// volatility, long-only.
func (c *Client) MinimizeVariance(ctx context.Context, assets []string, covariance [][]float64) (map[string]float64, error) {
	payload := map[string]interface{}{
		"assets": assetRefs(assets),
		"optimization": map[string]interface{}{
			"objective": "minimizeVariance",
		},
		"constraints": map[string]interface{}{
			"weights": map[string]interface{}{"type": "allLong"},
		},
		"marketData": marketData{CovarianceMatrix: flattenCovariance(assets, covariance)},
	}

	return c.postForWeights(ctx, "/portfolios/minimizer/variance", payload)
}

// EqualizeRiskContributions finds the risk-parity allocation where every
// asset contributes the same risk, long-only.
func (c *Client) EqualizeRiskContributions(ctx context.Context, assets []string, covariance [][]float64) (map[string]float64, error) {
	payload := map[string]interface{}{
		"assets": assetRefs(assets),
		"optimization": map[string]interface{}{
			"objective": "equalizeRiskContributions",
		},
		"constraints": map[string]interface{}{
			"weights": map[string]interface{}{"type": "allLong"},
		},
		"marketData": marketData{CovarianceMatrix: flattenCovariance(assets, covariance)},
	}

	return c.postForWeights(ctx, "/portfolios/equalizer/risk-contributions", payload)
}

// postForWeights posts a payload and extracts optimal weights in either
// response form.
func (c *Client) postForWeights(ctx context.Context, endpoint string, payload interface{}) (map[string]float64, error) {
	var result struct {
		OptimalWeights optimalWeights `json:"optimalWeights"`
	}
	if err := c.post(ctx, endpoint, payload, &result); err != nil {
		return nil, err
	}
	if len(result.OptimalWeights) == 0 {
		return nil, fmt.Errorf("response missing optimalWeights")
	}

	return result.OptimalWeights, nil
}

// post sends a JSON payload and decodes the JSON response.
func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+endpoint, payload)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
