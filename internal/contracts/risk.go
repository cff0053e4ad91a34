package contracts

// RiskReport holds portfolio-level risk metrics computed for one
// formula's top picks. Metric pointers are nil when the corresponding
// optimizer call failed; a report is still useful partially filled.
type RiskReport struct {
	Formula string   `json:"formula"`
	Symbols []string `json:"symbols"`

	// Analyzer metrics for the equal-weight portfolio
	Volatility           *float64 `json:"volatility,omitempty"`
	SharpeRatio          *float64 `json:"sharpe_ratio,omitempty"`
	DiversificationRatio *float64 `json:"diversification_ratio,omitempty"`

	// Optimized allocations (symbol -> weight)
	MaxSharpeWeights   map[string]float64 `json:"max_sharpe_weights,omitempty"`
	MinVarianceWeights map[string]float64 `json:"min_variance_weights,omitempty"`
	RiskParityWeights  map[string]float64 `json:"risk_parity_weights,omitempty"`
}
