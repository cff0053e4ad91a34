package portfolio

// Returns converts a close-price series into simple daily returns.
// Pairs involving a non-positive close are skipped.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}

	return returns
}

// AlignReturns truncates every series in place to the shortest length,
// keeping the most recent observations so the series overlap in time.
func AlignReturns(series [][]float64) {
	if len(series) == 0 {
		return
	}

	minLen := len(series[0])
	for _, s := range series[1:] {
		if len(s) < minLen {
			minLen = len(s)
		}
	}

	for i, s := range series {
		series[i] = s[len(s)-minLen:]
	}
}

// Covariance computes the annualized sample covariance matrix of
// aligned daily return series.
func Covariance(series [][]float64) [][]float64 {
	n := len(series)
	means := make([]float64, n)
	for i, s := range series {
		means[i] = mean(s)
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	obs := len(series[0])
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sum float64
			for k := 0; k < obs; k++ {
				sum += (series[i][k] - means[i]) * (series[j][k] - means[j])
			}
			cov := sum / float64(obs-1) * tradingDaysPerYear
			matrix[i][j] = cov
			matrix[j][i] = cov
		}
	}

	return matrix
}

// ExpectedReturns annualizes the mean daily return of each series.
func ExpectedReturns(series [][]float64) []float64 {
	out := make([]float64, len(series))
	for i, s := range series {
		out[i] = mean(s) * tradingDaysPerYear
	}
	return out
}

// EqualWeights returns a 1/n allocation.
func EqualWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return weights
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
