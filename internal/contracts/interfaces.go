package contracts

import "context"

// FundamentalsProvider supplies per-ticker financial records.
// SSOT: fundamentals enter the pipeline only through this interface.
type FundamentalsProvider interface {
	// Universe returns the fixed list of symbols to screen.
	Universe() []string

	// FetchRecord fetches fundamentals for one symbol. A (nil, nil)
	// return means the symbol was filtered out or lacks core data and
	// should be skipped silently; an error means the fetch itself failed.
	FetchRecord(ctx context.Context, symbol string) (*StockRecord, error)
}

// SentimentProvider supplies Reddit discussion records.
type SentimentProvider interface {
	FetchSentiment(ctx context.Context) ([]SentimentRecord, error)
}

// PortfolioAnalyzer computes portfolio-level risk metrics for a
// formula's top picks. Implementations require at least two symbols.
type PortfolioAnalyzer interface {
	AnalyzeTopPicks(ctx context.Context, formula string, symbols []string) (*RiskReport, error)
}
