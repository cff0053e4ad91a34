package contracts

// Sentiment classes reported by the Reddit sentiment provider.
const (
	SentimentBullish = "Bullish"
	SentimentBearish = "Bearish"
)

// SentimentRecord is one row of Reddit discussion data for a ticker.
// Records reaching the core always carry all four fields; the provider
// discards incomplete items at the boundary.
type SentimentRecord struct {
	Ticker         string  `json:"ticker"`
	NoOfComments   int     `json:"no_of_comments"`
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentiment_score"`
}

// IsBullish reports whether the record carries a Bullish class label.
func (r SentimentRecord) IsBullish() bool {
	return r.Sentiment == SentimentBullish
}
