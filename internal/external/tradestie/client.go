package tradestie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// Client fetches Reddit sentiment data from the Tradestie API, which
// aggregates the most-discussed tickers on r/wallstreetbets.
// SSOT: Tradestie calls happen only in this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	date       string // optional MM-DD-YYYY; empty fetches latest
}

// NewClient creates a new Tradestie client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Tradestie.BaseURL,
		date:       cfg.Tradestie.Date,
	}
}

// rawItem mirrors one API item with pointer fields so that missing keys
// are detectable; items with any missing field are discarded before the
// scoring core ever sees them.
type rawItem struct {
	Ticker         *string  `json:"ticker"`
	NoOfComments   *int     `json:"no_of_comments"`
	Sentiment      *string  `json:"sentiment"`
	SentimentScore *float64 `json:"sentiment_score"`
}

// FetchSentiment fetches the latest Reddit sentiment list (or the list
// for the configured date). An empty or non-list payload is an error;
// individual malformed items are skipped with a warning.
func (c *Client) FetchSentiment(ctx context.Context) ([]contracts.SentimentRecord, error) {
	endpoint := c.baseURL + "/v1/apps/reddit"
	if c.date != "" {
		endpoint = fmt.Sprintf("%s?date=%s", endpoint, url.QueryEscape(c.date))
	}

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var items []rawItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("sentiment API returned empty response")
	}

	records := make([]contracts.SentimentRecord, 0, len(items))
	skipped := 0
	for _, item := range items {
		if item.Ticker == nil || item.NoOfComments == nil || item.Sentiment == nil || item.SentimentScore == nil {
			skipped++
			continue
		}
		records = append(records, contracts.SentimentRecord{
			Ticker:         *item.Ticker,
			NoOfComments:   *item.NoOfComments,
			Sentiment:      *item.Sentiment,
			SentimentScore: *item.SentimentScore,
		})
	}

	if skipped > 0 {
		c.logger.WithField("skipped", skipped).Warn("Discarded sentiment items with missing fields")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no valid items in sentiment response")
	}

	c.logger.WithField("count", len(records)).Info("Fetched Reddit sentiment data")
	return records, nil
}
