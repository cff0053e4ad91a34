package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/signals"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// embedColor is the Discord blue used for every screening embed.
const embedColor = 3447003

// disclaimer appears in every embed footer.
const disclaimer = "This is not financial advice. Always do your own research."

// DiscordNotifier posts screening results to a Discord channel through
// an incoming webhook.
// SSOT: Discord delivery happens only in this notifier.
type DiscordNotifier struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	webhookURL string
}

// NewDiscordNotifier creates a Discord webhook notifier.
func NewDiscordNotifier(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		httpClient: httpClient,
		logger:     log,
		webhookURL: cfg.Discord.WebhookURL,
	}
}

// Webhook payload shapes, per the Discord "execute webhook" API.

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// medal returns the emoji for a 1-based rank.
func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return "🏅"
	}
}

func monthYear() string {
	return time.Now().Format("January 2006")
}

// SendMagicFormula posts the Magic Formula top picks.
func (n *DiscordNotifier) SendMagicFormula(ctx context.Context, results []signals.MagicResult) error {
	if len(results) == 0 {
		return n.sendEmpty(ctx, "🪄 Magic Formula")
	}

	fields := make([]embedField, 0, len(results))
	for _, r := range results {
		fields = append(fields, embedField{
			Name: fmt.Sprintf("%s %s (%s)", medal(r.Rank), r.Record.Symbol, r.Record.CompanyName),
			Value: fmt.Sprintf("Price: $%.2f | Score: %d\nEarnings Yield: %.2f%% | Return on Capital: %.2f%%",
				contracts.Value(r.Record.Price), r.MagicScore, r.EarningsYield*100, r.ReturnOnCapital*100),
		})
	}

	return n.send(ctx, embed{
		Title:       "🪄 Magic Formula Top Picks",
		Description: fmt.Sprintf("High earnings yield meets high return on capital · %s", monthYear()),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &embedFooter{Text: disclaimer},
	})
}

// SendAcquirerMultiple posts the Acquirer's Multiple top picks.
func (n *DiscordNotifier) SendAcquirerMultiple(ctx context.Context, results []signals.AcquirerResult) error {
	if len(results) == 0 {
		return n.sendEmpty(ctx, "💰 Acquirer's Multiple")
	}

	fields := make([]embedField, 0, len(results))
	for _, r := range results {
		fields = append(fields, embedField{
			Name: fmt.Sprintf("%s %s (%s)", medal(r.Rank), r.Record.Symbol, r.Record.CompanyName),
			Value: fmt.Sprintf("Price: $%.2f | Acquirer's Multiple: %.2f",
				contracts.Value(r.Record.Price), r.Multiple),
		})
	}

	return n.send(ctx, embed{
		Title:       "💰 Acquirer's Multiple Top Picks",
		Description: fmt.Sprintf("Cheapest operating earnings relative to enterprise value · %s", monthYear()),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &embedFooter{Text: disclaimer},
	})
}

// SendGrahamNumber posts the Graham Number top picks.
func (n *DiscordNotifier) SendGrahamNumber(ctx context.Context, results []signals.GrahamResult) error {
	if len(results) == 0 {
		return n.sendEmpty(ctx, "📐 Graham Number")
	}

	fields := make([]embedField, 0, len(results))
	for _, r := range results {
		fields = append(fields, embedField{
			Name: fmt.Sprintf("%s %s (%s)", medal(r.Rank), r.Record.Symbol, r.Record.CompanyName),
			Value: fmt.Sprintf("Price: $%.2f | Graham Number: $%.2f\nMargin of Safety: %.2f%%",
				contracts.Value(r.Record.Price), r.GrahamNumber, r.MarginOfSafety),
		})
	}

	return n.send(ctx, embed{
		Title:       "📐 Graham Number Top Picks",
		Description: fmt.Sprintf("Trading below intrinsic value per Benjamin Graham · %s", monthYear()),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &embedFooter{Text: disclaimer},
	})
}

// SendAltmanZScore posts the Altman Z-Score top picks.
func (n *DiscordNotifier) SendAltmanZScore(ctx context.Context, results []signals.AltmanResult) error {
	if len(results) == 0 {
		return n.sendEmpty(ctx, "🛡️ Altman Z-Score")
	}

	fields := make([]embedField, 0, len(results))
	for _, r := range results {
		fields = append(fields, embedField{
			Name: fmt.Sprintf("%s %s (%s)", medal(r.Rank), r.Record.Symbol, r.Record.CompanyName),
			Value: fmt.Sprintf("Price: $%.2f | Z-Score: %.2f | Zone: %s",
				contracts.Value(r.Record.Price), r.ZScore, r.RiskZone),
		})
	}

	return n.send(ctx, embed{
		Title:       "🛡️ Altman Z-Score Top Picks",
		Description: fmt.Sprintf("Financially strongest companies, Safe zone only · %s", monthYear()),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &embedFooter{Text: disclaimer},
	})
}

// SendPiotroskiFScore posts the Piotroski F-Score top picks.
func (n *DiscordNotifier) SendPiotroskiFScore(ctx context.Context, results []signals.PiotroskiResult) error {
	if len(results) == 0 {
		return n.sendEmpty(ctx, "💪 Piotroski F-Score")
	}

	fields := make([]embedField, 0, len(results))
	for _, r := range results {
		fields = append(fields, embedField{
			Name: fmt.Sprintf("%s %s (%s)", medal(r.Rank), r.Record.Symbol, r.Record.CompanyName),
			Value: fmt.Sprintf("Price: $%.2f | F-Score: %d/9",
				contracts.Value(r.Record.Price), r.FScore),
		})
	}

	return n.send(ctx, embed{
		Title:       "💪 Piotroski F-Score Top Picks",
		Description: fmt.Sprintf("Strongest fundamental momentum out of nine signals · %s", monthYear()),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &embedFooter{Text: disclaimer},
	})
}

// SendRedditMomentum posts the Reddit momentum top picks.
func (n *DiscordNotifier) SendRedditMomentum(ctx context.Context, results []signals.MomentumResult) error {
	if len(results) == 0 {
		return n.sendEmpty(ctx, "🚀 Reddit Momentum")
	}

	fields := make([]embedField, 0, len(results))
	for i, r := range results {
		fields = append(fields, embedField{
			Name: fmt.Sprintf("%s %s", medal(i+1), r.Record.Ticker),
			Value: fmt.Sprintf("Sentiment: %s (%.3f) | Comments: %d | Momentum: %.2f",
				r.Record.Sentiment, r.Record.SentimentScore, r.Record.NoOfComments, r.MomentumScore),
		})
	}

	return n.send(ctx, embed{
		Title:       "🚀 Reddit Momentum Top Picks",
		Description: fmt.Sprintf("Most bullish r/wallstreetbets chatter · %s", monthYear()),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &embedFooter{Text: disclaimer},
	})
}

// SendRiskReport posts the portfolio risk analysis for a formula's top
// picks.
func (n *DiscordNotifier) SendRiskReport(ctx context.Context, report *contracts.RiskReport) error {
	fields := make([]embedField, 0, 6)

	if report.Volatility != nil {
		fields = append(fields, embedField{
			Name:   "Volatility (annualized)",
			Value:  fmt.Sprintf("%.2f%%", *report.Volatility*100),
			Inline: true,
		})
	}
	if report.SharpeRatio != nil {
		fields = append(fields, embedField{
			Name:   "Sharpe Ratio",
			Value:  fmt.Sprintf("%.2f", *report.SharpeRatio),
			Inline: true,
		})
	}
	if report.DiversificationRatio != nil {
		fields = append(fields, embedField{
			Name:   "Diversification Ratio",
			Value:  fmt.Sprintf("%.2f", *report.DiversificationRatio),
			Inline: true,
		})
	}
	if len(report.MaxSharpeWeights) > 0 {
		fields = append(fields, embedField{
			Name:  "Max Sharpe Weights",
			Value: formatWeights(report.MaxSharpeWeights),
		})
	}
	if len(report.MinVarianceWeights) > 0 {
		fields = append(fields, embedField{
			Name:  "Min Variance Weights",
			Value: formatWeights(report.MinVarianceWeights),
		})
	}
	if len(report.RiskParityWeights) > 0 {
		fields = append(fields, embedField{
			Name:  "Risk Parity Weights",
			Value: formatWeights(report.RiskParityWeights),
		})
	}

	if len(fields) == 0 {
		n.logger.WithField("formula", report.Formula).Warn("Risk report has no analytics to send, skipping")
		return nil
	}

	return n.send(ctx, embed{
		Title:       fmt.Sprintf("📊 Portfolio Risk: %s", report.Formula),
		Description: fmt.Sprintf("Equal-weight portfolio of %s", strings.Join(report.Symbols, ", ")),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &embedFooter{Text: disclaimer},
	})
}

// formatWeights renders an allocation map as "AAPL 32.0% · MSFT 68.0%"
// in symbol order.
func formatWeights(weights map[string]float64) string {
	symbols := make([]string, 0, len(weights))
	for s := range weights {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	parts := make([]string, 0, len(symbols))
	for _, s := range symbols {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", s, weights[s]*100))
	}
	return strings.Join(parts, " · ")
}

// sendEmpty posts a short "no qualifying stocks" embed so a silent run
// is distinguishable from a failed one.
func (n *DiscordNotifier) sendEmpty(ctx context.Context, title string) error {
	return n.send(ctx, embed{
		Title:       title,
		Description: "No stocks passed the screen this run.",
		Color:       embedColor,
		Footer:      &embedFooter{Text: disclaimer},
	})
}

// send executes the webhook. Discord answers 204 No Content on success
// without a wait parameter and 200 with one.
func (n *DiscordNotifier) send(ctx context.Context, e embed) error {
	resp, err := n.httpClient.PostJSON(ctx, n.webhookURL, webhookPayload{Embeds: []embed{e}})
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	n.logger.WithField("title", e.Title).Debug("Discord notification sent")
	return nil
}
