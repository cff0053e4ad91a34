package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the screening bot.
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Screening parameters
	TopN            int
	MinMarketCap    float64
	ExcludedSectors []string
	TargetExchanges []string

	// Formula toggles
	Formulas FormulaToggles

	// Portfolio analytics (optional post-ranking step)
	PortfolioAnalysis bool
	RiskFreeRate      float64

	// External services
	Discord   DiscordConfig
	Yahoo     YahooConfig
	Tradestie TradestieConfig
	Optimizer OptimizerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// FormulaToggles enables or disables each screening formula independently.
type FormulaToggles struct {
	MagicFormula     bool
	AcquirerMultiple bool
	GrahamNumber     bool
	AltmanZScore     bool
	PiotroskiFScore  bool
	RedditMomentum   bool
}

// DiscordConfig holds Discord webhook configuration.
type DiscordConfig struct {
	WebhookURL string
}

// YahooConfig holds the fundamentals provider configuration.
type YahooConfig struct {
	BaseURL       string
	RatePerSecond float64 // request rate cap toward Yahoo endpoints
}

// TradestieConfig holds the Reddit sentiment provider configuration.
type TradestieConfig struct {
	BaseURL string
	Date    string // optional MM-DD-YYYY, empty fetches latest
}

// OptimizerConfig holds the Portfolio Optimizer API configuration.
type OptimizerConfig struct {
	BaseURL string
}

// Load reads configuration from environment variables.
// SSOT: this is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		TopN:            getEnvAsInt("TOP_N_STOCKS", 5),
		MinMarketCap:    getEnvAsFloat("MIN_MARKET_CAP", 100_000_000),
		ExcludedSectors: getEnvAsList("EXCLUDED_SECTORS", "Financial Services,Utilities"),
		TargetExchanges: getEnvAsList("TARGET_EXCHANGES", "NYSE,NASDAQ"),

		Formulas: FormulaToggles{
			MagicFormula:     getEnvAsBool("ENABLE_MAGIC_FORMULA", true),
			AcquirerMultiple: getEnvAsBool("ENABLE_ACQUIRER_MULTIPLE", true),
			GrahamNumber:     getEnvAsBool("ENABLE_GRAHAM_NUMBER", true),
			AltmanZScore:     getEnvAsBool("ENABLE_ALTMAN_ZSCORE", true),
			PiotroskiFScore:  getEnvAsBool("ENABLE_PIOTROSKI_FSCORE", true),
			RedditMomentum:   getEnvAsBool("ENABLE_REDDIT_MOMENTUM", true),
		},

		PortfolioAnalysis: getEnvAsBool("ENABLE_PORTFOLIO_ANALYSIS", false),
		RiskFreeRate:      getEnvAsFloat("RISK_FREE_RATE", 0.02),

		Discord: DiscordConfig{
			WebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		},
		Yahoo: YahooConfig{
			BaseURL:       getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			RatePerSecond: getEnvAsFloat("YAHOO_RATE_PER_SECOND", 2.0),
		},
		Tradestie: TradestieConfig{
			BaseURL: getEnv("TRADESTIE_BASE_URL", "https://api.tradestie.com"),
			Date:    getEnv("TRADESTIE_DATE", ""),
		},
		Optimizer: OptimizerConfig{
			BaseURL: getEnv("OPTIMIZER_BASE_URL", "https://api.portfoliooptimizer.io/v1"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Discord.WebhookURL == "" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.TopN <= 0 {
		return fmt.Errorf("TOP_N_STOCKS must be positive, got %d", c.TopN)
	}

	return nil
}

// AnyEnabled reports whether at least one formula is switched on.
func (t FormulaToggles) AnyEnabled() bool {
	return t.MagicFormula || t.AcquirerMultiple || t.GrahamNumber ||
		t.AltmanZScore || t.PiotroskiFScore || t.RedditMomentum
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
