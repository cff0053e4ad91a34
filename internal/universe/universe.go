package universe

import "strings"

// Fixed US equity universe of major large caps across sectors. The
// fundamentals provider has no screener endpoint, so the bot screens a
// predefined list; market-cap and sector filters are applied per symbol
// at fetch time.
var symbols = []string{
	// Technology
	"AAPL", "MSFT", "GOOGL", "META", "NVDA", "AVGO", "ORCL", "CRM", "ADBE", "AMD",
	"INTC", "CSCO", "IBM", "QCOM", "TXN", "NOW", "INTU", "AMAT", "MU", "LRCX",
	// Healthcare
	"UNH", "JNJ", "LLY", "PFE", "ABBV", "MRK", "TMO", "ABT", "DHR", "BMY",
	"AMGN", "GILD", "VRTX", "REGN", "ISRG", "MDT", "SYK", "ZTS", "BDX", "CI",
	// Consumer
	"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "LOW", "TJX", "COST", "TGT",
	"PG", "KO", "PEP", "PM", "MO", "CL", "EL", "GIS", "K", "KHC",
	// Industrial
	"CAT", "DE", "UNP", "UPS", "RTX", "HON", "BA", "LMT", "GE", "MMM",
	// Energy
	"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "PSX", "VLO", "OXY", "HAL",
	// Communication
	"GOOG", "DIS", "NFLX", "CMCSA", "VZ", "T", "TMUS", "CHTR",
}

// Symbols returns a copy of the universe symbol list.
func Symbols() []string {
	out := make([]string, len(symbols))
	copy(out, symbols)
	return out
}

// Size returns the number of symbols in the universe.
func Size() int {
	return len(symbols)
}

var symbolSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[strings.ToUpper(s)] = struct{}{}
	}
	return set
}()

// Contains reports whether ticker belongs to the universe,
// case-insensitively.
func Contains(ticker string) bool {
	_, ok := symbolSet[strings.ToUpper(ticker)]
	return ok
}
