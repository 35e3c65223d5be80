package utils

import (
	"strings"
)

// US index aliases mapped to their common display names.
var indexTickers = map[string]string{
	"SPX":     "S&P 500",
	"S&P500":  "S&P 500",
	"S&P 500": "S&P 500",
	"DJI":     "Dow Jones",
	"DJIA":    "Dow Jones",
	"NDX":     "Nasdaq 100",
	"IXIC":    "Nasdaq Composite",
	"VIX":     "VIX",
	"RUT":     "Russell 2000",
}

// Yahoo Finance symbols for US indices.
var yfIndexSymbols = map[string]string{
	"S&P 500":          "^GSPC",
	"Dow Jones":        "^DJI",
	"Nasdaq 100":       "^NDX",
	"Nasdaq Composite": "^IXIC",
	"VIX":              "^VIX",
	"Russell 2000":     "^RUT",
}

// NormalizeTicker normalizes a user-input ticker to canonical uppercase form.
// It handles index aliases, the $ prefix common in chat, and whitespace.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	ticker = strings.TrimPrefix(ticker, "$")

	if idx, ok := indexTickers[ticker]; ok {
		return idx
	}
	return ticker
}

// ToYFinanceTicker converts a ticker to Yahoo Finance format. Class shares use
// a dash instead of a dot (BRK.B → BRK-B); indices map to their ^-prefixed
// Yahoo symbols.
func ToYFinanceTicker(ticker string) string {
	ticker = NormalizeTicker(ticker)

	if sym, ok := yfIndexSymbols[ticker]; ok {
		return sym
	}
	if strings.HasPrefix(ticker, "^") {
		return ticker
	}
	return strings.ReplaceAll(ticker, ".", "-")
}

// FromYFinanceTicker converts a Yahoo Finance symbol back to canonical form.
func FromYFinanceTicker(yfTicker string) string {
	for name, sym := range yfIndexSymbols {
		if sym == yfTicker {
			return name
		}
	}
	return strings.ReplaceAll(strings.TrimPrefix(yfTicker, "^"), "-", ".")
}

// IsIndex checks if the ticker is an index (not a stock).
func IsIndex(ticker string) bool {
	ticker = NormalizeTicker(ticker)
	if _, ok := indexTickers[ticker]; ok {
		return true
	}
	for _, v := range indexTickers {
		if v == ticker {
			return true
		}
	}
	return strings.HasPrefix(ticker, "^")
}
