package models

import "time"

// InterestRateData represents a single observation of a reference rate.
type InterestRateData struct {
	Date     time.Time `json:"date"`
	Rate     float64   `json:"rate"`                // decimal, e.g. 0.015 for 1.5%
	RateType string    `json:"rate_type"`           // "SOFR", "FedFunds", "Treasury", etc.
	Maturity string    `json:"maturity,omitempty"`  // e.g., "overnight", "3m", "1y"
}

// TreasuryRate holds one day of constant-maturity Treasury yields keyed by
// tenor ("1M", "3M", ..., "30Y"), as decimals.
type TreasuryRate struct {
	Date  time.Time          `json:"date"`
	Rates map[string]float64 `json:"rates"`
}
