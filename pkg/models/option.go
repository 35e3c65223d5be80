package models

import "time"

// Option type strings used on OptionContract. The pricing engine has its own
// typed enum; these are the wire/display values providers populate.
const (
	OptionTypeCall = "call"
	OptionTypePut  = "put"
)

// OptionChain represents the option chain for a ticker on an expiry date.
type OptionChain struct {
	Ticker     string           `json:"ticker"`
	SpotPrice  float64          `json:"spot_price"`
	ExpiryDate string           `json:"expiry_date"`
	Expiries   []string         `json:"expiries,omitempty"` // all available expiry dates
	Contracts  []OptionContract `json:"contracts"`
	TotalCallOI int64           `json:"total_call_oi"`
	TotalPutOI  int64           `json:"total_put_oi"`
	PCR        float64          `json:"pcr"` // Put-Call Ratio by open interest
	FetchedAt  time.Time        `json:"fetched_at"`
}

// OptionContract represents a single option contract at a strike.
type OptionContract struct {
	Symbol      string  `json:"symbol,omitempty"`
	StrikePrice float64 `json:"strike_price"`
	OptionType  string  `json:"option_type"` // "call" or "put"
	ExpiryDate  string  `json:"expiry_date"`
	LastPrice   float64 `json:"last_price"`
	Change      float64 `json:"change"`
	ChangePct   float64 `json:"change_pct"`
	Volume      int64   `json:"volume"`
	OI          int64   `json:"oi"` // open interest
	BidPrice    float64 `json:"bid_price"`
	AskPrice    float64 `json:"ask_price"`
	BidQty      int64   `json:"bid_qty,omitempty"`
	AskQty      int64   `json:"ask_qty,omitempty"`
	IV          float64 `json:"iv,omitempty"` // implied volatility, percent

	// Exchange-supplied Greeks. Only populated by sources that compute
	// them server-side (CBOE); zero otherwise.
	Delta float64 `json:"delta,omitempty"`
	Gamma float64 `json:"gamma,omitempty"`
	Theta float64 `json:"theta,omitempty"`
	Vega  float64 `json:"vega,omitempty"`
	Rho   float64 `json:"rho,omitempty"`
}

// IsCall reports whether the contract is a call.
func (c OptionContract) IsCall() bool { return c.OptionType == OptionTypeCall }

// Mid returns the bid/ask midpoint, falling back to the last traded price
// when either side of the book is empty.
func (c OptionContract) Mid() float64 {
	if c.BidPrice > 0 && c.AskPrice > 0 {
		return (c.BidPrice + c.AskPrice) / 2
	}
	return c.LastPrice
}

// OptionPayoff represents a data point in an option payoff chart.
type OptionPayoff struct {
	UnderlyingPrice float64 `json:"underlying_price"`
	PnL             float64 `json:"pnl"`
}
