package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

// almostEqual absorbs float rounding; derived prices are never compared
// bit-for-bit.
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

// ── Stock Tests ──

func TestOHLCVTimestamp(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	bar := OHLCV{
		Timestamp: now,
		Open:      182.5,
		High:      185.0,
		Low:       181.2,
		Close:     184.1,
		Volume:    5_000_000,
	}
	if bar.High < bar.Low {
		t.Error("High should be >= Low")
	}
	if bar.Close < bar.Low || bar.Close > bar.High {
		t.Error("Close should be between Low and High")
	}
	data, err := json.Marshal(bar)
	if err != nil {
		t.Fatalf("json.Marshal(OHLCV) error: %v", err)
	}
	var decoded OHLCV
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal(OHLCV) error: %v", err)
	}
	if !decoded.Timestamp.Equal(now) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, now)
	}
}

func TestQuoteFields(t *testing.T) {
	q := Quote{
		Ticker:    "AAPL",
		Name:      "Apple Inc.",
		LastPrice: 184.10,
		Change:    1.60,
		ChangePct: 0.88,
		Open:      182.80,
		High:      185.00,
		Low:       182.10,
		PrevClose: 182.50,
		Volume:    52_000_000,
		Timestamp: time.Now(),
	}
	if !almostEqual(q.Change, q.LastPrice-q.PrevClose) {
		t.Errorf("Change: got %v, want %v", q.Change, q.LastPrice-q.PrevClose)
	}
}

func TestTimeframeConstants(t *testing.T) {
	timeframes := map[Timeframe]string{
		Timeframe1Day:  "1d",
		Timeframe1Week: "1w",
		Timeframe1Mon:  "1M",
	}
	for tf, expected := range timeframes {
		if string(tf) != expected {
			t.Errorf("Timeframe %v: got %q, want %q", tf, string(tf), expected)
		}
	}
}

// ── Option Tests ──

func TestOptionChainPCR(t *testing.T) {
	oc := OptionChain{
		Ticker:      "AAPL",
		SpotPrice:   184.10,
		TotalCallOI: 10_000_000,
		TotalPutOI:  12_000_000,
		PCR:         1.2,
	}
	expectedPCR := float64(oc.TotalPutOI) / float64(oc.TotalCallOI)
	if !almostEqual(oc.PCR, expectedPCR) {
		t.Errorf("PCR: got %f, want %f", oc.PCR, expectedPCR)
	}
}

func TestOptionContractMid(t *testing.T) {
	c := OptionContract{
		StrikePrice: 185,
		OptionType:  OptionTypeCall,
		BidPrice:    4.20,
		AskPrice:    4.40,
		LastPrice:   4.25,
	}
	if got, want := c.Mid(), 4.30; !almostEqual(got, want) {
		t.Errorf("Mid: got %v, want %v", got, want)
	}

	// Empty book falls back to last trade.
	c.BidPrice, c.AskPrice = 0, 0
	if got := c.Mid(); got != c.LastPrice {
		t.Errorf("Mid with empty book: got %.2f, want %.2f", got, c.LastPrice)
	}
}

func TestOptionContractIsCall(t *testing.T) {
	call := OptionContract{OptionType: OptionTypeCall}
	put := OptionContract{OptionType: OptionTypePut}
	if !call.IsCall() {
		t.Error("call contract should report IsCall")
	}
	if put.IsCall() {
		t.Error("put contract should not report IsCall")
	}
}

func TestOptionPayoffJSON(t *testing.T) {
	points := []OptionPayoff{
		{UnderlyingPrice: 50, PnL: -8.75},
		{UnderlyingPrice: 100, PnL: -8.75},
		{UnderlyingPrice: 150, PnL: 41.25},
	}
	data, err := json.Marshal(points)
	if err != nil {
		t.Fatalf("json.Marshal([]OptionPayoff) error: %v", err)
	}
	var decoded []OptionPayoff
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal([]OptionPayoff) error: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("points: got %d, want 3", len(decoded))
	}
	if decoded[2].PnL != 41.25 {
		t.Errorf("PnL: got %f, want 41.25", decoded[2].PnL)
	}
}

// ── News Tests ──

func TestNewsArticleJSON(t *testing.T) {
	a := NewsArticle{
		Title:       "Apple unveils new iPhone",
		URL:         "https://example.com/apple-iphone",
		Source:      "Yahoo Finance",
		Summary:     "The company announced its latest lineup.",
		PublishedAt: time.Date(2026, 2, 20, 14, 30, 0, 0, time.UTC),
		Tickers:     []string{"AAPL"},
	}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("json.Marshal(NewsArticle) error: %v", err)
	}
	var decoded NewsArticle
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal(NewsArticle) error: %v", err)
	}
	if decoded.Title != a.Title {
		t.Errorf("Title: got %q, want %q", decoded.Title, a.Title)
	}
	if len(decoded.Tickers) != 1 || decoded.Tickers[0] != "AAPL" {
		t.Errorf("Tickers: got %v, want [AAPL]", decoded.Tickers)
	}
}

// ── Rates Tests ──

func TestInterestRateDataJSON(t *testing.T) {
	r := InterestRateData{
		Date:     time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC),
		Rate:     0.0433,
		RateType: "SOFR",
		Maturity: "overnight",
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal(InterestRateData) error: %v", err)
	}
	var decoded InterestRateData
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal(InterestRateData) error: %v", err)
	}
	if decoded.Rate != r.Rate {
		t.Errorf("Rate: got %f, want %f", decoded.Rate, r.Rate)
	}
	if decoded.RateType != "SOFR" {
		t.Errorf("RateType: got %q, want %q", decoded.RateType, "SOFR")
	}
}
