package derivatives

import (
	"math"
	"testing"

	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

func sampleChain() *models.OptionChain {
	return &models.OptionChain{
		Ticker:     "AAPL",
		SpotPrice:  184.10,
		ExpiryDate: "2024-06-21",
		Contracts: []models.OptionContract{
			{StrikePrice: 170, OptionType: models.OptionTypePut, LastPrice: 1.10, OI: 4000, Volume: 900, IV: 26.0},
			{StrikePrice: 180, OptionType: models.OptionTypePut, LastPrice: 2.75, OI: 6000, Volume: 1500, IV: 24.8},
			{StrikePrice: 185, OptionType: models.OptionTypePut, LastPrice: 4.90, OI: 2000, Volume: 600, IV: 24.2},
			{StrikePrice: 180, OptionType: models.OptionTypeCall, LastPrice: 7.20, OI: 3000, Volume: 1000, IV: 23.0},
			{StrikePrice: 185, OptionType: models.OptionTypeCall, LastPrice: 3.55, OI: 9000, Volume: 2600, IV: 23.8},
			{StrikePrice: 190, OptionType: models.OptionTypeCall, LastPrice: 1.35, OI: 4000, Volume: 1400, IV: 25.1},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleChain())

	if s.Ticker != "AAPL" || s.ExpiryDate != "2024-06-21" {
		t.Errorf("identity = %q / %q", s.Ticker, s.ExpiryDate)
	}
	if s.SpotPrice != 184.10 {
		t.Errorf("spot = %v", s.SpotPrice)
	}

	// 185 is the strike nearest 184.10.
	if s.ATMStrike != 185 {
		t.Errorf("ATM strike = %v, want 185", s.ATMStrike)
	}
	if math.Abs(s.ATMIV-24.0) > 1e-9 {
		t.Errorf("ATM IV = %v, want 24.0", s.ATMIV)
	}
	if math.Abs(s.IVSkew-0.4) > 1e-9 {
		t.Errorf("IV skew = %v, want 0.4", s.IVSkew)
	}

	if s.Calls.Contracts != 3 || s.Calls.OI != 16000 || s.Calls.Volume != 5000 {
		t.Errorf("call totals = %+v", s.Calls)
	}
	if s.Puts.Contracts != 3 || s.Puts.OI != 12000 || s.Puts.Volume != 3000 {
		t.Errorf("put totals = %+v", s.Puts)
	}

	if s.PCR != 0.75 {
		t.Errorf("PCR = %v, want 0.75", s.PCR)
	}
	if math.Abs(s.PCRByVolume-0.6) > 1e-9 {
		t.Errorf("PCR by volume = %v, want 0.6", s.PCRByVolume)
	}

	if s.MaxPain != 180 {
		t.Errorf("max pain = %v, want 180", s.MaxPain)
	}
	if s.Sentiment != "neutral" {
		t.Errorf("sentiment = %q, want neutral", s.Sentiment)
	}
}

func TestSummarizeOILevels(t *testing.T) {
	s := Summarize(sampleChain())

	if s.Levels.MaxCallOIStrike != 185 {
		t.Errorf("max call OI strike = %v, want 185", s.Levels.MaxCallOIStrike)
	}
	if s.Levels.MaxPutOIStrike != 180 {
		t.Errorf("max put OI strike = %v, want 180", s.Levels.MaxPutOIStrike)
	}

	wantCalls := []float64{185, 190, 180}
	if len(s.Levels.TopCallStrikes) != 3 {
		t.Fatalf("top call strikes = %v", s.Levels.TopCallStrikes)
	}
	for i, w := range wantCalls {
		if s.Levels.TopCallStrikes[i] != w {
			t.Errorf("top call[%d] = %v, want %v", i, s.Levels.TopCallStrikes[i], w)
		}
	}

	wantPuts := []float64{180, 170, 185}
	for i, w := range wantPuts {
		if s.Levels.TopPutStrikes[i] != w {
			t.Errorf("top put[%d] = %v, want %v", i, s.Levels.TopPutStrikes[i], w)
		}
	}
}

func TestSummarizeNilAndEmpty(t *testing.T) {
	if s := Summarize(nil); s.Ticker != "" || s.PCR != 0 {
		t.Error("expected zero summary for nil chain")
	}
	if s := Summarize(&models.OptionChain{Ticker: "AAPL"}); s.PCR != 0 || s.MaxPain != 0 {
		t.Error("expected zero summary for empty chain")
	}
}

func TestSummarizeSentimentBands(t *testing.T) {
	// Put-heavy chain reads bullish, call-heavy reads bearish.
	bullish := &models.OptionChain{
		SpotPrice: 100,
		Contracts: []models.OptionContract{
			{StrikePrice: 95, OptionType: models.OptionTypePut, OI: 13000},
			{StrikePrice: 105, OptionType: models.OptionTypeCall, OI: 10000},
		},
	}
	if s := Summarize(bullish); s.Sentiment != "bullish" {
		t.Errorf("PCR 1.3 sentiment = %q, want bullish", s.Sentiment)
	}

	bearish := &models.OptionChain{
		SpotPrice: 100,
		Contracts: []models.OptionContract{
			{StrikePrice: 95, OptionType: models.OptionTypePut, OI: 5000},
			{StrikePrice: 105, OptionType: models.OptionTypeCall, OI: 10000},
		},
	}
	if s := Summarize(bearish); s.Sentiment != "bearish" {
		t.Errorf("PCR 0.5 sentiment = %q, want bearish", s.Sentiment)
	}
}

func TestComputeMaxPain(t *testing.T) {
	// With writers short 3000 calls at 180, 9000 at 185 and puts stacked
	// at 180, settling at 180 minimizes total intrinsic payout.
	mp := ComputeMaxPain(sampleChain().Contracts)
	if mp != 180 {
		t.Errorf("max pain = %v, want 180", mp)
	}
}

func TestComputeMaxPainEmpty(t *testing.T) {
	if mp := ComputeMaxPain(nil); mp != 0 {
		t.Errorf("max pain of empty chain = %v, want 0", mp)
	}
}

func TestFindATMStrike(t *testing.T) {
	contracts := sampleChain().Contracts

	tests := []struct {
		spot float64
		want float64
	}{
		{184.10, 185},
		{100, 170},   // nearest from below
		{500, 190},   // nearest from above
		{182.5, 180}, // exact tie resolves to the first strike at that distance
		{0, 0},
	}
	for _, tt := range tests {
		if got := findATMStrike(contracts, tt.spot); got != tt.want {
			t.Errorf("findATMStrike(spot=%v) = %v, want %v", tt.spot, got, tt.want)
		}
	}
}

func TestFindATMStrikeEmpty(t *testing.T) {
	if got := findATMStrike(nil, 100); got != 0 {
		t.Errorf("expected 0 for empty contracts, got %v", got)
	}
}
