package yfinance

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

func TestProviderInfo(t *testing.T) {
	p := New()
	info := p.Info()
	if info.Name != "yfinance" {
		t.Errorf("expected name yfinance, got %s", info.Name)
	}
	if info.Website == "" {
		t.Error("expected non-empty website")
	}
	if len(info.Credentials) != 0 {
		t.Errorf("yfinance should have no credentials, got %d", len(info.Credentials))
	}
}

func TestProviderSupportedModels(t *testing.T) {
	p := New()
	supported := p.SupportedModels()

	expected := []provider.ModelType{
		provider.ModelEquityHistorical,
		provider.ModelEquityQuote,
		provider.ModelOptionsChains,
		provider.ModelCompanyNews,
	}

	modelSet := make(map[provider.ModelType]bool)
	for _, m := range supported {
		modelSet[m] = true
	}
	if len(supported) != len(expected) {
		t.Errorf("expected %d models, got %d", len(expected), len(supported))
	}
	for _, m := range expected {
		if !modelSet[m] {
			t.Errorf("missing expected model: %s", m)
		}
	}
}

func TestProviderFetcher(t *testing.T) {
	p := New()

	f := p.Fetcher(provider.ModelOptionsChains)
	if f == nil {
		t.Fatal("expected non-nil fetcher for OptionsChains")
	}
	if f.ModelType() != provider.ModelOptionsChains {
		t.Errorf("expected ModelOptionsChains, got %s", f.ModelType())
	}

	if p.Fetcher(provider.ModelType("Nonexistent")) != nil {
		t.Error("expected nil fetcher for unsupported model")
	}
}

func TestProviderInit(t *testing.T) {
	p := New()
	// YFinance has no credentials, Init should succeed with nil.
	if err := p.Init(nil); err != nil {
		t.Errorf("Init with nil: %v", err)
	}
	if err := p.Init(map[string]string{}); err != nil {
		t.Errorf("Init with empty: %v", err)
	}
}

func TestFetcherRequiredParams(t *testing.T) {
	p := New()

	tests := []struct {
		model    provider.ModelType
		required []string
	}{
		{provider.ModelEquityHistorical, []string{"symbol"}},
		{provider.ModelEquityQuote, []string{"symbol"}},
		{provider.ModelOptionsChains, []string{"symbol"}},
		{provider.ModelCompanyNews, []string{"symbol"}},
	}

	for _, tt := range tests {
		f := p.Fetcher(tt.model)
		if f == nil {
			t.Errorf("no fetcher for %s", tt.model)
			continue
		}
		got := f.RequiredParams()
		if len(got) != len(tt.required) {
			t.Errorf("%s: expected %d required params, got %d", tt.model, len(tt.required), len(got))
			continue
		}
		for i, r := range tt.required {
			if got[i] != r {
				t.Errorf("%s: required[%d] = %q, want %q", tt.model, i, got[i], r)
			}
		}
	}
}

func TestProviderRegistration(t *testing.T) {
	p := New()
	_ = p.Init(nil)

	reg := provider.NewRegistry()
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := reg.Get("yfinance")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Info().Name != "yfinance" {
		t.Error("wrong provider name")
	}

	provs := reg.ProvidersFor(provider.ModelOptionsChains)
	if len(provs) == 0 {
		t.Error("no providers for OptionsChains")
	}
	if provs[0] != "yfinance" {
		t.Errorf("expected yfinance, got %s", provs[0])
	}
}

func TestHelperToYFTicker(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AAPL", "AAPL"},
		{"brk.b", "BRK-B"},
		{"BRK-B", "BRK-B"},
		{"SPX", "^GSPC"},
		{"^VIX", "^VIX"},
	}
	for _, tt := range tests {
		got := toYFTicker(tt.in)
		if got != tt.want {
			t.Errorf("toYFTicker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHelperFromYFTicker(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AAPL", "AAPL"},
		{"BRK-B", "BRK.B"},
		{"^GSPC", "S&P 500"},
	}
	for _, tt := range tests {
		got := fromYFTicker(tt.in)
		if got != tt.want {
			t.Errorf("fromYFTicker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseCandles(t *testing.T) {
	raw := `{
		"meta": {"symbol": "AAPL", "currency": "USD", "regularMarketPrice": 187.5},
		"timestamp": [1700000000, 1700086400, 1700172800],
		"indicators": {
			"quote": [{
				"open":   [180.1, 181.5, null],
				"high":   [182.0, 183.2, 184.0],
				"low":    [179.5, 180.9, 182.1],
				"close":  [181.2, 182.8, 183.5],
				"volume": [52000000, null, 48000000]
			}],
			"adjclose": [{"adjclose": [181.0, 182.6, 183.3]}]
		}
	}`

	var result yfChartResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	candles := parseCandles(result)
	if len(candles) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(candles))
	}

	first := candles[0]
	if first.Open != 180.1 || first.Close != 181.2 || first.Volume != 52000000 {
		t.Errorf("first candle = %+v", first)
	}
	if first.AdjClose != 181.0 {
		t.Errorf("first adj close = %v, want 181.0", first.AdjClose)
	}
	if !first.Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("first timestamp = %v", first.Timestamp)
	}

	// Null entries become zero values rather than dropping the candle.
	if candles[2].Open != 0 {
		t.Errorf("null open should parse as 0, got %v", candles[2].Open)
	}
	if candles[1].Volume != 0 {
		t.Errorf("null volume should parse as 0, got %v", candles[1].Volume)
	}
}

func TestBuildQuote(t *testing.T) {
	r := yfQuoteResult{
		Symbol:                     "AAPL",
		LongName:                   "Apple Inc.",
		FullExchangeName:           "NasdaqGS",
		Currency:                   "USD",
		RegularMarketPrice:         187.5,
		RegularMarketChange:        1.25,
		RegularMarketChangePercent: 0.67,
		RegularMarketPreviousClose: 186.25,
		RegularMarketVolume:        52000000,
		FiftyTwoWeekHigh:           199.6,
		FiftyTwoWeekLow:            124.2,
		RegularMarketTime:          1700000000,
	}

	q := buildQuote(r)
	if q.Ticker != "AAPL" || q.Name != "Apple Inc." {
		t.Errorf("quote identity = %q / %q", q.Ticker, q.Name)
	}
	if q.Exchange != "NasdaqGS" || q.Currency != "USD" {
		t.Errorf("quote venue = %q / %q", q.Exchange, q.Currency)
	}
	if q.LastPrice != 187.5 || q.PrevClose != 186.25 {
		t.Errorf("quote prices = %v / %v", q.LastPrice, q.PrevClose)
	}
}

func TestBuildChain(t *testing.T) {
	raw := `{
		"underlyingSymbol": "AAPL",
		"expirationDates": [1718928000, 1721606400],
		"strikes": [180, 185, 190],
		"quote": {"symbol": "AAPL", "regularMarketPrice": 187.5},
		"options": [{
			"expirationDate": 1718928000,
			"calls": [
				{"contractSymbol": "AAPL240621C00185000", "strike": 185, "lastPrice": 6.1,
				 "volume": 1200, "openInterest": 5000, "bid": 6.0, "ask": 6.2,
				 "impliedVolatility": 0.2431, "expiration": 1718928000},
				{"contractSymbol": "AAPL240621C00190000", "strike": 190, "lastPrice": 3.4,
				 "volume": 800, "openInterest": 3000, "bid": 3.3, "ask": 3.5,
				 "impliedVolatility": 0.2389, "expiration": 1718928000}
			],
			"puts": [
				{"contractSymbol": "AAPL240621P00185000", "strike": 185, "lastPrice": 3.2,
				 "volume": 950, "openInterest": 4000, "bid": 3.1, "ask": 3.3,
				 "impliedVolatility": 0.2502, "expiration": 1718928000}
			]
		}]
	}`

	var result yfOptionsResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	chain := buildChain(result)
	if chain.Ticker != "AAPL" {
		t.Errorf("ticker = %q", chain.Ticker)
	}
	if chain.SpotPrice != 187.5 {
		t.Errorf("spot = %v", chain.SpotPrice)
	}
	if len(chain.Expiries) != 2 || chain.Expiries[0] != "2024-06-21" {
		t.Errorf("expiries = %v", chain.Expiries)
	}
	if len(chain.Contracts) != 3 {
		t.Fatalf("expected 3 contracts, got %d", len(chain.Contracts))
	}

	call := chain.Contracts[0]
	if call.OptionType != models.OptionTypeCall || call.StrikePrice != 185 {
		t.Errorf("first contract = %+v", call)
	}
	if call.Symbol != "AAPL240621C00185000" {
		t.Errorf("contract symbol = %q", call.Symbol)
	}
	if math.Abs(call.IV-24.31) > 1e-9 {
		t.Errorf("IV = %v, want 24.31 (percent)", call.IV)
	}

	put := chain.Contracts[2]
	if put.OptionType != models.OptionTypePut {
		t.Errorf("third contract type = %q", put.OptionType)
	}

	if chain.TotalCallOI != 8000 || chain.TotalPutOI != 4000 {
		t.Errorf("OI totals = %d / %d", chain.TotalCallOI, chain.TotalPutOI)
	}
	if chain.PCR != 0.5 {
		t.Errorf("PCR = %v, want 0.5", chain.PCR)
	}
}

func TestFetchMissingSymbolFails(t *testing.T) {
	p := New()
	_ = p.Init(nil)

	reg := provider.NewRegistry()
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := reg.Fetch(context.Background(), provider.ModelEquityQuote, provider.QueryParams{
		provider.ParamProvider: "yfinance",
	})
	if err == nil {
		t.Fatal("expected error when fetching without symbol")
	}
	var missing *provider.ErrMissingParam
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingParam, got %T: %v", err, err)
	}
	if missing.Param != provider.ParamSymbol {
		t.Errorf("missing param = %q, want %q", missing.Param, provider.ParamSymbol)
	}
}
