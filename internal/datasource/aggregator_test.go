package datasource

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// stubFetcher serves canned data (or a canned error) and records the
// params of the last call.
type stubFetcher struct {
	provider.BaseFetcher
	data      any
	err       error
	calls     int
	gotParams provider.QueryParams
}

func (f *stubFetcher) Fetch(_ context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	f.calls++
	f.gotParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &provider.FetchResult{Data: f.data}, nil
}

func newStubFetcher(model provider.ModelType, data any) *stubFetcher {
	return &stubFetcher{
		BaseFetcher: provider.NewBaseFetcher(model, "stub "+string(model), nil, nil),
		data:        data,
	}
}

func newFailingFetcher(model provider.ModelType, err error) *stubFetcher {
	return &stubFetcher{
		BaseFetcher: provider.NewBaseFetcher(model, "stub "+string(model), nil, nil),
		err:         err,
	}
}

type stubProvider struct {
	provider.BaseProvider
}

func newStubProvider(name string, fetchers ...provider.Fetcher) *stubProvider {
	p := &stubProvider{
		BaseProvider: provider.NewBaseProvider(name, "test provider", "", nil),
	}
	for _, f := range fetchers {
		p.RegisterFetcher(f)
	}
	return p
}

func newTestRegistry(t *testing.T, providers ...provider.Provider) *provider.Registry {
	t.Helper()
	reg := provider.NewRegistry()
	for _, p := range providers {
		if err := reg.Register(p); err != nil {
			t.Fatalf("register %s: %v", p.Info().Name, err)
		}
	}
	return reg
}

// newTestAggregator builds an aggregator whose RSS fallback has no
// feeds, so tests never touch the network.
func newTestAggregator(reg *provider.Registry, opts Options) *Aggregator {
	a := NewAggregator(reg, opts)
	a.news = NewNewsWithSources(nil)
	return a
}

func TestFetchQuote(t *testing.T) {
	quote := &models.Quote{Ticker: "AAPL", LastPrice: 184.10}
	reg := newTestRegistry(t, newStubProvider("alpha", newStubFetcher(provider.ModelEquityQuote, quote)))
	a := newTestAggregator(reg, Options{})

	got, err := a.FetchQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}
	if got.LastPrice != 184.10 {
		t.Errorf("LastPrice = %v, want 184.10", got.LastPrice)
	}
}

func TestFetchQuoteWrongPayload(t *testing.T) {
	// A fetcher registered for quotes that ships candles instead.
	reg := newTestRegistry(t, newStubProvider("alpha", newStubFetcher(provider.ModelEquityQuote, []models.OHLCV{{Close: 1}})))
	a := newTestAggregator(reg, Options{})

	_, err := a.FetchQuote(context.Background(), "AAPL")
	if !errors.Is(err, ErrUnexpectedPayload) {
		t.Errorf("err = %v, want ErrUnexpectedPayload", err)
	}
}

func TestFetchHistoryWindowAndInterval(t *testing.T) {
	f := newStubFetcher(provider.ModelEquityHistorical, []models.OHLCV{{Close: 100}})
	reg := newTestRegistry(t, newStubProvider("alpha", f))
	a := newTestAggregator(reg, Options{HistoryDays: 30})

	if _, err := a.FetchHistory(context.Background(), "AAPL"); err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}

	if got := f.gotParams[provider.ParamInterval]; got != "1d" {
		t.Errorf("interval = %q, want 1d", got)
	}
	start, err := time.Parse("2006-01-02", f.gotParams[provider.ParamStartDate])
	if err != nil {
		t.Fatalf("bad start_date %q: %v", f.gotParams[provider.ParamStartDate], err)
	}
	end, err := time.Parse("2006-01-02", f.gotParams[provider.ParamEndDate])
	if err != nil {
		t.Fatalf("bad end_date %q: %v", f.gotParams[provider.ParamEndDate], err)
	}
	if days := end.Sub(start).Hours() / 24; math.Abs(days-30) > 1 {
		t.Errorf("window = %.0f days, want 30", days)
	}
}

func TestFetchHistoryEmpty(t *testing.T) {
	reg := newTestRegistry(t, newStubProvider("alpha", newStubFetcher(provider.ModelEquityHistorical, []models.OHLCV{})))
	a := newTestAggregator(reg, Options{})

	_, err := a.FetchHistory(context.Background(), "AAPL")
	if err == nil || !strings.Contains(err.Error(), "no candles") {
		t.Errorf("err = %v, want no-candles error", err)
	}
}

func TestPreferredProviderOrder(t *testing.T) {
	alpha := newStubProvider("alpha", newStubFetcher(provider.ModelEquityQuote, &models.Quote{Name: "alpha"}))
	bravo := newStubProvider("bravo", newStubFetcher(provider.ModelEquityQuote, &models.Quote{Name: "bravo"}))
	// alpha registers first and becomes the registry default.
	reg := newTestRegistry(t, alpha, bravo)

	a := newTestAggregator(reg, Options{Providers: []string{"bravo", "alpha"}})
	got, err := a.FetchQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}
	if got.Name != "bravo" {
		t.Errorf("served by %q, want configured preference bravo", got.Name)
	}
}

func TestPreferredParamsKeepsExplicitProvider(t *testing.T) {
	alpha := newStubProvider("alpha", newStubFetcher(provider.ModelEquityQuote, &models.Quote{Name: "alpha"}))
	bravo := newStubProvider("bravo", newStubFetcher(provider.ModelEquityQuote, &models.Quote{Name: "bravo"}))
	reg := newTestRegistry(t, alpha, bravo)
	a := newTestAggregator(reg, Options{Providers: []string{"bravo"}})

	params := a.preferredParams(provider.ModelEquityQuote, provider.QueryParams{
		provider.ParamProvider: "alpha",
	})
	if params[provider.ParamProvider] != "alpha" {
		t.Errorf("provider = %q, explicit choice must win", params[provider.ParamProvider])
	}
}

func TestPreferredParamsSkipsUnregistered(t *testing.T) {
	alpha := newStubProvider("alpha", newStubFetcher(provider.ModelEquityQuote, &models.Quote{Name: "alpha"}))
	reg := newTestRegistry(t, alpha)
	a := newTestAggregator(reg, Options{Providers: []string{"ghost", "alpha"}})

	params := a.preferredParams(provider.ModelEquityQuote, provider.QueryParams{})
	if params[provider.ParamProvider] != "alpha" {
		t.Errorf("provider = %q, want alpha (ghost is not registered)", params[provider.ParamProvider])
	}
}

func TestFetchChainExpiryParam(t *testing.T) {
	f := newStubFetcher(provider.ModelOptionsChains, &models.OptionChain{Ticker: "AAPL"})
	reg := newTestRegistry(t, newStubProvider("alpha", f))
	a := newTestAggregator(reg, Options{})

	if _, err := a.FetchChain(context.Background(), "AAPL", "2026-01-16"); err != nil {
		t.Fatalf("FetchChain: %v", err)
	}
	if got := f.gotParams[provider.ParamExpiry]; got != "2026-01-16" {
		t.Errorf("expiry param = %q, want 2026-01-16", got)
	}

	if _, err := a.FetchChain(context.Background(), "AAPL", ""); err != nil {
		t.Fatalf("FetchChain without expiry: %v", err)
	}
	if _, ok := f.gotParams[provider.ParamExpiry]; ok {
		t.Error("empty expiry must not be sent to the provider")
	}
}

func TestFetchChainFallsBackPastExpiryRequirement(t *testing.T) {
	// The default provider insists on an explicit expiry; the second one
	// serves its nearest listed expiration. A chain request without an
	// expiry must land on the second provider.
	strict := &stubFetcher{
		BaseFetcher: provider.NewBaseFetcher(provider.ModelOptionsChains, "strict chains",
			[]string{provider.ParamSymbol, provider.ParamExpiry}, nil),
		data: &models.OptionChain{ExpiryDate: "strict"},
	}
	loose := newStubFetcher(provider.ModelOptionsChains, &models.OptionChain{ExpiryDate: "2026-01-16"})
	reg := newTestRegistry(t, newStubProvider("strict", strict), newStubProvider("loose", loose))
	a := newTestAggregator(reg, Options{})

	chain, err := a.FetchChain(context.Background(), "AAPL", "")
	if err != nil {
		t.Fatalf("FetchChain: %v", err)
	}
	if chain.ExpiryDate != "2026-01-16" {
		t.Errorf("chain came from %q, want the fallback provider", chain.ExpiryDate)
	}
	if strict.calls != 0 {
		t.Errorf("strict fetcher ran %d times; param validation should reject it first", strict.calls)
	}
}

func TestFetchNewsCleansProviderSummaries(t *testing.T) {
	articles := []models.NewsArticle{
		{Title: "Apple rallies", Summary: "<p>Shares <b>rallied</b> on earnings.</p>"},
	}
	reg := newTestRegistry(t, newStubProvider("alpha", newStubFetcher(provider.ModelCompanyNews, articles)))
	a := newTestAggregator(reg, Options{})

	got, err := a.FetchNews(context.Background(), "AAPL", 5)
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1", len(got))
	}
	if got[0].Summary != "Shares rallied on earnings." {
		t.Errorf("Summary = %q, want HTML stripped", got[0].Summary)
	}
}

func TestFetchNewsFallsBackToFeedsOnProviderError(t *testing.T) {
	failing := newFailingFetcher(provider.ModelCompanyNews, errors.New("upstream down"))
	reg := newTestRegistry(t, newStubProvider("alpha", failing))
	a := newTestAggregator(reg, Options{})

	// The feed list is empty in tests, so the fallback yields no articles
	// rather than an error.
	got, err := a.FetchNews(context.Background(), "AAPL", 5)
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d articles from empty feeds", len(got))
	}
}

func TestSnapshot(t *testing.T) {
	quote := &models.Quote{Ticker: "AAPL", LastPrice: 184.10}
	history := []models.OHLCV{
		{Timestamp: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), Close: 183.50},
		{Timestamp: time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC), Close: 184.10},
	}
	chain := &models.OptionChain{
		Ticker:     "AAPL",
		ExpiryDate: "2026-09-18",
		Contracts:  []models.OptionContract{{StrikePrice: 185, OptionType: models.OptionTypeCall}},
	}
	p := newStubProvider("alpha",
		newStubFetcher(provider.ModelEquityQuote, quote),
		newStubFetcher(provider.ModelEquityHistorical, history),
		newStubFetcher(provider.ModelOptionsChains, chain),
	)
	a := newTestAggregator(newTestRegistry(t, p), Options{NewsLimit: 3})

	snap, err := a.Snapshot(context.Background(), "aapl", "2026-09-18")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if snap.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", snap.Ticker)
	}
	if snap.Quote == nil || snap.Quote.LastPrice != 184.10 {
		t.Errorf("Quote = %+v, want last price 184.10", snap.Quote)
	}
	if len(snap.History) != 2 {
		t.Errorf("History has %d candles, want 2", len(snap.History))
	}
	if snap.Chain == nil {
		t.Fatal("Chain missing from snapshot")
	}
	// The stub chain carries no spot; it must be patched from the quote.
	if snap.Chain.SpotPrice != 184.10 {
		t.Errorf("Chain.SpotPrice = %v, want patched 184.10", snap.Chain.SpotPrice)
	}
	if snap.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}

	// No rate provider is registered, so the snapshot degrades with a
	// warning instead of failing.
	if snap.RiskFreeRate != 0 {
		t.Errorf("RiskFreeRate = %v, want 0 without a rate source", snap.RiskFreeRate)
	}
	found := false
	for _, w := range snap.Warnings {
		if strings.Contains(w, "risk-free rate") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want a risk-free rate entry", snap.Warnings)
	}
}

func TestSnapshotFailsWithoutQuote(t *testing.T) {
	history := []models.OHLCV{{Close: 100}}
	p := newStubProvider("alpha", newStubFetcher(provider.ModelEquityHistorical, history))
	a := newTestAggregator(newTestRegistry(t, p), Options{})

	_, err := a.Snapshot(context.Background(), "AAPL", "")
	if err == nil {
		t.Fatal("expected error when no provider serves quotes")
	}
	if !strings.Contains(err.Error(), "snapshot for AAPL") {
		t.Errorf("err = %v, want snapshot context in message", err)
	}
}

func TestSnapshotFailsWhenHistoryErrors(t *testing.T) {
	p := newStubProvider("alpha",
		newStubFetcher(provider.ModelEquityQuote, &models.Quote{LastPrice: 1}),
		newFailingFetcher(provider.ModelEquityHistorical, errors.New("boom")),
	)
	a := newTestAggregator(newTestRegistry(t, p), Options{})

	if _, err := a.Snapshot(context.Background(), "AAPL", ""); err == nil {
		t.Fatal("expected error when history fetch fails")
	}
}
