package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/infra"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// Options configures the aggregator.
type Options struct {
	// HistoryDays is the lookback window for historical candles.
	HistoryDays int
	// NewsLimit caps the number of articles attached to a snapshot.
	NewsLimit int
	// CacheTTL bounds how long merged results (risk-free rates) are reused.
	CacheTTL time.Duration
	// Providers lists provider names in preference order. The first name
	// registered for a model becomes the preferred provider for that
	// model; the registry still falls back to the others on failure.
	Providers []string
}

// Aggregator routes data requests through the provider registry and
// merges multi-source results into snapshots. It owns the RSS news feeds
// as a fallback for symbols no provider covers.
type Aggregator struct {
	registry *provider.Registry
	news     *News
	cache    *infra.Cache
	opts     Options
}

// NewAggregator creates an aggregator on top of the given registry.
// If registry is nil, the global registry is used.
func NewAggregator(reg *provider.Registry, opts Options) *Aggregator {
	if reg == nil {
		reg = provider.Global()
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 365
	}
	if opts.NewsLimit <= 0 {
		opts.NewsLimit = 10
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Aggregator{
		registry: reg,
		news:     NewNews(),
		cache:    infra.NewCache(opts.CacheTTL),
		opts:     opts,
	}
}

// Registry returns the provider registry used by this aggregator.
func (a *Aggregator) Registry() *provider.Registry {
	return a.registry
}

// preferredParams seeds the provider param from the configured preference
// order, leaving an explicit provider choice untouched. The registry
// interprets the param as "try this one first".
func (a *Aggregator) preferredParams(model provider.ModelType, params provider.QueryParams) provider.QueryParams {
	if _, ok := params[provider.ParamProvider]; ok {
		return params
	}
	available := a.registry.ProvidersFor(model)
	for _, name := range a.opts.Providers {
		for _, have := range available {
			if have == name {
				params[provider.ParamProvider] = name
				return params
			}
		}
	}
	return params
}

// FetchQuote fetches the current quote for a ticker.
func (a *Aggregator) FetchQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	symbol := utils.NormalizeTicker(ticker)

	params := a.preferredParams(provider.ModelEquityQuote, provider.QueryParams{
		provider.ParamSymbol: symbol,
	})
	result, err := a.registry.FetchWithFallback(ctx, provider.ModelEquityQuote, params)
	if err != nil {
		return nil, fmt.Errorf("quote for %s: %w", symbol, err)
	}
	quote, ok := result.Data.(*models.Quote)
	if !ok {
		return nil, fmt.Errorf("quote for %s: %w", symbol, ErrUnexpectedPayload)
	}
	return quote, nil
}

// FetchHistory fetches daily OHLCV candles over the configured lookback
// window, ending today.
func (a *Aggregator) FetchHistory(ctx context.Context, ticker string) ([]models.OHLCV, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -a.opts.HistoryDays)
	return a.FetchHistoryRange(ctx, ticker, from, to)
}

// FetchHistoryRange fetches daily OHLCV candles for an explicit date range.
func (a *Aggregator) FetchHistoryRange(ctx context.Context, ticker string, from, to time.Time) ([]models.OHLCV, error) {
	symbol := utils.NormalizeTicker(ticker)

	params := a.preferredParams(provider.ModelEquityHistorical, provider.QueryParams{
		provider.ParamSymbol:    symbol,
		provider.ParamStartDate: from.Format("2006-01-02"),
		provider.ParamEndDate:   to.Format("2006-01-02"),
		provider.ParamInterval:  "1d",
	})
	result, err := a.registry.FetchWithFallback(ctx, provider.ModelEquityHistorical, params)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", symbol, err)
	}
	candles, ok := result.Data.([]models.OHLCV)
	if !ok {
		return nil, fmt.Errorf("history for %s: %w", symbol, ErrUnexpectedPayload)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("history for %s: no candles returned", symbol)
	}
	return candles, nil
}

// FetchChain fetches the option chain for a ticker. An empty expiry asks
// the provider for its nearest listed expiration; providers that require
// an explicit expiry are skipped by the registry fallback in that case.
func (a *Aggregator) FetchChain(ctx context.Context, ticker, expiry string) (*models.OptionChain, error) {
	symbol := utils.NormalizeTicker(ticker)

	qp := provider.QueryParams{
		provider.ParamSymbol: symbol,
	}
	if expiry != "" {
		qp[provider.ParamExpiry] = expiry
	}
	params := a.preferredParams(provider.ModelOptionsChains, qp)
	result, err := a.registry.FetchWithFallback(ctx, provider.ModelOptionsChains, params)
	if err != nil {
		return nil, fmt.Errorf("option chain for %s: %w", symbol, err)
	}
	chain, ok := result.Data.(*models.OptionChain)
	if !ok {
		return nil, fmt.Errorf("option chain for %s: %w", symbol, ErrUnexpectedPayload)
	}
	return chain, nil
}

// FetchNews returns recent news. With a ticker it tries provider feeds
// first and falls back to the market RSS feeds filtered by ticker
// mention; with an empty ticker it returns broad market news.
func (a *Aggregator) FetchNews(ctx context.Context, ticker string, limit int) ([]models.NewsArticle, error) {
	if ticker == "" {
		return a.news.GetMarketNews(ctx, limit)
	}
	symbol := utils.NormalizeTicker(ticker)

	params := a.preferredParams(provider.ModelCompanyNews, provider.QueryParams{
		provider.ParamSymbol: symbol,
		provider.ParamLimit:  fmt.Sprintf("%d", limit),
	})
	result, err := a.registry.FetchWithFallback(ctx, provider.ModelCompanyNews, params)
	if err == nil {
		if articles, ok := result.Data.([]models.NewsArticle); ok {
			CleanSummaries(articles)
			return articles, nil
		}
	}

	// Fall back to the market feeds filtered by ticker mention.
	return a.news.GetStockNews(ctx, symbol, limit)
}

// Snapshot gathers everything needed to analyze one ticker, fetching all
// sources concurrently. Quote and history failures abort the snapshot;
// chain, news, and rate failures degrade to entries in Warnings.
func (a *Aggregator) Snapshot(ctx context.Context, ticker, expiry string) (*Snapshot, error) {
	symbol := utils.NormalizeTicker(ticker)

	snap := &Snapshot{
		Ticker:    symbol,
		FetchedAt: time.Now(),
	}

	var mu sync.Mutex
	warn := func(format string, args ...any) {
		mu.Lock()
		snap.Warnings = append(snap.Warnings, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	// Pick the target maturity for the risk-free rate from the expiry,
	// when one was given and lies in the future.
	var rateYears float64
	if expiry != "" {
		if exp, err := time.Parse("2006-01-02", expiry); err == nil {
			rateYears = utils.YearsToExpiry(exp, time.Now())
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// 1. Quote (fatal on failure).
	g.Go(func() error {
		quote, err := a.FetchQuote(gctx, symbol)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Quote = quote
		mu.Unlock()
		return nil
	})

	// 2. Historical candles (fatal on failure).
	g.Go(func() error {
		candles, err := a.FetchHistory(gctx, symbol)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.History = candles
		mu.Unlock()
		return nil
	})

	// 3. Option chain.
	g.Go(func() error {
		chain, err := a.FetchChain(gctx, symbol, expiry)
		if err != nil {
			warn("option chain unavailable: %v", err)
			return nil
		}
		mu.Lock()
		snap.Chain = chain
		mu.Unlock()
		return nil
	})

	// 4. News.
	g.Go(func() error {
		articles, err := a.FetchNews(gctx, symbol, a.opts.NewsLimit)
		if err != nil {
			warn("news unavailable: %v", err)
			return nil
		}
		mu.Lock()
		snap.News = articles
		mu.Unlock()
		return nil
	})

	// 5. Risk-free rate.
	g.Go(func() error {
		rate, source, err := a.RiskFreeRate(gctx, rateYears)
		if err != nil {
			warn("risk-free rate unavailable: %v", err)
			return nil
		}
		mu.Lock()
		snap.RiskFreeRate = rate
		snap.RateSource = source
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("snapshot for %s: %w", symbol, err)
	}

	// Patch the chain spot from the live quote when the provider omitted it.
	if snap.Chain != nil && snap.Chain.SpotPrice == 0 && snap.Quote != nil {
		snap.Chain.SpotPrice = snap.Quote.LastPrice
	}

	return snap, nil
}
