package yfinance

import (
	"context"
	"fmt"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// --- OptionsChains fetcher ---

type optionsChainsFetcher struct {
	provider.BaseFetcher
}

func newOptionsChainsFetcher() *optionsChainsFetcher {
	return &optionsChainsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelOptionsChains,
			"Options chain data from Yahoo Finance",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamExpiry},
			5*time.Minute, 5, time.Second,
		),
	}
}

func (f *optionsChainsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	yfTicker := toYFTicker(symbol)

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://query1.finance.yahoo.com/v7/finance/options/%s", yfTicker)
	if expiry := params[provider.ParamExpiry]; expiry != "" {
		if t, err := time.Parse("2006-01-02", expiry); err == nil {
			url += fmt.Sprintf("?date=%d", t.Unix())
		}
	}

	var resp yfOptionsResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance options %s: %w", yfTicker, err)
	}
	if resp.OptionChain.Error != nil {
		return nil, fmt.Errorf("yfinance options error: %s", resp.OptionChain.Error.Description)
	}
	if len(resp.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("no options data for %s", symbol)
	}

	chain := buildChain(resp.OptionChain.Result[0])

	f.CacheSetTTL(cacheKey, chain, 5*time.Minute)
	return newResult(chain), nil
}

// buildChain converts a v7 options result to the standard OptionChain model.
func buildChain(r yfOptionsResult) *models.OptionChain {
	chain := &models.OptionChain{
		Ticker:    fromYFTicker(r.UnderlyingSymbol),
		SpotPrice: r.Quote.RegularMarketPrice,
		FetchedAt: time.Now(),
	}

	expiries := make([]string, 0, len(r.ExpirationDates))
	for _, ts := range r.ExpirationDates {
		expiries = append(expiries, time.Unix(ts, 0).UTC().Format("2006-01-02"))
	}
	chain.Expiries = expiries

	var totalCallOI, totalPutOI int64
	for _, opt := range r.Options {
		chain.ExpiryDate = time.Unix(opt.ExpirationDate, 0).UTC().Format("2006-01-02")
		for _, c := range opt.Calls {
			chain.Contracts = append(chain.Contracts, yfContractToModel(c, models.OptionTypeCall))
			totalCallOI += c.OpenInterest
		}
		for _, c := range opt.Puts {
			chain.Contracts = append(chain.Contracts, yfContractToModel(c, models.OptionTypePut))
			totalPutOI += c.OpenInterest
		}
	}
	chain.TotalCallOI = totalCallOI
	chain.TotalPutOI = totalPutOI
	if totalCallOI > 0 {
		chain.PCR = float64(totalPutOI) / float64(totalCallOI)
	}
	return chain
}

func yfContractToModel(c yfContract, optType string) models.OptionContract {
	return models.OptionContract{
		Symbol:      c.ContractSymbol,
		StrikePrice: c.Strike,
		OptionType:  optType,
		ExpiryDate:  time.Unix(c.Expiration, 0).UTC().Format("2006-01-02"),
		LastPrice:   c.LastPrice,
		Change:      c.Change,
		ChangePct:   c.PercentChange,
		Volume:      c.Volume,
		OI:          c.OpenInterest,
		BidPrice:    c.Bid,
		AskPrice:    c.Ask,
		IV:          c.ImpliedVolatility * 100,
	}
}
