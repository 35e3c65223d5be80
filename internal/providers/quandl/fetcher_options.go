package quandl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// ---------------------------------------------------------------------------
// OptionsChains — OPTIONMETRICS database, one table per ticker+expiry+side.
// URLs: https://data.nasdaq.com/api/v3/datasets/OPTIONMETRICS/{TICKER}_CALLS_{YYYYMMDD}.json
//       https://data.nasdaq.com/api/v3/datasets/OPTIONMETRICS/{TICKER}_PUTS_{YYYYMMDD}.json
// ---------------------------------------------------------------------------

type optionsChainsFetcher struct {
	provider.BaseFetcher
	prov *Provider
}

func newOptionsChainsFetcher(p *Provider) *optionsChainsFetcher {
	return &optionsChainsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelOptionsChains,
			"Quandl OPTIONMETRICS option chain for a ticker and expiry",
			// Expiry is part of the dataset code, so it is required here;
			// chains without an expiry come from the fallback providers.
			[]string{provider.ParamSymbol, provider.ParamExpiry},
			nil,
			15*time.Minute, 5, time.Second,
		),
		prov: p,
	}
}

func (f *optionsChainsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := strings.ToUpper(params[provider.ParamSymbol])
	expiry := params[provider.ParamExpiry]

	expDate, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return nil, fmt.Errorf("quandl options: expiry %q is not YYYY-MM-DD: %w", expiry, err)
	}

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	expCode := expDate.Format("20060102")

	var calls quandlDatasetResponse
	callsCode := fmt.Sprintf("%s_CALLS_%s", symbol, expCode)
	if err := f.prov.fetchQuandlJSON(ctx, f.prov.datasetURL("OPTIONMETRICS", callsCode, nil), &calls); err != nil {
		return nil, fmt.Errorf("quandl options %s %s: %w", symbol, expiry, err)
	}

	var puts quandlDatasetResponse
	putsCode := fmt.Sprintf("%s_PUTS_%s", symbol, expCode)
	if err := f.prov.fetchQuandlJSON(ctx, f.prov.datasetURL("OPTIONMETRICS", putsCode, nil), &puts); err != nil {
		return nil, fmt.Errorf("quandl options %s %s: %w", symbol, expiry, err)
	}

	chain := buildQuandlChain(symbol, expiry, calls.Dataset, puts.Dataset)

	f.CacheSetTTL(cacheKey, chain, 15*time.Minute)
	return newResult(chain), nil
}

// buildQuandlChain merges a calls table and a puts table for one expiry into
// the standard OptionChain model, sorted by strike within each side.
func buildQuandlChain(symbol, expiry string, calls, puts quandlDataset) *models.OptionChain {
	chain := &models.OptionChain{
		Ticker:     symbol,
		ExpiryDate: expiry,
		Expiries:   []string{expiry},
		FetchedAt:  time.Now(),
	}

	callContracts := parseChainDataset(calls, models.OptionTypeCall, expiry)
	putContracts := parseChainDataset(puts, models.OptionTypePut, expiry)
	chain.Contracts = append(callContracts, putContracts...)

	var totalCallOI, totalPutOI int64
	for _, c := range callContracts {
		totalCallOI += c.OI
	}
	for _, c := range putContracts {
		totalPutOI += c.OI
	}
	chain.TotalCallOI = totalCallOI
	chain.TotalPutOI = totalPutOI
	if totalCallOI > 0 {
		chain.PCR = float64(totalPutOI) / float64(totalCallOI)
	}
	return chain
}

// parseChainDataset converts one side's table into contracts. Rows without a
// positive strike are skipped; implied volatility is served as a decimal and
// stored as a percent.
func parseChainDataset(ds quandlDataset, optType, expiry string) []models.OptionContract {
	idx := ds.columnIndex()

	contracts := make([]models.OptionContract, 0, len(ds.Data))
	for _, row := range ds.Data {
		strike := asFloat(ds.cell(row, idx, "Strike"))
		if strike <= 0 {
			continue
		}
		contracts = append(contracts, models.OptionContract{
			StrikePrice: strike,
			OptionType:  optType,
			ExpiryDate:  expiry,
			LastPrice:   asFloat(ds.cell(row, idx, "Last")),
			BidPrice:    asFloat(ds.cell(row, idx, "Bid")),
			AskPrice:    asFloat(ds.cell(row, idx, "Ask")),
			Volume:      int64(asFloat(ds.cell(row, idx, "Volume"))),
			OI:          int64(asFloat(ds.cell(row, idx, "OpenInterest"))),
			IV:          asFloat(ds.cell(row, idx, "ImpliedVolatility")) * 100,
		})
	}

	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].StrikePrice < contracts[j].StrikePrice
	})
	return contracts
}
