package quandl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// ---------------------------------------------------------------------------
// EquityHistorical — EOD database, one dataset per ticker.
// URL: https://data.nasdaq.com/api/v3/datasets/EOD/{TICKER}.json
// ---------------------------------------------------------------------------

type equityHistoricalFetcher struct {
	provider.BaseFetcher
	prov *Provider
}

func newEquityHistoricalFetcher(p *Provider) *equityHistoricalFetcher {
	return &equityHistoricalFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelEquityHistorical,
			"Quandl EOD daily OHLCV history with adjusted closes",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamStartDate, provider.ParamEndDate, provider.ParamLimit},
			1*time.Hour, 5, time.Second,
		),
		prov: p,
	}
}

func (f *equityHistoricalFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := strings.ToUpper(params[provider.ParamSymbol])

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	q := url.Values{"order": {"asc"}}
	if v := params[provider.ParamStartDate]; v != "" {
		q.Set("start_date", v)
	}
	if v := params[provider.ParamEndDate]; v != "" {
		q.Set("end_date", v)
	}
	if v := params[provider.ParamLimit]; v != "" {
		q.Set("limit", v)
	}

	u := f.prov.datasetURL("EOD", symbol, q)

	var resp quandlDatasetResponse
	if err := f.prov.fetchQuandlJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("quandl equity history %s: %w", symbol, err)
	}

	candles := parseEODDataset(resp.Dataset)

	f.CacheSetTTL(cacheKey, candles, 1*time.Hour)
	return newResult(candles), nil
}

// parseEODDataset converts an EOD dataset into OHLCV bars. Columns are
// resolved by name; the adjusted close is carried when present.
func parseEODDataset(ds quandlDataset) []models.OHLCV {
	idx := ds.columnIndex()

	candles := make([]models.OHLCV, 0, len(ds.Data))
	for _, row := range ds.Data {
		date, err := time.Parse("2006-01-02", asString(ds.cell(row, idx, "Date")))
		if err != nil {
			continue
		}
		candles = append(candles, models.OHLCV{
			Timestamp: date,
			Open:      asFloat(ds.cell(row, idx, "Open")),
			High:      asFloat(ds.cell(row, idx, "High")),
			Low:       asFloat(ds.cell(row, idx, "Low")),
			Close:     asFloat(ds.cell(row, idx, "Close")),
			Volume:    int64(asFloat(ds.cell(row, idx, "Volume"))),
			AdjClose:  asFloat(ds.cell(row, idx, "Adj_Close")),
		})
	}
	return candles
}
