package cboe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// ---------------------------------------------------------------------------
// EquityHistorical — OHLCV data from CBOE delayed charts.
// URL: https://cdn.cboe.com/api/global/delayed_quotes/charts/historical/{SYMBOL}.json
// ---------------------------------------------------------------------------

type equityHistoricalFetcher struct {
	provider.BaseFetcher
	prov *Provider
}

func newEquityHistoricalFetcher(p *Provider) *equityHistoricalFetcher {
	return &equityHistoricalFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelEquityHistorical,
			"CBOE equity historical OHLCV data (daily or intraday)",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamStartDate, provider.ParamEndDate, provider.ParamInterval},
		),
		prov: p,
	}
}

func (f *equityHistoricalFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(params[provider.ParamSymbol])
	if symbol == "" {
		return nil, fmt.Errorf("cboe: %s is required", provider.ParamSymbol)
	}

	cacheKey := provider.CacheKey(provider.ModelEquityHistorical, params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return cached.(*provider.FetchResult), nil
	}

	// Ensure index directory is loaded for symbol path resolution.
	_, _ = f.prov.getIndexDirectory(ctx)

	interval := params[provider.ParamInterval]
	if interval == "" {
		interval = "1d"
	}

	url := chartURL(f.prov.symbolPath(symbol), interval)

	raw, err := fetchCBOERaw(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("cboe equity historical: %w", err)
	}

	var bars []models.OHLCV
	if interval == "1m" {
		bars, err = parseIntradayChart(raw)
	} else {
		bars, err = parseDailyChart(raw, params)
	}
	if err != nil {
		return nil, err
	}

	result := newResult(bars)
	f.CacheSet(cacheKey, result)
	return result, nil
}

// parseDailyChart parses daily chart JSON into OHLCV slices.
func parseDailyChart(raw []byte, params provider.QueryParams) ([]models.OHLCV, error) {
	var resp struct {
		Symbol string `json:"symbol"`
		Data   []struct {
			Date        string  `json:"date"`
			Open        float64 `json:"open"`
			High        float64 `json:"high"`
			Low         float64 `json:"low"`
			Close       float64 `json:"close"`
			StockVolume int64   `json:"stock_volume"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("cboe: parse daily chart: %w", err)
	}

	startDate := params[provider.ParamStartDate]
	endDate := params[provider.ParamEndDate]

	var bars []models.OHLCV
	for _, d := range resp.Data {
		if startDate != "" && d.Date < startDate {
			continue
		}
		if endDate != "" && d.Date > endDate {
			continue
		}
		bars = append(bars, models.OHLCV{
			Timestamp: parseCBOEDate(d.Date),
			Open:      d.Open,
			High:      d.High,
			Low:       d.Low,
			Close:     d.Close,
			Volume:    d.StockVolume,
		})
	}
	return bars, nil
}

// parseIntradayChart parses intraday chart JSON into OHLCV slices.
func parseIntradayChart(raw []byte) ([]models.OHLCV, error) {
	var resp struct {
		Symbol string `json:"symbol"`
		Data   []struct {
			Datetime string `json:"datetime"`
			Price    struct {
				Open  float64 `json:"open"`
				High  float64 `json:"high"`
				Low   float64 `json:"low"`
				Close float64 `json:"close"`
			} `json:"price"`
			Volume struct {
				StockVolume int64 `json:"stock_volume"`
			} `json:"volume"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("cboe: parse intraday chart: %w", err)
	}

	var bars []models.OHLCV
	for _, d := range resp.Data {
		bars = append(bars, models.OHLCV{
			Timestamp: parseCBOETime(d.Datetime),
			Open:      d.Price.Open,
			High:      d.Price.High,
			Low:       d.Price.Low,
			Close:     d.Price.Close,
			Volume:    d.Volume.StockVolume,
		})
	}
	return bars, nil
}

// ---------------------------------------------------------------------------
// EquityQuote — Delayed quote from CBOE.
// URL: https://cdn.cboe.com/api/global/delayed_quotes/quotes/{SYMBOL}.json
// ---------------------------------------------------------------------------

type equityQuoteFetcher struct {
	provider.BaseFetcher
	prov *Provider
}

func newEquityQuoteFetcher(p *Provider) *equityQuoteFetcher {
	return &equityQuoteFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelEquityQuote,
			"CBOE delayed equity quote with IV metrics",
			[]string{provider.ParamSymbol},
			nil,
		),
		prov: p,
	}
}

func (f *equityQuoteFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(params[provider.ParamSymbol])
	if symbol == "" {
		return nil, fmt.Errorf("cboe: %s is required", provider.ParamSymbol)
	}

	cacheKey := provider.CacheKey(provider.ModelEquityQuote, params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return cached.(*provider.FetchResult), nil
	}

	_, _ = f.prov.getIndexDirectory(ctx)
	url := quotesURL(f.prov.symbolPath(symbol))

	var resp cboeQuoteResponse
	if err := fetchCBOEJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("cboe equity quote: %w", err)
	}

	quote := buildCBOEQuote(resp.Data)

	result := newResult(quote)
	f.CacheSet(cacheKey, result)
	return result, nil
}

// buildCBOEQuote maps a CBOE delayed quote payload to the standard Quote
// model. ChangePct stays in percent to match the other quote providers.
func buildCBOEQuote(q cboeQuoteData) *models.Quote {
	return &models.Quote{
		Ticker:     strings.ReplaceAll(q.Symbol, "^", ""),
		Exchange:   "CBOE",
		LastPrice:  q.CurrentPrice,
		Change:     q.PriceChange,
		ChangePct:  q.PriceChangePct,
		Open:       q.Open,
		High:       q.High,
		Low:        q.Low,
		PrevClose:  q.PrevDayClose,
		Volume:     q.Volume,
		WeekHigh52: q.AnnualHigh,
		WeekLow52:  q.AnnualLow,
		Timestamp:  parseCBOETime(q.LastTradeTime),
	}
}
