package federalreserve

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// H.15 maturity column labels in CSV column order (after the date column).
var h15Maturities = []string{
	"1M", "3M", "6M", "1Y", "2Y", "3Y", "5Y", "7Y", "10Y", "20Y", "30Y",
}

// ---------------------------------------------------------------------------
// TreasuryRates — H.15 Release daily constant-maturity rates.
// URL: Fed Board CSV download (H.15 series).
// ---------------------------------------------------------------------------

type treasuryRatesFetcher struct {
	provider.BaseFetcher
}

func newTreasuryRatesFetcher() *treasuryRatesFetcher {
	return &treasuryRatesFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelTreasuryRates,
			"Federal Reserve H.15 Treasury rates (all maturities)",
			nil,
			[]string{provider.ParamStartDate, provider.ParamEndDate},
		),
	}
}

func (f *treasuryRatesFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	cacheKey := provider.CacheKey(provider.ModelTreasuryRates, params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return cached.(*provider.FetchResult), nil
	}

	records, err := fetchH15Data(ctx)
	if err != nil {
		return nil, fmt.Errorf("treasury rates: %w", err)
	}

	rates := parseH15Records(records, params[provider.ParamStartDate], params[provider.ParamEndDate])

	result := newResult(rates)
	f.CacheSet(cacheKey, result)
	return result, nil
}

// fetchH15Data downloads the H.15 CSV and returns parsed records.
// Skips the first 5 header rows.
func fetchH15Data(ctx context.Context) ([][]string, error) {
	return fetchFedCSV(ctx, buildH15URL(), 5)
}

// parseH15Records converts raw H.15 CSV records into TreasuryRate entries,
// filtered to the [startDate, endDate] window when bounds are given. Rows
// whose maturity columns are all empty ("ND" days, column headers) are
// dropped; rates are normalized from percentages to decimals.
func parseH15Records(records [][]string, startDate, endDate string) []models.TreasuryRate {
	var rates []models.TreasuryRate
	for _, row := range records {
		if len(row) < len(h15Maturities)+1 {
			continue
		}
		date := strings.TrimSpace(row[0])
		if date == "" || date == "Series Description:" {
			continue
		}
		if startDate != "" && date < startDate {
			continue
		}
		if endDate != "" && date > endDate {
			continue
		}

		rateMap := make(map[string]float64)
		hasAny := false
		for i, mat := range h15Maturities {
			v := parseFloat64(row[i+1])
			if v != 0 {
				rateMap[mat] = v / 100 // normalize from percentage
				hasAny = true
			}
		}
		if !hasAny {
			continue
		}

		rates = append(rates, models.TreasuryRate{
			Date:  parseDate(date),
			Rates: rateMap,
		})
	}
	return rates
}
