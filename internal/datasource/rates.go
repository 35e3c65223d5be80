package datasource

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// Treasury constant-maturity tenors, shortest first.
var tenorOrder = []string{"1M", "3M", "6M", "1Y", "2Y", "3Y", "5Y", "7Y", "10Y", "20Y", "30Y"}

// tenorYears maps each tenor to its length in years.
var tenorYears = map[string]float64{
	"1M":  1.0 / 12,
	"3M":  0.25,
	"6M":  0.5,
	"1Y":  1,
	"2Y":  2,
	"3Y":  3,
	"5Y":  5,
	"7Y":  7,
	"10Y": 10,
	"20Y": 20,
	"30Y": 30,
}

type cachedRate struct {
	rate   float64
	source string
}

// RiskFreeRate resolves an annualized risk-free rate (decimal) for a
// horizon of the given length in years, with a label describing where
// the rate came from. It reads the Treasury yield curve and picks the
// tenor nearest the horizon; when no curve source responds it falls
// back to the overnight reference rates (SOFR, then the effective
// federal funds rate). Horizons of zero or less default to three months.
func (a *Aggregator) RiskFreeRate(ctx context.Context, years float64) (float64, string, error) {
	if years <= 0 {
		years = 0.25
	}

	cacheKey := fmt.Sprintf("riskfree:%.4f", years)
	if cached, ok := a.cache.Get(cacheKey); ok {
		c := cached.(cachedRate)
		return c.rate, c.source, nil
	}

	if rate, source, err := a.treasuryRate(ctx, years); err == nil {
		a.cache.Set(cacheKey, cachedRate{rate, source})
		return rate, source, nil
	}

	for _, model := range []provider.ModelType{provider.ModelSOFR, provider.ModelFederalFundsRate} {
		rate, source, err := a.overnightRate(ctx, model)
		if err == nil {
			a.cache.Set(cacheKey, cachedRate{rate, source})
			return rate, source, nil
		}
	}

	return 0, "", errors.New("no risk-free rate source available")
}

// treasuryRate reads the latest Treasury curve and returns the yield of
// the tenor nearest the requested horizon.
func (a *Aggregator) treasuryRate(ctx context.Context, years float64) (float64, string, error) {
	params := a.preferredParams(provider.ModelTreasuryRates, provider.QueryParams{})
	result, err := a.registry.FetchWithFallback(ctx, provider.ModelTreasuryRates, params)
	if err != nil {
		return 0, "", err
	}
	curve, ok := result.Data.([]models.TreasuryRate)
	if !ok {
		return 0, "", ErrUnexpectedPayload
	}

	// Latest observation that actually carries yields. The upstream feed
	// ships empty maps on market holidays.
	var latest *models.TreasuryRate
	for i := range curve {
		if len(curve[i].Rates) == 0 {
			continue
		}
		if latest == nil || curve[i].Date.After(latest.Date) {
			latest = &curve[i]
		}
	}
	if latest == nil {
		return 0, "", errors.New("treasury curve empty")
	}

	tenor, rate, ok := nearestTenor(latest.Rates, years)
	if !ok {
		return 0, "", errors.New("no usable treasury tenor")
	}
	return rate, "treasury " + tenor, nil
}

// overnightRate returns the most recent observation of an overnight
// reference rate series.
func (a *Aggregator) overnightRate(ctx context.Context, model provider.ModelType) (float64, string, error) {
	params := a.preferredParams(model, provider.QueryParams{
		provider.ParamStartDate: time.Now().AddDate(0, 0, -14).Format("2006-01-02"),
	})
	result, err := a.registry.FetchWithFallback(ctx, model, params)
	if err != nil {
		return 0, "", err
	}
	obs, ok := result.Data.([]models.InterestRateData)
	if !ok {
		return 0, "", ErrUnexpectedPayload
	}

	var latest *models.InterestRateData
	for i := range obs {
		if latest == nil || obs[i].Date.After(latest.Date) {
			latest = &obs[i]
		}
	}
	if latest == nil {
		return 0, "", errors.New("no rate observations")
	}
	return latest.Rate, latest.RateType, nil
}

// nearestTenor picks the tenor whose length is closest to the requested
// horizon, skipping tenors the curve has no positive yield for. Ties go
// to the shorter tenor.
func nearestTenor(rates map[string]float64, years float64) (string, float64, bool) {
	bestTenor := ""
	bestRate := 0.0
	bestDist := math.MaxFloat64
	for _, tenor := range tenorOrder {
		rate, ok := rates[tenor]
		if !ok || rate <= 0 {
			continue
		}
		dist := math.Abs(tenorYears[tenor] - years)
		if dist < bestDist {
			bestTenor, bestRate, bestDist = tenor, rate, dist
		}
	}
	if bestTenor == "" {
		return "", 0, false
	}
	return bestTenor, bestRate, true
}
