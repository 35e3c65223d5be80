// Package history computes descriptive statistics over a daily candle
// series: realized volatility, moving averages, drawdown and the 52-week
// range. Everything here is pure; candles are expected in ascending
// date order, which is how the providers return them.
package history

import (
	"math"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// Stats summarizes a price history window.
type Stats struct {
	Ticker       string    `json:"ticker"`
	Days         int       `json:"days"` // candles in the series
	FirstDate    time.Time `json:"first_date"`
	LastDate     time.Time `json:"last_date"`
	LastClose    float64   `json:"last_close"`
	PeriodReturn float64   `json:"period_return"` // decimal over the series
	RealizedVol  float64   `json:"realized_vol"`  // annualized, decimal
	SMA20        float64   `json:"sma_20"`
	SMA50        float64   `json:"sma_50"`
	MaxDrawdown  float64   `json:"max_drawdown"` // positive decimal
	WeekHigh52   float64   `json:"week_high_52"`
	WeekLow52    float64   `json:"week_low_52"`
}

// Compute derives the full summary for a candle series. The realized
// volatility doubles as the suggested sigma for pricing when the
// operator does not supply one.
func Compute(ticker string, candles []models.OHLCV) Stats {
	s := Stats{Ticker: ticker, Days: len(candles)}
	if len(candles) == 0 {
		return s
	}

	first, last := candles[0], candles[len(candles)-1]
	s.FirstDate = first.Timestamp
	s.LastDate = last.Timestamp
	s.LastClose = last.Close
	if first.Close > 0 {
		s.PeriodReturn = last.Close/first.Close - 1
	}

	closes := Closes(candles)
	s.RealizedVol = RealizedVolatility(candles)
	s.SMA20 = SMALatest(closes, 20)
	s.SMA50 = SMALatest(closes, 50)
	s.MaxDrawdown = MaxDrawdown(candles)
	s.WeekHigh52, s.WeekLow52 = Range52Week(candles)

	return s
}

// RealizedVolatility computes annualized close-to-close volatility:
// the sample standard deviation of daily log returns scaled by √252.
// Candles with non-positive closes are skipped.
func RealizedVolatility(candles []models.OHLCV) float64 {
	var returns []float64
	prev := 0.0
	for _, c := range candles {
		if c.Close <= 0 {
			continue
		}
		if prev > 0 {
			returns = append(returns, math.Log(c.Close/prev))
		}
		prev = c.Close
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	sumSq := 0.0
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	daily := math.Sqrt(sumSq / float64(len(returns)-1))

	return daily * math.Sqrt(tradingDaysPerYear)
}

// MaxDrawdown returns the largest peak-to-trough decline of the close
// series as a positive decimal (0.25 means a 25% drawdown).
func MaxDrawdown(candles []models.OHLCV) float64 {
	peak := 0.0
	maxDD := 0.0
	for _, c := range candles {
		if c.Close > peak {
			peak = c.Close
		}
		if peak > 0 {
			dd := (peak - c.Close) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// Range52Week returns the high and low over the 365 days ending at the
// last candle. Highs and lows fall back to the close when a provider
// leaves them empty.
func Range52Week(candles []models.OHLCV) (high, low float64) {
	if len(candles) == 0 {
		return 0, 0
	}

	cutoff := candles[len(candles)-1].Timestamp.AddDate(0, 0, -365)
	for _, c := range candles {
		if c.Timestamp.Before(cutoff) {
			continue
		}
		h := c.High
		if h <= 0 {
			h = c.Close
		}
		l := c.Low
		if l <= 0 {
			l = c.Close
		}
		if h > high {
			high = h
		}
		if low == 0 || (l > 0 && l < low) {
			low = l
		}
	}
	return high, low
}

// SMA calculates the simple moving average for the given period. The
// result aligns with the input; entries before period-1 are zero. Used
// directly for chart overlays.
func SMA(data []float64, period int) []float64 {
	n := len(data)
	if n < period || period <= 0 {
		return nil
	}

	result := make([]float64, n)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	result[period-1] = sum / float64(period)

	for i := period; i < n; i++ {
		sum += data[i] - data[i-period]
		result[i] = sum / float64(period)
	}

	return result
}

// SMALatest returns the most recent SMA value, or 0 when the series is
// shorter than the period.
func SMALatest(data []float64, period int) float64 {
	vals := SMA(data, period)
	if len(vals) == 0 {
		return 0
	}
	return vals[len(vals)-1]
}

// Closes extracts the close series from candles.
func Closes(candles []models.OHLCV) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
