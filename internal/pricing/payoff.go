package pricing

import (
	"math"

	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// Curve generates the terminal profit/loss of a long position in the
// contract, net of the premium paid, across samples evenly spaced underlying
// prices in [low, high] with both endpoints included:
//
//	call: profit = max(S′ − K, 0) − premium
//	put:  profit = max(K − S′, 0) − premium
//
// The returned points are strictly ascending in underlying price and the
// slice length equals samples exactly. The typical range [0.5·S, 1.5·S] with
// 100 samples is caller policy, passed in rather than assumed here.
func Curve(c Contract, premium, low, high float64, samples int) ([]models.OptionPayoff, error) {
	if c.Type != Call && c.Type != Put {
		return nil, &ErrInvalidContract{Field: "type", Reason: "unknown option type"}
	}
	if math.IsNaN(c.Strike) || math.IsInf(c.Strike, 0) || c.Strike <= 0 {
		return nil, &ErrInvalidContract{Field: "strike", Value: c.Strike, Reason: "must be > 0"}
	}
	if math.IsNaN(premium) || math.IsInf(premium, 0) || premium < 0 {
		return nil, &ErrInvalidContract{Field: "premium", Value: premium, Reason: "must be >= 0"}
	}
	if math.IsNaN(low) || math.IsInf(low, 0) || math.IsNaN(high) || math.IsInf(high, 0) {
		return nil, &ErrInvalidContract{Field: "range", Reason: "bounds must be finite"}
	}
	if low >= high {
		return nil, &ErrInvalidContract{Field: "range", Value: low, Reason: "low must be < high"}
	}
	if samples < 2 {
		return nil, &ErrInvalidContract{Field: "samples", Value: float64(samples), Reason: "must be >= 2"}
	}

	step := (high - low) / float64(samples-1)
	points := make([]models.OptionPayoff, samples)
	for i := range points {
		s := low + step*float64(i)
		if i == samples-1 {
			s = high // pin the final sample to the exact upper bound
		}
		points[i] = models.OptionPayoff{
			UnderlyingPrice: s,
			PnL:             payoffAt(c.Type, c.Strike, s) - premium,
		}
	}
	return points, nil
}

// Breakeven returns the underlying price at which the position's terminal
// profit is zero: K + premium for a call, K − premium for a put.
func Breakeven(c Contract, premium float64) float64 {
	if c.Type == Call {
		return c.Strike + premium
	}
	return c.Strike - premium
}

// payoffAt is the intrinsic value of the option at expiration.
func payoffAt(t OptionType, strike, underlying float64) float64 {
	if t == Call {
		return math.Max(underlying-strike, 0)
	}
	return math.Max(strike-underlying, 0)
}
