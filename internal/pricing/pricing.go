// Package pricing implements the closed-form Black-Scholes valuation of
// European options and the terminal payoff curve of a long position.
//
// Every function in this package is pure: no I/O, no logging, no clock.
// Temporal inputs arrive as an already-computed time to expiration in years
// (see utils.YearsToExpiry), so results are deterministic for identical
// inputs. Invalid parameters are reported as typed errors and never
// substituted with fallback values.
package pricing

import (
	"fmt"
	"math"
	"strings"
)

// OptionType identifies the option class.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType converts user input ("call", "c", "PUT", ...) to an
// OptionType.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	default:
		return "", fmt.Errorf("unknown option type %q (want call or put)", s)
	}
}

// Contract holds the parameters of a single European option contract.
// All rates are annualized decimals (0.015 = 1.5%).
type Contract struct {
	Type          OptionType `json:"type"`
	Spot          float64    `json:"spot"`            // current underlying price S
	Strike        float64    `json:"strike"`          // strike K
	Rate          float64    `json:"rate"`            // risk-free rate r
	Volatility    float64    `json:"volatility"`      // annualized volatility σ
	YearsToExpiry float64    `json:"years_to_expiry"` // time to expiration T, in years
}

// Validate checks that the contract parameters are inside the model's domain.
// S, K, σ and T must all be strictly positive and finite; σ = 0 and T = 0 are
// rejected because d1/d2 divide by σ·√T. An expired or same-day contract is an
// input error for the caller to resolve, not a value to clamp.
func (c Contract) Validate() error {
	if c.Type != Call && c.Type != Put {
		return &ErrInvalidContract{Field: "type", Reason: fmt.Sprintf("unknown option type %q", string(c.Type))}
	}
	checks := []struct {
		field string
		value float64
	}{
		{"spot", c.Spot},
		{"strike", c.Strike},
		{"volatility", c.Volatility},
		{"years_to_expiry", c.YearsToExpiry},
	}
	for _, ch := range checks {
		if math.IsNaN(ch.value) || math.IsInf(ch.value, 0) {
			return &ErrInvalidContract{Field: ch.field, Value: ch.value, Reason: "must be finite"}
		}
		if ch.value <= 0 {
			return &ErrInvalidContract{Field: ch.field, Value: ch.value, Reason: "must be > 0"}
		}
	}
	if math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) {
		return &ErrInvalidContract{Field: "rate", Value: c.Rate, Reason: "must be finite"}
	}
	return nil
}

// Greeks holds the first-order sensitivities of the theoretical price.
// Values are in natural model units: theta per year, vega per unit of
// volatility, rho per unit of rate.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// TheoreticalPrice is the model value of a contract together with its Greeks.
type TheoreticalPrice struct {
	Value  float64 `json:"value"`
	Greeks Greeks  `json:"greeks"`
}

// Price computes the Black-Scholes value of the contract:
//
//	d1 = (ln(S/K) + (r + σ²/2)·T) / (σ·√T)
//	d2 = d1 − σ·√T
//	call = S·Φ(d1) − K·e^(−rT)·Φ(d2)
//	put  = K·e^(−rT)·Φ(−d2) − S·Φ(−d1)
//
// Returns ErrInvalidContract for parameters outside the domain and
// ErrNumericOverflow when extreme inputs push intermediates outside the
// representable range.
func Price(c Contract) (*TheoreticalPrice, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	d1, d2 := dValues(c)
	if !isFinite(d1) || !isFinite(d2) {
		return nil, &ErrNumericOverflow{Stage: "d1"}
	}

	discount := math.Exp(-c.Rate * c.YearsToExpiry)
	if !isFinite(discount) {
		return nil, &ErrNumericOverflow{Stage: "discount"}
	}

	var value float64
	if c.Type == Call {
		value = c.Spot*normCDF(d1) - c.Strike*discount*normCDF(d2)
	} else {
		value = c.Strike*discount*normCDF(-d2) - c.Spot*normCDF(-d1)
	}
	if !isFinite(value) {
		return nil, &ErrNumericOverflow{Stage: "price"}
	}
	if value < 0 {
		// Deep OTM contracts can leave a tiny negative residue from CDF
		// cancellation; the model value itself is never below zero.
		value = 0
	}

	return &TheoreticalPrice{
		Value:  value,
		Greeks: greeks(c, d1, d2, discount),
	}, nil
}

// ComputeGreeks returns only the sensitivities of the contract, under the same
// domain rules as Price.
func ComputeGreeks(c Contract) (*Greeks, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	d1, d2 := dValues(c)
	if !isFinite(d1) || !isFinite(d2) {
		return nil, &ErrNumericOverflow{Stage: "d1"}
	}
	discount := math.Exp(-c.Rate * c.YearsToExpiry)
	if !isFinite(discount) {
		return nil, &ErrNumericOverflow{Stage: "discount"}
	}
	g := greeks(c, d1, d2, discount)
	return &g, nil
}

// --- helpers ---

// dValues computes the d1/d2 terms of the closed form. Callers must have
// validated the contract first.
func dValues(c Contract) (d1, d2 float64) {
	sqrtT := math.Sqrt(c.YearsToExpiry)
	d1 = (math.Log(c.Spot/c.Strike) + (c.Rate+0.5*c.Volatility*c.Volatility)*c.YearsToExpiry) /
		(c.Volatility * sqrtT)
	d2 = d1 - c.Volatility*sqrtT
	return d1, d2
}

func greeks(c Contract, d1, d2, discount float64) Greeks {
	sqrtT := math.Sqrt(c.YearsToExpiry)
	pdf := normPDF(d1)

	g := Greeks{
		Gamma: pdf / (c.Spot * c.Volatility * sqrtT),
		Vega:  c.Spot * pdf * sqrtT,
	}
	if c.Type == Call {
		g.Delta = normCDF(d1)
		g.Theta = -c.Spot*pdf*c.Volatility/(2*sqrtT) - c.Rate*c.Strike*discount*normCDF(d2)
		g.Rho = c.Strike * c.YearsToExpiry * discount * normCDF(d2)
	} else {
		g.Delta = normCDF(d1) - 1
		g.Theta = -c.Spot*pdf*c.Volatility/(2*sqrtT) + c.Rate*c.Strike*discount*normCDF(-d2)
		g.Rho = -c.Strike * c.YearsToExpiry * discount * normCDF(-d2)
	}
	return g
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
