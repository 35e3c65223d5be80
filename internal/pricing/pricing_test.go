package pricing

import (
	"errors"
	"math"
	"testing"
)

// atmContract returns the reference at-the-money contract used across tests:
// S=100, K=100, T=1y, r=1.5%, σ=20%.
func atmContract(typ OptionType) Contract {
	return Contract{
		Type:          typ,
		Spot:          100,
		Strike:        100,
		Rate:          0.015,
		Volatility:    0.20,
		YearsToExpiry: 1,
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ── Price ──

func TestPriceReferenceCase(t *testing.T) {
	// Closed-form values for the ATM reference contract:
	// d1 = 0.175, d2 = -0.025, call = 8.6728, put = 7.1840.
	call, err := Price(atmContract(Call))
	if err != nil {
		t.Fatalf("Price(call) error: %v", err)
	}
	if !almostEqual(call.Value, 8.6728, 1e-3) {
		t.Errorf("call price = %v, want 8.6728", call.Value)
	}

	put, err := Price(atmContract(Put))
	if err != nil {
		t.Fatalf("Price(put) error: %v", err)
	}
	if !almostEqual(put.Value, 7.1840, 1e-3) {
		t.Errorf("put price = %v, want 7.1840", put.Value)
	}
}

func TestPricePutCallParity(t *testing.T) {
	cases := []Contract{
		atmContract(Call),
		{Type: Call, Spot: 120, Strike: 100, Rate: 0.03, Volatility: 0.25, YearsToExpiry: 0.5},
		{Type: Call, Spot: 80, Strike: 100, Rate: 0.0, Volatility: 0.4, YearsToExpiry: 2},
		{Type: Call, Spot: 55.5, Strike: 60, Rate: -0.01, Volatility: 0.15, YearsToExpiry: 0.25},
	}

	for _, c := range cases {
		call, err := Price(c)
		if err != nil {
			t.Fatalf("Price(call %+v) error: %v", c, err)
		}
		p := c
		p.Type = Put
		put, err := Price(p)
		if err != nil {
			t.Fatalf("Price(put %+v) error: %v", p, err)
		}

		lhs := call.Value - put.Value
		rhs := c.Spot - c.Strike*math.Exp(-c.Rate*c.YearsToExpiry)
		scale := math.Max(math.Abs(rhs), 1)
		if math.Abs(lhs-rhs) > 1e-6*scale {
			t.Errorf("parity violated for %+v: C-P=%v, S-Ke^-rT=%v", c, lhs, rhs)
		}
	}
}

func TestPriceATMConvergesToZeroNearExpiry(t *testing.T) {
	c := atmContract(Call)
	c.YearsToExpiry = 1e-6

	call, err := Price(c)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	if call.Value < 0 || call.Value > 0.05 {
		t.Errorf("ATM call with T→0⁺ = %v, want ≈ 0", call.Value)
	}

	c.Type = Put
	put, err := Price(c)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	if put.Value < 0 || put.Value > 0.05 {
		t.Errorf("ATM put with T→0⁺ = %v, want ≈ 0", put.Value)
	}
}

func TestPriceMonotonicity(t *testing.T) {
	// Call price non-decreasing in volatility.
	prev := -1.0
	for _, sigma := range []float64{0.05, 0.1, 0.2, 0.4, 0.8} {
		c := atmContract(Call)
		c.Volatility = sigma
		res, err := Price(c)
		if err != nil {
			t.Fatalf("Price(σ=%v) error: %v", sigma, err)
		}
		if res.Value < prev {
			t.Errorf("call price decreased as σ rose to %v: %v < %v", sigma, res.Value, prev)
		}
		prev = res.Value
	}

	// Call price non-decreasing in spot; put price non-increasing in spot.
	prevCall, prevPut := -1.0, math.MaxFloat64
	for _, spot := range []float64{60.0, 80, 100, 120, 140} {
		c := atmContract(Call)
		c.Spot = spot
		call, err := Price(c)
		if err != nil {
			t.Fatalf("Price(S=%v) error: %v", spot, err)
		}
		c.Type = Put
		put, err := Price(c)
		if err != nil {
			t.Fatalf("Price(S=%v) error: %v", spot, err)
		}
		if call.Value < prevCall {
			t.Errorf("call price decreased as S rose to %v", spot)
		}
		if put.Value > prevPut {
			t.Errorf("put price increased as S rose to %v", spot)
		}
		prevCall, prevPut = call.Value, put.Value
	}

	// Put price non-decreasing in strike.
	prev = -1.0
	for _, strike := range []float64{80.0, 90, 100, 110, 120} {
		c := atmContract(Put)
		c.Strike = strike
		res, err := Price(c)
		if err != nil {
			t.Fatalf("Price(K=%v) error: %v", strike, err)
		}
		if res.Value < prev {
			t.Errorf("put price decreased as K rose to %v", strike)
		}
		prev = res.Value
	}
}

func TestPriceRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Contract)
		field  string
	}{
		{"zero spot", func(c *Contract) { c.Spot = 0 }, "spot"},
		{"negative spot", func(c *Contract) { c.Spot = -10 }, "spot"},
		{"zero strike", func(c *Contract) { c.Strike = 0 }, "strike"},
		{"negative strike", func(c *Contract) { c.Strike = -5 }, "strike"},
		{"zero volatility", func(c *Contract) { c.Volatility = 0 }, "volatility"},
		{"negative volatility", func(c *Contract) { c.Volatility = -0.2 }, "volatility"},
		{"zero expiry", func(c *Contract) { c.YearsToExpiry = 0 }, "years_to_expiry"},
		{"negative expiry", func(c *Contract) { c.YearsToExpiry = -0.5 }, "years_to_expiry"},
		{"NaN spot", func(c *Contract) { c.Spot = math.NaN() }, "spot"},
		{"infinite strike", func(c *Contract) { c.Strike = math.Inf(1) }, "strike"},
		{"NaN rate", func(c *Contract) { c.Rate = math.NaN() }, "rate"},
		{"bad type", func(c *Contract) { c.Type = "straddle" }, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := atmContract(Call)
			tt.mutate(&c)

			res, err := Price(c)
			if err == nil {
				t.Fatalf("expected error, got price %v", res.Value)
			}
			var invalid *ErrInvalidContract
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidContract, got %T: %v", err, err)
			}
			if invalid.Field != tt.field {
				t.Errorf("offending field = %q, want %q", invalid.Field, tt.field)
			}
		})
	}
}

func TestPriceExpiredContractIsDomainErrorNotClamped(t *testing.T) {
	// An expired contract must surface as a typed error. A silently
	// substituted time value would produce a plausible-looking price here
	// (≈ 0.25 for T=0.01), which is exactly the failure mode to prevent.
	c := atmContract(Call)
	c.YearsToExpiry = 0

	res, err := Price(c)
	if err == nil {
		t.Fatalf("expected domain error for T=0, got price %v", res.Value)
	}
	var invalid *ErrInvalidContract
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidContract, got %T: %v", err, err)
	}
	if invalid.Field != "years_to_expiry" {
		t.Errorf("offending field = %q, want %q", invalid.Field, "years_to_expiry")
	}
}

func TestPriceNumericOverflow(t *testing.T) {
	// S/K far beyond float range: ln(S/K) = +Inf.
	c := atmContract(Call)
	c.Spot = 1e308
	c.Strike = 1e-308

	_, err := Price(c)
	var overflow *ErrNumericOverflow
	if !errors.As(err, &overflow) {
		t.Fatalf("expected ErrNumericOverflow, got %T: %v", err, err)
	}

	// Discount factor e^(-rT) overflows for extreme negative rates.
	c = atmContract(Call)
	c.Rate = -1e6

	_, err = Price(c)
	if !errors.As(err, &overflow) {
		t.Fatalf("expected ErrNumericOverflow for extreme rate, got %T: %v", err, err)
	}
}

func TestPriceDeterministic(t *testing.T) {
	c := atmContract(Call)
	first, err := Price(c)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Price(c)
		if err != nil {
			t.Fatalf("Price error: %v", err)
		}
		if again.Value != first.Value || again.Greeks != first.Greeks {
			t.Fatalf("Price not deterministic: %+v vs %+v", again, first)
		}
	}
}

// ── Greeks ──

func TestGreeksSanity(t *testing.T) {
	call, err := Price(atmContract(Call))
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	put, err := Price(atmContract(Put))
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}

	if call.Greeks.Delta <= 0 || call.Greeks.Delta >= 1 {
		t.Errorf("call delta = %v, want in (0,1)", call.Greeks.Delta)
	}
	if put.Greeks.Delta >= 0 || put.Greeks.Delta <= -1 {
		t.Errorf("put delta = %v, want in (-1,0)", put.Greeks.Delta)
	}
	if !almostEqual(call.Greeks.Delta-put.Greeks.Delta, 1, 1e-9) {
		t.Errorf("delta parity: call-put = %v, want 1", call.Greeks.Delta-put.Greeks.Delta)
	}
	if call.Greeks.Gamma <= 0 {
		t.Errorf("gamma = %v, want > 0", call.Greeks.Gamma)
	}
	if !almostEqual(call.Greeks.Gamma, put.Greeks.Gamma, 1e-9) {
		t.Error("call and put gamma should match")
	}
	if call.Greeks.Vega <= 0 {
		t.Errorf("vega = %v, want > 0", call.Greeks.Vega)
	}
	if call.Greeks.Theta >= 0 {
		t.Errorf("ATM call theta = %v, want < 0", call.Greeks.Theta)
	}
	if call.Greeks.Rho <= 0 || put.Greeks.Rho >= 0 {
		t.Errorf("rho signs: call %v (want >0), put %v (want <0)", call.Greeks.Rho, put.Greeks.Rho)
	}
}

func TestComputeGreeksMatchesPrice(t *testing.T) {
	c := atmContract(Put)
	res, err := Price(c)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	g, err := ComputeGreeks(c)
	if err != nil {
		t.Fatalf("ComputeGreeks error: %v", err)
	}
	if *g != res.Greeks {
		t.Errorf("ComputeGreeks = %+v, Price greeks = %+v", *g, res.Greeks)
	}
}

func TestGreeksAgainstFiniteDifference(t *testing.T) {
	c := atmContract(Call)
	base, err := Price(c)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}

	// Delta ≈ dV/dS by central difference.
	h := 0.01
	up, down := c, c
	up.Spot += h
	down.Spot -= h
	upRes, _ := Price(up)
	downRes, _ := Price(down)
	numDelta := (upRes.Value - downRes.Value) / (2 * h)
	if !almostEqual(base.Greeks.Delta, numDelta, 1e-4) {
		t.Errorf("delta = %v, finite difference = %v", base.Greeks.Delta, numDelta)
	}

	// Vega ≈ dV/dσ.
	hv := 1e-4
	up, down = c, c
	up.Volatility += hv
	down.Volatility -= hv
	upRes, _ = Price(up)
	downRes, _ = Price(down)
	numVega := (upRes.Value - downRes.Value) / (2 * hv)
	if !almostEqual(base.Greeks.Vega, numVega, 1e-3) {
		t.Errorf("vega = %v, finite difference = %v", base.Greeks.Vega, numVega)
	}
}

// ── Payoff curve ──

func TestCurveScenario(t *testing.T) {
	// Long call, K=100, premium 8.75, range [50,150] with 5 samples.
	c := atmContract(Call)
	points, err := Curve(c, 8.75, 50, 150, 5)
	if err != nil {
		t.Fatalf("Curve error: %v", err)
	}

	wantPrices := []float64{50, 75, 100, 125, 150}
	wantPnL := []float64{-8.75, -8.75, -8.75, 16.25, 41.25}
	if len(points) != 5 {
		t.Fatalf("points = %d, want 5", len(points))
	}
	for i, p := range points {
		if !almostEqual(p.UnderlyingPrice, wantPrices[i], 1e-9) {
			t.Errorf("point %d price = %v, want %v", i, p.UnderlyingPrice, wantPrices[i])
		}
		if !almostEqual(p.PnL, wantPnL[i], 1e-9) {
			t.Errorf("point %d PnL = %v, want %v", i, p.PnL, wantPnL[i])
		}
	}
}

func TestCurvePutScenario(t *testing.T) {
	c := atmContract(Put)
	points, err := Curve(c, 7.18, 50, 150, 5)
	if err != nil {
		t.Fatalf("Curve error: %v", err)
	}

	// Put pays K-S′ below the strike.
	if got, want := points[0].PnL, 50-7.18; !almostEqual(got, want, 1e-9) {
		t.Errorf("put PnL at S′=50 = %v, want %v", got, want)
	}
	if got, want := points[4].PnL, -7.18; !almostEqual(got, want, 1e-9) {
		t.Errorf("put PnL at S′=150 = %v, want %v", got, want)
	}
}

func TestCurveShapeGuarantees(t *testing.T) {
	c := atmContract(Call)

	for _, samples := range []int{2, 5, 100, 357} {
		points, err := Curve(c, 8.75, 50, 150, samples)
		if err != nil {
			t.Fatalf("Curve(samples=%d) error: %v", samples, err)
		}
		if len(points) != samples {
			t.Fatalf("len = %d, want exactly %d", len(points), samples)
		}
		if points[0].UnderlyingPrice != 50 {
			t.Errorf("first price = %v, want exactly 50", points[0].UnderlyingPrice)
		}
		if points[len(points)-1].UnderlyingPrice != 150 {
			t.Errorf("last price = %v, want exactly 150", points[len(points)-1].UnderlyingPrice)
		}
		for i := 1; i < len(points); i++ {
			if points[i].UnderlyingPrice <= points[i-1].UnderlyingPrice {
				t.Fatalf("prices not strictly ascending at index %d", i)
			}
		}
	}
}

func TestCurveValidation(t *testing.T) {
	c := atmContract(Call)

	tests := []struct {
		name    string
		premium float64
		low     float64
		high    float64
		samples int
		field   string
	}{
		{"one sample", 8.75, 50, 150, 1, "samples"},
		{"zero samples", 8.75, 50, 150, 0, "samples"},
		{"negative samples", 8.75, 50, 150, -3, "samples"},
		{"inverted range", 8.75, 150, 50, 5, "range"},
		{"empty range", 8.75, 100, 100, 5, "range"},
		{"NaN bound", 8.75, math.NaN(), 150, 5, "range"},
		{"negative premium", -1, 50, 150, 5, "premium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Curve(c, tt.premium, tt.low, tt.high, tt.samples)
			var invalid *ErrInvalidContract
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidContract, got %T: %v", err, err)
			}
			if invalid.Field != tt.field {
				t.Errorf("offending field = %q, want %q", invalid.Field, tt.field)
			}
		})
	}
}

func TestBreakeven(t *testing.T) {
	call := atmContract(Call)
	if got := Breakeven(call, 8.75); got != 108.75 {
		t.Errorf("call breakeven = %v, want 108.75", got)
	}
	put := atmContract(Put)
	if got := Breakeven(put, 7.25); got != 92.75 {
		t.Errorf("put breakeven = %v, want 92.75", got)
	}
}

// ── ParseOptionType ──

func TestParseOptionType(t *testing.T) {
	tests := []struct {
		input   string
		want    OptionType
		wantErr bool
	}{
		{"call", Call, false},
		{"CALL", Call, false},
		{"c", Call, false},
		{" put ", Put, false},
		{"P", Put, false},
		{"straddle", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOptionType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOptionType(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseOptionType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
