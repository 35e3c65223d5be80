// Package analysis orchestrates a full option study for one ticker: it
// pulls the market snapshot, derives history and chain statistics,
// resolves the pricing inputs the operator left blank, prices the
// contract and builds the expiration payoff curve. The result is the
// single composite consumed by the report generator, the HTTP API and
// the CLI.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis/derivatives"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis/history"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/datasource"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/pricing"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// Source supplies the market snapshot an analysis runs on. Satisfied by
// *datasource.Aggregator.
type Source interface {
	Snapshot(ctx context.Context, ticker, expiry string) (*datasource.Snapshot, error)
}

// Defaults are the fallback pricing inputs used when neither the
// operator nor the market data supplies a value. Rates and volatility
// are annualized decimals.
type Defaults struct {
	RiskFreeRate  float64
	Volatility    float64
	PayoffSpanPct float64 // payoff window half-width as a fraction of spot
	PayoffSamples int
}

// Fallback inputs when a Defaults field is left zero.
const (
	fallbackRate    = 0.015
	fallbackVol     = 0.20
	fallbackSpanPct = 0.50
	fallbackSamples = 100
)

// Event stages reported through Analyzer.OnEvent.
const (
	StageFetchStarted  = "fetch_started"
	StageFetchFinished = "fetch_finished"
	StagePriced        = "priced"
	StageCompleted     = "completed"
	StageFailed        = "failed"
)

// Event marks a stage of an analysis run. Events drive the progress
// stream on the API's websocket.
type Event struct {
	Stage  string    `json:"stage"`
	Ticker string    `json:"ticker"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// ErrExpiryRequired is returned when neither the request nor the option
// chain supplies an expiration date.
var ErrExpiryRequired = errors.New("expiry is required when no option chain is available")

// Request describes one analysis. Pointer fields are operator
// overrides: nil means "resolve from market data". Volatility and Rate
// are annualized decimals (0.20 = 20%).
type Request struct {
	Ticker     string             `json:"ticker"`
	Expiry     string             `json:"expiry,omitempty"` // YYYY-MM-DD; empty uses the chain's expiry
	Type       pricing.OptionType `json:"type,omitempty"`   // empty defaults to call
	Strike     *float64           `json:"strike,omitempty"`
	Rate       *float64           `json:"rate,omitempty"`
	Volatility *float64           `json:"volatility,omitempty"`
	SpanPct    *float64           `json:"span_pct,omitempty"`
	Samples    *int               `json:"samples,omitempty"`

	// AsOf is the evaluation date for time-to-expiry; zero means now.
	AsOf time.Time `json:"-"`
}

// PricingView is the priced contract plus the provenance of each
// resolved input, so the operator can see where a rate or sigma came
// from.
type PricingView struct {
	Contract     pricing.Contract          `json:"contract"`
	Theoretical  *pricing.TheoreticalPrice `json:"theoretical"`
	Expiry       string                    `json:"expiry"`
	StrikeSource string                    `json:"strike_source"` // "request", "chain atm", "spot"
	RateSource   string                    `json:"rate_source"`   // "request", a snapshot source, "default"
	VolSource    string                    `json:"vol_source"`    // "request", "chain atm iv", "realized", "default"
}

// PayoffView is the expiration payoff of the long position bought at
// the theoretical premium. MaxProfit is only meaningful when Unbounded
// is false.
type PayoffView struct {
	Premium   float64               `json:"premium"`
	Breakeven float64               `json:"breakeven"`
	MaxLoss   float64               `json:"max_loss"`
	MaxProfit float64               `json:"max_profit,omitempty"`
	Unbounded bool                  `json:"unbounded"` // long calls profit without limit
	Low       float64               `json:"low"`
	High      float64               `json:"high"`
	Points    []models.OptionPayoff `json:"points"`
}

// Result is the full output of one analysis run.
type Result struct {
	Ticker      string                    `json:"ticker"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Snapshot    *datasource.Snapshot      `json:"snapshot"`
	History     history.Stats             `json:"history"`
	Chain       *derivatives.ChainSummary `json:"chain,omitempty"`
	Pricing     PricingView               `json:"pricing"`
	Payoff      PayoffView                `json:"payoff"`
	Warnings    []string                  `json:"warnings,omitempty"`
}

// Analyzer runs option studies against a market data source.
type Analyzer struct {
	src      Source
	defaults Defaults

	// OnEvent, when set, receives progress events during Run. Called
	// synchronously from Run's goroutine.
	OnEvent func(Event)
}

// New creates an Analyzer. Zero fields in defaults fall back to the
// package constants.
func New(src Source, defaults Defaults) *Analyzer {
	if defaults.RiskFreeRate <= 0 {
		defaults.RiskFreeRate = fallbackRate
	}
	if defaults.Volatility <= 0 {
		defaults.Volatility = fallbackVol
	}
	if defaults.PayoffSpanPct <= 0 {
		defaults.PayoffSpanPct = fallbackSpanPct
	}
	if defaults.PayoffSamples < 2 {
		defaults.PayoffSamples = fallbackSamples
	}
	return &Analyzer{src: src, defaults: defaults}
}

// Run executes the full pipeline: snapshot, statistics, input
// resolution, pricing and payoff. Missing optional data (chain, news,
// rate) degrades to warnings; a missing quote or history fails the run.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Result, error) {
	ticker := strings.TrimSpace(req.Ticker)
	if ticker == "" {
		return nil, errors.New("ticker is required")
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	a.notify(StageFetchStarted, ticker, "")
	snap, err := a.src.Snapshot(ctx, ticker, req.Expiry)
	if err != nil {
		a.notify(StageFailed, ticker, err.Error())
		return nil, err
	}
	a.notify(StageFetchFinished, snap.Ticker, fmt.Sprintf("%d candles", len(snap.History)))

	res := &Result{
		Ticker:      snap.Ticker,
		GeneratedAt: asOf,
		Snapshot:    snap,
		History:     history.Compute(snap.Ticker, snap.History),
		Warnings:    append([]string(nil), snap.Warnings...),
	}
	if snap.Chain != nil && len(snap.Chain.Contracts) > 0 {
		cs := derivatives.Summarize(snap.Chain)
		res.Chain = &cs
	}

	if err := a.price(res, req, asOf); err != nil {
		a.notify(StageFailed, snap.Ticker, err.Error())
		return nil, err
	}
	a.notify(StagePriced, snap.Ticker, fmt.Sprintf("%s %.2f = %.4f",
		res.Pricing.Contract.Type, res.Pricing.Contract.Strike, res.Pricing.Theoretical.Value))

	if err := a.payoff(res, req); err != nil {
		a.notify(StageFailed, snap.Ticker, err.Error())
		return nil, err
	}

	a.notify(StageCompleted, snap.Ticker, "")
	return res, nil
}

// price resolves the contract inputs and computes the theoretical
// value. Resolution order is operator request, then market data, then
// the configured defaults; every choice is recorded as a source label.
func (a *Analyzer) price(res *Result, req Request, asOf time.Time) error {
	snap := res.Snapshot
	if snap.Quote == nil || snap.Quote.LastPrice <= 0 {
		return fmt.Errorf("no usable spot price for %s", res.Ticker)
	}
	spot := snap.Quote.LastPrice

	expiry := req.Expiry
	if expiry == "" && res.Chain != nil {
		expiry = res.Chain.ExpiryDate
	}
	if expiry == "" {
		return ErrExpiryRequired
	}
	expDate, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return fmt.Errorf("expiry %q: expected YYYY-MM-DD", expiry)
	}
	years := utils.YearsToExpiry(expDate, asOf)
	if years <= 0 {
		return fmt.Errorf("expiry %s is not after %s", expiry, asOf.Format("2006-01-02"))
	}

	typ := req.Type
	if typ == "" {
		typ = pricing.Call
	}

	var strike float64
	var strikeSource string
	switch {
	case req.Strike != nil:
		strike, strikeSource = *req.Strike, "request"
	case res.Chain != nil && res.Chain.ATMStrike > 0:
		strike, strikeSource = res.Chain.ATMStrike, "chain atm"
	default:
		strike, strikeSource = spot, "spot"
	}

	var rate float64
	var rateSource string
	switch {
	case req.Rate != nil:
		rate, rateSource = *req.Rate, "request"
	case snap.RateSource != "":
		rate, rateSource = snap.RiskFreeRate, snap.RateSource
	default:
		rate, rateSource = a.defaults.RiskFreeRate, "default"
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no risk-free rate source, assuming %.2f%%", rate*100))
	}

	var vol float64
	var volSource string
	switch {
	case req.Volatility != nil:
		vol, volSource = *req.Volatility, "request"
	case res.Chain != nil && res.Chain.ATMIV > 0:
		// Chain IVs are quoted in percent.
		vol, volSource = res.Chain.ATMIV/100, "chain atm iv"
	case res.History.RealizedVol > 0:
		vol, volSource = res.History.RealizedVol, "realized"
	default:
		vol, volSource = a.defaults.Volatility, "default"
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no volatility source, assuming %.0f%%", vol*100))
	}

	contract := pricing.Contract{
		Type:          typ,
		Spot:          spot,
		Strike:        strike,
		Rate:          rate,
		Volatility:    vol,
		YearsToExpiry: years,
	}
	theo, err := pricing.Price(contract)
	if err != nil {
		return err
	}

	res.Pricing = PricingView{
		Contract:     contract,
		Theoretical:  theo,
		Expiry:       expiry,
		StrikeSource: strikeSource,
		RateSource:   rateSource,
		VolSource:    volSource,
	}
	return nil
}

// payoff builds the expiration P&L curve over a price window centered
// on spot.
func (a *Analyzer) payoff(res *Result, req Request) error {
	c := res.Pricing.Contract
	premium := res.Pricing.Theoretical.Value

	span := a.defaults.PayoffSpanPct
	if req.SpanPct != nil && *req.SpanPct > 0 {
		span = *req.SpanPct
	}
	samples := a.defaults.PayoffSamples
	if req.Samples != nil && *req.Samples >= 2 {
		samples = *req.Samples
	}

	low := c.Spot * (1 - span)
	if low < 0 {
		low = 0
	}
	high := c.Spot * (1 + span)

	points, err := pricing.Curve(c, premium, low, high, samples)
	if err != nil {
		return err
	}

	pv := PayoffView{
		Premium:   premium,
		Breakeven: pricing.Breakeven(c, premium),
		MaxLoss:   premium,
		Low:       low,
		High:      high,
		Points:    points,
	}
	if c.Type == pricing.Call {
		pv.Unbounded = true
	} else {
		// A long put maxes out when the underlying goes to zero.
		pv.MaxProfit = c.Strike - premium
		if pv.MaxProfit < 0 {
			pv.MaxProfit = 0
		}
	}
	res.Payoff = pv
	return nil
}

func (a *Analyzer) notify(stage, ticker, detail string) {
	if a.OnEvent == nil {
		return
	}
	a.OnEvent(Event{Stage: stage, Ticker: ticker, Detail: detail, At: time.Now()})
}
