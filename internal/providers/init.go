// Package providers initializes and registers all concrete data providers
// with the global provider registry.
package providers

import (
	"os"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/providers/cboe"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/providers/federalreserve"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/providers/quandl"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/providers/yfinance"
)

// RegisterAll creates and registers all available providers with the
// global registry, resolving the Quandl key from the environment.
func RegisterAll() error {
	return RegisterAllTo(provider.Global(), os.Getenv("QUANDL_API_KEY"))
}

// RegisterAllTo registers all available providers to the given registry.
// The keyless providers are always registered; Quandl only when quandlKey
// is non-empty. Registration order sets the per-model defaults: Quandl
// serves history and chains first when keyed, Yahoo covers quotes and
// news, CBOE backs up equity and options data, and the Federal Reserve
// provides the rate models.
func RegisterAllTo(reg *provider.Registry, quandlKey string) error {
	if quandlKey != "" {
		q := quandl.New()
		if err := q.Init(map[string]string{"api_key": quandlKey}); err != nil {
			return err
		}
		if err := reg.Register(q); err != nil {
			return err
		}
	}

	yf := yfinance.New()
	if err := yf.Init(nil); err != nil {
		return err
	}
	if err := reg.Register(yf); err != nil {
		return err
	}

	cb := cboe.New()
	if err := cb.Init(nil); err != nil {
		return err
	}
	if err := reg.Register(cb); err != nil {
		return err
	}

	fed := federalreserve.New()
	if err := fed.Init(nil); err != nil {
		return err
	}
	return reg.Register(fed)
}
