package cboe

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// ---------------------------------------------------------------------------
// OptionsChains — Full options chain from CBOE, with exchange-computed Greeks.
// URL: https://cdn.cboe.com/api/global/delayed_quotes/options/{SYMBOL}.json
// ---------------------------------------------------------------------------

type optionsChainsFetcher struct {
	provider.BaseFetcher
	prov *Provider
}

func newOptionsChainsFetcher(p *Provider) *optionsChainsFetcher {
	return &optionsChainsFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelOptionsChains,
			"CBOE delayed options chain with Greeks",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamExpiry},
		),
		prov: p,
	}
}

// optionSymbolRE parses CBOE option symbols like "AAPL240119C00150000".
// Format: TICKER + YYMMDD + C/P + STRIKE*1000 (8 digits, zero-padded).
var optionSymbolRE = regexp.MustCompile(`^([A-Z]+)(\d{6})([CP])(\d{8})$`)

func (f *optionsChainsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(params[provider.ParamSymbol])
	if symbol == "" {
		return nil, fmt.Errorf("cboe: %s is required", provider.ParamSymbol)
	}
	symbol = strings.ReplaceAll(symbol, "^", "")

	cacheKey := provider.CacheKey(provider.ModelOptionsChains, params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return cached.(*provider.FetchResult), nil
	}

	_, _ = f.prov.getIndexDirectory(ctx)
	url := optionsURL(f.prov.symbolPath(symbol))

	var resp cboeOptionsResponse
	if err := fetchCBOEJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("cboe options chains: %w", err)
	}

	chain := buildCBOEChain(symbol, resp.Data, params[provider.ParamExpiry])

	result := newResult(chain)
	f.CacheSet(cacheKey, result)
	return result, nil
}

// buildCBOEChain converts the CBOE options payload into the standard
// OptionChain model. Contract attributes (expiry, side, strike) are decoded
// from the OCC-style contract symbol. When expiryFilter is a non-empty
// YYYY-MM-DD date, only contracts expiring on that date are kept; the full
// expiry list still covers the whole chain.
func buildCBOEChain(symbol string, payload cboeOptionsPayload, expiryFilter string) *models.OptionChain {
	chain := &models.OptionChain{
		Ticker:    symbol,
		SpotPrice: payload.CurrentPrice,
		FetchedAt: time.Now(),
	}

	expirySet := make(map[string]bool)
	var totalCallOI, totalPutOI int64

	for _, opt := range payload.Options {
		parts := optionSymbolRE.FindStringSubmatch(opt.Option)
		if parts == nil {
			continue
		}
		// parts: [full, ticker, YYMMDD, C/P, strikeStr]
		expDate, err := time.Parse("060102", parts[2])
		if err != nil {
			continue
		}
		expiry := expDate.Format("2006-01-02")
		expirySet[expiry] = true

		if expiryFilter != "" && expiry != expiryFilter {
			continue
		}

		optType := models.OptionTypeCall
		if parts[3] == "P" {
			optType = models.OptionTypePut
		}
		strike, _ := strconv.ParseFloat(parts[4], 64)
		strike /= 1000 // CBOE encodes strike × 1000

		chain.Contracts = append(chain.Contracts, models.OptionContract{
			Symbol:      opt.Option,
			StrikePrice: strike,
			OptionType:  optType,
			ExpiryDate:  expiry,
			LastPrice:   opt.LastTradePrice,
			Change:      opt.Change,
			ChangePct:   opt.PctChange,
			Volume:      opt.Volume,
			OI:          opt.OpenInterest,
			BidPrice:    opt.Bid,
			AskPrice:    opt.Ask,
			BidQty:      opt.BidSize,
			AskQty:      opt.AskSize,
			IV:          opt.IV * 100, // CBOE serves decimals
			Delta:       opt.Delta,
			Gamma:       opt.Gamma,
			Theta:       opt.Theta,
			Vega:        opt.Vega,
			Rho:         opt.Rho,
		})

		if optType == models.OptionTypeCall {
			totalCallOI += opt.OpenInterest
		} else {
			totalPutOI += opt.OpenInterest
		}
	}

	expiries := make([]string, 0, len(expirySet))
	for exp := range expirySet {
		expiries = append(expiries, exp)
	}
	sort.Strings(expiries)
	chain.Expiries = expiries

	if expiryFilter != "" {
		chain.ExpiryDate = expiryFilter
	} else if len(expiries) > 0 {
		chain.ExpiryDate = expiries[0]
	}

	chain.TotalCallOI = totalCallOI
	chain.TotalPutOI = totalPutOI
	if totalCallOI > 0 {
		chain.PCR = float64(totalPutOI) / float64(totalCallOI)
	}
	return chain
}
