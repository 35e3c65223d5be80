// Package derivatives derives summary statistics from an option chain:
// ATM strike, put-call ratios, max pain and open-interest levels. The
// summary feeds the chain table and defaults the strike selection.
package derivatives

import (
	"math"
	"sort"

	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// ChainSummary holds derived insights from an option chain.
type ChainSummary struct {
	Ticker      string     `json:"ticker"`
	ExpiryDate  string     `json:"expiry_date"`
	SpotPrice   float64    `json:"spot_price"`
	ATMStrike   float64    `json:"atm_strike"`
	ATMIV       float64    `json:"atm_iv"`  // average ATM IV, percent
	IVSkew      float64    `json:"iv_skew"` // ATM put IV minus call IV
	Calls       SideTotals `json:"calls"`
	Puts        SideTotals `json:"puts"`
	PCR         float64    `json:"pcr"` // by open interest
	PCRByVolume float64    `json:"pcr_by_volume"`
	MaxPain     float64    `json:"max_pain"`
	Levels      OILevels   `json:"oi_levels"`
	Sentiment   string     `json:"sentiment"` // "bullish", "bearish", "neutral"
}

// SideTotals aggregates one side of the chain.
type SideTotals struct {
	Contracts int   `json:"contracts"`
	OI        int64 `json:"oi"`
	Volume    int64 `json:"volume"`
}

// OILevels contains OI-based support and resistance levels.
type OILevels struct {
	MaxPutOIStrike  float64   `json:"max_put_oi_strike"`  // strongest support
	MaxCallOIStrike float64   `json:"max_call_oi_strike"` // strongest resistance
	TopPutStrikes   []float64 `json:"top_put_strikes"`    // top 3 support levels
	TopCallStrikes  []float64 `json:"top_call_strikes"`   // top 3 resistance levels
}

// Summarize computes the full summary for an option chain. Totals and
// ratios are recomputed from the contracts rather than trusted from the
// provider, so chains from any source summarize the same way.
func Summarize(oc *models.OptionChain) ChainSummary {
	if oc == nil || len(oc.Contracts) == 0 {
		return ChainSummary{}
	}

	s := ChainSummary{
		Ticker:     oc.Ticker,
		ExpiryDate: oc.ExpiryDate,
		SpotPrice:  oc.SpotPrice,
	}

	for _, c := range oc.Contracts {
		if c.IsCall() {
			s.Calls.Contracts++
			s.Calls.OI += c.OI
			s.Calls.Volume += c.Volume
		} else {
			s.Puts.Contracts++
			s.Puts.OI += c.OI
			s.Puts.Volume += c.Volume
		}
	}

	if s.Calls.OI > 0 {
		s.PCR = float64(s.Puts.OI) / float64(s.Calls.OI)
	}
	if s.Calls.Volume > 0 {
		s.PCRByVolume = float64(s.Puts.Volume) / float64(s.Calls.Volume)
	}

	// ATM strike (closest to spot) and the IV picture around it.
	s.ATMStrike = findATMStrike(oc.Contracts, oc.SpotPrice)

	var atmCallIV, atmPutIV float64
	for _, c := range oc.Contracts {
		if c.StrikePrice == s.ATMStrike {
			if c.IsCall() {
				atmCallIV = c.IV
			} else {
				atmPutIV = c.IV
			}
		}
	}
	if atmCallIV > 0 && atmPutIV > 0 {
		s.ATMIV = (atmCallIV + atmPutIV) / 2
		s.IVSkew = atmPutIV - atmCallIV
	} else if atmCallIV > 0 {
		s.ATMIV = atmCallIV
	} else if atmPutIV > 0 {
		s.ATMIV = atmPutIV
	}

	s.MaxPain = ComputeMaxPain(oc.Contracts)
	s.Levels = computeOILevels(oc.Contracts)

	// Sentiment from PCR.
	switch {
	case s.PCR > 1.2:
		s.Sentiment = "bullish" // high PCR → more puts sold → support below
	case s.PCR > 0 && s.PCR < 0.7:
		s.Sentiment = "bearish"
	default:
		s.Sentiment = "neutral"
	}

	return s
}

// ComputeMaxPain calculates the settlement price at which option buyers
// collectively lose the most, which is where writers want expiry pinned.
func ComputeMaxPain(contracts []models.OptionContract) float64 {
	if len(contracts) == 0 {
		return 0
	}

	// Collect unique strikes.
	strikeSet := map[float64]bool{}
	for _, c := range contracts {
		strikeSet[c.StrikePrice] = true
	}

	var strikes []float64
	for s := range strikeSet {
		strikes = append(strikes, s)
	}
	sort.Float64s(strikes)

	// Aggregate OI per strike and side.
	callOI := map[float64]int64{}
	putOI := map[float64]int64{}
	for _, c := range contracts {
		if c.IsCall() {
			callOI[c.StrikePrice] += c.OI
		} else {
			putOI[c.StrikePrice] += c.OI
		}
	}

	minPain := math.MaxFloat64
	maxPainStrike := 0.0

	for _, settle := range strikes {
		totalPain := 0.0

		// Calls ITM at every strike below the settlement price.
		for _, s := range strikes {
			if s < settle && callOI[s] > 0 {
				totalPain += (settle - s) * float64(callOI[s])
			}
		}

		// Puts ITM at every strike above it.
		for _, s := range strikes {
			if s > settle && putOI[s] > 0 {
				totalPain += (s - settle) * float64(putOI[s])
			}
		}

		if totalPain < minPain {
			minPain = totalPain
			maxPainStrike = settle
		}
	}

	return maxPainStrike
}

// --- helpers ---

func findATMStrike(contracts []models.OptionContract, spot float64) float64 {
	if len(contracts) == 0 || spot <= 0 {
		return 0
	}

	closest := contracts[0].StrikePrice
	minDiff := math.Abs(closest - spot)

	for _, c := range contracts {
		diff := math.Abs(c.StrikePrice - spot)
		if diff < minDiff {
			minDiff = diff
			closest = c.StrikePrice
		}
	}

	return closest
}

type oiEntry struct {
	strike float64
	oi     int64
}

func computeOILevels(contracts []models.OptionContract) OILevels {
	var callEntries, putEntries []oiEntry

	// Aggregate OI by strike and type.
	callMap := map[float64]int64{}
	putMap := map[float64]int64{}

	for _, c := range contracts {
		if c.IsCall() {
			callMap[c.StrikePrice] += c.OI
		} else {
			putMap[c.StrikePrice] += c.OI
		}
	}

	for s, oi := range callMap {
		if oi > 0 {
			callEntries = append(callEntries, oiEntry{s, oi})
		}
	}
	for s, oi := range putMap {
		if oi > 0 {
			putEntries = append(putEntries, oiEntry{s, oi})
		}
	}

	// Sort by OI descending, nearest strike first on ties.
	sort.Slice(callEntries, func(i, j int) bool {
		if callEntries[i].oi != callEntries[j].oi {
			return callEntries[i].oi > callEntries[j].oi
		}
		return callEntries[i].strike < callEntries[j].strike
	})
	sort.Slice(putEntries, func(i, j int) bool {
		if putEntries[i].oi != putEntries[j].oi {
			return putEntries[i].oi > putEntries[j].oi
		}
		return putEntries[i].strike < putEntries[j].strike
	})

	lv := OILevels{}

	if len(callEntries) > 0 {
		lv.MaxCallOIStrike = callEntries[0].strike
		for i := 0; i < 3 && i < len(callEntries); i++ {
			lv.TopCallStrikes = append(lv.TopCallStrikes, callEntries[i].strike)
		}
	}

	if len(putEntries) > 0 {
		lv.MaxPutOIStrike = putEntries[0].strike
		for i := 0; i < 3 && i < len(putEntries); i++ {
			lv.TopPutStrikes = append(lv.TopPutStrikes, putEntries[i].strike)
		}
	}

	return lv
}
