package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/pricing"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/report"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// --- Price Command ---

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Compute the Black-Scholes value of a contract",
	Long: `Compute the Black-Scholes theoretical value and Greeks for a
European option from explicit inputs. No market data is fetched; use
"analyze" to resolve inputs from live quotes and chains.

Examples:
  optiontrading price --type call --spot 100 --strike 100 --years 1 --rate 0.015 --vol 0.20
  optiontrading price --type put --spot 431.50 --strike 430 --expiry 2026-12-18`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := contractFromFlags(cmd)
		if err != nil {
			return err
		}

		theo, err := pricing.Price(c)
		if err != nil {
			return err
		}

		fmt.Printf("💰 %s  K=%.2f  T=%.4fy  r=%.3f%%  σ=%.1f%%\n",
			c.Type, c.Strike, c.YearsToExpiry, c.Rate*100, c.Volatility*100)
		fmt.Printf("   Theoretical value: %s\n", utils.FormatUSD(theo.Value))
		g := theo.Greeks
		fmt.Printf("   Delta: %+.4f   Gamma: %.4f\n", g.Delta, g.Gamma)
		fmt.Printf("   Theta: %+.4f/y  Vega: %.4f   Rho: %+.4f\n", g.Theta, g.Vega, g.Rho)
		return nil
	},
}

// --- Payoff Command ---

var payoffCmd = &cobra.Command{
	Use:   "payoff",
	Short: "Compute the expiration payoff curve of a long position",
	Long: `Compute the terminal profit/loss of a long position in the
contract, net of premium. When --premium is omitted the contract is
priced first and its theoretical value is used. With --svg the curve
is also written as a chart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := contractFromFlags(cmd)
		if err != nil {
			return err
		}

		premium, _ := cmd.Flags().GetFloat64("premium")
		if !cmd.Flags().Changed("premium") {
			theo, err := pricing.Price(c)
			if err != nil {
				return err
			}
			premium = theo.Value
		}

		low, _ := cmd.Flags().GetFloat64("low")
		high, _ := cmd.Flags().GetFloat64("high")
		if low == 0 && high == 0 {
			span := cfg.Pricing.PayoffSpanPct
			low = c.Spot * (1 - span)
			if low < 0 {
				low = 0
			}
			high = c.Spot * (1 + span)
		}
		samples, _ := cmd.Flags().GetInt("samples")
		if samples == 0 {
			samples = cfg.Pricing.PayoffSamples
		}

		points, err := pricing.Curve(c, premium, low, high, samples)
		if err != nil {
			return err
		}
		breakeven := pricing.Breakeven(c, premium)

		fmt.Printf("📉 Long %s  K=%.2f  premium %s\n", c.Type, c.Strike, utils.FormatUSD(premium))
		fmt.Printf("   Breakeven:  %s\n", utils.FormatUSD(breakeven))
		fmt.Printf("   Max loss:   %s (premium paid)\n", utils.FormatUSD(premium))
		fmt.Printf("   Window:     %s – %s, %d samples\n",
			utils.FormatUSD(low), utils.FormatUSD(high), len(points))

		// A compact table; the full resolution lives in the SVG.
		rows := 11
		if len(points) < rows {
			rows = len(points)
		}
		fmt.Println("\n   Underlying      P/L")
		for i := 0; i < rows; i++ {
			p := points[i*(len(points)-1)/(rows-1)]
			fmt.Printf("   %10.2f  %9.2f\n", p.UnderlyingPrice, p.PnL)
		}

		if svgPath, _ := cmd.Flags().GetString("svg"); svgPath != "" {
			markers := report.PayoffMarkers{Strike: c.Strike, Breakeven: breakeven, Spot: c.Spot}
			svg := report.OptionPayoffChart(points, markers, report.DefaultChartConfig())
			if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
				return fmt.Errorf("writing chart: %w", err)
			}
			fmt.Printf("\n   Chart written to %s\n", svgPath)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{priceCmd, payoffCmd} {
		c.Flags().String("type", "call", "option type: call or put")
		c.Flags().Float64("spot", 0, "underlying price S")
		c.Flags().Float64("strike", 0, "strike K")
		c.Flags().Float64("rate", 0, "annualized risk-free rate, decimal (default from config)")
		c.Flags().Float64("vol", 0, "annualized volatility, decimal (default from config)")
		c.Flags().Float64("years", 0, "time to expiration in years")
		c.Flags().String("expiry", "", "expiration date (YYYY-MM-DD, alternative to --years)")
	}
	payoffCmd.Flags().Float64("premium", 0, "premium paid (default: theoretical value)")
	payoffCmd.Flags().Float64("low", 0, "lower bound of the price window")
	payoffCmd.Flags().Float64("high", 0, "upper bound of the price window")
	payoffCmd.Flags().Int("samples", 0, "sample count (default from config)")
	payoffCmd.Flags().String("svg", "", "write the payoff chart to this SVG file")
}

// contractFromFlags builds the engine contract from the shared pricing
// flags. An expiry date is converted to years here; the engine itself
// never sees dates. Domain validation stays with the engine.
func contractFromFlags(cmd *cobra.Command) (pricing.Contract, error) {
	typeStr, _ := cmd.Flags().GetString("type")
	typ, err := pricing.ParseOptionType(typeStr)
	if err != nil {
		return pricing.Contract{}, err
	}

	years, _ := cmd.Flags().GetFloat64("years")
	if expiry, _ := cmd.Flags().GetString("expiry"); expiry != "" && years == 0 {
		exp, err := utils.ParseDate(expiry)
		if err != nil {
			return pricing.Contract{}, fmt.Errorf("--expiry: %w", err)
		}
		years = utils.YearsToExpiry(exp, time.Now())
		if years <= 0 {
			return pricing.Contract{}, fmt.Errorf("expiry %s is not in the future", expiry)
		}
	}

	rate, _ := cmd.Flags().GetFloat64("rate")
	if !cmd.Flags().Changed("rate") {
		rate = cfg.Pricing.RiskFreeRate
	}
	vol, _ := cmd.Flags().GetFloat64("vol")
	if !cmd.Flags().Changed("vol") {
		vol = cfg.Pricing.Volatility
	}

	spot, _ := cmd.Flags().GetFloat64("spot")
	strike, _ := cmd.Flags().GetFloat64("strike")

	return pricing.Contract{
		Type:          typ,
		Spot:          spot,
		Strike:        strike,
		Rate:          rate,
		Volatility:    vol,
		YearsToExpiry: years,
	}, nil
}
