package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis/derivatives"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis/history"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// fetchTimeout bounds every CLI market-data call.
const fetchTimeout = 30 * time.Second

// --- Quote Command ---

var quoteCmd = &cobra.Command{
	Use:   "quote [ticker]",
	Short: "Show the current delayed quote for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])

		applyProviderPreference(cmd)
		agg, err := newAggregator()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
		defer cancel()

		quote, err := agg.FetchQuote(ctx, ticker)
		if err != nil {
			return err
		}

		arrow := "▲"
		if quote.Change < 0 {
			arrow = "▼"
		}
		fmt.Printf("💹 %s", quote.Ticker)
		if quote.Name != "" {
			fmt.Printf(" — %s", quote.Name)
		}
		fmt.Println()
		fmt.Printf("   Last:       %s  %s %s (%s)\n",
			utils.FormatUSD(quote.LastPrice), arrow,
			utils.FormatUSD(quote.Change), utils.FormatPct(quote.ChangePct))
		fmt.Printf("   Day:        %s – %s (open %s)\n",
			utils.FormatUSD(quote.Low), utils.FormatUSD(quote.High), utils.FormatUSD(quote.Open))
		if quote.WeekLow52 > 0 {
			fmt.Printf("   52-week:    %s – %s\n",
				utils.FormatUSD(quote.WeekLow52), utils.FormatUSD(quote.WeekHigh52))
		}
		fmt.Printf("   Volume:     %s\n", utils.FormatVolume(quote.Volume))
		fmt.Printf("   As of:      %s\n", utils.FormatDateTime(utils.ToEastern(quote.Timestamp)))
		return nil
	},
}

func init() {
	quoteCmd.Flags().String("provider", "", "preferred data provider (quandl, yfinance, cboe)")
}

// --- History Command ---

var historyCmd = &cobra.Command{
	Use:   "history [ticker]",
	Short: "Show price history statistics for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])

		applyProviderPreference(cmd)
		agg, err := newAggregator()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
		defer cancel()

		var bars []models.OHLCV
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if from != "" || to != "" {
			fromDate, err := utils.ParseDate(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			toDate := time.Now()
			if to != "" {
				if toDate, err = utils.ParseDate(to); err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}
			bars, err = agg.FetchHistoryRange(ctx, ticker, fromDate, toDate)
			if err != nil {
				return err
			}
		} else {
			if bars, err = agg.FetchHistory(ctx, ticker); err != nil {
				return err
			}
		}

		stats := history.Compute(ticker, bars)
		fmt.Printf("📈 %s — %d trading days (%s to %s)\n", stats.Ticker, stats.Days,
			utils.FormatDate(stats.FirstDate), utils.FormatDate(stats.LastDate))
		fmt.Printf("   Last close:     %s\n", utils.FormatUSD(stats.LastClose))
		fmt.Printf("   Period return:  %s\n", utils.FormatPct(stats.PeriodReturn*100))
		fmt.Printf("   Realized vol:   %.1f%% annualized\n", stats.RealizedVol*100)
		fmt.Printf("   SMA 20 / 50:    %s / %s\n",
			utils.FormatUSD(stats.SMA20), utils.FormatUSD(stats.SMA50))
		fmt.Printf("   Max drawdown:   %.1f%%\n", stats.MaxDrawdown*100)
		fmt.Printf("   52-week range:  %s – %s\n",
			utils.FormatUSD(stats.WeekLow52), utils.FormatUSD(stats.WeekHigh52))

		if tail, _ := cmd.Flags().GetInt("tail"); tail > 0 {
			if tail > len(bars) {
				tail = len(bars)
			}
			fmt.Println()
			fmt.Println("   Date         Open      High      Low       Close     Volume")
			for _, b := range bars[len(bars)-tail:] {
				fmt.Printf("   %s   %8.2f  %8.2f  %8.2f  %8.2f  %s\n",
					utils.FormatDate(b.Timestamp), b.Open, b.High, b.Low, b.Close,
					utils.FormatVolume(b.Volume))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	historyCmd.Flags().String("to", "", "end date (YYYY-MM-DD, default today)")
	historyCmd.Flags().Int("tail", 0, "also print the last N candles")
	historyCmd.Flags().String("provider", "", "preferred data provider (quandl, yfinance, cboe)")
}

// --- Chain Command ---

var chainCmd = &cobra.Command{
	Use:   "chain [ticker]",
	Short: "Show the option chain summary for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		expiry, _ := cmd.Flags().GetString("expiry")
		if expiry != "" {
			if _, err := utils.ParseDate(expiry); err != nil {
				return fmt.Errorf("--expiry: %w", err)
			}
		}

		applyProviderPreference(cmd)
		agg, err := newAggregator()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
		defer cancel()

		chain, err := agg.FetchChain(ctx, ticker, expiry)
		if err != nil {
			return err
		}
		s := derivatives.Summarize(chain)

		fmt.Printf("🎯 %s option chain — expiry %s\n", chain.Ticker, chain.ExpiryDate)
		if chain.SpotPrice > 0 {
			fmt.Printf("   Spot:        %s\n", utils.FormatUSD(chain.SpotPrice))
		}
		fmt.Printf("   ATM strike:  %.2f", s.ATMStrike)
		if s.ATMIV > 0 {
			fmt.Printf("  (IV %.1f%%, skew %+.1f)", s.ATMIV, s.IVSkew)
		}
		fmt.Println()
		fmt.Printf("   Calls:       %d contracts, OI %s, volume %s\n",
			s.Calls.Contracts, utils.FormatVolume(s.Calls.OI), utils.FormatVolume(s.Calls.Volume))
		fmt.Printf("   Puts:        %d contracts, OI %s, volume %s\n",
			s.Puts.Contracts, utils.FormatVolume(s.Puts.OI), utils.FormatVolume(s.Puts.Volume))
		fmt.Printf("   PCR:         %.2f by OI, %.2f by volume → %s\n",
			s.PCR, s.PCRByVolume, s.Sentiment)
		fmt.Printf("   Max pain:    %.2f\n", s.MaxPain)
		fmt.Printf("   OI support / resistance:  %.2f / %.2f\n",
			s.Levels.MaxPutOIStrike, s.Levels.MaxCallOIStrike)

		if len(chain.Expiries) > 1 {
			fmt.Printf("   Expiries:    %d listed", len(chain.Expiries))
			if n := len(chain.Expiries); n > 0 {
				fmt.Printf(" (%s … %s)", chain.Expiries[0], chain.Expiries[n-1])
			}
			fmt.Println()
		}

		if strikes, _ := cmd.Flags().GetInt("strikes"); strikes > 0 {
			printStraddleTable(chain, s.ATMStrike, strikes)
		}
		return nil
	},
}

func init() {
	chainCmd.Flags().String("expiry", "", "expiration date (YYYY-MM-DD, default nearest)")
	chainCmd.Flags().Int("strikes", 5, "strikes to show on each side of ATM (0 hides the table)")
	chainCmd.Flags().String("provider", "", "preferred data provider (quandl, yfinance, cboe)")
}

// printStraddleTable prints calls and puts side by side around the ATM
// strike, the way chain screens lay them out.
func printStraddleTable(chain *models.OptionChain, atm float64, around int) {
	type row struct {
		strike    float64
		call, put *models.OptionContract
	}
	byStrike := map[float64]*row{}
	var strikes []float64
	for i := range chain.Contracts {
		c := &chain.Contracts[i]
		r, ok := byStrike[c.StrikePrice]
		if !ok {
			r = &row{strike: c.StrikePrice}
			byStrike[c.StrikePrice] = r
			strikes = append(strikes, c.StrikePrice)
		}
		if c.IsCall() {
			r.call = c
		} else {
			r.put = c
		}
	}
	// Insertion sort keeps this dependency-free for the small windows shown.
	for i := 1; i < len(strikes); i++ {
		for j := i; j > 0 && strikes[j] < strikes[j-1]; j-- {
			strikes[j], strikes[j-1] = strikes[j-1], strikes[j]
		}
	}

	atmIdx := 0
	for i, k := range strikes {
		if k >= atm {
			atmIdx = i
			break
		}
	}
	lo, hi := atmIdx-around, atmIdx+around+1
	if lo < 0 {
		lo = 0
	}
	if hi > len(strikes) {
		hi = len(strikes)
	}

	fmt.Println()
	fmt.Println("        ── CALLS ──                      ── PUTS ──")
	fmt.Println("      Bid     Ask      OI    Strike     Bid     Ask      OI")
	for _, k := range strikes[lo:hi] {
		r := byStrike[k]
		mark := " "
		if k == atm {
			mark = "*"
		}
		cb, ca, coi := "-", "-", "-"
		if r.call != nil {
			cb = fmt.Sprintf("%.2f", r.call.BidPrice)
			ca = fmt.Sprintf("%.2f", r.call.AskPrice)
			coi = utils.FormatVolume(r.call.OI)
		}
		pb, pa, poi := "-", "-", "-"
		if r.put != nil {
			pb = fmt.Sprintf("%.2f", r.put.BidPrice)
			pa = fmt.Sprintf("%.2f", r.put.AskPrice)
			poi = utils.FormatVolume(r.put.OI)
		}
		fmt.Printf("  %7s %7s %7s  %s%8.2f  %7s %7s %7s\n", cb, ca, coi, mark, k, pb, pa, poi)
	}
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [ticker]",
	Short: "Show recent news for a ticker, or market news with no ticker",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := ""
		if len(args) > 0 {
			ticker = utils.NormalizeTicker(args[0])
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.Data.NewsLimit
		}

		applyProviderPreference(cmd)
		agg, err := newAggregator()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
		defer cancel()

		articles, err := agg.FetchNews(ctx, ticker, limit)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("📰 No recent news found.")
			return nil
		}

		fmt.Printf("📰 %d headlines\n", len(articles))
		for _, a := range articles {
			fmt.Printf("  • %s\n", a.Title)
			fmt.Printf("    %s — %s\n", a.Source, a.PublishedAt.Format("02 Jan 2006 15:04"))
			if a.URL != "" {
				fmt.Printf("    %s\n", a.URL)
			}
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("limit", 0, "max headlines (default from config)")
	newsCmd.Flags().String("provider", "", "preferred data provider (quandl, yfinance, cboe)")
}

// --- Rates Command ---

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the resolved risk-free rate for a maturity",
	RunE: func(cmd *cobra.Command, args []string) error {
		years, _ := cmd.Flags().GetFloat64("years")
		if years <= 0 {
			return fmt.Errorf("--years must be positive")
		}

		agg, err := newAggregator()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
		defer cancel()

		rate, source, err := agg.RiskFreeRate(ctx, years)
		if err != nil {
			return err
		}
		fmt.Printf("🏦 Risk-free rate for a %.2f-year horizon\n", years)
		fmt.Printf("   Rate:    %.3f%%\n", rate*100)
		fmt.Printf("   Source:  %s\n", source)
		return nil
	},
}

func init() {
	ratesCmd.Flags().Float64("years", 1.0, "maturity horizon in years")
}
