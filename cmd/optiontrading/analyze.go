package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/pricing"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/report"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// analyzeTimeout bounds the whole analysis run, fetches included.
const analyzeTimeout = 2 * time.Minute

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Run a full option study on a ticker",
	Long: `Fetch the market snapshot for a ticker, resolve the pricing inputs
(strike from the chain ATM, rate from Treasury/SOFR, sigma from chain IV
or realized volatility — each overridable), compute the Black-Scholes
value and render the expiration payoff.

By default the text report prints to the terminal. With --output (or a
non-text --format) the report is written under the configured reports
directory instead.

Examples:
  optiontrading analyze AAPL
  optiontrading analyze SPY --expiry 2026-12-18 --type put --strike 600
  optiontrading analyze TSLA --vol 0.55 --format pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := analysisRequestFromFlags(cmd, args[0])
		if err != nil {
			return err
		}

		formatStr, _ := cmd.Flags().GetString("format")
		rf, err := report.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		rcfg := report.DefaultReportConfig()
		rcfg.Format = rf
		if sections, _ := cmd.Flags().GetStringSlice("sections"); len(sections) > 0 {
			if rcfg.Sections, err = parseSections(sections); err != nil {
				return err
			}
		}
		if cfg.Report.ChartWidth > 0 {
			rcfg.ChartCfg.Width = cfg.Report.ChartWidth
		}
		if cfg.Report.ChartHeight > 0 {
			rcfg.ChartCfg.Height = cfg.Report.ChartHeight
		}

		applyProviderPreference(cmd)
		agg, err := newAggregator()
		if err != nil {
			return err
		}
		analyzer := newAnalyzer(agg)

		fmt.Printf("🔍 Analyzing %s", req.Ticker)
		if req.Expiry != "" {
			fmt.Printf(" (expiry %s)", req.Expiry)
		}
		fmt.Println(" ...")

		ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
		defer cancel()

		res, err := analyzer.Run(ctx, req)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Printf("   ⚠️  %s\n", w)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" && rf == report.FormatText {
			txt, err := report.GenerateText(res, rcfg)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(txt)
			return nil
		}

		if output == "" {
			output = filepath.Join(cfg.Report.OutputDir,
				fmt.Sprintf("%s_report.%s", strings.ToLower(res.Ticker), extFor(rf)))
		}
		written, err := report.WriteFile(res, rcfg, output)
		if err != nil {
			return err
		}
		fmt.Printf("📄 Report written to %s\n", written)
		if written != output {
			fmt.Println("   (no PDF engine installed; HTML fallback written instead)")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("expiry", "", "expiration date (YYYY-MM-DD, default: chain's nearest)")
	analyzeCmd.Flags().String("type", "", "option type: call (default) or put")
	analyzeCmd.Flags().Float64("strike", 0, "strike (default: chain ATM)")
	analyzeCmd.Flags().Float64("rate", 0, "risk-free rate, decimal (default: Treasury/SOFR)")
	analyzeCmd.Flags().Float64("vol", 0, "volatility, decimal (default: chain IV or realized)")
	analyzeCmd.Flags().Float64("span", 0, "payoff window half-width as a fraction of spot")
	analyzeCmd.Flags().Int("samples", 0, "payoff sample count")
	analyzeCmd.Flags().String("provider", "", "preferred data provider (quandl, yfinance, cboe)")
	analyzeCmd.Flags().String("format", "text", "report format: text, html or pdf")
	analyzeCmd.Flags().String("output", "", "write the report to this path")
	analyzeCmd.Flags().StringSlice("sections", nil,
		"report sections: summary,history,chain,pricing,payoff,news (default all)")
}

// analysisRequestFromFlags converts the CLI flags into an analysis
// request. Only flags the operator actually set become overrides; the
// rest stay nil so the analyzer resolves them from market data.
func analysisRequestFromFlags(cmd *cobra.Command, ticker string) (analysis.Request, error) {
	req := analysis.Request{Ticker: utils.NormalizeTicker(ticker)}

	if expiry, _ := cmd.Flags().GetString("expiry"); expiry != "" {
		exp, err := utils.ParseDate(expiry)
		if err != nil {
			return analysis.Request{}, fmt.Errorf("--expiry: %w", err)
		}
		if !exp.After(time.Now()) {
			return analysis.Request{}, fmt.Errorf("expiry %s is not in the future", expiry)
		}
		req.Expiry = expiry
	}
	if typeStr, _ := cmd.Flags().GetString("type"); typeStr != "" {
		typ, err := pricing.ParseOptionType(typeStr)
		if err != nil {
			return analysis.Request{}, err
		}
		req.Type = typ
	}
	if cmd.Flags().Changed("strike") {
		v, _ := cmd.Flags().GetFloat64("strike")
		req.Strike = &v
	}
	if cmd.Flags().Changed("rate") {
		v, _ := cmd.Flags().GetFloat64("rate")
		req.Rate = &v
	}
	if cmd.Flags().Changed("vol") {
		v, _ := cmd.Flags().GetFloat64("vol")
		req.Volatility = &v
	}
	if cmd.Flags().Changed("span") {
		v, _ := cmd.Flags().GetFloat64("span")
		req.SpanPct = &v
	}
	if cmd.Flags().Changed("samples") {
		v, _ := cmd.Flags().GetInt("samples")
		req.Samples = &v
	}
	return req, nil
}

// parseSections validates section names against the known set.
func parseSections(names []string) ([]report.ReportSection, error) {
	known := map[string]report.ReportSection{}
	for _, s := range report.AllSections() {
		known[string(s)] = s
	}
	var sections []report.ReportSection
	for _, n := range names {
		s, ok := known[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown report section %q", n)
		}
		sections = append(sections, s)
	}
	return sections, nil
}

// extFor maps a report format to its file extension.
func extFor(rf report.ReportFormat) string {
	switch rf {
	case report.FormatPDF:
		return "pdf"
	case report.FormatText:
		return "txt"
	default:
		return "html"
	}
}
