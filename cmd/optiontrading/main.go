// optiontrading — Black-Scholes option analyzer for US equities
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rejipmathew/OptiontradingQuandl/api"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/config"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/datasource"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/providers"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "optiontrading",
	Short: "Black-Scholes option analyzer for US equities",
	Long: `optiontrading — theoretical option pricing from live market data.

Fetches price history, option chains and reference rates for a ticker,
computes Black-Scholes theoretical values and Greeks for a chosen
contract, and renders the expiration payoff as tables, charts and
reports. Quandl (Nasdaq Data Link) is used when an API key is set;
keyless Yahoo Finance, CBOE and Federal Reserve sources otherwise.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(payoffCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// applyProviderPreference moves the provider named by --provider to the
// front of the preference order for this invocation.
func applyProviderPreference(cmd *cobra.Command) {
	name, _ := cmd.Flags().GetString("provider")
	if name == "" {
		return
	}
	order := []string{name}
	for _, p := range cfg.Data.Providers {
		if p != name {
			order = append(order, p)
		}
	}
	cfg.Data.Providers = order
}

// newAggregator builds a provider registry from the loaded config and
// wraps it in a datasource aggregator. Each CLI invocation gets a fresh
// registry so a key added to the environment takes effect immediately.
func newAggregator() (*datasource.Aggregator, error) {
	reg := provider.NewRegistry()
	if err := providers.RegisterAllTo(reg, cfg.Data.QuandlKey); err != nil {
		return nil, fmt.Errorf("registering providers: %w", err)
	}
	return datasource.NewAggregator(reg, datasource.Options{
		HistoryDays: cfg.Data.HistoryDays,
		NewsLimit:   cfg.Data.NewsLimit,
		Providers:   cfg.Data.Providers,
	}), nil
}

// newAnalyzer builds the analysis pipeline on top of an aggregator.
func newAnalyzer(agg *datasource.Aggregator) *analysis.Analyzer {
	return analysis.New(agg, analysis.Defaults{
		RiskFreeRate:  cfg.Pricing.RiskFreeRate,
		Volatility:    cfg.Pricing.Volatility,
		PayoffSpanPct: cfg.Pricing.PayoffSpanPct,
		PayoffSamples: cfg.Pricing.PayoffSamples,
	})
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("optiontrading %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Providers Command ---

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List registered data providers and their model coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := newAggregator()
		if err != nil {
			return err
		}
		reg := agg.Registry()

		fmt.Println("📡 Data Providers")
		for _, info := range reg.List() {
			key := ""
			for _, cred := range info.Credentials {
				if cred.Required {
					key = " (API key)"
					break
				}
			}
			fmt.Printf("  %-16s %s%s\n", info.Name, info.Description, key)
			for _, m := range info.Models {
				marker := " "
				if def, ok := reg.DefaultProvider(m); ok && def == info.Name {
					marker = "*"
				}
				fmt.Printf("    %s %s\n", marker, m)
			}
		}
		fmt.Println("\n  * default provider for the model")
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and web page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}

		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}
		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			srv.SetServeUI(false)
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting option analyzer API on http://%s\n", addr)
		fmt.Printf("   Web page:  http://%s/\n", addr)
		fmt.Printf("   REST API:  http://%s/api/v1\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	serveCmd.Flags().Bool("no-ui", false, "serve the API only, without the web page")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  optiontrading — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (ET):     %s\n", utils.FormatDateTime(utils.NowEastern()))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    Providers:     %v\n", cfg.Data.Providers)
		fmt.Printf("    History:       %d days\n", cfg.Data.HistoryDays)
		fmt.Printf("    Default rate:  %.2f%%\n", cfg.Pricing.RiskFreeRate*100)
		fmt.Printf("    Default vol:   %.0f%%\n", cfg.Pricing.Volatility*100)
		fmt.Printf("    Payoff window: ±%.0f%% / %d samples\n",
			cfg.Pricing.PayoffSpanPct*100, cfg.Pricing.PayoffSamples)
		fmt.Printf("    Reports:       %s\n", cfg.Report.OutputDir)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set (keyless sources will be used)"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-18s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
