package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis/derivatives"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis/history"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator — Orchestrates chart + template rendering
// ════════════════════════════════════════════════════════════════════

// ReportFormat specifies the output format.
type ReportFormat string

const (
	FormatHTML ReportFormat = "html"
	FormatPDF  ReportFormat = "pdf"
	FormatText ReportFormat = "text"
)

// ParseFormat converts user input to a ReportFormat.
func ParseFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want html, pdf or text)", s)
	}
}

// ReportSection identifies a section to include/exclude.
type ReportSection string

const (
	SectionSummary ReportSection = "summary"
	SectionHistory ReportSection = "history"
	SectionChain   ReportSection = "chain"
	SectionPricing ReportSection = "pricing"
	SectionPayoff  ReportSection = "payoff"
	SectionNews    ReportSection = "news"
)

// AllSections returns all report sections in display order.
func AllSections() []ReportSection {
	return []ReportSection{
		SectionSummary,
		SectionHistory,
		SectionChain,
		SectionPricing,
		SectionPayoff,
		SectionNews,
	}
}

// ReportConfig controls report generation behaviour.
type ReportConfig struct {
	Format   ReportFormat    // output format (default: HTML)
	Sections []ReportSection // sections to include (default: all)
	Title    string          // custom report title (optional)
	ChartCfg ChartConfig     // chart rendering config
}

// DefaultReportConfig returns sensible defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Format:   FormatHTML,
		Sections: AllSections(),
		ChartCfg: DefaultChartConfig(),
	}
}

// hasSection returns true if the section is included in the config.
func (rc ReportConfig) hasSection(s ReportSection) bool {
	if len(rc.Sections) == 0 {
		return true
	}
	for _, sec := range rc.Sections {
		if sec == s {
			return true
		}
	}
	return false
}

// ════════════════════════════════════════════════════════════════════
// Report Data — Flattened for template rendering
// ════════════════════════════════════════════════════════════════════

// ReportData is the template model passed to HTML templates. Values are
// preformatted strings so the template stays free of logic.
type ReportData struct {
	// Header
	Title       string
	Ticker      string
	CompanyName string
	Exchange    string
	GeneratedAt string // US Eastern

	// Summary
	LastPrice   string
	Change      string
	ChangePct   string
	ChangeClass string // CSS class: up, down
	DayLow      string
	DayHigh     string
	WeekLow52   string
	WeekHigh52  string
	Volume      string
	MarketCap   string
	RateLabel   string // resolved risk-free rate with its source
	Warnings    []string

	// History
	HistoryDays  int
	PeriodReturn string
	RealizedVol  string
	SMA20        string
	SMA50        string
	MaxDrawdown  string
	PriceChart   template.HTML

	// Chain
	ChainExpiry    string
	ATMStrike      string
	ATMIV          string
	IVSkew         string
	PCR            string
	PCRByVolume    string
	MaxPain        string
	CallOI         string
	PutOI          string
	Sentiment      string
	SentimentClass string // CSS class: up, down, neutral
	SupportLevels  string
	ResistLevels   string
	OIChart        template.HTML
	ChainRows      []ChainRow

	// Pricing
	OptionType    string
	Strike        string
	StrikeSource  string
	Expiry        string
	YearsToExpiry string
	Spot          string
	Rate          string
	RateSource    string
	Volatility    string
	VolSource     string
	TheoPrice     string
	MarketMid     string // chain midpoint for the same contract, if quoted
	Delta         string
	Gamma         string
	Theta         string
	Vega          string
	Rho           string

	// Payoff
	Premium     string
	Breakeven   string
	MaxLoss     string
	MaxProfit   string
	PayoffRange string
	PayoffChart template.HTML

	// News
	News []NewsRow

	// Section visibility flags
	ShowHistory bool
	ShowChain   bool
	ShowPricing bool
	ShowPayoff  bool
	ShowNews    bool
}

// ChainRow is one strike of the option chain in straddle layout:
// call columns on the left, put columns on the right.
type ChainRow struct {
	CallOI     string
	CallVolume string
	CallIV     string
	CallPrice  string
	Strike     string
	IsATM      bool
	PutPrice   string
	PutIV      string
	PutVolume  string
	PutOI      string
}

// NewsRow is a flattened article for template rendering.
type NewsRow struct {
	Title     string
	Source    string
	Published string
	URL       string
}

// ════════════════════════════════════════════════════════════════════
// Generate Report
// ════════════════════════════════════════════════════════════════════

// GenerateHTML renders the analysis into a standalone HTML report with
// embedded SVG charts.
func GenerateHTML(res *analysis.Result, cfg ReportConfig) (string, error) {
	if res == nil {
		return "", fmt.Errorf("analysis result is nil")
	}

	data := buildReportData(res, cfg)

	tmpl, err := template.New("report").Parse(ReportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// GenerateText renders the analysis as a plain-text report for the
// terminal.
func GenerateText(res *analysis.Result, cfg ReportConfig) (string, error) {
	if res == nil {
		return "", fmt.Errorf("analysis result is nil")
	}
	return renderTextReport(buildReportData(res, cfg)), nil
}

// WriteFile renders the report in the configured format and writes it
// to path, creating parent directories as needed. Returns the path
// actually written, which can differ for PDF when no converter is
// installed (the HTML fallback keeps the content available).
func WriteFile(res *analysis.Result, cfg ReportConfig, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating report directory: %w", err)
		}
	}

	switch cfg.Format {
	case FormatText:
		txt, err := GenerateText(res, cfg)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(txt), 0644); err != nil {
			return "", fmt.Errorf("writing report: %w", err)
		}
		return path, nil

	case FormatPDF:
		htmlContent, err := GenerateHTML(res, cfg)
		if err != nil {
			return "", err
		}
		return GeneratePDF(htmlContent, path, DefaultPDFConfig())

	default:
		htmlContent, err := GenerateHTML(res, cfg)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(htmlContent), 0644); err != nil {
			return "", fmt.Errorf("writing report: %w", err)
		}
		return path, nil
	}
}

// ════════════════════════════════════════════════════════════════════
// Internal — Build template data
// ════════════════════════════════════════════════════════════════════

func buildReportData(res *analysis.Result, cfg ReportConfig) ReportData {
	data := ReportData{
		Title:       cfg.Title,
		Ticker:      res.Ticker,
		GeneratedAt: utils.ToEastern(res.GeneratedAt).Format("02 Jan 2006, 03:04 PM ET"),
		Warnings:    res.Warnings,

		ShowHistory: cfg.hasSection(SectionHistory) && res.History.Days > 0,
		ShowChain:   cfg.hasSection(SectionChain) && res.Chain != nil,
		ShowPricing: cfg.hasSection(SectionPricing) && res.Pricing.Theoretical != nil,
		ShowPayoff:  cfg.hasSection(SectionPayoff) && len(res.Payoff.Points) > 0,
	}
	if data.Title == "" {
		data.Title = fmt.Sprintf("%s Option Analysis", res.Ticker)
	}

	snap := res.Snapshot
	if snap != nil && snap.Quote != nil {
		q := snap.Quote
		data.CompanyName = q.Name
		data.Exchange = q.Exchange
		data.LastPrice = utils.FormatUSD(q.LastPrice)
		data.Change = utils.FormatUSD(q.Change)
		data.ChangePct = utils.FormatPct(q.ChangePct)
		data.ChangeClass = "up"
		if q.Change < 0 {
			data.ChangeClass = "down"
		}
		data.DayLow = utils.FormatUSD(q.Low)
		data.DayHigh = utils.FormatUSD(q.High)
		data.WeekLow52 = utils.FormatUSD(q.WeekLow52)
		data.WeekHigh52 = utils.FormatUSD(q.WeekHigh52)
		data.Volume = utils.FormatVolume(q.Volume)
		if q.MarketCap > 0 {
			data.MarketCap = utils.FormatUSDCompact(q.MarketCap)
		}
	}
	if snap != nil && snap.RateSource != "" {
		data.RateLabel = fmt.Sprintf("%.2f%% (%s)", snap.RiskFreeRate*100, snap.RateSource)
	}

	if data.ShowHistory {
		h := res.History
		data.HistoryDays = h.Days
		data.PeriodReturn = utils.FormatPct(h.PeriodReturn * 100)
		data.RealizedVol = fmt.Sprintf("%.1f%%", h.RealizedVol*100)
		data.SMA20 = utils.FormatUSD(h.SMA20)
		data.SMA50 = utils.FormatUSD(h.SMA50)
		data.MaxDrawdown = fmt.Sprintf("%.1f%%", h.MaxDrawdown*100)

		chartCfg := cfg.ChartCfg
		chartCfg.Title = fmt.Sprintf("%s Price History (%d days)", res.Ticker, h.Days)
		data.PriceChart = template.HTML(PriceHistoryChart(snap.History, smaOverlays(snap.History), chartCfg))
	}

	if data.ShowChain {
		cs := res.Chain
		data.ChainExpiry = cs.ExpiryDate
		data.ATMStrike = utils.FormatUSD(cs.ATMStrike)
		data.ATMIV = fmt.Sprintf("%.1f%%", cs.ATMIV)
		data.IVSkew = fmt.Sprintf("%+.1f%%", cs.IVSkew)
		data.PCR = fmt.Sprintf("%.2f", cs.PCR)
		data.PCRByVolume = fmt.Sprintf("%.2f", cs.PCRByVolume)
		data.MaxPain = utils.FormatUSD(cs.MaxPain)
		data.CallOI = utils.FormatVolume(cs.Calls.OI)
		data.PutOI = utils.FormatVolume(cs.Puts.OI)
		data.Sentiment = cs.Sentiment
		data.SentimentClass = sentimentClass(cs.Sentiment)
		data.SupportLevels = joinStrikes(cs.Levels.TopPutStrikes)
		data.ResistLevels = joinStrikes(cs.Levels.TopCallStrikes)

		chartCfg := cfg.ChartCfg
		chartCfg.Title = "Open Interest Profile"
		if items := oiProfileItems(snap.Chain, cs); len(items) > 0 {
			data.OIChart = template.HTML(HorizontalBarChart(items, chartCfg))
		}
		data.ChainRows = buildChainRows(snap.Chain, cs.ATMStrike, 5)
	}

	if data.ShowPricing {
		p := res.Pricing
		c := p.Contract
		data.OptionType = strings.ToUpper(string(c.Type))
		data.Strike = utils.FormatUSD(c.Strike)
		data.StrikeSource = p.StrikeSource
		data.Expiry = p.Expiry
		data.YearsToExpiry = fmt.Sprintf("%.4f", c.YearsToExpiry)
		data.Spot = utils.FormatUSD(c.Spot)
		data.Rate = fmt.Sprintf("%.2f%%", c.Rate*100)
		data.RateSource = p.RateSource
		data.Volatility = fmt.Sprintf("%.1f%%", c.Volatility*100)
		data.VolSource = p.VolSource
		data.TheoPrice = utils.FormatUSD(p.Theoretical.Value)
		if snap != nil {
			if mid := chainMid(snap.Chain, string(c.Type), c.Strike); mid > 0 {
				data.MarketMid = utils.FormatUSD(mid)
			}
		}

		g := p.Theoretical.Greeks
		data.Delta = fmt.Sprintf("%.4f", g.Delta)
		data.Gamma = fmt.Sprintf("%.4f", g.Gamma)
		data.Theta = fmt.Sprintf("%.4f", g.Theta)
		data.Vega = fmt.Sprintf("%.4f", g.Vega)
		data.Rho = fmt.Sprintf("%.4f", g.Rho)
	}

	if data.ShowPayoff {
		p := res.Payoff
		data.Premium = utils.FormatUSD(p.Premium)
		data.Breakeven = utils.FormatUSD(p.Breakeven)
		data.MaxLoss = utils.FormatUSD(p.MaxLoss)
		if p.Unbounded {
			data.MaxProfit = "Unlimited"
		} else {
			data.MaxProfit = utils.FormatUSD(p.MaxProfit)
		}
		data.PayoffRange = fmt.Sprintf("%s to %s", utils.FormatUSD(p.Low), utils.FormatUSD(p.High))

		chartCfg := cfg.ChartCfg
		chartCfg.Title = fmt.Sprintf("Long %s %s, expiry %s", data.OptionType, data.Strike, res.Pricing.Expiry)
		markers := PayoffMarkers{
			Strike:    res.Pricing.Contract.Strike,
			Breakeven: p.Breakeven,
			Spot:      res.Pricing.Contract.Spot,
		}
		data.PayoffChart = template.HTML(OptionPayoffChart(p.Points, markers, chartCfg))
	}

	if cfg.hasSection(SectionNews) && snap != nil && len(snap.News) > 0 {
		data.ShowNews = true
		for _, a := range snap.News {
			row := NewsRow{Title: a.Title, Source: a.Source, URL: a.URL}
			if !a.PublishedAt.IsZero() {
				row.Published = utils.ToEastern(a.PublishedAt).Format("02 Jan 15:04")
			}
			data.News = append(data.News, row)
		}
	}

	return data
}

// smaOverlays builds the SMA 20/50 chart overlays when the series is
// long enough to compute them.
func smaOverlays(bars []models.OHLCV) map[string][]float64 {
	closes := history.Closes(bars)
	overlays := make(map[string][]float64)
	if v := history.SMA(closes, 20); v != nil {
		overlays["SMA 20"] = v
	}
	if v := history.SMA(closes, 50); v != nil {
		overlays["SMA 50"] = v
	}
	if len(overlays) == 0 {
		return nil
	}
	return overlays
}

// oiProfileItems builds open-interest bars for the top call and put
// strikes: resistance above, support below.
func oiProfileItems(chain *models.OptionChain, cs *derivatives.ChainSummary) []BarItem {
	if chain == nil || cs == nil {
		return nil
	}

	callOI := map[float64]int64{}
	putOI := map[float64]int64{}
	for _, c := range chain.Contracts {
		if c.IsCall() {
			callOI[c.StrikePrice] += c.OI
		} else {
			putOI[c.StrikePrice] += c.OI
		}
	}

	var items []BarItem
	for _, s := range cs.Levels.TopCallStrikes {
		items = append(items, BarItem{
			Label: fmt.Sprintf("%.0f C", s),
			Value: float64(callOI[s]),
			Color: "#26a69a",
		})
	}
	for _, s := range cs.Levels.TopPutStrikes {
		items = append(items, BarItem{
			Label: fmt.Sprintf("%.0f P", s),
			Value: float64(putOI[s]),
			Color: "#ef5350",
		})
	}
	return items
}

// buildChainRows lays the chain out one row per strike, calls left and
// puts right, windowed to `around` strikes on each side of the ATM.
func buildChainRows(chain *models.OptionChain, atm float64, around int) []ChainRow {
	if chain == nil || len(chain.Contracts) == 0 {
		return nil
	}

	type sides struct {
		call *models.OptionContract
		put  *models.OptionContract
	}
	byStrike := map[float64]*sides{}
	var strikes []float64
	for i := range chain.Contracts {
		c := &chain.Contracts[i]
		s, ok := byStrike[c.StrikePrice]
		if !ok {
			s = &sides{}
			byStrike[c.StrikePrice] = s
			strikes = append(strikes, c.StrikePrice)
		}
		if c.IsCall() {
			s.call = c
		} else {
			s.put = c
		}
	}
	sort.Float64s(strikes)

	// Window around the ATM strike.
	atmIdx := 0
	for i, s := range strikes {
		if s == atm {
			atmIdx = i
			break
		}
	}
	lo := atmIdx - around
	if lo < 0 {
		lo = 0
	}
	hi := atmIdx + around
	if hi > len(strikes)-1 {
		hi = len(strikes) - 1
	}

	rows := make([]ChainRow, 0, hi-lo+1)
	for _, s := range strikes[lo : hi+1] {
		row := ChainRow{
			Strike: fmt.Sprintf("%.2f", s),
			IsATM:  s == atm,
		}
		if c := byStrike[s].call; c != nil {
			row.CallOI = utils.FormatVolume(c.OI)
			row.CallVolume = utils.FormatVolume(c.Volume)
			row.CallIV = fmt.Sprintf("%.1f%%", c.IV)
			row.CallPrice = utils.FormatUSD(c.LastPrice)
		}
		if p := byStrike[s].put; p != nil {
			row.PutOI = utils.FormatVolume(p.OI)
			row.PutVolume = utils.FormatVolume(p.Volume)
			row.PutIV = fmt.Sprintf("%.1f%%", p.IV)
			row.PutPrice = utils.FormatUSD(p.LastPrice)
		}
		rows = append(rows, row)
	}
	return rows
}

// chainMid returns the bid/ask midpoint of the contract matching the
// priced type and strike, or 0 when the chain does not quote it.
func chainMid(chain *models.OptionChain, optionType string, strike float64) float64 {
	if chain == nil {
		return 0
	}
	for _, c := range chain.Contracts {
		if c.OptionType == optionType && c.StrikePrice == strike {
			return c.Mid()
		}
	}
	return 0
}

func sentimentClass(s string) string {
	switch s {
	case "bullish":
		return "up"
	case "bearish":
		return "down"
	default:
		return "neutral"
	}
}

func joinStrikes(strikes []float64) string {
	parts := make([]string, len(strikes))
	for i, s := range strikes {
		parts[i] = fmt.Sprintf("%.0f", s)
	}
	return strings.Join(parts, ", ")
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

func renderTextReport(d ReportData) string {
	var sb strings.Builder
	line := strings.Repeat("═", 60)
	thinLine := strings.Repeat("─", 60)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", d.Title))
	sb.WriteString(fmt.Sprintf("  Generated: %s\n", d.GeneratedAt))
	sb.WriteString(line + "\n\n")

	// Market snapshot
	if d.CompanyName != "" {
		sb.WriteString(fmt.Sprintf("  %s (%s)", d.CompanyName, d.Ticker))
		if d.Exchange != "" {
			sb.WriteString(fmt.Sprintf(" | %s", d.Exchange))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("  %s\n", d.Ticker))
	}
	if d.LastPrice != "" {
		sb.WriteString(fmt.Sprintf("  Price: %s (%s, %s)\n", d.LastPrice, d.Change, d.ChangePct))
		sb.WriteString(fmt.Sprintf("  Day: %s - %s | 52W: %s - %s\n", d.DayLow, d.DayHigh, d.WeekLow52, d.WeekHigh52))
		sb.WriteString(fmt.Sprintf("  Volume: %s", d.Volume))
		if d.MarketCap != "" {
			sb.WriteString(fmt.Sprintf(" | Market Cap: %s", d.MarketCap))
		}
		sb.WriteString("\n")
	}
	if d.RateLabel != "" {
		sb.WriteString(fmt.Sprintf("  Risk-Free Rate: %s\n", d.RateLabel))
	}
	for _, w := range d.Warnings {
		sb.WriteString(fmt.Sprintf("  ! %s\n", w))
	}
	sb.WriteString(thinLine + "\n")

	if d.ShowHistory {
		sb.WriteString(fmt.Sprintf("\n  ■ PRICE HISTORY (%d days)\n", d.HistoryDays))
		sb.WriteString(fmt.Sprintf("    Period Return:  %s\n", d.PeriodReturn))
		sb.WriteString(fmt.Sprintf("    Realized Vol:   %s\n", d.RealizedVol))
		sb.WriteString(fmt.Sprintf("    SMA 20 / 50:    %s / %s\n", d.SMA20, d.SMA50))
		sb.WriteString(fmt.Sprintf("    Max Drawdown:   %s\n", d.MaxDrawdown))
		sb.WriteString(thinLine + "\n")
	}

	if d.ShowChain {
		sb.WriteString(fmt.Sprintf("\n  ■ OPTION CHAIN (expiry %s)\n", d.ChainExpiry))
		sb.WriteString(fmt.Sprintf("    ATM Strike: %s | ATM IV: %s | Skew: %s\n", d.ATMStrike, d.ATMIV, d.IVSkew))
		sb.WriteString(fmt.Sprintf("    PCR (OI): %s | PCR (Vol): %s | Max Pain: %s\n", d.PCR, d.PCRByVolume, d.MaxPain))
		sb.WriteString(fmt.Sprintf("    Call OI: %s | Put OI: %s | Sentiment: %s\n", d.CallOI, d.PutOI, d.Sentiment))
		if d.SupportLevels != "" {
			sb.WriteString(fmt.Sprintf("    Support (put OI): %s\n", d.SupportLevels))
		}
		if d.ResistLevels != "" {
			sb.WriteString(fmt.Sprintf("    Resistance (call OI): %s\n", d.ResistLevels))
		}
		sb.WriteString(thinLine + "\n")
	}

	if d.ShowPricing {
		sb.WriteString(fmt.Sprintf("\n  ■ THEORETICAL PRICING: %s %s exp %s\n", d.OptionType, d.Strike, d.Expiry))
		sb.WriteString(fmt.Sprintf("    Spot: %s | T: %s yr\n", d.Spot, d.YearsToExpiry))
		sb.WriteString(fmt.Sprintf("    Rate: %s (%s) | Vol: %s (%s)\n", d.Rate, d.RateSource, d.Volatility, d.VolSource))
		sb.WriteString(fmt.Sprintf("    Strike source: %s\n", d.StrikeSource))
		sb.WriteString(fmt.Sprintf("    Black-Scholes Value: %s", d.TheoPrice))
		if d.MarketMid != "" {
			sb.WriteString(fmt.Sprintf(" | Market Mid: %s", d.MarketMid))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Delta: %s | Gamma: %s | Theta: %s | Vega: %s | Rho: %s\n",
			d.Delta, d.Gamma, d.Theta, d.Vega, d.Rho))
		sb.WriteString(thinLine + "\n")
	}

	if d.ShowPayoff {
		sb.WriteString("\n  ■ PAYOFF AT EXPIRATION\n")
		sb.WriteString(fmt.Sprintf("    Premium: %s | Breakeven: %s\n", d.Premium, d.Breakeven))
		sb.WriteString(fmt.Sprintf("    Max Loss: %s | Max Profit: %s\n", d.MaxLoss, d.MaxProfit))
		sb.WriteString(fmt.Sprintf("    Price Window: %s\n", d.PayoffRange))
		sb.WriteString(thinLine + "\n")
	}

	if d.ShowNews {
		sb.WriteString("\n  ■ RECENT NEWS\n")
		limit := len(d.News)
		if limit > 5 {
			limit = 5
		}
		for _, n := range d.News[:limit] {
			sb.WriteString(fmt.Sprintf("    - %s (%s", n.Title, n.Source))
			if n.Published != "" {
				sb.WriteString(", " + n.Published)
			}
			sb.WriteString(")\n")
		}
		sb.WriteString(thinLine + "\n")
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString("  Model values are theoretical and for study only.\n")
	sb.WriteString("  Not investment advice.\n")
	sb.WriteString(line + "\n")

	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Utility: Timestamp
// ════════════════════════════════════════════════════════════════════

// ReportTimestamp returns the current US Eastern time formatted for
// report headers.
func ReportTimestamp() string {
	return utils.NowEastern().Format("02 Jan 2006, 03:04 PM ET")
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
