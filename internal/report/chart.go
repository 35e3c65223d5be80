// Package report renders an option study into SVG charts, an HTML
// report, a terminal text report and an optional PDF export.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator — Pure Go, Zero Dependencies
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 800)
	Height       int    // SVG height in pixels (default: 400)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 60)
	MarginBottom int    // bottom margin (default: 50)
	MarginLeft   int    // left margin (default: 70)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// ════════════════════════════════════════════════════════════════════
// Price History Chart
// ════════════════════════════════════════════════════════════════════

// PriceHistoryChart generates an SVG line chart of daily closes with
// optional overlay lines (SMA 20/50). Overlay slices must align with
// bars; zero entries (the SMA warm-up window) are skipped.
func PriceHistoryChart(bars []models.OHLCV, overlays map[string][]float64, cfg ChartConfig) string {
	if len(bars) == 0 {
		return emptySVG(cfg, "No price data available")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Price History"
	}

	px, py, pw, ph := cfg.plotArea()

	// Price range across closes and overlays.
	minPrice, maxPrice := bars[0].Close, bars[0].Close
	for _, b := range bars {
		if b.Close < minPrice {
			minPrice = b.Close
		}
		if b.Close > maxPrice {
			maxPrice = b.Close
		}
	}
	for _, values := range overlays {
		for _, v := range values {
			if v <= 0 || math.IsNaN(v) {
				continue
			}
			if v < minPrice {
				minPrice = v
			}
			if v > maxPrice {
				maxPrice = v
			}
		}
	}
	priceRange := maxPrice - minPrice
	if priceRange < 0.01 {
		priceRange = 1
	}
	minPrice -= priceRange * 0.05
	maxPrice += priceRange * 0.05
	priceRange = maxPrice - minPrice

	n := len(bars)
	xAt := func(i int) float64 {
		if n == 1 {
			return float64(px) + float64(pw)/2
		}
		return float64(px) + float64(i)*float64(pw)/float64(n-1)
	}
	priceToY := func(p float64) float64 {
		ratio := (p - minPrice) / priceRange
		return float64(py+ph) - ratio*float64(ph)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid lines and price labels.
	gridLines := 6
	for i := 0; i <= gridLines; i++ {
		price := minPrice + priceRange*float64(i)/float64(gridLines)
		y := priceToY(price)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, utils.FormatUSD(price)))
	}

	// Close line.
	var pathParts []string
	for i, b := range bars {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, xAt(i), priceToY(b.Close)))
	}
	sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="#2196f3" stroke-width="2"/>`,
		strings.Join(pathParts, " ")))

	// Overlay lines, sorted by name so colors are stable run to run.
	names := make([]string, 0, len(overlays))
	for name := range overlays {
		names = append(names, name)
	}
	sort.Strings(names)

	colors := []string{"#ff9800", "#9c27b0", "#4caf50", "#00bcd4"}
	legendY := py + 15
	for oi, name := range names {
		values := overlays[name]
		if len(values) != n {
			continue
		}
		color := colors[oi%len(colors)]

		var parts []string
		for i, v := range values {
			if v <= 0 || math.IsNaN(v) {
				continue
			}
			cmd := "L"
			if len(parts) == 0 {
				cmd = "M"
			}
			parts = append(parts, fmt.Sprintf("%s%.1f,%.1f", cmd, xAt(i), priceToY(v)))
		}
		if len(parts) > 1 {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="1.5" opacity="0.8"/>`,
				strings.Join(parts, " "), color))
			sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
				px+10, legendY, px+30, legendY, color))
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
				px+35, legendY+4, cfg.TextColor, escapeXML(name)))
			legendY += 16
		}
	}

	// X-axis date labels, rotated to fit.
	labelInterval := n / 6
	if labelInterval < 1 {
		labelInterval = 1
	}
	for i := 0; i < n; i += labelInterval {
		cx := xAt(i)
		label := bars[i].Timestamp.Format("02 Jan")
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(-45,%.1f,%d)">%s</text>`,
			cx, py+ph+15, cfg.FontSize-1, cfg.TextColor, cx, py+ph+15, label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Option Payoff Diagram
// ════════════════════════════════════════════════════════════════════

// PayoffMarkers are the reference prices drawn as vertical lines on a
// payoff chart. Zero values are omitted.
type PayoffMarkers struct {
	Strike    float64
	Breakeven float64
	Spot      float64
}

// OptionPayoffChart generates an SVG chart of P&L at expiration vs
// underlying price: the payoff line, a dashed zero line, and vertical
// markers at the strike, break-even and current spot.
func OptionPayoffChart(payoff []models.OptionPayoff, markers PayoffMarkers, cfg ChartConfig) string {
	if len(payoff) == 0 {
		return emptySVG(cfg, "No payoff data")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Payoff at Expiration"
	}

	px, py, pw, ph := cfg.plotArea()

	minPnL, maxPnL := payoff[0].PnL, payoff[0].PnL
	for _, p := range payoff {
		if p.PnL < minPnL {
			minPnL = p.PnL
		}
		if p.PnL > maxPnL {
			maxPnL = p.PnL
		}
	}
	vRange := maxPnL - minPnL
	if vRange < 0.001 {
		vRange = 1
	}
	minPnL -= vRange * 0.1
	maxPnL += vRange * 0.1
	vRange = maxPnL - minPnL

	minPrice := payoff[0].UnderlyingPrice
	maxPrice := payoff[len(payoff)-1].UnderlyingPrice
	pRange := maxPrice - minPrice
	if pRange < 0.001 {
		pRange = 1
	}

	priceToX := func(p float64) float64 {
		return float64(px) + ((p-minPrice)/pRange)*float64(pw)
	}
	pnlToY := func(v float64) float64 {
		return float64(py+ph) - ((v-minPnL)/vRange)*float64(ph)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Zero line.
	if minPnL < 0 && maxPnL > 0 {
		zeroY := pnlToY(0)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#999" stroke-width="1" stroke-dasharray="4,4"/>`,
			px, zeroY, px+pw, zeroY))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="#999" text-anchor="end">0</text>`,
			px-5, zeroY+4, cfg.FontSize))
	}

	// Vertical reference markers.
	marker := func(price float64, label, color string, labelRow int) {
		if price < minPrice || price > maxPrice {
			return
		}
		x := priceToX(price)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s" stroke-width="1" stroke-dasharray="5,3"/>`,
			x, py, x, py+ph, color))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="10" fill="%s" text-anchor="middle">%s</text>`,
			x, py+12+labelRow*12, color, escapeXML(label)))
	}
	if markers.Strike > 0 {
		marker(markers.Strike, fmt.Sprintf("K %.2f", markers.Strike), "#9c27b0", 0)
	}
	if markers.Breakeven > 0 {
		marker(markers.Breakeven, fmt.Sprintf("BE %.2f", markers.Breakeven), "#ff9800", 1)
	}
	if markers.Spot > 0 {
		marker(markers.Spot, fmt.Sprintf("S %.2f", markers.Spot), "#607d8b", 2)
	}

	// Payoff line.
	var pathParts []string
	for i, p := range payoff {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, priceToX(p.UnderlyingPrice), pnlToY(p.PnL)))
	}
	sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="#2196f3" stroke-width="2.5"/>`,
		strings.Join(pathParts, " ")))

	// Y-axis P&L labels.
	for i := 0; i <= 5; i++ {
		val := minPnL + vRange*float64(i)/5
		y := pnlToY(val)
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, utils.FormatUSD(val)))
	}

	// X-axis underlying price labels.
	for i := 0; i <= 5; i++ {
		val := minPrice + pRange*float64(i)/5
		x := px + int(float64(pw)*float64(i)/5)
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">%.0f</text>`,
			x, py+ph+18, cfg.FontSize, cfg.TextColor, val))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Bar Chart (Horizontal)
// ════════════════════════════════════════════════════════════════════

// BarItem represents a single bar in a horizontal bar chart.
type BarItem struct {
	Label string
	Value float64
	Color string // optional
}

// HorizontalBarChart generates an SVG horizontal bar chart. The report
// uses it for the open-interest profile across strikes.
func HorizontalBarChart(items []BarItem, cfg ChartConfig) string {
	if len(items) == 0 {
		return emptySVG(cfg, "No data")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	cfg.MarginLeft = 120 // wider for labels
	if cfg.Title == "" {
		cfg.Title = "Comparison"
	}

	px, py, pw, ph := cfg.plotArea()

	maxVal := 0.0
	minVal := 0.0
	for _, item := range items {
		if item.Value > maxVal {
			maxVal = item.Value
		}
		if item.Value < minVal {
			minVal = item.Value
		}
	}

	hasNegative := minVal < 0
	valRange := maxVal - minVal
	if valRange < 0.001 {
		valRange = 1
	}

	barH := float64(ph) / float64(len(items)) * 0.7
	if barH > 30 {
		barH = 30
	}
	gap := (float64(ph) - barH*float64(len(items))) / float64(len(items)+1)

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Zero line for mixed positive/negative
	zeroX := float64(px)
	if hasNegative {
		zeroX = float64(px) + (-minVal/valRange)*float64(pw)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#999" stroke-width="1"/>`,
			zeroX, py, zeroX, py+ph))
	}

	for i, item := range items {
		by := float64(py) + gap + float64(i)*(barH+gap)
		color := item.Color
		if color == "" {
			if item.Value >= 0 {
				color = "#4caf50"
			} else {
				color = "#ef5350"
			}
		}

		var bx, bw float64
		if hasNegative {
			if item.Value >= 0 {
				bx = zeroX
				bw = (item.Value / valRange) * float64(pw)
			} else {
				bw = (-item.Value / valRange) * float64(pw)
				bx = zeroX - bw
			}
		} else {
			bx = float64(px)
			bw = (item.Value / maxVal) * float64(pw)
		}

		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			bx, by, bw, barH, color))

		// Label
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, by+barH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(item.Label)))

		// Value
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%s</text>`,
			bx+bw+5, by+barH/2+4, cfg.FontSize, cfg.TextColor, barValueLabel(item.Value)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// barValueLabel compacts large magnitudes (open interest counts) and
// keeps one decimal otherwise.
func barValueLabel(v float64) string {
	if math.Abs(v) >= 1000 {
		return utils.FormatVolume(int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
