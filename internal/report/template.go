package report

// ReportTemplate is the HTML template for the option analysis report.
// It is embedded as a Go constant — no external file dependencies.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --orange: #ea580c;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  h3 { font-size: 1rem; margin: 16px 0 8px; }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  /* Header */
  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent); }
  .header-right { text-align: right; }
  .ticker-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    font-size: 1.1rem;
    margin-right: 8px;
  }

  /* Quote bar */
  .quote-bar {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(140px, 1fr));
    gap: 8px;
    background: var(--section-bg);
    padding: 12px;
    border-radius: 8px;
    margin-bottom: 16px;
  }
  .quote-item { text-align: center; }
  .quote-item .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .quote-item .value { font-size: 1rem; font-weight: 600; }
  .up { color: var(--green); }
  .down { color: var(--red); }
  .neutral { color: var(--muted); }

  /* Warnings */
  .warnings {
    background: #fffbeb;
    border-left: 4px solid var(--orange);
    padding: 8px 12px;
    border-radius: 4px;
    margin: 10px 0;
    font-size: 0.85rem;
  }
  .warnings li { margin-left: 16px; }

  /* Metric grid */
  .trade-grid {
    display: grid;
    grid-template-columns: repeat(4, 1fr);
    gap: 10px;
    margin: 12px 0;
  }
  .trade-item {
    background: var(--section-bg);
    padding: 10px;
    border-radius: 6px;
    text-align: center;
  }
  .trade-item .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .trade-item .value { font-size: 1.05rem; font-weight: 600; }

  /* Theoretical price box */
  .theo-box {
    display: flex;
    align-items: baseline;
    gap: 16px;
    background: #eff6ff;
    border-left: 5px solid var(--accent);
    padding: 16px;
    border-radius: 8px;
    margin: 12px 0;
  }
  .theo-box .big { font-size: 1.6rem; font-weight: 700; color: var(--accent); }

  /* Sentiment badge */
  .sentiment-badge {
    display: inline-block;
    padding: 1px 10px;
    border-radius: 3px;
    font-size: 0.85rem;
    font-weight: 600;
    text-transform: capitalize;
  }
  .sentiment-badge.up { background: #dcfce7; color: var(--green); }
  .sentiment-badge.down { background: #fef2f2; color: var(--red); }
  .sentiment-badge.neutral { background: #f3f4f6; color: var(--muted); }

  /* Tables */
  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }

  /* Option chain (straddle layout) */
  .chain-table th, .chain-table td { text-align: right; }
  .chain-table th.strike, .chain-table td.strike {
    text-align: center;
    background: var(--section-bg);
    font-weight: 600;
  }
  .chain-table tr.atm td { background: #eff6ff; font-weight: 600; }

  /* Chart container */
  .chart-container {
    margin: 12px 0;
    overflow-x: auto;
  }
  .chart-container svg { max-width: 100%; height: auto; }

  /* Section */
  .section { margin: 20px 0; }

  /* News */
  .news-list { list-style: none; }
  .news-list li { padding: 6px 0; border-bottom: 1px solid var(--border); }
  .news-list a { color: var(--accent); text-decoration: none; }
  .news-list a:hover { text-decoration: underline; }

  /* Footer */
  .footer {
    margin-top: 30px;
    padding-top: 12px;
    border-top: 2px solid var(--border);
    font-size: 0.8rem;
    color: var(--muted);
    text-align: center;
  }

  @media print {
    body { max-width: 100%; padding: 10px; }
    .section { page-break-inside: avoid; }
  }
</style>
</head>
<body>

<!-- ═══════ HEADER ═══════ -->
<div class="header">
  <div class="header-left">
    <h1><span class="ticker-badge">{{.Ticker}}</span> {{.CompanyName}}</h1>
    {{if .Exchange}}<p class="muted">{{.Exchange}}</p>{{end}}
  </div>
  <div class="header-right">
    <p class="muted">{{.GeneratedAt}}</p>
  </div>
</div>

<!-- ═══════ QUOTE BAR ═══════ -->
{{if .LastPrice}}
<div class="quote-bar">
  <div class="quote-item">
    <div class="label">Last Price</div>
    <div class="value">{{.LastPrice}}</div>
  </div>
  <div class="quote-item">
    <div class="label">Change</div>
    <div class="value {{.ChangeClass}}">{{.Change}} ({{.ChangePct}})</div>
  </div>
  <div class="quote-item">
    <div class="label">Day Range</div>
    <div class="value">{{.DayLow}} to {{.DayHigh}}</div>
  </div>
  <div class="quote-item">
    <div class="label">52W Range</div>
    <div class="value">{{.WeekLow52}} to {{.WeekHigh52}}</div>
  </div>
  <div class="quote-item">
    <div class="label">Volume</div>
    <div class="value">{{.Volume}}</div>
  </div>
  {{if .MarketCap}}
  <div class="quote-item">
    <div class="label">Market Cap</div>
    <div class="value">{{.MarketCap}}</div>
  </div>
  {{end}}
  {{if .RateLabel}}
  <div class="quote-item">
    <div class="label">Risk-Free Rate</div>
    <div class="value">{{.RateLabel}}</div>
  </div>
  {{end}}
</div>
{{end}}

{{if .Warnings}}
<div class="warnings">
  <strong>Data warnings</strong>
  <ul>
  {{range .Warnings}}<li>{{.}}</li>{{end}}
  </ul>
</div>
{{end}}

<!-- ═══════ PRICE HISTORY ═══════ -->
{{if .ShowHistory}}
<div class="section">
  <h2>Price History</h2>
  <div class="trade-grid">
    <div class="trade-item"><div class="label">Period Return</div><div class="value">{{.PeriodReturn}}</div></div>
    <div class="trade-item"><div class="label">Realized Vol</div><div class="value">{{.RealizedVol}}</div></div>
    <div class="trade-item"><div class="label">SMA 20 / 50</div><div class="value">{{.SMA20}} / {{.SMA50}}</div></div>
    <div class="trade-item"><div class="label">Max Drawdown</div><div class="value">{{.MaxDrawdown}}</div></div>
  </div>
  <div class="chart-container">{{.PriceChart}}</div>
</div>
{{end}}

<!-- ═══════ OPTION CHAIN ═══════ -->
{{if .ShowChain}}
<div class="section">
  <h2>Option Chain <span class="muted">(expiry {{.ChainExpiry}})</span></h2>
  <div class="trade-grid">
    <div class="trade-item"><div class="label">ATM Strike</div><div class="value">{{.ATMStrike}}</div></div>
    <div class="trade-item"><div class="label">ATM IV</div><div class="value">{{.ATMIV}}</div></div>
    <div class="trade-item"><div class="label">IV Skew</div><div class="value">{{.IVSkew}}</div></div>
    <div class="trade-item"><div class="label">Max Pain</div><div class="value">{{.MaxPain}}</div></div>
    <div class="trade-item"><div class="label">PCR (OI)</div><div class="value">{{.PCR}}</div></div>
    <div class="trade-item"><div class="label">PCR (Volume)</div><div class="value">{{.PCRByVolume}}</div></div>
    <div class="trade-item"><div class="label">Call / Put OI</div><div class="value">{{.CallOI}} / {{.PutOI}}</div></div>
    <div class="trade-item"><div class="label">Sentiment</div><div class="value"><span class="sentiment-badge {{.SentimentClass}}">{{.Sentiment}}</span></div></div>
  </div>

  {{if .SupportLevels}}<p class="muted">Support (put OI): {{.SupportLevels}} · Resistance (call OI): {{.ResistLevels}}</p>{{end}}

  {{if .OIChart}}
  <div class="chart-container">{{.OIChart}}</div>
  {{end}}

  {{if .ChainRows}}
  <table class="chain-table">
    <thead>
      <tr>
        <th colspan="4">Calls</th>
        <th class="strike">Strike</th>
        <th colspan="4">Puts</th>
      </tr>
      <tr>
        <th>OI</th><th>Volume</th><th>IV</th><th>Last</th>
        <th class="strike"></th>
        <th>Last</th><th>IV</th><th>Volume</th><th>OI</th>
      </tr>
    </thead>
    <tbody>
    {{range .ChainRows}}
    <tr{{if .IsATM}} class="atm"{{end}}>
      <td>{{.CallOI}}</td><td>{{.CallVolume}}</td><td>{{.CallIV}}</td><td>{{.CallPrice}}</td>
      <td class="strike">{{.Strike}}</td>
      <td>{{.PutPrice}}</td><td>{{.PutIV}}</td><td>{{.PutVolume}}</td><td>{{.PutOI}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
  {{end}}
</div>
{{end}}

<!-- ═══════ THEORETICAL PRICING ═══════ -->
{{if .ShowPricing}}
<div class="section">
  <h2>Theoretical Pricing</h2>
  <table>
    <tbody>
      <tr><td>Contract</td><td>{{.OptionType}} {{.Strike}} expiring {{.Expiry}}</td></tr>
      <tr><td>Spot</td><td>{{.Spot}}</td></tr>
      <tr><td>Strike</td><td>{{.Strike}} <span class="muted">(from {{.StrikeSource}})</span></td></tr>
      <tr><td>Time to Expiry</td><td>{{.YearsToExpiry}} years</td></tr>
      <tr><td>Risk-Free Rate</td><td>{{.Rate}} <span class="muted">(from {{.RateSource}})</span></td></tr>
      <tr><td>Volatility</td><td>{{.Volatility}} <span class="muted">(from {{.VolSource}})</span></td></tr>
    </tbody>
  </table>

  <div class="theo-box">
    <span>Black-Scholes Value</span>
    <span class="big">{{.TheoPrice}}</span>
    {{if .MarketMid}}<span class="muted">market mid {{.MarketMid}}</span>{{end}}
  </div>

  <h3>Greeks</h3>
  <div class="trade-grid">
    <div class="trade-item"><div class="label">Delta</div><div class="value">{{.Delta}}</div></div>
    <div class="trade-item"><div class="label">Gamma</div><div class="value">{{.Gamma}}</div></div>
    <div class="trade-item"><div class="label">Theta</div><div class="value">{{.Theta}}</div></div>
    <div class="trade-item"><div class="label">Vega</div><div class="value">{{.Vega}}</div></div>
    <div class="trade-item"><div class="label">Rho</div><div class="value">{{.Rho}}</div></div>
  </div>
</div>
{{end}}

<!-- ═══════ PAYOFF ═══════ -->
{{if .ShowPayoff}}
<div class="section">
  <h2>Payoff at Expiration</h2>
  <div class="trade-grid">
    <div class="trade-item"><div class="label">Premium Paid</div><div class="value">{{.Premium}}</div></div>
    <div class="trade-item"><div class="label">Breakeven</div><div class="value">{{.Breakeven}}</div></div>
    <div class="trade-item"><div class="label">Max Loss</div><div class="value down">{{.MaxLoss}}</div></div>
    <div class="trade-item"><div class="label">Max Profit</div><div class="value up">{{.MaxProfit}}</div></div>
  </div>
  <p class="muted">Underlying price window: {{.PayoffRange}}</p>
  <div class="chart-container">{{.PayoffChart}}</div>
</div>
{{end}}

<!-- ═══════ NEWS ═══════ -->
{{if .ShowNews}}
<div class="section">
  <h2>Recent News</h2>
  <ul class="news-list">
  {{range .News}}
    <li>
      {{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}
      <span class="muted">{{.Source}}{{if .Published}} · {{.Published}}{{end}}</span>
    </li>
  {{end}}
  </ul>
</div>
{{end}}

<!-- ═══════ FOOTER ═══════ -->
<div class="footer">
  <p><strong>Disclaimer:</strong> Model values are theoretical, derived from delayed market data,
  and intended for study only. This report is not investment advice.</p>
  <p>Generated {{.GeneratedAt}}</p>
</div>

</body>
</html>`
