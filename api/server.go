// Package api provides the HTTP REST API server for the option
// analyzer.
//
// It exposes endpoints for market data (history, quote, option chain,
// news, reference rates), Black-Scholes pricing, payoff curves, full
// ticker analysis, report downloads and WebSocket progress streaming.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis/derivatives"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/analysis/history"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/config"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/datasource"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/pricing"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/providers"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/report"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
	"github.com/Rejipmathew/OptiontradingQuandl/web"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	agg      *datasource.Aggregator
	analyzer *analysis.Analyzer
	wsHub    *WSHub
	serveUI  bool // when true, serve the embedded web page at /
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	reg := provider.NewRegistry()
	if err := providers.RegisterAllTo(reg, cfg.Data.QuandlKey); err != nil {
		return nil, fmt.Errorf("registering providers: %w", err)
	}

	agg := datasource.NewAggregator(reg, datasource.Options{
		HistoryDays: cfg.Data.HistoryDays,
		NewsLimit:   cfg.Data.NewsLimit,
		CacheTTL:    time.Duration(cfg.Data.CacheTTL) * time.Second,
		Providers:   cfg.Data.Providers,
	})

	analyzer := analysis.New(agg, analysis.Defaults{
		RiskFreeRate:  cfg.Pricing.RiskFreeRate,
		Volatility:    cfg.Pricing.Volatility,
		PayoffSpanPct: cfg.Pricing.PayoffSpanPct,
		PayoffSamples: cfg.Pricing.PayoffSamples,
	})

	srv := &Server{
		cfg:      cfg,
		agg:      agg,
		analyzer: analyzer,
		wsHub:    NewWSHub(),
		serveUI:  true,
	}

	// Stream analysis lifecycle events to connected web clients.
	analyzer.OnEvent = func(ev analysis.Event) {
		srv.wsHub.Broadcast(WSMessage{Type: ev.Stage, Ticker: ev.Ticker, Data: ev})
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// SetServeUI controls whether the embedded web page is served.
// Must be called before ListenAndServe.
func (s *Server) SetServeUI(enabled bool) {
	s.serveUI = enabled
	s.router = s.buildRouter()
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	if s.cfg.API.Throttle > 0 {
		r.Use(middleware.Throttle(s.cfg.API.Throttle))
	}

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// Providers and configuration
		r.Get("/providers", s.handleProviders)
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/keys", s.handleGetConfigKeys)

		// Market data
		r.Get("/history/{ticker}", s.handleHistory)
		r.Get("/quote/{ticker}", s.handleQuote)
		r.Get("/chain/{ticker}", s.handleChain)
		r.Get("/news/{ticker}", s.handleNews)
		r.Get("/rates", s.handleRates)

		// Pricing
		r.Post("/price", s.handlePrice)
		r.Post("/payoff", s.handlePayoff)
		r.Post("/analyze", s.handleAnalyze)

		// Reports
		r.Get("/report/{ticker}", s.handleReport)

		// WebSocket progress stream
		r.Get("/ws", s.handleWebSocket)
	})

	// Serve the embedded static web page
	if s.serveUI {
		s.mountStatic(r, web.StaticFS())
	}

	return r
}

// mountStatic serves the embedded static page. Unknown paths fall back
// to index.html so a bookmarked query string still loads the page.
func (s *Server) mountStatic(r chi.Router, staticFS fs.FS) {
	fileServer := http.FileServer(http.FS(staticFS))

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		rPath := strings.TrimPrefix(r.URL.Path, "/")
		if rPath == "" {
			rPath = "index.html"
		}

		f, err := staticFS.Open(rPath)
		if err != nil {
			serveIndexHTML(w, staticFS)
			return
		}
		f.Close()

		if strings.HasSuffix(rPath, ".html") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		fileServer.ServeHTTP(w, r)
	})
}

// serveIndexHTML reads and serves the embedded index.html.
func serveIndexHTML(w http.ResponseWriter, staticFS fs.FS) {
	data, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		http.Error(w, "web page not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PriceRequest is the body for POST /api/v1/price. Either YearsToExpiry
// or Expiry supplies the time dimension; an explicit YearsToExpiry wins.
type PriceRequest struct {
	Type          string  `json:"type"` // "call" or "put"
	Spot          float64 `json:"spot"`
	Strike        float64 `json:"strike"`
	Rate          float64 `json:"rate"`       // annualized decimal
	Volatility    float64 `json:"volatility"` // annualized decimal
	YearsToExpiry float64 `json:"years_to_expiry,omitempty"`
	Expiry        string  `json:"expiry,omitempty"` // YYYY-MM-DD
}

// contract converts the request into an engine contract. The expiration
// date, when given, is converted to years here; the engine itself never
// sees dates.
func (pr PriceRequest) contract() (pricing.Contract, error) {
	typ, err := pricing.ParseOptionType(pr.Type)
	if err != nil {
		return pricing.Contract{}, err
	}

	years := pr.YearsToExpiry
	if years == 0 && pr.Expiry != "" {
		exp, err := time.Parse("2006-01-02", pr.Expiry)
		if err != nil {
			return pricing.Contract{}, fmt.Errorf("expiry %q: expected YYYY-MM-DD", pr.Expiry)
		}
		years = utils.YearsToExpiry(exp, time.Now())
		if years <= 0 {
			return pricing.Contract{}, fmt.Errorf("expiry %s is not in the future", pr.Expiry)
		}
	}

	return pricing.Contract{
		Type:          typ,
		Spot:          pr.Spot,
		Strike:        pr.Strike,
		Rate:          pr.Rate,
		Volatility:    pr.Volatility,
		YearsToExpiry: years,
	}, nil
}

// PayoffRequest is the body for POST /api/v1/payoff. When Premium is
// zero the contract is priced first and its theoretical value is used.
type PayoffRequest struct {
	PriceRequest
	Premium float64 `json:"premium,omitempty"`
	Low     float64 `json:"low,omitempty"`
	High    float64 `json:"high,omitempty"`
	Samples int     `json:"samples,omitempty"`
	SVG     bool    `json:"svg,omitempty"` // include a rendered payoff chart
}

// AnalyzeRequest is the body for POST /api/v1/analyze. Pointer fields
// are operator overrides; nil resolves from market data.
type AnalyzeRequest struct {
	Ticker     string   `json:"ticker"`
	Expiry     string   `json:"expiry,omitempty"` // YYYY-MM-DD
	Type       string   `json:"type,omitempty"`   // "call" (default) or "put"
	Strike     *float64 `json:"strike,omitempty"`
	Rate       *float64 `json:"rate,omitempty"`
	Volatility *float64 `json:"volatility,omitempty"`
	SpanPct    *float64 `json:"span_pct,omitempty"`
	Samples    *int     `json:"samples,omitempty"`
}

// ============================================================
// Handlers — status and metadata
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":        "ok",
			"version":       "dev",
			"market_status": utils.MarketStatus(),
			"time_et":       utils.FormatDateTime(utils.NowEastern()),
		},
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	reg := s.agg.Registry()

	defaults := map[string]string{}
	for _, m := range provider.AllModels() {
		if name, ok := reg.DefaultProvider(m); ok {
			defaults[string(m)] = name
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"providers": reg.List(),
			"coverage":  reg.ModelCoverage(),
			"defaults":  defaults,
		},
	})
}

// ============================================================
// Handlers — market data
// ============================================================

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var bars []models.OHLCV
	var err error
	if q.Get("from") != "" || q.Get("to") != "" {
		from, perr := time.Parse("2006-01-02", q.Get("from"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		to := time.Now()
		if v := q.Get("to"); v != "" {
			if to, perr = time.Parse("2006-01-02", v); perr != nil {
				writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
				return
			}
		}
		bars, err = s.agg.FetchHistoryRange(ctx, ticker, from, to)
	} else {
		bars, err = s.agg.FetchHistory(ctx, ticker)
	}
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"ticker":  ticker,
			"stats":   history.Compute(ticker, bars),
			"candles": bars,
		},
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	quote, err := s.agg.FetchQuote(ctx, ticker)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    quote,
	})
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))

	expiry := r.URL.Query().Get("expiry")
	if expiry != "" {
		if _, err := time.Parse("2006-01-02", expiry); err != nil {
			writeError(w, http.StatusBadRequest, "expiry must be YYYY-MM-DD")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	chain, err := s.agg.FetchChain(ctx, ticker, expiry)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"chain":   chain,
			"summary": derivatives.Summarize(chain),
		},
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))

	limit := s.cfg.Data.NewsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	articles, err := s.agg.FetchNews(ctx, ticker, limit)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    articles,
	})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	years := 1.0
	if v := r.URL.Query().Get("years"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			writeError(w, http.StatusBadRequest, "years must be a positive number")
			return
		}
		years = f
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	rate, source, err := s.agg.RiskFreeRate(ctx, years)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"rate":   rate,
			"source": source,
			"years":  years,
		},
	})
}

// ============================================================
// Handlers — pricing
// ============================================================

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := req.contract()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	theo, err := pricing.Price(c)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"contract":    c,
			"theoretical": theo,
		},
	})
}

func (s *Server) handlePayoff(w http.ResponseWriter, r *http.Request) {
	var req PayoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := req.contract()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	premium := req.Premium
	if premium == 0 {
		theo, err := pricing.Price(c)
		if err != nil {
			writeError(w, errStatus(err), err.Error())
			return
		}
		premium = theo.Value
	}

	low, high := req.Low, req.High
	if low == 0 && high == 0 {
		span := s.cfg.Pricing.PayoffSpanPct
		low = c.Spot * (1 - span)
		if low < 0 {
			low = 0
		}
		high = c.Spot * (1 + span)
	}
	samples := req.Samples
	if samples == 0 {
		samples = s.cfg.Pricing.PayoffSamples
	}

	points, err := pricing.Curve(c, premium, low, high, samples)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	breakeven := pricing.Breakeven(c, premium)
	data := map[string]interface{}{
		"contract":  c,
		"premium":   premium,
		"breakeven": breakeven,
		"low":       low,
		"high":      high,
		"points":    points,
	}
	if req.SVG {
		markers := report.PayoffMarkers{Strike: c.Strike, Breakeven: breakeven, Spot: c.Spot}
		data["svg"] = report.OptionPayoffChart(points, markers, s.chartConfig())
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	areq, err := req.toAnalysisRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	res, err := s.analyzer.Run(ctx, areq)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    res,
	})
}

// toAnalysisRequest validates the request and converts it for the
// analyzer. Expiry is checked here so a bad date fails before any
// fetching starts.
func (ar AnalyzeRequest) toAnalysisRequest() (analysis.Request, error) {
	if strings.TrimSpace(ar.Ticker) == "" {
		return analysis.Request{}, errors.New("ticker is required")
	}
	if ar.Expiry != "" {
		exp, err := time.Parse("2006-01-02", ar.Expiry)
		if err != nil {
			return analysis.Request{}, fmt.Errorf("expiry %q: expected YYYY-MM-DD", ar.Expiry)
		}
		if !exp.After(time.Now()) {
			return analysis.Request{}, fmt.Errorf("expiry %s is not in the future", ar.Expiry)
		}
	}

	req := analysis.Request{
		Ticker:     utils.NormalizeTicker(ar.Ticker),
		Expiry:     ar.Expiry,
		Strike:     ar.Strike,
		Rate:       ar.Rate,
		Volatility: ar.Volatility,
		SpanPct:    ar.SpanPct,
		Samples:    ar.Samples,
	}
	if ar.Type != "" {
		typ, err := pricing.ParseOptionType(ar.Type)
		if err != nil {
			return analysis.Request{}, err
		}
		req.Type = typ
	}
	return req, nil
}

// ============================================================
// Handlers — reports
// ============================================================

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = "html"
	}
	rf, err := report.ParseFormat(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := AnalyzeRequest{
		Ticker: chi.URLParam(r, "ticker"),
		Expiry: q.Get("expiry"),
		Type:   q.Get("type"),
	}
	if req.Strike, err = queryFloat(q, "strike"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Rate, err = queryFloat(q, "rate"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Volatility, err = queryFloat(q, "vol"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	areq, err := req.toAnalysisRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	res, err := s.analyzer.Run(ctx, areq)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	rcfg := report.DefaultReportConfig()
	rcfg.Format = rf
	rcfg.ChartCfg = s.chartConfig()

	switch rf {
	case report.FormatText:
		txt, err := report.GenerateText(res, rcfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s_report.txt", strings.ToLower(res.Ticker)))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(txt)) //nolint:errcheck

	case report.FormatPDF:
		path := filepath.Join(os.TempDir(),
			fmt.Sprintf("optiontrading_%s_report.pdf", strings.ToLower(res.Ticker)))
		written, err := report.WriteFile(res, rcfg, path)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		contentType := "application/pdf"
		if strings.HasSuffix(written, ".html") {
			// No PDF engine on this host; the HTML fallback was written.
			contentType = "text/html; charset=utf-8"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s", filepath.Base(written)))
		http.ServeFile(w, r, written)

	default:
		html, err := report.GenerateHTML(res, rcfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html)) //nolint:errcheck
	}
}

// ============================================================
// Helpers
// ============================================================

// chartConfig applies the configured chart dimensions.
func (s *Server) chartConfig() report.ChartConfig {
	cfg := report.DefaultChartConfig()
	if s.cfg.Report.ChartWidth > 0 {
		cfg.Width = s.cfg.Report.ChartWidth
	}
	if s.cfg.Report.ChartHeight > 0 {
		cfg.Height = s.cfg.Report.ChartHeight
	}
	return cfg
}

// errStatus maps engine and provider errors to HTTP status codes:
// invalid inputs 400, bad credentials 401, unknown provider/model 404,
// anything else from an upstream fetch 502.
func errStatus(err error) int {
	var invalid *pricing.ErrInvalidContract
	var overflow *pricing.ErrNumericOverflow
	var missingParam *provider.ErrMissingParam
	var badCreds *provider.ErrInvalidCredentials
	var noProvider *provider.ErrProviderNotFound
	var noModel *provider.ErrModelNotSupported

	switch {
	case errors.As(err, &invalid), errors.As(err, &overflow),
		errors.As(err, &missingParam), errors.Is(err, analysis.ErrExpiryRequired):
		return http.StatusBadRequest
	case errors.As(err, &badCreds):
		return http.StatusUnauthorized
	case errors.As(err, &noProvider), errors.As(err, &noModel):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// queryFloat parses an optional float query parameter; absent returns nil.
func queryFloat(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
