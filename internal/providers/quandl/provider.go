// Package quandl implements the Quandl (Nasdaq Data Link) data provider.
// It serves end-of-day equity history from the EOD database and option chains
// from OPTIONMETRICS per-expiry tables. Every request requires an API key
// from data.nasdaq.com.
//
// Quandl datasets are column-oriented: each response carries a column_names
// header and rows of positional values, so parsing resolves column indices by
// name before reading rows.
package quandl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/infra"
	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
)

const (
	providerName = "quandl"

	baseURL = "https://data.nasdaq.com/api/v3"

	credAPIKey = "api_key"
)

// Provider is the Quandl data provider.
type Provider struct {
	provider.BaseProvider
}

// New creates a new Quandl provider and registers all fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Quandl (Nasdaq Data Link) - EOD equity history and option chains",
			"https://data.nasdaq.com",
			[]provider.ProviderCredential{
				{
					Name:        credAPIKey,
					Description: "Quandl API key from data.nasdaq.com",
					Required:    true,
					EnvVar:      "QUANDL_API_KEY",
				},
			},
		),
	}

	p.RegisterFetcher(newEquityHistoricalFetcher(p))
	p.RegisterFetcher(newOptionsChainsFetcher(p))

	return p
}

// Ping verifies connectivity and key validity with a minimal EOD request.
func (p *Provider) Ping(ctx context.Context) error {
	u := p.datasetURL("EOD", "AAPL", url.Values{"rows": {"1"}})
	var resp quandlDatasetResponse
	return p.fetchQuandlJSON(ctx, u, &resp)
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

var quandlHeaders = map[string]string{
	"Accept": "application/json",
}

// datasetURL builds a dataset endpoint URL with the API key attached.
func (p *Provider) datasetURL(database, code string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", p.Credential(credAPIKey))
	return fmt.Sprintf("%s/datasets/%s/%s.json?%s", baseURL, database, code, q.Encode())
}

// fetchQuandlJSON performs a GET and decodes the dataset response, mapping
// Quandl's error statuses: 401/403 become ErrInvalidCredentials, 404 a
// dataset-not-found error carrying Quandl's own message.
func (p *Provider) fetchQuandlJSON(ctx context.Context, u string, dst any) error {
	body, status, err := infra.DoGet(ctx, u, quandlHeaders)
	if err != nil {
		return err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &provider.ErrInvalidCredentials{
			Provider: providerName,
			Detail:   quandlErrDetail(raw),
		}
	case status == http.StatusNotFound:
		return fmt.Errorf("dataset not found: %s", quandlErrDetail(raw))
	case status >= 400:
		return fmt.Errorf("quandl HTTP %d: %s", status, quandlErrDetail(raw))
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// quandlErrDetail extracts the message from a Quandl error body, falling back
// to a generic description when the body is not the documented shape.
func quandlErrDetail(raw []byte) string {
	var qe quandlErrorResponse
	if err := json.Unmarshal(raw, &qe); err == nil && qe.QuandlError.Message != "" {
		return qe.QuandlError.Message
	}
	return "unexpected response from data.nasdaq.com"
}

// newResult creates a FetchResult with the current timestamp.
func newResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
	}
}

// newCachedResult creates a FetchResult marked as cached.
func newCachedResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
		Cached:    true,
	}
}
