// Package datasource assembles market data for the analysis flow. It
// fans requests out over the provider registry, merges the results into
// a Snapshot, and carries the RSS news feeds that live outside the
// registry. All concurrency in the application happens here.
package datasource

import (
	"errors"
	"time"

	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// Snapshot bundles everything the analysis flow needs for one ticker.
// Quote and History are always present; the remaining fields degrade to
// their zero values with a note in Warnings when a source fails.
type Snapshot struct {
	Ticker       string               `json:"ticker"`
	Quote        *models.Quote        `json:"quote"`
	History      []models.OHLCV       `json:"history"`
	Chain        *models.OptionChain  `json:"chain,omitempty"`
	News         []models.NewsArticle `json:"news,omitempty"`
	RiskFreeRate float64              `json:"risk_free_rate,omitempty"` // annualized decimal
	RateSource   string               `json:"rate_source,omitempty"`
	Warnings     []string             `json:"warnings,omitempty"`
	FetchedAt    time.Time            `json:"fetched_at"`
}

// ErrUnexpectedPayload is returned when a provider delivers a payload of
// the wrong type for its model.
var ErrUnexpectedPayload = errors.New("unexpected payload type from provider")
