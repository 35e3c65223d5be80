package yfinance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/provider"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
)

// --- CompanyNews fetcher ---

// Yahoo publishes a per-ticker headline RSS feed; it needs no key and stays
// available when the JSON news endpoints get throttled.
const yfNewsFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

type companyNewsFetcher struct {
	provider.BaseFetcher
	parser *gofeed.Parser
}

func newCompanyNewsFetcher() *companyNewsFetcher {
	return &companyNewsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelCompanyNews,
			"Company-specific headlines from the Yahoo Finance RSS feed",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamLimit},
			10*time.Minute, 5, time.Second,
		),
		parser: gofeed.NewParser(),
	}
}

func (f *companyNewsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	yfTicker := toYFTicker(symbol)

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	limit := 20
	if v := params[provider.ParamLimit]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	feed, err := f.parser.ParseURLWithContext(fmt.Sprintf(yfNewsFeedURL, yfTicker), ctx)
	if err != nil {
		return nil, fmt.Errorf("yfinance news %s: %w", yfTicker, err)
	}

	articles := feedToArticles(feed, symbol, limit)

	f.CacheSetTTL(cacheKey, articles, 10*time.Minute)
	return newResult(articles), nil
}

// feedToArticles maps RSS items to the standard NewsArticle model, newest
// first as the feed delivers them.
func feedToArticles(feed *gofeed.Feed, symbol string, limit int) []models.NewsArticle {
	articles := make([]models.NewsArticle, 0, limit)
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		a := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Source:  "Yahoo Finance",
			Summary: strings.TrimSpace(item.Description),
			Tickers: []string{symbol},
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
		if len(articles) >= limit {
			break
		}
	}
	return articles
}
