package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/Rejipmathew/OptiontradingQuandl/internal/infra"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/models"
	"github.com/Rejipmathew/OptiontradingQuandl/pkg/utils"
)

// NewsSource represents a financial news RSS feed configuration.
type NewsSource struct {
	Name    string
	RSSURL  string
	BaseURL string
}

// DefaultNewsSources lists the configured US financial news RSS feeds.
var DefaultNewsSources = []NewsSource{
	{
		Name:    "Yahoo Finance",
		RSSURL:  "https://finance.yahoo.com/news/rssindex",
		BaseURL: "https://finance.yahoo.com",
	},
	{
		Name:    "MarketWatch",
		RSSURL:  "https://feeds.content.dowjones.io/public/rss/mw_topstories",
		BaseURL: "https://www.marketwatch.com",
	},
	{
		Name:    "CNBC Markets",
		RSSURL:  "https://www.cnbc.com/id/100003114/device/rss/rss.html",
		BaseURL: "https://www.cnbc.com",
	},
}

// News fetches financial news from RSS feeds. It complements the
// provider registry: per-ticker headlines come from providers when
// available, while these feeds supply broad market coverage and serve
// as the fallback when no provider carries news for a symbol.
type News struct {
	sources []NewsSource
	cache   *infra.Cache
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
}

// NewNews creates a news data source with the default US feeds.
func NewNews() *News {
	return NewNewsWithSources(DefaultNewsSources)
}

// NewNewsWithSources creates a news data source with custom sources.
func NewNewsWithSources(sources []NewsSource) *News {
	return &News{
		sources: sources,
		cache:   infra.NewCache(10 * time.Minute),
		limiter: infra.NewRateLimiter(2, time.Second), // conservative: 2 req/s
		parser:  gofeed.NewParser(),
	}
}

// GetMarketNews returns recent market news from all configured sources.
func (n *News) GetMarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("news:market:%d", limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	var allArticles []models.NewsArticle
	for _, src := range n.sources {
		articles, err := n.fetchRSS(ctx, src)
		if err != nil {
			// Non-critical: skip failed sources.
			continue
		}
		allArticles = append(allArticles, articles...)
	}

	// Sort by published date (newest first) — already roughly sorted per source.
	sortArticlesByDate(allArticles)

	if limit > 0 && len(allArticles) > limit {
		allArticles = allArticles[:limit]
	}

	n.cache.Set(cacheKey, allArticles)
	return allArticles, nil
}

// GetStockNews returns market articles that mention a specific ticker.
func (n *News) GetStockNews(ctx context.Context, ticker string, limit int) ([]models.NewsArticle, error) {
	symbol := utils.NormalizeTicker(ticker)

	cacheKey := fmt.Sprintf("news:stock:%s:%d", symbol, limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	// First get all market news, then filter by ticker mention.
	allNews, err := n.GetMarketNews(ctx, 0)
	if err != nil {
		return nil, err
	}

	var filtered []models.NewsArticle
	keywords := tickerKeywords(symbol)
	for _, a := range allNews {
		if matchesAny(a.Title+" "+a.Summary, keywords) {
			filtered = append(filtered, a)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	n.cache.Set(cacheKey, filtered)
	return filtered, nil
}

// --- Internal helpers ---

// fetchRSS parses an RSS feed and returns articles.
func (n *News) fetchRSS(ctx context.Context, src NewsSource) ([]models.NewsArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := n.parser.ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   item.Title,
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// CleanSummaries strips HTML markup from article summaries in place.
// Provider feeds ship raw description HTML; RSS articles are already
// cleaned at parse time.
func CleanSummaries(articles []models.NewsArticle) {
	for i := range articles {
		articles[i].Summary = cleanHTML(articles[i].Summary)
	}
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// tickerKeywords returns search keywords for a ticker.
// For example, "AAPL" → ["aapl", "apple"].
func tickerKeywords(ticker string) []string {
	t := strings.ToLower(ticker)
	keywords := []string{t}

	// Add common name mappings.
	nameMap := map[string][]string{
		"aapl":  {"apple"},
		"msft":  {"microsoft"},
		"googl": {"google", "alphabet"},
		"goog":  {"google", "alphabet"},
		"amzn":  {"amazon"},
		"tsla":  {"tesla", "elon musk"},
		"meta":  {"meta platforms", "facebook"},
		"nvda":  {"nvidia"},
		"brk.b": {"berkshire", "buffett"},
		"jpm":   {"jpmorgan", "jp morgan"},
		"nflx":  {"netflix"},
		"amd":   {"advanced micro devices"},
		"intc":  {"intel"},
		"dis":   {"disney"},
		"ba":    {"boeing"},
		"xom":   {"exxon"},
		"wmt":   {"walmart"},
		"ko":    {"coca-cola", "coca cola"},
		"spy":   {"s&p 500", "sp500"},
		"qqq":   {"nasdaq 100", "nasdaq-100"},
	}

	if extra, ok := nameMap[t]; ok {
		keywords = append(keywords, extra...)
	}

	return keywords
}

// matchesAny checks if text contains any of the keywords (case-insensitive).
func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// sortArticlesByDate sorts articles by published date (newest first).
// Simple insertion sort — fine for small slices.
func sortArticlesByDate(articles []models.NewsArticle) {
	for i := 1; i < len(articles); i++ {
		key := articles[i]
		j := i - 1
		for j >= 0 && articles[j].PublishedAt.Before(key.PublishedAt) {
			articles[j+1] = articles[j]
			j--
		}
		articles[j+1] = key
	}
}
