package scraper

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Matheuslarroque/pesquisador-junior/helpers"
	"github.com/Matheuslarroque/pesquisador-junior/logger"
	pkgerrors "github.com/Matheuslarroque/pesquisador-junior/pkg/errors"
	"github.com/Matheuslarroque/pesquisador-junior/services/cache"
)

// ErrSourceBlocked reports that the source is inside a rate-limit block
// window and no request was sent.
var ErrSourceBlocked = errors.New("source is rate limited")

// Fetcher resolves a URL to a UTF-8 page body.
type Fetcher func(url string) (io.Reader, error)

// HarvesterConfig configures a SearchHarvester.
type HarvesterConfig struct {
	// BaseURL is the marketplace root, e.g. https://shopee.com.br
	BaseURL string
	// Delay is the politeness throttle between detail fetches
	Delay time.Duration
	// CacheKey and BlockTime drive the cross-process rate-limit block window
	CacheKey  string
	BlockTime time.Duration
	// Fetch overrides the HTTP fetch function (tests); nil means the default
	Fetch Fetcher
	// PageCacheSize bounds the per-run LRU of fetched product pages
	PageCacheSize int
}

// SearchHarvester discovers candidate product URLs on a search-results page
// and resolves each one to a ProductRecord. A fetch or parse failure for an
// individual URL drops that URL only; partial success is expected when
// scraping a page whose structure we do not control.
type SearchHarvester struct {
	baseURL   string
	delay     time.Duration
	cacheKey  string
	blockTime time.Duration
	cacheSvc  cache.CacheService
	fetch     Fetcher
	pages     *lru.Cache[string, string]
	Metrics   *Metrics
	log       *logger.Logger
}

// NewSearchHarvester creates a harvester for the given marketplace.
func NewSearchHarvester(config HarvesterConfig, cacheSvc cache.CacheService) *SearchHarvester {
	fetch := config.Fetch
	if fetch == nil {
		fetch = helpers.FetchWithRandomHeaders
	}
	size := config.PageCacheSize
	if size <= 0 {
		size = 256
	}
	pages, _ := lru.New[string, string](size)

	return &SearchHarvester{
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		delay:     config.Delay,
		cacheKey:  config.CacheKey,
		blockTime: config.BlockTime,
		cacheSvc:  cacheSvc,
		fetch:     fetch,
		pages:     pages,
		Metrics:   NewMetrics(),
		log:       logger.ForHarvester(),
	}
}

// Search fetches the results page for query, discovers product URLs and
// resolves up to limit of them into records.
func (h *SearchHarvester) Search(query string, limit int) ([]ProductRecord, error) {
	searchURL := h.baseURL + "/search?keyword=" + url.QueryEscape(query)

	body, err := h.fetchPage("search", searchURL)
	if err != nil {
		return nil, pkgerrors.NewNetwork("search", fmt.Sprintf("fetch results page for %q", query), err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, pkgerrors.NewParsing("search", "parse results page", err)
	}

	urls := h.discoverURLs(doc, limit)
	h.log.Debug().Str("query", query).Int("urls", len(urls)).Msg("discovered candidate URLs")

	var records []ProductRecord
	for _, u := range urls {
		record, err := h.resolveProduct(u)
		if err != nil {
			if errors.Is(err, ErrSourceBlocked) {
				h.log.Warn().Str("url", u).Msg("rate limit block hit, stopping detail fetches")
				break
			}
			h.Metrics.IncDropped("fetch")
			h.log.Debug().Str("url", u).Err(err).Msg("dropping candidate")
			continue
		}
		h.Metrics.IncCandidates()
		records = append(records, record)
	}

	return records, nil
}

// discoverURLs scans all hyperlink targets on the results page, keeps those
// matching the product-URL shape, deduplicates by URL and truncates to limit.
// Discovery order is preserved; it is the ranking tiebreaker downstream.
func (h *SearchHarvester) discoverURLs(doc *goquery.Document, limit int) []string {
	seen := make(map[string]bool)
	var urls []string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "/product/") || strings.Contains(href, "://") {
			return true
		}
		// Anchors with almost no text are navigation chrome, not product cards
		text := Normalize(s.Text())
		if len([]rune(text)) < 20 {
			return true
		}

		full := h.baseURL + strings.SplitN(href, "?", 2)[0]
		// Product URLs carry shop and item ids as the last two path segments
		if _, err := helpers.GetSplitPart(full, "/", 5); err != nil {
			return true
		}
		if seen[full] {
			return true
		}
		seen[full] = true
		urls = append(urls, full)
		return len(urls) < limit
	})

	return urls
}

// resolveProduct fetches one product page (through the per-run page cache)
// and extracts a record from it.
func (h *SearchHarvester) resolveProduct(u string) (ProductRecord, error) {
	var reader io.Reader
	if page, ok := h.pages.Get(u); ok {
		reader = strings.NewReader(page)
	} else {
		body, err := h.fetchPage("detail", u)
		if err != nil {
			return ProductRecord{}, err
		}
		raw, err := io.ReadAll(body)
		if err != nil {
			return ProductRecord{}, fmt.Errorf("read product page: %w", err)
		}
		h.pages.Add(u, string(raw))
		reader = strings.NewReader(string(raw))

		// Politeness throttle between detail fetches, not a correctness mechanism
		time.Sleep(h.delay)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return ProductRecord{}, fmt.Errorf("parse product page: %w", err)
	}

	return ExtractProduct(doc, u), nil
}

// fetchPage fetches a URL unless the source is inside a rate-limit block
// window. A 429 response opens a new block window in the shared cache so
// concurrent workers back off too.
func (h *SearchHarvester) fetchPage(phase, u string) (io.Reader, error) {
	if h.cacheSvc != nil && h.cacheKey != "" {
		if _, err := h.cacheSvc.Get(h.cacheKey); err == nil {
			return nil, ErrSourceBlocked
		}
	}

	start := time.Now()
	body, err := h.fetch(u)
	h.Metrics.IncRequest(phase)
	h.Metrics.ObserveFetch(time.Since(start))

	if err != nil {
		if helpers.IsRateLimited(err) && h.cacheSvc != nil && h.cacheKey != "" {
			blockSeconds := fmt.Sprintf("%d", int(h.blockTime/time.Second))
			h.cacheSvc.Set(h.cacheKey, []byte(blockSeconds), h.blockTime)
			return nil, fmt.Errorf("%w: %v", ErrSourceBlocked, err)
		}
		return nil, err
	}

	return body, nil
}
