// Package crawl walks a single host breadth-first and audits every page it visits.
package crawl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"siteprobe/internal/audit"
	"siteprobe/internal/fetcher"
	"siteprobe/internal/model"
	"siteprobe/internal/parser"
	"siteprobe/internal/urlutil"
)

// Crawler visits pages of one host in BFS order.
type Crawler struct {
	fetch  *fetcher.Fetcher
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger used for crawl progress and link extraction failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Crawler that fetches through fetch.
func New(fetch *fetcher.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetch:  fetch,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// crawlState is owned by a single Crawl call.
type crawlState struct {
	frontier []string
	visited  map[string]bool
	queued   map[string]bool
}

func newCrawlState(start string) *crawlState {
	return &crawlState{
		frontier: []string{start},
		visited:  map[string]bool{},
		queued:   map[string]bool{start: true},
	}
}

func (s *crawlState) next() (string, bool) {
	for len(s.frontier) > 0 {
		pageURL := s.frontier[0]
		s.frontier = s.frontier[1:]
		delete(s.queued, pageURL)

		if !s.visited[pageURL] {
			return pageURL, true
		}
	}

	return "", false
}

func (s *crawlState) enqueue(pageURL string) bool {
	if s.visited[pageURL] || s.queued[pageURL] {
		return false
	}

	s.frontier = append(s.frontier, pageURL)
	s.queued[pageURL] = true

	return true
}

// Crawl audits at most pageLimit distinct pages reachable from startURL on the same host.
// Records are returned in visit order. Fetch failures become error records; links are
// followed only from pages answered with HTTP 200.
func (c *Crawler) Crawl(ctx context.Context, startURL string, pageLimit int) []model.PageAudit {
	records := []model.PageAudit{}
	if pageLimit <= 0 {
		return records
	}

	start := strings.TrimSpace(startURL)
	base, err := urlutil.Canonical(start)
	if err != nil {
		c.logger.Warn("start url is not crawlable", "url", start, "error", err)
	} else {
		start = base.String()
	}

	state := newCrawlState(start)

	for len(state.visited) < pageLimit {
		if ctx.Err() != nil {
			c.logger.Warn("crawl interrupted", "visited", len(state.visited), "error", ctx.Err())
			break
		}

		pageURL, ok := state.next()
		if !ok {
			break
		}

		state.visited[pageURL] = true
		c.logger.Debug("crawling page", "url", pageURL, "visited", len(state.visited), "limit", pageLimit)

		result, fetchErr := c.fetch.Fetch(ctx, pageURL)
		records = append(records, audit.Audit(pageURL, result, fetchErr))

		if fetchErr != nil {
			c.logger.Debug("page fetch failed", "url", pageURL, "error", fetchErr)
			continue
		}

		if base == nil || result.StatusCode != http.StatusOK {
			continue
		}

		c.enqueueLinks(state, base, pageURL, result.Body)
	}

	return records
}

func (c *Crawler) enqueueLinks(state *crawlState, base *url.URL, pageURL string, body []byte) {
	current, err := url.Parse(pageURL)
	if err != nil {
		c.logger.Warn("link extraction failed", "url", pageURL, "error", err)
		return
	}

	hrefs, err := parser.ParseLinks(body)
	if err != nil {
		c.logger.Warn("link extraction failed", "url", pageURL, "error", err)
		return
	}

	added := 0
	for _, href := range hrefs {
		link, ok := urlutil.Resolve(current, href)
		if !ok || !urlutil.SameHost(base, link) {
			continue
		}

		if state.enqueue(link) {
			added++
		}
	}

	c.logger.Debug("links queued", "url", pageURL, "found", len(hrefs), "queued", added)
}
