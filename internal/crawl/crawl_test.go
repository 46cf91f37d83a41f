package crawl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"siteprobe/internal/fetcher"
	"siteprobe/internal/model"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return fn(req) }

type page struct {
	status int
	body   string
	err    error
}

// site serves pages keyed by host+path and counts requests per key.
type site struct {
	mu    sync.Mutex
	pages map[string]page
	calls map[string]int
}

func newSite(pages map[string]page) *site {
	return &site{pages: pages, calls: map[string]int{}}
}

func (s *site) client() *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			key := req.URL.Host + req.URL.Path

			s.mu.Lock()
			s.calls[key]++
			p, ok := s.pages[key]
			s.mu.Unlock()

			if !ok {
				p = page{status: http.StatusNotFound, body: "not found"}
			}

			if p.err != nil {
				return nil, p.err
			}

			return &http.Response{
				StatusCode: p.status,
				Header:     http.Header{},
				Body:       io.NopCloser(strings.NewReader(p.body)),
			}, nil
		}),
	}
}

func (s *site) callCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[key]
}

func newTestCrawler(s *site) *Crawler {
	fetch := fetcher.New(s.client(), time.Second, "", nil, 0, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(fetch, WithLogger(logger))
}

func urls(records []model.PageAudit) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.URL)
	}

	return out
}

func linkedSite() *site {
	return newSite(map[string]page{
		"example.com/": {status: http.StatusOK, body: `<html lang="en">
			<a href="/a">a</a>
			<a href="/b#details">b</a>
			<a href="https://example.com/a">a again</a>
			<a href="mailto:team@example.com">mail</a>
			<a href="https://other.com/x">other</a>
			<a href="https://www.example.com/y">subdomain</a>
		</html>`},
		"example.com/a": {status: http.StatusOK, body: `<a href="/c">c</a><a href="/">home</a><a href="#top">top</a>`},
		"example.com/b": {status: http.StatusOK, body: `<a href="a">a</a><a href="/c#x">c</a>`},
		"example.com/c": {status: http.StatusOK, body: `<a href="/b">b</a>`},
	})
}

func TestCrawlBreadthFirstOrder(t *testing.T) {
	t.Parallel()

	s := linkedSite()
	records := newTestCrawler(s).Crawl(context.Background(), "https://example.com/#intro", 10)

	require.Equal(t, []string{
		"https://example.com",
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}, urls(records))

	for _, key := range []string{"example.com/", "example.com/a", "example.com/b", "example.com/c"} {
		require.Equal(t, 1, s.callCount(key), "page %s must be fetched once", key)
	}

	require.Zero(t, s.callCount("other.com/x"))
	require.Zero(t, s.callCount("www.example.com/y"))
}

func TestCrawlRespectsPageLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "zero limit", limit: 0, want: []string{}},
		{name: "negative limit", limit: -3, want: []string{}},
		{name: "root only", limit: 1, want: []string{"https://example.com"}},
		{name: "two pages", limit: 2, want: []string{"https://example.com", "https://example.com/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := newTestCrawler(linkedSite()).Crawl(context.Background(), "https://example.com", tt.limit)
			require.Equal(t, tt.want, urls(records))
		})
	}
}

func TestCrawlFollowsOnlyFromOKPages(t *testing.T) {
	t.Parallel()

	s := newSite(map[string]page{
		"example.com/": {status: http.StatusInternalServerError, body: `<a href="/a">a</a>`},
	})

	records := newTestCrawler(s).Crawl(context.Background(), "https://example.com", 5)

	require.Len(t, records, 1)
	require.Equal(t, "500", records[0].Status.String())
	require.Zero(t, s.callCount("example.com/a"))
}

func TestCrawlRecordsFetchErrors(t *testing.T) {
	t.Parallel()

	s := newSite(map[string]page{
		"example.com/":       {status: http.StatusOK, body: `<a href="/broken">x</a><a href="/ok">y</a>`},
		"example.com/broken": {err: errors.New("connection reset")},
		"example.com/ok":     {status: http.StatusOK, body: `<title>ok</title>`},
	})

	records := newTestCrawler(s).Crawl(context.Background(), "https://example.com", 5)

	require.Equal(t, []string{
		"https://example.com",
		"https://example.com/broken",
		"https://example.com/ok",
	}, urls(records))

	broken := records[1]
	require.True(t, broken.Status.Failed)
	require.Contains(t, broken.Error, "connection reset")
	require.Empty(t, broken.Security)
	require.Nil(t, broken.LoadTimeSeconds)
}

func TestCrawlFollowsOtherSchemeOnSameHost(t *testing.T) {
	t.Parallel()

	s := newSite(map[string]page{
		"example.com/":      {status: http.StatusOK, body: `<a href="http://example.com/plain">plain</a>`},
		"example.com/plain": {status: http.StatusOK, body: ``},
	})

	records := newTestCrawler(s).Crawl(context.Background(), "https://example.com", 5)

	require.Equal(t, []string{"https://example.com", "http://example.com/plain"}, urls(records))
	require.Contains(t, records[1].Security, "Site is not using HTTPS")
}

func TestCrawlInvalidStartURL(t *testing.T) {
	t.Parallel()

	s := newSite(map[string]page{})
	records := newTestCrawler(s).Crawl(context.Background(), "not a url", 5)

	require.Len(t, records, 1)
	require.Equal(t, "not a url", records[0].URL)
	require.True(t, records[0].Status.Failed)
	require.NotEmpty(t, records[0].Error)
}

func TestCrawlStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	s := linkedSite()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := newTestCrawler(s).Crawl(ctx, "https://example.com", 10)

	require.Empty(t, records)
	require.Zero(t, s.callCount("example.com/"))
}

func TestCrawlTreatsHostCaseAsOnePage(t *testing.T) {
	t.Parallel()

	s := newSite(map[string]page{
		"example.com/": {status: http.StatusOK, body: `<a href="https://example.com/">home</a>
			<a href="https://EXAMPLE.com/">HOME</a>
			<a href="https://Example.com/docs">docs</a>`},
		"example.com/docs": {status: http.StatusOK, body: `<a href="https://EXAMPLE.COM/">home</a>
			<a href="https://example.com/Docs">other docs</a>`},
	})

	records := newTestCrawler(s).Crawl(context.Background(), "https://Example.com/", 10)

	require.Equal(t, []string{
		"https://example.com",
		"https://example.com/docs",
		"https://example.com/Docs",
	}, urls(records))
	require.Equal(t, 1, s.callCount("example.com/"))
	require.Equal(t, 1, s.callCount("example.com/docs"))
}
