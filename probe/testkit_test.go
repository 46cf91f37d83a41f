package probe_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const fixtureBaseURL = "https://example.com"

var fixtureTime = time.Date(2024, time.June, 1, 12, 34, 56, 0, time.UTC)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return fn(req) }

func responseWithBody(status int, body []byte, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func secureHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Security-Policy", "default-src 'self'")
	h.Set("Strict-Transport-Security", "max-age=63072000")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-Content-Type-Options", "nosniff")

	return h
}

const rootHTML = `<!doctype html>
<html lang="en">
<head><title>Example</title><meta name="description" content="Example site"></head>
<body>
  <h1>Example</h1>
  <a href="/about">About</a>
  <a href="/blog">Blog</a>
  <a href="https://elsewhere.org/">Elsewhere</a>
</body>
</html>`

const aboutHTML = `<html><body><img src="/team.png"><a href="/">Home</a></body></html>`

// newFixtureClient serves a three page site; /blog is missing.
func newFixtureClient() *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			switch req.URL.Path {
			case "/":
				return responseWithBody(http.StatusOK, []byte(rootHTML), secureHeaders()), nil
			case "/about":
				return responseWithBody(http.StatusOK, []byte(aboutHTML), secureHeaders()), nil
			default:
				return responseWithBody(http.StatusNotFound, []byte("not found"), secureHeaders()), nil
			}
		}),
	}
}

func okLoadClient(calls *int64, mu *sync.Mutex) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			mu.Lock()
			*calls++
			mu.Unlock()

			return responseWithBody(http.StatusOK, []byte("ok"), nil), nil
		}),
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClock is frozen at fixtureTime and never sleeps.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Sleep(ctx context.Context, duration time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// steppingClock advances by step on every Now call.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.now
	c.now = c.now.Add(c.step)

	return current
}

func (c *steppingClock) Sleep(context.Context, time.Duration) error { return nil }
