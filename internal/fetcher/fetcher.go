package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"siteprobe/internal/limiter"
)

const (
	// DefaultTimeout bounds every request issued by the probe.
	DefaultTimeout = 12 * time.Second
	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024
	// DefaultUserAgent is a browser-like agent so sites serve their normal markup.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

var errInvalidRequest = errors.New("invalid request")

// Result contains the HTTP response data and how long the round trip took.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
}

// Seconds returns the elapsed time in seconds rounded to milliseconds.
func (r Result) Seconds() float64 {
	return Seconds(r.Elapsed)
}

// Fetcher performs single timed GET requests.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	limiter     *limiter.Limiter
	maxBodySize int64
	clock       limiter.Timer
}

// New creates a Fetcher with the provided configuration.
// Zero timeout and body size fall back to the defaults; a nil clock uses wall time.
func New(
	client *http.Client,
	timeout time.Duration,
	userAgent string,
	rateLimiter *limiter.Limiter,
	maxBodySize int64,
	clock limiter.Timer,
) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}

	if clock == nil {
		clock = limiter.NewClock()
	}

	return &Fetcher{
		client:      client,
		timeout:     timeout,
		userAgent:   userAgent,
		limiter:     rateLimiter,
		maxBodySize: maxBodySize,
		clock:       clock,
	}
}

// Fetch performs exactly one GET request and measures it.
// Any HTTP response, whatever its status, is a successful fetch; the error is
// reserved for transport failures, timeouts and unreadable bodies.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return Result{}, err
		}
	}

	return f.doRequest(ctx, rawURL)
}

func (f *Fetcher) doRequest(ctx context.Context, rawURL string) (Result, error) {
	requestCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	if parsedURL.Path == "" {
		parsedURL.Path = "/"
	}

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	if f.userAgent != "" {
		request.Header.Set("User-Agent", f.userAgent)
	}

	start := f.clock.Now()

	response, err := f.client.Do(request)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(response.Body, f.maxBodySize))
	if err != nil {
		return Result{StatusCode: response.StatusCode, Header: response.Header}, fmt.Errorf("read body: %w", err)
	}

	return Result{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       body,
		Elapsed:    f.clock.Now().Sub(start),
	}, nil
}

// Seconds converts a duration to seconds rounded to three decimals.
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

// IsInvalidRequest reports whether err came from a URL that could not be turned into a request.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, errInvalidRequest)
}
