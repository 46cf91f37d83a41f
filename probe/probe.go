// Package probe crawls and audits a site, load tests its entry URL and derives
// capacity advice from the results.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"siteprobe/internal/advice"
	"siteprobe/internal/config"
	"siteprobe/internal/crawl"
	"siteprobe/internal/fetcher"
	"siteprobe/internal/limiter"
	"siteprobe/internal/loadgen"
	"siteprobe/internal/report"
	"siteprobe/internal/scale"
	"siteprobe/internal/stats"
	"siteprobe/internal/urlutil"
)

var (
	// ErrURLRequired is returned when Options.URL is empty.
	ErrURLRequired = errors.New("url is required")

	// ErrInvalidURL is returned when Options.URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
)

// Analyze runs the probe and returns the JSON report as bytes.
// IndentJSON affects formatting only, and the output always ends with a newline.
func Analyze(ctx context.Context, opts Options) ([]byte, error) {
	rep, err := Run(ctx, opts)

	data, marshalErr := report.Marshal(&rep, opts.IndentJSON)
	if marshalErr != nil {
		return nil, errors.Join(err, marshalErr)
	}

	return data, err
}

// Run crawls up to PageLimit pages of the target host, then load tests the target URL
// with Users requests, and summarizes both. A done context stops the crawl and skips
// the remaining waves; the partial report is returned with the context error.
func Run(ctx context.Context, opts Options) (Report, error) {
	opts = normalizeOptions(opts)

	rawURL := strings.TrimSpace(opts.URL)
	rep := newReport(opts)
	rep.URL = rawURL

	if rawURL == "" {
		return rep, ErrURLRequired
	}

	target, err := urlutil.Canonical(rawURL)
	if err != nil {
		return rep, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	rep.URL = target.String()
	logger := opts.Logger

	logger.Info("crawl started", "url", rep.URL, "pages", opts.PageLimit)

	pacing := limiter.NewWithTimer(opts.CrawlDelay, opts.Clock)
	fetch := fetcher.New(opts.HTTPClient, opts.Timeout, opts.UserAgent, pacing, 0, opts.Clock)
	rep.Pages = crawl.New(fetch, crawl.WithLogger(logger)).Crawl(ctx, rep.URL, opts.PageLimit)

	rep.Issues = advice.Issues(rep.Pages)
	logger.Info("crawl finished", "pages", len(rep.Pages), "issues", rep.Issues.Total)

	logger.Info("load test started", "users", opts.Users, "batch", opts.BatchSize)

	genOpts := []loadgen.Option{
		loadgen.WithBatchSize(opts.BatchSize),
		loadgen.WithTimeout(opts.Timeout),
		loadgen.WithUserAgent(opts.UserAgent),
		loadgen.WithClock(opts.Clock),
		loadgen.WithLogger(logger),
	}
	if opts.LoadClient != nil {
		genOpts = append(genOpts, loadgen.WithClient(opts.LoadClient))
	}

	samples := loadgen.New(genOpts...).Run(ctx, rep.URL, opts.Users)

	rep.Load = stats.Summarize(samples)
	rep.Scale = scale.Estimate(rep.Load.AvgSeconds, opts.TargetLatency.Seconds(), rep.Load)
	rep.Recommendations = advice.Recommend(rep.Pages, rep.Load, rep.Scale)
	rep.PageLabels = advice.PageLabels(rep.Pages)
	rep.PageLoadSeries = advice.PageLoadSeries(rep.Pages)
	rep.ScaleCurve = advice.ScaleCurve(rep.Load.AvgSeconds, rep.Scale.Servers)

	logger.Info("load test finished",
		"total", rep.Load.Total,
		"failures", rep.Load.Failures,
		"servers", rep.Scale.Servers,
	)

	return rep, ctx.Err()
}

func normalizeOptions(opts Options) Options {
	opts.PageLimit = config.ClampPages(opts.PageLimit)

	if opts.Users <= 0 {
		opts.Users = config.DefaultUsers
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = loadgen.DefaultBatchSize
	}

	if opts.Timeout <= 0 {
		opts.Timeout = fetcher.DefaultTimeout
	}

	if opts.TargetLatency <= 0 {
		opts.TargetLatency = time.Duration(scale.DefaultTargetSeconds * float64(time.Second))
	}

	if opts.Clock == nil {
		opts.Clock = limiter.NewClock()
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return opts
}

func newReport(opts Options) Report {
	return Report{
		URL:             opts.URL,
		PageLimit:       opts.PageLimit,
		Users:           opts.Users,
		GeneratedAt:     opts.Clock.Now().UTC().Format(time.RFC3339),
		Pages:           []PageAudit{},
		Load:            stats.Summarize(nil),
		Scale:           ScaleEstimate{Servers: 1},
		Recommendations: []string{},
		PageLabels:      []string{},
		PageLoadSeries:  []float64{},
		ScaleCurve:      []float64{},
	}
}
