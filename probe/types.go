package probe

import (
	"log/slog"
	"net/http"
	"time"

	"siteprobe/internal/limiter"
	"siteprobe/internal/model"
)

// Options configures a probe run.
// PageLimit is clamped to [1,100] and a non-positive Users becomes 150.
// Zero BatchSize, Timeout and TargetLatency fall back to 300, 12s and 1.5s.
// CrawlDelay paces page fetches; zero disables it. IndentJSON affects Analyze only.
type Options struct {
	URL           string
	PageLimit     int
	Users         int
	BatchSize     int
	Timeout       time.Duration
	TargetLatency time.Duration
	CrawlDelay    time.Duration
	UserAgent     string
	IndentJSON    bool

	// HTTPClient serves the crawl. LoadClient is the shared load test session;
	// when nil a pooled client sized to BatchSize is built.
	HTTPClient *http.Client
	LoadClient *http.Client
	Clock      limiter.Timer
	Logger     *slog.Logger
}

// Report is the outcome of a probe run.
type Report = model.Report

// PageAudit is the audit record of one crawled page.
type PageAudit = model.PageAudit

// LoadSummary aggregates the load test samples.
type LoadSummary = model.LoadSummary

// ScaleEstimate is the autoscale suggestion.
type ScaleEstimate = model.ScaleEstimate

// IssueCounts sums findings per category.
type IssueCounts = model.IssueCounts
