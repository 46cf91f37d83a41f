package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for the XDG config directory and environment prefix.
	AppName = "siteprobe"

	DefaultPages     = 2
	MinPages         = 1
	MaxPages         = 100
	DefaultUsers     = 150
	DefaultBatchSize = 300

	// DefaultTimeout bounds every crawl and load test request.
	DefaultTimeout = 12 * time.Second

	// DefaultTargetLatency is the mean latency the autoscale estimate aims for.
	DefaultTargetLatency = 1500 * time.Millisecond

	// DefaultUserAgent is a browser-like agent so sites serve their normal markup.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

	DefaultFormat = FormatJSON
)

// Report formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Config holds every setting of a probe run.
type Config struct {
	URL           string        `yaml:"url"`
	Pages         int           `yaml:"pages"`
	Users         int           `yaml:"users"`
	BatchSize     int           `yaml:"batch_size"`
	Timeout       time.Duration `yaml:"timeout"`
	TargetLatency time.Duration `yaml:"target_latency"`

	// CrawlDelay is the pause between crawled pages. Zero disables pacing.
	CrawlDelay time.Duration `yaml:"crawl_delay"`
	UserAgent  string        `yaml:"user_agent"`

	Format string `yaml:"format"`
	// Output is the report file; empty means stdout.
	Output  string `yaml:"output"`
	Verbose bool   `yaml:"verbose"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Pages:         DefaultPages,
		Users:         DefaultUsers,
		BatchSize:     DefaultBatchSize,
		Timeout:       DefaultTimeout,
		TargetLatency: DefaultTargetLatency,
		UserAgent:     DefaultUserAgent,
		Format:        DefaultFormat,
	}
}

// XDGConfigDir returns the XDG config directory for siteprobe
// (~/.config/siteprobe on Linux).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Normalize brings out-of-range inputs back to usable values:
// pages are clamped to [1,100] and a non-positive user count becomes the default.
func (c *Config) Normalize() {
	c.Pages = ClampPages(c.Pages)

	if c.Users <= 0 {
		c.Users = DefaultUsers
	}
}

// ClampPages limits a page count to [MinPages, MaxPages].
func ClampPages(pages int) int {
	return max(MinPages, min(pages, MaxPages))
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	switch c.Format {
	case FormatJSON, FormatMarkdown, FormatText:
	default:
		return ErrInvalidFormat
	}

	if c.TargetLatency <= 0 {
		return ErrInvalidTargetLatency
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	return nil
}
