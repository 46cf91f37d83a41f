package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"siteprobe/internal/config"
	"siteprobe/internal/limiter"
	"siteprobe/internal/logging"
	"siteprobe/internal/report"
	"siteprobe/probe"
)

// Run executes the CLI and writes the report to stdout or --output.
// If URL is missing, it prints help and returns nil.
func Run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	client *http.Client,
	clock limiter.Timer,
) error {
	app := cli.NewApp()
	app.Name = config.AppName
	app.Usage = "audit a website, load test it and estimate the capacity it needs"
	app.UsageText = "siteprobe [global options] <url>"
	app.HideVersion = true
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "pages",
			Usage: "number of same-host pages to crawl (1-100)",
			Value: strconv.Itoa(config.DefaultPages),
		},
		cli.StringFlag{
			Name:  "users",
			Usage: "number of simulated concurrent users",
			Value: strconv.Itoa(config.DefaultUsers),
		},
		cli.IntFlag{
			Name:  "batch-size",
			Usage: "largest number of requests in flight during the load test",
			Value: config.DefaultBatchSize,
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
			Value: config.DefaultTimeout,
		},
		cli.DurationFlag{
			Name:  "target-latency",
			Usage: "mean latency the autoscale estimate aims for",
			Value: config.DefaultTargetLatency,
		},
		cli.DurationFlag{
			Name:  "crawl-delay",
			Usage: "delay between crawled pages (example: 200ms, 1s)",
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom user agent",
			Value: config.DefaultUserAgent,
		},
		cli.StringFlag{
			Name:  "format",
			Usage: "report format: json, markdown or text",
			Value: config.DefaultFormat,
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "write the report to `FILE` instead of stdout",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "load settings from a YAML `FILE`",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
	}
	app.Action = func(c *cli.Context) error {
		cfg, err := configFromCLI(c)
		if err != nil {
			return err
		}

		if cfg.URL == "" {
			_ = cli.ShowAppHelp(c)

			return nil
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := logging.New(stderr, cfg.Verbose)
		options := optionsFromConfig(cfg, client, clock)
		options.Logger = logger

		rep, runErr := probe.Run(ctx, options)
		if runErr != nil && !interrupted(runErr) {
			return runErr
		}

		// An interrupted run still carries the pages and samples collected so far.
		if err := writeReport(cfg, &rep, stdout); err != nil {
			return errors.Join(runErr, err)
		}

		return runErr
	}

	err := app.Run(args)
	if err != nil {
		return err
	}

	return nil
}

// configFromCLI layers explicitly set flags and the positional URL over the loaded configuration.
func configFromCLI(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if rootURL := strings.TrimSpace(c.Args().First()); rootURL != "" {
		cfg.URL = rootURL
	}

	if c.IsSet("pages") {
		cfg.Pages = intOrDefault(c.String("pages"), config.DefaultPages)
	}

	if c.IsSet("users") {
		cfg.Users = intOrDefault(c.String("users"), config.DefaultUsers)
	}

	if c.IsSet("batch-size") {
		cfg.BatchSize = c.Int("batch-size")
	}

	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}

	if c.IsSet("target-latency") {
		cfg.TargetLatency = c.Duration("target-latency")
	}

	if c.IsSet("crawl-delay") {
		cfg.CrawlDelay = c.Duration("crawl-delay")
	}

	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}

	if c.IsSet("format") {
		cfg.Format = strings.ToLower(c.String("format"))
	}

	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}

	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}

	cfg.Normalize()

	return cfg, nil
}

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// intOrDefault parses a count, falling back to def for malformed input.
func intOrDefault(value string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}

	return parsed
}

func optionsFromConfig(cfg *config.Config, client *http.Client, clock limiter.Timer) probe.Options {
	return probe.Options{
		URL:           cfg.URL,
		PageLimit:     cfg.Pages,
		Users:         cfg.Users,
		BatchSize:     cfg.BatchSize,
		Timeout:       cfg.Timeout,
		TargetLatency: cfg.TargetLatency,
		CrawlDelay:    cfg.CrawlDelay,
		UserAgent:     cfg.UserAgent,
		IndentJSON:    true,
		HTTPClient:    client,
		LoadClient:    client,
		Clock:         clock,
	}
}

func writeReport(cfg *config.Config, rep *probe.Report, stdout io.Writer) error {
	if cfg.Output == "" {
		return renderReport(cfg.Format, rep, stdout)
	}

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := renderReport(cfg.Format, rep, file); err != nil {
		_ = file.Close()

		return err
	}

	return file.Close()
}

func renderReport(format string, rep *probe.Report, output io.Writer) error {
	writer, err := report.NewWriter(format, output)
	if err != nil {
		return err
	}

	return writer.Write(rep)
}
