// Package advice derives operator recommendations and chart projections from a probe run.
package advice

import (
	"fmt"
	"strconv"
	"strings"

	"siteprobe/internal/model"
)

// SlowAverageSeconds is the mean latency above which performance advice is given.
const SlowAverageSeconds = 1.5

// Advisory texts, in the order they are emitted.
const (
	EnableHTTPS        = "Enable HTTPS and redirect HTTP to HTTPS."
	AddSecurityHeaders = "Add missing headers: Content-Security-Policy, Strict-Transport-Security, X-Frame-Options, X-Content-Type-Options."
	AddTitleAndMeta    = "Add a concise, unique <title> and meta description to every page."
	SingleH1           = "Ensure each page has exactly one <h1> that matches page intent."
	AddAltText         = "Add meaningful alt text to informative images (skip decorative)."
	SetHTMLLang        = "Set <html lang=...> to the primary language of the content."
	autoscaleFormat    = "Autoscale to ~%d instances to keep mean latency ~%ss under load."
	AddCDN             = "Add a CDN for static assets; enable HTTP/2 and compression (gzip/brotli)."
	AddCaching         = "Introduce server-side caching for expensive routes; consider a reverse proxy cache."
	PoolDatabase       = "Use connection pooling for DB; add read replicas if DB bound."
	RateLimitWrites    = "Implement rate limiting and a queue for bursty write operations."
	CapacityOK         = "Current capacity looks okay; keep autoscaling rules in place for spikes."
	AddObservability   = "Implement observability: SLIs/SLOs, structured logs, distributed tracing."
	AddCIChecks        = "Add automated CI checks for Lighthouse/axe-core and security headers."
)

// Recommend returns the advisories that apply to a run, de-duplicated in first-seen order.
func Recommend(records []model.PageAudit, summary model.LoadSummary, estimate model.ScaleEstimate) []string {
	var recs []string

	issues := Issues(records)

	if issues.Security > 0 {
		recs = append(recs, EnableHTTPS, AddSecurityHeaders)
	}

	if issues.SEO > 0 {
		recs = append(recs, AddTitleAndMeta, SingleH1)
	}

	if issues.Accessibility > 0 {
		recs = append(recs, AddAltText, SetHTMLLang)
	}

	if summary.AvgSeconds != nil && *summary.AvgSeconds > SlowAverageSeconds {
		recs = append(recs,
			Autoscale(estimate),
			AddCDN,
			AddCaching,
			PoolDatabase,
			RateLimitWrites,
		)
	} else {
		recs = append(recs, CapacityOK)
	}

	recs = append(recs, AddObservability, AddCIChecks)

	return dedupe(recs)
}

// Autoscale renders the scaling advisory for estimate.
func Autoscale(estimate model.ScaleEstimate) string {
	return fmt.Sprintf(autoscaleFormat, estimate.Servers, formatSeconds(estimate.ScaledAvgSeconds))
}

// formatSeconds prints the shortest decimal form, always with a fractional part ("2.0", "1.333").
func formatSeconds(v *float64) string {
	seconds := 0.0
	if v != nil {
		seconds = *v
	}

	s := strconv.FormatFloat(seconds, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))

	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}

		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}
