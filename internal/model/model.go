package model

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorStatus is the status marker rendered for pages and samples whose fetch failed.
const ErrorStatus = "Error"

// PageAudit is the audit record for one crawled URL.
// A failed fetch leaves every finding list empty and sets Error.
type PageAudit struct {
	URL             string   `json:"url"`
	Status          Status   `json:"status"`
	LoadTimeSeconds *float64 `json:"load_time"`
	Security        []string `json:"security"`
	SEO             []string `json:"seo"`
	Accessibility   []string `json:"accessibility"`
	Error           string   `json:"error"`
}

// FindingCount returns the number of findings across all categories.
func (p PageAudit) FindingCount() int {
	return len(p.Security) + len(p.SEO) + len(p.Accessibility)
}

// Status is an HTTP status code or the error marker.
type Status struct {
	Code   int
	Failed bool
}

// StatusCode builds a successful-fetch status.
func StatusCode(code int) Status {
	return Status{Code: code}
}

// StatusError is the error marker.
func StatusError() Status {
	return Status{Failed: true}
}

// IsOK reports whether the status is a plain HTTP 200.
func (s Status) IsOK() bool {
	return !s.Failed && s.Code == http.StatusOK
}

// String renders the status the way reports show it.
func (s Status) String() string {
	if s.Failed {
		return ErrorStatus
	}

	return strconv.Itoa(s.Code)
}

// MarshalJSON renders a number for real statuses and "Error" for failures.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.Failed {
		return json.Marshal(ErrorStatus)
	}

	return json.Marshal(s.Code)
}

// LoadSample is the outcome of one simulated request.
// ElapsedSeconds is nil when the request failed.
type LoadSample struct {
	Status         Status   `json:"status"`
	ElapsedSeconds *float64 `json:"time"`
	Error          string   `json:"error,omitempty"`
}

// HistogramBucket counts timed samples whose latency floors to Bucket (0.1s steps).
type HistogramBucket struct {
	Bucket float64 `json:"bucket"`
	Count  int     `json:"count"`
}

// LoadSummary aggregates load samples.
type LoadSummary struct {
	Total      int               `json:"total"`
	Success    int               `json:"success"`
	Failures   int               `json:"failures"`
	AvgSeconds *float64          `json:"avg"`
	P95Seconds *float64          `json:"p95"`
	Histogram  []HistogramBucket `json:"histogram"`
}

// ScaleEstimate is the autoscaler's suggestion.
type ScaleEstimate struct {
	Servers          int      `json:"servers"`
	ScaledAvgSeconds *float64 `json:"scaled_avg"`
	Processed        int      `json:"processed"`
	Failed           int      `json:"failed"`
}

// IssueCounts sums findings per category over a crawl.
type IssueCounts struct {
	Security      int `json:"security"`
	SEO           int `json:"seo"`
	Accessibility int `json:"accessibility"`
	Total         int `json:"total"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Report is the complete outcome of one probe run.
type Report struct {
	URL             string        `json:"url"`
	PageLimit       int           `json:"page_limit"`
	Users           int           `json:"users"`
	GeneratedAt     string        `json:"generated_at"`
	Pages           []PageAudit   `json:"pages"`
	Issues          IssueCounts   `json:"issues"`
	Load            LoadSummary   `json:"load"`
	Scale           ScaleEstimate `json:"scale"`
	Recommendations []string      `json:"recommendations"`
	PageLabels      []string      `json:"page_labels"`
	PageLoadSeries  []float64     `json:"page_load_series"`
	ScaleCurve      []float64     `json:"scale_curve"`
}
