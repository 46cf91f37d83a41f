// Package audit turns a single fetch into a page audit record.
package audit

import (
	"net/http"
	"net/url"

	"siteprobe/internal/fetcher"
	"siteprobe/internal/model"
	"siteprobe/internal/parser"
)

// SecurityHeaders are the response headers every page is expected to send, in reporting order.
var SecurityHeaders = []string{
	"Content-Security-Policy",
	"Strict-Transport-Security",
	"X-Frame-Options",
	"X-Content-Type-Options",
}

// Findings reported by the auditor.
const (
	FindingNoHTTPS         = "Site is not using HTTPS"
	FindingMissingHeader   = "Missing security header: "
	FindingMissingTitle    = "Missing <title> tag"
	FindingMissingMetaDesc = "Missing meta description"
	FindingMissingH1       = "Missing <h1> heading"
	FindingMissingLang     = "<html> tag missing 'lang' attribute"
	FindingImageMissingAlt = "Image missing alt attribute"
	fallbackFetchError     = "Fetch error"
)

// Audit builds the record for pageURL from a fetch outcome.
// A non-nil fetchErr yields an error record with no findings.
func Audit(pageURL string, result fetcher.Result, fetchErr error) model.PageAudit {
	record := model.PageAudit{
		URL:           pageURL,
		Security:      []string{},
		SEO:           []string{},
		Accessibility: []string{},
	}

	if fetchErr != nil {
		record.Status = model.StatusError()
		record.Error = fetchErr.Error()
		if record.Error == "" {
			record.Error = fallbackFetchError
		}

		return record
	}

	record.Status = model.StatusCode(result.StatusCode)
	record.LoadTimeSeconds = model.Float(result.Seconds())
	record.Security = securityFindings(pageURL, result.Header)

	page, err := parser.ParseHTML(result.Body)
	if err != nil {
		// An unparsable body has no markup facts; treat it as an empty document.
		page = parser.ParseResult{}
	}

	record.SEO = seoFindings(page.SEO)
	record.Accessibility = accessibilityFindings(page.Accessibility)

	return record
}

func securityFindings(pageURL string, header http.Header) []string {
	findings := []string{}

	if parsed, err := url.Parse(pageURL); err != nil || parsed.Scheme != "https" {
		findings = append(findings, FindingNoHTTPS)
	}

	for _, name := range SecurityHeaders {
		if len(header.Values(name)) == 0 {
			findings = append(findings, FindingMissingHeader+name)
		}
	}

	return findings
}

func seoFindings(seo parser.SEOData) []string {
	findings := []string{}

	if !seo.HasTitle {
		findings = append(findings, FindingMissingTitle)
	}

	if !seo.HasDescription {
		findings = append(findings, FindingMissingMetaDesc)
	}

	if !seo.HasH1 {
		findings = append(findings, FindingMissingH1)
	}

	return findings
}

func accessibilityFindings(data parser.AccessibilityData) []string {
	findings := []string{}

	if data.HasHTMLTag && data.Lang == "" {
		findings = append(findings, FindingMissingLang)
	}

	if data.UnlabeledImages > 0 {
		findings = append(findings, FindingImageMissingAlt)
	}

	return findings
}
