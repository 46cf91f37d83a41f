package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"siteprobe/internal/model"
)

// MarkdownWriter outputs reports as GitHub flavored Markdown with a mermaid issue chart.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeIssues(md, report)
	w.writePages(md, report)
	w.writeLoad(md, report)
	w.writeScale(md, report)
	w.writeRecommendations(md, report)

	return md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Site Probe Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Generated", report.GeneratedAt},
			{"Pages Crawled", strconv.Itoa(len(report.Pages)) + " / " + strconv.Itoa(report.PageLimit)},
			{"Simulated Users", strconv.Itoa(report.Users)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, report *model.Report) {
	issues := report.Issues

	md.H2("Issues")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Count"},
		Rows: [][]string{
			{"Security", strconv.Itoa(issues.Security)},
			{"SEO", strconv.Itoa(issues.SEO)},
			{"Accessibility", strconv.Itoa(issues.Accessibility)},
			{"**Total**", "**" + strconv.Itoa(issues.Total) + "**"},
		},
	})
	md.PlainText("")

	if issues.Total > 0 {
		w.writePieChart(md, issues)
	}

	switch {
	case issues.Security > 0:
		md.Warningf("%d security finding(s) across the crawled pages.", issues.Security)
	case issues.Total > 0:
		md.Note("No security findings; SEO or accessibility issues remain.")
	default:
		md.Tip("No issues detected on the crawled pages.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, issues model.IssueCounts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issues by Category"),
		piechart.WithShowData(true),
	)

	if issues.Security > 0 {
		chart.LabelAndIntValue("Security", uint64(issues.Security))
	}
	if issues.SEO > 0 {
		chart.LabelAndIntValue("SEO", uint64(issues.SEO))
	}
	if issues.Accessibility > 0 {
		chart.LabelAndIntValue("Accessibility", uint64(issues.Accessibility))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.Report) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Pages) == 0 {
		md.PlainText("No pages were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Pages))
	for i, page := range report.Pages {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			page.URL,
			page.Status.String(),
			loadTime(page),
			strconv.Itoa(len(page.Security)),
			strconv.Itoa(len(page.SEO)),
			strconv.Itoa(len(page.Accessibility)),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "URL", "Status", "Load Time", "Security", "SEO", "Accessibility"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, page := range report.Pages {
		if page.Error != "" {
			md.H3(page.URL)
			md.PlainText("")
			md.Warningf("Fetch failed: %s", page.Error)
			md.PlainText("")

			continue
		}

		if page.FindingCount() == 0 {
			continue
		}

		findings := make([]string, 0, page.FindingCount())
		findings = append(findings, page.Security...)
		findings = append(findings, page.SEO...)
		findings = append(findings, page.Accessibility...)

		md.H3(page.URL)
		md.PlainText("")
		md.BulletList(findings...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeLoad(md *markdown.Markdown, report *model.Report) {
	load := report.Load

	md.H2("Load Test")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Requests", strconv.Itoa(load.Total)},
			{"Successful (200)", strconv.Itoa(load.Success)},
			{"Failures", strconv.Itoa(load.Failures)},
			{"Mean Latency", formatSeconds(load.AvgSeconds)},
			{"p95 Latency", formatSeconds(load.P95Seconds)},
		},
	})
	md.PlainText("")

	if len(load.Histogram) == 0 {
		return
	}

	rows := make([][]string, 0, len(load.Histogram))
	for _, bucket := range load.Histogram {
		rows = append(rows, []string{
			strconv.FormatFloat(bucket.Bucket, 'f', 1, 64) + "s",
			strconv.Itoa(bucket.Count),
		})
	}

	md.H3("Latency Histogram")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Bucket", "Requests"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeScale(md *markdown.Markdown, report *model.Report) {
	scale := report.Scale

	md.H2("Autoscale Estimate")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Servers", "Scaled Mean Latency", "Processed", "Failed"},
		Rows: [][]string{{
			strconv.Itoa(scale.Servers),
			formatSeconds(scale.ScaledAvgSeconds),
			strconv.Itoa(scale.Processed),
			strconv.Itoa(scale.Failed),
		}},
	})
	md.PlainText("")

	if len(report.ScaleCurve) == 0 {
		return
	}

	rows := make([][]string, 0, len(report.ScaleCurve))
	for i, point := range report.ScaleCurve {
		rows = append(rows, []string{strconv.Itoa(i + 1), formatSeconds(&point)})
	}

	md.H3("Projected Mean Latency")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Servers", "Mean Latency"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.Report) {
	md.H2("Recommendations")
	md.PlainText("")
	md.BulletList(report.Recommendations...)
	md.PlainText("")
}
