package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/rodaine/table"

	"siteprobe/internal/model"
)

// TextWriter outputs reports as aligned plain text tables for terminals.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders every section into a buffer and writes it in one call.
func (w *TextWriter) Write(report *model.Report) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "SITE PROBE REPORT\n")
	fmt.Fprintf(&buf, "URL:        %s\n", report.URL)
	fmt.Fprintf(&buf, "Generated:  %s\n", report.GeneratedAt)
	fmt.Fprintf(&buf, "Pages:      %d of %d\n", len(report.Pages), report.PageLimit)
	fmt.Fprintf(&buf, "Users:      %d\n", report.Users)

	section(&buf, "PAGES")
	pages := table.New("#", "URL", "Status", "Load Time", "Security", "SEO", "Accessibility").WithWriter(&buf)
	for i, page := range report.Pages {
		pages.AddRow(i+1, page.URL, page.Status.String(), loadTime(page),
			len(page.Security), len(page.SEO), len(page.Accessibility))
	}
	pages.Print()

	issues := report.Issues
	fmt.Fprintf(&buf, "\nIssues: %d total (security %d, seo %d, accessibility %d)\n",
		issues.Total, issues.Security, issues.SEO, issues.Accessibility)

	section(&buf, "LOAD TEST")
	load := table.New("Requests", "Success", "Failures", "Mean", "p95").WithWriter(&buf)
	load.AddRow(report.Load.Total, report.Load.Success, report.Load.Failures,
		formatSeconds(report.Load.AvgSeconds), formatSeconds(report.Load.P95Seconds))
	load.Print()

	if len(report.Load.Histogram) > 0 {
		buf.WriteString("\n")
		histogram := table.New("Bucket", "Requests").WithWriter(&buf)
		for _, bucket := range report.Load.Histogram {
			histogram.AddRow(strconv.FormatFloat(bucket.Bucket, 'f', 1, 64)+"s", bucket.Count)
		}
		histogram.Print()
	}

	section(&buf, "AUTOSCALE")
	scale := table.New("Servers", "Scaled Mean", "Processed", "Failed").WithWriter(&buf)
	scale.AddRow(report.Scale.Servers, formatSeconds(report.Scale.ScaledAvgSeconds),
		report.Scale.Processed, report.Scale.Failed)
	scale.Print()

	section(&buf, "RECOMMENDATIONS")
	for i, rec := range report.Recommendations {
		fmt.Fprintf(&buf, "%2d. %s\n", i+1, rec)
	}

	_, err := w.output.Write(buf.Bytes())

	return err
}

func section(buf *bytes.Buffer, title string) {
	fmt.Fprintf(buf, "\n%s\n", title)
}
