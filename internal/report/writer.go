package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"siteprobe/internal/model"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names accepted by NewWriter.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Writer renders a report to its destination.
type Writer interface {
	Write(report *model.Report) error
}

// NewWriter returns the writer for format. JSON output is indented.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatText:
		return NewTextWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

func formatSeconds(v *float64) string {
	if v == nil {
		return "n/a"
	}

	return strconv.FormatFloat(*v, 'f', 3, 64) + "s"
}

func loadTime(record model.PageAudit) string {
	if record.LoadTimeSeconds == nil {
		return "-"
	}

	return formatSeconds(record.LoadTimeSeconds)
}
