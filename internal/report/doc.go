// Package report renders a probe run as JSON, Markdown or plain text tables.
package report
