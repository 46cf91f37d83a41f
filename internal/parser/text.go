package parser

import (
	"html"
	"strings"
)

// cleanHumanText decodes leftover entities and collapses whitespace runs into single spaces.
func cleanHumanText(value string) string {
	return strings.Join(strings.Fields(html.UnescapeString(value)), " ")
}
