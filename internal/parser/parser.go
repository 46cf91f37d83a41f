package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// descriptionName is compared exactly, so name="Description" is not a meta description.
const descriptionName = "description"

// SEOData represents extracted SEO information.
type SEOData struct {
	HasTitle       bool
	Title          string
	HasDescription bool
	Description    string
	HasH1          bool
}

// AccessibilityData represents the accessibility facts of a page.
type AccessibilityData struct {
	HasHTMLTag      bool
	Lang            string
	Images          int
	UnlabeledImages int
}

// ParseResult aggregates HTML analysis results.
type ParseResult struct {
	Links         []string
	SEO           SEOData
	Accessibility AccessibilityData
}

// ParseHTML parses HTML and extracts links, SEO and accessibility facts.
// Missing SEO elements yield false flags and empty strings; text is HTML-decoded.
func ParseHTML(body []byte) (ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ParseResult{}, err
	}

	return ParseResult{
		Links:         parseLinks(doc),
		SEO:           parseSEO(doc),
		Accessibility: parseAccessibility(doc, body),
	}, nil
}

// ParseLinks returns the trimmed href of every anchor in document order.
func ParseLinks(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	return parseLinks(doc), nil
}

func parseSEO(doc *goquery.Document) SEOData {
	seo := SEOData{}

	titleSelection := doc.Find("title").First()
	if titleSelection.Length() > 0 {
		seo.Title = cleanHumanText(titleSelection.Text())
		seo.HasTitle = seo.Title != ""
	}

	hasDescription, description := findMetaDescription(doc)
	seo.HasDescription = hasDescription
	seo.Description = description

	seo.HasH1 = doc.Find("h1").Length() > 0

	return seo
}

func findMetaDescription(doc *goquery.Document) (bool, string) {
	var (
		found       bool
		description string
	)

	doc.Find("meta[name]").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		name, ok := selection.Attr("name")
		if !ok || name != descriptionName {
			return true
		}

		found = true
		content, _ := selection.Attr("content")
		description = cleanHumanText(content)

		return false
	})

	return found, description
}

func parseAccessibility(doc *goquery.Document, body []byte) AccessibilityData {
	data := AccessibilityData{
		HasHTMLTag: hasHTMLStartTag(body),
	}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		data.Lang = strings.TrimSpace(lang)
	}

	images := doc.Find("img")
	data.Images = images.Length()
	images.Each(func(_ int, selection *goquery.Selection) {
		alt, _ := selection.Attr("alt")
		if strings.TrimSpace(alt) == "" {
			data.UnlabeledImages++
		}
	})

	return data
}

// hasHTMLStartTag reports whether the markup itself opens an <html> element.
// The tree builder always synthesizes one, so the tokens are inspected instead;
// comments and script text never count.
func hasHTMLStartTag(body []byte) bool {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if atom.Lookup(name) == atom.Html {
				return true
			}
		}
	}
}

func parseLinks(doc *goquery.Document) []string {
	links := []string{}
	doc.Find("a[href]").Each(func(_ int, selection *goquery.Selection) {
		href, ok := selection.Attr("href")
		if !ok {
			return
		}

		links = append(links, strings.TrimSpace(href))
	})

	return links
}
