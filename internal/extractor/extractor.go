// Package extractor applies an interpreted selector to fetched HTML and
// reshapes the matched nodes into tables, a text block or a flat list.
package extractor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"quantweb/internal/query"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var ErrNoSelector = errors.New("no selector")

// ResultSet holds the outcome of one extraction. Only the field matching
// Shape is populated: Tables for table_data, Text for text_block, Items
// for the list shapes.
type ResultSet struct {
	Shape     query.Shape `json:"shape"`
	Query     string      `json:"query,omitempty"`
	Selector  string      `json:"selector"`
	SourceURL string      `json:"source_url"`
	Tables    []Table     `json:"tables,omitempty"`
	Text      string      `json:"text,omitempty"`
	Items     []string    `json:"items,omitempty"`
}

// Len returns the number of tables or list items; text blocks count as one
// when non-empty.
func (r *ResultSet) Len() int {
	switch {
	case r.Shape == query.ShapeTable:
		return len(r.Tables)
	case r.Shape == query.ShapeTextBlock:
		if r.Text == "" {
			return 0
		}
		return 1
	default:
		return len(r.Items)
	}
}

// Extract runs spec against the HTML fetched from sourceURL.
func Extract(htmlContent, sourceURL string, spec query.SelectorSpec) (*ResultSet, error) {
	if !spec.OK() {
		return nil, ErrNoSelector
	}

	rs := &ResultSet{Shape: spec.Shape, Selector: spec.Selector, SourceURL: sourceURL}
	if spec.Shape == query.ShapeTable {
		tables, err := ParseTables(htmlContent)
		if err != nil {
			return nil, err
		}
		rs.Tables = tables
		return rs, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	matcher, err := cascadia.Compile(spec.Selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", spec.Selector, err)
	}
	matched := doc.FindMatcher(matcher)

	switch spec.Shape {
	case query.ShapeTextBlock:
		rs.Text = textBlock(matched)
	case query.ShapeSrc:
		rs.Items = attributeList(matched, "src", sourceURL, isInlineImage)
	case query.ShapeHref:
		rs.Items = attributeList(matched, "href", sourceURL, nil)
	default:
		rs.Items = textList(matched)
	}
	if rs.Shape.IsList() && rs.Items == nil {
		rs.Items = []string{}
	}
	return rs, nil
}

func textBlock(sel *goquery.Selection) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := collapse(strings.Join(visibleText(s), "")); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func textList(sel *goquery.Selection) []string {
	var items []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := collapse(strings.Join(visibleText(s), " ")); text != "" {
			items = append(items, text)
		}
	})
	return items
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attributeList(sel *goquery.Selection, attr, base string, skip func(string) bool) []string {
	var items []string
	sel.Each(func(_ int, s *goquery.Selection) {
		value, exists := s.Attr(attr)
		if !exists || value == "" {
			return
		}
		if skip != nil && skip(value) {
			return
		}
		items = append(items, resolveURL(base, value))
	})
	return items
}

// isInlineImage reports whether value is a base64 data URI image, which
// lazy-loading pages use as placeholders.
func isInlineImage(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(v, "data:image/") && strings.Contains(v, ";base64")
}

func resolveURL(base, ref string) string {
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

var hiddenElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// visibleText returns the text nodes under s in document order, skipping
// scripts, styles and comments.
func visibleText(s *goquery.Selection) []string {
	var fragments []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			fragments = append(fragments, n.Data)
			return
		case html.ElementNode:
			if hiddenElements[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return fragments
}
