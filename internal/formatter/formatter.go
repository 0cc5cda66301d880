// Package formatter turns scraped content into one of the stdout formats.
package formatter

import (
	"fmt"
	"strings"

	"quantweb/internal/scraper"
)

type renderFunc func(scraper.Content) (string, error)

func toJSON(c scraper.Content) (string, error) {
	b, err := c.ToJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var renderers = map[string]renderFunc{
	"text":     scraper.Content.ToText,
	"csv":      scraper.Content.ToCSV,
	"markdown": scraper.Content.ToMarkdown,
	"json":     toJSON,
	"html":     scraper.Content.ToHTML,
}

var aliases = map[string]string{
	"txt": "text",
	"md":  "markdown",
	"htm": "html",
}

func canonical(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if name, ok := aliases[format]; ok {
		return name
	}
	return format
}

// Supported reports whether format, or one of its aliases, is known.
func Supported(format string) bool {
	_, ok := renderers[canonical(format)]
	return ok
}

func Format(content scraper.Content, format string) (string, error) {
	render, ok := renderers[canonical(format)]
	if !ok {
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
	return render(content)
}
