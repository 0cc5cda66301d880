package scraper

import (
	"context"
	"time"
)

const (
	DefaultMaxScrolls  = 5
	DefaultScrollPause = 2 * time.Second
	DefaultTimeout     = 60 * time.Second
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Fetcher renders a single page and returns its final HTML.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, target string, opts Options) (*FetchResult, error)
}

// Content is anything the formatter can render to an output format.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

type Options struct {
	Headless    bool
	UserAgent   string
	ProxyURL    string
	Timeout     time.Duration
	MaxScrolls  int
	ScrollPause time.Duration
}

// DefaultOptions returns headless options with the fixed user agent and scroll budget.
func DefaultOptions() Options {
	return Options{
		Headless:    true,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		MaxScrolls:  DefaultMaxScrolls,
		ScrollPause: DefaultScrollPause,
	}
}

// FetchResult is the captured state of a rendered page.
type FetchResult struct {
	URL      string        // Requested URL
	FinalURL string        // URL after redirects
	Title    string        // Page title
	HTML     string        // Rendered document HTML
	Scrolls  int           // Scroll cycles performed
	LoadTime time.Duration // Time from launch to capture
}
