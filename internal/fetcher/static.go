package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quantweb/internal/scraper"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

func init() {
	scraper.Register(&StaticFetcher{})
}

// StaticFetcher downloads the server-rendered HTML with colly. It executes no
// JavaScript, so lazy-loaded content never appears and no scrolling happens.
type StaticFetcher struct{}

func (f *StaticFetcher) Name() string { return "static" }

func (f *StaticFetcher) Fetch(ctx context.Context, target string, opts scraper.Options) (*scraper.FetchResult, error) {
	log := zerolog.Ctx(ctx).With().Str("engine", f.Name()).Str("url", target).Logger()
	startTime := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := colly.NewCollector(colly.UserAgent(opts.UserAgent))
	if opts.Timeout > 0 {
		collector.SetRequestTimeout(opts.Timeout)
	}
	if opts.ProxyURL != "" {
		if err := collector.SetProxy(opts.ProxyURL); err != nil {
			return nil, fmt.Errorf("failed to set proxy: %w", err)
		}
	}

	result := &scraper.FetchResult{URL: target, FinalURL: target}
	var fetchErr error
	collector.OnResponse(func(r *colly.Response) {
		result.HTML = string(r.Body)
		result.FinalURL = r.Request.URL.String()
	})
	collector.OnHTML("title", func(e *colly.HTMLElement) {
		if result.Title == "" {
			result.Title = strings.TrimSpace(e.Text)
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(target); err != nil {
		return nil, fmt.Errorf("failed to visit: %w", err)
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch: %w", fetchErr)
	}

	result.LoadTime = time.Since(startTime)
	log.Debug().Int("bytes", len(result.HTML)).Dur("elapsed", result.LoadTime).Msg("Page downloaded")
	return result, nil
}
