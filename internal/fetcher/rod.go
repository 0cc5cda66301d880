package fetcher

import (
	"context"
	"fmt"
	"time"

	"quantweb/internal/browser"
	"quantweb/internal/scraper"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
)

func init() {
	scraper.Register(&RodFetcher{})
}

// RodFetcher renders pages in Chromium driven by rod.
type RodFetcher struct{}

func (f *RodFetcher) Name() string { return "rod" }

// Fetch launches a browser, loads target, scrolls to trigger lazy content and
// captures the document HTML. The browser is closed before returning.
func (f *RodFetcher) Fetch(ctx context.Context, target string, opts scraper.Options) (*scraper.FetchResult, error) {
	log := zerolog.Ctx(ctx).With().Str("engine", f.Name()).Str("url", target).Logger()
	startTime := time.Now()

	b, err := browser.New(browser.Config{
		Headless:  opts.Headless,
		ProxyURL:  opts.ProxyURL,
		UserAgent: opts.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Timeout(opts.Timeout).Navigate(target); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.Timeout(opts.Timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to wait for page load: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(startTime)).Msg("Page loaded")

	scrolls, err := scraper.AutoScroll(ctx, &rodScroller{page: page}, opts.MaxScrolls, opts.ScrollPause)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("scrolls", scrolls).Msg("Finished scrolling")

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get page HTML: %w", err)
	}

	result := &scraper.FetchResult{
		URL:      target,
		FinalURL: target,
		HTML:     html,
		Scrolls:  scrolls,
		LoadTime: time.Since(startTime),
	}
	if info, err := page.Info(); err == nil {
		result.FinalURL = info.URL
		result.Title = info.Title
	}
	return result, nil
}

type rodScroller struct {
	page *rod.Page
}

func (s *rodScroller) ScrollHeight(ctx context.Context) (int, error) {
	res, err := s.page.Context(ctx).Eval(`() => document.body ? document.body.scrollHeight : 0`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

func (s *rodScroller) ScrollToBottom(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}
