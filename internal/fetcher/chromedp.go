package fetcher

import (
	"context"
	"fmt"
	"time"

	"quantweb/internal/scraper"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

func init() {
	scraper.Register(&ChromedpFetcher{})
}

// ChromedpFetcher renders pages through the DevTools protocol using chromedp.
type ChromedpFetcher struct{}

func (f *ChromedpFetcher) Name() string { return "chromedp" }

func (f *ChromedpFetcher) Fetch(ctx context.Context, target string, opts scraper.Options) (*scraper.FetchResult, error) {
	log := zerolog.Ctx(ctx).With().Str("engine", f.Name()).Str("url", target).Logger()
	startTime := time.Now()

	// The deadline covers navigation plus the full scroll budget.
	budget := opts.Timeout + time.Duration(opts.MaxScrolls)*opts.ScrollPause
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var (
		html     string
		finalURL string
		title    string
		scrolls  int
	)
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			scrolls, err = scraper.AutoScroll(ctx, cdpScroller{}, opts.MaxScrolls, opts.ScrollPause)
			return err
		}),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	log.Debug().Int("scrolls", scrolls).Dur("elapsed", time.Since(startTime)).Msg("Page rendered")

	return &scraper.FetchResult{
		URL:      target,
		FinalURL: finalURL,
		Title:    title,
		HTML:     html,
		Scrolls:  scrolls,
		LoadTime: time.Since(startTime),
	}, nil
}

func allocatorOptions(opts scraper.Options) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ProxyURL != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.ProxyURL))
	}
	return allocOpts
}

// cdpScroller runs inside a chromedp action, so ctx already carries the target.
type cdpScroller struct{}

func (cdpScroller) ScrollHeight(ctx context.Context) (int, error) {
	var height int
	if err := chromedp.Evaluate(`document.body ? document.body.scrollHeight : 0`, &height).Do(ctx); err != nil {
		return 0, err
	}
	return height, nil
}

func (cdpScroller) ScrollToBottom(ctx context.Context) error {
	return chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil).Do(ctx)
}
