package scraper

import (
	"context"
	"fmt"
	"time"
)

// Scroller is the minimal page surface needed to trigger lazy loading.
type Scroller interface {
	ScrollHeight(ctx context.Context) (int, error)
	ScrollToBottom(ctx context.Context) error
}

// AutoScroll scrolls to the bottom up to max times, pausing after each scroll,
// and stops early once the document height stops growing. It returns the
// number of scrolls performed.
func AutoScroll(ctx context.Context, s Scroller, max int, pause time.Duration) (int, error) {
	last, err := s.ScrollHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read scroll height: %w", err)
	}

	scrolls := 0
	for scrolls < max {
		if err := s.ScrollToBottom(ctx); err != nil {
			return scrolls, fmt.Errorf("failed to scroll: %w", err)
		}
		scrolls++

		if err := sleep(ctx, pause); err != nil {
			return scrolls, err
		}

		height, err := s.ScrollHeight(ctx)
		if err != nil {
			return scrolls, fmt.Errorf("failed to read scroll height: %w", err)
		}
		if height == last {
			break
		}
		last = height
	}
	return scrolls, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
