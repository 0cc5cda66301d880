// Package session keeps the state of one scrape-then-extract workflow: the
// last fetched page and the last extraction. A new scrape clears everything
// downstream of the page; a new extraction replaces only the results.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quantweb/internal/extractor"
	"quantweb/internal/query"
	"quantweb/internal/scraper"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyURL         = errors.New("please enter a URL")
	ErrEmptyDescription = errors.New("please describe what you want to extract")
	ErrNothingScraped   = errors.New("nothing scraped yet")
	ErrUnrecognized     = errors.New("could not understand your description")
)

type Session struct {
	fetcher scraper.Fetcher
	opts    scraper.Options

	url  string
	page *scraper.FetchResult

	description string
	spec        query.SelectorSpec
	result      *extractor.ResultSet
}

func New(fetcher scraper.Fetcher, opts scraper.Options) *Session {
	return &Session{fetcher: fetcher, opts: opts}
}

// Scrape fetches target and replaces the current page. On failure the page
// HTML is left empty, which disables extraction until the next scrape.
func (s *Session) Scrape(ctx context.Context, target string) error {
	target = NormalizeURL(target)
	if target == "" {
		return ErrEmptyURL
	}

	s.url = target
	s.page = nil
	s.description = ""
	s.spec = query.SelectorSpec{}
	s.result = nil

	log := zerolog.Ctx(ctx)
	log.Info().Str("url", target).Str("engine", s.fetcher.Name()).Msg("Scraping page")

	page, err := s.fetcher.Fetch(ctx, target, s.opts)
	if err != nil {
		log.Warn().Err(err).Str("url", target).Msg("Scrape failed")
		return fmt.Errorf("failed to scrape %s: %w", target, err)
	}
	s.page = page
	log.Info().
		Int("bytes", len(page.HTML)).
		Int("scrolls", page.Scrolls).
		Dur("load_time", page.LoadTime).
		Msg("Page scraped")
	return nil
}

// Extract interprets description and runs it against the current page.
// An unrecognized description leaves the previous results in place; any
// other failure clears them.
func (s *Session) Extract(ctx context.Context, description string) (*extractor.ResultSet, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if s.HTML() == "" {
		return nil, ErrNothingScraped
	}

	spec := query.Interpret(description)
	if !spec.OK() {
		return nil, ErrUnrecognized
	}

	s.description = description
	s.spec = spec
	s.result = nil

	rs, err := extractor.Extract(s.page.HTML, s.sourceURL(), spec)
	if err != nil {
		return nil, err
	}
	rs.Query = description
	s.result = rs

	zerolog.Ctx(ctx).Debug().
		Str("query", description).
		Str("selector", spec.Selector).
		Stringer("shape", spec.Shape).
		Int("count", rs.Len()).
		Msg("Extracted results")
	return rs, nil
}

// sourceURL is the base for resolving relative links: the URL the user
// asked for, matching what they see as the page address.
func (s *Session) sourceURL() string {
	return s.url
}

func (s *Session) URL() string { return s.url }

func (s *Session) Page() *scraper.FetchResult { return s.page }

func (s *Session) HTML() string {
	if s.page == nil {
		return ""
	}
	return s.page.HTML
}

func (s *Session) Description() string { return s.description }

func (s *Session) Selector() string { return s.spec.Selector }

func (s *Session) Result() *extractor.ResultSet { return s.result }

// NormalizeURL trims rawURL and adds http:// when no scheme is present.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "http://" + rawURL
	}
	return rawURL
}
