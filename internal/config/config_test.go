package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quantweb/internal/scraper"

	"github.com/google/go-cmp/cmp"
)

type stubFetcher struct{}

func (stubFetcher) Name() string { return "rod" }

func (stubFetcher) Fetch(ctx context.Context, target string, opts scraper.Options) (*scraper.FetchResult, error) {
	return nil, nil
}

func init() {
	scraper.Register(stubFetcher{})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	want := scraper.DefaultOptions()
	if diff := cmp.Diff(want, cfg.FetchOptions()); diff != "" {
		t.Errorf("FetchOptions() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantweb.yaml")
	content := `
engine: rod
log_level: debug
browser:
  show_ui: true
  proxy: http://127.0.0.1:7890
  timeout: 15s
scroll:
  max_scrolls: 0
  pause: 500ms
output:
  dir: out
  format: CSV
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	got := cfg.FetchOptions()
	want := scraper.Options{
		Headless:    false,
		UserAgent:   scraper.DefaultUserAgent,
		ProxyURL:    "http://127.0.0.1:7890",
		Timeout:     15 * time.Second,
		MaxScrolls:  0,
		ScrollPause: 500 * time.Millisecond,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FetchOptions() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Output.Format != "csv" || cfg.Output.Dir != "out" || cfg.LogLevel != "debug" {
		t.Errorf("output/log settings not loaded: %+v %q", cfg.Output, cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	negative := -1
	testCases := []struct {
		description string
		cfg         *Config
	}{
		{"unknown engine", (&Config{Engine: "lynx"}).WithDefaults()},
		{"negative scrolls", (&Config{Scroll: ScrollConfig{MaxScrolls: &negative}}).WithDefaults()},
		{"unknown format", (&Config{Output: OutputConfig{Format: "xml"}}).WithDefaults()},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			if err := testCase.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
