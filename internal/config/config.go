package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"quantweb/internal/formatter"
	"quantweb/internal/scraper"

	"gopkg.in/yaml.v3"
)

const DefaultEngine = "rod"

// Formats accepted for stdout output. An empty format means the on-screen
// rendering.
var Formats = []string{"text", "csv", "markdown", "json", "html"}

// Config is the optional YAML configuration file. Flags set on the command
// line take precedence over it.
type Config struct {
	Engine   string        `yaml:"engine"`
	LogLevel string        `yaml:"log_level"`
	Browser  BrowserConfig `yaml:"browser"`
	Scroll   ScrollConfig  `yaml:"scroll"`
	Output   OutputConfig  `yaml:"output"`
}

type BrowserConfig struct {
	ShowUI    bool          `yaml:"show_ui"`
	UserAgent string        `yaml:"user_agent"`
	ProxyURL  string        `yaml:"proxy"`
	Timeout   time.Duration `yaml:"timeout"`
}

type ScrollConfig struct {
	MaxScrolls *int          `yaml:"max_scrolls"`
	Pause      time.Duration `yaml:"pause"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// Load reads path, or returns defaults when path is empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	return cfg.WithDefaults(), nil
}

func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if strings.TrimSpace(c.Engine) == "" {
		c.Engine = DefaultEngine
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = scraper.DefaultUserAgent
	}
	if c.Browser.Timeout <= 0 {
		c.Browser.Timeout = scraper.DefaultTimeout
	}
	if c.Scroll.MaxScrolls == nil {
		n := scraper.DefaultMaxScrolls
		c.Scroll.MaxScrolls = &n
	}
	if c.Scroll.Pause <= 0 {
		c.Scroll.Pause = scraper.DefaultScrollPause
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	return c
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if _, ok := scraper.Get(c.Engine); !ok {
		return fmt.Errorf("unknown engine: %s (available: %s)", c.Engine, strings.Join(scraper.Names(), ", "))
	}
	if c.Scroll.MaxScrolls != nil && *c.Scroll.MaxScrolls < 0 {
		return fmt.Errorf("max_scrolls must not be negative: %d", *c.Scroll.MaxScrolls)
	}
	if c.Output.Format != "" && !formatter.Supported(c.Output.Format) {
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}
	return nil
}

// FetchOptions converts the browser and scroll sections for a fetcher.
func (c *Config) FetchOptions() scraper.Options {
	opts := scraper.DefaultOptions()
	opts.Headless = !c.Browser.ShowUI
	opts.UserAgent = c.Browser.UserAgent
	opts.ProxyURL = c.Browser.ProxyURL
	opts.Timeout = c.Browser.Timeout
	opts.ScrollPause = c.Scroll.Pause
	if c.Scroll.MaxScrolls != nil {
		opts.MaxScrolls = *c.Scroll.MaxScrolls
	}
	return opts
}
