package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"quantweb/internal/config"
	_ "quantweb/internal/fetcher"
	"quantweb/internal/scraper"
	"quantweb/internal/session"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

// errScrapeFailed ends a one-shot run whose fetch error was already shown.
var errScrapeFailed = errors.New("scrape failed")

var (
	queries      []string
	interactive  bool
	engine       string
	maxScrolls   int
	scrollPause  time.Duration
	timeout      time.Duration
	showUI       bool
	proxyURL     string
	userAgent    string
	outputFormat string
	outputDir    string
	preview      string
	configPath   string
	logLevel     string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "quantweb [URL]",
		Short:   "Scrape a web page and extract data described in plain words",
		Version: version,
		Long: `quantweb loads a page in a headless browser, scrolls it to trigger lazy
loading, and extracts what you describe: "tables", "all links", "image urls",
"paragraphs", "id 'main'", "class 'price'" or a tag name such as "h2".
Tables, text and lists can be printed or exported as CSV/TXT files.`,
		Example: `  # Extract every table and export them as CSV
  quantweb -q tables -o out https://example.com/prices

  # Several queries against one page
  quantweb -q "all links" -q "image urls" -f json example.com

  # Interactive session
  quantweb -i https://example.com

  # Plain HTTP fetch for pages that need no JavaScript
  quantweb -e static -q "whole page" -f markdown https://example.com

  # Preview the fetched page as Markdown
  quantweb --preview markdown https://example.com`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !interactive {
				cmd.Help()
				os.Exit(0)
			}
			return cobra.MaximumNArgs(1)(cmd, args)
		},
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "What to extract, e.g. \"tables\", \"all links\", \"class 'price'\" (can be used multiple times)")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read descriptions and commands from stdin")
	rootCmd.Flags().StringVarP(&engine, "engine", "e", config.DefaultEngine, "Fetch engine ("+strings.Join(scraper.Names(), ", ")+")")
	rootCmd.Flags().IntVar(&maxScrolls, "scrolls", scraper.DefaultMaxScrolls, "Maximum scroll-to-bottom steps")
	rootCmd.Flags().DurationVar(&scrollPause, "scroll-pause", scraper.DefaultScrollPause, "Pause after each scroll")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", scraper.DefaultTimeout, "Page load timeout")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "Proxy URL (e.g. http://127.0.0.1:7890)")
	rootCmd.Flags().StringVarP(&userAgent, "user-agent", "A", scraper.DefaultUserAgent, "Browser user agent")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format ("+strings.Join(config.Formats, ", ")+"); default prints a readable view")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Export results as CSV/TXT files into this directory")
	rootCmd.Flags().StringVar(&preview, "preview", "", "Print the fetched page (html, markdown)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := validateFlags(cfg); err != nil {
		return err
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx)

	fetcher, _ := scraper.Get(cfg.Engine)
	a := &app{
		sess:      session.New(fetcher, cfg.FetchOptions()),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		format:    cfg.Output.Format,
		outputDir: cfg.Output.Dir,
		spinner:   isTerminal(os.Stderr),
	}

	if len(args) == 1 {
		if !a.scrape(ctx, args[0]) && !interactive {
			return errScrapeFailed
		}
		if preview != "" {
			if err := a.preview(preview); err != nil {
				return err
			}
		}
		for _, q := range queries {
			a.extract(ctx, q)
		}
	}

	if interactive {
		return a.interactive(ctx, os.Stdin)
	}
	return nil
}

// reportError prints err unless the user has already been told about it.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errScrapeFailed) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// applyFlags overrides config values with flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine = engine
	}
	if flags.Changed("scrolls") {
		cfg.Scroll.MaxScrolls = &maxScrolls
	}
	if flags.Changed("scroll-pause") {
		cfg.Scroll.Pause = scrollPause
	}
	if flags.Changed("timeout") {
		cfg.Browser.Timeout = timeout
	}
	if flags.Changed("showui") {
		cfg.Browser.ShowUI = showUI
	}
	if flags.Changed("proxy") {
		cfg.Browser.ProxyURL = proxyURL
	}
	if flags.Changed("user-agent") {
		cfg.Browser.UserAgent = userAgent
	}
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(outputFormat)
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	cfg.Engine = strings.ToLower(cfg.Engine)
}

func validateFlags(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	validPreviews := []string{"", "html", "markdown"}
	if !slices.Contains(validPreviews, strings.ToLower(preview)) {
		return fmt.Errorf("invalid preview format: %s", preview)
	}

	if cfg.Scroll.Pause < 0 {
		return fmt.Errorf("--scroll-pause must not be negative")
	}

	return nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
