package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"quantweb/internal/extractor"
	"quantweb/internal/formatter"
	"quantweb/internal/output"
	"quantweb/internal/query"
	"quantweb/internal/session"

	"github.com/briandowns/spinner"
)

const spinnerText = " Scraping website with advanced scrolling..."

// app connects a session to the terminal. Failures are reported to stderr
// and never end an interactive session.
type app struct {
	sess      *session.Session
	stdout    io.Writer
	stderr    io.Writer
	format    string
	outputDir string
	spinner   bool
}

func (a *app) scrape(ctx context.Context, target string) bool {
	if strings.TrimSpace(target) == "" {
		fmt.Fprintln(a.stderr, "Warning: Please enter a URL.")
		return false
	}

	if a.spinner {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.stderr))
		s.Suffix = spinnerText
		s.Start()
		defer s.Stop()
	}

	if err := a.sess.Scrape(ctx, target); err != nil {
		fmt.Fprintf(a.stderr, "An error occurred while scraping: %v\n", err)
		return false
	}
	page := a.sess.Page()
	fmt.Fprintf(a.stderr, "Scraped %s (%d bytes, %d scrolls)\n", a.sess.URL(), len(page.HTML), page.Scrolls)
	return true
}

func (a *app) extract(ctx context.Context, description string) {
	rs, err := a.sess.Extract(ctx, description)
	switch {
	case errors.Is(err, session.ErrEmptyDescription):
		fmt.Fprintln(a.stderr, "Warning: Please describe what you want to extract.")
		return
	case errors.Is(err, session.ErrNothingScraped):
		fmt.Fprintln(a.stderr, "Warning: Please scrape a website first.")
		return
	case errors.Is(err, session.ErrUnrecognized):
		fmt.Fprintln(a.stderr, "Could not understand your description.")
		fmt.Fprintf(a.stderr, "Try one of: %s\n", strings.Join(query.Suggestions, ", "))
		return
	case err != nil && query.Interpret(description).Shape == query.ShapeTable:
		fmt.Fprintf(a.stderr, "Could not parse tables. Error: %v\n", err)
		return
	case err != nil:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return
	}

	if err := a.show(rs); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return
	}
	if a.outputDir != "" {
		a.export(rs)
	}
}

func (a *app) show(rs *extractor.ResultSet) error {
	if a.format == "" {
		return output.Render(a.stdout, rs)
	}
	content, err := formatter.Format(rs, a.format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprintln(a.stdout, content)
	return nil
}

func (a *app) export(rs *extractor.ResultSet) {
	paths, err := output.Export(a.outputDir, rs)
	for _, path := range paths {
		fmt.Fprintf(a.stderr, "Output written to: %s\n", path)
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
}

func (a *app) preview(format string) error {
	html := a.sess.HTML()
	if html == "" {
		fmt.Fprintln(a.stderr, "Warning: Please scrape a website first.")
		return nil
	}
	content, err := output.PagePreview(html, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, content)
	return nil
}

const interactiveHelp = `Type what you want to extract, or a command:
  :scrape <url>   fetch a page
  :html           print the fetched HTML
  :markdown       print the fetched page as Markdown
  :help           show this help
  :quit           exit
Examples: %s
`

// readLines feeds lines from in until it ends or ctx is cancelled. The
// error channel receives the scanner error once input is exhausted.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// interactive runs the prompt loop until :quit, end of input or ctx is
// cancelled, including while waiting for a line.
func (a *app) interactive(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(a.stderr, interactiveHelp, strings.Join(query.Suggestions, ", "))

	lines, errc := readLines(ctx, in)
	for {
		fmt.Fprint(a.stderr, "> ")
		var raw string
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.stderr)
			return nil
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			raw = l
		}

		line := strings.TrimSpace(raw)
		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "":
			continue
		case ":quit", ":q", ":exit":
			return nil
		case ":help":
			fmt.Fprintf(a.stderr, interactiveHelp, strings.Join(query.Suggestions, ", "))
		case ":scrape":
			a.scrape(ctx, arg)
		case ":html", ":markdown":
			if err := a.preview(strings.TrimPrefix(cmd, ":")); err != nil {
				fmt.Fprintf(a.stderr, "Error: %v\n", err)
			}
		default:
			a.extract(ctx, line)
		}
	}
}
