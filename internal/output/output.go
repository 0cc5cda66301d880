// Package output renders result sets for the terminal and exports them as
// files.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"quantweb/internal/extractor"
	"quantweb/internal/query"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

const (
	TextFile = "scraped_text.txt"
	ListFile = "scraped_results.csv"
)

// TableFile returns the export name for the i-th table, counting from 1.
func TableFile(i int) string {
	return fmt.Sprintf("table_%d.csv", i)
}

// Render writes the on-screen view of rs.
func Render(w io.Writer, rs *extractor.ResultSet) error {
	fmt.Fprintf(w, "Query: %s | Method: %s\n\n", rs.Query, rs.Selector)

	switch {
	case rs.Shape == query.ShapeTable:
		fmt.Fprintf(w, "Found %d table(s).\n", len(rs.Tables))
		for i, t := range rs.Tables {
			fmt.Fprintf(w, "\nTable %d\n", i+1)
			if err := extractor.WriteGrid(w, t.Header, t.Rows); err != nil {
				return err
			}
		}
	case rs.Shape == query.ShapeTextBlock && rs.Text != "":
		fmt.Fprintln(w, rs.Text)
	case rs.Shape == query.ShapeTextBlock, len(rs.Items) == 0:
		fmt.Fprintln(w, "Found 0 items matching your query after filtering.")
	default:
		fmt.Fprintf(w, "Found %d items.\n\n", len(rs.Items))
		rows := make([][]string, len(rs.Items))
		for i, item := range rs.Items {
			rows[i] = []string{fmt.Sprintf("%d", i), item}
		}
		if err := extractor.WriteGrid(w, []string{"", extractor.ListColumn}, rows); err != nil {
			return err
		}
	}
	return nil
}

// Export writes rs into dir and returns the written paths. Tables produce
// one CSV each, a non-empty text block one TXT file, and a non-empty list
// one CSV.
func Export(dir string, rs *extractor.ResultSet) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	switch {
	case rs.Shape == query.ShapeTable:
		for i, t := range rs.Tables {
			path := filepath.Join(dir, TableFile(i+1))
			if err := writeFile(path, t.WriteCSV); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	case rs.Shape == query.ShapeTextBlock && rs.Text != "":
		path := filepath.Join(dir, TextFile)
		if err := os.WriteFile(path, []byte(rs.Text), 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	case rs.Shape != query.ShapeTextBlock && len(rs.Items) > 0:
		path := filepath.Join(dir, ListFile)
		err := writeFile(path, func(w io.Writer) error {
			return extractor.WriteListCSV(w, rs.Items)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// PagePreview returns the fetched page as raw HTML or converted to Markdown.
func PagePreview(html, format string) (string, error) {
	switch strings.ToLower(format) {
	case "html":
		return html, nil
	case "markdown", "md":
		converter := md.NewConverter("", true, nil)
		markdown, err := converter.ConvertString(html)
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
		}
		return markdown, nil
	default:
		return "", fmt.Errorf("unsupported preview format: %s", format)
	}
}
