package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quantweb/internal/extractor"
	"quantweb/internal/query"

	"github.com/google/go-cmp/cmp"
)

func TestExport(t *testing.T) {
	testCases := []struct {
		description string
		rs          *extractor.ResultSet
		want        map[string]string
	}{
		{
			"one file per table",
			&extractor.ResultSet{Shape: query.ShapeTable, Tables: []extractor.Table{
				{Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}},
				{Header: []string{"c"}, Rows: [][]string{}},
			}},
			map[string]string{
				"table_1.csv": "a,b\n1,2\n",
				"table_2.csv": "c\n",
			},
		},
		{
			"text block",
			&extractor.ResultSet{Shape: query.ShapeTextBlock, Text: "one\n\ntwo"},
			map[string]string{TextFile: "one\n\ntwo"},
		},
		{
			"list",
			&extractor.ResultSet{Shape: query.ShapeHref, Items: []string{"https://ex.com/a", "https://ex.com/x"}},
			map[string]string{ListFile: "results\nhttps://ex.com/a\nhttps://ex.com/x\n"},
		},
		{
			"empty list writes nothing",
			&extractor.ResultSet{Shape: query.ShapeText, Items: []string{}},
			map[string]string{},
		},
		{
			"empty text block writes nothing",
			&extractor.ResultSet{Shape: query.ShapeTextBlock, Text: ""},
			map[string]string{},
		},
		{
			"no tables writes nothing",
			&extractor.ResultSet{Shape: query.ShapeTable, Tables: []extractor.Table{}},
			map[string]string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "export")
			paths, err := Export(dir, testCase.rs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := map[string]string{}
			for _, path := range paths {
				data, err := os.ReadFile(path)
				if err != nil {
					t.Fatal(err)
				}
				got[filepath.Base(path)] = string(data)
			}
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Errorf("Export() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	testCases := []struct {
		description string
		rs          *extractor.ResultSet
		contains    []string
	}{
		{
			"zero items",
			&extractor.ResultSet{Shape: query.ShapeText, Query: "span", Selector: "span", Items: []string{}},
			[]string{"Query: span | Method: span", "Found 0 items matching your query after filtering."},
		},
		{
			"list",
			&extractor.ResultSet{Shape: query.ShapeHref, Query: "all links", Selector: "a", Items: []string{"https://ex.com/a"}},
			[]string{"Found 1 items.", "results", "https://ex.com/a"},
		},
		{
			"tables",
			&extractor.ResultSet{Shape: query.ShapeTable, Selector: "table", Tables: []extractor.Table{
				{Header: []string{"k", "v"}, Rows: [][]string{{"1", "2"}}},
			}},
			[]string{"Found 1 table(s).", "Table 1", "k  v"},
		},
		{
			"empty text block",
			&extractor.ResultSet{Shape: query.ShapeTextBlock, Query: "all paragraphs", Selector: "p"},
			[]string{"Query: all paragraphs | Method: p", "Found 0 items matching your query after filtering."},
		},
		{
			"text block",
			&extractor.ResultSet{Shape: query.ShapeTextBlock, Selector: "body", Text: "hello"},
			[]string{"Method: body", "hello"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, testCase.rs); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, s := range testCase.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output missing %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestPagePreview(t *testing.T) {
	html := `<h1>Title</h1><p>Some <strong>bold</strong> text</p>`

	got, err := PagePreview(html, "html")
	if err != nil || got != html {
		t.Errorf("html preview = %q, %v", got, err)
	}

	got, err = PagePreview(html, "markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Title") || !strings.Contains(got, "**bold**") {
		t.Errorf("unexpected markdown: %q", got)
	}

	if _, err := PagePreview(html, "pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestBlankParagraphsReportNothing(t *testing.T) {
	rs, err := extractor.Extract(`<body><p> </p></body>`, "https://ex.com", query.Interpret("all paragraphs"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, rs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Found 0 items matching your query after filtering.") {
		t.Errorf("missing 0-items notice:\n%s", buf.String())
	}

	paths, err := Export(t.TempDir(), rs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Export() wrote %v, want nothing", paths)
	}
}
