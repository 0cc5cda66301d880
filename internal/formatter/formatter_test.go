package formatter

import (
	"testing"

	"quantweb/internal/extractor"
	"quantweb/internal/query"

	"github.com/google/go-cmp/cmp"
)

func TestFormat(t *testing.T) {
	rs := &extractor.ResultSet{
		Shape:    query.ShapeHref,
		Query:    "all links",
		Selector: "a",
		Items:    []string{"https://ex.com/a", "https://ex.com/x"},
	}

	testCases := []struct {
		format string
		want   string
	}{
		{"text", "https://ex.com/a\nhttps://ex.com/x"},
		{"csv", "results\nhttps://ex.com/a\nhttps://ex.com/x\n"},
		{"markdown", "- https://ex.com/a\n- https://ex.com/x\n"},
		{"MD", "- https://ex.com/a\n- https://ex.com/x\n"},
		{"html", "<ul>\n  <li>https://ex.com/a</li>\n  <li>https://ex.com/x</li>\n</ul>\n"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.format, func(t *testing.T) {
			got, err := Format(rs, testCase.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Errorf("Format(%q) mismatch (-want +got):\n%s", testCase.format, diff)
			}
		})
	}
}

func TestFormatUnsupported(t *testing.T) {
	if _, err := Format(&extractor.ResultSet{}, "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSupported(t *testing.T) {
	for _, format := range []string{"text", "TXT", "csv", "md", "markdown", "json", "html", " htm "} {
		if !Supported(format) {
			t.Errorf("Supported(%q) = false", format)
		}
	}
	for _, format := range []string{"", "xml", "pdf"} {
		if Supported(format) {
			t.Errorf("Supported(%q) = true", format)
		}
	}
}
