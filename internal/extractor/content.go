package extractor

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"text/tabwriter"

	"quantweb/internal/query"
)

// ListColumn is the header of the single-column list export.
const ListColumn = "results"

// WriteCSV writes the table as CSV, header first.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteListCSV writes items as a single "results" column.
func WriteListCSV(w io.Writer, items []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ListColumn}); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write([]string{item}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGrid writes header and rows as aligned, tab-padded columns.
func WriteGrid(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// ToText returns a plain text rendering: aligned grids for tables, one item
// per line for lists.
func (r *ResultSet) ToText() (string, error) {
	var buf bytes.Buffer
	switch {
	case r.Shape == query.ShapeTable:
		for i, t := range r.Tables {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(&buf, "Table %d\n", i+1)
			if err := WriteGrid(&buf, t.Header, t.Rows); err != nil {
				return "", err
			}
		}
	case r.Shape == query.ShapeTextBlock:
		buf.WriteString(r.Text)
	default:
		buf.WriteString(strings.Join(r.Items, "\n"))
	}
	return buf.String(), nil
}

// ToCSV returns CSV content. Multiple tables are separated by a
// "# Table N" line and a blank line.
func (r *ResultSet) ToCSV() (string, error) {
	var buf bytes.Buffer
	switch {
	case r.Shape == query.ShapeTable:
		for i, t := range r.Tables {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(&buf, "# Table %d\n", i+1)
			if err := t.WriteCSV(&buf); err != nil {
				return "", fmt.Errorf("failed to write table %d: %w", i+1, err)
			}
		}
	case r.Shape == query.ShapeTextBlock:
		cw := csv.NewWriter(&buf)
		_ = cw.Write([]string{"text"})
		_ = cw.Write([]string{r.Text})
		cw.Flush()
		if err := cw.Error(); err != nil {
			return "", err
		}
	default:
		if err := WriteListCSV(&buf, r.Items); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// ToMarkdown returns Markdown: pipe tables, a bullet list, or the text block.
func (r *ResultSet) ToMarkdown() (string, error) {
	var sb strings.Builder
	switch {
	case r.Shape == query.ShapeTable:
		for i, t := range r.Tables {
			fmt.Fprintf(&sb, "## Table %d\n\n", i+1)
			writeMarkdownTable(&sb, t)
			sb.WriteString("\n")
		}
	case r.Shape == query.ShapeTextBlock:
		sb.WriteString(r.Text)
		sb.WriteString("\n")
	default:
		for _, item := range r.Items {
			sb.WriteString("- " + item + "\n")
		}
	}
	return sb.String(), nil
}

func writeMarkdownTable(sb *strings.Builder, t Table) {
	writeMarkdownRow(sb, t.Header)
	sb.WriteString("|")
	for range t.Header {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range t.Rows {
		writeMarkdownRow(sb, row)
	}
}

func writeMarkdownRow(sb *strings.Builder, cells []string) {
	sb.WriteString("| ")
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(strings.ReplaceAll(cell, "|", `\|`))
	}
	sb.WriteString(" |\n")
}

func (r *ResultSet) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func (r *ResultSet) ToHTML() (string, error) {
	var sb strings.Builder
	switch {
	case r.Shape == query.ShapeTable:
		for _, t := range r.Tables {
			sb.WriteString("<table>\n<thead>")
			writeHTMLRow(&sb, "th", t.Header)
			sb.WriteString("</thead>\n<tbody>\n")
			for _, row := range t.Rows {
				writeHTMLRow(&sb, "td", row)
				sb.WriteString("\n")
			}
			sb.WriteString("</tbody>\n</table>\n")
		}
	case r.Shape == query.ShapeTextBlock:
		sb.WriteString("<pre>" + html.EscapeString(r.Text) + "</pre>\n")
	default:
		sb.WriteString("<ul>\n")
		for _, item := range r.Items {
			sb.WriteString("  <li>" + html.EscapeString(item) + "</li>\n")
		}
		sb.WriteString("</ul>\n")
	}
	return sb.String(), nil
}

func writeHTMLRow(sb *strings.Builder, tag string, cells []string) {
	sb.WriteString("<tr>")
	for _, cell := range cells {
		fmt.Fprintf(sb, "<%s>%s</%s>", tag, html.EscapeString(cell), tag)
	}
	sb.WriteString("</tr>")
}
