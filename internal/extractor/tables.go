package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSpan = 1000

// Table is a rectangular grid: every row has len(Header) cells.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ParseTables returns every table in the document, in document order.
// colspan and rowspan are expanded so each table is rectangular. The header
// is the first thead row when present, otherwise the first row. Tables
// without rows are skipped; finding none is not an error.
func ParseTables(htmlContent string) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	tables := []Table{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		grid := expandGrid(ownRows(table))
		if len(grid) == 0 || len(grid[0]) == 0 {
			return
		}
		tables = append(tables, Table{Header: grid[0], Rows: grid[1:]})
	})
	return tables, nil
}

// ownRows returns the rows belonging to table itself, not to nested tables,
// with thead rows first.
func ownRows(table *goquery.Selection) []*goquery.Selection {
	var head, body []*goquery.Selection
	table.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "thead":
			child.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
				head = append(head, tr)
			})
		case "tbody", "tfoot":
			child.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
				body = append(body, tr)
			})
		case "tr":
			body = append(body, child)
		}
	})
	return append(head, body...)
}

type carried struct {
	text string
	left int
}

func expandGrid(rows []*goquery.Selection) [][]string {
	var grid [][]string
	spans := map[int]*carried{}
	width := 0

	take := func(out []string, col int) []string {
		c := spans[col]
		out = append(out, c.text)
		if c.left--; c.left == 0 {
			delete(spans, col)
		}
		return out
	}

	for _, row := range rows {
		var out []string
		col := 0
		row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			for spans[col] != nil {
				out = take(out, col)
				col++
			}
			text := cellText(cell)
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")
			for i := 0; i < colspan; i++ {
				out = append(out, text)
				if rowspan > 1 {
					spans[col] = &carried{text: text, left: rowspan - 1}
				}
				col++
			}
		})

		last := col - 1
		for c := range spans {
			if c > last {
				last = c
			}
		}
		for ; col <= last; col++ {
			if spans[col] != nil {
				out = take(out, col)
			} else {
				out = append(out, "")
			}
		}

		if len(out) == 0 {
			continue
		}
		if len(out) > width {
			width = len(out)
		}
		grid = append(grid, out)
	}

	for i, row := range grid {
		for len(row) < width {
			row = append(row, "")
		}
		grid[i] = row
	}
	return grid
}

func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}

func spanAttr(cell *goquery.Selection, name string) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxSpan {
		return maxSpan
	}
	return n
}
