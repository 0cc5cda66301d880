// Package query maps free-text extraction requests onto CSS selectors.
//
// The mapping is a fixed, ordered list of crude rules. Earlier rules win, and
// some rules rewrite the working text before later rules see it, so the order
// of the rules slice is part of the behavior.
package query

import (
	"regexp"
	"strings"
)

// Shape is the structure an extraction result takes.
type Shape string

const (
	ShapeText      Shape = "text"       // One entry per node: its text
	ShapeSrc       Shape = "src"        // One entry per node: absolute src URL
	ShapeHref      Shape = "href"       // One entry per node: absolute href URL
	ShapeTextBlock Shape = "text_block" // Single text joined across nodes
	ShapeTable     Shape = "table_data" // Every table in the page
)

// TableSelector is the selector reported for table extraction; tables are
// parsed from the whole document rather than selected.
const TableSelector = "table"

func (s Shape) String() string { return string(s) }

// IsList reports whether results of this shape are a flat list of strings.
func (s Shape) IsList() bool {
	return s == ShapeText || s == ShapeSrc || s == ShapeHref
}

// SelectorSpec is the interpreted form of a description. An empty Selector
// means the description was not understood.
type SelectorSpec struct {
	Selector string
	Shape    Shape
}

// OK reports whether the description produced a usable selector.
func (s SelectorSpec) OK() bool {
	return s.Selector != ""
}

// Suggestions are phrases known to map onto a selector.
var Suggestions = []string{
	"all links",
	"all headings",
	"all images",
	"all paragraphs",
	"the table",
	"entire data",
}

var phrases = map[string]string{
	"all links":      "a",
	"all paragraphs": "p",
	"all headings":   "h1, h2, h3",
	"all images":     "img",
	"all list items": "li",
}

var (
	idRe    = regexp.MustCompile(`id\s['"]([^'"]+)['"]`)
	classRe = regexp.MustCompile(`class\s['"]([^'"]+)['"]`)
	tagRe   = regexp.MustCompile(`^[a-z0-9]+$`)
)

// working is the mutable state threaded through the rules.
type working struct {
	text      string // trimmed, lowercased
	key       string // phrase used for the lookup table
	shape     Shape
	canonical bool // key was rewritten by the image/link rules
}

type rule struct {
	name  string
	apply func(w *working) (SelectorSpec, bool)
}

var rules = []rule{
	{"table", func(w *working) (SelectorSpec, bool) {
		if strings.Contains(w.text, "table") {
			return SelectorSpec{TableSelector, ShapeTable}, true
		}
		return SelectorSpec{}, false
	}},
	{"image", func(w *working) (SelectorSpec, bool) {
		if strings.Contains(w.text, "image") {
			w.shape, w.key, w.canonical = ShapeSrc, "all images", true
		}
		return SelectorSpec{}, false
	}},
	{"link", func(w *working) (SelectorSpec, bool) {
		if !w.canonical && (strings.Contains(w.text, "link") || strings.Contains(w.text, "url")) {
			w.shape, w.key, w.canonical = ShapeHref, "all links", true
		}
		return SelectorSpec{}, false
	}},
	{"whole page", func(w *working) (SelectorSpec, bool) {
		if w.canonical {
			return SelectorSpec{}, false
		}
		for _, p := range []string{"entire data", "all data", "all content"} {
			if strings.Contains(w.text, p) {
				return SelectorSpec{"body", ShapeTextBlock}, true
			}
		}
		return SelectorSpec{}, false
	}},
	{"paragraphs", func(w *working) (SelectorSpec, bool) {
		if !w.canonical && strings.Contains(w.text, "all paragraph") {
			return SelectorSpec{"p", ShapeTextBlock}, true
		}
		return SelectorSpec{}, false
	}},
	{"phrase", func(w *working) (SelectorSpec, bool) {
		if sel, ok := phrases[w.key]; ok {
			return SelectorSpec{sel, w.shape}, true
		}
		return SelectorSpec{}, false
	}},
	{"id", func(w *working) (SelectorSpec, bool) {
		if m := idRe.FindStringSubmatch(w.text); m != nil {
			return SelectorSpec{"#" + m[1], w.shape}, true
		}
		return SelectorSpec{}, false
	}},
	{"class", func(w *working) (SelectorSpec, bool) {
		if m := classRe.FindStringSubmatch(w.text); m != nil {
			return SelectorSpec{"." + strings.Join(strings.Fields(m[1]), "."), w.shape}, true
		}
		return SelectorSpec{}, false
	}},
	{"tag", func(w *working) (SelectorSpec, bool) {
		if tagRe.MatchString(w.text) {
			return SelectorSpec{w.text, ShapeText}, true
		}
		return SelectorSpec{}, false
	}},
}

// Interpret maps a description to a selector and result shape. When nothing
// matches, the returned spec has an empty Selector.
func Interpret(description string) SelectorSpec {
	text := strings.ToLower(strings.TrimSpace(description))
	w := &working{text: text, key: text, shape: ShapeText}

	for _, r := range rules {
		if spec, ok := r.apply(w); ok {
			return spec
		}
	}
	return SelectorSpec{Shape: w.shape}
}
