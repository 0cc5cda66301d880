package query

import "testing"

func TestInterpret(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		want        SelectorSpec
	}{
		{"links phrase", "all links", SelectorSpec{"a", ShapeHref}},
		{"images phrase", "all images", SelectorSpec{"img", ShapeSrc}},
		{"headings phrase", "All Headings", SelectorSpec{"h1, h2, h3", ShapeText}},
		{"list items phrase", "  all list items ", SelectorSpec{"li", ShapeText}},
		{"table anywhere", "show me the data table", SelectorSpec{TableSelector, ShapeTable}},
		{"table as part of a word", "tables please", SelectorSpec{TableSelector, ShapeTable}},
		{"table beats links", "links in the table", SelectorSpec{TableSelector, ShapeTable}},
		{"image substring is canonicalized", "please get all the image tags", SelectorSpec{"img", ShapeSrc}},
		{"url maps to links", "every url", SelectorSpec{"a", ShapeHref}},
		{"image wins over link", "image links", SelectorSpec{"img", ShapeSrc}},
		{"image skips whole page rule", "all data images", SelectorSpec{"img", ShapeSrc}},
		{"entire data", "entire data", SelectorSpec{"body", ShapeTextBlock}},
		{"all content", "give me all content", SelectorSpec{"body", ShapeTextBlock}},
		{"all paragraphs as block", "all paragraphs", SelectorSpec{"p", ShapeTextBlock}},
		{"singular paragraph", "all paragraph", SelectorSpec{"p", ShapeTextBlock}},
		{"id single quotes", "id 'main'", SelectorSpec{"#main", ShapeText}},
		{"id double quotes", `the ID "content"`, SelectorSpec{"#content", ShapeText}},
		{"id value lowercased", "id 'MainContent'", SelectorSpec{"#maincontent", ShapeText}},
		{"class value lowercased", "class 'Price Tag'", SelectorSpec{".price.tag", ShapeText}},
		{"id needs a single space", "id  'x'", SelectorSpec{"", ShapeText}},
		{"class needs a single space", "class  'x'", SelectorSpec{"", ShapeText}},
		{"class compound", "class 'price tag'", SelectorSpec{".price.tag", ShapeText}},
		{"class single", `elements with class "price"`, SelectorSpec{".price", ShapeText}},
		{"bare tag", "xyz123", SelectorSpec{"xyz123", ShapeText}},
		{"bare tag lowercased", "DIV", SelectorSpec{"div", ShapeText}},
		{"punctuation", "???", SelectorSpec{"", ShapeText}},
		{"two words", "some words", SelectorSpec{"", ShapeText}},
		{"empty", "", SelectorSpec{"", ShapeText}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got := Interpret(testCase.input)
			if got != testCase.want {
				t.Errorf("Interpret(%q) = %+v, want %+v", testCase.input, got, testCase.want)
			}
		})
	}
}

func TestInterpretTableAlwaysWins(t *testing.T) {
	inputs := []string{
		"table",
		"all links table",
		"image table",
		"id 'table'",
		"class 'stable'",
		"entire data table",
	}
	for _, input := range inputs {
		if got := Interpret(input); got.Shape != ShapeTable {
			t.Errorf("Interpret(%q).Shape = %q, want %q", input, got.Shape, ShapeTable)
		}
	}
}

func TestInterpretIsDeterministic(t *testing.T) {
	for _, input := range append(Suggestions, "class 'a b'", "id 'x'", "span") {
		if a, b := Interpret(input), Interpret(input); a != b {
			t.Errorf("Interpret(%q) not stable: %+v vs %+v", input, a, b)
		}
	}
}

func TestSuggestionsAreUnderstood(t *testing.T) {
	for _, s := range Suggestions {
		if !Interpret(s).OK() {
			t.Errorf("suggestion %q not understood", s)
		}
	}
}

func TestShapeIsList(t *testing.T) {
	for shape, want := range map[Shape]bool{
		ShapeText:      true,
		ShapeSrc:       true,
		ShapeHref:      true,
		ShapeTextBlock: false,
		ShapeTable:     false,
	} {
		if got := shape.IsList(); got != want {
			t.Errorf("%s.IsList() = %v, want %v", shape, got, want)
		}
	}
}
