package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/pagekit/pkg/vdom"
)

func testDocument() *Document {
	return NewDocument("Inbox", vdom.Body(
		vdom.Header(vdom.ID("top"), vdom.Nav(vdom.A(vdom.ID("home"), vdom.Href("/home"), vdom.Class("link"), "Home"))),
		vdom.Main(vdom.ID("main"),
			vdom.Section(vdom.ID("s1"), vdom.Class("card", "primary"), vdom.Data("id", "1"),
				vdom.P(vdom.ID("p1"), vdom.Lang("en-US"), "first"),
			),
			vdom.Fragment(
				vdom.Section(vdom.ID("s2"), vdom.Class("card"), vdom.Data("id", "2"),
					vdom.Div(vdom.P(vdom.ID("p2"), "nested")),
				),
			),
			vdom.Ul(vdom.ID("list"),
				vdom.Li(vdom.ID("li1"), vdom.Class("item")),
				vdom.Li(vdom.ID("li2"), vdom.Class("item", "done")),
			),
			vdom.Form(vdom.ID("form"), vdom.Input(vdom.ID("user"), vdom.Name("user_name"), vdom.Type("text"), vdom.Disabled())),
			vdom.A(vdom.ID("pdf"), vdom.Href("https://example.com/file.pdf")),
		),
	))
}

func TestQueryFirstInDocumentOrder(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		sel    string
		wantID string
	}{
		{"#main", "main"},
		{"body", ""},
		{"p", "p1"},
		{"li", "li1"},
		{"*", ""},
		{".item.done", "li2"},
		{"section.card p", "p1"},
		{"[data-id='2'] p", "p2"},
		{"section > p", "p1"},
		{"section > div > p", "p2"},
		{"main p", "p1"},
		{"header a.link", "home"},
		{"[disabled]", "user"},
		{"input[name^=user][type=text]", "user"},
		{"[name$=_name]", "user"},
		{"[name*=er_na]", "user"},
		{"[class~=primary]", "s1"},
		{"[href$='.pdf']", "pdf"},
		{"li, #home", "home"},
		{"P", "p1"},
		{"[lang|=en]", "p1"},
		{"[lang|=en-US]", "p1"},
		{"#s1 + section", "s2"},
		{"section + ul", "list"},
		{"li + li", "li2"},
		{"li ~ .done", "li2"},
		{"#s1 ~ a", "pdf"},
		{"section ~ form > input", "user"},
		{"main > .card + .card > div p", "p2"},
	}

	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			node, err := Query(doc, tt.sel)
			if err != nil {
				t.Fatalf("Query(%q) error = %v", tt.sel, err)
			}
			if node == nil {
				t.Fatalf("Query(%q) = nil, want a match", tt.sel)
			}
			if node.ID() != tt.wantID {
				t.Errorf("Query(%q) = #%s, want #%s", tt.sel, node.ID(), tt.wantID)
			}
		})
	}
}

func TestQueryNoMatchReturnsNil(t *testing.T) {
	doc := testDocument()
	for _, sel := range []string{"table", "#missing", ".card.done", "ul > p", "nav > section", "[data-id=3]", "[href^='']",
		"[lang|=e]", "[lang|=us]", "li + section", "#pdf ~ ul", "ul + section", "#li2 + li", "#li1 ~ #li1", "#main + *"} {
		node, err := Query(doc, sel)
		if err != nil {
			t.Fatalf("Query(%q) error = %v", sel, err)
		}
		if node != nil {
			t.Errorf("Query(%q) = %+v, want nil", sel, node)
		}
	}
}

func TestQueryMalformedSelectorPropagates(t *testing.T) {
	node, err := Query(testDocument(), "div >")
	if node != nil {
		t.Errorf("node = %+v, want nil", node)
	}
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SyntaxError", err)
	}
}

func TestQueryUnsupportedSelector(t *testing.T) {
	for _, sel := range []string{"li:first-child", "a:not(.x)", "p::before"} {
		t.Run(sel, func(t *testing.T) {
			node, err := Query(testDocument(), sel)
			if node != nil {
				t.Errorf("node = %+v, want nil", node)
			}
			if !errors.Is(err, ErrUnsupportedSelector) {
				t.Fatalf("err = %v, want ErrUnsupportedSelector", err)
			}
			if errors.Is(err, ErrInvalidSelector) {
				t.Error("an unsupported selector must not report ErrInvalidSelector")
			}
		})
	}
}

func TestSiblingsThroughFragments(t *testing.T) {
	doc := NewDocument("", vdom.Ul(
		vdom.Fragment(vdom.Li(vdom.ID("a")), vdom.Text("gap")),
		vdom.Fragment(vdom.Fragment(vdom.Li(vdom.ID("b")))),
		vdom.Li(vdom.ID("c")),
	))
	tests := []struct {
		sel  string
		want []string
	}{
		{"li + li", []string{"b", "c"}},
		{"#a ~ li", []string{"b", "c"}},
		{"#a + #c", nil},
		{"ul ~ li", nil},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			nodes, err := doc.QuerySelectorAll(tt.sel)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, n := range nodes {
				got = append(got, n.ID())
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("QuerySelectorAll(%q) = %v, want %v", tt.sel, got, tt.want)
			}
		})
	}
}

func TestQueryNilDocument(t *testing.T) {
	node, err := Query(nil, "div")
	if err != nil || node != nil {
		t.Errorf("Query(nil) = (%v, %v), want (nil, nil)", node, err)
	}
	if _, err := Query(nil, "["); err == nil {
		t.Error("syntax errors are reported even without a document")
	}
}

func TestQuerySelectorAll(t *testing.T) {
	doc := testDocument()
	nodes, err := doc.QuerySelectorAll("section.card, li")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"s1", "s2", "li1", "li2"}
	if len(nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n.ID() != want[i] {
			t.Errorf("nodes[%d] = #%s, want #%s", i, n.ID(), want[i])
		}
	}
}

func TestDescendantBacktracking(t *testing.T) {
	// The outer .a has no .b below it except through the inner .a chain,
	// so matching must try more than the nearest ancestor.
	doc := NewDocument("", vdom.Div(vdom.Class("a"),
		vdom.Div(vdom.Class("b"),
			vdom.Div(vdom.Class("a"),
				vdom.Span(vdom.ID("target")),
			),
		),
	))
	node, err := Query(doc, ".a > .b .a span")
	if err != nil {
		t.Fatal(err)
	}
	if node == nil || node.ID() != "target" {
		t.Errorf("got %+v, want #target", node)
	}
	node, err = Query(doc, ".b > .b span")
	if err != nil {
		t.Fatal(err)
	}
	if node != nil {
		t.Errorf("got %+v, want nil", node)
	}
}
