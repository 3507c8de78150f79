package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/vdom"
)

func TestRenderString(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"nil", nil, ""},
		{"text escaped", vdom.Text(`a < b & "c"`), `a &lt; b &amp; &#34;c&#34;`},
		{"element", vdom.Div(vdom.ID("x"), vdom.Class("a", "b"), "hi"), `<div class="a b" id="x">hi</div>`},
		{"void", vdom.Input(vdom.Type("text"), vdom.Disabled()), `<input disabled="" type="text"/>`},
		{"false bool omitted", vdom.Button(vdom.AttrOf("disabled", false), "go"), `<button>go</button>`},
		{"attr escaped", vdom.A(vdom.Href(`/q?a=1&b="2"`), "x"), `<a href="/q?a=1&amp;b=&#34;2&#34;">x</a>`},
		{"raw", vdom.Div(vdom.Raw("<b>bold</b>")), `<div><b>bold</b></div>`},
		{"fragment", vdom.Fragment(vdom.Span("a"), vdom.Span("b")), `<span>a</span><span>b</span>`},
		{"number attr", vdom.Li(vdom.AttrOf("value", 3)), `<li value="3"></li>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderString(tt.node)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("RenderString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, err := RenderString(&vdom.VNode{Kind: vdom.VKind(99)}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestWriteDocumentRoundTrip(t *testing.T) {
	page := Page("Inbox", []any{
		vdom.Main(
			vdom.Ul(vdom.Class("messages"),
				vdom.Li(vdom.Data("id", "1"), "first"),
				vdom.Li(vdom.Data("id", "2"), "second"),
			),
		),
	}, vdom.Script(vdom.Raw("var a = 1 < 2;")))

	var b strings.Builder
	if err := WriteDocument(&b, page); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/><title>Inbox</title>") {
		t.Errorf("unexpected document head: %q", out)
	}
	if !strings.Contains(out, "<script>var a = 1 < 2;</script>") {
		t.Errorf("script should not be escaped: %q", out)
	}

	doc, err := dom.ParseHTMLString(out)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Inbox" {
		t.Errorf("Title = %q", doc.Title)
	}
	li, err := dom.Query(doc, `ul.messages > li[data-id="2"]`)
	if err != nil || li == nil {
		t.Fatalf("Query = (%v, %v)", li, err)
	}
	if li.TextContent() != "second" {
		t.Errorf("TextContent = %q", li.TextContent())
	}
}
