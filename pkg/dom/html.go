package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/pagekit/pkg/vdom"
	"golang.org/x/net/html"
)

// ParseHTML parses markup into a Document. The document title is the text
// of the first <title> element.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}
	tree := convert(root)
	doc := &Document{Root: tree}
	if title := MustCompile("title").First(tree); title != nil {
		doc.Title = strings.TrimSpace(title.TextContent())
	}
	return doc, nil
}

// ParseHTMLString is ParseHTML over a string.
func ParseHTMLString(s string) (*Document, error) {
	return ParseHTML(strings.NewReader(s))
}

func convert(n *html.Node) *vdom.VNode {
	switch n.Type {
	case html.DocumentNode:
		frag := &vdom.VNode{Kind: vdom.KindFragment}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				frag.Children = append(frag.Children, child)
			}
		}
		return frag
	case html.ElementNode:
		node := &vdom.VNode{
			Kind:  vdom.KindElement,
			Tag:   n.Data,
			Props: make(vdom.Props, len(n.Attr)),
		}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + key
			}
			node.Props[key] = a.Val
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		return node
	case html.TextNode:
		return vdom.Text(n.Data)
	default:
		// Comments and doctypes carry nothing a selector can reach.
		return nil
	}
}
