package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/vango-dev/pagekit/pkg/vdom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Nodes converts node to x/net/html nodes. Fragments are flattened, so a
// single vdom node may yield zero or more html nodes.
func Nodes(node *vdom.VNode) ([]*html.Node, error) {
	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case vdom.KindElement:
		n := &html.Node{
			Type:     html.ElementNode,
			Data:     node.Tag,
			DataAtom: atom.Lookup([]byte(node.Tag)),
			Attr:     attributes(node),
		}
		for _, child := range node.Children {
			kids, err := Nodes(child)
			if err != nil {
				return nil, err
			}
			for _, k := range kids {
				n.AppendChild(k)
			}
		}
		return []*html.Node{n}, nil
	case vdom.KindText:
		return []*html.Node{{Type: html.TextNode, Data: node.Text}}, nil
	case vdom.KindRaw:
		return []*html.Node{{Type: html.RawNode, Data: node.Text}}, nil
	case vdom.KindFragment:
		var out []*html.Node
		for _, child := range node.Children {
			kids, err := Nodes(child)
			if err != nil {
				return nil, err
			}
			out = append(out, kids...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("render: unknown node kind: %d", node.Kind)
	}
}

func attributes(node *vdom.VNode) []html.Attribute {
	if len(node.Props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	attrs := make([]html.Attribute, 0, len(keys))
	for _, key := range keys {
		if val, ok := node.Attr(key); ok {
			attrs = append(attrs, html.Attribute{Key: key, Val: val})
		}
	}
	return attrs
}

// Render writes node to w as HTML.
func Render(w io.Writer, node *vdom.VNode) error {
	nodes, err := Nodes(node)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// RenderString renders node to a string.
func RenderString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteDocument writes an HTML5 doctype followed by node.
func WriteDocument(w io.Writer, node *vdom.VNode) error {
	if err := html.Render(w, &html.Node{Type: html.DoctypeNode, Data: "html"}); err != nil {
		return err
	}
	return Render(w, node)
}
