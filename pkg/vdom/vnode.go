package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node of the document tree.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Text     string   // For KindText and KindRaw
}

// Props holds attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// IsElement reports whether v is an element node.
func (v *VNode) IsElement() bool {
	return v != nil && v.Kind == KindElement
}

// Attr returns the string form of the named attribute and whether it is
// present. Boolean true renders as the empty string and boolean false as
// absent, matching how the attribute would appear in markup.
func (v *VNode) Attr(name string) (string, bool) {
	if v == nil || v.Props == nil {
		return "", false
	}
	raw, ok := v.Props[name]
	if !ok {
		return "", false
	}
	switch val := raw.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		if !val {
			return "", false
		}
		return "", true
	default:
		return fmt.Sprint(val), true
	}
}

// ID returns the id attribute, or "" when unset.
func (v *VNode) ID() string {
	id, _ := v.Attr("id")
	return id
}

// ClassList returns the whitespace-separated classes of the node.
func (v *VNode) ClassList() []string {
	class, ok := v.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(class)
}

// HasClass reports whether the node carries the given class.
func (v *VNode) HasClass(name string) bool {
	for _, c := range v.ClassList() {
		if c == name {
			return true
		}
	}
	return false
}

// TextContent concatenates the text of all descendant text nodes.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var b strings.Builder
	for _, child := range v.Children {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// Walk calls fn for every element reachable from root in document order.
// ancestors holds the element ancestors of the visited node, outermost
// first; fragments never appear in it. Returning false from fn stops the
// walk. The ancestors slice is reused between calls and must not be
// retained.
func Walk(root *VNode, fn func(node *VNode, ancestors []*VNode) bool) {
	walk(root, make([]*VNode, 0, 16), fn)
}

func walk(node *VNode, ancestors []*VNode, fn func(*VNode, []*VNode) bool) bool {
	if node == nil {
		return true
	}
	switch node.Kind {
	case KindElement:
		if !fn(node, ancestors) {
			return false
		}
		ancestors = append(ancestors, node)
		for _, child := range node.Children {
			if !walk(child, ancestors, fn) {
				return false
			}
		}
	case KindFragment:
		for _, child := range node.Children {
			if !walk(child, ancestors, fn) {
				return false
			}
		}
	}
	return true
}
