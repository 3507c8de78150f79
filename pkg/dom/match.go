package dom

import (
	"strings"

	"github.com/vango-dev/pagekit/pkg/vdom"
)

// Match reports whether node matches the selector. ancestors are the
// element ancestors of node, outermost first.
func (s *Selector) Match(node *vdom.VNode, ancestors []*vdom.VNode) bool {
	if !node.IsElement() {
		return false
	}
	for i := range s.groups {
		if s.groups[i].match(node, ancestors) {
			return true
		}
	}
	return false
}

// First returns the first element under root, in document order, that
// matches the selector. root itself is a candidate.
func (s *Selector) First(root *vdom.VNode) *vdom.VNode {
	var found *vdom.VNode
	vdom.Walk(root, func(node *vdom.VNode, ancestors []*vdom.VNode) bool {
		if s.Match(node, ancestors) {
			found = node
			return false
		}
		return true
	})
	return found
}

// All returns every element under root that matches, in document order.
func (s *Selector) All(root *vdom.VNode) []*vdom.VNode {
	var out []*vdom.VNode
	vdom.Walk(root, func(node *vdom.VNode, ancestors []*vdom.VNode) bool {
		if s.Match(node, ancestors) {
			out = append(out, node)
		}
		return true
	})
	return out
}

func (cs *complexSelector) match(node *vdom.VNode, ancestors []*vdom.VNode) bool {
	return cs.matchFrom(len(cs.parts)-1, node, ancestors)
}

// matchFrom checks parts[0..idx] with parts[idx] anchored at node. The
// descendant and general sibling combinators backtrack over every
// candidate.
func (cs *complexSelector) matchFrom(idx int, node *vdom.VNode, ancestors []*vdom.VNode) bool {
	if !cs.parts[idx].match(node) {
		return false
	}
	if idx == 0 {
		return true
	}
	n := len(ancestors)
	switch cs.combinators[idx-1] {
	case child:
		return n > 0 && cs.matchFrom(idx-1, ancestors[n-1], ancestors[:n-1])
	case adjacent:
		prev := previousSiblings(node, ancestors)
		return len(prev) > 0 && cs.matchFrom(idx-1, prev[len(prev)-1], ancestors)
	case sibling:
		prev := previousSiblings(node, ancestors)
		for i := len(prev) - 1; i >= 0; i-- {
			if cs.matchFrom(idx-1, prev[i], ancestors) {
				return true
			}
		}
		return false
	default:
		for i := n - 1; i >= 0; i-- {
			if cs.matchFrom(idx-1, ancestors[i], ancestors[:i]) {
				return true
			}
		}
		return false
	}
}

// previousSiblings returns the element siblings before node, in document
// order. Fragments under the parent are flattened. A node with no element
// ancestor has no siblings.
func previousSiblings(node *vdom.VNode, ancestors []*vdom.VNode) []*vdom.VNode {
	if len(ancestors) == 0 {
		return nil
	}
	var prev []*vdom.VNode
	var found bool
	var visit func(children []*vdom.VNode)
	visit = func(children []*vdom.VNode) {
		for _, c := range children {
			if found {
				return
			}
			if c == nil {
				continue
			}
			switch {
			case c == node:
				found = true
				return
			case c.Kind == vdom.KindFragment:
				visit(c.Children)
			case c.IsElement():
				prev = append(prev, c)
			}
		}
	}
	visit(ancestors[len(ancestors)-1].Children)
	if !found {
		return nil
	}
	return prev
}

func (c *compound) match(node *vdom.VNode) bool {
	if c.tag != "" && c.tag != "*" && c.tag != strings.ToLower(node.Tag) {
		return false
	}
	if c.id != "" && node.ID() != c.id {
		return false
	}
	for _, class := range c.classes {
		if !node.HasClass(class) {
			return false
		}
	}
	for i := range c.attrs {
		if !c.attrs[i].match(node) {
			return false
		}
	}
	return true
}

func (a *attrSelector) match(node *vdom.VNode) bool {
	value, ok := node.Attr(a.name)
	if !ok {
		return false
	}
	switch a.op {
	case opExists:
		return true
	case opEquals:
		return value == a.value
	case opIncludes:
		for _, field := range strings.Fields(value) {
			if field == a.value {
				return true
			}
		}
		return false
	case opPrefix:
		return a.value != "" && strings.HasPrefix(value, a.value)
	case opSuffix:
		return a.value != "" && strings.HasSuffix(value, a.value)
	case opContains:
		return a.value != "" && strings.Contains(value, a.value)
	case opDashMatch:
		return value == a.value || strings.HasPrefix(value, a.value+"-")
	default:
		return false
	}
}
