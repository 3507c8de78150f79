package dom

import "github.com/vango-dev/pagekit/pkg/vdom"

// Accessor provides the current document.
type Accessor interface {
	Document() *Document
}

// Document is a titled document tree.
type Document struct {
	Title string
	Root  *vdom.VNode
}

// NewDocument creates a document with the given title and root node.
func NewDocument(title string, root *vdom.VNode) *Document {
	return &Document{Title: title, Root: root}
}

// Document implements Accessor, so a document can stand in for a host.
func (d *Document) Document() *Document {
	return d
}

// QuerySelector returns the first element matching selector, or nil.
func (d *Document) QuerySelector(selector string) (*vdom.VNode, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return sel.First(d.Root), nil
}

// QuerySelectorAll returns all elements matching selector in document order.
func (d *Document) QuerySelectorAll(selector string) ([]*vdom.VNode, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return sel.All(d.Root), nil
}

// Query returns the first element of the accessor's current document that
// matches selector, or nil when none does.
func Query(acc Accessor, selector string) (*vdom.VNode, error) {
	var doc *Document
	if acc != nil {
		doc = acc.Document()
	}
	return doc.QuerySelector(selector)
}
