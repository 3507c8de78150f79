// Package dom implements selector lookup over a vdom document.
//
// Query is the "$" shorthand: it returns the first element in document
// order that matches a CSS selector, or nil when nothing matches. The
// current document is supplied through an Accessor so callers can inject
// a test document instead of relying on ambient state.
//
//	doc := dom.NewDocument("Inbox", vdom.Body(
//	    vdom.Div(vdom.ID("list"), vdom.Class("items")),
//	))
//	node, err := dom.Query(doc, "#list.items")
//
// A malformed selector is reported as a *SyntaxError and is never
// recovered internally. Valid CSS that the engine does not evaluate, such
// as li:first-child, is reported as an *UnsupportedError instead; test for
// it with errors.Is(err, ErrUnsupportedSelector).
//
// # Selector Grammar
//
// The supported subset covers type and universal selectors, #id, .class,
// attribute selectors ([a], [a=v], [a~=v], [a|=v], [a^=v], [a$=v],
// [a*=v]), compound sequences, comma separated selector groups and four
// combinators: descendant, child (>), adjacent sibling (+) and general
// sibling (~). Siblings are the element children of the same parent, with
// fragments flattened.
package dom
