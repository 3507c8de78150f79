// Package vdom provides the in-memory document tree used by pagekit.
//
// A document is a tree of VNodes: elements, text, fragments and raw HTML.
// The tree is what the selector engine in package dom searches, and it is
// what dom.ParseHTML produces from markup.
//
// # Core Types
//
// VNode is the fundamental building block. Props holds attributes; Attr is
// used to build Props through the element factories.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// # Traversal
//
// Walk visits element nodes in document order. Fragments are transparent:
// their children are visited as if they belonged to the enclosing element.
package vdom
