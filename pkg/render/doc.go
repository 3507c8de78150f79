// Package render serializes vdom trees to HTML.
//
// Trees are converted to golang.org/x/net/html nodes and written with
// html.Render, so escaping and void elements follow the same HTML5 rules
// dom.ParseHTML reads them back with:
//
//	page := render.Page("Inbox", vdom.Div(vdom.ID("app")))
//	err := render.WriteDocument(w, page)
//
// Attributes are written in sorted order so output is deterministic.
// Boolean attributes set to true are written without a value and those
// set to false are omitted.
package render
