package render

import "github.com/vango-dev/pagekit/pkg/vdom"

// Page builds a minimal HTML5 page: a head with charset and title, and a
// body holding body. Extra head content such as scripts can be passed
// through head.
func Page(title string, body []any, head ...any) *vdom.VNode {
	headArgs := append([]any{
		vdom.Meta(vdom.AttrOf("charset", "utf-8")),
		vdom.Title(title),
	}, head...)
	return vdom.Html(
		vdom.Lang("en"),
		vdom.Head(headArgs...),
		vdom.Body(body...),
	)
}
