// Package remote drives the history of live browser pages over a
// websocket. A page announces its URL with a hello frame; the server side
// then holds a Conn that behaves like the page's location and history, so
// urlparam.PushHistory against a Conn updates the address bar of the
// remote page without reloading it.
//
// Frames are JSON text messages:
//
//	{"op":"hello","url":"https://example.com/inbox"}         page -> server
//	{"op":"popstate","url":"https://example.com/inbox?p=1"}  page -> server
//	{"op":"pushState","title":"Inbox","url":"/inbox?p=2"}    server -> page
//	{"op":"replaceState","title":"","url":"/inbox?p=3"}      server -> page
package remote

import "errors"

// Op names a frame type.
type Op string

const (
	OpHello        Op = "hello"
	OpPopState     Op = "popstate"
	OpPushState    Op = "pushState"
	OpReplaceState Op = "replaceState"
)

// Message is a single frame.
type Message struct {
	Op    Op     `json:"op"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ErrHandshake is returned when a page does not open with a valid hello
// frame.
var ErrHandshake = errors.New("remote: expected hello frame with an absolute url")
