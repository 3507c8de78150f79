package urlparam

import (
	"reflect"
	"testing"
)

func TestPushHistoryRoundTrip(t *testing.T) {
	win := &fakeWindow{href: "https://example.com/inbox?old=1#section"}
	nav := NewNavigator(win, win)

	PushHistory(nav, NewValues("a", "x y", "b", "1"))

	if want := []string{"/inbox?a=x%20y&b=1"}; !reflect.DeepEqual(win.pushed, want) {
		t.Fatalf("pushed = %v, want %v", win.pushed, want)
	}
	v, err := Current(win)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Map(); !reflect.DeepEqual(got, map[string]string{"a": "x y", "b": "1"}) {
		t.Errorf("params after push = %v", got)
	}
	if win.href != "https://example.com/inbox?a=x%20y&b=1" {
		t.Errorf("href = %q; host kept, fragment dropped, query replaced", win.href)
	}
}

func TestNavigateEmptyParamsKeepsTrailingQuestionMark(t *testing.T) {
	win := &fakeWindow{href: "https://example.com/a/b?x=1"}
	nav := NewNavigator(win, win)

	PushHistory(nav, NewValues())
	PushHistory(nav, nil)

	want := []string{"/a/b?", "/a/b?"}
	if !reflect.DeepEqual(win.pushed, want) {
		t.Errorf("pushed = %v, want %v", win.pushed, want)
	}
}

func TestNavigateReplaceMode(t *testing.T) {
	win := &fakeWindow{href: "https://example.com/"}
	nav := NewNavigator(win, win, WithTitle(func() string { return "Inbox" }))

	nav.Navigate(NewValues("page", "2"), ModeReplace)

	if len(win.pushed) != 0 {
		t.Errorf("pushed = %v, want none", win.pushed)
	}
	if want := []string{"/?page=2"}; !reflect.DeepEqual(win.replace, want) {
		t.Errorf("replaced = %v, want %v", win.replace, want)
	}
	if want := []string{"Inbox"}; !reflect.DeepEqual(win.titles, want) {
		t.Errorf("titles = %v, want %v", win.titles, want)
	}
}

func TestNavigatorPreservesInsertionOrder(t *testing.T) {
	win := &fakeWindow{href: "https://example.com/s"}
	nav := NewNavigator(win, win)
	if got := nav.URL(NewValues("z", "1", "a", "2", "m", "3")); got != "/s?z=1&a=2&m=3" {
		t.Errorf("URL = %q", got)
	}
}

func TestNavigatorPathEdgeCases(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://example.com", "/?k=v"},
		{"https://example.com/a%20b/c", "/a%20b/c?k=v"},
		{"http://[::1", "/?k=v"},
	}
	for _, tt := range tests {
		nav := NewNavigator(&fakeWindow{href: tt.href}, nil)
		if got := nav.URL(NewValues("k", "v")); got != tt.want {
			t.Errorf("URL for %q = %q, want %q", tt.href, got, tt.want)
		}
	}
	// Without history Navigate is a no-op.
	NewNavigator(nil, nil).Navigate(NewValues("k", "v"), ModePush)
}

func TestURLModeString(t *testing.T) {
	if ModePush.String() != "push" || ModeReplace.String() != "replace" {
		t.Errorf("unexpected mode names %q %q", ModePush, ModeReplace)
	}
}
