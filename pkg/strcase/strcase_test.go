package strcase

import "testing"

func TestDashToCamel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"foo-bar-baz", "fooBarBaz"},
		{"foo", "foo"},
		{"a--b", "a-B"},
		{"a---b", "a--B"},
		{"a-", "a-"},
		{"-a", "A"},
		{"a-B", "a-B"},
		{"a-1", "a-1"},
		{"data-x-é", "dataX-é"},
	}
	for _, tt := range tests {
		if got := DashToCamel(tt.in); got != tt.want {
			t.Errorf("DashToCamel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCamelToDash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"fooBarBaz", "foo-bar-baz"},
		{"FooBar", "foo-bar"},
		{"foo", "foo"},
		{"ABC", "a-b-c"},
		{"-fooBar", "-foo-bar"},
		{"x1Y", "x1-y"},
	}
	for _, tt := range tests {
		if got := CamelToDash(tt.in); got != tt.want {
			t.Errorf("CamelToDash(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSnakeToDash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"foo_bar", "foo-bar"},
		{"__a__", "--a--"},
		{"Foo_Bar", "Foo-Bar"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		got := SnakeToDash(tt.in)
		if got != tt.want {
			t.Errorf("SnakeToDash(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := SnakeToDash(got); again != got {
			t.Errorf("SnakeToDash not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestDashCamelRoundTrip(t *testing.T) {
	for _, s := range []string{"foo-bar-baz", "a-b", "single"} {
		if got := CamelToDash(DashToCamel(s)); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
	// Not guaranteed in general.
	if got := CamelToDash(DashToCamel("a-B")); got != "a--b" {
		t.Errorf("CamelToDash(DashToCamel(%q)) = %q, want %q", "a-B", got, "a--b")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"dashToCamel", "dash-to-camel"} {
		fn, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", name)
		}
		if got := fn("foo-bar"); got != "fooBar" {
			t.Errorf("Lookup(%q)(foo-bar) = %q", name, got)
		}
	}
	for _, name := range Names() {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Names() lists %q but Lookup fails", name)
		}
	}
	if _, ok := Lookup("upper"); ok {
		t.Error("unknown converter should not be found")
	}
}
