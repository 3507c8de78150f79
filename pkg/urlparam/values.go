package urlparam

import "strings"

// Values is an ordered mapping from parameter name to value. Names are
// unique; iteration follows first insertion, so encoding is deterministic.
type Values struct {
	keys []string
	vals map[string]string
}

// NewValues builds Values from alternating name, value arguments.
// It panics if given an odd number of arguments.
func NewValues(pairs ...string) *Values {
	if len(pairs)%2 == 1 {
		panic("urlparam: NewValues: odd argument count")
	}
	v := &Values{vals: make(map[string]string, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

// Get returns the value for name and whether it is present.
func (v *Values) Get(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	val, ok := v.vals[name]
	return val, ok
}

// Set assigns value to name. An existing name keeps its position.
func (v *Values) Set(name, value string) {
	if v.vals == nil {
		v.vals = make(map[string]string)
	}
	if _, ok := v.vals[name]; !ok {
		v.keys = append(v.keys, name)
	}
	v.vals[name] = value
}

// Del removes name.
func (v *Values) Del(name string) {
	if _, ok := v.vals[name]; !ok {
		return
	}
	delete(v.vals, name)
	for i, k := range v.keys {
		if k == name {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the names in insertion order.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Len returns the number of parameters.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Map returns a copy of the parameters as a plain map.
func (v *Values) Map() map[string]string {
	out := make(map[string]string, v.Len())
	if v == nil {
		return out
	}
	for k, val := range v.vals {
		out[k] = val
	}
	return out
}

// Encode serializes the parameters as a query string (without the
// leading '?'), escaping names and values with EscapeComponent.
func (v *Values) Encode() string {
	if v.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range v.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(EscapeComponent(k))
		b.WriteByte('=')
		b.WriteString(EscapeComponent(v.vals[k]))
	}
	return b.String()
}

// String returns Encode().
func (v *Values) String() string {
	return v.Encode()
}
