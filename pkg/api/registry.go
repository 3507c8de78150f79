package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
)

// ErrUnknownMethod is returned by Call when no method is registered under
// the requested name.
var ErrUnknownMethod = errors.New("unknown method")

// Method handles one dispatched call. data is the raw "data" member of the
// request and may be empty.
type Method func(ctx context.Context, data json.RawMessage) (any, error)

// PanicError reports a method that panicked.
type PanicError struct {
	Method string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("method %q panicked: %v", e.Method, e.Value)
}

// Registry maps method names to handlers. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]Method)}
}

// Register adds fn under name, replacing any previous method of that name.
func (r *Registry) Register(name string, fn Method) {
	if fn == nil {
		panic("api: nil method " + name)
	}
	r.mu.Lock()
	r.methods[name] = fn
	r.mu.Unlock()
}

// Lookup returns the method registered under name.
func (r *Registry) Lookup(name string) (Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.methods[name]
	return fn, ok
}

// Names returns the registered method names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Call runs the named method. A panicking method is recovered and reported
// as a *PanicError.
func (r *Registry) Call(ctx context.Context, name string, data json.RawMessage) (result any, err error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}

	defer func() {
		if v := recover(); v != nil {
			result = nil
			err = &PanicError{Method: name, Value: v, Stack: debug.Stack()}
		}
	}()
	return fn(ctx, data)
}
