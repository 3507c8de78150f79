package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vango-dev/pagekit/pkg/datetime"
	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/remote"
	"github.com/vango-dev/pagekit/pkg/strcase"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

// Builtin method names.
const (
	MethodEcho        = "echo"
	MethodMethods     = "methods"
	MethodCase        = "case"
	MethodDateTime    = "datetime"
	MethodParams      = "params"
	MethodSelect      = "select"
	MethodPushHistory = "pushHistory"
)

// RegisterBuiltins installs the builtin methods on reg. pushHistory is only
// installed when hub is non-nil.
func RegisterBuiltins(reg *Registry, formatter datetime.Formatter, hub *remote.Hub) {
	reg.Register(MethodEcho, echo)
	reg.Register(MethodMethods, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return reg.Names(), nil
	})
	reg.Register(MethodCase, convertCase)
	reg.Register(MethodDateTime, formatDateTime(formatter))
	reg.Register(MethodParams, parseParams)
	reg.Register(MethodSelect, selectElement)
	if hub != nil {
		reg.Register(MethodPushHistory, pushHistory(hub))
	}
}

func echo(_ context.Context, data json.RawMessage) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

type caseRequest struct {
	Op    string `json:"op"`
	Value string `json:"value"`
}

func convertCase(_ context.Context, data json.RawMessage) (any, error) {
	var req caseRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	conv, ok := strcase.Lookup(req.Op)
	if !ok {
		return nil, fmt.Errorf("unknown conversion %q (want one of %s)", req.Op, strings.Join(strcase.Names(), ", "))
	}
	return conv(req.Value), nil
}

type dateTimeRequest struct {
	Value string `json:"value"`
	Zone  string `json:"tz"`
}

func formatDateTime(f datetime.Formatter) Method {
	return func(_ context.Context, data json.RawMessage) (any, error) {
		var req dateTimeRequest
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		out := f
		if req.Zone != "" {
			loc, err := datetime.LoadLocation(req.Zone)
			if err != nil {
				return nil, err
			}
			out = datetime.Formatter{Location: loc}
		}
		return out.Format(req.Value)
	}
}

type paramsRequest struct {
	URL string `json:"url"`
}

func parseParams(_ context.Context, data json.RawMessage) (any, error) {
	var req paramsRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	values, err := urlparam.Parse(req.URL)
	if err != nil {
		return nil, err
	}
	return values.Map(), nil
}

type selectRequest struct {
	HTML     string `json:"html"`
	Selector string `json:"selector"`
}

// Element describes a matched element.
type Element struct {
	Tag   string            `json:"tag"`
	ID    string            `json:"id,omitempty"`
	Class []string          `json:"class,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
	Text  string            `json:"text"`
}

func selectElement(_ context.Context, data json.RawMessage) (any, error) {
	var req selectRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	doc, err := dom.ParseHTMLString(req.HTML)
	if err != nil {
		return nil, err
	}
	node, err := dom.Query(doc, req.Selector)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	el := &Element{
		Tag:   node.Tag,
		ID:    node.ID(),
		Class: node.ClassList(),
		Text:  node.TextContent(),
	}
	for name := range node.Props {
		if v, ok := node.Attr(name); ok {
			if el.Attrs == nil {
				el.Attrs = make(map[string]string)
			}
			el.Attrs[name] = v
		}
	}
	return el, nil
}

type pushResult struct {
	Pages int    `json:"pages"`
	Query string `json:"query"`
}

func pushHistory(hub *remote.Hub) Method {
	return func(_ context.Context, data json.RawMessage) (any, error) {
		params, err := decodeParams(data)
		if err != nil {
			return nil, err
		}
		n := hub.PushHistory(params)
		return pushResult{Pages: n, Query: "?" + params.Encode()}, nil
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("missing data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	return nil
}

// decodeParams reads a flat JSON object into Values, keeping member order.
// Scalars are stringified; null is written as the literal "null".
func decodeParams(data json.RawMessage) (*urlparam.Values, error) {
	values := urlparam.NewValues()
	if len(data) == 0 {
		return values, nil
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("invalid data: want an object of parameters")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
		name := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
		switch v := tok.(type) {
		case string:
			values.Set(name, v)
		case json.Number:
			values.Set(name, v.String())
		case bool:
			values.Set(name, strconv.FormatBool(v))
		case nil:
			// A page writes null through String(), so keep the literal.
			values.Set(name, "null")
		default:
			return nil, fmt.Errorf("invalid data: parameter %q must be a scalar", name)
		}
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	return values, nil
}
