// Package normalize reshapes loosely structured catalog records into the
// service's stable book shapes.
//
// Every output shape is described by a Shape: an ordered list of field
// mappings, each naming the upstream fields to try, how to read them and the
// sentinel used when none of them carries a value. A single function, Record,
// applies any Shape to any raw record; List and Keyed locate the records
// inside an upstream response first.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bookshelf/review-service/internal/core/domain"
)

// Strategy selects how a source field is read out of a raw record.
type Strategy int

const (
	// Scalar reads a non-empty string (numbers are rendered as text).
	Scalar Strategy = iota
	// Number reads a non-zero JSON number and keeps it numeric.
	Number
	// FirstElement reads the first element of an array.
	FirstElement
	// JoinNames joins the "name" member of every object in an array.
	JoinNames
	// JoinStrings joins every string in an array.
	JoinStrings
	// NestedValue reads the "value" member of an object.
	NestedValue
	// CoverImage renders a scalar id into Source.Template.
	CoverImage
)

const listSeparator = ", "

// Source is one upstream field a mapping may take its value from.
type Source struct {
	Field    string
	Strategy Strategy
	// Template is a fmt pattern with a single %s, used by CoverImage.
	Template string
}

// FieldMapping fills one output field. Sources are tried in order; the first
// one present wins. With no source present (or no sources at all) the
// Sentinel is assigned instead.
type FieldMapping[T any] struct {
	Name     string
	Sources  []Source
	Sentinel any
	Set      func(dst *T, v any)
}

// Shape is the field-mapping descriptor of one output type.
type Shape[T any] struct {
	Name   string
	Fields []FieldMapping[T]
}

// Record applies shape to a single raw record. It never fails: anything the
// record lacks is replaced by the mapping's sentinel.
func Record[T any](shape Shape[T], raw map[string]any) T {
	var out T
	for _, f := range shape.Fields {
		v := f.Sentinel
		for _, src := range f.Sources {
			if got, ok := extract(raw[src.Field], src); ok {
				v = got
				break
			}
		}
		f.Set(&out, v)
	}
	return out
}

// List decodes body, finds the array stored under container and normalizes
// each element. A missing or null container is domain.ErrEmptyResult; an
// empty array is a successful, empty result.
func List[T any](shape Shape[T], body []byte, container string) ([]T, error) {
	doc, err := Decode(body)
	if err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: response is not an object", domain.ErrEmptyResult, shape.Name)
	}
	raw, present := obj[container]
	if !present || raw == nil {
		return nil, fmt.Errorf("%w: %s: no %q in response", domain.ErrEmptyResult, shape.Name, container)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q is not an array", domain.ErrUpstreamUnavailable, shape.Name, container)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		rec, _ := item.(map[string]any)
		out = append(out, Record(shape, rec))
	}
	return out, nil
}

// Keyed decodes body and normalizes the object stored under key.
func Keyed[T any](shape Shape[T], body []byte, key string) (T, error) {
	var zero T
	doc, err := Decode(body)
	if err != nil {
		return zero, err
	}
	obj, _ := doc.(map[string]any)
	rec, ok := obj[key].(map[string]any)
	if !ok {
		return zero, fmt.Errorf("%w: %s: no %q in response", domain.ErrEmptyResult, shape.Name, key)
	}
	return Record(shape, rec), nil
}

// Decode parses an upstream body keeping numbers as json.Number so that
// years and ratings are echoed exactly as received.
func Decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return doc, nil
}

func extract(v any, src Source) (any, bool) {
	if !present(v) {
		return nil, false
	}
	switch src.Strategy {
	case Scalar:
		s := text(v)
		return s, s != ""
	case Number:
		n, ok := v.(json.Number)
		return n, ok
	case FirstElement:
		arr, ok := v.([]any)
		if !ok || !present(arr[0]) {
			return nil, false
		}
		s := text(arr[0])
		return s, s != ""
	case JoinNames:
		arr, _ := v.([]any)
		names := make([]string, 0, len(arr))
		for _, el := range arr {
			obj, _ := el.(map[string]any)
			if name := text(obj["name"]); name != "" {
				names = append(names, name)
			}
		}
		return strings.Join(names, listSeparator), len(names) > 0
	case JoinStrings:
		arr, _ := v.([]any)
		parts := make([]string, 0, len(arr))
		for _, el := range arr {
			if s := text(el); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, listSeparator), len(parts) > 0
	case NestedValue:
		obj, _ := v.(map[string]any)
		s := text(obj["value"])
		return s, s != ""
	case CoverImage:
		// cover_id is read as a scalar; an array is rendered the way a
		// string template would render it.
		var id string
		if arr, ok := v.([]any); ok {
			parts := make([]string, len(arr))
			for i, el := range arr {
				parts[i] = text(el)
			}
			id = strings.Join(parts, ",")
		} else {
			id = text(v)
		}
		if id == "" {
			return nil, false
		}
		return fmt.Sprintf(src.Template, id), true
	}
	return nil, false
}

// present reports whether v counts as supplied: not missing, null, false,
// zero, an empty string or an empty array.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	}
	return true
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}
