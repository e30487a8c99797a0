// Package normalize turns room search responses of any supported
// envelope shape into a canonical list of bookable units.
package normalize

import (
	"bytes"
	"encoding/json"
)

// Shape identifies how a response wraps its list of units.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapePaginated
	ShapeWrapped
	ShapeBare
)

func (s Shape) String() string {
	switch s {
	case ShapePaginated:
		return "paginated"
	case ShapeWrapped:
		return "wrapped"
	case ShapeBare:
		return "bare"
	}
	return "unknown"
}

// Envelope is the resolved form of a response body.  Units holds the
// undecoded list elements; TotalElements is only set for paginated
// bodies that carried a count.
type Envelope struct {
	Shape         Shape
	Units         []json.RawMessage
	TotalElements *int
}

type objectBody struct {
	Content       json.RawMessage `json:"content"`
	TotalElements *int            `json:"totalElements"`
	Data          json.RawMessage `json:"data"`
}

// Resolve matches body against the known shapes in priority order:
// paginated {content,totalElements} (also nested under data), wrapped
// {data:[...]}, then a bare array.  Anything else is ShapeUnknown.
func Resolve(body []byte) Envelope {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Envelope{}
	}
	switch body[0] {
	case '{':
		return resolveObject(body)
	case '[':
		if units, ok := asArray(body); ok {
			return Envelope{Shape: ShapeBare, Units: units}
		}
	}
	return Envelope{}
}

func resolveObject(body []byte) Envelope {
	var obj objectBody
	if err := json.Unmarshal(body, &obj); err != nil {
		return Envelope{}
	}
	if units, ok := asArray(obj.Content); ok {
		return Envelope{Shape: ShapePaginated, Units: units, TotalElements: obj.TotalElements}
	}
	data := bytes.TrimSpace(obj.Data)
	if len(data) == 0 {
		return Envelope{}
	}
	if data[0] == '{' {
		var inner objectBody
		if err := json.Unmarshal(data, &inner); err == nil {
			if units, ok := asArray(inner.Content); ok {
				return Envelope{Shape: ShapePaginated, Units: units, TotalElements: inner.TotalElements}
			}
		}
		return Envelope{}
	}
	if units, ok := asArray(data); ok {
		return Envelope{Shape: ShapeWrapped, Units: units}
	}
	return Envelope{}
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var out []json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}
