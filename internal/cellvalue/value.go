// Package cellvalue turns raw cell values handed out by a host table into
// the flat text shown in the markdown preview.
//
// A value is classified exactly once by Parse into one of the Kind variants;
// Text then reads the content off the variant without inspecting the raw
// value again. Classification never fails: shapes it does not understand
// fall through to Unrecognized, whose text is the value re-serialized.
package cellvalue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mithrel/cellmark/pkg/api"
)

type Kind int

const (
	// PlainText is a value that already was a string.
	PlainText Kind = iota
	// SpanSequence is an array of rich-text spans.
	SpanSequence
	// SingleSpan is one span object tagged "text".
	SingleSpan
	// TextProperty is an object carrying a string "text" property.
	TextProperty
	// ValueProperty is an object carrying a string "value" property.
	ValueProperty
	// Unrecognized is anything else; its text is the serialized value.
	Unrecognized
)

func (k Kind) String() string {
	switch k {
	case PlainText:
		return "plain_text"
	case SpanSequence:
		return "span_sequence"
	case SingleSpan:
		return "single_span"
	case TextProperty:
		return "text_property"
	case ValueProperty:
		return "value_property"
	default:
		return "unrecognized"
	}
}

// Value is a classified cell value.
type Value struct {
	Kind Kind
	// Parts holds one entry per span for SpanSequence; spans that are not
	// text contribute an empty part.
	Parts []string
	text  string
}

// Text returns the flat display string for the value.
func (v Value) Text() string {
	if v.Kind == SpanSequence {
		return strings.Join(v.Parts, "")
	}
	return v.text
}

// Normalize is Parse(raw).Text().
func Normalize(raw any) string {
	return Parse(raw).Text()
}

// Parse classifies raw. Strings are returned untouched; everything else is
// brought to JSON text, decoded, and matched against the known rich-text
// shapes. If the value cannot be brought to JSON, the raw value itself is
// inspected for "text" and "value" properties.
func Parse(raw any) Value {
	switch x := raw.(type) {
	case string:
		return Value{Kind: PlainText, text: x}
	case nil:
		return Value{Kind: Unrecognized}
	}
	data, err := encode(raw)
	if err == nil {
		var doc any
		if err = json.Unmarshal(data, &doc); err == nil {
			return classify(doc)
		}
	}
	return classifyRaw(raw)
}

// encode produces the JSON text form of raw. Byte slices are assumed to
// already hold JSON text.
func encode(raw any) ([]byte, error) {
	switch x := raw.(type) {
	case json.RawMessage:
		return x, nil
	case []byte:
		return x, nil
	default:
		return json.Marshal(raw)
	}
}

func classify(doc any) Value {
	switch x := doc.(type) {
	case string:
		return Value{Kind: PlainText, text: x}
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			span, ok := item.(map[string]any)
			if !ok || span["type"] != api.SpanText {
				continue
			}
			if s, ok := span["text"].(string); ok {
				parts[i] = s
			}
		}
		return Value{Kind: SpanSequence, Parts: parts}
	case map[string]any:
		if x["type"] == api.SpanText {
			if s, ok := x["text"].(string); ok && s != "" {
				return Value{Kind: SingleSpan, text: s}
			}
		}
		if v, ok := properties(x); ok {
			return v
		}
	}
	return Value{Kind: Unrecognized, text: serialize(doc)}
}

// classifyRaw is the fallback for values that could not round-trip
// through JSON.
func classifyRaw(raw any) Value {
	switch x := raw.(type) {
	case map[string]any:
		if v, ok := properties(x); ok {
			return v
		}
	case map[string]string:
		if s, ok := x["text"]; ok {
			return Value{Kind: TextProperty, text: s}
		}
		if s, ok := x["value"]; ok {
			return Value{Kind: ValueProperty, text: s}
		}
	}
	return Value{Kind: Unrecognized, text: serialize(raw)}
}

func properties(m map[string]any) (Value, bool) {
	if s, ok := m["text"].(string); ok {
		return Value{Kind: TextProperty, text: s}, true
	}
	if s, ok := m["value"].(string); ok {
		return Value{Kind: ValueProperty, text: s}, true
	}
	return Value{}, false
}

func serialize(v any) string {
	switch x := v.(type) {
	case json.RawMessage:
		return string(x)
	case []byte:
		return string(x)
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
