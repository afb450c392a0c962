// Package query resolves dotted and indexed path expressions against a
// structured data document.
//
// A document is parsed once into an immutable tree of *Value nodes. Object
// nodes keep the order in which their keys appeared in the source, so callers
// that render key/value pairs see them in authoring order.
//
// Example:
//
//	root, _ := query.Parse([]byte(`{"order": {"lines": [{"sku": "A1"}]}}`))
//	sku, _ := query.FindString(root, "order.lines[0].sku") // "A1"
package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:   "null",
	Bool:   "bool",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a node of a parsed data document.
// The zero Value is a null node.
type Value struct {
	kind  Kind
	b     bool
	num   json.Number
	str   string
	items []*Value
	keys  []string
	props map[string]*Value
}

// NullValue returns a fresh null node.
func NullValue() *Value { return &Value{kind: Null} }

// StringValue returns a string node holding s.
func StringValue(s string) *Value { return &Value{kind: String, str: s} }

// Kind reports the variant of v. A nil *Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// IsNull reports whether v is a null node.
func (v *Value) IsNull() bool { return v.Kind() == Null }

// Str returns the string content of a string node.
func (v *Value) Str() (string, bool) {
	if v.Kind() != String {
		return "", false
	}
	return v.str, true
}

// Num returns the numeric content of a number node.
func (v *Value) Num() (float64, bool) {
	if v.Kind() != Number {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

// Boolean returns the content of a bool node.
func (v *Value) Boolean() (bool, bool) {
	if v.Kind() != Bool {
		return false, false
	}
	return v.b, true
}

// Len returns the number of elements of an array or properties of an object.
func (v *Value) Len() int {
	switch v.Kind() {
	case Array:
		return len(v.items)
	case Object:
		return len(v.keys)
	}
	return 0
}

// Index returns the i-th element of an array node.
func (v *Value) Index(i int) (*Value, bool) {
	if v.Kind() != Array || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// Items returns the elements of an array node. The slice must not be modified.
func (v *Value) Items() []*Value {
	if v.Kind() != Array {
		return nil
	}
	return v.items
}

// Get returns the property key of an object node.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != Object {
		return nil, false
	}
	p, ok := v.props[key]
	return p, ok
}

// Keys returns the property names of an object node in source order.
// The slice must not be modified.
func (v *Value) Keys() []string {
	if v.Kind() != Object {
		return nil
	}
	return v.keys
}

// Text renders v as plain text: string content for strings, the literal for
// numbers and bools, "" for null and compact JSON for arrays and objects.
func (v *Value) Text() string {
	switch v.Kind() {
	case Null:
		return ""
	case Bool:
		return strconv.FormatBool(v.b)
	case Number:
		return v.num.String()
	case String:
		return v.str
	}
	var buf bytes.Buffer
	v.writeJSON(&buf)
	return buf.String()
}

// MarshalJSON encodes v preserving object key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.writeJSON(&buf)
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) {
	switch v.Kind() {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		buf.WriteString(v.num.String())
	case String:
		b, _ := json.Marshal(v.str)
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.writeJSON(buf)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, _ := json.Marshal(k)
			buf.Write(b)
			buf.WriteByte(':')
			v.props[k].writeJSON(buf)
		}
		buf.WriteByte('}')
	}
}

// Parse builds a Value tree from a JSON document.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("query: parsing document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("query: parsing document: trailing data after top-level value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return &Value{kind: Null}, nil
	case bool:
		return &Value{kind: Bool, b: t}, nil
	case json.Number:
		return &Value{kind: Number, num: t}, nil
	case string:
		return &Value{kind: String, str: t}, nil
	case json.Delim:
		switch t {
		case '[':
			return parseArray(dec)
		case '{':
			return parseObject(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func parseArray(dec *json.Decoder) (*Value, error) {
	v := &Value{kind: Array}
	for dec.More() {
		item, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		v.items = append(v.items, item)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return v, nil
}

func parseObject(dec *json.Decoder) (*Value, error) {
	v := &Value{kind: Object, props: make(map[string]*Value)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		prop, err := parseValue(dec)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		// A repeated key keeps its first position and its last value.
		if _, dup := v.props[key]; !dup {
			v.keys = append(v.keys, key)
		}
		v.props[key] = prop
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return v, nil
}

// describe is used in error messages.
func describe(v *Value) string {
	s := v.Text()
	if r := []rune(s); len(r) > 40 {
		s = string(r[:37]) + "..."
	}
	if v.Kind() == String {
		return "string " + strconv.Quote(s)
	}
	return strings.TrimSpace(v.Kind().String() + " " + s)
}
