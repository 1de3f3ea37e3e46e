package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Member is one key/value pair of a mapping. Mappings keep document order.
type Member struct {
	Key   string
	Value Value
}

// Value is a parsed, untyped document tree. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string content, or the literal text of a number
	items   []Value
	members []Member
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a JSON number literal, kept verbatim.
func Number(lit string) Value { return Value{kind: KindNumber, s: lit} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence builds an ordered list.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// Mapping builds a mapping in the given key order.
func Mapping(members ...Member) Value {
	return Value{kind: KindMapping, members: members}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Items() []Value { return v.items }

func (v Value) Members() []Member { return v.members }

// Lookup returns the value stored under key. The comparison is case-sensitive.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Truthy reports whether the value counts as present: null, false, zero,
// empty strings and empty containers do not.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return true
		}
		return f != 0
	case KindString:
		return v.s != ""
	case KindSequence:
		return len(v.items) > 0
	case KindMapping:
		return len(v.members) > 0
	default:
		return false
	}
}

// Text coerces the value to display text. Containers render as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber, KindString:
		return v.s
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// MarshalJSON writes the value back out, preserving mapping order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if !json.Valid([]byte(v.s)) {
			return fmt.Errorf("invalid number literal %q", v.s)
		}
		buf.WriteString(v.s)
	case KindString:
		writeJSONString(buf, v.s)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, m.Key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode always terminates with a newline.
	buf.Truncate(buf.Len() - 1)
}

// UnmarshalJSON parses data with Decode.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MaxDecodeDepth bounds container nesting accepted by Decode, matching the
// limit encoding/json applies in Unmarshal.
const MaxDecodeDepth = 10000

// ErrTooDeep is returned by Decode for documents nested beyond MaxDecodeDepth.
var ErrTooDeep = errors.New("document exceeds maximum nesting depth")

// Decode parses exactly one JSON document from r. Trailing content is an error.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return Value{}, errors.New("unexpected content after top-level value")
		}
		return Value{}, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxDecodeDepth {
			return Value{}, ErrTooDeep
		}
		switch t {
		case '{':
			return decodeMapping(dec, depth+1)
		case '[':
			return decodeSequence(dec, depth+1)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return String(t), nil
	case json.Number:
		return Number(string(t)), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeMapping(dec *json.Decoder, depth int) (Value, error) {
	var members []Member
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected object key, got %v", tok)
		}
		val, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		// A repeated key keeps its first position and its last value.
		if i, dup := index[key]; dup {
			members[i].Value = val
			continue
		}
		index[key] = len(members)
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Mapping(members...), nil
}

func decodeSequence(dec *json.Decoder, depth int) (Value, error) {
	var items []Value
	for dec.More() {
		val, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		items = append(items, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Sequence(items...), nil
}
