package tree

import (
	"bytes"
	"encoding/json"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Kind identifies the shape of a [Value].
type Kind int

const (
	KindNull    Kind = iota // null
	KindObject              // object
	KindList                // list
	KindInt                 // int
	KindLong                // long
	KindFloat               // float
	KindString              // string
	KindInstant             // instant
)

// String returns the name of the value kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindInstant:
		return "instant"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsScalar reports whether k is one of the scalar kinds.
func (k Kind) IsScalar() bool {
	switch k {
	case KindInt, KindLong, KindFloat, KindString, KindInstant:
		return true
	default:
		return false
	}
}

// Value is one element of a typed configuration tree.
type Value struct {
	Kind    Kind
	Object  *Object
	List    []*Value
	Int     int32
	Long    int64
	Float   float64
	Str     string
	Instant time.Time
}

// Null returns a null value.
func Null() *Value { return &Value{Kind: KindNull} }

// Int returns a 32-bit integer scalar.
func Int(i int32) *Value { return &Value{Kind: KindInt, Int: i} }

// Long returns a 64-bit integer scalar.
func Long(i int64) *Value { return &Value{Kind: KindLong, Long: i} }

// Float returns a double-precision float scalar.
func Float(f float64) *Value { return &Value{Kind: KindFloat, Float: f} }

// String returns a string scalar.
func String(s string) *Value { return &Value{Kind: KindString, Str: s} }

// Instant returns an instant-in-time scalar.
func Instant(t time.Time) *Value { return &Value{Kind: KindInstant, Instant: t} }

// List returns a list value containing the given elements.
func List(elems ...*Value) *Value {
	if elems == nil {
		elems = []*Value{}
	}

	return &Value{Kind: KindList, List: elems}
}

// FromObject returns an object value backed by o.
// A nil o yields an empty object.
func FromObject(o *Object) *Value {
	if o == nil {
		o = NewObject()
	}

	return &Value{Kind: KindObject, Object: o}
}

// Integer returns the narrowest integer scalar holding i: a 32-bit integer
// when i fits, a 64-bit integer otherwise.
func Integer(i int64) *Value {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return Int(int32(i))
	}

	return Long(i)
}

// Object is a string-keyed mapping of typed values.
//
// Keys remember the order in which they were first set. Setting an existing
// key replaces its value in place.
type Object struct {
	keys []string
	vals map[string]*Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: make(map[string]*Value)}
}

// Set stores v under key. Last write wins.
func (o *Object) Set(key string, v *Value) {
	if o.vals == nil {
		o.vals = make(map[string]*Value)
	}

	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.vals[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (*Value, bool) {
	if o == nil {
		return nil, false
	}

	v, ok := o.vals[key]

	return v, ok
}

// Len returns the number of keys in o.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Keys returns the keys of o in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return slices.Clone(o.keys)
}

// All returns an iterator over the entries of o in insertion order.
func (o *Object) All() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		if o == nil {
			return
		}

		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}

// Native converts v to plain Go values: map[string]any, []any, int32,
// int64, float64, string, time.Time, or nil.
func (v *Value) Native() any {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case KindObject:
		m := make(map[string]any, v.Object.Len())
		for k, e := range v.Object.All() {
			m[k] = e.Native()
		}

		return m

	case KindList:
		list := make([]any, 0, len(v.List))
		for _, e := range v.List {
			list = append(list, e.Native())
		}

		return list

	case KindInt:
		return v.Int

	case KindLong:
		return v.Long

	case KindFloat:
		return v.Float

	case KindString:
		return v.Str

	case KindInstant:
		return v.Instant

	default:
		return nil
	}
}

// Text returns the scalar text of v. Objects and lists are rendered as
// compact JSON.
func (v *Value) Text() string {
	if v == nil {
		return "null"
	}

	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case KindLong:
		return strconv.FormatInt(v.Long, 10)
	case KindFloat:
		return formatFloat(v.Float)
	case KindString:
		return v.Str
	case KindInstant:
		return v.Instant.UTC().Format(time.RFC3339Nano)
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}

		return string(b)
	}
}

// Equal reports whether v and w hold the same kind and contents.
// NaN floats compare equal to each other, and instants compare with
// [time.Time.Equal].
func (v *Value) Equal(w *Value) bool {
	if v == nil || w == nil {
		return v == w
	}

	if v.Kind != w.Kind {
		return false
	}

	switch v.Kind {
	case KindNull:
		return true

	case KindObject:
		if v.Object.Len() != w.Object.Len() {
			return false
		}

		for k, a := range v.Object.All() {
			b, ok := w.Object.Get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}

		return true

	case KindList:
		return slices.EqualFunc(v.List, w.List, (*Value).Equal)

	case KindInt:
		return v.Int == w.Int

	case KindLong:
		return v.Long == w.Long

	case KindFloat:
		return v.Float == w.Float || (math.IsNaN(v.Float) && math.IsNaN(w.Float))

	case KindString:
		return v.Str == w.Str

	case KindInstant:
		return v.Instant.Equal(w.Instant)

	default:
		return false
	}
}

// Lookup returns the value at the given dot-separated path.
// Path segments select object keys, or list elements when the segment is a
// decimal index. An empty path returns v itself.
func (v *Value) Lookup(path string) (*Value, bool) {
	if path == "" {
		return v, v != nil
	}

	cur := v

	for seg := range strings.SplitSeq(path, ".") {
		if cur == nil {
			return nil, false
		}

		switch cur.Kind {
		case KindObject:
			next, ok := cur.Object.Get(seg)
			if !ok {
				return nil, false
			}

			cur = next

		case KindList:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(cur.List) {
				return nil, false
			}

			cur = cur.List[i]

		default:
			return nil, false
		}
	}

	return cur, cur != nil
}

// MarshalJSON implements [json.Marshaler].
// Object keys keep their insertion order, instants are encoded as RFC 3339
// strings, and non-finite floats are encoded as strings.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")

		return nil
	}

	var scalar any

	switch v.Kind {
	case KindNull:
		buf.WriteString("null")

		return nil

	case KindObject:
		buf.WriteByte('{')

		i := 0
		for k, e := range v.Object.All() {
			if i > 0 {
				buf.WriteByte(',')
			}

			key, err := json.Marshal(k)
			if err != nil {
				return err
			}

			buf.Write(key)
			buf.WriteByte(':')

			if err := e.writeJSON(buf); err != nil {
				return err
			}

			i++
		}

		buf.WriteByte('}')

		return nil

	case KindList:
		buf.WriteByte('[')

		for i, e := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := e.writeJSON(buf); err != nil {
				return err
			}
		}

		buf.WriteByte(']')

		return nil

	case KindInt:
		scalar = v.Int

	case KindLong:
		scalar = v.Long

	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			scalar = formatFloat(v.Float)
		} else {
			scalar = v.Float
		}

	case KindString:
		scalar = v.Str

	case KindInstant:
		scalar = v.Instant.UTC().Format(time.RFC3339Nano)

	default:
		buf.WriteString("null")

		return nil
	}

	b, err := json.Marshal(scalar)
	if err != nil {
		return err
	}

	buf.Write(b)

	return nil
}

// MarshalYAML implements the YAML interface marshaler, emitting objects as
// ordered mappings.
func (v *Value) MarshalYAML() (any, error) {
	return v.ordered(), nil
}

func (v *Value) ordered() any {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case KindObject:
		m := make(yaml.MapSlice, 0, v.Object.Len())
		for k, e := range v.Object.All() {
			m = append(m, yaml.MapItem{Key: k, Value: e.ordered()})
		}

		return m

	case KindList:
		list := make([]any, 0, len(v.List))
		for _, e := range v.List {
			list = append(list, e.ordered())
		}

		return list

	case KindInstant:
		return v.Instant.UTC()

	default:
		return v.Native()
	}
}
