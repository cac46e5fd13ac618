package world

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags the shape carried by a Value. Properties are an
// ad-hoc extension point, so rather than storing
// interface{} everywhere we carry an explicit tag: callers that know
// the expected shape for a well-known key (e.g. "container.open" is
// always Bool) get a typed accessor that fails loudly on mismatch,
// while unknown keys still round-trip through JSON untouched.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList   // homogeneous []string: used for both StringList and IdList
	KindMap    // nested Properties
)

// Value is a tagged-union property value. The zero Value is KindNil.
type Value struct {
	kind ValueKind
	b    bool
	i    int
	f    float64
	s    string
	list []string
	m    Properties
}

func NewNil() Value             { return Value{kind: KindNil} }
func NewBool(b bool) Value      { return Value{kind: KindBool, b: b} }
func NewInt(i int) Value        { return Value{kind: KindInt, i: i} }
func NewFloat(f float64) Value  { return Value{kind: KindFloat, f: f} }
func NewString(s string) Value  { return Value{kind: KindString, s: s} }
func NewList(l []string) Value  { return Value{kind: KindList, list: append([]string(nil), l...)} }
func NewMap(m Properties) Value { return Value{kind: KindMap, m: m} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNil() bool     { return v.kind == KindNil }

func (v Value) Bool() (bool, bool)       { return v.b, v.kind == KindBool }
func (v Value) Int() (int, bool)         { return v.i, v.kind == KindInt }
func (v Value) Float() (float64, bool)   { return v.f, v.kind == KindFloat }
func (v Value) String() (string, bool)   { return v.s, v.kind == KindString }
func (v Value) List() ([]string, bool)   { return v.list, v.kind == KindList }
func (v Value) Map() (Properties, bool)  { return v.m, v.kind == KindMap }

// BoolOr returns the bool value, or def if the value is not a bool.
func (v Value) BoolOr(def bool) bool {
	if v.kind == KindBool {
		return v.b
	}
	return def
}

// IntOr returns the int value, or def if the value is not an int.
func (v Value) IntOr(def int) int {
	if v.kind == KindInt {
		return v.i
	}
	return def
}

// StringOr returns the string value, or def if the value is not a string.
func (v Value) StringOr(def string) string {
	if v.kind == KindString {
		return v.s
	}
	return def
}

// Properties is the per-entity extension-point mapping: string keys to
// tagged-union values, with intermediate maps created on demand by the
// path DSL (accessor package).
type Properties map[string]Value

// Clone returns a deep copy of p.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		if v.kind == KindMap {
			out[k] = NewMap(v.m.Clone())
		} else {
			out[k] = v
		}
	}
	return out
}

// MarshalJSON encodes a Value as plain JSON (bool/number/string/array/object).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNil:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		return json.Marshal(v.list)
	case KindMap:
		return json.Marshal(v.m)
	default:
		return nil, fmt.Errorf("world: unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON decodes plain JSON into the appropriate tagged shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return NewNil()
	case bool:
		return NewBool(t)
	case float64:
		if t == float64(int(t)) {
			return NewInt(int(t))
		}
		return NewFloat(t)
	case string:
		return NewString(t)
	case []interface{}:
		list := make([]string, 0, len(t))
		allStrings := true
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				allStrings = false
				break
			}
			list = append(list, s)
		}
		if allStrings {
			return NewList(list)
		}
		// Mixed-type array: fall back to a nested map keyed by index so it
		// still round-trips without data loss.
		m := make(Properties, len(t))
		for i, e := range t {
			m[fmt.Sprintf("%d", i)] = fromAny(e)
		}
		return NewMap(m)
	case map[string]interface{}:
		m := make(Properties, len(t))
		for k, e := range t {
			m[k] = fromAny(e)
		}
		return NewMap(m)
	default:
		return NewNil()
	}
}
