package jsonvalue

import (
	"strconv"
	"strings"
)

// Kind identifies which variant of the JSON union a Value holds
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	// KindForeign marks a value that came from outside the JSON data model
	KindForeign
)

// String returns the JSON name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindForeign:
		return "foreign"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is one key/value pair of an object, kept in document order
type Member struct {
	Key   string
	Value *Value
}

// Value is an immutable parsed JSON value.
// A nil *Value behaves as JSON null.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	literal string // number text as written, empty when built from a float
	str     string
	items   []*Value
	members []Member
	foreign string // type name of a KindForeign value
}

// Null returns a JSON null
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a JSON boolean
func Bool(b bool) *Value {
	return &Value{kind: KindBool, boolean: b}
}

// Number returns a JSON number built from a float
func Number(f float64) *Value {
	return &Value{kind: KindNumber, number: f}
}

// Int returns a JSON number holding an integer
func Int(i int64) *Value {
	return &Value{kind: KindNumber, number: float64(i), literal: strconv.FormatInt(i, 10)}
}

// NumberLiteral returns a JSON number keeping its source text
func NumberLiteral(f float64, literal string) *Value {
	return &Value{kind: KindNumber, number: f, literal: literal}
}

// String returns a JSON string
func String(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// Array returns a JSON array of the given items
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// Object returns a JSON object whose members keep the given order
func Object(members ...Member) *Value {
	return &Value{kind: KindObject, members: members}
}

// Field is shorthand for building object members
func Field(key string, v *Value) Member {
	return Member{Key: key, Value: v}
}

// Foreign returns a value of a type the JSON model cannot represent
func Foreign(typeName string) *Value {
	return &Value{kind: KindForeign, foreign: typeName}
}

// Kind reports the variant held by v
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// Bool returns the boolean payload and whether v is a boolean
func (v *Value) Bool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.boolean, true
}

// Float returns the numeric payload and whether v is a number
func (v *Value) Float() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	return v.number, true
}

// Literal returns the number as written in the source document,
// or a shortest round-trip rendering when the value was built from a float.
func (v *Value) Literal() string {
	if v.Kind() != KindNumber {
		return ""
	}
	if v.literal != "" {
		return v.literal
	}
	return strconv.FormatFloat(v.number, 'g', -1, 64)
}

// IsInteger reports whether the number literal has no fraction or exponent
func (v *Value) IsInteger() bool {
	if v.Kind() != KindNumber {
		return false
	}
	if v.literal != "" {
		return !strings.ContainsAny(v.literal, ".eE")
	}
	return v.number == float64(int64(v.number))
}

// Str returns the string payload and whether v is a string
func (v *Value) Str() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.str, true
}

// TypeName returns the source type name of a foreign value
func (v *Value) TypeName() string {
	if v.Kind() != KindForeign {
		return ""
	}
	return v.foreign
}

// Items returns the elements of an array, nil for other kinds
func (v *Value) Items() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.items
}

// Members returns the members of an object in document order
func (v *Value) Members() []Member {
	if v.Kind() != KindObject {
		return nil
	}
	return v.members
}

// Len returns the number of elements or members, 0 for scalars
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Get looks up an object member by key
func (v *Value) Get(key string) (*Value, bool) {
	for _, m := range v.Members() {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}
