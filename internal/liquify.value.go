package internal

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int

// Value kind constants
const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindArray
	KindObject
)

// Kind name constants used in error messages
const (
	KindNameNil    = "nil"
	KindNameBool   = "bool"
	KindNameInt    = "integer"
	KindNameFloat  = "float"
	KindNameString = "string"
	KindNameTime   = "datetime"
	KindNameArray  = "array"
	KindNameObject = "object"
)

// TimeRenderLayout is the canonical textual form of a datetime value.
const TimeRenderLayout = "2006-01-02 15:04:05 -0700"

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return KindNameNil
	case KindBool:
		return KindNameBool
	case KindInt:
		return KindNameInt
	case KindFloat:
		return KindNameFloat
	case KindString:
		return KindNameString
	case KindTime:
		return KindNameTime
	case KindArray:
		return KindNameArray
	case KindObject:
		return KindNameObject
	default:
		return KindNameNil
	}
}

// Value is the closed tagged union over all data the template language can
// manipulate. The zero Value is Nil.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
	arr  []Value
	obj  *Object
}

// Constructors

// Nil returns the nil value.
func Nil() Value { return Value{kind: KindNil} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Time returns a datetime value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Array returns an array value over the given elements.
func Array(elems ...Value) Value { return Value{kind: KindArray, arr: elems} }

// ObjectValue wraps an Object into a Value.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Accessors

// Kind returns the variant tag of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNil reports whether the value is Nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// AsBool returns the boolean payload (only meaningful for KindBool).
func (v Value) AsBool() bool { return v.b }

// AsInt returns the integer payload (only meaningful for KindInt).
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the float payload (only meaningful for KindFloat).
func (v Value) AsFloat() float64 { return v.f }

// AsString returns the string payload (only meaningful for KindString).
func (v Value) AsString() string { return v.s }

// AsTime returns the datetime payload (only meaningful for KindTime).
func (v Value) AsTime() time.Time { return v.t }

// AsArray returns the element slice (only meaningful for KindArray).
func (v Value) AsArray() []Value { return v.arr }

// AsObject returns the object payload (only meaningful for KindObject).
func (v Value) AsObject() *Object { return v.obj }

// Truthy reports the branch-condition interpretation of the value.
// Only Nil and Bool(false) are falsy; everything else, including zero,
// the empty string and empty collections, is truthy.
func (v Value) Truthy() bool {
	if v.kind == KindNil {
		return false
	}
	if v.kind == KindBool {
		return v.b
	}
	return true
}

// Len returns the number of elements for arrays and objects, the rune
// length for strings, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	case KindString:
		return len([]rune(v.s))
	default:
		return 0
	}
}

// asNumber extracts a float for cross-kind numeric comparison.
func (v Value) asNumber() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Equal reports structural equality, comparing compatible scalar kinds
// across the Int/Float boundary.
func (v Value) Equal(other Value) bool {
	if an, aok := v.asNumber(); aok {
		if bn, bok := other.asNumber(); bok {
			return an == bn
		}
		return false
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindTime:
		return v.t.Equal(other.t)
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.equal(other.obj)
	default:
		return false
	}
}

// Compare orders two values. ok is false when the kinds have no defined
// ordering (e.g. array vs string). Numbers order across Int/Float, strings
// lexicographically, datetimes chronologically.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	if an, aok := v.asNumber(); aok {
		if bn, bok := other.asNumber(); bok {
			switch {
			case an < bn:
				return -1, true
			case an > bn:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if v.kind == KindString && other.kind == KindString {
		return strings.Compare(v.s, other.s), true
	}
	if v.kind == KindTime && other.kind == KindTime {
		switch {
		case v.t.Before(other.t):
			return -1, true
		case v.t.After(other.t):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// Contains implements the `contains` operator: substring test for strings,
// element membership for arrays, key presence for objects.
func (v Value) Contains(other Value) bool {
	switch v.kind {
	case KindString:
		return strings.Contains(v.s, other.Render())
	case KindArray:
		for _, elem := range v.arr {
			if elem.Equal(other) {
				return true
			}
		}
		return false
	case KindObject:
		if other.kind != KindString {
			return false
		}
		_, ok := v.obj.Get(other.s)
		return ok
	default:
		return false
	}
}

// Render converts the value to its canonical, locale-independent textual
// form. Rendering is total: it never fails.
func (v Value) Render() string {
	switch v.kind {
	case KindNil:
		return StringValueEmpty
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return renderFloat(v.f)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(TimeRenderLayout)
	case KindArray:
		var sb strings.Builder
		for _, elem := range v.arr {
			sb.WriteString(elem.Render())
		}
		return sb.String()
	case KindObject:
		return v.obj.render()
	default:
		return StringValueEmpty
	}
}

// renderFloat keeps an integral float distinguishable from an integer
// ("1.0" rather than "1") while rendering other floats minimally.
func renderFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	if math.Trunc(f) == f && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Index performs permissive array access. Negative indices count from the
// end. Out-of-range access yields Nil, not an error.
func (v Value) Index(i int64) Value {
	if v.kind != KindArray {
		return Nil()
	}
	n := int64(len(v.arr))
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return Nil()
	}
	return v.arr[i]
}

// Key performs permissive object access. A missing key yields Nil.
// Arrays answer the pseudo-keys "first", "last" and "size"; strings and
// objects answer "size" as well.
func (v Value) Key(key string) Value {
	switch v.kind {
	case KindObject:
		if val, ok := v.obj.Get(key); ok {
			return val
		}
		if key == pseudoKeySize {
			return Int(int64(v.obj.Len()))
		}
		return Nil()
	case KindArray:
		switch key {
		case pseudoKeyFirst:
			return v.Index(0)
		case pseudoKeyLast:
			return v.Index(-1)
		case pseudoKeySize:
			return Int(int64(len(v.arr)))
		}
		return Nil()
	case KindString:
		if key == pseudoKeySize {
			return Int(int64(len([]rune(v.s))))
		}
		return Nil()
	default:
		return Nil()
	}
}

// Pseudo-key constants for permissive lookup sugar
const (
	pseudoKeyFirst = "first"
	pseudoKeyLast  = "last"
	pseudoKeySize  = "size"
)

// CoerceError reports a type coercion with no meaningful result.
type CoerceError struct {
	FromKind string
	ToKind   string
}

// Error implements the error interface.
func (e *CoerceError) Error() string {
	return fmt.Sprintf("cannot coerce %s to %s", e.FromKind, e.ToKind)
}

func newCoerceError(from ValueKind, to string) error {
	return &CoerceError{FromKind: from.String(), ToKind: to}
}

// ToInt coerces the value to an integer. Floats truncate toward zero and
// strings parse; other kinds fail with a CoerceError naming the source kind.
func (v Value) ToInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindFloat:
		return int64(v.f), nil
	case KindString:
		if i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return int64(f), nil
		}
		return 0, newCoerceError(v.kind, KindNameInt)
	default:
		return 0, newCoerceError(v.kind, KindNameInt)
	}
}

// ToFloat coerces the value to a float. Integers widen and strings parse;
// other kinds fail with a CoerceError naming the source kind.
func (v Value) ToFloat() (float64, error) {
	switch v.kind {
	case KindInt:
		return float64(v.i), nil
	case KindFloat:
		return v.f, nil
	case KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return f, nil
		}
		return 0, newCoerceError(v.kind, KindNameFloat)
	default:
		return 0, newCoerceError(v.kind, KindNameFloat)
	}
}

// ToStr coerces the value to a string. This is total and identical to
// Render.
func (v Value) ToStr() string { return v.Render() }

// FromAny converts arbitrary Go data into a Value. Maps become Objects
// (keys sorted for determinism), slices become Arrays, scalars map onto
// the matching kind and nil becomes Nil. Unsupported types fall back to
// their fmt representation as a string.
func FromAny(data any) Value {
	switch d := data.(type) {
	case nil:
		return Nil()
	case Value:
		return d
	case *Object:
		return ObjectValue(d)
	case bool:
		return Bool(d)
	case int:
		return Int(int64(d))
	case int32:
		return Int(int64(d))
	case int64:
		return Int(d)
	case uint:
		return Int(int64(d))
	case uint64:
		return Int(int64(d))
	case float32:
		return Float(float64(d))
	case float64:
		return Float(d)
	case string:
		return Str(d)
	case time.Time:
		return Time(d)
	case []Value:
		return Array(d...)
	case []any:
		elems := make([]Value, len(d))
		for i, e := range d {
			elems[i] = FromAny(e)
		}
		return Array(elems...)
	case []string:
		elems := make([]Value, len(d))
		for i, e := range d {
			elems[i] = Str(e)
		}
		return Array(elems...)
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromAny(d[k]))
		}
		return ObjectValue(obj)
	case map[string]string:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, Str(d[k]))
		}
		return ObjectValue(obj)
	default:
		return Str(fmt.Sprintf("%v", d))
	}
}

// ToAny converts a Value back into plain Go data (inverse of FromAny up to
// map ordering).
func (v Value) ToAny() any {
	switch v.kind {
	case KindNil:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTime:
		return v.t
	case KindArray:
		out := make([]any, len(v.arr))
		for i, elem := range v.arr {
			out[i] = elem.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, k := range v.obj.Keys() {
			val, _ := v.obj.Get(k)
			out[k] = val.ToAny()
		}
		return out
	default:
		return nil
	}
}

// Object is a string-keyed mapping with insertion order preserved and
// unique keys.
type Object struct {
	keys    []string
	entries map[string]Value
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{entries: make(map[string]Value)}
}

// Set binds key to val, overwriting any prior binding while keeping the
// key's original insertion position.
func (o *Object) Set(key string, val Value) {
	if _, exists := o.entries[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = val
}

// Get retrieves the value bound to key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Nil(), false
	}
	val, ok := o.entries[key]
	return val, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// equal compares two objects structurally, ignoring insertion order.
func (o *Object) equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for k, v := range o.entries {
		ov, ok := other.entries[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// render produces the canonical textual form of an object.
func (o *Object) render() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(o.entries[k].Render())
	}
	sb.WriteByte('}')
	return sb.String()
}
