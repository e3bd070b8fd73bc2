package document

import (
	"fmt"
	"math"
	"slices"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	// KindObject is an ordered key/value mapping.
	KindObject Kind = iota
	// KindArray is an ordered sequence.
	KindArray
	// KindScalar is a string, number, bool or null.
	KindScalar
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindScalar:
		return "scalar"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is a value in a configuration document.
// The only implementations are *Object, *Array and *Scalar.
type Node interface {
	Kind() Kind
	// Clone returns a deep copy of the node.
	Clone() Node

	sealed()
}

// Object is an ordered mapping of string keys to nodes.
type Object struct {
	keys   []string
	values map[string]Node
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{
		values: make(map[string]Node),
	}
}

// Kind implements Node.
func (o *Object) Kind() Kind { return KindObject }

func (o *Object) sealed() {}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Get returns the node stored under key.
func (o *Object) Get(key string) (Node, bool) {
	node, ok := o.values[key]

	return node, ok
}

// Set stores value under key. An existing key keeps its position, a new key
// is appended. A nil value is stored as a null Scalar.
func (o *Object) Set(key string, value Node) {
	if value == nil {
		value = Null()
	}

	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}

	o.values[key] = value
}

// SetFirst stores value under key and moves key to the first position.
func (o *Object) SetFirst(key string, value Node) {
	o.Delete(key)

	if value == nil {
		value = Null()
	}

	o.keys = slices.Insert(o.keys, 0, key)
	o.values[key] = value
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, exists := o.values[key]; !exists {
		return false
	}

	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })

	return true
}

// Each calls fn for every entry in key order.
func (o *Object) Each(fn func(key string, value Node)) {
	for _, key := range o.keys {
		fn(key, o.values[key])
	}
}

// Clone implements Node.
func (o *Object) Clone() Node {
	return o.Copy()
}

// Copy returns a deep copy of the object.
func (o *Object) Copy() *Object {
	clone := &Object{
		keys:   slices.Clone(o.keys),
		values: make(map[string]Node, len(o.values)),
	}

	for key, value := range o.values {
		clone.values[key] = value.Clone()
	}

	return clone
}

// Array is an ordered sequence of nodes.
type Array struct {
	items []Node
}

// NewArray creates an Array holding items.
func NewArray(items ...Node) *Array {
	a := &Array{}
	a.Append(items...)

	return a
}

// Kind implements Node.
func (a *Array) Kind() Kind { return KindArray }

func (a *Array) sealed() {}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at index i.
func (a *Array) At(i int) Node {
	return a.items[i]
}

// Set replaces the element at index i.
func (a *Array) Set(i int, value Node) {
	if value == nil {
		value = Null()
	}

	a.items[i] = value
}

// Append adds elements to the end of the array.
func (a *Array) Append(values ...Node) {
	for _, value := range values {
		if value == nil {
			value = Null()
		}

		a.items = append(a.items, value)
	}
}

// Items returns a copy of the element slice.
func (a *Array) Items() []Node {
	return slices.Clone(a.items)
}

// Clone implements Node.
func (a *Array) Clone() Node {
	clone := &Array{items: make([]Node, len(a.items))}
	for i, item := range a.items {
		clone.items[i] = item.Clone()
	}

	return clone
}

// Scalar is a leaf value: string, int64, float64, json.Number, bool or nil.
type Scalar struct {
	value any
}

// NewScalar creates a Scalar. Integer types are normalized to int64 (uint64
// when they do not fit) and float32 to float64.
func NewScalar(value any) *Scalar {
	return &Scalar{value: normalizeScalar(value)}
}

// Null returns a null Scalar.
func Null() *Scalar {
	return &Scalar{}
}

// Kind implements Node.
func (s *Scalar) Kind() Kind { return KindScalar }

func (s *Scalar) sealed() {}

// Value returns the underlying Go value.
func (s *Scalar) Value() any {
	return s.value
}

// IsNull reports whether the scalar is null.
func (s *Scalar) IsNull() bool {
	return s.value == nil
}

// Text returns the value when it is a string.
func (s *Scalar) Text() (string, bool) {
	text, ok := s.value.(string)

	return text, ok
}

// String formats the value for diagnostics.
func (s *Scalar) String() string {
	if s.value == nil {
		return "null"
	}

	return fmt.Sprint(s.value)
}

// Clone implements Node.
func (s *Scalar) Clone() Node {
	return &Scalar{value: s.value}
}

// TextField returns the string stored under key when obj holds a string
// Scalar there.
func TextField(obj *Object, key string) (string, bool) {
	node, ok := obj.Get(key)
	if !ok {
		return "", false
	}

	scalar, ok := node.(*Scalar)
	if !ok {
		return "", false
	}

	return scalar.Text()
}

func normalizeScalar(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return normalizeUnsigned(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return normalizeUnsigned(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

func normalizeUnsigned(v uint64) any {
	if v > math.MaxInt64 {
		return v
	}

	return int64(v)
}
