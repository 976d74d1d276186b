package catcode

import (
	"fmt"
	"hash/fnv"
	"iter"
	"reflect"
)

// Param is a single decoded parameter.
type Param struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// View is the read contract shared by Code and MutableCode.
//
// Parameter values returned by Get, Values, Entries and All are decoded.
// Iteration follows insertion order for every implementation in this
// package, but callers must not rely on any particular order.
type View interface {
	fmt.Stringer

	// Namespace returns the code type, e.g. "CAT" or "CQ".
	Namespace() string
	// Subtype returns the code's kind, e.g. "at" or "image".
	Subtype() string

	Get(key string) (string, bool)
	// GetRaw returns the value in its escaped wire form.
	GetRaw(key string) (string, bool)
	GetOrDefault(key, defaultValue string) string
	ContainsKey(key string) bool
	ContainsValue(value string) bool
	IsEmpty() bool
	Len() int
	Keys() []string
	Values() []string
	Entries() []Param
	All() iter.Seq2[string, string]

	IsMutable() bool
	// AsMutable returns a mutable view, which is the receiver itself when it
	// is already mutable.
	AsMutable() *MutableCode
	// ToMutable always returns an independent mutable copy.
	ToMutable() *MutableCode
	// AsImmutable returns an immutable view, which is the receiver itself
	// when it is already immutable.
	AsImmutable() *Code
	// ToImmutable always returns an independent immutable copy.
	ToImmutable() *Code

	// SwitchNamespace returns an immutable code with the same subtype and
	// parameters under namespace.
	SwitchNamespace(namespace string) *Code

	// Equal reports whether other has the same namespace, subtype and
	// decoded parameters. Mutability and backing strategy are ignored.
	Equal(other View) bool
	// Hash is consistent with Equal.
	Hash() uint64
}

// SwitchNamespace re-stamps v under namespace. See View.SwitchNamespace.
func SwitchNamespace(v View, namespace string) *Code {
	return v.SwitchNamespace(namespace)
}

// The helpers below implement the read contract over a paramSet.

func getValue(s *paramSet, key string) (string, bool) {
	p, ok := s.get(key)
	if !ok {
		return "", false
	}
	return p.Value(), true
}

func getRaw(s *paramSet, key string) (string, bool) {
	p, ok := s.get(key)
	if !ok {
		return "", false
	}
	return p.Raw(), true
}

func getOrDefault(s *paramSet, key, defaultValue string) string {
	if v, ok := getValue(s, key); ok {
		return v
	}
	return defaultValue
}

// containsValue forces every lazy value.
func containsValue(s *paramSet, value string) bool {
	found := false
	s.each(func(_ string, p param) bool {
		found = p.Value() == value
		return !found
	})
	return found
}

func keysOf(s *paramSet) []string {
	keys := make([]string, 0, s.len())
	s.each(func(key string, _ param) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func valuesOf(s *paramSet) []string {
	values := make([]string, 0, s.len())
	s.each(func(_ string, p param) bool {
		values = append(values, p.Value())
		return true
	})
	return values
}

func entriesOf(s *paramSet) []Param {
	entries := make([]Param, 0, s.len())
	s.each(func(key string, p param) bool {
		entries = append(entries, Param{Key: key, Value: p.Value()})
		return true
	})
	return entries
}

func allOf(s *paramSet) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		s.each(func(key string, p param) bool {
			return yield(key, p.Value())
		})
	}
}

func equalViews(a, b View) bool {
	if isNilView(a) || isNilView(b) {
		return isNilView(a) && isNilView(b)
	}
	if a.Namespace() != b.Namespace() || a.Subtype() != b.Subtype() || a.Len() != b.Len() {
		return false
	}
	for key, value := range a.All() {
		if other, ok := b.Get(key); !ok || other != value {
			return false
		}
	}
	return true
}

// isNilView also catches a nil pointer stored in a non-nil View.
func isNilView(v View) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// hashView combines per-entry hashes with addition so that the result does
// not depend on iteration order.
func hashView(v View) uint64 {
	h := fnv.New64a()
	h.Write([]byte(v.Namespace()))
	h.Write([]byte{0})
	h.Write([]byte(v.Subtype()))
	sum := h.Sum64()

	for key, value := range v.All() {
		eh := fnv.New64a()
		eh.Write([]byte(key))
		eh.Write([]byte{0})
		eh.Write([]byte(value))
		sum += eh.Sum64()
	}
	return sum
}
