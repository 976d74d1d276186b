package catcode

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// paramKind tells how a parameter value is obtained.
type paramKind uint8

const (
	eagerParam paramKind = iota // value and raw form computed at construction
	lazyParam                   // value and raw form computed on first read, once
)

// param is a single parameter value. An eager param stores both the decoded
// value and its escaped wire form. A lazy param stores memoized thunks that
// are safe to call from several goroutines.
type param struct {
	kind    paramKind
	value   string
	raw     string
	valueFn func() string
	rawFn   func() string
}

// eagerValue builds an eager param from a decoded value.
func eagerValue(value string) param {
	return param{kind: eagerParam, value: value, raw: EncodeParam(value)}
}

// eagerRaw builds an eager param from an escaped wire value.
func eagerRaw(raw string) param {
	return param{kind: eagerParam, value: DecodeParam(raw), raw: raw}
}

// lazyFunc builds a lazy param whose value comes from fn.
func lazyFunc(fn func() string) param {
	valueFn := sync.OnceValue(fn)
	return param{
		kind:    lazyParam,
		valueFn: valueFn,
		rawFn:   sync.OnceValue(func() string { return EncodeParam(valueFn()) }),
	}
}

// lazyRaw builds a lazy param from an escaped wire value; decoding is
// deferred until the value is read.
func lazyRaw(raw string) param {
	return param{
		kind:    lazyParam,
		raw:     raw,
		valueFn: sync.OnceValue(func() string { return DecodeParam(raw) }),
		rawFn:   func() string { return raw },
	}
}

// Value returns the decoded value.
func (p param) Value() string {
	if p.kind == lazyParam {
		return p.valueFn()
	}
	return p.value
}

// Raw returns the escaped wire form.
func (p param) Raw() string {
	if p.kind == lazyParam {
		return p.rawFn()
	}
	return p.raw
}

// paramSet is an insertion-ordered parameter map. Rendering follows the
// insertion order so that a parsed code prints back as it was read. Read
// methods accept a nil receiver, which behaves as an empty set.
type paramSet struct {
	keys   []string
	values map[string]param
}

func newParamSet(size int) *paramSet {
	return &paramSet{
		keys:   make([]string, 0, size),
		values: make(map[string]param, size),
	}
}

func (s *paramSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

func (s *paramSet) get(key string) (param, bool) {
	if s == nil {
		return param{}, false
	}
	p, ok := s.values[key]
	return p, ok
}

// put stores p under key and returns the previous param, if any. A replaced
// key keeps its original position.
func (s *paramSet) put(key string, p param) (param, bool) {
	prev, ok := s.values[key]
	if !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = p
	return prev, ok
}

func (s *paramSet) remove(key string) (param, bool) {
	prev, ok := s.values[key]
	if !ok {
		return param{}, false
	}
	delete(s.values, key)
	if i := slices.Index(s.keys, key); i >= 0 {
		s.keys = slices.Delete(s.keys, i, i+1)
	}
	return prev, true
}

func (s *paramSet) clear() {
	s.keys = s.keys[:0]
	clear(s.values)
}

// clone copies the set. Params themselves are immutable, so lazy thunks are
// shared with the copy.
func (s *paramSet) clone() *paramSet {
	if s == nil {
		return newParamSet(0)
	}
	return &paramSet{
		keys:   slices.Clone(s.keys),
		values: maps.Clone(s.values),
	}
}

func (s *paramSet) each(f func(key string, p param) bool) {
	if s == nil {
		return
	}
	for _, key := range s.keys {
		if !f(key, s.values[key]) {
			return
		}
	}
}

// render writes the full code token for namespace and subtype.
func (s *paramSet) render(namespace, subtype string) string {
	var b strings.Builder
	b.WriteString(Head(namespace))
	b.WriteString(subtype)
	s.each(func(key string, p param) bool {
		b.WriteString(paramSeparator)
		b.WriteString(key)
		b.WriteString(keyValueSeparator)
		b.WriteString(p.Raw())
		return true
	})
	b.WriteString(codeEnd)
	return b.String()
}
