package catcode

import (
	"fmt"
	"strings"
)

// carrier accumulates parameters and produces a builder's result.
type carrier[T any] interface {
	put(key string, p param)
	build(namespace, subtype string) T
}

// stringCarrier appends escaped parameters to a string as they arrive. A key
// given twice appears twice in the output.
type stringCarrier struct {
	params strings.Builder
}

func (c *stringCarrier) put(key string, p param) {
	c.params.WriteString(paramSeparator)
	c.params.WriteString(key)
	c.params.WriteString(keyValueSeparator)
	c.params.WriteString(p.Raw())
}

func (c *stringCarrier) build(namespace, subtype string) string {
	return Head(namespace) + subtype + c.params.String() + codeEnd
}

// codeCarrier collects parameters into a paramSet. When lazy is false every
// thunk is evaluated as soon as it is supplied.
type codeCarrier struct {
	params *paramSet
	lazy   bool
}

func (c *codeCarrier) put(key string, p param) {
	if !c.lazy && p.kind == lazyParam {
		p = param{kind: eagerParam, value: p.Value(), raw: p.Raw()}
	}
	c.params.put(key, p)
}

func (c *codeCarrier) build(namespace, subtype string) *Code {
	return newCode(namespace, subtype, c.params.clone())
}

// Builder assembles a code one parameter at a time:
//
//	code, err := catcode.Standard().CodeBuilder("at").Key("code").Value(123).Build()
//
// Key selects a parameter and the returned KeyedBuilder supplies its value.
// The first call made out of that order is remembered and returned by Build
// as a *BuilderStateError. A subtype or key that is not a word, or a raw
// value that is not escaped, is remembered the same way as a
// *MalformedCodeError.
//
// A Builder is not safe for concurrent use.
type Builder[T any] struct {
	namespace string
	subtype   string
	carrier   carrier[T]

	key   string
	keyed bool
	err   error
}

// KeyedBuilder is the state of a Builder after Key and before the value.
type KeyedBuilder[T any] struct {
	builder *Builder[T]
}

func newBuilder[T any](n Namespace, subtype string, c carrier[T]) *Builder[T] {
	b := &Builder[T]{namespace: n.name, subtype: subtype, carrier: c}
	b.fail(n.check(subtype))
	return b
}

// Namespace returns the namespace of the code being built.
func (b *Builder[T]) Namespace() string { return b.namespace }

// Subtype returns the subtype of the code being built.
func (b *Builder[T]) Subtype() string { return b.subtype }

// Err returns the first error recorded by the chain, if any.
func (b *Builder[T]) Err() error { return b.err }

func (b *Builder[T]) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Key selects the parameter the next value is assigned to.
func (b *Builder[T]) Key(key string) *KeyedBuilder[T] {
	if b.keyed {
		b.fail(&BuilderStateError{Key: b.key, Reason: fmt.Sprintf("key %q selected before a value was given", key)})
	}
	b.fail(checkKey(key))
	b.key = key
	b.keyed = true
	return &KeyedBuilder[T]{builder: b}
}

// Build returns the finished code.
func (b *Builder[T]) Build() (T, error) {
	var zero T
	if b.err != nil {
		return zero, b.err
	}
	if b.keyed {
		return zero, &BuilderStateError{Key: b.key, Reason: "build called before the key received a value"}
	}
	return b.carrier.build(b.namespace, b.subtype), nil
}

// MustBuild is like Build but panics on error.
func (b *Builder[T]) MustBuild() T {
	out, err := b.Build()
	if err != nil {
		panic(err)
	}
	return out
}

func (k *KeyedBuilder[T]) set(p param) *Builder[T] {
	b := k.builder
	if !b.keyed {
		b.fail(&BuilderStateError{Reason: "value supplied without a key"})
		return b
	}
	b.carrier.put(b.key, p)
	b.key = ""
	b.keyed = false
	return b
}

// Value assigns v to the selected key. Strings are used as they are,
// fmt.Stringer values through String, nil as the empty string and anything
// else through fmt.Sprint.
func (k *KeyedBuilder[T]) Value(v any) *Builder[T] {
	return k.set(eagerValue(stringify(v)))
}

// EmptyValue assigns the empty string to the selected key.
func (k *KeyedBuilder[T]) EmptyValue() *Builder[T] {
	return k.set(eagerValue(""))
}

// RawValue assigns a value that is already escaped for the wire, as
// EncodeParam escapes it.
func (k *KeyedBuilder[T]) RawValue(raw string) *Builder[T] {
	k.builder.fail(checkRaw(raw))
	return k.set(eagerRaw(raw))
}

// ValueFunc assigns a value produced by fn. Lazy code builders call fn on
// the first read of the parameter, at most once; every other builder calls
// it immediately.
func (k *KeyedBuilder[T]) ValueFunc(fn func() any) *Builder[T] {
	return k.set(lazyFunc(func() string { return stringify(fn()) }))
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
