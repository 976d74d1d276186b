package catcode

import (
	"iter"
	"sync"
)

// Code is an immutable code. Its parameters are backed either eagerly or by
// memoized thunks; both behave the same and differ only in when escaping and
// value computation happen. A Code without parameters skips the parameter
// machinery entirely.
//
// A Code is safe for concurrent use. Its text form is computed once.
type Code struct {
	namespace string
	subtype   string
	params    *paramSet // nil when the code has no parameters
	text      func() string
}

var _ View = (*Code)(nil)

// newCode wraps params, which must not be modified afterwards.
func newCode(namespace, subtype string, params *paramSet) *Code {
	if params.len() == 0 {
		return newEmptyCode(namespace, subtype)
	}
	return &Code{
		namespace: namespace,
		subtype:   subtype,
		params:    params,
		text:      sync.OnceValue(func() string { return params.render(namespace, subtype) }),
	}
}

func newEmptyCode(namespace, subtype string) *Code {
	text := Head(namespace) + subtype + codeEnd
	return &Code{
		namespace: namespace,
		subtype:   subtype,
		text:      func() string { return text },
	}
}

// String returns the code token, e.g. "[CAT:at,code=123]".
func (c *Code) String() string {
	if c.text == nil {
		return c.params.render(c.namespace, c.subtype)
	}
	return c.text()
}

func (c *Code) Namespace() string { return c.namespace }
func (c *Code) Subtype() string   { return c.subtype }

func (c *Code) Get(key string) (string, bool)    { return getValue(c.params, key) }
func (c *Code) GetRaw(key string) (string, bool) { return getRaw(c.params, key) }

func (c *Code) GetOrDefault(key, defaultValue string) string {
	return getOrDefault(c.params, key, defaultValue)
}

func (c *Code) ContainsKey(key string) bool {
	_, ok := c.params.get(key)
	return ok
}

func (c *Code) ContainsValue(value string) bool { return containsValue(c.params, value) }
func (c *Code) IsEmpty() bool                   { return c.params.len() == 0 }
func (c *Code) Len() int                        { return c.params.len() }
func (c *Code) Keys() []string                  { return keysOf(c.params) }
func (c *Code) Values() []string                { return valuesOf(c.params) }
func (c *Code) Entries() []Param                { return entriesOf(c.params) }
func (c *Code) All() iter.Seq2[string, string]  { return allOf(c.params) }

func (c *Code) IsMutable() bool { return false }

// AsMutable returns a new MutableCode, since a Code is never mutable itself.
func (c *Code) AsMutable() *MutableCode { return c.ToMutable() }

// ToMutable returns a new MutableCode with a copy of the parameters.
func (c *Code) ToMutable() *MutableCode {
	return &MutableCode{
		namespace: c.namespace,
		subtype:   c.subtype,
		params:    c.params.clone(),
	}
}

// AsImmutable returns c.
func (c *Code) AsImmutable() *Code { return c }

// ToImmutable returns a distinct Code equal to c. The parameter storage is
// shared, which is safe because neither side can modify it.
func (c *Code) ToImmutable() *Code {
	if c.params.len() == 0 {
		return newEmptyCode(c.namespace, c.subtype)
	}
	return newCode(c.namespace, c.subtype, c.params)
}

// SwitchNamespace returns c re-tagged with namespace. The parameter storage
// is shared, so lazy values already computed stay computed. Like Wildcat, it
// panics if namespace is not a word.
func (c *Code) SwitchNamespace(namespace string) *Code {
	if namespace == c.namespace {
		return c
	}
	if err := checkNamespace(namespace); err != nil {
		panic(err)
	}
	if c.params.len() == 0 {
		return newEmptyCode(namespace, c.subtype)
	}
	return newCode(namespace, c.subtype, c.params)
}

func (c *Code) Equal(other View) bool { return equalViews(c, other) }
func (c *Code) Hash() uint64          { return hashView(c) }
