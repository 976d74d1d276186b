package catcode

import (
	"iter"
	"maps"
	"slices"
)

// MutableCode is a code whose subtype, namespace and parameters can be
// changed in place. Its text form is rebuilt on every call to String.
//
// A MutableCode is not safe for concurrent use.
type MutableCode struct {
	namespace string
	subtype   string
	params    *paramSet
}

var _ View = (*MutableCode)(nil)

// String returns the code token for the current state.
func (m *MutableCode) String() string {
	return m.params.render(m.namespace, m.subtype)
}

func (m *MutableCode) Namespace() string { return m.namespace }
func (m *MutableCode) Subtype() string   { return m.subtype }

// SetNamespace changes the code type in place. A namespace that is not a
// word is rejected and m is left unchanged.
func (m *MutableCode) SetNamespace(namespace string) error {
	if err := checkNamespace(namespace); err != nil {
		return err
	}
	m.namespace = namespace
	return nil
}

// SetSubtype changes the subtype in place. A subtype that is not a word is
// rejected and m is left unchanged.
func (m *MutableCode) SetSubtype(subtype string) error {
	if err := checkSubtype(subtype); err != nil {
		return err
	}
	m.subtype = subtype
	return nil
}

func (m *MutableCode) Get(key string) (string, bool)    { return getValue(m.params, key) }
func (m *MutableCode) GetRaw(key string) (string, bool) { return getRaw(m.params, key) }

func (m *MutableCode) GetOrDefault(key, defaultValue string) string {
	return getOrDefault(m.params, key, defaultValue)
}

func (m *MutableCode) ContainsKey(key string) bool {
	_, ok := m.params.get(key)
	return ok
}

func (m *MutableCode) ContainsValue(value string) bool { return containsValue(m.params, value) }
func (m *MutableCode) IsEmpty() bool                   { return m.params.len() == 0 }
func (m *MutableCode) Len() int                        { return m.params.len() }
func (m *MutableCode) Keys() []string                  { return keysOf(m.params) }
func (m *MutableCode) Values() []string                { return valuesOf(m.params) }
func (m *MutableCode) Entries() []Param                { return entriesOf(m.params) }
func (m *MutableCode) All() iter.Seq2[string, string]  { return allOf(m.params) }

func (m *MutableCode) ensure() {
	if m.params == nil {
		m.params = newParamSet(4)
	}
}

// Put sets key to value and returns the previous value, if any. A key that
// is not a word is rejected with a *MalformedCodeError.
func (m *MutableCode) Put(key, value string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	return m.put(key, eagerValue(value))
}

// PutRaw sets key to an already escaped value and returns the previous
// decoded value, if any. The value must be escaped as EncodeParam does.
func (m *MutableCode) PutRaw(key, raw string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	if err := checkRaw(raw); err != nil {
		return "", false, err
	}
	return m.put(key, eagerRaw(raw))
}

func (m *MutableCode) put(key string, p param) (string, bool, error) {
	m.ensure()
	prev, ok := m.params.put(key, p)
	if !ok {
		return "", false, nil
	}
	return prev.Value(), true, nil
}

// PutAll copies every entry of params. Keys new to the code are appended in
// sorted order. Nothing is copied if any key is not a word.
func (m *MutableCode) PutAll(params map[string]string) error {
	keys := slices.Sorted(maps.Keys(params))
	for _, key := range keys {
		if err := checkKey(key); err != nil {
			return err
		}
	}
	m.ensure()
	for _, key := range keys {
		m.params.put(key, eagerValue(params[key]))
	}
	return nil
}

// PutView copies every parameter of v, keeping its order. Nothing is copied
// if any key is not a word.
func (m *MutableCode) PutView(v View) error {
	entries := v.Entries()
	for _, e := range entries {
		if err := checkKey(e.Key); err != nil {
			return err
		}
	}
	m.ensure()
	for _, e := range entries {
		m.params.put(e.Key, eagerValue(e.Value))
	}
	return nil
}

// Remove deletes key and returns its value, if it was present.
func (m *MutableCode) Remove(key string) (string, bool) {
	if m.params == nil {
		return "", false
	}
	prev, ok := m.params.remove(key)
	if !ok {
		return "", false
	}
	return prev.Value(), true
}

// Clear removes every parameter.
func (m *MutableCode) Clear() {
	if m.params != nil {
		m.params.clear()
	}
}

func (m *MutableCode) IsMutable() bool { return true }

// AsMutable returns m itself.
func (m *MutableCode) AsMutable() *MutableCode { return m }

// ToMutable returns an independent copy of m.
func (m *MutableCode) ToMutable() *MutableCode {
	return &MutableCode{
		namespace: m.namespace,
		subtype:   m.subtype,
		params:    m.params.clone(),
	}
}

// AsImmutable returns a snapshot of m. Because m may change afterwards, the
// snapshot is always a copy.
func (m *MutableCode) AsImmutable() *Code { return m.ToImmutable() }

// ToImmutable returns a snapshot of m.
func (m *MutableCode) ToImmutable() *Code {
	return newCode(m.namespace, m.subtype, m.params.clone())
}

// SwitchNamespace returns a snapshot of m under namespace. Like Wildcat, it
// panics if namespace is not a word.
func (m *MutableCode) SwitchNamespace(namespace string) *Code {
	if err := checkNamespace(namespace); err != nil {
		panic(err)
	}
	return newCode(namespace, m.subtype, m.params.clone())
}

func (m *MutableCode) Equal(other View) bool { return equalViews(m, other) }
func (m *MutableCode) Hash() uint64          { return hashView(m) }
