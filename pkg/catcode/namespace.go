package catcode

import (
	"maps"
	"slices"
	"strings"
)

// Namespace binds a code type ("CAT", "CQ", ...) to the grammar, the codec
// and the builders. It holds nothing but the name, so it is cheap to create
// and safe to share.
type Namespace struct {
	name string
}

var standard = Namespace{name: StandardNamespace}

// Standard returns the binding of the standard "CAT" namespace.
func Standard() Namespace {
	return standard
}

// Wildcat returns a binding for a non-standard namespace such as "CQ". It
// panics if name is not a word (\w+).
func Wildcat(name string) Namespace {
	if err := checkNamespace(name); err != nil {
		panic(err)
	}
	return Namespace{name: name}
}

// Name returns the namespace, e.g. "CAT".
func (n Namespace) Name() string { return n.name }

// Head returns the text every code of this namespace starts with.
func (n Namespace) Head() string { return Head(n.name) }

// IsStandard reports whether n is the "CAT" namespace.
func (n Namespace) IsStandard() bool { return n.name == StandardNamespace }

// check validates the name of a code about to be constructed. The zero
// Namespace has no name and constructs nothing.
func (n Namespace) check(subtype string) error {
	if err := checkNamespace(n.name); err != nil {
		return err
	}
	return checkSubtype(subtype)
}

// Matcher returns a matcher that finds the codes of this namespace.
func (n Namespace) Matcher() Matcher { return Matcher{namespace: n.name} }

// SplitToken strips the head and the closing bracket of token and returns
// its subtype and its raw "key=value" fragments. Values stay escaped.
func (n Namespace) SplitToken(token string) (string, []string, error) {
	return splitToken(n.name, token)
}

func (n Namespace) parse(token string, newParam func(raw string) param) (string, *paramSet, error) {
	subtype, fragments, err := splitToken(n.name, token)
	if err != nil {
		return "", nil, err
	}
	params := newParamSet(len(fragments))
	for _, fragment := range fragments {
		key, raw, err := splitFragment(token, fragment)
		if err != nil {
			return "", nil, err
		}
		params.put(key, newParam(raw))
	}
	return subtype, params, nil
}

// Parse reads a single code token, decoding every value up front.
func (n Namespace) Parse(token string) (*Code, error) {
	subtype, params, err := n.parse(token, eagerRaw)
	if err != nil {
		return nil, err
	}
	return newCode(n.name, subtype, params), nil
}

// ParseLazy reads a single code token. Values are decoded on first read.
func (n Namespace) ParseLazy(token string) (*Code, error) {
	subtype, params, err := n.parse(token, lazyRaw)
	if err != nil {
		return nil, err
	}
	return newCode(n.name, subtype, params), nil
}

// ParseMutable reads a single code token into a MutableCode.
func (n Namespace) ParseMutable(token string) (*MutableCode, error) {
	subtype, params, err := n.parse(token, eagerRaw)
	if err != nil {
		return nil, err
	}
	return &MutableCode{namespace: n.name, subtype: subtype, params: params}, nil
}

// Parse reads a single code token of any namespace.
func Parse(token string) (*Code, error) {
	namespace, err := namespaceOf(token)
	if err != nil {
		return nil, err
	}
	return Wildcat(namespace).Parse(token)
}

// Empty returns a code without parameters.
func (n Namespace) Empty(subtype string) (*Code, error) {
	if err := n.check(subtype); err != nil {
		return nil, err
	}
	return newEmptyCode(n.name, subtype), nil
}

// FromMap returns a code holding params. Parameters are ordered by key.
func (n Namespace) FromMap(subtype string, params map[string]string) (*Code, error) {
	if err := n.check(subtype); err != nil {
		return nil, err
	}
	set := newParamSet(len(params))
	for _, key := range slices.Sorted(maps.Keys(params)) {
		if err := checkKey(key); err != nil {
			return nil, err
		}
		set.put(key, eagerValue(params[key]))
	}
	return newCode(n.name, subtype, set), nil
}

// FromPairs returns a code holding params in the given order. A repeated
// key keeps its first position and its last value.
func (n Namespace) FromPairs(subtype string, params ...Param) (*Code, error) {
	if err := n.check(subtype); err != nil {
		return nil, err
	}
	set := newParamSet(len(params))
	for _, p := range params {
		if err := checkKey(p.Key); err != nil {
			return nil, err
		}
		set.put(p.Key, eagerValue(p.Value))
	}
	return newCode(n.name, subtype, set), nil
}

// FromParamStrings returns a code from "key=value" strings. When encoded is
// true the values are taken as already escaped, otherwise as plain text.
func (n Namespace) FromParamStrings(subtype string, encoded bool, kv ...string) (*Code, error) {
	if err := n.check(subtype); err != nil {
		return nil, err
	}
	set := newParamSet(len(kv))
	for _, fragment := range kv {
		key, value, ok := strings.Cut(fragment, keyValueSeparator)
		if !ok {
			return nil, malformed(fragment, "parameter has no %q", keyValueSeparator)
		}
		if err := checkKey(key); err != nil {
			return nil, err
		}
		if encoded {
			if err := checkRaw(value); err != nil {
				return nil, err
			}
			set.put(key, eagerRaw(value))
		} else {
			set.put(key, eagerValue(value))
		}
	}
	return newCode(n.name, subtype, set), nil
}

// Switch re-stamps v under this namespace.
func (n Namespace) Switch(v View) *Code {
	return v.SwitchNamespace(n.name)
}

// StringBuilder returns a builder that produces the code token directly.
func (n Namespace) StringBuilder(subtype string) *Builder[string] {
	return newBuilder[string](n, subtype, &stringCarrier{})
}

// CodeBuilder returns a builder that produces an eagerly backed Code.
func (n Namespace) CodeBuilder(subtype string) *Builder[*Code] {
	return newBuilder[*Code](n, subtype, &codeCarrier{params: newParamSet(4)})
}

// LazyCodeBuilder returns a builder that produces a Code whose ValueFunc
// parameters are computed on first read.
func (n Namespace) LazyCodeBuilder(subtype string) *Builder[*Code] {
	return newBuilder[*Code](n, subtype, &codeCarrier{params: newParamSet(4), lazy: true})
}

// StringTemplate returns the well-known codes of this namespace as strings.
func (n Namespace) StringTemplate() Template[string] {
	return template[string]{newBuilder: n.StringBuilder}
}

// CodeTemplate returns the well-known codes of this namespace as codes.
func (n Namespace) CodeTemplate() Template[*Code] {
	return template[*Code]{newBuilder: n.CodeBuilder}
}
