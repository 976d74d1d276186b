// Package protocol renders codes in other message formats: JSON, XML, YAML
// and CBOR. Each renderer reads a finished code through catcode.View.
package protocol

import (
	"errors"
	"fmt"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
)

// Mode selects the shape of a JSON, YAML or CBOR document.
type Mode int

const (
	// Distinct writes {"type": subtype, "data": {key: value, ...}}.
	Distinct Mode = iota
	// Compact writes {subtype: {key: value, ...}}.
	Compact
)

const (
	DefaultTypeName = "type"
	DefaultDataName = "data"
)

// ErrInvalidDocument is returned when a document does not describe a code.
var ErrInvalidDocument = errors.New("invalid code document")

// Options shape a document. Empty names fall back to the defaults.
type Options struct {
	Mode     Mode
	TypeName string
	DataName string
}

func (o Options) typeName() string {
	if o.TypeName == "" {
		return DefaultTypeName
	}
	return o.TypeName
}

func (o Options) dataName() string {
	if o.DataName == "" {
		return DefaultDataName
	}
	return o.DataName
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDocument, fmt.Sprintf(format, args...))
}

// fromDocument validates a decoded document and builds the code.
func fromDocument(ns catcode.Namespace, subtype string, params []catcode.Param) (*catcode.Code, error) {
	if subtype == "" {
		return nil, invalid("missing subtype")
	}
	if !catcode.IsWord(subtype) {
		return nil, invalid("invalid subtype %q", subtype)
	}
	builder := ns.CodeBuilder(subtype)
	for _, p := range params {
		if !catcode.IsWord(p.Key) {
			return nil, invalid("invalid parameter key %q", p.Key)
		}
		builder.Key(p.Key).Value(p.Value)
	}
	return builder.Build()
}
