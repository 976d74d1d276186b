package protocol

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): the same code
// always produces the same bytes. Map keys are sorted, so parameter order
// is not kept.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("protocol: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("protocol: CBOR decoder initialization failed: " + err.Error())
	}
}

// ToCBOR renders v as a CBOR map shaped like the JSON document.
func ToCBOR(v catcode.View, opts Options) ([]byte, error) {
	data := make(map[string]string, v.Len())
	for key, value := range v.All() {
		data[key] = value
	}

	if opts.Mode == Compact {
		return encMode.Marshal(map[string]map[string]string{v.Subtype(): data})
	}
	return encMode.Marshal(map[string]any{
		opts.typeName(): v.Subtype(),
		opts.dataName(): data,
	})
}

// FromCBOR reads a document written by ToCBOR into a code of ns. Parameters
// come out ordered by key.
func FromCBOR(data []byte, ns catcode.Namespace, opts Options) (*catcode.Code, error) {
	var doc map[string]cbor.RawMessage
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var (
		subtype string
		rawData cbor.RawMessage
	)
	if opts.Mode == Compact {
		if len(doc) != 1 {
			return nil, invalid("expected exactly one member in a compact document, got %d", len(doc))
		}
		for name, raw := range doc {
			subtype, rawData = name, raw
		}
	} else {
		raw, ok := doc[opts.typeName()]
		if !ok {
			return nil, invalid("missing %s", opts.typeName())
		}
		if err := decMode.Unmarshal(raw, &subtype); err != nil {
			return nil, invalid("%s is not a string: %v", opts.typeName(), err)
		}
		rawData = doc[opts.dataName()]
	}

	var values map[string]string
	if rawData != nil {
		if err := decMode.Unmarshal(rawData, &values); err != nil {
			return nil, invalid("%s is not a map of strings: %v", opts.dataName(), err)
		}
	}
	if !catcode.IsWord(subtype) {
		return nil, invalid("invalid subtype %q", subtype)
	}
	for key := range values {
		if !catcode.IsWord(key) {
			return nil, invalid("invalid parameter key %q", key)
		}
	}
	return ns.FromMap(subtype, values)
}

// NewCBOREncoder returns a CBOR stream encoder writing to w with the same
// deterministic options as ToCBOR.
func NewCBOREncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewCBORDecoder returns a CBOR stream decoder reading from r.
func NewCBORDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
