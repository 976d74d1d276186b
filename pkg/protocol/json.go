package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
)

// ToJSON renders v as a single-line JSON object. Parameters keep the order
// of the code.
func ToJSON(v catcode.View, opts Options) ([]byte, error) {
	data, err := marshalEntries(v.Entries())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	switch opts.Mode {
	case Compact:
		if err := writeMember(&buf, v.Subtype(), data); err != nil {
			return nil, err
		}
	default:
		subtype, err := json.Marshal(v.Subtype())
		if err != nil {
			return nil, err
		}
		if err := writeMember(&buf, opts.typeName(), subtype); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		if err := writeMember(&buf, opts.dataName(), data); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalEntries(entries []catcode.Param) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		if err := writeMember(&buf, p.Key, value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, name string, value []byte) error {
	key, err := json.Marshal(name)
	if err != nil {
		return err
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(value)
	return nil
}

// FromJSON reads a document written by ToJSON into a code of ns. Parameter
// order is preserved. Members other than the type and data are ignored in
// Distinct mode. Comments and trailing commas are accepted.
func FromJSON(data []byte, ns catcode.Namespace, opts Options) (*catcode.Code, error) {
	stripped := jsonc.ToJSON(data)
	dec := json.NewDecoder(bytes.NewReader(stripped))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var (
		subtype string
		params  []catcode.Param
	)
	for dec.More() {
		name, err := readString(dec)
		if err != nil {
			return nil, err
		}

		switch {
		case opts.Mode == Compact:
			if subtype != "" {
				return nil, invalid("more than one member in a compact document")
			}
			subtype = name
			if params, err = readParams(dec); err != nil {
				return nil, err
			}
		case name == opts.typeName():
			if subtype, err = readString(dec); err != nil {
				return nil, err
			}
		case name == opts.dataName():
			if params, err = readParams(dec); err != nil {
				return nil, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalid("trailing data after the document")
	}
	return fromDocument(ns, subtype, params)
}

func readParams(dec *json.Decoder) ([]catcode.Param, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var params []catcode.Param
	for dec.More() {
		key, err := readString(dec)
		if err != nil {
			return nil, err
		}
		value, err := readString(dec)
		if err != nil {
			return nil, err
		}
		params = append(params, catcode.Param{Key: key, Value: value})
	}
	return params, expectDelim(dec, '}')
}

func readString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", invalid("expected a string, got %v", tok)
	}
	return s, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return invalid("expected %q, got %v", fmt.Sprint(want), tok)
	}
	return nil
}
