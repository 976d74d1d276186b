package catcode

import "strings"

// replacement is a single literal substitution applied by the escape codec.
type replacement struct {
	from string
	to   string
}

// The tables are applied one entry at a time, in order. The ampersand is
// escaped first and unescaped last so that an escaped sequence is never
// escaped twice.
//
// The tab, CR and LF codes are part of the wire format and must stay as they
// are: CR is written as &#10; and LF as &#13;.
var (
	textEncodeTable = []replacement{
		{"&", "&amp;"},
		{"[", "&#91;"},
		{"]", "&#93;"},
		{"\t", "&#09;"},
		{"\r", "&#10;"},
		{"\n", "&#13;"},
	}

	textDecodeTable = []replacement{
		{"&#91;", "["},
		{"&#93;", "]"},
		{"&#09;", "\t"},
		{"&#10;", "\r"},
		{"&#13;", "\n"},
		{"&amp;", "&"},
	}

	paramEncodeTable = []replacement{
		{"&", "&amp;"},
		{"[", "&#91;"},
		{"]", "&#93;"},
		{"=", "&#61;"},
		{",", "&#44;"},
		{"\t", "&#09;"},
		{"\r", "&#10;"},
		{"\n", "&#13;"},
	}

	paramDecodeTable = []replacement{
		{"&#91;", "["},
		{"&#93;", "]"},
		{"&#44;", ","},
		{"&#61;", "="},
		{"&#09;", "\t"},
		{"&#10;", "\r"},
		{"&#13;", "\n"},
		{"&amp;", "&"},
	}
)

// applyTable runs every replacement of table over s in order.
func applyTable(s string, table []replacement) string {
	for _, r := range table {
		if strings.Contains(s, r.from) {
			s = strings.ReplaceAll(s, r.from, r.to)
		}
	}
	return s
}

// EncodeText escapes free text so that it can sit next to codes without
// being mistaken for one.
func EncodeText(s string) string {
	return applyTable(s, textEncodeTable)
}

// DecodeText reverses EncodeText.
func DecodeText(s string) string {
	return applyTable(s, textDecodeTable)
}

// EncodeParam escapes a parameter value. In addition to the text escapes it
// also hides '=' and ',' which separate keys, values and parameters.
func EncodeParam(s string) string {
	return applyTable(s, paramEncodeTable)
}

// DecodeParam reverses EncodeParam.
func DecodeParam(s string) string {
	return applyTable(s, paramDecodeTable)
}

// EncodeTextPtr is EncodeText for an optional value. A nil input yields nil.
func EncodeTextPtr(s *string) *string {
	return mapPtr(s, EncodeText)
}

// DecodeTextPtr is DecodeText for an optional value. A nil input yields nil.
func DecodeTextPtr(s *string) *string {
	return mapPtr(s, DecodeText)
}

// EncodeParamPtr is EncodeParam for an optional value. A nil input yields nil.
func EncodeParamPtr(s *string) *string {
	return mapPtr(s, EncodeParam)
}

// DecodeParamPtr is DecodeParam for an optional value. A nil input yields nil.
func DecodeParamPtr(s *string) *string {
	return mapPtr(s, DecodeParam)
}

func mapPtr(s *string, f func(string) string) *string {
	if s == nil {
		return nil
	}
	out := f(*s)
	return &out
}
