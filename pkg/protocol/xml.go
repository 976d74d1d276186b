package protocol

import (
	"encoding/xml"
	"strings"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
)

// ToXML renders v as a single self-closing element named after the subtype,
// with one attribute per parameter:
//
//	<image file="a.jpg" flash="true" />
func ToXML(v catcode.View) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(v.Subtype())
	for key, value := range v.All() {
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(`="`)
		// Writes to a strings.Builder do not fail.
		_ = xml.EscapeText(&b, []byte(value))
		b.WriteString(`"`)
	}
	b.WriteString(" />")
	return b.String()
}
