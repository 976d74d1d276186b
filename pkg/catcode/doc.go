// Package catcode reads and writes cat codes, the inline markup that embeds
// rich message segments in chat text:
//
//	hello [CAT:at,code=123] look [CAT:image,file=a.jpg]
//
// A code is a namespace ("CAT" for standard codes, anything else for wildcat
// codes such as "CQ"), a subtype and a set of escaped key=value parameters.
// Namespace binds the grammar, the builders and the templates to one
// namespace. Code is the immutable form and MutableCode the editable one;
// both implement View.
package catcode
