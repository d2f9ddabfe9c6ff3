// Package encoding provides shared text encoding and escaping utilities.
package encoding

import "strings"

// EscapeCommentJSON makes serialized JSON attribute data safe for
// embedding inside a block comment delimiter. Character sequences that
// could terminate the surrounding comment (or open a tag when the
// document is rendered) are replaced with their JSON unicode escapes;
// a standard JSON decoder reverses them transparently.
func EscapeCommentJSON(s string) string {
	s = strings.ReplaceAll(s, "--", `\u002d\u002d`)
	s = strings.ReplaceAll(s, "<", `\u003c`)
	s = strings.ReplaceAll(s, ">", `\u003e`)
	s = strings.ReplaceAll(s, "&", `\u0026`)
	s = strings.ReplaceAll(s, `\"`, `\u0022`)
	return s
}

// EscapeHTMLText escapes only the basic entities for HTML text content.
func EscapeHTMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeHTMLAttr escapes text for use in HTML attribute values.
// Includes quote escaping in addition to the basic entities.
func EscapeHTMLAttr(s string) string {
	s = EscapeHTMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
