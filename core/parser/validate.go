package parser

import (
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/encoding"
	"github.com/nirbhay18/gutenberg/core/fingerprint"
)

// Validate runs the round-trip check: the resolved attributes are
// reserialized through the type's saver and compared to the region's raw
// content under a formatting-insensitive normalization. Types without a
// saver treat their raw content as ground truth and always validate.
//
// A false result is never an error; the caller downgrades the block and
// preserves the original content instead.
func Validate(rawContent string, blockType *blocks.BlockType, attributes map[string]any) bool {
	if blockType == nil {
		return false
	}
	if blockType.Save == nil {
		return true
	}

	expected, err := blockType.Save.Save(attributes)
	if err != nil {
		return false
	}
	return fingerprint.SumString(normalizeHTML(expected)) == fingerprint.SumString(normalizeHTML(rawContent))
}

// voidElements have no closing tag in canonical form.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// normalizeHTML reduces an HTML fragment to a canonical form so that
// insignificant differences (attribute order, whitespace runs,
// self-closing syntax) do not fail validation. Unparseable input
// normalizes to a whitespace-collapsed copy of itself.
func normalizeHTML(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	body := findBody(doc)
	if body == nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		writeCanonical(&b, c)
	}
	return b.String()
}

// writeCanonical renders a node with sorted attributes, collapsed text
// whitespace, and comments dropped.
func writeCanonical(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text != "" {
			b.WriteString(encoding.EscapeHTMLText(text))
			b.WriteString(" ")
		}
	case html.ElementNode:
		b.WriteString("<")
		b.WriteString(n.Data)

		attrs := make([]html.Attribute, len(n.Attr))
		copy(attrs, n.Attr)
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
		for _, a := range attrs {
			b.WriteString(" ")
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(encoding.EscapeHTMLAttr(a.Val))
			b.WriteString(`"`)
		}
		b.WriteString(">")

		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeCanonical(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteString(">")
	}
}

// findBody locates the body element the parser wraps fragments in.
func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}
