// Package query provides extraction rules that derive attribute values
// from a region's rendered HTML content tree.
//
// Rules are opaque capability values: only rules constructed through the
// package factories (Attribute, Text, HTML) are honored by IsValid, so an
// arbitrary value can never be mistaken for an extraction rule. Queries
// use XPath via the antchfx/htmlquery and antchfx/xpath engines.
package query

import (
	"bytes"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// ruleKind discriminates the extraction behaviors.
type ruleKind int

const (
	kindInvalid ruleKind = iota
	kindAttribute
	kindText
	kindHTML
)

// Rule is a single extraction rule. The zero value is invalid; use the
// package factories to construct rules.
type Rule struct {
	kind     ruleKind
	selector string
	attr     string
}

// Attribute returns a rule extracting the named attribute from the first
// node matching selector. Selector is an XPath expression; an expression
// without a leading "/" is matched anywhere in the fragment.
func Attribute(selector, name string) *Rule {
	return &Rule{kind: kindAttribute, selector: selector, attr: name}
}

// Text returns a rule extracting the concatenated text content of the
// first node matching selector. An empty selector targets the whole
// fragment.
func Text(selector string) *Rule {
	return &Rule{kind: kindText, selector: selector}
}

// HTML returns a rule extracting the inner HTML of the first node
// matching selector. An empty selector targets the whole fragment.
func HTML(selector string) *Rule {
	return &Rule{kind: kindHTML, selector: selector}
}

// IsValid reports whether r is a usable extraction rule. Only rules
// built by the package factories pass; nil and zero-value rules do not.
func IsValid(r *Rule) bool {
	return r != nil && r.kind != kindInvalid
}

// Evaluate applies a set of extraction rules against rawContent, parsed
// once as an HTML fragment. The result holds one entry per rule that
// matched; rules with no matching content produce no entry. Malformed
// content never fails evaluation, it simply yields fewer matches.
func Evaluate(rawContent string, rules map[string]*Rule) map[string]any {
	out := map[string]any{}
	if len(rules) == 0 {
		return out
	}

	doc, err := htmlquery.Parse(strings.NewReader(rawContent))
	if err != nil {
		return out
	}
	root := fragmentRoot(doc)
	if root == nil {
		return out
	}

	for field, rule := range rules {
		if !IsValid(rule) {
			continue
		}
		if v, ok := rule.apply(root); ok {
			out[field] = v
		}
	}
	return out
}

// apply evaluates the rule against the fragment root, reporting whether
// a value was extracted.
func (r *Rule) apply(root *html.Node) (any, bool) {
	target := root
	if r.selector != "" {
		expr := r.selector
		if !strings.HasPrefix(expr, "/") && !strings.HasPrefix(expr, "(") {
			expr = "//" + expr
		}
		if _, err := xpath.Compile(expr); err != nil {
			return nil, false
		}
		node, err := htmlquery.Query(root, expr)
		if err != nil || node == nil {
			return nil, false
		}
		target = node
	}

	switch r.kind {
	case kindAttribute:
		if r.attr == "" {
			return nil, false
		}
		for _, a := range target.Attr {
			if a.Key == r.attr {
				return a.Val, true
			}
		}
		return nil, false
	case kindText:
		return htmlquery.InnerText(target), true
	case kindHTML:
		return innerHTML(target), true
	default:
		return nil, false
	}
}

// fragmentRoot locates the body element htmlquery wraps fragments in.
func fragmentRoot(doc *html.Node) *html.Node {
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

// innerHTML renders the children of n back to markup.
func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}
