// Package grammar segments a flat text document into ordered region
// nodes. A region is either a comment-delimited block
// (`<!-- block:ns/name {"attrs":...} -->inner<!-- /block -->`, or the
// self-closing `<!-- block:ns/name {"attrs":...} /-->`) or a run of
// freeform text between delimiters, which yields a nameless node.
//
// The tokenizer surfaces only the region shape: name, raw content, and
// inline attribute data. Type resolution, attribute sourcing, and
// validation happen downstream. Malformed documents (unterminated
// blocks, dangling closers, undecodable attribute JSON) are fatal: no
// partial node list is returned.
package grammar

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/nirbhay18/gutenberg/core/errors"
)

// Delimiter keywords inside comments.
const (
	openerPrefix = "block:"
	closerBody   = "/block"
)

// RegionNode is one delimited segment of the source document, in
// document order. Nodes are immutable once produced.
type RegionNode struct {
	// Name is the canonical block name, or "" for freeform text regions.
	Name string `json:"name,omitempty"`

	// RawContent is the untrimmed text between the opening and closing
	// delimiters (or the freeform text itself).
	RawContent string `json:"raw_content"`

	// Attrs holds the inline attribute data declared in the opening
	// delimiter, nil when the delimiter carried none.
	Attrs map[string]any `json:"attrs,omitempty"`
}

// openState tracks the block currently being scanned.
type openState struct {
	name         string
	attrs        map[string]any
	contentStart int
	openerStart  int
}

// Tokenize segments text into an ordered sequence of region nodes.
// Whitespace-only runs between delimiters are not significant and yield
// no node. Ordinary comments that are not block delimiters are treated
// as content.
func Tokenize(text string) ([]RegionNode, error) {
	nodes := []RegionNode{}
	pos := 0
	freeStart := 0
	depth := 0
	var cur openState

	flushFreeform := func(end int) {
		segment := text[freeStart:end]
		if strings.TrimSpace(segment) == "" {
			return
		}
		nodes = append(nodes, RegionNode{RawContent: segment})
	}

	for {
		rel := strings.Index(text[pos:], "<!--")
		if rel < 0 {
			break
		}
		start := pos + rel
		bodyStart := start + len("<!--")
		end := strings.Index(text[bodyStart:], "-->")
		if end < 0 {
			// Unterminated comment: the rest of the document is content.
			break
		}
		body := text[bodyStart : bodyStart+end]
		after := bodyStart + end + len("-->")
		trimmed := strings.TrimSpace(body)

		switch {
		case isCloser(trimmed):
			if depth == 0 {
				return nil, errors.NewParse(start, "closing block delimiter without matching opener", nil)
			}
			depth--
			if depth == 0 {
				nodes = append(nodes, RegionNode{
					Name:       cur.name,
					RawContent: text[cur.contentStart:start],
					Attrs:      cur.attrs,
				})
				freeStart = after
			}
			pos = after

		case strings.HasPrefix(trimmed, openerPrefix):
			if depth > 0 {
				// Nested delimiters are opaque content of the outer
				// block; only the nesting depth matters here.
				if !strings.HasSuffix(trimmed, "/") {
					depth++
				}
				pos = after
				continue
			}
			name, attrs, void, err := parseOpener(trimmed, start)
			if err != nil {
				return nil, err
			}
			flushFreeform(start)
			if void {
				nodes = append(nodes, RegionNode{Name: name, Attrs: attrs})
				freeStart = after
			} else {
				cur = openState{name: name, attrs: attrs, contentStart: after, openerStart: start}
				depth = 1
			}
			pos = after

		default:
			// Not a block delimiter; part of the surrounding content.
			pos = after
		}
	}

	if depth > 0 {
		return nil, errors.NewParse(cur.openerStart, "unterminated block: missing closing delimiter", nil)
	}
	flushFreeform(len(text))
	return nodes, nil
}

// isCloser reports whether a trimmed comment body is a closing block
// delimiter.
func isCloser(body string) bool {
	if !strings.HasPrefix(body, closerBody) {
		return false
	}
	return strings.TrimSpace(body[len(closerBody):]) == ""
}

// parseOpener decomposes a trimmed opening delimiter body into the
// canonical block name, decoded inline attributes, and the void flag.
func parseOpener(body string, offset int) (string, map[string]any, bool, error) {
	rest := strings.TrimSpace(body[len(openerPrefix):])

	void := false
	if strings.HasSuffix(rest, "/") {
		void = true
		rest = strings.TrimSpace(rest[:len(rest)-1])
	}

	nameStr := rest
	attrsJSON := ""
	if sp := strings.IndexAny(rest, " \t\r\n"); sp >= 0 {
		nameStr = rest[:sp]
		attrsJSON = strings.TrimSpace(rest[sp:])
	}

	name, err := ParseBlockName(nameStr)
	if err != nil {
		return "", nil, false, errors.NewParse(offset, "invalid block name in delimiter", err)
	}

	var attrs map[string]any
	if attrsJSON != "" {
		if err := json.Unmarshal([]byte(attrsJSON), &attrs); err != nil {
			return "", nil, false, errors.NewParse(offset, "malformed attribute JSON in delimiter", err)
		}
	}
	return name, attrs, void, nil
}
