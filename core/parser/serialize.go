package parser

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/encoding"
)

// SerializeBlock renders a block back to delimiter-annotated text.
// Invalid blocks serialize their preserved original content, so an
// imperfectly understood document survives a parse/serialize cycle
// byte-faithfully inside its delimiters.
func SerializeBlock(b *blocks.Block) (string, error) {
	if b == nil {
		return "", fmt.Errorf("cannot serialize nil block")
	}

	content := b.InnerHTML
	if !b.IsValid {
		content = b.OriginalContent
	}
	if b.Name == "" {
		return content, nil
	}

	header := "block:" + b.Name
	if len(b.Attributes) > 0 {
		raw, err := json.Marshal(b.Attributes)
		if err != nil {
			return "", fmt.Errorf("serializing attributes of %s: %w", b.Name, err)
		}
		header += " " + encoding.EscapeCommentJSON(string(raw))
	}

	if content == "" {
		return "<!-- " + header + " /-->", nil
	}
	return "<!-- " + header + " -->" + content + "<!-- /block -->", nil
}

// SerializeBlocks renders an ordered block list back to a document,
// blocks separated by blank lines. Reparsing the result yields the same
// blocks in the same order: the separators are insignificant to the
// grammar.
func SerializeBlocks(bs []*blocks.Block) (string, error) {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		s, err := SerializeBlock(b)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n"), nil
}
