// Package parser converts delimiter-annotated documents into ordered
// block lists. It folds the grammar's region nodes through type
// resolution, attribute sourcing, materialization, and round-trip
// validation, so that a region the system understands imperfectly is
// downgraded (with its original text preserved) instead of lost.
//
// The parser holds no state of its own: everything it needs is read from
// the registry passed to it, which must be fully populated before the
// parse begins. Region nodes are independent of their siblings, so a
// host may parallelize across regions as long as it reassembles the
// output in document order.
package parser

import (
	"strings"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/grammar"
	"github.com/nirbhay18/gutenberg/core/registry"
)

// Parse converts documentText into an ordered block list. The block
// list preserves the document order of the underlying regions; the only
// region ever dropped is an empty one that resolves to no type at all.
// A tokenizer failure is fatal and returns no partial list.
func Parse(reg *registry.Registry, documentText string) ([]*blocks.Block, error) {
	nodes, err := grammar.Tokenize(documentText)
	if err != nil {
		return nil, err
	}

	out := make([]*blocks.Block, 0, len(nodes))
	for _, node := range nodes {
		b := CreateBlockWithFallback(reg, node.Name, strings.TrimSpace(node.RawContent), node.Attrs)
		if b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

// CreateBlockWithFallback materializes a single region into a block,
// resolving its type (with migrations and the unknown-type fallback),
// its attributes, and its round-trip validity.
//
// It returns nil only for a region with no resolvable type, no raw
// content, and a name already equal to the fallback handler: an empty
// unknown region is dropped rather than materialized as an empty
// fallback block. A region with content but no resolvable type is kept
// as an unvalidated block with its original text preserved.
func CreateBlockWithFallback(reg *registry.Registry, name, rawContent string, inlineAttrs map[string]any) *blocks.Block {
	finalName, blockType := ResolveType(reg, name)

	if blockType == nil {
		if rawContent == "" && finalName == reg.UnknownType() {
			return nil
		}
		b := blocks.CreateBlock(finalName, cloneAttrs(inlineAttrs))
		b.InnerHTML = rawContent
		b.IsValid = false
		b.OriginalContent = rawContent
		return b
	}

	attrs := BlockAttributes(blockType.Attributes, rawContent, inlineAttrs)
	b := blocks.CreateBlock(finalName, attrs)
	b.InnerHTML = rawContent
	if !Validate(rawContent, blockType, attrs) {
		b.IsValid = false
		b.OriginalContent = rawContent
	}
	return b
}

// cloneAttrs copies inline attributes so blocks never alias tokenizer
// output.
func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
