package parser

import (
	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/registry"
)

// ResolveType maps a region's declared name to a registered block type.
//
// An absent name resolves to the registry's unknown-type handler. A name
// with a recorded legacy migration is rewritten to its successor, with
// one notification per applied rewrite. If the (possibly rewritten) name
// is unregistered, the unknown-type handler is substituted and looked up
// instead. The returned type is nil when even the fallback is
// unregistered; an unknown type is never an error.
func ResolveType(reg *registry.Registry, name string) (string, *blocks.BlockType) {
	if name == "" {
		name = reg.UnknownType()
	}

	if successor, ok := reg.Migration(name); ok {
		reg.NotifyMigration(name, successor)
		name = successor
	}

	t := reg.Lookup(name)
	if t == nil {
		name = reg.UnknownType()
		t = reg.Lookup(name)
	}
	return name, t
}
