package grammar

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// DefaultNamespace is assumed when a delimiter names a block without an
// explicit namespace ("block:paragraph" means "core/paragraph").
const DefaultNamespace = "core"

// nameGrammar is the participle grammar for namespaced block names.
// Examples: "paragraph", "core/paragraph", "my-plugin/call-to-action"
//
//nolint:govet // participle grammar tags are not standard struct tags
type nameGrammar struct {
	Namespace string `parser:"@Ident"`
	Name      string `parser:"( \"/\" @Ident )?"`
}

// nameLexer defines the lexer for block names.
var nameLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-z][a-z0-9_-]*`},
	{Name: "Slash", Pattern: `/`},
})

// nameParser is the participle parser for block names.
var nameParser = participle.MustBuild[nameGrammar](
	participle.Lexer(nameLexer),
)

// ParseBlockName parses and canonicalizes a delimiter block name.
// Names without a namespace are qualified with DefaultNamespace.
func ParseBlockName(s string) (string, error) {
	s = strings.TrimSpace(s)
	parsed, err := nameParser.ParseString("", s)
	if err != nil {
		return "", err
	}
	if parsed.Name == "" {
		return DefaultNamespace + "/" + parsed.Namespace, nil
	}
	return parsed.Namespace + "/" + parsed.Name, nil
}
