// Package blocks defines the block data model shared across the parser,
// registry, and serializer. All components should import these types from
// core/blocks rather than defining their own.
package blocks

import "github.com/nirbhay18/gutenberg/core/query"

// AttributeType represents the declared type of a block attribute.
type AttributeType string

// Attribute type constants.
const (
	TypeString  AttributeType = "string"
	TypeBoolean AttributeType = "boolean"
	TypeObject  AttributeType = "object"
	TypeNull    AttributeType = "null"
	TypeArray   AttributeType = "array"
	TypeInteger AttributeType = "integer"
	TypeNumber  AttributeType = "number"
)

// validAttributeTypes is the set of valid attribute types.
var validAttributeTypes = map[AttributeType]bool{
	TypeString:  true,
	TypeBoolean: true,
	TypeObject:  true,
	TypeNull:    true,
	TypeArray:   true,
	TypeInteger: true,
	TypeNumber:  true,
}

// IsValid returns true if the attribute type is valid.
func (t AttributeType) IsValid() bool {
	return validAttributeTypes[t]
}

// FieldSpec describes a single attribute declared by a block type.
type FieldSpec struct {
	// Type is the declared attribute type. An empty or unrecognized type
	// disables coercion for the field.
	Type AttributeType `json:"type,omitempty"`

	// Default is the value used when neither the delimiter nor an
	// extraction rule supplies one. A nil Default means no default is
	// declared and the field is omitted when unset.
	Default any `json:"default,omitempty"`

	// Source is an optional extraction rule that derives the value from
	// the region's rendered content. Only rules built through the
	// core/query factories are honored.
	Source *query.Rule `json:"-"`
}

// AttributeSchema maps attribute names to their field specifications.
type AttributeSchema map[string]FieldSpec

// Saver renders a block's resolved attributes back to markup. The
// round-trip validator compares its output against the region's raw
// content.
type Saver interface {
	Save(attributes map[string]any) (string, error)
}

// SaveFunc adapts a plain function to the Saver interface.
type SaveFunc func(attributes map[string]any) (string, error)

// Save implements Saver.
func (f SaveFunc) Save(attributes map[string]any) (string, error) {
	return f(attributes)
}

// BlockType describes a registered block type.
type BlockType struct {
	// Name is the namespaced type name (e.g., "core/paragraph").
	Name string `json:"name"`

	// Title is the human-readable type title.
	Title string `json:"title,omitempty"`

	// Attributes declares the attribute schema for this type.
	Attributes AttributeSchema `json:"attributes,omitempty"`

	// Save regenerates content from resolved attributes. A nil Save marks
	// a dynamic type whose raw content is its own ground truth; such
	// blocks always pass round-trip validation.
	Save Saver `json:"-"`
}

// Block is a single parsed block instance.
type Block struct {
	// ClientID uniquely identifies this block instance within a parse.
	ClientID string `json:"client_id"`

	// Name is the resolved block type name.
	Name string `json:"name"`

	// Attributes holds the resolved, coerced attribute values.
	Attributes map[string]any `json:"attributes,omitempty"`

	// InnerHTML is the trimmed raw content of the source region.
	InnerHTML string `json:"inner_html,omitempty"`

	// IsValid reports whether reserializing the block reproduced the
	// source region.
	IsValid bool `json:"is_valid"`

	// OriginalContent preserves the untouched raw content when IsValid is
	// false. It is the block's ground truth for future re-parsing and is
	// empty for valid blocks.
	OriginalContent string `json:"original_content,omitempty"`
}
