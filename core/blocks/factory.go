package blocks

import "github.com/google/uuid"

// CreateBlock constructs a block instance from a resolved name and
// attribute set. Validation state is left for the round-trip validator;
// a freshly created block is considered valid until proven otherwise.
func CreateBlock(name string, attributes map[string]any) *Block {
	if attributes == nil {
		attributes = map[string]any{}
	}
	return &Block{
		ClientID:   uuid.NewString(),
		Name:       name,
		Attributes: attributes,
		IsValid:    true,
	}
}
