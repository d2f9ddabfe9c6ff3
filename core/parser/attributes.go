package parser

import (
	"fmt"
	"strconv"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/query"
)

// SourcedAttributes evaluates the schema's extraction rules against the
// region's rendered content. Only fields whose source passes the
// capability check participate; fields with no matching content yield no
// entry. Extraction runs against the trimmed raw content, the same
// string the validator later compares.
func SourcedAttributes(rawContent string, schema blocks.AttributeSchema) map[string]any {
	rules := map[string]*query.Rule{}
	for field, spec := range schema {
		if query.IsValid(spec.Source) {
			rules[field] = spec.Source
		}
	}
	if len(rules) == 0 {
		return map[string]any{}
	}
	return query.Evaluate(rawContent, rules)
}

// BlockAttributes resolves the final attribute set for a region: inline
// delimiter attributes overlaid by sourced attributes (sourced wins),
// schema defaults for fields still unset, and per-field coercion to the
// declared type. Fields with no value and no declared default are
// omitted entirely, never null-filled. Non-schema inline attributes are
// discarded.
func BlockAttributes(schema blocks.AttributeSchema, rawContent string, inlineAttrs map[string]any) map[string]any {
	merged := make(map[string]any, len(inlineAttrs))
	for k, v := range inlineAttrs {
		merged[k] = v
	}
	for k, v := range SourcedAttributes(rawContent, schema) {
		merged[k] = v
	}

	out := make(map[string]any, len(schema))
	for field, spec := range schema {
		value, ok := merged[field]
		if !ok {
			if spec.Default == nil {
				continue
			}
			value = spec.Default
		}
		out[field] = coerce(spec.Type, value)
	}
	return out
}

// coerce converts a value to its declared attribute type. Coercion is
// tolerant: malformed input degrades to the type's zero representation
// rather than failing the parse. An empty or unrecognized type leaves
// the value untouched.
func coerce(t blocks.AttributeType, v any) any {
	switch t {
	case blocks.TypeString:
		return coerceString(v)
	case blocks.TypeBoolean:
		return coerceBool(v)
	case blocks.TypeObject:
		return coerceObject(v)
	case blocks.TypeNull:
		return nil
	case blocks.TypeArray:
		return coerceArray(v)
	case blocks.TypeInteger:
		return coerceInteger(v)
	case blocks.TypeNumber:
		return coerceNumber(v)
	default:
		return v
	}
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != "" && b != "false" && b != "0"
	case float64:
		return b != 0
	case int:
		return b != 0
	case int64:
		return b != 0
	default:
		return true
	}
}

func coerceObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func coerceArray(v any) []any {
	switch a := v.(type) {
	case nil:
		return []any{}
	case []any:
		return a
	default:
		return []any{v}
	}
}

func coerceInteger(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int64(f)
		}
		return 0
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
		return 0
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}
