package parser

import (
	"reflect"
	"testing"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/registry"
)

// failingFallbackType is a fallback handler whose saver cannot
// reproduce arbitrary content, forcing round-trip mismatches.
func failingFallbackType() *blocks.BlockType {
	return &blocks.BlockType{
		Name:  registry.DefaultUnknownType,
		Title: "Raw content",
		Save: blocks.SaveFunc(func(map[string]any) (string, error) {
			return "<pre>placeholder</pre>", nil
		}),
	}
}

func TestParseSingleValidBlock(t *testing.T) {
	r := testRegistry(t)

	out, err := Parse(r, "<!-- block:core/paragraph --><p>hello</p><!-- /block -->")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d blocks, want 1", len(out))
	}

	b := out[0]
	if b.Name != "core/paragraph" {
		t.Errorf("Name = %q, want core/paragraph", b.Name)
	}
	if !b.IsValid {
		t.Error("block should round-trip cleanly")
	}
	if b.OriginalContent != "" {
		t.Errorf("OriginalContent = %q, want empty for a valid block", b.OriginalContent)
	}
	if b.Attributes["content"] != "hello" {
		t.Errorf("content = %v, want hello", b.Attributes["content"])
	}
	if b.Attributes["dropCap"] != false {
		t.Errorf("dropCap = %v, want declared default false", b.Attributes["dropCap"])
	}
	if b.ClientID == "" {
		t.Error("materialized block must carry a client ID")
	}
}

// Output preserves document order of the regions 1:1.
func TestParseOrderPreservation(t *testing.T) {
	r := testRegistry(t)

	doc := "<!-- block:core/paragraph --><p>one</p><!-- /block -->\n" +
		"freeform text\n" +
		"<!-- block:core/image --><figure><img src=\"a.jpg\" alt=\"\"/></figure><!-- /block -->\n" +
		"<!-- block:core/paragraph --><p>two</p><!-- /block -->"

	out, err := Parse(r, doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantNames := []string{"core/paragraph", "core/raw", "core/image", "core/paragraph"}
	if len(out) != len(wantNames) {
		t.Fatalf("got %d blocks, want %d", len(out), len(wantNames))
	}
	for i, want := range wantNames {
		if out[i].Name != want {
			t.Errorf("out[%d].Name = %q, want %q", i, out[i].Name, want)
		}
	}
	if out[0].Attributes["content"] != "one" || out[3].Attributes["content"] != "two" {
		t.Error("paragraph order not preserved")
	}
}

// An unregistered declared type resolves to the unknown-type handler
// and, when the round trip cannot succeed, keeps the raw content intact.
func TestParseFallbackSafety(t *testing.T) {
	r := testRegistry(t)

	raw := `<div class="widget">custom   markup</div>`
	out, err := Parse(r, "<!-- block:acme/widget -->"+raw+"<!-- /block -->")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d blocks, want 1", len(out))
	}

	b := out[0]
	if b.Name != registry.DefaultUnknownType {
		t.Errorf("Name = %q, want %q", b.Name, registry.DefaultUnknownType)
	}
	// The fallback type has no saver, so the region validates with its
	// content as ground truth.
	if !b.IsValid {
		t.Error("fallback block without saver should be valid")
	}
	if b.Attributes["content"] != raw {
		t.Errorf("content = %v, want the raw markup", b.Attributes["content"])
	}
}

func TestParseFallbackPreservesOriginalOnMismatch(t *testing.T) {
	// Synthetic registry whose fallback has a saver that cannot
	// reproduce arbitrary content.
	r := registry.New()
	if err := r.Register(failingFallbackType()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	raw := `<div>custom   markup</div>`
	out, err := Parse(r, "<!-- block:acme/widget -->"+raw+"<!-- /block -->")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b := out[0]
	if b.IsValid {
		t.Fatal("round trip should fail for content the saver cannot reproduce")
	}
	if b.OriginalContent != raw {
		t.Errorf("OriginalContent = %q, want %q byte-for-byte", b.OriginalContent, raw)
	}
}

// Empty unknown regions are dropped only when no type at all resolves.
func TestParseDropRule(t *testing.T) {
	empty := registry.New() // no fallback registered

	out, err := Parse(empty, "<!-- block:acme/mystery /-->")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("empty unknown region should be dropped, got %d blocks", len(out))
	}
}

func TestParseNoTypeWithContentIsKept(t *testing.T) {
	empty := registry.New()

	out, err := Parse(empty, "<!-- block:acme/mystery {\"a\":1} -->keep me<!-- /block -->")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d blocks, want 1 (content must never be lost)", len(out))
	}

	b := out[0]
	if b.IsValid {
		t.Error("a block with no resolvable type cannot validate")
	}
	if b.OriginalContent != "keep me" {
		t.Errorf("OriginalContent = %q, want %q", b.OriginalContent, "keep me")
	}
	if b.Attributes["a"] != float64(1) {
		t.Errorf("inline attributes should be preserved verbatim, got %v", b.Attributes)
	}
}

// The worked example: a deprecated alias with an inline attribute.
func TestParseLegacyAliasExample(t *testing.T) {
	r := testRegistry(t)
	r.AddMigration("legacy/text", "core/paragraph")

	var migrations int
	r.SetMetricsSink(registry.MetricsSinkFunc(func(from, to string) { migrations++ }))

	out, err := Parse(r, `<!-- block:legacy/text {"align":"left"} -->hello<!-- /block -->`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d blocks, want 1", len(out))
	}

	b := out[0]
	if b.Name != "core/paragraph" {
		t.Errorf("Name = %q, want core/paragraph", b.Name)
	}
	if b.Attributes["align"] != "left" {
		t.Errorf("align = %v, want left", b.Attributes["align"])
	}
	if migrations != 1 {
		t.Errorf("migration notifications = %d, want 1", migrations)
	}
	// "hello" is not wrapped in <p>, so reserializing {align: left}
	// cannot reproduce it: the block is downgraded, not lost.
	if b.IsValid {
		t.Error("round trip should fail for unwrapped content")
	}
	if b.OriginalContent != "hello" {
		t.Errorf("OriginalContent = %q, want hello", b.OriginalContent)
	}
}

// For any valid block, serializing and reparsing yields a block with
// identical attributes, still valid.
func TestParseSerializeRoundTripIdempotent(t *testing.T) {
	r := testRegistry(t)

	doc := `<!-- block:core/paragraph {"align":"wide"} --><p class="has-text-align-wide">hi</p><!-- /block -->` +
		"\n\n" +
		`<!-- block:core/image --><figure><img src="a.jpg" alt="A"/></figure><!-- /block -->`

	first, err := Parse(r, doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i, b := range first {
		if !b.IsValid {
			t.Fatalf("first[%d] (%s) should be valid", i, b.Name)
		}
	}

	serialized, err := SerializeBlocks(first)
	if err != nil {
		t.Fatalf("SerializeBlocks: %v", err)
	}
	second, err := Parse(r, serialized)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	if len(second) != len(first) {
		t.Fatalf("reparse produced %d blocks, want %d", len(second), len(first))
	}
	for i := range first {
		if second[i].Name != first[i].Name {
			t.Errorf("block %d name = %q, want %q", i, second[i].Name, first[i].Name)
		}
		if !second[i].IsValid {
			t.Errorf("block %d should stay valid after round trip", i)
		}
		if !reflect.DeepEqual(second[i].Attributes, first[i].Attributes) {
			t.Errorf("block %d attributes = %v, want %v", i, second[i].Attributes, first[i].Attributes)
		}
	}
}

func TestParsePropagatesTokenizerError(t *testing.T) {
	r := testRegistry(t)

	if _, err := Parse(r, "<!-- block:core/paragraph --><p>unclosed</p>"); err == nil {
		t.Fatal("tokenizer failure must be fatal")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	r := testRegistry(t)

	out, err := Parse(r, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d blocks, want 0", len(out))
	}
}
