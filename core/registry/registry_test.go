package registry

import (
	"errors"
	"testing"

	"github.com/nirbhay18/gutenberg/core/blocks"
	coreerrors "github.com/nirbhay18/gutenberg/core/errors"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	bt := &blocks.BlockType{Name: "acme/callout", Title: "Callout"}

	if err := r.Register(bt); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := r.Lookup("acme/callout"); got != bt {
		t.Errorf("Lookup returned %v, want the registered type", got)
	}
	if got := r.Lookup("acme/missing"); got != nil {
		t.Errorf("Lookup of unregistered type = %v, want nil", got)
	}
}

func TestRegisterRejectsInvalidNames(t *testing.T) {
	tests := []string{
		"",
		"paragraph",       // missing namespace
		"Core/Paragraph",  // uppercase
		"core/",           // empty name
		"/paragraph",      // empty namespace
		"core/para graph", // whitespace
	}

	r := New()
	for _, name := range tests {
		err := r.Register(&blocks.BlockType{Name: name})
		if err == nil {
			t.Errorf("Register(%q) should fail", name)
			continue
		}
		if !errors.Is(err, coreerrors.ErrInvalidInput) {
			t.Errorf("Register(%q) error = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	if err := r.Register(&blocks.BlockType{Name: "acme/callout"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := r.Register(&blocks.BlockType{Name: "acme/callout"})
	if !errors.Is(err, coreerrors.ErrAlreadyExists) {
		t.Errorf("duplicate Register error = %v, want ErrAlreadyExists", err)
	}
}

func TestRegisterNil(t *testing.T) {
	r := New()
	if err := r.Register(nil); err == nil {
		t.Error("Register(nil) should fail")
	}
}

func TestNames(t *testing.T) {
	r := New()
	for _, name := range []string{"b/b", "a/a", "c/c"} {
		if err := r.Register(&blocks.BlockType{Name: name}); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}

	got := r.Names()
	want := []string{"a/a", "b/b", "c/c"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnknownTypeConfiguration(t *testing.T) {
	r := New()
	if r.UnknownType() != DefaultUnknownType {
		t.Errorf("UnknownType() = %q, want %q", r.UnknownType(), DefaultUnknownType)
	}

	r.SetUnknownType("acme/fallback")
	if r.UnknownType() != "acme/fallback" {
		t.Errorf("UnknownType() = %q, want %q", r.UnknownType(), "acme/fallback")
	}
}

func TestMigrations(t *testing.T) {
	r := New()
	r.AddMigration("legacy/text", "core/paragraph")

	to, ok := r.Migration("legacy/text")
	if !ok || to != "core/paragraph" {
		t.Errorf("Migration(legacy/text) = %q, %v; want core/paragraph, true", to, ok)
	}
	if _, ok := r.Migration("core/paragraph"); ok {
		t.Error("Migration of a non-deprecated name should report false")
	}
}

func TestNotifyMigration(t *testing.T) {
	r := New()
	var calls []string
	r.SetMetricsSink(MetricsSinkFunc(func(from, to string) {
		calls = append(calls, from+"->"+to)
	}))

	r.NotifyMigration("legacy/text", "core/paragraph")
	if len(calls) != 1 || calls[0] != "legacy/text->core/paragraph" {
		t.Errorf("sink calls = %v, want exactly one migration event", calls)
	}
}

func TestNotifyMigrationWithoutSink(t *testing.T) {
	r := New()
	// Must not panic.
	r.NotifyMigration("legacy/text", "core/paragraph")
}

func TestNotifyMigrationSwallowsPanic(t *testing.T) {
	r := New()
	r.SetMetricsSink(MetricsSinkFunc(func(from, to string) {
		panic("sink failure")
	}))

	// A panicking sink must never break a parse.
	r.NotifyMigration("legacy/text", "core/paragraph")
}

func TestRegisterDefaults(t *testing.T) {
	r := New()
	if err := RegisterDefaults(r); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}

	for _, name := range []string{"core/paragraph", "core/image", DefaultUnknownType} {
		if r.Lookup(name) == nil {
			t.Errorf("default type %s not registered", name)
		}
	}

	if to, ok := r.Migration("core/text"); !ok || to != "core/paragraph" {
		t.Errorf("core/text migration = %q, %v; want core/paragraph, true", to, ok)
	}

	if r.Lookup(DefaultUnknownType).Save != nil {
		t.Error("fallback type must not have a saver; its content is its own ground truth")
	}
}

func TestDefaultParagraphSave(t *testing.T) {
	r := New()
	if err := RegisterDefaults(r); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	bt := r.Lookup("core/paragraph")

	tests := []struct {
		name  string
		attrs map[string]any
		want  string
	}{
		{"content only", map[string]any{"content": "hello"}, "<p>hello</p>"},
		{"aligned", map[string]any{"content": "hi", "align": "left"}, `<p class="has-text-align-left">hi</p>`},
		{"empty", map[string]any{}, "<p></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bt.Save.Save(tt.attrs)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if got != tt.want {
				t.Errorf("Save = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultImageSave(t *testing.T) {
	r := New()
	if err := RegisterDefaults(r); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	bt := r.Lookup("core/image")

	got, err := bt.Save.Save(map[string]any{
		"src":     "a.jpg",
		"alt":     "A",
		"caption": "The caption",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := `<figure><img src="a.jpg" alt="A"/><figcaption>The caption</figcaption></figure>`
	if got != want {
		t.Errorf("Save = %q, want %q", got, want)
	}
}
