package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/query"
)

const quoteYAML = `name: acme/quote
title: Quote
aliases:
  - legacy/quote
attributes:
  value:
    type: string
    source:
      rule: html
      selector: blockquote
  citation:
    type: string
    source:
      rule: text
      selector: cite
  url:
    type: string
    default: ""
    source:
      rule: attribute
      selector: a
      attribute: href
`

const buttonJSON = `{
  "name": "acme/button",
  "title": "Button",
  "attributes": {
    "label": {"type": "string", "source": {"rule": "text", "selector": "a"}},
    "target": {"type": "string", "default": "_self"}
  }
}`

func writeDef(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeDef(t, dir, "quote.yaml", quoteYAML)

	r := New()
	if err := LoadFile(r, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	bt := r.Lookup("acme/quote")
	if bt == nil {
		t.Fatal("acme/quote not registered")
	}
	if bt.Title != "Quote" {
		t.Errorf("Title = %q, want %q", bt.Title, "Quote")
	}

	spec, ok := bt.Attributes["value"]
	if !ok {
		t.Fatal("value attribute missing from schema")
	}
	if spec.Type != blocks.TypeString {
		t.Errorf("value type = %q, want string", spec.Type)
	}
	if !query.IsValid(spec.Source) {
		t.Error("value source should be a valid extraction rule")
	}

	url := bt.Attributes["url"]
	if url.Default != "" {
		t.Errorf("url default = %v, want empty string", url.Default)
	}

	if to, ok := r.Migration("legacy/quote"); !ok || to != "acme/quote" {
		t.Errorf("alias migration = %q, %v; want acme/quote, true", to, ok)
	}
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeDef(t, dir, "button.json", buttonJSON)

	r := New()
	if err := LoadFile(r, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	bt := r.Lookup("acme/button")
	if bt == nil {
		t.Fatal("acme/button not registered")
	}
	if !query.IsValid(bt.Attributes["label"].Source) {
		t.Error("label source should be a valid extraction rule")
	}
	if bt.Attributes["target"].Default != "_self" {
		t.Errorf("target default = %v, want _self", bt.Attributes["target"].Default)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "def.toml", "name = 'x/y'"},
		{"missing name", "noname.yaml", "title: Nameless"},
		{"bad yaml", "bad.yaml", "name: [unclosed"},
		{"unknown attribute type", "badtype.yaml", "name: a/b\nattributes:\n  x:\n    type: decimal"},
		{"unknown source rule", "badrule.yaml", "name: a/c\nattributes:\n  x:\n    source:\n      rule: regex"},
		{"attr source without name", "badattr.yaml", "name: a/d\nattributes:\n  x:\n    source:\n      rule: attribute\n      selector: img"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDef(t, dir, tt.file, tt.content)
			if err := LoadFile(New(), path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if err := LoadFile(New(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "quote.yaml", quoteYAML)
	writeDef(t, dir, "button.json", buttonJSON)
	writeDef(t, dir, "README.md", "not a definition")

	r := New()
	if err := LoadDir(r, dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if r.Lookup("acme/quote") == nil || r.Lookup("acme/button") == nil {
		t.Error("LoadDir should register every definition in the directory")
	}
}

func TestLoadDirMissing(t *testing.T) {
	if err := LoadDir(New(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
