package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/errors"
	"github.com/nirbhay18/gutenberg/core/query"
)

// typeDef is the on-disk representation of a block type definition.
// Definitions carry the schema, defaults, extraction sources, and legacy
// aliases; they cannot carry a saver, so loaded types treat their raw
// content as ground truth.
type typeDef struct {
	Name       string              `json:"name" yaml:"name"`
	Title      string              `json:"title" yaml:"title"`
	Aliases    []string            `json:"aliases" yaml:"aliases"`
	Attributes map[string]fieldDef `json:"attributes" yaml:"attributes"`
}

// fieldDef is the on-disk representation of one attribute field.
type fieldDef struct {
	Type    string     `json:"type" yaml:"type"`
	Default any        `json:"default" yaml:"default"`
	Source  *sourceDef `json:"source" yaml:"source"`
}

// sourceDef describes an extraction rule declaratively.
type sourceDef struct {
	Rule      string `json:"rule" yaml:"rule"`
	Selector  string `json:"selector" yaml:"selector"`
	Attribute string `json:"attribute" yaml:"attribute"`
}

// LoadFile reads a single block type definition (YAML or JSON, chosen by
// file extension) and registers it, including any legacy aliases.
func LoadFile(r *Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewIO("read", path, err)
	}

	var def typeDef
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return errors.NewValidation("file", fmt.Sprintf("unsupported definition format: %s", filepath.Base(path)))
	}

	t, err := def.blockType()
	if err != nil {
		return fmt.Errorf("definition %s: %w", path, err)
	}
	if err := r.Register(t); err != nil {
		return err
	}
	for _, alias := range def.Aliases {
		r.AddMigration(alias, t.Name)
	}
	return nil
}

// LoadDir registers every .yaml/.yml/.json definition in dir, in
// lexical order. Other files are ignored.
func LoadDir(r *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.NewIO("read", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			if err := LoadFile(r, filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// blockType converts a definition into a registrable block type.
func (d *typeDef) blockType() (*blocks.BlockType, error) {
	if d.Name == "" {
		return nil, errors.NewValidation("name", "definition has no name")
	}

	schema := blocks.AttributeSchema{}
	for field, fd := range d.Attributes {
		spec := blocks.FieldSpec{
			Type:    blocks.AttributeType(fd.Type),
			Default: fd.Default,
		}
		if fd.Type != "" && !spec.Type.IsValid() {
			return nil, errors.NewValidation(field, fmt.Sprintf("unknown attribute type %q", fd.Type))
		}
		if fd.Source != nil {
			rule, err := fd.Source.rule()
			if err != nil {
				return nil, errors.NewValidation(field, err.Error())
			}
			spec.Source = rule
		}
		schema[field] = spec
	}

	return &blocks.BlockType{
		Name:       d.Name,
		Title:      d.Title,
		Attributes: schema,
	}, nil
}

// rule materializes the declarative source into an extraction rule.
func (s *sourceDef) rule() (*query.Rule, error) {
	switch s.Rule {
	case "attribute", "attr":
		if s.Attribute == "" {
			return nil, fmt.Errorf("attribute source requires an attribute name")
		}
		return query.Attribute(s.Selector, s.Attribute), nil
	case "text":
		return query.Text(s.Selector), nil
	case "html":
		return query.HTML(s.Selector), nil
	default:
		return nil, fmt.Errorf("unknown source rule %q", s.Rule)
	}
}
