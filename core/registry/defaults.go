package registry

import (
	"fmt"
	"strings"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/encoding"
	"github.com/nirbhay18/gutenberg/core/query"
)

// RegisterDefaults installs the built-in block types and the stock
// legacy-name migrations. Hosts with bespoke type sets can skip this and
// register their own.
func RegisterDefaults(r *Registry) error {
	defaults := []*blocks.BlockType{
		{
			Name:  "core/paragraph",
			Title: "Paragraph",
			Attributes: blocks.AttributeSchema{
				"align":   {Type: blocks.TypeString},
				"content": {Type: blocks.TypeString, Source: query.HTML("p")},
				"dropCap": {Type: blocks.TypeBoolean, Default: false},
			},
			Save: blocks.SaveFunc(saveParagraph),
		},
		{
			Name:  "core/image",
			Title: "Image",
			Attributes: blocks.AttributeSchema{
				"src":     {Type: blocks.TypeString, Source: query.Attribute("img", "src")},
				"alt":     {Type: blocks.TypeString, Source: query.Attribute("img", "alt"), Default: ""},
				"caption": {Type: blocks.TypeString, Source: query.HTML("figcaption")},
			},
			Save: blocks.SaveFunc(saveImage),
		},
		{
			// Fallback for freeform content and unregistered types. Its
			// raw content is its own ground truth, so it has no saver.
			Name:  DefaultUnknownType,
			Title: "Raw content",
			Attributes: blocks.AttributeSchema{
				"content": {Type: blocks.TypeString, Source: query.HTML("")},
			},
		},
	}

	for _, t := range defaults {
		if err := r.Register(t); err != nil {
			return fmt.Errorf("registering default type %s: %w", t.Name, err)
		}
	}

	// core/text was the original name of the paragraph type.
	r.AddMigration("core/text", "core/paragraph")
	return nil
}

func saveParagraph(attrs map[string]any) (string, error) {
	content, _ := attrs["content"].(string)
	var class string
	if align, ok := attrs["align"].(string); ok && align != "" {
		class = fmt.Sprintf(" class=%q", "has-text-align-"+align)
	}
	return "<p" + class + ">" + content + "</p>", nil
}

func saveImage(attrs map[string]any) (string, error) {
	src, _ := attrs["src"].(string)
	alt, _ := attrs["alt"].(string)
	caption, _ := attrs["caption"].(string)

	var b strings.Builder
	b.WriteString("<figure>")
	b.WriteString(`<img src="` + encoding.EscapeHTMLAttr(src) + `" alt="` + encoding.EscapeHTMLAttr(alt) + `"/>`)
	if caption != "" {
		b.WriteString("<figcaption>" + caption + "</figcaption>")
	}
	b.WriteString("</figure>")
	return b.String(), nil
}
