// Package markdown renders content pages written in GitHub flavored markdown
// with an optional YAML frontmatter block.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Frontmatter holds the keys a content page may set
type Frontmatter struct {
	Title string `yaml:"title"`
	Logo  string `yaml:"logo"`
}

// Page is a rendered content file
type Page struct {
	Frontmatter
	HTML []byte
}

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
				&frontmatter.Extender{},
			),
			goldmark.WithRendererOptions(
				goldmarkhtml.WithHardWraps(),
			),
		),
	}
}

// Render converts source to HTML. A frontmatter block that does not decode
// is ignored rather than failing the page.
func (p *Parser) Render(source []byte) (*Page, error) {
	pc := parser.NewContext()
	var buf bytes.Buffer

	err := p.md.Convert(source, &buf, parser.WithContext(pc))
	if err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	page := &Page{HTML: buf.Bytes()}
	if data := frontmatter.Get(pc); data != nil {
		_ = data.Decode(&page.Frontmatter)
	}
	return page, nil
}
