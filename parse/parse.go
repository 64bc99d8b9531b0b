// Package parse reads Markdown posts into mdast trees.
//
// Parsing is done by goldmark with the GFM extensions plus the footnote
// syntax of this package. TOML frontmatter, delimited by +++ (or ---toml and
// ---), becomes the first child of the root. Link reference definitions are
// appended to the end of the root, in the order they were written.
package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"adventune/skrivpost/mdast"
)

type Parser struct {
	md goldmark.Markdown
}

func New() *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM, Footnotes)),
	}
}

var defaultParser = New()

// Parse parses src with the default parser.
func Parse(src []byte) (*mdast.Root, error) {
	return defaultParser.Parse(src)
}

func (p *Parser) Parse(src []byte) (*mdast.Root, error) {
	front, body, err := splitFrontmatter(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parseBody(body, newReferenceContext(nil))
	if err != nil {
		return nil, err
	}
	if front.found {
		root.Children = append([]mdast.Node{&mdast.TOML{Value: front.value}}, root.Children...)
	}

	log.Trace().Bool("frontmatter", front.found).Int("blocks", len(root.Children)).Msg("Parsed markdown")
	return root, nil
}

func (p *Parser) parseBody(src []byte, ctx *referenceContext) (*mdast.Root, error) {
	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))
	c := &converter{parser: p, source: src, ctx: ctx}
	return c.root(doc)
}

type frontmatterBlock struct {
	value string
	found bool
}

func captureTOML(data []byte, v interface{}) error {
	block, ok := v.(*frontmatterBlock)
	if !ok {
		return fmt.Errorf("unexpected frontmatter target %T", v)
	}
	block.value = strings.TrimRight(string(data), "\r\n")
	block.found = true
	return nil
}

var frontmatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("+++", "+++", captureTOML),
	frontmatter.NewFormat("---toml", "---", captureTOML),
}

// splitFrontmatter separates the raw TOML frontmatter from the Markdown body.
// The TOML itself is validated later, when metadata is extracted.
func splitFrontmatter(src []byte) (frontmatterBlock, []byte, error) {
	var front frontmatterBlock
	body, err := frontmatter.Parse(bytes.NewReader(src), &front, frontmatterFormats...)
	if err != nil {
		return front, nil, fmt.Errorf("read frontmatter: %w", err)
	}
	return front, body, nil
}
