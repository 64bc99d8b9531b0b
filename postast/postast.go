// Package postast indexes the definitions of a post before compilation.
package postast

import (
	"fmt"
	"strconv"
	"strings"

	"adventune/skrivpost/mdast"
	"adventune/skrivpost/metadata"
)

// GeneratedPrefix starts the identifiers synthesized for inline footnotes.
const GeneratedPrefix = "gen-"

type DuplicateDefinitionError struct {
	Identifier string
	Normalized string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition %q (normalized %q)", e.Identifier, e.Normalized)
}

type DuplicateFootnoteDefinitionError struct {
	Identifier string
	Normalized string
}

func (e *DuplicateFootnoteDefinitionError) Error() string {
	return fmt.Sprintf("duplicate footnote definition %q (normalized %q)", e.Identifier, e.Normalized)
}

// ReservedFootnoteIdentifierError reports a footnote definition using the
// prefix of generated identifiers.
type ReservedFootnoteIdentifierError struct {
	Identifier string
}

func (e *ReservedFootnoteIdentifierError) Error() string {
	return fmt.Sprintf("footnote identifier %q uses the reserved prefix %q", e.Identifier, GeneratedPrefix)
}

// PostAST is a normalized Markdown tree with its definitions indexed.
// It is not modified after Build returns.
type PostAST struct {
	Tree *mdast.Root
	// Metadata is nil when the post has no frontmatter.
	Metadata *metadata.PostMetadata

	definitions         map[string]*mdast.Definition
	footnoteDefinitions map[string]*mdast.FootnoteDefinition
	generated           map[*mdast.Footnote]string
}

// FromMarkdownTree normalizes the metadata of tree, validates it and indexes
// the definitions of the result.
func FromMarkdownTree(tree *mdast.Root) (*PostAST, error) {
	normalized, err := metadata.Normalize(tree)
	if err != nil {
		return nil, err
	}
	meta, err := metadata.Extract(normalized)
	if err != nil {
		return nil, err
	}
	ast, err := Build(normalized)
	if err != nil {
		return nil, err
	}
	ast.Metadata = meta
	return ast, nil
}

// Build indexes the definitions of tree in a single pre-order traversal.
func Build(tree *mdast.Root) (*PostAST, error) {
	ast := &PostAST{
		Tree:                tree,
		definitions:         map[string]*mdast.Definition{},
		footnoteDefinitions: map[string]*mdast.FootnoteDefinition{},
		generated:           map[*mdast.Footnote]string{},
	}
	err := mdast.Visit(tree, func(n mdast.Node) error {
		switch v := n.(type) {
		case *mdast.Definition:
			return ast.addDefinition(v)
		case *mdast.FootnoteDefinition:
			return ast.addFootnoteDefinition(v)
		case *mdast.Footnote:
			ast.addInlineFootnote(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ast, nil
}

func labelOf(identifier, label string) string {
	if label != "" {
		return label
	}
	return identifier
}

func (a *PostAST) addDefinition(def *mdast.Definition) error {
	raw := labelOf(def.Identifier, def.Label)
	id := mdast.NormalizeLabel(raw)
	if _, ok := a.definitions[id]; ok {
		return &DuplicateDefinitionError{Identifier: raw, Normalized: id}
	}
	a.definitions[id] = def
	return nil
}

func (a *PostAST) addFootnoteDefinition(def *mdast.FootnoteDefinition) error {
	raw := labelOf(def.Identifier, def.Label)
	id := mdast.NormalizeLabel(raw)
	if strings.HasPrefix(id, GeneratedPrefix) {
		return &ReservedFootnoteIdentifierError{Identifier: raw}
	}
	if _, ok := a.footnoteDefinitions[id]; ok {
		return &DuplicateFootnoteDefinitionError{Identifier: raw, Normalized: id}
	}
	a.footnoteDefinitions[id] = def
	return nil
}

func (a *PostAST) addInlineFootnote(footnote *mdast.Footnote) {
	id := GeneratedPrefix + strconv.Itoa(len(a.generated)+1)
	a.generated[footnote] = id
	a.footnoteDefinitions[id] = &mdast.FootnoteDefinition{
		Parent:     mdast.Parent{Children: []mdast.Node{mdast.NewParagraph(footnote.Children...)}},
		Identifier: id,
	}
}

// Definition returns the link or image definition for a label, or nil.
func (a *PostAST) Definition(label string) *mdast.Definition {
	return a.definitions[mdast.NormalizeLabel(label)]
}

// FootnoteDefinition returns the footnote definition for a label, or nil.
func (a *PostAST) FootnoteDefinition(label string) *mdast.FootnoteDefinition {
	return a.footnoteDefinitions[mdast.NormalizeLabel(label)]
}

// GeneratedFootnoteID returns the identifier assigned to an inline footnote.
func (a *PostAST) GeneratedFootnoteID(footnote *mdast.Footnote) (string, bool) {
	id, ok := a.generated[footnote]
	return id, ok
}

// Meta returns the post metadata, or the defaults when the post has none.
func (a *PostAST) Meta() metadata.PostMetadata {
	if a.Metadata == nil {
		return metadata.Default()
	}
	return *a.Metadata
}
