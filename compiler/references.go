package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"adventune/skrivpost/hast"
	"adventune/skrivpost/mdast"
)

// referenceLabel is the label a reference is looked up by. The identifier is
// already normalized, the label keeps what the author wrote.
func referenceLabel(identifier, label string) string {
	if label != "" {
		return label
	}
	return identifier
}

func compileLinkReference(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	ref, err := mdast.As[*mdast.LinkReference](n)
	if err != nil {
		return nil, err
	}
	if def := ctx.AST.Definition(referenceLabel(ref.Identifier, ref.Label)); def != nil {
		return ctx.Compile(mdast.NewLink(def.URL, def.Title, ref.Children...))
	}

	log.Debug().Str("identifier", ref.Identifier).Msg("Link reference has no definition")
	text, err := ctx.CompileChildren(ref)
	if err != nil {
		return nil, err
	}
	return danglingReference("", ref.Identifier, ref.Label, ref.ReferenceType, text), nil
}

func compileImageReference(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	ref, err := mdast.As[*mdast.ImageReference](n)
	if err != nil {
		return nil, err
	}
	if def := ctx.AST.Definition(referenceLabel(ref.Identifier, ref.Label)); def != nil {
		return ctx.Compile(&mdast.Image{URL: def.URL, Alt: ref.Alt, Title: def.Title})
	}

	log.Debug().Str("identifier", ref.Identifier).Msg("Image reference has no definition")
	var text []hast.Node
	if ref.Alt != "" {
		text = []hast.Node{hast.NewText(ref.Alt)}
	}
	return danglingReference("!", ref.Identifier, ref.Label, ref.ReferenceType, text), nil
}

// danglingReference writes a reference without definition back as the
// Markdown it was written with: [id], [id][] or [text][id].
func danglingReference(prefix, identifier, label string, refType mdast.ReferenceType, text []hast.Node) []hast.Node {
	name := referenceLabel(identifier, label)
	display := text
	if len(display) == 0 {
		display = []hast.Node{hast.NewText(name)}
	}

	out := []hast.Node{hast.NewText(prefix + "[")}
	out = append(out, display...)
	switch refType {
	case mdast.ReferenceCollapsed:
		out = append(out, hast.NewText("][]"))
	case mdast.ReferenceFull:
		target := identifier
		if len(text) > 0 && label != "" {
			target = label
		}
		out = append(out, hast.NewText("]["+target+"]"))
	default:
		out = append(out, hast.NewText("]"))
	}
	return out
}

func compileFootnote(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	footnote, err := mdast.As[*mdast.Footnote](n)
	if err != nil {
		return nil, err
	}
	id, ok := ctx.AST.GeneratedFootnoteID(footnote)
	if !ok {
		return nil, fmt.Errorf("inline footnote %s was not indexed", mdast.Describe(footnote))
	}
	return ctx.Compile(&mdast.FootnoteReference{Identifier: id})
}

func compileFootnoteReference(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	ref, err := mdast.As[*mdast.FootnoteReference](n)
	if err != nil {
		return nil, err
	}
	label := referenceLabel(ref.Identifier, ref.Label)
	if ctx.AST.FootnoteDefinition(label) == nil {
		log.Debug().Str("label", label).Msg("Footnote reference has no definition")
		return []hast.Node{hast.NewText("[^" + label + "]")}, nil
	}

	id := footnoteID(label)
	number, ok := ctx.numbers[id]
	if !ok {
		ctx.footnotes = append(ctx.footnotes, label)
		number = len(ctx.footnotes)
		ctx.numbers[id] = number
	}
	ctx.refCount[id]++
	refID := "fn-ref-" + id
	if count := ctx.refCount[id]; count > 1 {
		refID += "-" + strconv.Itoa(count)
	}

	anchor := hast.H("a", hast.P("href", "#fn-"+id, "id", refID), hast.NewText(strconv.Itoa(number)))
	return []hast.Node{hast.H("sup", nil, anchor)}, nil
}

// footnoteID is the fragment identifier of a footnote.
func footnoteID(label string) string {
	return strings.ReplaceAll(mdast.NormalizeLabel(label), " ", "-")
}

// footnoteSection lists the referenced footnotes in the order they were first
// referenced. Definitions may reference further footnotes.
func (ctx *Context) footnoteSection() (hast.Node, error) {
	if len(ctx.footnotes) == 0 {
		return nil, nil
	}
	var items []hast.Node
	for i := 0; i < len(ctx.footnotes); i++ {
		label := ctx.footnotes[i]
		def := ctx.AST.FootnoteDefinition(label)
		children, err := ctx.CompileChildren(def)
		if err != nil {
			return nil, err
		}
		id := footnoteID(label)
		items = append(items, hast.H("li", hast.P("id", "fn-"+id), appendBackref(children, id)...))
	}
	return hast.H("section", hast.P("class", "footnotes"), hast.H("ol", nil, items...)), nil
}

func appendBackref(children []hast.Node, id string) []hast.Node {
	backref := hast.H("a", hast.P("href", "#fn-ref-"+id, "class", "footnote-backref"), hast.NewText("↩"))
	if len(children) > 0 {
		if last, ok := children[len(children)-1].(*hast.Element); ok && last.TagName == "p" {
			last.Children = append(last.Children, hast.NewText(" "), backref)
			return children
		}
	}
	return append(children, backref)
}
