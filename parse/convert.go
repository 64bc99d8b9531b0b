package parse

import (
	"bytes"
	"fmt"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"adventune/skrivpost/mdast"
)

// UnsupportedSyntaxError reports a goldmark node with no mdast counterpart.
type UnsupportedSyntaxError struct {
	Kind string
}

func (e *UnsupportedSyntaxError) Error() string {
	return fmt.Sprintf("unsupported markdown syntax %q", e.Kind)
}

// converter turns a goldmark document into an mdast tree.
type converter struct {
	parser *Parser
	source []byte
	ctx    *referenceContext
}

func (c *converter) root(doc gast.Node) (*mdast.Root, error) {
	children, err := c.blocks(doc)
	if err != nil {
		return nil, err
	}
	for _, ref := range c.ctx.recorded {
		children = append(children, mdast.NewDefinition(
			string(ref.Label()),
			string(unescape(ref.Destination())),
			string(unescape(ref.Title())),
		))
	}
	return mdast.NewRoot(children...), nil
}

func (c *converter) blocks(parent gast.Node) ([]mdast.Node, error) {
	var out []mdast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		node, err := c.block(n)
		if err != nil {
			return nil, err
		}
		if node != nil {
			out = append(out, node)
		}
	}
	return out, nil
}

func (c *converter) block(n gast.Node) (mdast.Node, error) {
	switch v := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		children, err := c.inlines(n)
		if err != nil {
			return nil, err
		}
		// A paragraph made only of link reference definitions is left empty.
		if len(children) == 0 {
			return nil, nil
		}
		return mdast.NewParagraph(children...), nil
	case *gast.Heading:
		children, err := c.inlines(n)
		if err != nil {
			return nil, err
		}
		return mdast.NewHeading(v.Level, children...), nil
	case *gast.ThematicBreak:
		return &mdast.ThematicBreak{}, nil
	case *gast.CodeBlock:
		return &mdast.Code{Value: c.lines(v.Lines())}, nil
	case *gast.FencedCodeBlock:
		code := &mdast.Code{Value: c.lines(v.Lines())}
		if v.Info != nil {
			info := strings.TrimSpace(string(v.Info.Segment.Value(c.source)))
			lang, meta, _ := strings.Cut(info, " ")
			code.Lang = string(unescape([]byte(lang)))
			code.Meta = strings.TrimSpace(meta)
		}
		return code, nil
	case *gast.Blockquote:
		children, err := c.blocks(n)
		if err != nil {
			return nil, err
		}
		quote := &mdast.Blockquote{}
		quote.Children = children
		return quote, nil
	case *gast.List:
		return c.list(v)
	case *gast.HTMLBlock:
		value := c.lines(v.Lines())
		if v.HasClosure() {
			value = strings.TrimSuffix(value+"\n"+string(v.ClosureLine.Value(c.source)), "\n")
		}
		return &mdast.HTML{Value: strings.TrimPrefix(value, "\n")}, nil
	case *east.Table:
		return c.table(v)
	case *footnoteDefinition:
		children, err := c.blocks(n)
		if err != nil {
			return nil, err
		}
		return mdast.NewFootnoteDefinition(v.Label, children...), nil
	}
	return nil, &UnsupportedSyntaxError{Kind: n.Kind().String()}
}

func (c *converter) lines(lines *text.Segments) string {
	var b bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(c.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (c *converter) list(l *gast.List) (*mdast.List, error) {
	list := mdast.NewList(l.IsOrdered(), !l.IsTight)
	if l.IsOrdered() {
		start := l.Start
		list.Start = &start
	}
	for n := l.FirstChild(); n != nil; n = n.NextSibling() {
		item := mdast.NewListItem(!l.IsTight)
		if first := n.FirstChild(); first != nil {
			if box, ok := first.FirstChild().(*east.TaskCheckBox); ok {
				checked := box.IsChecked
				item.Checked = &checked
				first.RemoveChild(first, box)
			}
		}
		children, err := c.blocks(n)
		if err != nil {
			return nil, err
		}
		item.Children = children
		list.Children = append(list.Children, item)
	}
	return list, nil
}

func (c *converter) table(t *east.Table) (*mdast.Table, error) {
	table := &mdast.Table{}
	for _, a := range t.Alignments {
		table.Align = append(table.Align, alignment(a))
	}
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		r := mdast.NewTableRow()
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			children, err := c.inlines(cell)
			if err != nil {
				return nil, err
			}
			r.Children = append(r.Children, mdast.NewTableCell(children...))
		}
		table.Children = append(table.Children, r)
	}
	return mdast.As[*mdast.Table](table)
}

func alignment(a east.Alignment) mdast.Align {
	switch a {
	case east.AlignLeft:
		return mdast.AlignLeft
	case east.AlignRight:
		return mdast.AlignRight
	case east.AlignCenter:
		return mdast.AlignCenter
	}
	return mdast.AlignNone
}

func (c *converter) inlines(parent gast.Node) ([]mdast.Node, error) {
	var out []mdast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		nodes, err := c.inline(n)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			out = appendInline(out, node)
		}
	}
	return out, nil
}

// appendInline merges adjacent text nodes.
func appendInline(nodes []mdast.Node, n mdast.Node) []mdast.Node {
	if txt, ok := n.(*mdast.Text); ok && len(nodes) > 0 {
		if last, ok := nodes[len(nodes)-1].(*mdast.Text); ok {
			last.Value += txt.Value
			return nodes
		}
	}
	return append(nodes, n)
}

func (c *converter) inline(n gast.Node) ([]mdast.Node, error) {
	wrap := func(build func(children []mdast.Node) mdast.Node) ([]mdast.Node, error) {
		children, err := c.inlines(n)
		if err != nil {
			return nil, err
		}
		return []mdast.Node{build(children)}, nil
	}

	switch v := n.(type) {
	case *gast.Text:
		var nodes []mdast.Node
		if value := c.text(v); value != "" {
			nodes = append(nodes, mdast.NewText(value))
		}
		if v.HardLineBreak() {
			nodes = append(nodes, &mdast.Break{})
		} else if v.SoftLineBreak() {
			nodes = append(nodes, mdast.NewText("\n"))
		}
		return nodes, nil
	case *gast.String:
		return []mdast.Node{mdast.NewText(string(v.Value))}, nil
	case *gast.CodeSpan:
		var b bytes.Buffer
		for child := v.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*gast.Text); ok {
				b.Write(t.Segment.Value(c.source))
			}
		}
		return []mdast.Node{&mdast.InlineCode{Value: strings.ReplaceAll(b.String(), "\n", " ")}}, nil
	case *gast.Emphasis:
		return wrap(func(children []mdast.Node) mdast.Node {
			if v.Level >= 2 {
				return mdast.NewStrong(children...)
			}
			return mdast.NewEmphasis(children...)
		})
	case *east.Strikethrough:
		return wrap(func(children []mdast.Node) mdast.Node {
			del := &mdast.Delete{}
			del.Children = children
			return del
		})
	case *gast.Link:
		return c.link(v)
	case *gast.Image:
		return c.image(v)
	case *gast.AutoLink:
		url := string(v.URL(c.source))
		if v.AutoLinkType == gast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return []mdast.Node{mdast.NewLink(url, "", mdast.NewText(string(v.Label(c.source))))}, nil
	case *gast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			segment := v.Segments.At(i)
			b.Write(segment.Value(c.source))
		}
		return []mdast.Node{&mdast.HTML{Value: b.String()}}, nil
	case *east.TaskCheckBox:
		return nil, nil
	case *footnoteReference:
		return []mdast.Node{mdast.NewFootnoteReference(v.Label)}, nil
	case *inlineFootnote:
		return c.inlineFootnote(v)
	}
	return nil, &UnsupportedSyntaxError{Kind: n.Kind().String()}
}

func (c *converter) text(t *gast.Text) string {
	value := t.Segment.Value(c.source)
	if t.IsRaw() {
		return string(value)
	}
	return string(unescape(value))
}

func (c *converter) link(l *gast.Link) ([]mdast.Node, error) {
	children, err := c.inlines(l)
	if err != nil {
		return nil, err
	}
	if label, ok := strings.CutPrefix(string(l.Destination), referenceMarker); ok {
		refType, raw := referenceStyle(c.source, lastStop(l))
		ref := mdast.NewLinkReference(label, refType, children...)
		ref.Label = raw
		return []mdast.Node{ref}, nil
	}
	return []mdast.Node{mdast.NewLink(string(unescape(l.Destination)), string(unescape(l.Title)), children...)}, nil
}

func (c *converter) image(img *gast.Image) ([]mdast.Node, error) {
	children, err := c.inlines(img)
	if err != nil {
		return nil, err
	}
	alt := mdast.PlainText(mdast.NewParagraph(children...))
	if label, ok := strings.CutPrefix(string(img.Destination), referenceMarker); ok {
		refType, raw := referenceStyle(c.source, lastStop(img))
		ref := mdast.NewImageReference(label, refType, alt)
		ref.Label = raw
		return []mdast.Node{ref}, nil
	}
	return []mdast.Node{&mdast.Image{
		URL:   string(unescape(img.Destination)),
		Alt:   alt,
		Title: string(unescape(img.Title)),
	}}, nil
}

// inlineFootnote parses the content of ^[...] as its own document, sharing
// the link definitions of the enclosing post.
func (c *converter) inlineFootnote(f *inlineFootnote) ([]mdast.Node, error) {
	root, err := c.parser.parseBody([]byte(f.Content), newReferenceContext(c.ctx.references()))
	if err != nil {
		return nil, fmt.Errorf("inline footnote: %w", err)
	}
	var children []mdast.Node
	for _, child := range root.Children {
		if p, ok := child.(*mdast.Paragraph); ok {
			children = append(children, p.Children...)
		}
	}
	return []mdast.Node{mdast.NewFootnote(children...)}, nil
}

// lastStop returns the source offset just past the last text of n, or -1.
func lastStop(n gast.Node) int {
	stop := -1
	_ = gast.Walk(n, func(child gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch v := child.(type) {
		case *gast.Text:
			stop = v.Segment.Stop
		case *gast.RawHTML:
			if v.Segments.Len() > 0 {
				stop = v.Segments.At(v.Segments.Len() - 1).Stop
			}
		}
		return gast.WalkContinue, nil
	})
	return stop
}

// referenceStyle reads the brackets following the link text that ends at
// stop. For full references it also returns the label as written.
func referenceStyle(source []byte, stop int) (mdast.ReferenceType, string) {
	if stop < 0 || stop > len(source) {
		return mdast.ReferenceFull, ""
	}
	closing := indexUnescaped(source[stop:], ']')
	if closing < 0 {
		return mdast.ReferenceShortcut, ""
	}
	rest := source[stop+closing+1:]
	if len(rest) == 0 || rest[0] != '[' {
		return mdast.ReferenceShortcut, ""
	}
	end := indexUnescaped(rest[1:], ']')
	if end < 0 {
		return mdast.ReferenceShortcut, ""
	}
	label := rest[1 : 1+end]
	if util.IsBlank(label) {
		return mdast.ReferenceCollapsed, ""
	}
	return mdast.ReferenceFull, string(label)
}

func indexUnescaped(b []byte, c byte) int {
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case c:
			return i
		}
	}
	return -1
}

// unescape resolves entities and backslash escapes the way goldmark does
// when it renders text.
func unescape(b []byte) []byte {
	if len(b) == 0 {
		return b
	}
	return util.UnescapePunctuations(util.ResolveEntityNames(util.ResolveNumericReferences(b)))
}
