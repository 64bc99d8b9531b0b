package hast

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"adventune/skrivpost/escape"
)

// NoWriterForTypeError is returned for node types without a registered writer.
type NoWriterForTypeError struct {
	Type Type
}

func (e *NoWriterForTypeError) Error() string {
	return fmt.Sprintf("no hast writer for node type %q", e.Type)
}

// Elements without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// Elements whose text content must not be entity-escaped.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// Elements whose content is written without indentation.
var preformatted = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true, "title": true,
}

// Phrasing content keeps its container on a single line.
var phrasingElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "button": true, "cite": true,
	"code": true, "data": true, "del": true, "dfn": true, "em": true, "i": true,
	"img": true, "input": true, "ins": true, "kbd": true, "label": true,
	"mark": true, "q": true, "s": true, "samp": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "u": true, "var": true,
	"wbr": true,
}

type nodeWriter func(w *Writer, n Node, ctx *writeContext) error

type writeContext struct {
	out    *strings.Builder
	depth  int
	inline bool
	// Tag name of the nearest element ancestor.
	parent string
}

// Writer serializes hast trees into HTML.
type Writer struct {
	indent string

	once  sync.Once
	table map[Type]nodeWriter
}

// Option configures a Writer.
type Option func(*Writer)

// WithIndent sets the string repeated once per nesting level.
func WithIndent(indent string) Option {
	return func(w *Writer) {
		w.indent = indent
	}
}

// Compact disables indentation entirely.
func Compact() Option {
	return WithIndent("")
}

// NewWriter returns a Writer indenting with two spaces unless configured otherwise.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{indent: "  "}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) writerFor(t Type) (nodeWriter, error) {
	w.once.Do(func() {
		w.table = map[Type]nodeWriter{
			TypeRoot:    writeRoot,
			TypeDoctype: writeDoctype,
			TypeElement: writeElement,
			TypeText:    writeText,
			TypeComment: writeComment,
			TypeRaw:     writeRaw,
		}
	})
	fn, ok := w.table[t]
	if !ok {
		return nil, &NoWriterForTypeError{Type: t}
	}
	return fn, nil
}

// Write returns the HTML for n.
func (w *Writer) Write(n Node) (string, error) {
	var out strings.Builder
	ctx := &writeContext{out: &out, inline: w.indent == ""}
	if err := w.write(n, ctx); err != nil {
		return "", err
	}
	return out.String(), nil
}

// WriteTo writes the HTML for n into out.
func (w *Writer) WriteTo(out io.Writer, n Node) error {
	html, err := w.Write(n)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, html)
	return err
}

func (w *Writer) write(n Node, ctx *writeContext) error {
	fn, err := w.writerFor(n.Type())
	if err != nil {
		return err
	}
	return fn(w, n, ctx)
}

// writeChildren lays children out one per line when the container holds only
// block content, and back to back otherwise.
func (w *Writer) writeChildren(children []Node, ctx *writeContext, block bool) error {
	if !block {
		for _, child := range children {
			if err := w.write(child, ctx); err != nil {
				return err
			}
		}
		return nil
	}

	for i, child := range children {
		if i > 0 || ctx.depth > 0 {
			ctx.out.WriteString("\n")
		}
		ctx.out.WriteString(strings.Repeat(w.indent, ctx.depth))
		if err := w.write(child, ctx); err != nil {
			return err
		}
	}
	return nil
}

// isBlockContainer reports whether the children can be placed on their own lines.
func (w *Writer) isBlockContainer(children []Node, ctx *writeContext) bool {
	if ctx.inline || len(children) == 0 {
		return false
	}
	for _, child := range children {
		switch c := child.(type) {
		case *Text, *Raw:
			return false
		case *Element:
			if phrasingElements[c.TagName] {
				return false
			}
		}
	}
	return true
}

func writeRoot(w *Writer, n Node, ctx *writeContext) error {
	root, ok := n.(*Root)
	if !ok {
		return fmt.Errorf("hast writer: expected root, got %s", n.Type())
	}
	block := w.isBlockContainer(root.Children, ctx)
	if err := w.writeChildren(root.Children, ctx, block); err != nil {
		return err
	}
	if block {
		ctx.out.WriteString("\n")
	}
	return nil
}

func writeDoctype(_ *Writer, _ Node, ctx *writeContext) error {
	ctx.out.WriteString("<!doctype html>")
	return nil
}

func writeText(_ *Writer, n Node, ctx *writeContext) error {
	text, ok := n.(*Text)
	if !ok {
		return fmt.Errorf("hast writer: expected text, got %s", n.Type())
	}
	if rawTextElements[ctx.parent] {
		ctx.out.WriteString(text.Value)
		return nil
	}
	ctx.out.WriteString(escape.Escape(text.Value))
	return nil
}

func writeComment(_ *Writer, n Node, ctx *writeContext) error {
	comment, ok := n.(*Comment)
	if !ok {
		return fmt.Errorf("hast writer: expected comment, got %s", n.Type())
	}
	ctx.out.WriteString("<!--" + comment.Value + "-->")
	return nil
}

func writeRaw(_ *Writer, n Node, ctx *writeContext) error {
	raw, ok := n.(*Raw)
	if !ok {
		return fmt.Errorf("hast writer: expected raw, got %s", n.Type())
	}
	ctx.out.WriteString(raw.Value)
	return nil
}

func writeElement(w *Writer, n Node, ctx *writeContext) error {
	el, ok := n.(*Element)
	if !ok {
		return fmt.Errorf("hast writer: expected element, got %s", n.Type())
	}

	attrs, err := WriteAttributes(el.Properties)
	if err != nil {
		return fmt.Errorf("<%s>: %w", el.TagName, err)
	}
	ctx.out.WriteString("<" + el.TagName)
	if attrs != "" {
		ctx.out.WriteString(" " + attrs)
	}
	ctx.out.WriteString(">")

	if voidElements[el.TagName] {
		return nil
	}

	block := !preformatted[el.TagName] && w.isBlockContainer(el.Children, ctx)
	child := &writeContext{
		out:    ctx.out,
		depth:  ctx.depth + 1,
		inline: ctx.inline || !block,
		parent: el.TagName,
	}
	if err := w.writeChildren(el.Children, child, block); err != nil {
		return err
	}
	if block {
		ctx.out.WriteString("\n" + strings.Repeat(w.indent, ctx.depth))
	}
	ctx.out.WriteString("</" + el.TagName + ">")
	return nil
}
