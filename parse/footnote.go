package parse

import (
	"bytes"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Footnotes is a goldmark extension parsing footnote definitions ([^id]: text),
// footnote references ([^id]) and inline footnotes (^[text]). Definitions stay
// where they were written and references are kept even when nothing defines
// them; resolution happens later, on the mdast tree.
var Footnotes goldmark.Extender = &footnotes{}

type footnotes struct{}

func (e *footnotes) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&footnoteDefinitionParser{}, 999),
		),
		parser.WithInlineParsers(
			util.Prioritized(&footnoteReferenceParser{}, 101),
			util.Prioritized(&inlineFootnoteParser{}, 102),
		),
	)
}

var (
	kindFootnoteDefinition = gast.NewNodeKind("PostFootnoteDefinition")
	kindFootnoteReference  = gast.NewNodeKind("PostFootnoteReference")
	kindInlineFootnote     = gast.NewNodeKind("PostInlineFootnote")
)

type footnoteDefinition struct {
	gast.BaseBlock
	Label string
}

func (n *footnoteDefinition) Kind() gast.NodeKind {
	return kindFootnoteDefinition
}

func (n *footnoteDefinition) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Label": n.Label}, nil)
}

type footnoteReference struct {
	gast.BaseInline
	Label string
}

func (n *footnoteReference) Kind() gast.NodeKind {
	return kindFootnoteReference
}

func (n *footnoteReference) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Label": n.Label}, nil)
}

// inlineFootnote keeps the raw Markdown of its content. It is parsed on its
// own when converted.
type inlineFootnote struct {
	gast.BaseInline
	Content string
}

func (n *inlineFootnote) Kind() gast.NodeKind {
	return kindInlineFootnote
}

func (n *inlineFootnote) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Content": n.Content}, nil)
}

type footnoteDefinitionParser struct{}

func (p *footnoteDefinitionParser) Trigger() []byte {
	return []byte{'['}
}

func (p *footnoteDefinitionParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos+1 >= len(line) || line[pos] != '[' || line[pos+1] != '^' {
		return nil, parser.NoChildren
	}
	open := pos + 2
	closing := bytes.IndexByte(line[open:], ']')
	if closing < 0 {
		return nil, parser.NoChildren
	}
	closing += open
	if closing+1 >= len(line) || line[closing+1] != ':' {
		return nil, parser.NoChildren
	}
	label := line[open:closing]
	if util.IsBlank(label) || bytes.IndexByte(label, '[') >= 0 {
		return nil, parser.NoChildren
	}
	node := &footnoteDefinition{Label: string(label)}

	padding := segment.Padding
	pos = closing + 2 - padding
	if pos >= len(line) {
		reader.Advance(pos)
		return node, parser.NoChildren
	}
	reader.AdvanceAndSetPadding(pos, padding)
	return node, parser.HasChildren
}

// Continue accepts blank lines and lines indented by four spaces.
func (p *footnoteDefinitionParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, _ := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Continue | parser.HasChildren
	}
	pos, padding := util.IndentPosition(line, reader.LineOffset(), 4)
	if pos < 0 {
		return parser.Close
	}
	reader.AdvanceAndSetPadding(pos, padding)
	return parser.Continue | parser.HasChildren
}

func (p *footnoteDefinitionParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {}

func (p *footnoteDefinitionParser) CanInterruptParagraph() bool {
	return true
}

func (p *footnoteDefinitionParser) CanAcceptIndentedLine() bool {
	return false
}

type footnoteReferenceParser struct{}

func (p *footnoteReferenceParser) Trigger() []byte {
	return []byte{'['}
}

func (p *footnoteReferenceParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	if len(line) < 4 || line[0] != '[' || line[1] != '^' {
		return nil
	}
	closing := bytes.IndexByte(line[2:], ']')
	if closing < 1 {
		return nil
	}
	label := line[2 : 2+closing]
	if util.IsBlank(label) || bytes.IndexByte(label, '[') >= 0 {
		return nil
	}
	block.Advance(2 + closing + 1)
	return &footnoteReference{Label: string(label)}
}

type inlineFootnoteParser struct{}

func (p *inlineFootnoteParser) Trigger() []byte {
	return []byte{'^'}
}

func (p *inlineFootnoteParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	if len(line) < 3 || line[1] != '[' {
		return nil
	}
	end := matchingBracket(line, 1)
	if end < 3 {
		return nil
	}
	content := string(line[2:end])
	block.Advance(end + 1)
	return &inlineFootnote{Content: content}
}

// matchingBracket returns the index of the bracket closing line[open], or -1.
func matchingBracket(line []byte, open int) int {
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			return -1
		}
	}
	return -1
}
