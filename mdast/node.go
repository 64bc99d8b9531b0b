// Package mdast is the Markdown abstract syntax tree of a post.
//
// Every variant is a pointer struct implementing Node. Nodes owning children
// embed Parent; a child belongs to exactly one parent.
package mdast

// Type identifies the variant of a Node.
type Type string

const (
	TypeRoot               Type = "root"
	TypeHeading            Type = "heading"
	TypeParagraph          Type = "paragraph"
	TypeText               Type = "text"
	TypeEmphasis           Type = "emphasis"
	TypeStrong             Type = "strong"
	TypeDelete             Type = "delete"
	TypeBlockquote         Type = "blockquote"
	TypeCode               Type = "code"
	TypeInlineCode         Type = "inlineCode"
	TypeBreak              Type = "break"
	TypeThematicBreak      Type = "thematicBreak"
	TypeList               Type = "list"
	TypeListItem           Type = "listItem"
	TypeTable              Type = "table"
	TypeTableRow           Type = "tableRow"
	TypeTableCell          Type = "tableCell"
	TypeLink               Type = "link"
	TypeLinkReference      Type = "linkReference"
	TypeImage              Type = "image"
	TypeImageReference     Type = "imageReference"
	TypeDefinition         Type = "definition"
	TypeFootnote           Type = "footnote"
	TypeFootnoteReference  Type = "footnoteReference"
	TypeFootnoteDefinition Type = "footnoteDefinition"
	TypeTOML               Type = "toml"
	TypeHTML               Type = "html"
)

// ReferenceType is the syntax a reference was written with.
type ReferenceType string

const (
	// [id]
	ReferenceShortcut ReferenceType = "shortcut"
	// [id][]
	ReferenceCollapsed ReferenceType = "collapsed"
	// [text][id]
	ReferenceFull ReferenceType = "full"
)

// Align is the alignment of a table column.
type Align string

const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// Node is any Markdown-AST node.
type Node interface {
	Type() Type
}

// ParentNode is a node owning an ordered list of children.
type ParentNode interface {
	Node
	ChildNodes() []Node
	SetChildNodes(children []Node)
}

// Parent is embedded by every node type owning children.
type Parent struct {
	Children []Node `json:"children,omitempty"`
}

func (p *Parent) ChildNodes() []Node {
	return p.Children
}

func (p *Parent) SetChildNodes(children []Node) {
	p.Children = children
}

type Root struct {
	Parent
}

type Heading struct {
	Parent
	Depth int `json:"depth"`
}

type Paragraph struct {
	Parent
}

type Text struct {
	Value string `json:"value"`
}

type Emphasis struct {
	Parent
}

type Strong struct {
	Parent
}

type Delete struct {
	Parent
}

type Blockquote struct {
	Parent
}

// Code is a fenced or indented code block.
type Code struct {
	Value string `json:"value"`
	Lang  string `json:"lang,omitempty"`
	Meta  string `json:"meta,omitempty"`
}

type InlineCode struct {
	Value string `json:"value"`
}

type Break struct{}

type ThematicBreak struct{}

// List is a bullet or ordered list. Start is the number of the first item of
// an ordered list; nil means 1.
type List struct {
	Parent
	Ordered bool `json:"ordered"`
	Start   *int `json:"start,omitempty"`
	Spread  bool `json:"spread"`
}

// StartNumber returns the number of the first item.
func (l *List) StartNumber() int {
	if l.Start == nil {
		return 1
	}
	return *l.Start
}

// ListItem is an item of a List. Checked is nil for items that are not tasks.
type ListItem struct {
	Parent
	Checked *bool `json:"checked,omitempty"`
	Spread  bool  `json:"spread"`
}

type Table struct {
	Parent
	Align []Align `json:"align,omitempty"`
}

type TableRow struct {
	Parent
}

type TableCell struct {
	Parent
}

type Link struct {
	Parent
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// LinkReference is a link to a Definition. Identifier is normalized, Label
// keeps the text as written.
type LinkReference struct {
	Parent
	Identifier    string        `json:"identifier"`
	Label         string        `json:"label,omitempty"`
	ReferenceType ReferenceType `json:"referenceType"`
}

type Image struct {
	URL   string `json:"url"`
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
}

type ImageReference struct {
	Identifier    string        `json:"identifier"`
	Label         string        `json:"label,omitempty"`
	ReferenceType ReferenceType `json:"referenceType"`
	Alt           string        `json:"alt,omitempty"`
}

type Definition struct {
	Identifier string `json:"identifier"`
	Label      string `json:"label,omitempty"`
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
}

// Footnote is an inline footnote (^[text]).
type Footnote struct {
	Parent
}

type FootnoteReference struct {
	Identifier string `json:"identifier"`
	Label      string `json:"label,omitempty"`
}

type FootnoteDefinition struct {
	Parent
	Identifier string `json:"identifier"`
	Label      string `json:"label,omitempty"`
}

// TOML is the frontmatter block, without its delimiters.
type TOML struct {
	Value string `json:"value"`
}

// HTML is raw HTML found in the Markdown source.
type HTML struct {
	Value string `json:"value"`
}

func (*Root) Type() Type               { return TypeRoot }
func (*Heading) Type() Type            { return TypeHeading }
func (*Paragraph) Type() Type          { return TypeParagraph }
func (*Text) Type() Type               { return TypeText }
func (*Emphasis) Type() Type           { return TypeEmphasis }
func (*Strong) Type() Type             { return TypeStrong }
func (*Delete) Type() Type             { return TypeDelete }
func (*Blockquote) Type() Type         { return TypeBlockquote }
func (*Code) Type() Type               { return TypeCode }
func (*InlineCode) Type() Type         { return TypeInlineCode }
func (*Break) Type() Type              { return TypeBreak }
func (*ThematicBreak) Type() Type      { return TypeThematicBreak }
func (*List) Type() Type               { return TypeList }
func (*ListItem) Type() Type           { return TypeListItem }
func (*Table) Type() Type              { return TypeTable }
func (*TableRow) Type() Type           { return TypeTableRow }
func (*TableCell) Type() Type          { return TypeTableCell }
func (*Link) Type() Type               { return TypeLink }
func (*LinkReference) Type() Type      { return TypeLinkReference }
func (*Image) Type() Type              { return TypeImage }
func (*ImageReference) Type() Type     { return TypeImageReference }
func (*Definition) Type() Type         { return TypeDefinition }
func (*Footnote) Type() Type           { return TypeFootnote }
func (*FootnoteReference) Type() Type  { return TypeFootnoteReference }
func (*FootnoteDefinition) Type() Type { return TypeFootnoteDefinition }
func (*TOML) Type() Type               { return TypeTOML }
func (*HTML) Type() Type               { return TypeHTML }
