// Package hast is the HTML abstract syntax tree: node types, the attribute
// writer and the serializer turning a tree into HTML text.
package hast

// Type identifies the variant of a Node.
type Type string

const (
	TypeRoot    Type = "root"
	TypeDoctype Type = "doctype"
	TypeElement Type = "element"
	TypeText    Type = "text"
	TypeComment Type = "comment"
	TypeRaw     Type = "raw"
)

// Node is any HTML-AST node.
type Node interface {
	Type() Type
}

// Root is the top of a document or fragment.
type Root struct {
	Children []Node `json:"children,omitempty"`
}

// Doctype renders as the HTML5 doctype line.
type Doctype struct{}

// Element is an HTML element with ordered properties.
type Element struct {
	TagName    string     `json:"tagName"`
	Properties Properties `json:"properties,omitempty"`
	Children   []Node     `json:"children,omitempty"`
}

// Text is character data, escaped on output.
type Text struct {
	Value string `json:"value"`
}

// Comment is an HTML comment.
type Comment struct {
	Value string `json:"value"`
}

// Raw is trusted, pre-built HTML written verbatim.
type Raw struct {
	Value string `json:"value"`
}

func (*Root) Type() Type    { return TypeRoot }
func (*Doctype) Type() Type { return TypeDoctype }
func (*Element) Type() Type { return TypeElement }
func (*Text) Type() Type    { return TypeText }
func (*Comment) Type() Type { return TypeComment }
func (*Raw) Type() Type     { return TypeRaw }

// H builds an element, hastscript style.
func H(tagName string, props Properties, children ...Node) *Element {
	return &Element{TagName: tagName, Properties: props, Children: children}
}

func NewRoot(children ...Node) *Root {
	return &Root{Children: children}
}

func NewText(value string) *Text {
	return &Text{Value: value}
}

func NewRaw(value string) *Raw {
	return &Raw{Value: value}
}

func NewComment(value string) *Comment {
	return &Comment{Value: value}
}

// IsElement reports whether n is an element with one of the given tag names
// (any tag name when none is given).
func IsElement(n Node, tagNames ...string) bool {
	el, ok := n.(*Element)
	if !ok {
		return false
	}
	if len(tagNames) == 0 {
		return true
	}
	for _, name := range tagNames {
		if el.TagName == name {
			return true
		}
	}
	return false
}

// TextContent concatenates the text descendants of n.
func TextContent(n Node) string {
	switch v := n.(type) {
	case *Text:
		return v.Value
	case *Element:
		return childText(v.Children)
	case *Root:
		return childText(v.Children)
	}
	return ""
}

func childText(children []Node) string {
	var s string
	for _, child := range children {
		s += TextContent(child)
	}
	return s
}

// Find returns the first element of the tree, in document order, with the
// given tag name.
func Find(n Node, tagName string) *Element {
	var children []Node
	switch v := n.(type) {
	case *Element:
		if v.TagName == tagName {
			return v
		}
		children = v.Children
	case *Root:
		children = v.Children
	}
	for _, child := range children {
		if found := Find(child, tagName); found != nil {
			return found
		}
	}
	return nil
}
