package mdast

import (
	"strings"

	"golang.org/x/text/cases"
)

// VisitFunc is called for every node during Visit.
type VisitFunc func(n Node) error

// Visit walks the tree in pre-order and stops at the first error.
func Visit(n Node, fn VisitFunc) error {
	if err := fn(n); err != nil {
		return err
	}
	parent, ok := n.(ParentNode)
	if !ok {
		return nil
	}
	for _, child := range parent.ChildNodes() {
		if err := Visit(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Children returns the children of n, or nil for leaves.
func Children(n Node) []Node {
	if parent, ok := n.(ParentNode); ok {
		return parent.ChildNodes()
	}
	return nil
}

// PlainText concatenates the textual content of n.
func PlainText(n Node) string {
	var sb strings.Builder
	_ = Visit(n, func(n Node) error {
		switch v := n.(type) {
		case *Text:
			sb.WriteString(v.Value)
		case *InlineCode:
			sb.WriteString(v.Value)
		case *Image:
			sb.WriteString(v.Alt)
		case *ImageReference:
			sb.WriteString(v.Alt)
		case *Break:
			sb.WriteString(" ")
		}
		return nil
	})
	return sb.String()
}

// NormalizeLabel normalizes a reference label following CommonMark: case
// folded, trimmed, and with whitespace runs collapsed to one space.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(cases.Fold().String(label)), " ")
}
