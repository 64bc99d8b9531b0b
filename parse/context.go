package parse

import (
	"github.com/yuin/goldmark/parser"
)

// referenceMarker prefixes the destination of links resolved through a
// definition, so the converter can emit a reference node instead of a plain
// link. It is a private-use rune and never appears in a real destination.
const referenceMarker = "\ue000"

// referenceContext records every link reference definition goldmark sees and
// marks the links it resolves through them.
type referenceContext struct {
	parser.Context
	inherited []parser.Reference
	recorded  []parser.Reference
}

// newReferenceContext returns a context that already knows the definitions
// of an enclosing document. Inherited definitions resolve links but are not
// recorded again.
func newReferenceContext(inherited []parser.Reference) *referenceContext {
	ctx := &referenceContext{Context: parser.NewContext(), inherited: inherited}
	for _, ref := range inherited {
		ctx.Context.AddReference(ref)
	}
	return ctx
}

func (c *referenceContext) AddReference(ref parser.Reference) {
	c.recorded = append(c.recorded, ref)
	c.Context.AddReference(ref)
}

func (c *referenceContext) Reference(label string) (parser.Reference, bool) {
	ref, ok := c.Context.Reference(label)
	if !ok {
		return nil, false
	}
	return parser.NewReference(ref.Label(), []byte(referenceMarker+label), ref.Title()), true
}

// references returns the definitions visible to this document.
func (c *referenceContext) references() []parser.Reference {
	all := make([]parser.Reference, 0, len(c.inherited)+len(c.recorded))
	all = append(all, c.inherited...)
	return append(all, c.recorded...)
}
