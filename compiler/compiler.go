// Package compiler turns the Markdown tree of a post into an HTML tree.
package compiler

import (
	"errors"
	"fmt"
	"sync"

	"adventune/skrivpost/hast"
	"adventune/skrivpost/mdast"
	"adventune/skrivpost/postast"
)

// NoCompilerForTypeError reports a node type missing from the dispatch table.
type NoCompilerForTypeError struct {
	Type mdast.Type
}

func (e *NoCompilerForTypeError) Error() string {
	return fmt.Sprintf("no compiler for node type %q", e.Type)
}

// NodeCompiler compiles one node. It may return any number of HTML nodes.
type NodeCompiler func(ctx *Context, n mdast.Node) ([]hast.Node, error)

// Compiler dispatches nodes to their NodeCompiler. The dispatch table is built
// on first use; a Compiler may be shared between goroutines.
type Compiler struct {
	once      sync.Once
	table     map[mdast.Type]NodeCompiler
	overrides map[mdast.Type]NodeCompiler
}

type Option func(*Compiler)

// WithNodeCompiler registers fn for type t, replacing the built-in compiler.
func WithNodeCompiler(t mdast.Type, fn NodeCompiler) Option {
	return func(c *Compiler) {
		if c.overrides == nil {
			c.overrides = map[mdast.Type]NodeCompiler{}
		}
		c.overrides[t] = fn
	}
}

func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compiler) compilerFor(t mdast.Type) (NodeCompiler, error) {
	c.once.Do(func() {
		c.table = map[mdast.Type]NodeCompiler{
			mdast.TypeRoot:               compileRoot,
			mdast.TypeHeading:            compileHeading,
			mdast.TypeParagraph:          compileParagraph,
			mdast.TypeText:               compileText,
			mdast.TypeEmphasis:           compileEmphasis,
			mdast.TypeStrong:             compileStrong,
			mdast.TypeDelete:             compileDelete,
			mdast.TypeBlockquote:         compileBlockquote,
			mdast.TypeCode:               compileCode,
			mdast.TypeInlineCode:         compileInlineCode,
			mdast.TypeBreak:              compileBreak,
			mdast.TypeThematicBreak:      compileThematicBreak,
			mdast.TypeList:               compileList,
			mdast.TypeListItem:           compileListItem,
			mdast.TypeTable:              compileTable,
			mdast.TypeTableRow:           compileTableRow,
			mdast.TypeTableCell:          compileTableCell,
			mdast.TypeLink:               compileLink,
			mdast.TypeLinkReference:      compileLinkReference,
			mdast.TypeImage:              compileImage,
			mdast.TypeImageReference:     compileImageReference,
			mdast.TypeDefinition:         compileNothing,
			mdast.TypeFootnote:           compileFootnote,
			mdast.TypeFootnoteReference:  compileFootnoteReference,
			mdast.TypeFootnoteDefinition: compileNothing,
			mdast.TypeTOML:               compileNothing,
			mdast.TypeHTML:               compileHTML,
		}
		for t, fn := range c.overrides {
			c.table[t] = fn
		}
	})
	fn, ok := c.table[t]
	if !ok {
		return nil, &NoCompilerForTypeError{Type: t}
	}
	return fn, nil
}

// Compile compiles n and its descendants. Compiling a root yields a single
// body element.
func (c *Compiler) Compile(n mdast.Node, ast *postast.PostAST) ([]hast.Node, error) {
	return c.newContext(ast).Compile(n)
}

// CompileBody compiles the root of ast into its body element.
func (c *Compiler) CompileBody(ast *postast.PostAST) (*hast.Element, error) {
	nodes, err := c.Compile(ast.Tree, ast)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 || !hast.IsElement(nodes[0], "body") {
		return nil, fmt.Errorf("root compiled to %d nodes, expected a body element", len(nodes))
	}
	return nodes[0].(*hast.Element), nil
}

func (c *Compiler) newContext(ast *postast.PostAST) *Context {
	return &Context{
		AST:      ast,
		compiler: c,
		numbers:  map[string]int{},
		refCount: map[string]int{},
	}
}

// Context is the state of one compilation. Node compilers use it to recurse
// into children and to resolve definitions.
type Context struct {
	AST *postast.PostAST

	compiler *Compiler
	// footnotes in first-reference order
	footnotes []string
	numbers   map[string]int
	refCount  map[string]int
}

// Compile dispatches n to its NodeCompiler.
func (ctx *Context) Compile(n mdast.Node) ([]hast.Node, error) {
	if n == nil {
		return nil, errors.New("cannot compile a nil node")
	}
	fn, err := ctx.compiler.compilerFor(n.Type())
	if err != nil {
		return nil, err
	}
	return fn(ctx, n)
}

// CompileChildren compiles every child of n and concatenates the results.
func (ctx *Context) CompileChildren(n mdast.Node) ([]hast.Node, error) {
	return ctx.compileAll(mdast.Children(n))
}

func (ctx *Context) compileAll(nodes []mdast.Node) ([]hast.Node, error) {
	var out []hast.Node
	for _, child := range nodes {
		compiled, err := ctx.Compile(child)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled...)
	}
	return out, nil
}
