// Package post runs the whole pipeline for one post: the HTML document and
// the canonical Markdown source committed back to the repository.
package post

import (
	"errors"
	"fmt"
	"path"

	"github.com/rs/zerolog/log"

	"adventune/skrivpost/compiler"
	"adventune/skrivpost/hast"
	"adventune/skrivpost/layout"
	"adventune/skrivpost/mdsource"
	"adventune/skrivpost/metadata"
	"adventune/skrivpost/postast"
)

const (
	// SourceDir holds the Markdown sources inside the repository.
	SourceDir = "posts"
	// IndexFile is the document written for each post.
	IndexFile = "index.html"
)

var ErrMissingSlug = errors.New("post has no slug")

// ErrInvalidSlug is returned for a slug that is not a single path segment.
var ErrInvalidSlug = errors.New("slug is not a single path segment")

func checkSlug(meta metadata.PostMetadata) error {
	if meta.Slug == "" {
		return ErrMissingSlug
	}
	if !metadata.ValidSlug(meta.Slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, meta.Slug)
	}
	return nil
}

// Rendered is a compiled HTML document.
type Rendered struct {
	HTML string
}

// Source is the canonical Markdown of a post and its path in the repository.
type Source struct {
	RelativePath string
	Content      string
}

// Compiler turns indexed posts into HTML documents.
type Compiler struct {
	nodes     *compiler.Compiler
	templates *layout.Registry
	writer    *hast.Writer
}

type Option func(*Compiler)

// WithNodeCompilers configures the mdast compiler.
func WithNodeCompilers(opts ...compiler.Option) Option {
	return func(c *Compiler) {
		c.nodes = compiler.New(opts...)
	}
}

// WithWriter replaces the HTML writer, which indents with two spaces by default.
func WithWriter(w *hast.Writer) Option {
	return func(c *Compiler) {
		c.writer = w
	}
}

func NewCompiler(templates *layout.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		nodes:     compiler.New(),
		templates: templates,
		writer:    hast.NewWriter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile renders the full HTML document of a post.
func (c *Compiler) Compile(ast *postast.PostAST) (*Rendered, error) {
	meta := ast.Meta()
	tmpl, err := c.templates.Lookup(meta.PostType)
	if err != nil {
		return nil, err
	}
	body, err := c.nodes.CompileBody(ast)
	if err != nil {
		return nil, fmt.Errorf("compile body: %w", err)
	}
	doc, err := tmpl.Render(meta, body)
	if err != nil {
		return nil, err
	}
	html, err := c.writer.Write(doc)
	if err != nil {
		return nil, fmt.Errorf("write html: %w", err)
	}

	log.Debug().Str("slug", meta.Slug).Int("bytes", len(html)).Msg("Compiled post")
	return &Rendered{HTML: html}, nil
}

// RenderSource returns the canonical Markdown of a post, to be stored at
// posts/{slug}.md.
func RenderSource(ast *postast.PostAST) (*Source, error) {
	meta := ast.Meta()
	if err := checkSlug(meta); err != nil {
		return nil, err
	}
	content, err := mdsource.Render(ast.Tree)
	if err != nil {
		return nil, fmt.Errorf("render source of %q: %w", meta.Slug, err)
	}
	return &Source{
		RelativePath: path.Join(SourceDir, meta.Slug+".md"),
		Content:      content,
	}, nil
}

// OutputPath is the path of the compiled document relative to the build directory.
func OutputPath(meta metadata.PostMetadata) (string, error) {
	if err := checkSlug(meta); err != nil {
		return "", err
	}
	return path.Join(meta.Slug, IndexFile), nil
}
