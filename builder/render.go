package builder

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"adventune/skrivpost/mempost"
	"adventune/skrivpost/metadata"
	"adventune/skrivpost/parse"
	"adventune/skrivpost/post"
	"adventune/skrivpost/postast"
	"adventune/skrivpost/textpack"
)

// output is everything built from one content file.
type output struct {
	// dir is relative to the build directory
	dir    string
	files  *mempost.Post
	source *post.Source
}

// render compiles the content file at path. It returns nil for drafts when
// drafts are not built.
func (b *Builder) render(path string) (*output, error) {
	text, assets, err := ReadContent(path)
	if err != nil {
		return nil, err
	}

	tree, err := parse.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	ast, err := postast.FromMarkdownTree(tree)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	meta := ast.Meta()
	if meta.IsDraft() && !b.opts.Drafts {
		return nil, nil
	}

	rendered, err := b.compiler.Compile(ast)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}

	dir, err := b.getBuildPath(path, meta)
	if err != nil {
		return nil, err
	}
	files := mempost.New()
	if err := files.Add(post.IndexFile, []byte(rendered.HTML)); err != nil {
		return nil, err
	}
	for _, asset := range assets {
		if err := files.Add(asset.Path, asset.Contents); err != nil {
			return nil, fmt.Errorf("asset of %s: %w", path, err)
		}
	}

	out := &output{dir: dir, files: files}
	if meta.Slug != "" {
		if out.source, err = post.RenderSource(ast); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadContent returns the Markdown of a content file and, for TextPack
// archives, its assets.
func ReadContent(path string) ([]byte, []textpack.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if filepath.Ext(path) != textpack.Ext {
		return data, nil, nil
	}

	pack, err := textpack.Read(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	text, err := pack.MainText()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return text, pack.Assets(), nil
}

// Get the folder where the content file should be built, relative to the
// build directory. index.md at the root of the content directory is built
// into the build directory itself; every other post goes to its slug.
func (b *Builder) getBuildPath(file string, meta metadata.PostMetadata) (string, error) {
	relPath, err := relativePath(b.opts.ContentDir, file)
	if err != nil {
		return "", err
	}
	if relPath == "index.md" {
		return "", nil
	}
	if meta.Slug != "" {
		out, err := post.OutputPath(meta)
		if err != nil {
			return "", err
		}
		return filepath.FromSlash(path.Dir(out)), nil
	}

	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	fallback := slug.Make(base)
	if fallback == "" {
		return "", fmt.Errorf("cannot derive a slug for %s", file)
	}
	return fallback, nil
}
