// Package mempost holds the output files of one post in memory until they are
// committed to disk.
package mempost

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type File struct {
	// Name is a slash separated path relative to the post directory.
	Name     string
	Contents []byte
}

// Post is an ordered set of named files. Adding a name twice replaces the
// contents and keeps the original position.
type Post struct {
	files []File
	index map[string]int
}

func New() *Post {
	return &Post{index: make(map[string]int)}
}

func (p *Post) Add(name string, contents []byte) error {
	name = path.Clean(name)
	if path.IsAbs(name) || name == "." || name == ".." || strings.HasPrefix(name, "../") {
		return fmt.Errorf("invalid post file name %q", name)
	}
	if i, ok := p.index[name]; ok {
		p.files[i].Contents = contents
		return nil
	}
	p.index[name] = len(p.files)
	p.files = append(p.files, File{Name: name, Contents: contents})
	return nil
}

func (p *Post) Get(name string) ([]byte, bool) {
	i, ok := p.index[path.Clean(name)]
	if !ok {
		return nil, false
	}
	return p.files[i].Contents, true
}

func (p *Post) Files() []File {
	return p.files
}

func (p *Post) Len() int {
	return len(p.files)
}

// WriteDir writes every file under dir, creating directories as needed.
func (p *Post) WriteDir(dir string) error {
	for _, f := range p.files {
		target := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return fmt.Errorf("create directory for %s: %w", f.Name, err)
		}
		if err := os.WriteFile(target, f.Contents, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	return nil
}
