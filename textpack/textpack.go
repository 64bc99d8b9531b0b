// Package textpack reads and writes TextPack archives: a zipped TextBundle
// holding a Markdown post and the assets it references.
package textpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	BundleDir    = "Content.textbundle"
	MainTextPath = BundleDir + "/text.md"
	AssetsDir    = BundleDir + "/assets/"
	// Ext is the file extension of TextPack archives.
	Ext = ".textpack"
)

var ErrNoMainText = errors.New("textpack has no " + MainTextPath)

// Entry is one file of the archive. Path is slash separated.
type Entry struct {
	Path     string
	Contents []byte
}

type Pack struct {
	Entries []Entry
}

// Read unpacks a TextPack archive. Directories are skipped.
func Read(data []byte) (*Pack, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open textpack: %w", err)
	}

	pack := &Pack{}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		contents, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		pack.Entries = append(pack.Entries, Entry{Path: path.Clean(f.Name), Contents: contents})
	}
	return pack, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// MainText returns the Markdown of the post.
func (p *Pack) MainText() ([]byte, error) {
	for _, e := range p.Entries {
		if e.Path == MainTextPath {
			return e.Contents, nil
		}
	}
	return nil, ErrNoMainText
}

// Assets returns the files under the assets directory, with paths relative
// to the bundle (assets/cat.png), sorted by path.
func (p *Pack) Assets() []Entry {
	var assets []Entry
	for _, e := range p.Entries {
		if !strings.HasPrefix(e.Path, AssetsDir) {
			continue
		}
		assets = append(assets, Entry{
			Path:     strings.TrimPrefix(e.Path, BundleDir+"/"),
			Contents: e.Contents,
		})
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Path < assets[j].Path
	})
	return assets
}

// Write packs entries into a TextPack archive, in the given order.
func Write(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e.Path)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", e.Path, err)
		}
		if _, err := f.Write(e.Contents); err != nil {
			return nil, fmt.Errorf("write %s: %w", e.Path, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
