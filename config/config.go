// Package config reads the skrivpost configuration file.
package config

import (
	"bytes"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pelletier/go-toml/v2"

	"adventune/skrivpost/layout"
)

const (
	DefaultContentDir = "./content"
	DefaultBuildDir   = "../content-build"
	DefaultPort       = 8000
)

// Note: fields must be public for the toml package to unmarshal them
type File struct {
	Site    Site
	Content Content
	Server  Server
}

type Site struct {
	Title      string
	Author     string
	Lang       string
	Robots     string
	Stylesheet string
	Script     string
	Icons      []Icon
	Nav        []NavLink
}

type Icon struct {
	Rel   string
	Href  string
	Type  string
	Sizes string
}

type NavLink struct {
	Title string
	Href  string
}

type Content struct {
	// Dir holds the .md and .textpack posts.
	Dir string
	// BuildDir receives {slug}/index.html for every post.
	BuildDir string `toml:"build_dir"`
	// SourceDir is a repository working tree receiving posts/{slug}.md.
	// Empty disables source output.
	SourceDir string `toml:"source_dir"`
	// Drafts builds posts whose publish state is Draft.
	Drafts bool
}

type Server struct {
	Port  int
	Watch bool
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		Site: Site{
			Title:  "Blog",
			Lang:   "en",
			Robots: "index, follow",
		},
		Content: Content{
			Dir:      DefaultContentDir,
			BuildDir: DefaultBuildDir,
		},
		Server: Server{
			Port:  DefaultPort,
			Watch: true,
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*File, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes content over the defaults. Unknown keys are rejected.
func Parse(content []byte) (*File, error) {
	result := Default()
	d := toml.NewDecoder(bytes.NewReader(content))
	d.DisallowUnknownFields()
	if err := d.Decode(result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *File) Validate() error {
	if err := validation.ValidateStruct(&f.Content,
		validation.Field(&f.Content.Dir, validation.Required),
		validation.Field(&f.Content.BuildDir, validation.Required),
	); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := validation.ValidateStruct(&f.Server,
		validation.Field(&f.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// LayoutSite returns the site settings used by the document templates.
func (f *File) LayoutSite() layout.Site {
	site := layout.Site{
		Title:      f.Site.Title,
		Author:     f.Site.Author,
		Lang:       f.Site.Lang,
		Robots:     f.Site.Robots,
		Stylesheet: f.Site.Stylesheet,
		Script:     f.Site.Script,
	}
	for _, icon := range f.Site.Icons {
		site.Icons = append(site.Icons, layout.Icon{Rel: icon.Rel, Href: icon.Href, Type: icon.Type, Sizes: icon.Sizes})
	}
	for _, link := range f.Site.Nav {
		site.Nav = append(site.Nav, layout.NavLink{Title: link.Title, Href: link.Href})
	}
	return site
}
