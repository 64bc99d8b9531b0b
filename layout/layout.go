// Package layout wraps a compiled post body into a complete HTML document.
package layout

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"adventune/skrivpost/hast"
	"adventune/skrivpost/metadata"
)

// NoTemplateForPostTypeError reports a post type without a registered template.
type NoTemplateForPostTypeError struct {
	PostType metadata.PostType
}

func (e *NoTemplateForPostTypeError) Error() string {
	return fmt.Sprintf("no template for post type %q", e.PostType)
}

// DraftRobots is the robots directive of draft documents.
const DraftRobots = "noindex, nofollow"

type NavLink struct {
	Title string
	Href  string
}

type Icon struct {
	Rel   string
	Href  string
	Type  string
	Sizes string
}

// Site holds everything the document shell needs besides the post itself.
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

// Template renders a full document around a compiled body element.
type Template interface {
	Render(meta metadata.PostMetadata, body *hast.Element) (*hast.Root, error)
}

// Document is the template shared by every post type; only the body class
// changes.
type Document struct {
	Site      Site
	BodyClass string
	Now       func() time.Time
}

func (d *Document) Render(meta metadata.PostMetadata, body *hast.Element) (*hast.Root, error) {
	if body == nil || body.TagName != "body" {
		return nil, fmt.Errorf("layout: expected a body element")
	}
	var props hast.Properties
	if d.Site.Lang != "" {
		props = hast.P("lang", d.Site.Lang)
	}
	html := hast.H("html", props, d.head(meta, body), d.body(body))
	return hast.NewRoot(&hast.Doctype{}, html), nil
}

func (d *Document) head(meta metadata.PostMetadata, body *hast.Element) *hast.Element {
	robots := d.Site.Robots
	if meta.IsDraft() {
		robots = DraftRobots
	}

	children := []hast.Node{
		hast.H("meta", hast.P("charset", "utf-8")),
		hast.H("meta", hast.P("name", "viewport", "content", "width=device-width, initial-scale=1")),
		hast.H("meta", hast.P("name", "robots", "content", robots)),
		hast.H("title", nil, hast.NewText(d.title(body))),
	}
	for _, icon := range d.Site.Icons {
		props := hast.P("rel", icon.Rel, "href", icon.Href)
		if icon.Type != "" {
			props = props.Set("type", icon.Type)
		}
		if icon.Sizes != "" {
			props = props.Set("sizes", icon.Sizes)
		}
		children = append(children, hast.H("link", props))
	}
	if d.Site.Stylesheet != "" {
		children = append(children, hast.H("link", hast.P("rel", "stylesheet", "href", d.Site.Stylesheet)))
	}
	if d.Site.Script != "" {
		children = append(children, hast.H("script", hast.P("src", d.Site.Script, "defer", true)))
	}
	return hast.H("head", nil, children...)
}

// title is the text of the first h1 followed by the site title.
func (d *Document) title(body *hast.Element) string {
	h1 := hast.Find(body, "h1")
	if h1 == nil {
		return d.Site.Title
	}
	heading := strings.TrimSpace(hast.TextContent(h1))
	if heading == "" {
		return d.Site.Title
	}
	return heading + " | " + d.Site.Title
}

func (d *Document) body(body *hast.Element) *hast.Element {
	var links []hast.Node
	for _, link := range d.Site.Nav {
		links = append(links, hast.H("li", nil, hast.H("a", hast.P("href", link.Href), hast.NewText(link.Title))))
	}
	header := hast.H("header", nil, hast.H("nav", nil, hast.H("ul", nil, links...)))

	main := hast.H("main", nil,
		hast.H("div", hast.P("class", "main-inner-container"), body.Children...),
	)

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	copyright := "© " + strconv.Itoa(now().Year()) + " " + d.Site.Author
	footer := hast.H("footer", nil, hast.H("p", nil, hast.NewText(strings.TrimSpace(copyright))))

	return hast.H("body", hast.P("class", d.BodyClass), header, main, footer)
}

// Registry maps post types to templates.
type Registry struct {
	templates map[metadata.PostType]Template
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used for the copyright year.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewRegistry returns a registry with the templates of every built-in post type.
func NewRegistry(site Site, opts ...Option) *Registry {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	r := &Registry{templates: map[metadata.PostType]Template{}}
	r.Register(metadata.PostTypePost, &Document{Site: site, BodyClass: "post", Now: o.now})
	r.Register(metadata.PostTypeLandingPage, &Document{Site: site, BodyClass: "landing-page", Now: o.now})
	return r
}

// Register sets the template of a post type, replacing any previous one.
func (r *Registry) Register(postType metadata.PostType, tmpl Template) {
	r.templates[postType] = tmpl
}

func (r *Registry) Lookup(postType metadata.PostType) (Template, error) {
	tmpl, ok := r.templates[postType]
	if !ok {
		return nil, &NoTemplateForPostTypeError{PostType: postType}
	}
	return tmpl, nil
}
