package metadata_test

import (
	"errors"
	"testing"
	"time"

	"adventune/skrivpost/mdast"
	"adventune/skrivpost/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tomlTree(value string, rest ...mdast.Node) *mdast.Root {
	return mdast.NewRoot(append([]mdast.Node{&mdast.TOML{Value: value}}, rest...)...)
}

func legacyBlock(yaml string) *mdast.Code {
	return &mdast.Code{Value: metadata.MarkerLine + "\n" + yaml}
}

func TestExtractTOML(t *testing.T) {
	meta, err := metadata.Extract(tomlTree("date = 2017-06-18\nslug = \"qux_bar\""))
	require.NoError(t, err)
	require.NotNil(t, meta)

	assert.Equal(t, "qux_bar", meta.Slug)
	assert.True(t, time.Date(2017, 6, 18, 0, 0, 0, 0, time.UTC).Equal(meta.Date))
	assert.Equal(t, metadata.Draft, meta.PublishState)
	assert.Equal(t, metadata.PostTypePost, meta.PostType)
	assert.True(t, meta.IsDraft())
	assert.Contains(t, meta.Schema, "slug")
}

func TestExtractEnums(t *testing.T) {
	meta, err := metadata.Extract(tomlTree(`slug = "home"
date = 2020-01-02T10:00:00Z
publish_state = "Published"
post_type = "LandingPage"`))
	require.NoError(t, err)
	assert.Equal(t, metadata.Published, meta.PublishState)
	assert.Equal(t, metadata.PostTypeLandingPage, meta.PostType)
	assert.False(t, meta.IsDraft())
	assert.Equal(t, 10, meta.Date.Hour())
}

func TestExtractInvalid(t *testing.T) {
	var tests = []struct {
		name  string
		input string
	}{
		{"missing slug", `date = 2017-06-18`},
		{"missing date", `slug = "a"`},
		{"empty slug", "slug = \"\"\ndate = 2017-06-18"},
		{"slug not a string", "slug = 5\ndate = 2017-06-18"},
		{"slug with a separator", "slug = \"../escaped\"\ndate = 2017-06-18"},
		{"slug is a parent dir", "slug = \"..\"\ndate = 2017-06-18"},
		{"slug is the current dir", "slug = \".\"\ndate = 2017-06-18"},
		{"slug with a space", "slug = \"a b\"\ndate = 2017-06-18"},
		{"bad date", "slug = \"a\"\ndate = \"yesterday\""},
		{"unknown key", "slug = \"a\"\ndate = 2017-06-18\nauthor = \"me\""},
		{"bad publish state", "slug = \"a\"\ndate = 2017-06-18\npublish_state = \"Later\""},
		{"bad post type", "slug = \"a\"\ndate = 2017-06-18\npost_type = \"Page\""},
		{"syntax error", "slug = = \"a\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := metadata.Extract(tomlTree(tt.input))
			assert.Nil(t, meta)

			var schemaErr *metadata.SchemaError
			require.True(t, errors.As(err, &schemaErr), "got %v", err)
			assert.Equal(t, metadata.FormatTOML, schemaErr.Format)
		})
	}
}

func TestExtractLegacy(t *testing.T) {
	tree := mdast.NewRoot(
		mdast.NewHeading(1, mdast.NewText("hello")),
		legacyBlock("slug: qux_bar\ndate: 2017-06-18\npublish_state: Published\n"),
	)
	meta, err := metadata.Extract(tree)
	require.NoError(t, err)
	assert.Equal(t, "qux_bar", meta.Slug)
	assert.Equal(t, 2017, meta.Date.Year())
	assert.Equal(t, metadata.Published, meta.PublishState)

	_, err = metadata.Extract(mdast.NewRoot(legacyBlock("slug: [unclosed\n")))
	var schemaErr *metadata.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, metadata.FormatYAML, schemaErr.Format)
}

func TestExtractNone(t *testing.T) {
	meta, err := metadata.Extract(mdast.NewRoot(mdast.NewParagraph(mdast.NewText("plain"))))
	require.NoError(t, err)
	assert.Nil(t, meta)

	// A code block without the marker line is not metadata
	meta, err = metadata.Extract(mdast.NewRoot(&mdast.Code{Value: "slug: a\ndate: 2017-06-18"}))
	require.NoError(t, err)
	assert.Nil(t, meta)

	// Metadata past the scan limit is ignored
	children := make([]mdast.Node, 0, metadata.ScanLimit+1)
	for i := 0; i < metadata.ScanLimit; i++ {
		children = append(children, mdast.NewParagraph(mdast.NewText("p")))
	}
	children = append(children, &mdast.TOML{Value: "slug = \"a\"\ndate = 2017-06-18"})
	meta, err = metadata.Extract(mdast.NewRoot(children...))
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestFind(t *testing.T) {
	tree := mdast.NewRoot(
		legacyBlock("slug: a"),
		mdast.NewParagraph(),
		&mdast.TOML{Value: "slug = \"a\""},
	)
	tomlBlock, legacy := metadata.Find(tree)
	require.NotNil(t, tomlBlock)
	assert.Equal(t, 2, tomlBlock.Index)
	require.Len(t, legacy, 1)
	assert.Equal(t, 0, legacy[0].Index)
	assert.Equal(t, "slug: a", legacy[0].Source)
}

func TestNormalizeLegacy(t *testing.T) {
	heading := mdast.NewHeading(1, mdast.NewText("hello"))
	tree := mdast.NewRoot(heading, legacyBlock("slug: qux_bar\ndate: 2017-06-18\n"))

	normalized, err := metadata.Normalize(tree)
	require.NoError(t, err)
	require.Len(t, normalized.Children, 2)

	front, ok := normalized.Children[0].(*mdast.TOML)
	require.True(t, ok)
	assert.Contains(t, front.Value, "date = 2017-06-18")
	assert.Contains(t, front.Value, "qux_bar")
	assert.Same(t, heading, normalized.Children[1])

	// The input keeps its legacy block
	assert.IsType(t, &mdast.Code{}, tree.Children[1])

	meta, err := metadata.Extract(normalized)
	require.NoError(t, err)
	assert.Equal(t, "qux_bar", meta.Slug)
	assert.True(t, time.Date(2017, 6, 18, 0, 0, 0, 0, time.UTC).Equal(meta.Date))
}

func TestNormalizePrefersTOML(t *testing.T) {
	front := &mdast.TOML{Value: "slug = \"a\"\ndate = 2017-06-18"}
	tree := mdast.NewRoot(
		legacyBlock("slug: b\ndate: 2017-06-18"),
		mdast.NewParagraph(mdast.NewText("body")),
		front,
	)
	normalized, err := metadata.Normalize(tree)
	require.NoError(t, err)
	require.Len(t, normalized.Children, 2)
	assert.Same(t, front, normalized.Children[0])
	assert.IsType(t, &mdast.Paragraph{}, normalized.Children[1])
}

func TestNormalizeUnchanged(t *testing.T) {
	plain := mdast.NewRoot(mdast.NewParagraph(mdast.NewText("body")))
	normalized, err := metadata.Normalize(plain)
	require.NoError(t, err)
	assert.Same(t, plain, normalized)

	first := tomlTree("slug = \"a\"\ndate = 2017-06-18", mdast.NewParagraph())
	normalized, err = metadata.Normalize(first)
	require.NoError(t, err)
	assert.Same(t, first, normalized)
}

func TestDefault(t *testing.T) {
	meta := metadata.Default()
	assert.Empty(t, meta.Slug)
	assert.Equal(t, metadata.PostTypePost, meta.PostType)
	assert.Equal(t, metadata.Draft, meta.PublishState)
}
