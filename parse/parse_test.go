package parse_test

import (
	"testing"

	"adventune/skrivpost/mdast"
	"adventune/skrivpost/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, src string) *mdast.Root {
	t.Helper()
	root, err := parse.Parse([]byte(src))
	require.NoError(t, err)
	return root
}

func paragraph(t *testing.T, n mdast.Node) []mdast.Node {
	t.Helper()
	p, err := mdast.As[*mdast.Paragraph](n)
	require.NoError(t, err)
	return p.Children
}

func TestParseFrontmatter(t *testing.T) {
	var tests = []struct {
		name string
		src  string
	}{
		{"plus delimiters", "+++\nslug = \"foo\"\ndate = 2019-10-08\n+++\n\n# hello\n\nHello world.\n"},
		{"toml dash delimiters", "---toml\nslug = \"foo\"\ndate = 2019-10-08\n---\n# hello\n\nHello world."},
		{"leading blank lines", "\n\n+++\nslug = \"foo\"\ndate = 2019-10-08\n+++\n# hello\n\nHello world.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseString(t, tt.src)
			require.Len(t, root.Children, 3)

			front, err := mdast.As[*mdast.TOML](root.Children[0])
			require.NoError(t, err)
			assert.Equal(t, "slug = \"foo\"\ndate = 2019-10-08", front.Value)

			heading, err := mdast.As[*mdast.Heading](root.Children[1])
			require.NoError(t, err)
			assert.Equal(t, 1, heading.Depth)
			assert.Equal(t, "hello", mdast.PlainText(heading))
			assert.Equal(t, "Hello world.", mdast.PlainText(root.Children[2]))
		})
	}
}

func TestParseWithoutFrontmatter(t *testing.T) {
	root := parseString(t, "# hello\n\n+++\nnot = \"frontmatter\"\n+++\n")
	require.NotEmpty(t, root.Children)
	_, isHeading := root.Children[0].(*mdast.Heading)
	assert.True(t, isHeading)
	for _, child := range root.Children {
		assert.NotEqual(t, mdast.TypeTOML, child.Type())
	}
}

func TestParseLegacyMetadataBlock(t *testing.T) {
	root := parseString(t, "```\n# Metadata\nslug: foo\ndate: 2019-10-08\n```\n\nBody.\n")
	require.Len(t, root.Children, 2)
	code, err := mdast.As[*mdast.Code](root.Children[0])
	require.NoError(t, err)
	assert.Equal(t, "# Metadata\nslug: foo\ndate: 2019-10-08", code.Value)
	assert.Empty(t, code.Lang)
}

func TestParseInlines(t *testing.T) {
	children := paragraph(t, parseString(t, "a *b* **c** ~~d~~ `e`\n").Children[0])
	require.Len(t, children, 8)

	assert.Equal(t, "a ", children[0].(*mdast.Text).Value)
	_, isEmphasis := children[1].(*mdast.Emphasis)
	assert.True(t, isEmphasis)
	_, isStrong := children[3].(*mdast.Strong)
	assert.True(t, isStrong)
	_, isDelete := children[5].(*mdast.Delete)
	assert.True(t, isDelete)
	code, ok := children[7].(*mdast.InlineCode)
	require.True(t, ok)
	assert.Equal(t, "e", code.Value)
}

func TestParseText(t *testing.T) {
	var tests = []struct {
		name string
		src  string
		want string
	}{
		{"entities", "AT&amp;T &#35;1", "AT&T #1"},
		{"escapes", `\*not emphasis\*`, "*not emphasis*"},
		{"soft break", "a\nb", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			children := paragraph(t, parseString(t, tt.src).Children[0])
			require.Len(t, children, 1)
			assert.Equal(t, tt.want, children[0].(*mdast.Text).Value)
		})
	}
}

func TestParseHardBreak(t *testing.T) {
	for _, src := range []string{"a\\\nb", "a  \nb"} {
		children := paragraph(t, parseString(t, src).Children[0])
		require.Len(t, children, 3, src)
		assert.Equal(t, "a", children[0].(*mdast.Text).Value)
		_, isBreak := children[1].(*mdast.Break)
		assert.True(t, isBreak)
		assert.Equal(t, "b", children[2].(*mdast.Text).Value)
	}
}

func TestParseLinks(t *testing.T) {
	children := paragraph(t, parseString(t, `[site](https://example.com/a\_b "Home") <https://example.org>`).Children[0])
	require.Len(t, children, 3)

	link, ok := children[0].(*mdast.Link)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a_b", link.URL)
	assert.Equal(t, "Home", link.Title)
	assert.Equal(t, "site", mdast.PlainText(link))

	auto, ok := children[2].(*mdast.Link)
	require.True(t, ok)
	assert.Equal(t, "https://example.org", auto.URL)
	assert.Equal(t, "https://example.org", mdast.PlainText(auto))
}

func TestParseImage(t *testing.T) {
	children := paragraph(t, parseString(t, `![a *cat*](/cat.png "Cat")`).Children[0])
	require.Len(t, children, 1)
	img, ok := children[0].(*mdast.Image)
	require.True(t, ok)
	assert.Equal(t, "/cat.png", img.URL)
	assert.Equal(t, "a cat", img.Alt)
	assert.Equal(t, "Cat", img.Title)
}

func TestParseReferences(t *testing.T) {
	root := parseString(t, "[full][Site], [Site][], [Site], ![logo][Site] and [missing]\n\n[site]: https://example.com \"Home\"\n")
	require.Len(t, root.Children, 2)
	children := paragraph(t, root.Children[0])

	var refs []*mdast.LinkReference
	var images []*mdast.ImageReference
	for _, child := range children {
		switch v := child.(type) {
		case *mdast.LinkReference:
			refs = append(refs, v)
		case *mdast.ImageReference:
			images = append(images, v)
		}
	}
	require.Len(t, refs, 3)
	require.Len(t, images, 1)

	assert.Equal(t, mdast.ReferenceFull, refs[0].ReferenceType)
	assert.Equal(t, "site", refs[0].Identifier)
	assert.Equal(t, "Site", refs[0].Label)
	assert.Equal(t, "full", mdast.PlainText(refs[0]))

	assert.Equal(t, mdast.ReferenceCollapsed, refs[1].ReferenceType)
	assert.Equal(t, "site", refs[1].Identifier)
	assert.Equal(t, "Site", mdast.PlainText(refs[1]))

	assert.Equal(t, mdast.ReferenceShortcut, refs[2].ReferenceType)
	assert.Equal(t, "site", refs[2].Identifier)

	assert.Equal(t, mdast.ReferenceFull, images[0].ReferenceType)
	assert.Equal(t, "logo", images[0].Alt)

	assert.Contains(t, mdast.PlainText(root.Children[0]), "and [missing]")

	def, err := mdast.As[*mdast.Definition](root.Children[1])
	require.NoError(t, err)
	assert.Equal(t, "site", def.Identifier)
	assert.Equal(t, "https://example.com", def.URL)
	assert.Equal(t, "Home", def.Title)
}

func TestParseDefinitionOnlyParagraph(t *testing.T) {
	root := parseString(t, "See [foo].\n\n[foo]: /u\n")
	require.Len(t, root.Children, 2)
	assert.IsType(t, &mdast.Paragraph{}, root.Children[0])
	assert.IsType(t, &mdast.Definition{}, root.Children[1])

	item := parseString(t, "- [foo]: /u\n- bar\n")
	list, err := mdast.As[*mdast.List](item.Children[0])
	require.NoError(t, err)
	first, err := mdast.As[*mdast.ListItem](list.Children[0])
	require.NoError(t, err)
	assert.Empty(t, first.Children)
}

func TestParseDuplicateDefinitions(t *testing.T) {
	root := parseString(t, "[a]: /one\n[A]: /two\n\ntext\n")

	var defs []*mdast.Definition
	for _, child := range root.Children {
		if def, ok := child.(*mdast.Definition); ok {
			defs = append(defs, def)
		}
	}
	require.Len(t, defs, 2)
	assert.Equal(t, "/one", defs[0].URL)
	assert.Equal(t, "/two", defs[1].URL)
	assert.Equal(t, defs[0].Identifier, defs[1].Identifier)
}

func TestParseFootnotes(t *testing.T) {
	root := parseString(t, "Text[^1] and ^[inline *note*].\n\n[^1]: The note.\n")
	require.Len(t, root.Children, 2)

	children := paragraph(t, root.Children[0])
	require.Len(t, children, 5)
	ref, ok := children[1].(*mdast.FootnoteReference)
	require.True(t, ok)
	assert.Equal(t, "1", ref.Identifier)

	inline, ok := children[3].(*mdast.Footnote)
	require.True(t, ok)
	require.Len(t, inline.Children, 2)
	assert.Equal(t, "inline note", mdast.PlainText(inline))
	_, isEmphasis := inline.Children[1].(*mdast.Emphasis)
	assert.True(t, isEmphasis)

	def, err := mdast.As[*mdast.FootnoteDefinition](root.Children[1])
	require.NoError(t, err)
	assert.Equal(t, "1", def.Identifier)
	require.Len(t, def.Children, 1)
	assert.Equal(t, "The note.", mdast.PlainText(def.Children[0]))
}

func TestParseInlineFootnoteSeesDefinitions(t *testing.T) {
	root := parseString(t, "A^[see [site]].\n\n[site]: https://example.com\n")
	children := paragraph(t, root.Children[0])

	var inline *mdast.Footnote
	for _, child := range children {
		if f, ok := child.(*mdast.Footnote); ok {
			inline = f
		}
	}
	require.NotNil(t, inline)
	require.Len(t, inline.Children, 2)
	ref, ok := inline.Children[1].(*mdast.LinkReference)
	require.True(t, ok)
	assert.Equal(t, "site", ref.Identifier)

	var defs int
	for _, child := range root.Children {
		if _, ok := child.(*mdast.Definition); ok {
			defs++
		}
	}
	assert.Equal(t, 1, defs)
}

func TestParseLists(t *testing.T) {
	root := parseString(t, "- [x] done\n- [ ] todo\n- plain\n\n3. a\n\n4. b\n")
	require.Len(t, root.Children, 2)

	tasks, err := mdast.As[*mdast.List](root.Children[0])
	require.NoError(t, err)
	assert.False(t, tasks.Ordered)
	assert.False(t, tasks.Spread)
	require.Len(t, tasks.Children, 3)

	done := tasks.Children[0].(*mdast.ListItem)
	require.NotNil(t, done.Checked)
	assert.True(t, *done.Checked)
	assert.Equal(t, "done", mdast.PlainText(done))

	todo := tasks.Children[1].(*mdast.ListItem)
	require.NotNil(t, todo.Checked)
	assert.False(t, *todo.Checked)
	assert.Nil(t, tasks.Children[2].(*mdast.ListItem).Checked)

	ordered, err := mdast.As[*mdast.List](root.Children[1])
	require.NoError(t, err)
	assert.True(t, ordered.Ordered)
	assert.True(t, ordered.Spread)
	require.NotNil(t, ordered.Start)
	assert.Equal(t, 3, *ordered.Start)
}

func TestParseTable(t *testing.T) {
	root := parseString(t, "| a | b |\n| :-- | --: |\n| 1 | 2 |\n")
	require.Len(t, root.Children, 1)

	table, err := mdast.As[*mdast.Table](root.Children[0])
	require.NoError(t, err)
	assert.Equal(t, []mdast.Align{mdast.AlignLeft, mdast.AlignRight}, table.Align)
	require.Len(t, table.Children, 2)
	assert.Equal(t, "ab", mdast.PlainText(table.Children[0]))
	assert.Equal(t, "12", mdast.PlainText(table.Children[1]))
}

func TestParseCodeAndHTML(t *testing.T) {
	root := parseString(t, "```go title=\"x\"\nx := 1\n```\n\n    indented\n\n<div>\nraw\n</div>\n")
	require.Len(t, root.Children, 3)

	fenced, err := mdast.As[*mdast.Code](root.Children[0])
	require.NoError(t, err)
	assert.Equal(t, "go", fenced.Lang)
	assert.Equal(t, `title="x"`, fenced.Meta)
	assert.Equal(t, "x := 1", fenced.Value)

	indented, err := mdast.As[*mdast.Code](root.Children[1])
	require.NoError(t, err)
	assert.Equal(t, "indented", indented.Value)

	html, err := mdast.As[*mdast.HTML](root.Children[2])
	require.NoError(t, err)
	assert.Equal(t, "<div>\nraw\n</div>", html.Value)
}
