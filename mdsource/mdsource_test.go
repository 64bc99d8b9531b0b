package mdsource_test

import (
	"testing"

	"adventune/skrivpost/mdast"
	"adventune/skrivpost/mdsource"
	"adventune/skrivpost/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int {
	return &n
}

func TestRenderPost(t *testing.T) {
	root := mdast.NewRoot(
		&mdast.TOML{Value: "slug = \"foo_bar\"\ndate = 2019-10-08"},
		mdast.NewHeading(1, mdast.NewText("hello")),
		mdast.NewParagraph(mdast.NewText("Hello world.")),
	)
	out, err := mdsource.Render(root)
	require.NoError(t, err)
	assert.Equal(t, "+++\nslug = \"foo_bar\"\ndate = 2019-10-08\n+++\n\n# hello\n\nHello world.\n", out)
}

func TestRenderBlocks(t *testing.T) {
	var tests = []struct {
		name string
		node mdast.Node
		want string
	}{
		{"code", &mdast.Code{Value: "x := 1", Lang: "go"}, "```go\nx := 1\n```"},
		{"code with fence inside", &mdast.Code{Value: "```\nnested\n```"}, "````\n```\nnested\n```\n````"},
		{"thematic break", &mdast.ThematicBreak{}, "***"},
		{"blockquote", &mdast.Blockquote{Parent: mdast.Parent{Children: []mdast.Node{
			mdast.NewParagraph(mdast.NewText("a")),
			mdast.NewParagraph(mdast.NewText("b")),
		}}}, "> a\n>\n> b"},
		{"tight list", mdast.NewList(false, false,
			mdast.NewListItem(false, mdast.NewParagraph(mdast.NewText("one"))),
			mdast.NewListItem(false, mdast.NewParagraph(mdast.NewText("two")),
				mdast.NewList(false, false, mdast.NewListItem(false, mdast.NewParagraph(mdast.NewText("nested"))))),
		), "- one\n- two\n  - nested"},
		{"loose ordered list", &mdast.List{
			Parent:  mdast.Parent{Children: []mdast.Node{mdast.NewListItem(true, mdast.NewParagraph(mdast.NewText("a"))), mdast.NewListItem(true, mdast.NewParagraph(mdast.NewText("b")))}},
			Ordered: true, Start: intPtr(3), Spread: true,
		}, "3. a\n\n4. b"},
		{"ordered list without start", &mdast.List{
			Parent:  mdast.Parent{Children: []mdast.Node{mdast.NewListItem(false, mdast.NewParagraph(mdast.NewText("a")))}},
			Ordered: true,
		}, "1. a"},
		{"task list", mdast.NewList(false, false,
			mdast.NewTaskListItem(true, false, mdast.NewParagraph(mdast.NewText("done"))),
			mdast.NewTaskListItem(false, false, mdast.NewParagraph(mdast.NewText("todo"))),
		), "- [x] done\n- [ ] todo"},
		{"definition", mdast.NewDefinition("Site", "https://example.com", "Home"), `[Site]: https://example.com "Home"`},
		{"footnote definition", mdast.NewFootnoteDefinition("note",
			mdast.NewParagraph(mdast.NewText("first")),
			mdast.NewParagraph(mdast.NewText("second")),
		), "[^note]: first\n\n    second"},
		{"html", &mdast.HTML{Value: "<div>\nraw\n</div>"}, "<div>\nraw\n</div>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := mdsource.Render(mdast.NewRoot(tt.node))
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestRenderTable(t *testing.T) {
	cell := func(s string) *mdast.TableCell { return mdast.NewTableCell(mdast.NewText(s)) }
	table, err := mdast.NewTable(
		mdast.NewTableRow(cell("a"), cell("b")),
		mdast.NewTableRow(cell("c|d"), cell("e")),
	)
	require.NoError(t, err)
	table.Align = []mdast.Align{mdast.AlignLeft, mdast.AlignNone}

	out, err := mdsource.Render(mdast.NewRoot(table))
	require.NoError(t, err)
	assert.Equal(t, "| a | b |\n| :-- | --- |\n| c\\|d | e |\n", out)
}

func TestRenderInlines(t *testing.T) {
	var tests = []struct {
		name  string
		nodes []mdast.Node
		want  string
	}{
		{"emphasis", []mdast.Node{mdast.NewEmphasis(mdast.NewText("a")), mdast.NewText(" "), mdast.NewStrong(mdast.NewText("b"))}, "*a* **b**"},
		{"delete", []mdast.Node{&mdast.Delete{Parent: mdast.Parent{Children: []mdast.Node{mdast.NewText("x")}}}}, "~~x~~"},
		{"inline code", []mdast.Node{&mdast.InlineCode{Value: "a`b"}}, "``a`b``"},
		{"link", []mdast.Node{mdast.NewLink("https://example.com", "Ex", mdast.NewText("site"))}, `[site](https://example.com "Ex")`},
		{"link with spaces", []mdast.Node{mdast.NewLink("/a b", "", mdast.NewText("x"))}, "[x](</a b>)"},
		{"image", []mdast.Node{&mdast.Image{URL: "/cat.png", Alt: "cat"}}, "![cat](/cat.png)"},
		{"full reference", []mdast.Node{mdast.NewLinkReference("Id", mdast.ReferenceFull, mdast.NewText("text"))}, "[text][Id]"},
		{"collapsed reference", []mdast.Node{mdast.NewLinkReference("Id", mdast.ReferenceCollapsed, mdast.NewText("Id"))}, "[Id][]"},
		{"shortcut reference", []mdast.Node{mdast.NewLinkReference("Id", mdast.ReferenceShortcut, mdast.NewText("Id"))}, "[Id]"},
		{"shortcut keeps text", []mdast.Node{mdast.NewLinkReference("SITE", mdast.ReferenceShortcut, mdast.NewEmphasis(mdast.NewText("Site")))}, "[*Site*]"},
		{"image reference", []mdast.Node{mdast.NewImageReference("logo", mdast.ReferenceFull, "Logo")}, "![Logo][logo]"},
		{"footnote reference", []mdast.Node{mdast.NewText("a"), mdast.NewFootnoteReference("1")}, "a[^1]"},
		{"inline footnote", []mdast.Node{mdast.NewText("a"), mdast.NewFootnote(mdast.NewText("note"))}, "a^[note]"},
		{"hard break", []mdast.Node{mdast.NewText("a"), &mdast.Break{}, mdast.NewText("b")}, "a\\\nb"},
		{"escapes", []mdast.Node{mdast.NewText("*not* [a] <b> snake_case _x_")}, `\*not\* \[a\] \<b> snake_case \_x\_`},
		{"line start", []mdast.Node{mdast.NewText("# not a heading\n- not a list\n1. not ordered")}, "\\# not a heading\n\\- not a list\n1\\. not ordered"},
		{"entity", []mdast.Node{mdast.NewText("AT&T &amp;")}, `AT&T \&amp;`},
		{"bang before link", []mdast.Node{mdast.NewText("Hi!"), mdast.NewLink("/b", "", mdast.NewText("a"))}, `Hi\![a](/b)`},
		{"caret before reference", []mdast.Node{mdast.NewText("x^"), mdast.NewLinkReference("Id", mdast.ReferenceShortcut, mdast.NewText("Id"))}, `x\^[Id]`},
		{"bang before text", []mdast.Node{mdast.NewText("Hi! [a]")}, `Hi! \[a\]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := mdsource.Render(mdast.NewRoot(mdast.NewParagraph(tt.nodes...)))
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	var tests = []string{
		"Hi\\![a](/b)\n",
		"x\\^[y](/z) and ![img](/i.png)\n",
		"See [foo].\n\n[foo]: /u\n",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			first, err := parse.Parse([]byte(src))
			require.NoError(t, err)
			out, err := mdsource.Render(first)
			require.NoError(t, err)

			second, err := parse.Parse([]byte(out))
			require.NoError(t, err)
			assert.Equal(t, first, second)
			assert.Equal(t, src, out)
		})
	}
}

func TestRenderUnsupported(t *testing.T) {
	_, err := mdsource.Render(mdast.NewRoot(mdast.NewText("bare text at block level")))

	var unsupported *mdsource.UnsupportedNodeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, mdast.TypeText, unsupported.Type)

	out, err := mdsource.Render(mdast.NewRoot())
	require.NoError(t, err)
	assert.Empty(t, out)
}
