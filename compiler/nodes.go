package compiler

import (
	"strconv"

	"adventune/skrivpost/hast"
	"adventune/skrivpost/mdast"
)

func compileNothing(_ *Context, _ mdast.Node) ([]hast.Node, error) {
	return nil, nil
}

// element compiles the children of n into a single element.
func element(ctx *Context, tag string, props hast.Properties, n mdast.Node) ([]hast.Node, error) {
	children, err := ctx.CompileChildren(n)
	if err != nil {
		return nil, err
	}
	return []hast.Node{hast.H(tag, props, children...)}, nil
}

func compileRoot(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	root, err := mdast.As[*mdast.Root](n)
	if err != nil {
		return nil, err
	}
	children, err := ctx.CompileChildren(root)
	if err != nil {
		return nil, err
	}
	section, err := ctx.footnoteSection()
	if err != nil {
		return nil, err
	}
	if section != nil {
		children = append(children, section)
	}
	return []hast.Node{hast.H("body", nil, children...)}, nil
}

func compileHeading(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	heading, err := mdast.As[*mdast.Heading](n)
	if err != nil {
		return nil, err
	}
	return element(ctx, "h"+strconv.Itoa(heading.Depth), nil, heading)
}

func compileParagraph(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	paragraph, err := mdast.As[*mdast.Paragraph](n)
	if err != nil {
		return nil, err
	}
	return element(ctx, "p", nil, paragraph)
}

func compileText(_ *Context, n mdast.Node) ([]hast.Node, error) {
	text, err := mdast.As[*mdast.Text](n)
	if err != nil {
		return nil, err
	}
	return []hast.Node{hast.NewText(text.Value)}, nil
}

func compileEmphasis(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	emphasis, err := mdast.As[*mdast.Emphasis](n)
	if err != nil {
		return nil, err
	}
	return element(ctx, "em", nil, emphasis)
}

func compileStrong(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	strong, err := mdast.As[*mdast.Strong](n)
	if err != nil {
		return nil, err
	}
	return element(ctx, "strong", nil, strong)
}

func compileDelete(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	del, err := mdast.As[*mdast.Delete](n)
	if err != nil {
		return nil, err
	}
	return element(ctx, "del", nil, del)
}

func compileBlockquote(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	quote, err := mdast.As[*mdast.Blockquote](n)
	if err != nil {
		return nil, err
	}
	return element(ctx, "blockquote", nil, quote)
}

func compileCode(_ *Context, n mdast.Node) ([]hast.Node, error) {
	code, err := mdast.As[*mdast.Code](n)
	if err != nil {
		return nil, err
	}
	var props hast.Properties
	if code.Lang != "" {
		props = hast.P("class", "language-"+code.Lang)
	}
	inner := hast.H("code", props, hast.NewText(code.Value+"\n"))
	return []hast.Node{hast.H("pre", nil, inner)}, nil
}

func compileInlineCode(_ *Context, n mdast.Node) ([]hast.Node, error) {
	code, err := mdast.As[*mdast.InlineCode](n)
	if err != nil {
		return nil, err
	}
	return []hast.Node{hast.H("code", nil, hast.NewText(code.Value))}, nil
}

func compileBreak(_ *Context, n mdast.Node) ([]hast.Node, error) {
	if _, err := mdast.As[*mdast.Break](n); err != nil {
		return nil, err
	}
	return []hast.Node{hast.H("br", nil)}, nil
}

func compileThematicBreak(_ *Context, n mdast.Node) ([]hast.Node, error) {
	if _, err := mdast.As[*mdast.ThematicBreak](n); err != nil {
		return nil, err
	}
	return []hast.Node{hast.H("hr", nil)}, nil
}

func compileList(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	list, err := mdast.As[*mdast.List](n)
	if err != nil {
		return nil, err
	}
	tag := "ul"
	var props hast.Properties
	if list.Ordered {
		tag = "ol"
		if start := list.StartNumber(); start != 1 {
			props = props.Set("start", start)
		}
	}
	for _, child := range list.Children {
		if item := child.(*mdast.ListItem); item.Checked != nil {
			props = props.Set("class", "contains-task-list")
			break
		}
	}
	return element(ctx, tag, props, list)
}

func compileListItem(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	item, err := mdast.As[*mdast.ListItem](n)
	if err != nil {
		return nil, err
	}
	var children []hast.Node
	for _, child := range item.Children {
		compiled, err := ctx.Compile(child)
		if err != nil {
			return nil, err
		}
		if _, ok := child.(*mdast.Paragraph); ok && !item.Spread {
			compiled = unwrapParagraphs(compiled)
		}
		children = append(children, compiled...)
	}

	var props hast.Properties
	if item.Checked != nil {
		props = hast.P("class", "task-list-item")
		children = prependCheckbox(children, *item.Checked)
	}
	return []hast.Node{hast.H("li", props, children...)}, nil
}

func unwrapParagraphs(nodes []hast.Node) []hast.Node {
	var out []hast.Node
	for _, n := range nodes {
		if hast.IsElement(n, "p") {
			out = append(out, n.(*hast.Element).Children...)
			continue
		}
		out = append(out, n)
	}
	return out
}

// prependCheckbox puts the checkbox in front of the item text, inside the
// first paragraph when the item kept its paragraphs.
func prependCheckbox(children []hast.Node, checked bool) []hast.Node {
	input := hast.H("input", hast.P("type", "checkbox", "checked", checked, "disabled", true))
	lead := []hast.Node{input, hast.NewText(" ")}
	if len(children) > 0 && hast.IsElement(children[0], "p") {
		p := children[0].(*hast.Element)
		p.Children = append(lead, p.Children...)
		return children
	}
	return append(lead, children...)
}

func compileTable(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	table, err := mdast.As[*mdast.Table](n)
	if err != nil {
		return nil, err
	}
	if len(table.Children) == 0 {
		return []hast.Node{hast.H("table", nil)}, nil
	}
	head, err := ctx.Compile(table.Children[0])
	if err != nil {
		return nil, err
	}
	sections := []hast.Node{hast.H("thead", nil, head...)}
	if len(table.Children) > 1 {
		body, err := ctx.compileAll(table.Children[1:])
		if err != nil {
			return nil, err
		}
		sections = append(sections, hast.H("tbody", nil, body...))
	}
	return []hast.Node{hast.H("table", nil, sections...)}, nil
}

func compileTableRow(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	row, err := mdast.As[*mdast.TableRow](n)
	if err != nil {
		return nil, err
	}
	return element(ctx, "tr", nil, row)
}

func compileTableCell(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	cell, err := mdast.As[*mdast.TableCell](n)
	if err != nil {
		return nil, err
	}
	return element(ctx, "td", nil, cell)
}

func compileLink(ctx *Context, n mdast.Node) ([]hast.Node, error) {
	link, err := mdast.As[*mdast.Link](n)
	if err != nil {
		return nil, err
	}
	props := hast.P("href", link.URL)
	if link.Title != "" {
		props = props.Set("title", link.Title)
	}
	return element(ctx, "a", props, link)
}

func compileImage(_ *Context, n mdast.Node) ([]hast.Node, error) {
	image, err := mdast.As[*mdast.Image](n)
	if err != nil {
		return nil, err
	}
	props := hast.P("src", image.URL, "alt", image.Alt)
	if image.Title != "" {
		props = props.Set("title", image.Title)
	}
	return []hast.Node{hast.H("img", props)}, nil
}

func compileHTML(_ *Context, n mdast.Node) ([]hast.Node, error) {
	html, err := mdast.As[*mdast.HTML](n)
	if err != nil {
		return nil, err
	}
	return []hast.Node{hast.NewRaw(html.Value)}, nil
}
