// Package mdsource writes a Markdown tree back out as canonical Markdown text.
//
// The output is stable: rendering a parsed document again yields the same
// text. TOML frontmatter is kept verbatim between +++ lines.
package mdsource

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"adventune/skrivpost/mdast"
)

// FrontmatterDelimiter surrounds the TOML frontmatter.
const FrontmatterDelimiter = "+++"

// UnsupportedNodeError reports a node that has no Markdown form at its position.
type UnsupportedNodeError struct {
	Type mdast.Type
}

func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("cannot write %q node as markdown", e.Type)
}

var entityLike = regexp.MustCompile(`^&#?[0-9A-Za-z]+;`)

// Render returns the Markdown text of root, ending with a newline.
func Render(root *mdast.Root) (string, error) {
	out, err := blocks(root.Children, "\n\n")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

func blocks(nodes []mdast.Node, sep string) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, err := block(n)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}

func block(n mdast.Node) (string, error) {
	switch v := n.(type) {
	case *mdast.TOML:
		return FrontmatterDelimiter + "\n" + v.Value + "\n" + FrontmatterDelimiter, nil
	case *mdast.Heading:
		text, err := inlines(v.Children)
		if err != nil {
			return "", err
		}
		return strings.Repeat("#", v.Depth) + " " + strings.ReplaceAll(text, "\n", " "), nil
	case *mdast.Paragraph:
		return inlines(v.Children)
	case *mdast.Code:
		return codeBlock(v), nil
	case *mdast.ThematicBreak:
		return "***", nil
	case *mdast.Blockquote:
		content, err := blocks(v.Children, "\n\n")
		if err != nil {
			return "", err
		}
		return prefixLines(content, "> ", ">"), nil
	case *mdast.List:
		return list(v)
	case *mdast.Table:
		return table(v)
	case *mdast.Definition:
		return "[" + label(v.Identifier, v.Label) + "]: " + destination(v.URL) + title(v.Title), nil
	case *mdast.FootnoteDefinition:
		content, err := blocks(v.Children, "\n\n")
		if err != nil {
			return "", err
		}
		return "[^" + label(v.Identifier, v.Label) + "]: " + indentTail(content, "    "), nil
	case *mdast.HTML:
		return v.Value, nil
	}
	return "", &UnsupportedNodeError{Type: n.Type()}
}

func codeBlock(code *mdast.Code) string {
	fence := "```"
	for strings.Contains(code.Value, fence) {
		fence += "`"
	}
	info := code.Lang
	if code.Meta != "" {
		info += " " + code.Meta
	}
	return fence + info + "\n" + code.Value + "\n" + fence
}

func list(l *mdast.List) (string, error) {
	sep := "\n"
	if l.Spread {
		sep = "\n\n"
	}
	items := make([]string, 0, len(l.Children))
	for i, child := range l.Children {
		item, ok := child.(*mdast.ListItem)
		if !ok {
			return "", &UnsupportedNodeError{Type: child.Type()}
		}
		marker := "- "
		if l.Ordered {
			marker = strconv.Itoa(l.StartNumber()+i) + ". "
		}
		s, err := listItem(item, marker)
		if err != nil {
			return "", err
		}
		items = append(items, s)
	}
	return strings.Join(items, sep), nil
}

func listItem(item *mdast.ListItem, marker string) (string, error) {
	sep := "\n"
	if item.Spread {
		sep = "\n\n"
	}
	content, err := blocks(item.Children, sep)
	if err != nil {
		return "", err
	}
	if item.Checked != nil {
		box := "[ ] "
		if *item.Checked {
			box = "[x] "
		}
		content = box + content
	}
	return marker + indentTail(content, strings.Repeat(" ", len(marker))), nil
}

func table(t *mdast.Table) (string, error) {
	var rows []string
	for i, child := range t.Children {
		row, ok := child.(*mdast.TableRow)
		if !ok {
			return "", &UnsupportedNodeError{Type: child.Type()}
		}
		cells := make([]string, 0, len(row.Children))
		for _, c := range row.Children {
			cell, err := inlines(mdast.Children(c))
			if err != nil {
				return "", err
			}
			cells = append(cells, strings.ReplaceAll(cell, "|", `\|`))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			rows = append(rows, delimiterRow(t.Align, len(cells)))
		}
	}
	return strings.Join(rows, "\n"), nil
}

func delimiterRow(align []mdast.Align, columns int) string {
	cells := make([]string, columns)
	for i := range cells {
		a := mdast.AlignNone
		if i < len(align) {
			a = align[i]
		}
		switch a {
		case mdast.AlignLeft:
			cells[i] = ":--"
		case mdast.AlignRight:
			cells[i] = "--:"
		case mdast.AlignCenter:
			cells[i] = ":-:"
		default:
			cells[i] = "---"
		}
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

func inlines(nodes []mdast.Node) (string, error) {
	var b strings.Builder
	for i, n := range nodes {
		lineStart := b.Len() == 0 || strings.HasSuffix(b.String(), "\n")
		s, err := inline(n, lineStart)
		if err != nil {
			return "", err
		}
		if _, ok := n.(*mdast.Text); ok && i+1 < len(nodes) && opensBracket(nodes[i+1]) {
			s = escapeBracketPrefix(s)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func opensBracket(n mdast.Node) bool {
	switch n.(type) {
	case *mdast.Link, *mdast.LinkReference, *mdast.FootnoteReference:
		return true
	}
	return false
}

// escapeBracketPrefix escapes a trailing ! or ^ so the following link does not
// turn into an image or an inline footnote.
func escapeBracketPrefix(s string) string {
	if strings.HasSuffix(s, "!") || strings.HasSuffix(s, "^") {
		return s[:len(s)-1] + "\\" + s[len(s)-1:]
	}
	return s
}

func inline(n mdast.Node, lineStart bool) (string, error) {
	wrap := func(delim string, children []mdast.Node) (string, error) {
		s, err := inlines(children)
		if err != nil {
			return "", err
		}
		return delim + s + delim, nil
	}

	switch v := n.(type) {
	case *mdast.Text:
		return escapeText(v.Value, lineStart), nil
	case *mdast.Emphasis:
		return wrap("*", v.Children)
	case *mdast.Strong:
		return wrap("**", v.Children)
	case *mdast.Delete:
		return wrap("~~", v.Children)
	case *mdast.InlineCode:
		return inlineCode(v.Value), nil
	case *mdast.Break:
		return "\\\n", nil
	case *mdast.Link:
		text, err := inlines(v.Children)
		if err != nil {
			return "", err
		}
		return "[" + text + "](" + destination(v.URL) + title(v.Title) + ")", nil
	case *mdast.Image:
		return "![" + escapeText(v.Alt, false) + "](" + destination(v.URL) + title(v.Title) + ")", nil
	case *mdast.LinkReference:
		text, err := inlines(v.Children)
		if err != nil {
			return "", err
		}
		return reference("", text, label(v.Identifier, v.Label), v.ReferenceType), nil
	case *mdast.ImageReference:
		return reference("!", escapeText(v.Alt, false), label(v.Identifier, v.Label), v.ReferenceType), nil
	case *mdast.FootnoteReference:
		return "[^" + label(v.Identifier, v.Label) + "]", nil
	case *mdast.Footnote:
		text, err := inlines(v.Children)
		if err != nil {
			return "", err
		}
		return "^[" + text + "]", nil
	case *mdast.HTML:
		return v.Value, nil
	}
	return "", &UnsupportedNodeError{Type: n.Type()}
}

// reference writes the link text inside the first brackets. Collapsed and
// shortcut references fall back to the label when the text is empty.
func reference(prefix, text, label string, refType mdast.ReferenceType) string {
	if refType == mdast.ReferenceFull {
		return prefix + "[" + text + "][" + label + "]"
	}
	if text == "" {
		text = label
	}
	if refType == mdast.ReferenceCollapsed {
		return prefix + "[" + text + "][]"
	}
	return prefix + "[" + text + "]"
}

func label(identifier, label string) string {
	if label != "" {
		return label
	}
	return identifier
}

func inlineCode(value string) string {
	fence := "`"
	for strings.Contains(value, fence) {
		fence += "`"
	}
	if strings.HasPrefix(value, "`") || strings.HasSuffix(value, "`") ||
		(strings.HasPrefix(value, " ") && strings.HasSuffix(value, " ") && strings.TrimSpace(value) != "") {
		value = " " + value + " "
	}
	return fence + value + fence
}

func destination(url string) string {
	if url == "" || strings.ContainsAny(url, " ()<>") {
		url = strings.NewReplacer("<", `\<`, ">", `\>`).Replace(url)
		return "<" + url + ">"
	}
	return url
}

func title(t string) string {
	if t == "" {
		return ""
	}
	return ` "` + strings.ReplaceAll(t, `"`, `\"`) + `"`
}

// escapeText backslash-escapes the characters that would otherwise turn text
// into syntax. Intraword underscores are left alone.
func escapeText(s string, lineStart bool) string {
	runes := []rune(s)
	var b strings.Builder
	lineBegin := 0
	for i, r := range runes {
		if i > 0 && runes[i-1] == '\n' {
			lineStart = true
			lineBegin = i
		}
		atStart := lineStart && i == lineBegin
		switch r {
		case '\\', '*', '`', '[', ']', '<', '~':
			b.WriteRune('\\')
		case '_':
			if !(i > 0 && isWord(runes[i-1]) && i+1 < len(runes) && isWord(runes[i+1])) {
				b.WriteRune('\\')
			}
		case '#', '>', '+', '-', '=':
			if atStart {
				b.WriteRune('\\')
			}
		case '&':
			if entityLike.MatchString(string(runes[i:])) {
				b.WriteRune('\\')
			}
		case '.', ')':
			if lineStart && i > lineBegin && allDigits(runes[lineBegin:i]) &&
				(i+1 == len(runes) || runes[i+1] == ' ') {
				b.WriteRune('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// indentTail indents every line but the first. Empty lines stay empty.
func indentTail(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func prefixLines(s, prefix, empty string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = empty
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
