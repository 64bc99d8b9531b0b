package mdast

// Constructors used by the parser adapter and in tests.

func NewRoot(children ...Node) *Root {
	return &Root{Parent{Children: children}}
}

func NewHeading(depth int, children ...Node) *Heading {
	return &Heading{Parent: Parent{Children: children}, Depth: depth}
}

func NewParagraph(children ...Node) *Paragraph {
	return &Paragraph{Parent{Children: children}}
}

func NewText(value string) *Text {
	return &Text{Value: value}
}

func NewEmphasis(children ...Node) *Emphasis {
	return &Emphasis{Parent{Children: children}}
}

func NewStrong(children ...Node) *Strong {
	return &Strong{Parent{Children: children}}
}

func NewList(ordered, spread bool, items ...Node) *List {
	return &List{Parent: Parent{Children: items}, Ordered: ordered, Spread: spread}
}

func NewListItem(spread bool, children ...Node) *ListItem {
	return &ListItem{Parent: Parent{Children: children}, Spread: spread}
}

// NewTaskListItem returns a list item carrying a checkbox.
func NewTaskListItem(checked, spread bool, children ...Node) *ListItem {
	item := NewListItem(spread, children...)
	item.Checked = &checked
	return item
}

// NewTable returns a table after checking every row has the same number of cells.
func NewTable(rows ...*TableRow) (*Table, error) {
	table := &Table{}
	for _, row := range rows {
		table.Children = append(table.Children, row)
	}
	if err := table.checkShape(); err != nil {
		return nil, err
	}
	return table, nil
}

// NewTableRow returns a row with one cell per argument.
func NewTableRow(cells ...*TableCell) *TableRow {
	row := &TableRow{}
	for _, cell := range cells {
		row.Children = append(row.Children, cell)
	}
	return row
}

func NewTableCell(children ...Node) *TableCell {
	return &TableCell{Parent{Children: children}}
}

func NewLink(url, title string, children ...Node) *Link {
	return &Link{Parent: Parent{Children: children}, URL: url, Title: title}
}

func NewLinkReference(identifier string, referenceType ReferenceType, children ...Node) *LinkReference {
	return &LinkReference{
		Parent:        Parent{Children: children},
		Identifier:    NormalizeLabel(identifier),
		Label:         identifier,
		ReferenceType: referenceType,
	}
}

func NewImageReference(identifier string, referenceType ReferenceType, alt string) *ImageReference {
	return &ImageReference{
		Identifier:    NormalizeLabel(identifier),
		Label:         identifier,
		ReferenceType: referenceType,
		Alt:           alt,
	}
}

func NewDefinition(label, url, title string) *Definition {
	return &Definition{Identifier: NormalizeLabel(label), Label: label, URL: url, Title: title}
}

func NewFootnote(children ...Node) *Footnote {
	return &Footnote{Parent{Children: children}}
}

func NewFootnoteReference(label string) *FootnoteReference {
	return &FootnoteReference{Identifier: NormalizeLabel(label), Label: label}
}

func NewFootnoteDefinition(label string, children ...Node) *FootnoteDefinition {
	return &FootnoteDefinition{
		Parent:     Parent{Children: children},
		Identifier: NormalizeLabel(label),
		Label:      label,
	}
}
