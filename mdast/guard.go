package mdast

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// ShapeError reports a node whose type or fields do not match what a consumer
// expected. The message contains the node without its children.
type ShapeError struct {
	Expected Type
	Node     Node
	Err      error
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("expected %s node, got %s", e.Expected, Describe(e.Node))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// MalformedTableError reports a row whose cell count differs from the first row.
type MalformedTableError struct {
	Row      int
	Expected int
	Actual   int
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed table: row %d has %d cells, expected %d", e.Row, e.Actual, e.Expected)
}

type shapeChecker interface {
	checkShape() error
}

// As checks that n is of the concrete node type T and well formed.
// T must be a pointer type of this package (e.g. *Heading).
func As[T Node](n Node) (T, error) {
	var zero T
	typed, ok := n.(T)
	if !ok || isNil(n) {
		return zero, &ShapeError{Expected: zero.Type(), Node: n}
	}
	if checker, ok := any(typed).(shapeChecker); ok {
		if err := checker.checkShape(); err != nil {
			return zero, &ShapeError{Expected: zero.Type(), Node: n, Err: err}
		}
	}
	return typed, nil
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (h *Heading) checkShape() error {
	if h.Depth < 1 || h.Depth > 6 {
		return fmt.Errorf("heading depth %d out of range 1..6", h.Depth)
	}
	return nil
}

func (l *List) checkShape() error {
	for _, child := range l.Children {
		if _, ok := child.(*ListItem); !ok {
			return fmt.Errorf("list child is a %s, not a listItem", typeOf(child))
		}
	}
	return nil
}

func (t *Table) checkShape() error {
	expected := -1
	for i, child := range t.Children {
		row, ok := child.(*TableRow)
		if !ok {
			return fmt.Errorf("table child is a %s, not a tableRow", typeOf(child))
		}
		if err := row.checkShape(); err != nil {
			return err
		}
		if expected < 0 {
			expected = len(row.Children)
			continue
		}
		if len(row.Children) != expected {
			return &MalformedTableError{Row: i, Expected: expected, Actual: len(row.Children)}
		}
	}
	return nil
}

func (r *TableRow) checkShape() error {
	for _, child := range r.Children {
		if _, ok := child.(*TableCell); !ok {
			return fmt.Errorf("table row child is a %s, not a tableCell", typeOf(child))
		}
	}
	return nil
}

func (r *LinkReference) checkShape() error {
	return checkReferenceType(r.ReferenceType)
}

func (r *ImageReference) checkShape() error {
	return checkReferenceType(r.ReferenceType)
}

func checkReferenceType(t ReferenceType) error {
	switch t {
	case ReferenceShortcut, ReferenceCollapsed, ReferenceFull:
		return nil
	}
	return fmt.Errorf("unknown reference type %q", t)
}

func typeOf(n Node) string {
	if isNil(n) {
		return "nil"
	}
	return string(n.Type())
}

// Describe renders n as JSON with its children left out.
func Describe(n Node) string {
	if isNil(n) {
		return "null"
	}

	// Work on a copy so the caller's node keeps its children.
	value := reflect.ValueOf(n)
	var subject any = n
	if value.Kind() == reflect.Pointer && value.Elem().Kind() == reflect.Struct {
		shallow := reflect.New(value.Elem().Type())
		shallow.Elem().Set(value.Elem())
		if field := shallow.Elem().FieldByName("Parent"); field.IsValid() && field.CanSet() {
			field.Set(reflect.Zero(field.Type()))
		}
		subject = shallow.Interface()
	}

	raw, err := json.Marshal(subject)
	if err != nil {
		return string(n.Type())
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return string(n.Type())
	}
	fields["type"] = n.Type()
	out, err := json.Marshal(fields)
	if err != nil {
		return string(n.Type())
	}
	return string(out)
}

// IsMalformedTable reports whether err was caused by inconsistent table rows.
func IsMalformedTable(err error) bool {
	var malformed *MalformedTableError
	return errors.As(err, &malformed)
}
