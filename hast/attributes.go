package hast

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"adventune/skrivpost/escape"
)

// ErrNaNAttribute is returned when a property holds NaN. A NaN in markup is
// always a caller bug, so the whole element fails.
var ErrNaNAttribute = errors.New("attribute value is NaN")

var validAttributeName = regexp.MustCompile(`^[-_a-zA-Z0-9]+$`)

// Property is a single attribute of an element.
type Property struct {
	Name  string
	Value any
}

// Properties keeps attributes in insertion order.
type Properties []Property

// P builds properties from alternating name/value arguments.
//
//	hast.P("class", "footnotes", "id", "fn-1")
func P(pairs ...any) Properties {
	props := make(Properties, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		props = append(props, Property{Name: name, Value: pairs[i+1]})
	}
	return props
}

// Get returns the value of the named property.
func (p Properties) Get(name string) (any, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return nil, false
}

// Set replaces the named property, or appends it when absent.
func (p Properties) Set(name string, value any) Properties {
	for i, prop := range p {
		if prop.Name == name {
			p[i].Value = value
			return p
		}
	}
	return append(p, Property{Name: name, Value: value})
}

// WriteAttributes renders properties as an HTML attribute string, without a
// leading space. Attributes with invalid names are dropped.
func WriteAttributes(props Properties) (string, error) {
	var parts []string
	for _, prop := range props {
		if !validAttributeName.MatchString(prop.Name) {
			continue
		}
		value, ok, err := attributeValue(prop.Value)
		if err != nil {
			return "", fmt.Errorf("attribute %q: %w", prop.Name, err)
		}
		if !ok {
			continue
		}
		if value == "" {
			parts = append(parts, prop.Name)
			continue
		}
		parts = append(parts, prop.Name+`="`+value+`"`)
	}
	return strings.Join(parts, " "), nil
}

// attributeValue normalizes a property value. ok is false when the attribute
// must be omitted entirely; an empty value renders a bare attribute name.
func attributeValue(value any) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", true, nil
	case bool:
		return "", v, nil
	case string:
		return escape.Escape(v), true, nil
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case []string:
		return escape.Escape(strings.Join(v, " ")), true, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Slice, reflect.Array:
		var parts []string
		for i := 0; i < rv.Len(); i++ {
			part, ok, err := attributeValue(rv.Index(i).Interface())
			if err != nil {
				return "", false, err
			}
			if ok && part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, " "), true, nil
	}
	// Functions, channels, maps, structs (dates, regexps...) keep the bare name only.
	return "", true, nil
}

func formatFloat(f float64) (string, bool, error) {
	if math.IsNaN(f) {
		return "", false, ErrNaNAttribute
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true, nil
}
