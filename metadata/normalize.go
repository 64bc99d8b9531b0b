package metadata

import (
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"adventune/skrivpost/mdast"
)

// Normalize returns a tree whose metadata, if any, is a single TOML node in
// first position. When the tree only has legacy metadata the first legacy
// block is converted to TOML; other legacy blocks are dropped. The input tree
// is left untouched.
func Normalize(tree *mdast.Root) (*mdast.Root, error) {
	tomlBlock, legacy := Find(tree)
	if tomlBlock == nil && len(legacy) == 0 {
		return tree, nil
	}
	if tomlBlock != nil && tomlBlock.Index == 0 && len(legacy) == 0 {
		return tree, nil
	}

	var head mdast.Node
	skip := map[int]bool{}
	if tomlBlock != nil {
		head = tree.Children[tomlBlock.Index]
		skip[tomlBlock.Index] = true
	} else {
		value, err := legacyToTOML(legacy[0].Source)
		if err != nil {
			return nil, err
		}
		head = &mdast.TOML{Value: value}
	}
	for _, b := range legacy {
		skip[b.Index] = true
	}

	children := make([]mdast.Node, 0, len(tree.Children)+1)
	children = append(children, head)
	for i, child := range tree.Children {
		if !skip[i] {
			children = append(children, child)
		}
	}
	return mdast.NewRoot(children...), nil
}

func legacyToTOML(source string) (string, error) {
	values, err := parseBlock(FormatYAML, source)
	if err != nil {
		return "", err
	}
	for key, value := range values {
		values[key] = tomlValue(key, value)
	}
	out, err := toml.Marshal(values)
	if err != nil {
		return "", &SchemaError{Format: FormatYAML, Err: err}
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// tomlValue turns YAML dates into TOML local dates.
func tomlValue(key string, value any) any {
	switch v := value.(type) {
	case time.Time:
		if v.Equal(v.Truncate(24*time.Hour)) && v.Location() == time.UTC {
			return localDate(v)
		}
	case string:
		if key != KeyDate {
			return v
		}
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			return localDate(t)
		}
	}
	return value
}

func localDate(t time.Time) toml.LocalDate {
	return toml.LocalDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}
