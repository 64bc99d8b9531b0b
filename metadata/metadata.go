// Package metadata extracts and validates the frontmatter of a post.
//
// Two formats are supported: a TOML frontmatter node, and the legacy format,
// a fenced code block whose first line is "# Metadata" followed by YAML.
package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"adventune/skrivpost/mdast"
)

// PostType selects the document template.
type PostType string

const (
	PostTypePost        PostType = "Post"
	PostTypeLandingPage PostType = "LandingPage"
)

// PublishState tells whether a post is ready to be published.
type PublishState string

const (
	Draft     PublishState = "Draft"
	Published PublishState = "Published"
)

// Metadata keys.
const (
	KeySlug         = "slug"
	KeyDate         = "date"
	KeyPublishState = "publish_state"
	KeyPostType     = "post_type"
)

// MarkerLine starts a legacy metadata code block.
const MarkerLine = "# Metadata"

// ScanLimit is the number of top-level nodes searched for metadata.
// Frontmatter must appear near the top of a post.
const ScanLimit = 5

// Format of a metadata block.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// PostMetadata is the validated frontmatter of a post.
type PostMetadata struct {
	Slug         string
	Date         time.Time
	PostType     PostType
	PublishState PublishState
	// Schema holds every key as parsed from the frontmatter.
	Schema map[string]any
}

// Default returns the metadata used for posts without frontmatter.
func Default() PostMetadata {
	return PostMetadata{
		PostType:     PostTypePost,
		PublishState: Draft,
		Schema:       map[string]any{},
	}
}

func (m PostMetadata) IsDraft() bool {
	return m.PublishState != Published
}

// SchemaError reports metadata that cannot be parsed or does not match the schema.
type SchemaError struct {
	Format Format
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid %s post metadata: %v", e.Format, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Block is a metadata node found among the first children of the root.
type Block struct {
	Index  int
	Format Format
	// Source is the TOML or YAML text, without delimiters or marker line.
	Source string
}

// Find returns the TOML block (if any) and every legacy block found within ScanLimit.
func Find(tree *mdast.Root) (*Block, []*Block) {
	var tomlBlock *Block
	var legacy []*Block
	for i, child := range tree.Children {
		if i >= ScanLimit {
			break
		}
		switch n := child.(type) {
		case *mdast.TOML:
			if tomlBlock == nil {
				tomlBlock = &Block{Index: i, Format: FormatTOML, Source: n.Value}
			}
		case *mdast.Code:
			if source, ok := legacySource(n.Value); ok {
				legacy = append(legacy, &Block{Index: i, Format: FormatYAML, Source: source})
			}
		}
	}
	return tomlBlock, legacy
}

// legacySource returns the YAML following the marker line of a legacy block.
func legacySource(code string) (string, bool) {
	first, rest, _ := strings.Cut(code, "\n")
	if strings.TrimRight(first, " \t\r") != MarkerLine {
		return "", false
	}
	return rest, true
}

// Extract returns the metadata of the tree, or nil when the tree has none.
func Extract(tree *mdast.Root) (*PostMetadata, error) {
	tomlBlock, legacy := Find(tree)
	source := tomlBlock
	if source == nil && len(legacy) > 0 {
		source = legacy[0]
	}
	if source == nil {
		return nil, nil
	}

	values, err := parseBlock(source.Format, source.Source)
	if err != nil {
		return nil, err
	}
	return fromValues(source.Format, values)
}

func parseBlock(format Format, source string) (map[string]any, error) {
	values := map[string]any{}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal([]byte(source), &values)
	case FormatYAML:
		err = yaml.Unmarshal([]byte(source), &values)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, &SchemaError{Format: format, Err: err}
	}
	return values, nil
}

// A slug names the output directory of a post, so it must be a single path segment.
var slugPattern = regexp.MustCompile(`^[-_a-zA-Z0-9.]+$`)

// ValidSlug reports whether slug can name the output directory of a post.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug) && slug != "." && slug != ".."
}

func validate(values map[string]any) error {
	return validation.Validate(values, validation.Map(
		validation.Key(KeySlug,
			validation.Required,
			validation.By(isString),
			validation.Match(slugPattern).Error("must be a single path segment"),
			validation.NotIn(".", "..").Error("must be a single path segment"),
		),
		validation.Key(KeyDate, validation.Required, validation.By(isDate)),
		validation.Key(KeyPublishState,
			validation.By(isString),
			validation.In(string(Draft), string(Published)),
		).Optional(),
		validation.Key(KeyPostType,
			validation.By(isString),
			validation.In(string(PostTypePost), string(PostTypeLandingPage)),
		).Optional(),
	))
}

func fromValues(format Format, values map[string]any) (*PostMetadata, error) {
	if err := validate(values); err != nil {
		return nil, &SchemaError{Format: format, Err: err}
	}

	date, err := toDate(values[KeyDate])
	if err != nil {
		return nil, &SchemaError{Format: format, Err: err}
	}
	meta := Default()
	meta.Slug = values[KeySlug].(string)
	meta.Date = date
	meta.Schema = values
	if state, ok := values[KeyPublishState].(string); ok {
		meta.PublishState = PublishState(state)
	}
	if postType, ok := values[KeyPostType].(string); ok {
		meta.PostType = PostType(postType)
	}
	return &meta, nil
}

func isString(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("must be a string, got %T", value)
	}
	return nil
}

func isDate(value any) error {
	_, err := toDate(value)
	return err
}

// toDate accepts the date representations produced by the TOML and YAML decoders.
func toDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case toml.LocalDate:
		return v.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return v.AsTime(time.UTC), nil
	case string:
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("%q is not a valid date", v)
	}
	return time.Time{}, fmt.Errorf("must be a date, got %T", value)
}
