package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Well-known frontmatter keys.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyCategories  = "categories"
	KeyTags        = "tags"
	KeyCSSClasses  = "cssclasses"
	KeyDate        = "date"
	KeyDraft       = "draft"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// Frontmatter is the typed view of a document's YAML header. Fields keeps the
// raw map so callers can read keys catpages does not model.
type Frontmatter struct {
	Title       string
	Description string
	Categories  []string
	Tags        []string
	CSSClasses  []string
	Date        time.Time
	Draft       bool
	Fields      map[string]any
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// A document without a leading delimiter has no frontmatter and its full
// content is the body.
func Split(content []byte) (fm []byte, body []byte, err error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline is still valid.
		if bytes.HasSuffix(rest, []byte(nl+"---")) {
			return rest[:len(rest)-len("---")], []byte{}, nil
		}
		return nil, nil, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(fm []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(fm)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Parse splits a document and decodes its frontmatter.
func Parse(content []byte) (*Frontmatter, []byte, error) {
	raw, body, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter yaml: %w", err)
	}
	fm, err := Decode(fields)
	if err != nil {
		return nil, nil, err
	}
	return fm, body, nil
}

// Decode builds a Frontmatter from a raw field map, coercing list-like keys
// that were written as a single string.
func Decode(fields map[string]any) (*Frontmatter, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	fm := &Frontmatter{
		Title:       stringField(fields, KeyTitle),
		Description: stringField(fields, KeyDescription),
		Categories:  coerceList(fields[KeyCategories]),
		Tags:        coerceList(fields[KeyTags]),
		CSSClasses:  coerceList(fields[KeyCSSClasses]),
		Fields:      fields,
	}

	if draft, ok := fields[KeyDraft].(bool); ok {
		fm.Draft = draft
	}

	switch d := fields[KeyDate].(type) {
	case nil:
	case time.Time:
		fm.Date = d
	case string:
		parsed, err := parseDate(d)
		if err != nil {
			return nil, err
		}
		fm.Date = parsed
	default:
		return nil, fmt.Errorf("frontmatter %s: unsupported type %T", KeyDate, d)
	}
	return fm, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("frontmatter %s: cannot parse %q", KeyDate, s)
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// coerceList accepts a YAML sequence or a comma separated string and
// returns trimmed, non-empty, de-duplicated entries in their original order.
func coerceList(v any) []string {
	var raw []string
	switch vv := v.(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(vv, ",")
	case []string:
		raw = vv
	case []any:
		for _, item := range vv {
			if item == nil {
				continue
			}
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = []string{fmt.Sprint(vv)}
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
