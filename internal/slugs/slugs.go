// Package slugs converts source paths and taxonomy names into the canonical
// slash-separated page identifiers used for output paths and links.
package slugs

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

// IndexSegment is the slug segment that names a folder landing page.
const IndexSegment = "index"

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// Sluggify makes every segment of s safe for use in a URL path. Whitespace
// becomes "-", "&" and "%" are spelled out, "?" and "#" are dropped.
func Sluggify(s string) string {
	segments := strings.Split(s, "/")
	for i, segment := range segments {
		segments[i] = sluggifySegment(segment)
	}
	return strings.TrimSuffix(strings.Join(segments, "/"), "/")
}

func sluggifySegment(segment string) string {
	var b strings.Builder
	for _, r := range segment {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r == '&':
			b.WriteString("-and-")
		case r == '%':
			b.WriteString("-percent")
		case r == '?', r == '#':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SlugTag sluggifies a hierarchical taxonomy name segment by segment.
func SlugTag(tag string) string {
	segments := strings.Split(tag, "/")
	for i, segment := range segments {
		segments[i] = Sluggify(segment)
	}
	return strings.Join(segments, "/")
}

// SlugifyFilePath turns a content-relative file path into a page slug.
// Markdown and HTML extensions are removed; "_index" names map to "index".
func SlugifyFilePath(fp string) string {
	fp = strings.Trim(filepathToSlash(fp), "/")
	ext := path.Ext(fp)
	withoutExt := strings.TrimSuffix(fp, ext)
	switch strings.ToLower(ext) {
	case ".md", ".markdown", ".html", "":
		ext = ""
	}

	slug := Sluggify(withoutExt)
	if strings.HasSuffix(slug, "_index") {
		slug = strings.TrimSuffix(slug, "_index") + IndexSegment
	}
	return slug + ext
}

func filepathToSlash(fp string) string {
	return strings.ReplaceAll(fp, "\\", "/")
}

// JoinSegments joins non-empty segments with "/" and collapses repeated slashes.
func JoinSegments(segments ...string) string {
	nonEmpty := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return repeatedSlashes.ReplaceAllString(strings.Join(nonEmpty, "/"), "/")
}

// PathToRoot returns the relative path from a page to the site root:
// "." for top-level slugs, "..", "../.." and so on for nested ones.
func PathToRoot(slug string) string {
	depth := 0
	for _, segment := range strings.Split(slug, "/") {
		if segment != "" {
			depth++
		}
	}
	if depth <= 1 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth-1), "/")
}

// SimplifySlug drops a trailing "index" segment and any leading slash.
// The site root simplifies to "/".
func SimplifySlug(slug string) string {
	if slug == IndexSegment {
		slug = ""
	} else if strings.HasSuffix(slug, "/"+IndexSegment) {
		slug = strings.TrimSuffix(slug, IndexSegment)
	}
	slug = strings.TrimLeft(slug, "/")
	if slug == "" {
		return "/"
	}
	return slug
}

// AllSegmentPrefixes expands a hierarchical name into its prefix chain:
// "a/b/c" yields "a", "a/b", "a/b/c".
func AllSegmentPrefixes(name string) []string {
	segments := strings.Split(name, "/")
	out := make([]string, 0, len(segments))
	for i := range segments {
		out = append(out, strings.Join(segments[:i+1], "/"))
	}
	return out
}

// Breadcrumbs returns the parent folder slugs of a page, outermost first.
func Breadcrumbs(slug string) []string {
	slug = strings.TrimSuffix(slug, "/"+IndexSegment)
	segments := strings.Split(slug, "/")
	if len(segments) <= 1 {
		return nil
	}
	out := make([]string, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		out = append(out, strings.Join(segments[:i], "/"))
	}
	return out
}
