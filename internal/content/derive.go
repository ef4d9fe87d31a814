package content

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/inful/mdfp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/catpages/internal/frontmatter"
)

// maxDescriptionRunes bounds descriptions extracted from body text.
const maxDescriptionRunes = 150

var titleCaser = cases.Title(language.Und)

// TitleFromPath derives a display title from a file name:
// "getting-started_guide.md" becomes "Getting Started Guide".
func TitleFromPath(rel string) string {
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(rel, "\\", "/")), path.Ext(rel))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return titleCaser.String(strings.Join(strings.Fields(base), " "))
}

// ExtractDescription returns the text of the first non-empty paragraph of
// rendered HTML, cut at a word boundary.
func ExtractDescription(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var text string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = strings.Join(strings.Fields(s.Text()), " ")
		return text == ""
	})
	return truncateWords(text, maxDescriptionRunes)
}

func truncateWords(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)[:limit]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}

// Fingerprint computes a stable content fingerprint over canonical
// frontmatter and the Markdown body.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		hashed[k] = v
	}

	fm := ""
	if len(hashed) > 0 {
		canonical, err := frontmatter.Canonical(hashed)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(canonical), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
