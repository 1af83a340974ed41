package markdown

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9 _-]`)
	slugSeparators = regexp.MustCompile(`[ _]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// NormalizeSlug maps an arbitrary string onto the canonical post identifier:
// lowercase ASCII letters, digits and single inner hyphens. Diacritics are
// dropped after canonical decomposition, so "Café" becomes "cafe". The result
// may be empty when the input has no usable characters.
func NormalizeSlug(input string) string {
	value := strings.TrimSpace(strings.ToLower(input))

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if decomposed, _, err := transform.String(stripMarks, value); err == nil {
		value = decomposed
	}

	value = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, value)

	value = slugDisallowed.ReplaceAllString(value, "")
	value = slugSeparators.ReplaceAllString(value, "-")
	value = slugHyphens.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

// PathSlug derives a slug from a content-root relative file path: the
// extension is dropped and directory separators become hyphens.
func PathSlug(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return NormalizeSlug(strings.ReplaceAll(rel, "/", "-"))
}

// TagSlug normalises a tag into the key used for tag filtering.
func TagSlug(tag string) (string, error) {
	return slug.Normalize(strings.TrimSpace(tag))
}

// IsValidSlug reports whether value is already in canonical form.
func IsValidSlug(value string) bool {
	return value != "" && NormalizeSlug(value) == value
}
