package markdown

import (
	"bytes"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

// RawFrontmatter holds header values exactly as decoded from the document,
// before any validation. Dates stay strings so malformed values can be
// reported instead of silently coerced.
type RawFrontmatter struct {
	Title        string         `yaml:"title" json:"title"`
	Date         string         `yaml:"date" json:"date"`
	Category     string         `yaml:"category" json:"category"`
	Slug         string         `yaml:"slug" json:"slug"`
	Tags         []string       `yaml:"tags" json:"tags"`
	Summary      string         `yaml:"summary" json:"summary"`
	Excerpt      string         `yaml:"excerpt" json:"excerpt"`
	FeatureImage string         `yaml:"featureImage" json:"featureImage"`
	Extra        map[string]any `yaml:",inline" json:"-"`
}

// ParseFrontMatter splits source into its decoded header and the Markdown
// body without delimiters. Documents without a header yield a zero header and
// the full source as body.
func ParseFrontMatter(source []byte) (RawFrontmatter, []byte, error) {
	var meta RawFrontmatter

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return RawFrontmatter{}, nil, goerrors.Wrap(err, goerrors.CategoryValidation, "frontmatter could not be decoded").
			WithTextCode(TextCodeFrontmatterInvalid)
	}
	return meta, body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content and modification time.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, RawFrontmatter, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		if typed, ok := err.(*goerrors.Error); ok {
			typed.WithMetadata(map[string]any{"path": path, "header": rawHeader(source)})
		}
		return nil, RawFrontmatter{}, err
	}

	return &interfaces.Document{
		FilePath:     path,
		Header:       meta.Map(),
		Body:         body,
		LastModified: modified,
	}, meta, nil
}

// Map flattens the header into a generic map, used for diagnostics.
func (raw RawFrontmatter) Map() map[string]any {
	out := make(map[string]any, len(raw.Extra)+8)
	for key, value := range raw.Extra {
		out[key] = value
	}

	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set("title", raw.Title)
	set("date", raw.Date)
	set("category", raw.Category)
	set("slug", raw.Slug)
	set("summary", raw.Summary)
	set("excerpt", raw.Excerpt)
	set("featureImage", raw.FeatureImage)
	if len(raw.Tags) > 0 {
		out["tags"] = append([]string(nil), raw.Tags...)
	}
	return out
}

// rawHeader returns the lines between the opening delimiter and its closing
// twin, or "" when source has no header.
func rawHeader(source []byte) string {
	lines := strings.SplitAfter(string(source), "\n")
	delim := strings.TrimSpace(strings.TrimPrefix(lines[0], "\ufeff"))
	if delim != "---" && delim != "+++" {
		return ""
	}
	var b strings.Builder
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == delim {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}
