package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

var (
	plainTextSyntax     = regexp.MustCompile("[#*_`\\[\\]()]")
	plainTextWhitespace = regexp.MustCompile(`\s+`)
)

// ExtractPlainText returns the searchable prose of a parsed body. Code, math,
// images and raw HTML are left out.
func ExtractPlainText(doc ast.Node, source []byte) string {
	if doc == nil {
		return ""
	}

	var b strings.Builder
	lastStop := -1
	separate := func() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
	}

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if skipPlainText(node) {
			lastStop = -1
			return ast.WalkSkipChildren, nil
		}

		switch n := node.(type) {
		case *ast.Text:
			segment := n.Segment
			// goldmark splits runs of prose at inline triggers; segments that
			// touch are one word.
			if segment.Start != lastStop {
				separate()
			}
			b.Write(segment.Value(source))
			lastStop = segment.Stop
			if n.SoftLineBreak() || n.HardLineBreak() {
				lastStop = -1
			}
		case *ast.String:
			separate()
			b.Write(n.Value)
			lastStop = -1
		case *ast.AutoLink:
			separate()
			b.Write(n.Label(source))
			lastStop = -1
			return ast.WalkSkipChildren, nil
		default:
			if node.Type() == ast.TypeBlock {
				lastStop = -1
			}
		}
		return ast.WalkContinue, nil
	})

	return normalizePlainText(b.String())
}

func skipPlainText(node ast.Node) bool {
	if _, ok := mathSource(node); ok {
		return true
	}
	switch node.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.CodeSpan,
		*ast.Image, *ast.RawHTML, *ast.HTMLBlock:
		return true
	}
	return false
}

func normalizePlainText(value string) string {
	value = plainTextSyntax.ReplaceAllString(value, " ")
	value = plainTextWhitespace.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// BuildSearchText composes the lowercase index string for a post: title,
// summary, excerpt, tags and body prose, skipping empty parts.
func BuildSearchText(fm interfaces.Frontmatter, plain string) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{
		fm.Title,
		fm.Summary,
		fm.Excerpt,
		strings.Join(fm.Tags, " "),
		plain,
	} {
		if strings.TrimSpace(part) == "" {
			continue
		}
		parts = append(parts, part)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
