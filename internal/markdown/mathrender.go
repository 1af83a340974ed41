package markdown

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/go-latex/latex"
	texast "github.com/go-latex/latex/ast"
	goerrors "github.com/goliatone/go-errors"
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

// MathRenderer typesets TeX expressions as MathML. It holds no per-document
// state and can be shared.
type MathRenderer struct {
	logger interfaces.Logger
}

// NewMathRenderer returns a renderer that reports fallbacks to logger.
func NewMathRenderer(logger interfaces.Logger) *MathRenderer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &MathRenderer{logger: logger}
}

// Render returns MathML for source, or the escaped source itself when the
// expression cannot be typeset. It never fails.
func (r *MathRenderer) Render(source string, display bool) string {
	markup, err := r.TryRender(source, display)
	if err != nil {
		r.logger.Warn("writing.math.fallback", "error", err, "display", display)
		return fallbackMarkup(source)
	}
	return markup
}

// TryRender is Render without the fallback. Parser panics are recovered and
// returned as errors.
func (r *MathRenderer) TryRender(source string, display bool) (markup string, err error) {
	expr := "$" + rewriteTeX(source) + "$"

	defer func() {
		if rec := recover(); rec != nil {
			markup = ""
			err = mathRenderError(source, fmt.Sprint(rec))
		}
	}()

	node, err := latex.ParseExpr(expr)
	if err != nil {
		return "", mathRenderError(source, err.Error())
	}
	list, ok := node.(texast.List)
	if !ok || len(list) != 1 {
		return "", mathRenderError(source, "expected a single math expression")
	}
	expression, ok := list[0].(*texast.MathExpr)
	if !ok {
		return "", mathRenderError(source, "expected a single math expression")
	}

	writer := &mathMLWriter{expr: expr, display: display}
	body, err := writer.row(expression.List)
	if err != nil {
		return "", mathRenderError(source, err.Error())
	}
	return wrapMathML(body, source, display), nil
}

func wrapMathML(body, source string, display bool) string {
	mode := "inline"
	if display {
		mode = "block"
	}
	var b strings.Builder
	b.WriteString(`<math xmlns="http://www.w3.org/1998/Math/MathML" display="`)
	b.WriteString(mode)
	b.WriteString(`"><semantics>`)
	b.WriteString(body)
	b.WriteString(`<annotation encoding="application/x-tex">`)
	b.WriteString(html.EscapeString(source))
	b.WriteString(`</annotation></semantics></math>`)
	return b.String()
}

func fallbackMarkup(source string) string {
	return html.EscapeString(source)
}

func mathRenderError(source, cause string) error {
	return goerrors.New("math expression could not be typeset", goerrors.CategoryBadInput).
		WithTextCode(TextCodeMathRender).
		WithMetadata(map[string]any{
			"source": source,
			"cause":  cause,
		})
}

// texAliases rewrites common macros onto forms the TeX parser understands.
var texAliases = map[string]string{
	"le":         `\leq`,
	"ge":         `\geq`,
	"ne":         `\neq`,
	"leqslant":   `\leq`,
	"geqslant":   `\geq`,
	"to":         `\rightarrow`,
	"gets":       `\leftarrow`,
	"iff":        `\Longleftrightarrow`,
	"implies":    `\Longrightarrow`,
	"land":       `\wedge`,
	"lor":        `\vee`,
	"lvert":      `\vert`,
	"rvert":      `\vert`,
	"lVert":      `\Vert`,
	"rVert":      `\Vert`,
	"mathrm":     `\mathregular`,
	"boldsymbol": `\mathbf`,
	"bm":         `\mathbf`,
	"text":       `\textregular`,
	"textrm":     `\textregular`,
	"textnormal": `\textregular`,
	"mbox":       `\textregular`,
	"bar":        `\overline`,
	"widehat":    `\stackrel{\mathdefault{hat}}`,
	"widetilde":  `\stackrel{\mathdefault{tilde}}`,

	"displaystyle": "",
	"textstyle":    "",
	"limits":       "",
	"nolimits":     "",
	"left":         "",
	"right":        "",
	"big":          "",
	"Big":          "",
	"bigl":         "",
	"bigr":         "",
	"Bigl":         "",
	"Bigr":         "",
}

var texEscapes = map[byte]string{
	',': " ",
	';': " ",
	':': " ",
	'>': " ",
	'!': "",
	'{': `\mathdefault{lbrace}`,
	'}': `\mathdefault{rbrace}`,
	'|': `\Vert `,
	'%': `\mathdefault{percent}`,
	'#': `\mathdefault{hash}`,
	'&': `\mathdefault{amp}`,
	'_': `\mathdefault{underscore}`,
	'$': `\mathdefault{dollar}`,
}

// rewriteTeX maps source onto the subset of TeX the parser accepts. Anything
// it leaves unsupported makes the parser fail, which triggers the fallback.
func rewriteTeX(source string) string {
	var b strings.Builder
	b.Grow(len(source) + 16)

	for i := 0; i < len(source); i++ {
		c := source[i]
		switch c {
		case '|':
			b.WriteString(`\vert `)
			continue
		case '~':
			b.WriteByte(' ')
			continue
		case '\\':
		default:
			b.WriteByte(c)
			continue
		}

		j := i + 1
		for j < len(source) && isASCIILetter(source[j]) {
			j++
		}
		if j == i+1 {
			if j < len(source) {
				if replacement, ok := texEscapes[source[j]]; ok {
					b.WriteString(replacement)
				} else {
					b.WriteByte('\\')
					b.WriteByte(source[j])
				}
				i = j
				continue
			}
			b.WriteByte('\\')
			continue
		}

		name := source[i+1 : j]
		i = j - 1
		if replacement, ok := texAliases[name]; ok {
			b.WriteString(replacement)
			if (name == "left" || name == "right") && j < len(source) && source[j] == '.' {
				i = j
			}
			continue
		}
		if glyph, ok := mathGlyphs[name]; ok {
			if glyph.accent {
				b.WriteString(`\stackrel{` + glyphMacro + `{` + name + `}}`)
			} else {
				b.WriteString(glyphMacro + `{` + name + `}`)
			}
			continue
		}
		b.WriteByte('\\')
		b.WriteString(name)
	}
	return b.String()
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// MathTable memoizes rendered math for one document pass. Entries are keyed
// by the node's position in the tree so repeated traversals reuse markup.
type MathTable struct {
	renderer  *MathRenderer
	markup    map[string]string
	rendered  int
	fallbacks int
}

// NewMathTable returns an empty table backed by renderer.
func NewMathTable(renderer *MathRenderer) *MathTable {
	if renderer == nil {
		renderer = NewMathRenderer(nil)
	}
	return &MathTable{
		renderer: renderer,
		markup:   map[string]string{},
	}
}

// Prepare renders every math node under doc ahead of conversion.
func (t *MathTable) Prepare(doc ast.Node) {
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := mathSource(node); ok {
			t.Markup(node)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

// Markup returns the memoized markup for a math node, rendering on first use.
func (t *MathTable) Markup(node ast.Node) string {
	key := NodePath(node)
	if markup, ok := t.markup[key]; ok {
		return markup
	}

	source, _ := mathSource(node)
	markup, err := t.renderer.TryRender(string(source), isDisplay(node))
	if err != nil {
		t.fallbacks++
		t.renderer.logger.Warn("writing.math.fallback", "error", err, "path", key)
		markup = fallbackMarkup(string(source))
	} else {
		t.rendered++
	}
	t.markup[key] = markup
	return markup
}

// Stats reports how many distinct nodes rendered and how many fell back.
func (t *MathTable) Stats() (rendered, fallbacks int) {
	return t.rendered, t.fallbacks
}

// NodePath returns the child index path from the document root to node,
// e.g. "0/2/1". It is stable for a given tree.
func NodePath(node ast.Node) string {
	var indexes []string
	for current := node; current != nil && current.Parent() != nil; current = current.Parent() {
		index := 0
		for sibling := current.PreviousSibling(); sibling != nil; sibling = sibling.PreviousSibling() {
			index++
		}
		indexes = append(indexes, strconv.Itoa(index))
	}
	for left, right := 0, len(indexes)-1; left < right; left, right = left+1, right-1 {
		indexes[left], indexes[right] = indexes[right], indexes[left]
	}
	return strings.Join(indexes, "/")
}
