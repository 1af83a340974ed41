package markdown

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

// ConverterOptions tunes block conversion.
type ConverterOptions struct {
	// Sanitize passes inline-math paragraph markup through an HTML policy.
	Sanitize bool
}

// ConvertStats describes one conversion pass.
type ConvertStats struct {
	MathRendered  int
	MathFallbacks int
}

// Converter turns a parsed body into the ordered block model. A Converter is
// stateless between calls; all per-document state lives in convertContext.
type Converter struct {
	renderer  *MathRenderer
	sanitizer *bluemonday.Policy
	logger    interfaces.Logger
}

// NewConverter wires a converter around renderer.
func NewConverter(renderer *MathRenderer, opts ConverterOptions, logger interfaces.Logger) *Converter {
	if logger == nil {
		logger = logging.NoOp()
	}
	if renderer == nil {
		renderer = NewMathRenderer(logger)
	}
	converter := &Converter{renderer: renderer, logger: logger}
	if opts.Sanitize {
		converter.sanitizer = mathMarkupPolicy()
	}
	return converter
}

type convertContext struct {
	source []byte
	next   int
	math   *MathTable
}

func (ctx *convertContext) block(kind interfaces.BlockType) interfaces.ProcessedBlock {
	id := "block-" + strconv.Itoa(ctx.next)
	ctx.next++
	return interfaces.ProcessedBlock{ID: id, Type: kind}
}

// Convert returns the blocks for doc in source order.
func (c *Converter) Convert(doc ast.Node, source []byte) []interfaces.ProcessedBlock {
	blocks, _ := c.ConvertWithStats(doc, source)
	return blocks
}

// ConvertWithStats is Convert plus math rendering counts.
func (c *Converter) ConvertWithStats(doc ast.Node, source []byte) ([]interfaces.ProcessedBlock, ConvertStats) {
	if doc == nil {
		return nil, ConvertStats{}
	}

	ctx := &convertContext{source: source, math: NewMathTable(c.renderer)}
	ctx.math.Prepare(doc)

	blocks := make([]interfaces.ProcessedBlock, 0, doc.ChildCount())
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		blocks = append(blocks, c.convertNode(ctx, child)...)
	}

	rendered, fallbacks := ctx.math.Stats()
	c.logger.Debug("writing.blocks.converted",
		"blocks", len(blocks),
		"math_rendered", rendered,
		"math_fallbacks", fallbacks,
	)
	return blocks, ConvertStats{MathRendered: rendered, MathFallbacks: fallbacks}
}

func (c *Converter) convertNode(ctx *convertContext, node ast.Node) []interfaces.ProcessedBlock {
	switch n := node.(type) {
	case *ast.Heading:
		block := ctx.block(headingType(n.Level))
		block.Content = []interfaces.RichText{PlainRun(flattenText(n, ctx.source))}
		return []interfaces.ProcessedBlock{block}
	case *ast.Paragraph:
		return c.paragraph(ctx, n)
	case *ast.TextBlock:
		return c.paragraph(ctx, n)
	case *MathBlock:
		block := ctx.block(interfaces.BlockMath)
		block.MathHTML = ctx.math.Markup(n)
		return []interfaces.ProcessedBlock{block}
	case *ast.Blockquote:
		block := ctx.block(interfaces.BlockQuote)
		block.Content = richTextFromBlocks(n, ctx.source, false)
		return []interfaces.ProcessedBlock{block}
	case *ast.List:
		return c.list(ctx, n)
	case *ast.FencedCodeBlock:
		language := strings.TrimSpace(string(n.Language(ctx.source)))
		return []interfaces.ProcessedBlock{codeBlock(ctx, n, language)}
	case *ast.CodeBlock:
		return []interfaces.ProcessedBlock{codeBlock(ctx, n, "")}
	case *ast.ThematicBreak:
		return []interfaces.ProcessedBlock{ctx.block(interfaces.BlockDivider)}
	default:
		return nil
	}
}

func headingType(level int) interfaces.BlockType {
	switch level {
	case 1:
		return interfaces.BlockHeading1
	case 2:
		return interfaces.BlockHeading2
	default:
		return interfaces.BlockHeading3
	}
}

func codeBlock(ctx *convertContext, node ast.Node, language string) interfaces.ProcessedBlock {
	if language == "" {
		language = "plaintext"
	}
	block := ctx.block(interfaces.BlockCode)
	block.Content = []interfaces.RichText{PlainRun(strings.TrimSuffix(linesText(node, ctx.source), "\n"))}
	block.Language = language
	return block
}

// paragraph splits the paragraph around display math. Images follow the
// paragraph's own blocks.
func (c *Converter) paragraph(ctx *convertContext, node ast.Node) []interfaces.ProcessedBlock {
	var blocks []interfaces.ProcessedBlock

	if strings.TrimSpace(flattenText(node, ctx.source)) != "" {
		var run []ast.Node
		flush := func() {
			if block, ok := c.paragraphRun(ctx, run); ok {
				blocks = append(blocks, block)
			}
			run = nil
		}

		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if display, ok := child.(*DisplayMath); ok {
				flush()
				block := ctx.block(interfaces.BlockMath)
				block.MathHTML = ctx.math.Markup(display)
				blocks = append(blocks, block)
				continue
			}
			run = append(run, child)
		}
		flush()
	}

	for _, image := range collectImages(node) {
		block := ctx.block(interfaces.BlockImage)
		block.Content = []interfaces.RichText{PlainRun(string(image.Destination))}
		blocks = append(blocks, block)
	}
	return blocks
}

func (c *Converter) paragraphRun(ctx *convertContext, run []ast.Node) (interfaces.ProcessedBlock, bool) {
	if len(run) == 0 {
		return interfaces.ProcessedBlock{}, false
	}

	var visible strings.Builder
	hasMath := false
	for _, node := range run {
		visible.WriteString(flattenText(node, ctx.source))
		if containsInlineMath(node) {
			hasMath = true
		}
	}
	if strings.TrimSpace(visible.String()) == "" {
		return interfaces.ProcessedBlock{}, false
	}

	block := ctx.block(interfaces.BlockParagraph)
	if hasMath {
		block.MathHTML = c.paragraphHTML(ctx, run)
		return block, true
	}

	b := &richTextBuilder{}
	for _, node := range run {
		b.inlineRun(node, ctx.source, plainStyle())
	}
	b.trimBreaks()
	block.Content = b.result(func() string { return strings.TrimSpace(visible.String()) })
	return block, true
}

func (b *richTextBuilder) trimBreaks() {
	for len(b.runs) > 0 {
		b.runs[0].Text = strings.TrimLeft(b.runs[0].Text, "\n")
		if b.runs[0].Text != "" {
			break
		}
		b.runs = b.runs[1:]
	}
	b.trimTrailingBreaks()
}

func (c *Converter) list(ctx *convertContext, list *ast.List) []interfaces.ProcessedBlock {
	kind := interfaces.BlockBulletedListItem
	if list.IsOrdered() {
		kind = interfaces.BlockNumberedListItem
	}

	var blocks []interfaces.ProcessedBlock
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		b := &richTextBuilder{}
		b.blockRuns(item, ctx.source, true)
		if !blankRuns(b.runs) {
			block := ctx.block(kind)
			block.Content = b.runs
			blocks = append(blocks, block)
		}

		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				blocks = append(blocks, c.list(ctx, nested)...)
			}
		}
	}
	return blocks
}

func blankRuns(runs []interfaces.RichText) bool {
	for _, run := range runs {
		if strings.TrimSpace(run.Text) != "" {
			return false
		}
	}
	return true
}

func containsInlineMath(node ast.Node) bool {
	found := false
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*InlineMath); ok {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

func collectImages(node ast.Node) []*ast.Image {
	var images []*ast.Image
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if image, ok := n.(*ast.Image); ok {
			images = append(images, image)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return images
}

// paragraphHTML flattens a run holding inline math into one markup string.
func (c *Converter) paragraphHTML(ctx *convertContext, run []ast.Node) string {
	var b strings.Builder
	for _, node := range run {
		writeInlineHTML(&b, ctx, node)
	}
	markup := strings.Trim(b.String(), "\n")
	if c.sanitizer != nil {
		markup = c.sanitizer.Sanitize(markup)
	}
	return markup
}

func writeInlineHTML(b *strings.Builder, ctx *convertContext, node ast.Node) {
	children := func() {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			writeInlineHTML(b, ctx, child)
		}
	}

	switch n := node.(type) {
	case *ast.Text:
		b.WriteString(html.EscapeString(textValue(n, ctx.source)))
	case *ast.String:
		b.WriteString(html.EscapeString(string(n.Value)))
	case *InlineMath:
		b.WriteString(ctx.math.Markup(n))
	case *ast.Emphasis:
		tag := "em"
		if n.Level >= 2 {
			tag = "strong"
		}
		b.WriteString("<" + tag + ">")
		children()
		b.WriteString("</" + tag + ">")
	case *extast.Strikethrough:
		b.WriteString("<del>")
		children()
		b.WriteString("</del>")
	case *ast.CodeSpan:
		b.WriteString("<code>")
		children()
		b.WriteString("</code>")
	case *ast.Link:
		writeAnchor(b, string(n.Destination))
		children()
		b.WriteString("</a>")
	case *ast.AutoLink:
		writeAnchor(b, string(n.URL(ctx.source)))
		b.WriteString(html.EscapeString(string(n.Label(ctx.source))))
		b.WriteString("</a>")
	case *ast.Image, *ast.RawHTML:
	default:
		children()
	}
}

func writeAnchor(b *strings.Builder, href string) {
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`" target="_blank" rel="noopener noreferrer" class="link-body">`)
}

var mathMLElements = []string{
	"math", "semantics", "annotation", "mrow", "mi", "mn", "mo", "mtext",
	"mspace", "mstyle", "mfrac", "msqrt", "mroot", "msub", "msup",
	"msubsup", "munder", "mover", "munderover",
}

// mathMarkupPolicy allows the inline tags the converter writes plus MathML.
func mathMarkupPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowStandardURLs()
	policy.AllowElements("strong", "em", "del", "code")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("target", "rel", "class").OnElements("a")
	policy.AllowElements(mathMLElements...)
	policy.AllowAttrs("xmlns", "display").OnElements("math")
	policy.AllowAttrs("encoding").OnElements("annotation")
	policy.AllowAttrs("mathvariant").OnElements("mi", "mtext")
	policy.AllowAttrs("largeop").OnElements("mo")
	policy.AllowAttrs("accent").OnElements("mover")
	policy.AllowAttrs("linethickness").OnElements("mfrac")
	policy.AllowAttrs("width").OnElements("mspace")
	policy.AllowAttrs("displaystyle").OnElements("mstyle")
	return policy
}
