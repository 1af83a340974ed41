package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

const defaultColor = "default"

type textStyle struct {
	annotations interfaces.Annotations
	link        string
}

func plainStyle() textStyle {
	return textStyle{annotations: interfaces.Annotations{Color: defaultColor}}
}

// PlainRun returns a single unstyled rich text run.
func PlainRun(text string) interfaces.RichText {
	return interfaces.RichText{
		Text:        text,
		Annotations: interfaces.Annotations{Color: defaultColor},
	}
}

// richTextBuilder accumulates runs, merging neighbours that share a style.
type richTextBuilder struct {
	runs []interfaces.RichText
}

func (b *richTextBuilder) add(text string, style textStyle) {
	if text == "" {
		return
	}
	if last := len(b.runs) - 1; last >= 0 {
		if b.runs[last].Annotations == style.annotations && b.runs[last].Link == style.link {
			b.runs[last].Text += text
			return
		}
	}
	b.runs = append(b.runs, interfaces.RichText{
		Text:        text,
		Link:        style.link,
		Annotations: style.annotations,
	})
}

func (b *richTextBuilder) trimTrailingBreaks() {
	for len(b.runs) > 0 {
		last := len(b.runs) - 1
		b.runs[last].Text = strings.TrimRight(b.runs[last].Text, "\n")
		if b.runs[last].Text != "" {
			return
		}
		b.runs = b.runs[:last]
	}
}

func (b *richTextBuilder) result(fallback func() string) []interfaces.RichText {
	if len(b.runs) == 0 {
		return []interfaces.RichText{PlainRun(fallback())}
	}
	return b.runs
}

// inlineRuns walks inline children. Each leaf carries the union of the
// styles collected on its way down.
func (b *richTextBuilder) inlineRuns(parent ast.Node, source []byte, style textStyle) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		b.inlineRun(child, source, style)
	}
}

func (b *richTextBuilder) inlineRun(node ast.Node, source []byte, style textStyle) {
	switch n := node.(type) {
	case *ast.Text:
		b.add(textValue(n, source), style)
	case *ast.String:
		b.add(string(n.Value), style)
	case *ast.Emphasis:
		next := style
		if n.Level >= 2 {
			next.annotations.Bold = true
		} else {
			next.annotations.Italic = true
		}
		b.inlineRuns(n, source, next)
	case *extast.Strikethrough:
		next := style
		next.annotations.Strikethrough = true
		b.inlineRuns(n, source, next)
	case *ast.CodeSpan:
		next := style
		next.annotations.Code = true
		b.inlineRuns(n, source, next)
	case *ast.Link:
		next := style
		next.link = string(n.Destination)
		b.inlineRuns(n, source, next)
	case *ast.AutoLink:
		next := style
		next.link = string(n.URL(source))
		b.add(string(n.Label(source)), next)
	case *InlineMath:
		b.add(string(n.Source), style)
	case *DisplayMath:
		b.add(string(n.Source), style)
	case *ast.Image, *ast.RawHTML:
	default:
		b.inlineRuns(node, source, style)
	}
}

// blockRuns collects the runs of a container's child blocks, one line per
// block. Nested lists are skipped when the caller emits them separately.
func (b *richTextBuilder) blockRuns(container ast.Node, source []byte, skipLists bool) {
	first := true
	for child := container.FirstChild(); child != nil; child = child.NextSibling() {
		if _, ok := child.(*ast.List); ok && skipLists {
			continue
		}
		if !first {
			b.add("\n", plainStyle())
		}
		first = false

		switch n := child.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			b.inlineRuns(n, source, plainStyle())
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			style := plainStyle()
			style.annotations.Code = true
			b.add(strings.TrimRight(linesText(n, source), "\n"), style)
		case *MathBlock:
			b.add(string(n.Source), plainStyle())
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if item != n.FirstChild() {
					b.add("\n", plainStyle())
				}
				b.blockRuns(item, source, false)
			}
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			b.blockRuns(n, source, skipLists)
		}
	}
	b.trimTrailingBreaks()
}

// richTextFromInline returns the styled runs of an inline container.
func richTextFromInline(node ast.Node, source []byte) []interfaces.RichText {
	b := &richTextBuilder{}
	b.inlineRuns(node, source, plainStyle())
	return b.result(func() string { return flattenText(node, source) })
}

// richTextFromBlocks returns the styled runs of a block container.
func richTextFromBlocks(node ast.Node, source []byte, skipLists bool) []interfaces.RichText {
	b := &richTextBuilder{}
	b.blockRuns(node, source, skipLists)
	return b.result(func() string { return flattenText(node, source) })
}

func textValue(n *ast.Text, source []byte) string {
	value := string(n.Segment.Value(source))
	if n.SoftLineBreak() || n.HardLineBreak() {
		value += "\n"
	}
	return value
}

// flattenText concatenates every visible character under node, including
// code spans and math sources.
func flattenText(node ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if src, ok := mathSource(n); ok {
			b.Write(src)
			return ast.WalkSkipChildren, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			b.WriteString(textValue(v, source))
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			b.WriteString(linesText(v, source))
		case *ast.Image, *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// linesText returns the verbatim content of a raw block.
func linesText(node ast.Node, source []byte) string {
	lines := node.Lines()
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return b.String()
}
