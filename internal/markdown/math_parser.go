package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var mathFence = []byte("$$")

type mathBlockParser struct{}

var defaultMathBlockParser = &mathBlockParser{}

// NewMathBlockParser returns a BlockParser for `$$` delimited display math.
// A single line `$$x$$` is accepted when nothing follows the closing fence.
func NewMathBlockParser() parser.BlockParser {
	return defaultMathBlockParser
}

func (b *mathBlockParser) Trigger() []byte {
	return []byte{'$'}
}

func (b *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos+1 >= len(line) || line[pos] != '$' || line[pos+1] != '$' {
		return nil, parser.NoChildren
	}

	node := NewMathBlock()
	start := pos + len(mathFence)
	rest := line[start:]
	offset := segment.Start - segment.Padding + start

	if closer := bytes.Index(rest, mathFence); closer >= 0 {
		if !util.IsBlank(rest[closer+len(mathFence):]) {
			return nil, parser.NoChildren
		}
		node.Lines().Append(text.NewSegment(offset, offset+closer))
		node.closed = true
		return node, parser.NoChildren
	}
	if !util.IsBlank(rest) {
		node.Lines().Append(text.NewSegment(offset, segment.Stop))
	}
	return node, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	block := node.(*MathBlock)
	if block.closed {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if closer := bytes.Index(line, mathFence); closer >= 0 && util.IsBlank(line[closer+len(mathFence):]) {
		if stop := segment.Start - segment.Padding + closer; stop > segment.Start {
			node.Lines().Append(text.NewSegment(segment.Start, stop))
		}
		newline := 1
		if line[len(line)-1] != '\n' {
			newline = 0
		}
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		block.closed = true
		return parser.Close
	}

	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	block := node.(*MathBlock)
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(reader.Source()))
	}
	block.Source = bytes.TrimSpace(buf.Bytes())
}

func (b *mathBlockParser) CanInterruptParagraph() bool {
	return false
}

func (b *mathBlockParser) CanAcceptIndentedLine() bool {
	return false
}

type mathInlineParser struct{}

var defaultMathInlineParser = &mathInlineParser{}

// NewMathInlineParser returns an InlineParser for `$...$` and `$$...$$`.
// Single dollar math must not start or end with a space and must not be
// followed by a digit, so prices like "$5 and $10" stay text.
func NewMathInlineParser() parser.InlineParser {
	return defaultMathInlineParser
}

func (s *mathInlineParser) Trigger() []byte {
	return []byte{'$'}
}

func (s *mathInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	opener := 0
	for ; opener < len(line) && line[opener] == '$'; opener++ {
	}
	if opener > 2 {
		return nil
	}
	if opener == 1 && (len(line) < 2 || util.IsSpace(line[1])) {
		return nil
	}

	l, pos := block.Position()
	block.Advance(opener)

	var content bytes.Buffer
	for {
		line, _ := block.PeekLine()
		if line == nil {
			block.SetPosition(l, pos)
			return nil
		}
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c == '\\' {
				i++
				continue
			}
			if c != '$' {
				continue
			}
			j := i
			for ; j < len(line) && line[j] == '$'; j++ {
			}
			if j-i != opener || (opener == 1 && !validInlineCloser(line, i, j)) {
				i = j - 1
				continue
			}
			content.Write(line[:i])
			source := bytes.TrimSpace(content.Bytes())
			if len(source) == 0 {
				block.SetPosition(l, pos)
				return nil
			}
			block.Advance(j)
			if opener == 2 {
				return NewDisplayMath(source)
			}
			return NewInlineMath(source)
		}
		content.Write(line)
		block.AdvanceLine()
	}
}

func validInlineCloser(line []byte, start, stop int) bool {
	if start == 0 || util.IsSpace(line[start-1]) {
		return false
	}
	if stop < len(line) && line[stop] >= '0' && line[stop] <= '9' {
		return false
	}
	return true
}

type mathExtension struct{}

// MathExtension registers the math block and inline parsers on a goldmark
// instance. No renderer is attached: the tree is consumed by the block
// converter, not rendered to HTML by goldmark.
var MathExtension goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(NewMathBlockParser(), 690)),
		parser.WithInlineParsers(util.Prioritized(NewMathInlineParser(), 150)),
	)
}
