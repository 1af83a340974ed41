package markdown

import (
	"github.com/yuin/goldmark/ast"
)

var (
	// KindInlineMath marks `$...$` expressions inside running text.
	KindInlineMath = ast.NewNodeKind("InlineMath")
	// KindDisplayMath marks `$$...$$` expressions embedded in a paragraph.
	KindDisplayMath = ast.NewNodeKind("DisplayMath")
	// KindMathBlock marks a standalone `$$` fenced block.
	KindMathBlock = ast.NewNodeKind("MathBlock")
)

// InlineMath is an inline-mode expression. Source holds the TeX between the
// delimiters with container prefixes already removed.
type InlineMath struct {
	ast.BaseInline
	Source []byte
}

// NewInlineMath returns an InlineMath node for the given TeX source.
func NewInlineMath(source []byte) *InlineMath {
	return &InlineMath{Source: source}
}

func (n *InlineMath) Kind() ast.NodeKind { return KindInlineMath }

func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Source": string(n.Source)}, nil)
}

// DisplayMath is a display-mode expression that the markdown grammar placed
// inside a paragraph. The block converter splits paragraphs around it.
type DisplayMath struct {
	ast.BaseInline
	Source []byte
}

// NewDisplayMath returns a DisplayMath node for the given TeX source.
func NewDisplayMath(source []byte) *DisplayMath {
	return &DisplayMath{Source: source}
}

func (n *DisplayMath) Kind() ast.NodeKind { return KindDisplayMath }

func (n *DisplayMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Source": string(n.Source)}, nil)
}

// MathBlock is a top-level display expression delimited by `$$` lines.
type MathBlock struct {
	ast.BaseBlock
	Source []byte

	closed bool
}

// NewMathBlock returns an empty MathBlock.
func NewMathBlock() *MathBlock {
	return &MathBlock{}
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

func (n *MathBlock) IsRaw() bool { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Source": string(n.Source)}, nil)
}

// mathSource returns the TeX carried by any of the math node kinds.
func mathSource(node ast.Node) ([]byte, bool) {
	switch n := node.(type) {
	case *InlineMath:
		return n.Source, true
	case *DisplayMath:
		return n.Source, true
	case *MathBlock:
		return n.Source, true
	default:
		return nil, false
	}
}

// isDisplay reports whether a math node renders in display mode.
func isDisplay(node ast.Node) bool {
	switch node.(type) {
	case *DisplayMath, *MathBlock:
		return true
	default:
		return false
	}
}
