package markdown

import (
	"fmt"
	"html"
	"strings"

	texast "github.com/go-latex/latex/ast"
	"github.com/go-latex/latex/mtex/symbols"
)

// glyphMacro carries symbols the TeX parser has no macro for. The rewrite
// pass turns `\infty` into `\mathdefault{infty}` and the writer maps the
// name back through mathGlyphs.
const glyphMacro = `\mathdefault`

type mathGlyph struct {
	text   string
	op     bool
	large  bool
	accent bool
}

var mathGlyphs = map[string]mathGlyph{
	"infty":      {text: "∞"},
	"partial":    {text: "∂"},
	"emptyset":   {text: "∅"},
	"varnothing": {text: "∅"},
	"ell":        {text: "ℓ"},
	"Re":         {text: "ℜ"},
	"Im":         {text: "ℑ"},
	"aleph":      {text: "ℵ"},
	"top":        {text: "⊤"},
	"angle":      {text: "∠"},
	"varepsilon": {text: "ε"},
	"vartheta":   {text: "ϑ"},
	"varphi":     {text: "φ"},
	"varpi":      {text: "ϖ"},
	"varrho":     {text: "ϱ"},
	"varsigma":   {text: "ς"},
	"forall":     {text: "∀", op: true},
	"exists":     {text: "∃", op: true},
	"nexists":    {text: "∄", op: true},
	"neg":        {text: "¬", op: true},
	"notin":      {text: "∉", op: true},
	"nmid":       {text: "∤", op: true},
	"prime":      {text: "′", op: true},
	"colon":      {text: ":", op: true},
	"lbrace":     {text: "{", op: true},
	"rbrace":     {text: "}", op: true},
	"percent":    {text: "%", op: true},
	"hash":       {text: "#", op: true},
	"amp":        {text: "&", op: true},
	"underscore": {text: "_", op: true},
	"dollar":     {text: "$", op: true},
	"iint":       {text: "∬", op: true},
	"iiint":      {text: "∭", op: true},
	"hat":        {text: "^", op: true, accent: true},
	"tilde":      {text: "~", op: true, accent: true},
	"vec":        {text: "→", op: true, accent: true},
	"dot":        {text: "˙", op: true, accent: true},
	"ddot":       {text: "¨", op: true, accent: true},
	"check":      {text: "ˇ", op: true, accent: true},
	"breve":      {text: "˘", op: true, accent: true},
}

// mathSymbols maps the parser's symbol macros (without the backslash) to
// their Unicode code points.
var mathSymbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ϵ",
	"zeta": "ζ", "eta": "η", "theta": "θ", "iota": "ι", "kappa": "κ",
	"lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "omicron": "ο",
	"pi": "π", "rho": "ρ", "sigma": "σ", "tau": "τ", "upsilon": "υ",
	"phi": "ϕ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Alpha": "Α", "Beta": "Β", "Gamma": "Γ", "Delta": "Δ", "Epsilon": "Ε",
	"Zeta": "Ζ", "Eta": "Η", "Theta": "Θ", "Iota": "Ι", "Kappa": "Κ",
	"Lambda": "Λ", "Mu": "Μ", "Nu": "Ν", "Xi": "Ξ", "Omicron": "Ο",
	"Pi": "Π", "Rho": "Ρ", "Sigma": "Σ", "Tau": "Τ", "Upsilon": "Υ",
	"Phi": "Φ", "Chi": "Χ", "Psi": "Ψ", "Omega": "Ω",
	"hbar": "ℏ", "nabla": "∇",

	"amalg": "⨿", "ast": "∗", "bigcirc": "◯", "bigtriangledown": "▽",
	"bigtriangleup": "△", "bullet": "∙", "cdot": "⋅", "circ": "∘",
	"cap": "∩", "cup": "∪", "dagger": "†", "ddagger": "‡", "diamond": "⋄",
	"div": "÷", "lhd": "⊲", "mp": "∓", "odot": "⊙", "ominus": "⊖",
	"oplus": "⊕", "oslash": "⊘", "otimes": "⊗", "pm": "±", "rhd": "⊳",
	"setminus": "∖", "sqcap": "⊓", "sqcup": "⊔", "star": "⋆",
	"times": "×", "triangleleft": "◁", "triangleright": "▷", "uplus": "⊎",
	"unlhd": "⊴", "unrhd": "⊵", "vee": "∨", "wedge": "∧", "wr": "≀",

	"approx": "≈", "asymp": "≍", "bowtie": "⋈", "cong": "≅", "dashv": "⊣",
	"doteq": "≐", "doteqdot": "≑", "dotplus": "∔", "dots": "…",
	"equiv": "≡", "frown": "⌢", "geq": "≥", "gg": "≫", "in": "∈",
	"leq": "≤", "ll": "≪", "mid": "∣", "models": "⊨", "neq": "≠",
	"ni": "∋", "parallel": "∥", "perp": "⊥", "prec": "≺", "preceq": "⪯",
	"propto": "∝", "sim": "∼", "simeq": "≃", "smile": "⌣",
	"sqsubset": "⊏", "sqsubseteq": "⊑", "sqsupset": "⊐", "sqsupseteq": "⊒",
	"subset": "⊂", "subseteq": "⊆", "succ": "≻", "succeq": "⪰",
	"supset": "⊃", "supseteq": "⊇", "vdash": "⊢", "Join": "⨝",

	"downarrow": "↓", "hookleftarrow": "↩", "hookrightarrow": "↪",
	"leadsto": "↝", "leftarrow": "←", "leftharpoondown": "↽",
	"leftharpoonup": "↼", "leftrightarrow": "↔", "longleftarrow": "⟵",
	"longleftrightarrow": "⟷", "longmapsto": "⟼", "longrightarrow": "⟶",
	"rightarrow": "→", "mapsto": "↦", "nearrow": "↗", "nwarrow": "↖",
	"rightharpoondown": "⇁", "rightharpoonup": "⇀", "rightleftharpoons": "⇌",
	"searrow": "↘", "swarrow": "↙", "uparrow": "↑", "updownarrow": "↕",
	"Downarrow": "⇓", "Leftarrow": "⇐", "Leftrightarrow": "⇔",
	"Longleftarrow": "⟸", "Longleftrightarrow": "⟺", "Longrightarrow": "⟹",
	"Rightarrow": "⇒", "Uparrow": "⇑", "Updownarrow": "⇕",

	"ldotp": ".", "cdotp": "⋅",
	"bigcap": "⋂", "bigcup": "⋃", "bigodot": "⨀", "bigoplus": "⨁",
	"bigotimes": "⨂", "bigsqcup": "⨆", "biguplus": "⨄", "bigvee": "⋁",
	"bigwedge": "⋀", "coprod": "∐", "prod": "∏", "sum": "∑",
	"int": "∫", "oint": "∮",

	"backslash": "∖", "vert": "|", "Vert": "‖", "langle": "⟨",
	"lceil": "⌈", "lfloor": "⌊", "rangle": "⟩", "rceil": "⌉", "rfloor": "⌋",
	"cdots": "⋯", "ddots": "⋱", "ldots": "…", "vdots": "⋮",
}

var mathSymbolOps = map[string]string{
	"-":  "−",
	"*":  "∗",
	"'":  "′",
	"<":  "&lt;",
	">":  "&gt;",
	"[":  "[",
	"]":  "]",
	"(":  "(",
	")":  ")",
	"/":  "/",
	"+":  "+",
	"=":  "=",
	"!":  "!",
	"?":  "?",
	":":  ":",
	",":  ",",
	";":  ";",
	".":  ".",
}

var mathVariants = map[string]string{
	"rm":      "normal",
	"bf":      "bold",
	"it":      "italic",
	"sf":      "sans-serif",
	"tt":      "monospace",
	"cal":     "script",
	"scr":     "script",
	"bb":      "double-struck",
	"frak":    "fraktur",
	"regular": "normal",
	"default": "",
}

var mathSpaces = map[string]string{
	`\quad`:  "1em",
	`\qquad`: "2em",
}

// mathItem is one presentation element. Scripts attach to the last item.
type mathItem struct {
	markup string
	large  bool
}

// mathMLWriter turns a parsed TeX expression into Presentation MathML. expr
// is the exact string handed to the parser so argument positions can be
// sliced back out for text macros.
type mathMLWriter struct {
	expr    string
	display bool
	variant string
}

func (w *mathMLWriter) row(nodes texast.List) (string, error) {
	items, err := w.items(nodes)
	if err != nil {
		return "", err
	}
	return joinItems(items), nil
}

func (w *mathMLWriter) items(nodes texast.List) ([]mathItem, error) {
	var out []mathItem
	for i := 0; i < len(nodes); i++ {
		var sub, sup texast.Node
		switch n := nodes[i].(type) {
		case *texast.Sub:
			sub = n.Node
			if i+1 < len(nodes) {
				if next, ok := nodes[i+1].(*texast.Sup); ok {
					sup = next.Node
					i++
				}
			}
		case *texast.Sup:
			sup = n.Node
			if i+1 < len(nodes) {
				if next, ok := nodes[i+1].(*texast.Sub); ok {
					sub = next.Node
					i++
				}
			}
		default:
			items, err := w.node(n)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
			continue
		}

		base := mathItem{markup: "<mrow></mrow>"}
		if len(out) > 0 {
			base = out[len(out)-1]
			out = out[:len(out)-1]
		}
		item, err := w.script(base, sub, sup)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (w *mathMLWriter) script(base mathItem, sub, sup texast.Node) (mathItem, error) {
	under := base.large && w.display
	var (
		tag   string
		parts = []string{base.markup}
	)
	switch {
	case sub != nil && sup != nil:
		tag = pick(under, "munderover", "msubsup")
	case sub != nil:
		tag = pick(under, "munder", "msub")
	default:
		tag = pick(under, "mover", "msup")
	}
	for _, node := range []texast.Node{sub, sup} {
		if node == nil {
			continue
		}
		markup, err := w.group(node)
		if err != nil {
			return mathItem{}, err
		}
		parts = append(parts, markup)
	}
	return mathItem{markup: "<" + tag + ">" + strings.Join(parts, "") + "</" + tag + ">"}, nil
}

// group renders a node as exactly one presentation element.
func (w *mathMLWriter) group(node texast.Node) (string, error) {
	switch n := node.(type) {
	case texast.List:
		return w.row(n)
	case *texast.Arg:
		return w.row(n.List)
	case *texast.OptArg:
		return w.row(n.List)
	default:
		return w.row(texast.List{node})
	}
}

func (w *mathMLWriter) node(node texast.Node) ([]mathItem, error) {
	switch n := node.(type) {
	case texast.List:
		markup, err := w.row(n)
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: markup}}, nil
	case *texast.Word:
		items := make([]mathItem, 0, len(n.Text))
		for _, r := range n.Text {
			items = append(items, mathItem{markup: w.identifier(string(r))})
		}
		return items, nil
	case *texast.Literal:
		return []mathItem{{markup: "<mn>" + html.EscapeString(n.Text) + "</mn>"}}, nil
	case *texast.Symbol:
		op, ok := mathSymbolOps[n.Text]
		if !ok {
			return nil, fmt.Errorf("unsupported symbol %q", n.Text)
		}
		return []mathItem{{markup: "<mo>" + op + "</mo>"}}, nil
	case *texast.Macro:
		return w.macro(n)
	default:
		return nil, fmt.Errorf("unsupported node %T", node)
	}
}

func (w *mathMLWriter) identifier(text string) string {
	if w.variant != "" {
		return `<mi mathvariant="` + w.variant + `">` + html.EscapeString(text) + "</mi>"
	}
	return "<mi>" + html.EscapeString(text) + "</mi>"
}

func (w *mathMLWriter) macro(n *texast.Macro) ([]mathItem, error) {
	if n.Name == nil {
		return nil, fmt.Errorf("macro without name")
	}
	name := n.Name.Name
	bare := strings.TrimPrefix(name, `\`)

	if name == glyphMacro {
		if glyph, ok := w.glyph(n); ok {
			if glyph.op {
				return []mathItem{{markup: "<mo>" + html.EscapeString(glyph.text) + "</mo>", large: glyph.large}}, nil
			}
			return []mathItem{{markup: w.identifier(glyph.text)}}, nil
		}
	}

	if width, ok := mathSpaces[name]; ok {
		return []mathItem{{markup: `<mspace width="` + width + `"></mspace>`}}, nil
	}
	if _, ok := mathVariants[bare]; ok {
		// Old style font switches carry no argument and are ignored.
		return nil, nil
	}

	switch name {
	case `\frac`, `\dfrac`, `\tfrac`:
		num, den, err := w.pair(n)
		if err != nil {
			return nil, err
		}
		markup := "<mfrac>" + num + den + "</mfrac>"
		switch name {
		case `\dfrac`:
			markup = `<mstyle displaystyle="true">` + markup + "</mstyle>"
		case `\tfrac`:
			markup = `<mstyle displaystyle="false">` + markup + "</mstyle>"
		}
		return []mathItem{{markup: markup}}, nil
	case `\binom`:
		top, bottom, err := w.pair(n)
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: `<mrow><mo>(</mo><mfrac linethickness="0">` + top + bottom + `</mfrac><mo>)</mo></mrow>`}}, nil
	case `\stackrel`:
		top, base, err := w.pair(n)
		if err != nil {
			return nil, err
		}
		open := "<mover>"
		if w.isAccent(n.Args[0]) {
			open = `<mover accent="true">`
		}
		return []mathItem{{markup: open + base + top + "</mover>"}}, nil
	case `\sqrt`:
		return w.sqrt(n)
	case `\overline`:
		body, err := w.single(n)
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: `<mover accent="true">` + body + "<mo>‾</mo></mover>"}}, nil
	case `\operatorname`:
		text, err := w.argText(n)
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: "<mi>" + html.EscapeString(strings.TrimSpace(text)) + "</mi>"}}, nil
	case `\hspace`:
		text, err := w.argText(n)
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: `<mspace width="` + html.EscapeString(strings.TrimSpace(text)) + `"></mspace>`}}, nil
	case `\exp`:
		body, err := w.single(n)
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: "<mi>exp</mi>"}, {markup: body}}, nil
	}

	if variant, ok := mathVariants[strings.TrimPrefix(bare, "math")]; ok && strings.HasPrefix(bare, "math") {
		if len(n.Args) != 1 {
			return nil, fmt.Errorf("%s expects one argument", name)
		}
		inner := *w
		inner.variant = variant
		markup, err := inner.group(n.Args[0])
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: markup}}, nil
	}
	if variant, ok := mathVariants[strings.TrimPrefix(bare, "text")]; ok && strings.HasPrefix(bare, "text") {
		text, err := w.argText(n)
		if err != nil {
			return nil, err
		}
		open := "<mtext>"
		if variant != "" && variant != "normal" {
			open = `<mtext mathvariant="` + variant + `">`
		}
		return []mathItem{{markup: open + html.EscapeString(text) + "</mtext>"}}, nil
	}

	if symbols.FunctionNames.Has(bare) {
		return []mathItem{{markup: "<mi>" + bare + "</mi>", large: symbols.OverUnderFunctions.Has(bare)}}, nil
	}

	text, ok := mathSymbols[bare]
	if !ok {
		return nil, fmt.Errorf("unsupported macro %s", name)
	}
	switch {
	case symbols.OverUnderSymbols.Has(name):
		return []mathItem{{markup: `<mo largeop="true">` + text + "</mo>", large: true}}, nil
	case symbols.DropSubSymbols.Has(name):
		return []mathItem{{markup: `<mo largeop="true">` + text + "</mo>"}}, nil
	case symbols.IsSpaced(name),
		symbols.PunctuationSymbols.Has(name),
		symbols.AmbiDelim.Has(name),
		symbols.LeftDelim.Has(name),
		symbols.RightDelim.Has(name):
		return []mathItem{{markup: "<mo>" + text + "</mo>"}}, nil
	case strings.HasSuffix(bare, "dots"):
		return []mathItem{{markup: "<mo>" + text + "</mo>"}}, nil
	}
	if first := bare[0]; first >= 'A' && first <= 'Z' {
		return []mathItem{{markup: `<mi mathvariant="normal">` + text + "</mi>"}}, nil
	}
	return []mathItem{{markup: w.identifier(text)}}, nil
}

func (w *mathMLWriter) glyph(n *texast.Macro) (mathGlyph, bool) {
	if len(n.Args) != 1 {
		return mathGlyph{}, false
	}
	arg, ok := n.Args[0].(*texast.Arg)
	if !ok || len(arg.List) != 1 {
		return mathGlyph{}, false
	}
	word, ok := arg.List[0].(*texast.Word)
	if !ok {
		return mathGlyph{}, false
	}
	glyph, ok := mathGlyphs[word.Text]
	return glyph, ok
}

func (w *mathMLWriter) isAccent(node texast.Node) bool {
	arg, ok := node.(*texast.Arg)
	if !ok || len(arg.List) != 1 {
		return false
	}
	macro, ok := arg.List[0].(*texast.Macro)
	if !ok || macro.Name == nil || macro.Name.Name != glyphMacro {
		return false
	}
	glyph, ok := w.glyph(macro)
	return ok && glyph.accent
}

func (w *mathMLWriter) pair(n *texast.Macro) (string, string, error) {
	if len(n.Args) != 2 {
		return "", "", fmt.Errorf("%s expects two arguments", n.Name.Name)
	}
	first, err := w.group(n.Args[0])
	if err != nil {
		return "", "", err
	}
	second, err := w.group(n.Args[1])
	if err != nil {
		return "", "", err
	}
	return first, second, nil
}

func (w *mathMLWriter) single(n *texast.Macro) (string, error) {
	if len(n.Args) != 1 {
		return "", fmt.Errorf("%s expects one argument", n.Name.Name)
	}
	return w.group(n.Args[0])
}

func (w *mathMLWriter) sqrt(n *texast.Macro) ([]mathItem, error) {
	switch len(n.Args) {
	case 1:
		body, err := w.group(n.Args[0])
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: "<msqrt>" + body + "</msqrt>"}}, nil
	case 2:
		index, err := w.group(n.Args[0])
		if err != nil {
			return nil, err
		}
		body, err := w.group(n.Args[1])
		if err != nil {
			return nil, err
		}
		return []mathItem{{markup: "<mroot>" + body + index + "</mroot>"}}, nil
	default:
		return nil, fmt.Errorf(`\sqrt expects one argument`)
	}
}

// argText returns the verbatim source of a macro's only argument.
func (w *mathMLWriter) argText(n *texast.Macro) (string, error) {
	if len(n.Args) != 1 {
		return "", fmt.Errorf("%s expects one argument", n.Name.Name)
	}
	arg, ok := n.Args[0].(*texast.Arg)
	if !ok {
		return "", fmt.Errorf("%s expects a braced argument", n.Name.Name)
	}
	start, stop := int(arg.Lbrace)+1, int(arg.Rbrace)
	if start > stop || stop > len(w.expr) {
		return "", fmt.Errorf("%s has an unterminated argument", n.Name.Name)
	}
	return w.expr[start:stop], nil
}

func joinItems(items []mathItem) string {
	switch len(items) {
	case 0:
		return "<mrow></mrow>"
	case 1:
		return items[0].markup
	}
	var b strings.Builder
	b.WriteString("<mrow>")
	for _, item := range items {
		b.WriteString(item.markup)
	}
	b.WriteString("</mrow>")
	return b.String()
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
