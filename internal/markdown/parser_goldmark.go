package markdown

import (
	"maps"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

// GoldmarkParser turns a Markdown body into a goldmark syntax tree with math
// nodes. The engine is built once and is safe to reuse across documents.
type GoldmarkParser struct {
	options interfaces.ParseOptions
	engine  goldmark.Markdown
}

// NewGoldmarkParser constructs a parser. GFM, linkify and task lists are on
// when no extensions are named; math syntax is always registered.
func NewGoldmarkParser(opts interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		options: opts,
		engine:  newGoldmarkEngine(opts),
	}
}

// Parse returns the document node for body. The returned tree references body
// through segments, so callers must keep body alive alongside it.
func (p *GoldmarkParser) Parse(body []byte) ast.Node {
	return p.engine.Parser().Parse(text.NewReader(body))
}

// Options returns the options the parser was built with.
func (p *GoldmarkParser) Options() interfaces.ParseOptions {
	return p.options
}

func newGoldmarkEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	exts := append(collectExtensions(opts.Extensions), MathExtension)
	return goldmark.New(goldmark.WithExtensions(exts...))
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"footnote":      extension.Footnote,
}

// collectExtensions resolves configured names, ignoring unknown entries and
// repeats. No names means GFM with linkify and task lists.
func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		if key := strings.ToLower(strings.TrimSpace(name)); extensionRegistry[key] != nil && !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	extenders := make([]goldmark.Extender, len(keys))
	for i, key := range keys {
		extenders[i] = extensionRegistry[key]
	}
	return extenders
}

// SupportedExtensions lists the extension names accepted in configuration.
func SupportedExtensions() []string {
	return slices.Sorted(maps.Keys(extensionRegistry))
}
