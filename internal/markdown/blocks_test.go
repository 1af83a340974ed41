package markdown

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

func convertMarkdown(tb testing.TB, source string, opts ConverterOptions) []interfaces.ProcessedBlock {
	tb.Helper()
	parser := NewGoldmarkParser(interfaces.ParseOptions{})
	body := []byte(source)
	return NewConverter(NewMathRenderer(nil), opts, nil).Convert(parser.Parse(body), body)
}

func blockTypes(blocks []interfaces.ProcessedBlock) []interfaces.BlockType {
	types := make([]interfaces.BlockType, 0, len(blocks))
	for _, block := range blocks {
		types = append(types, block.Type)
	}
	return types
}

func styled(text string, mutate func(*interfaces.RichText)) interfaces.RichText {
	run := PlainRun(text)
	if mutate != nil {
		mutate(&run)
	}
	return run
}

func TestConvertSingleHeading(t *testing.T) {
	blocks := convertMarkdown(t, "# Title", ConverterOptions{})

	require.Len(t, blocks, 1)
	require.Equal(t, interfaces.BlockHeading1, blocks[0].Type)
	require.Equal(t, []interfaces.RichText{PlainRun("Title")}, blocks[0].Content)
	require.Equal(t, "block-0", blocks[0].ID)
}

func TestConvertHeadingLevels(t *testing.T) {
	blocks := convertMarkdown(t, "## Two\n\n### Three\n\n##### Five *styled*\n", ConverterOptions{})

	require.Equal(t, []interfaces.BlockType{
		interfaces.BlockHeading2,
		interfaces.BlockHeading3,
		interfaces.BlockHeading3,
	}, blockTypes(blocks))
	require.Equal(t, []interfaces.RichText{PlainRun("Five styled")}, blocks[2].Content)
}

func TestConvertSplitsParagraphAroundDisplayMath(t *testing.T) {
	source := "Before the formula\n$$\nE = mc^2\n$$\nAfter the formula\n"
	blocks := convertMarkdown(t, source, ConverterOptions{})

	require.Equal(t, []interfaces.BlockType{
		interfaces.BlockParagraph,
		interfaces.BlockMath,
		interfaces.BlockParagraph,
	}, blockTypes(blocks))
	require.Equal(t, []interfaces.RichText{PlainRun("Before the formula")}, blocks[0].Content)
	require.Empty(t, blocks[1].Content)
	require.Contains(t, blocks[1].MathHTML, `display="block"`)
	require.Equal(t, []interfaces.RichText{PlainRun("After the formula")}, blocks[2].Content)
}

func TestConvertOmitsEmptyRunsAroundDisplayMath(t *testing.T) {
	blocks := convertMarkdown(t, "$$a$$ and then $$b$$", ConverterOptions{})

	require.Equal(t, []interfaces.BlockType{
		interfaces.BlockMath,
		interfaces.BlockParagraph,
		interfaces.BlockMath,
	}, blockTypes(blocks))
}

func TestConvertTopLevelMathBlock(t *testing.T) {
	blocks := convertMarkdown(t, "$$\n\\sqrt{x}\n$$\n", ConverterOptions{})

	require.Len(t, blocks, 1)
	require.Equal(t, interfaces.BlockMath, blocks[0].Type)
	require.Empty(t, blocks[0].Content)
	require.Contains(t, blocks[0].MathHTML, "<msqrt>")
}

func TestConvertInvalidMathFallsBackToSource(t *testing.T) {
	blocks := convertMarkdown(t, "$$\n\\frac{1}\n$$\n", ConverterOptions{})

	require.Len(t, blocks, 1)
	require.Equal(t, `\frac{1}`, blocks[0].MathHTML)
}

func TestConvertInlineMathParagraphBecomesMarkup(t *testing.T) {
	source := "A **link function** $g$ maps *means* via [docs](https://example.com/glm?a=1&b=2) and `code` <x>."
	blocks := convertMarkdown(t, source, ConverterOptions{})

	require.Len(t, blocks, 1)
	block := blocks[0]
	require.Equal(t, interfaces.BlockParagraph, block.Type)
	require.Empty(t, block.Content)
	require.Contains(t, block.MathHTML, "A <strong>link function</strong> <math")
	require.Contains(t, block.MathHTML, "<em>means</em>")
	require.Contains(t, block.MathHTML,
		`<a href="https://example.com/glm?a=1&amp;b=2" target="_blank" rel="noopener noreferrer" class="link-body">docs</a>`)
	require.Contains(t, block.MathHTML, "<code>code</code>")
	require.NotContains(t, block.MathHTML, "<x>")
}

func TestConvertRichTextCombinesStyles(t *testing.T) {
	source := "Plain **bold *both*** and ~~gone~~ [link `code`](https://a.example)"
	blocks := convertMarkdown(t, source, ConverterOptions{})

	require.Len(t, blocks, 1)
	require.Equal(t, []interfaces.RichText{
		PlainRun("Plain "),
		styled("bold ", func(r *interfaces.RichText) { r.Annotations.Bold = true }),
		styled("both", func(r *interfaces.RichText) {
			r.Annotations.Bold = true
			r.Annotations.Italic = true
		}),
		PlainRun(" and "),
		styled("gone", func(r *interfaces.RichText) { r.Annotations.Strikethrough = true }),
		PlainRun(" "),
		styled("link ", func(r *interfaces.RichText) { r.Link = "https://a.example" }),
		styled("code", func(r *interfaces.RichText) {
			r.Link = "https://a.example"
			r.Annotations.Code = true
		}),
	}, blocks[0].Content)
}

func TestConvertQuoteCollectsChildren(t *testing.T) {
	blocks := convertMarkdown(t, "> Write first.\n>\n> Render $x$ later.\n", ConverterOptions{})

	require.Len(t, blocks, 1)
	require.Equal(t, interfaces.BlockQuote, blocks[0].Type)
	require.Empty(t, blocks[0].MathHTML)
	require.Equal(t, []interfaces.RichText{PlainRun("Write first.\nRender x later.")}, blocks[0].Content)
}

func TestConvertListsFlattenNestedItems(t *testing.T) {
	source := "1. first\n2. second\n\n- outer\n  - inner\n- last\n"
	blocks := convertMarkdown(t, source, ConverterOptions{})

	require.Equal(t, []interfaces.BlockType{
		interfaces.BlockNumberedListItem,
		interfaces.BlockNumberedListItem,
		interfaces.BlockBulletedListItem,
		interfaces.BlockBulletedListItem,
		interfaces.BlockBulletedListItem,
	}, blockTypes(blocks))
	require.Equal(t, "outer", blocks[2].Content[0].Text)
	require.Equal(t, "inner", blocks[3].Content[0].Text)
	require.Equal(t, "last", blocks[4].Content[0].Text)
}

func TestConvertListSkipsEmptyItems(t *testing.T) {
	blocks := convertMarkdown(t, "-\n- real\n", ConverterOptions{})

	require.Len(t, blocks, 1)
	require.Equal(t, "real", blocks[0].Content[0].Text)
}

func TestConvertCodeBlocks(t *testing.T) {
	blocks := convertMarkdown(t, "```go\nfmt.Println(1)\n```\n\n    x := 1\n", ConverterOptions{})

	require.Len(t, blocks, 2)
	require.Equal(t, interfaces.BlockCode, blocks[0].Type)
	require.Equal(t, "go", blocks[0].Language)
	require.Equal(t, []interfaces.RichText{PlainRun("fmt.Println(1)")}, blocks[0].Content)
	require.Equal(t, "plaintext", blocks[1].Language)
	require.Equal(t, "x := 1", blocks[1].Content[0].Text)
}

func TestConvertDividerAndImages(t *testing.T) {
	source := "Look ![chart](https://example.com/a.png) here\n\n---\n\n![only](/b.png)\n"
	blocks := convertMarkdown(t, source, ConverterOptions{})

	require.Equal(t, []interfaces.BlockType{
		interfaces.BlockParagraph,
		interfaces.BlockImage,
		interfaces.BlockDivider,
		interfaces.BlockImage,
	}, blockTypes(blocks))
	require.Equal(t, []interfaces.RichText{PlainRun("https://example.com/a.png")}, blocks[1].Content)
	require.Empty(t, blocks[2].Content)
	require.Equal(t, "/b.png", blocks[3].Content[0].Text)
}

func TestConvertAssignsSequentialIDs(t *testing.T) {
	source := "# A\n\nText $$x$$ more\n\n- one\n- two\n\n---\n"
	blocks := convertMarkdown(t, source, ConverterOptions{})

	require.NotEmpty(t, blocks)
	for i, block := range blocks {
		require.Equal(t, "block-"+strconv.Itoa(i), block.ID)
	}
}

func TestConvertSanitizedMarkupKeepsMathML(t *testing.T) {
	blocks := convertMarkdown(t, "Area is $\\pi r^2$ per **unit**.", ConverterOptions{Sanitize: true})

	require.Len(t, blocks, 1)
	require.Contains(t, blocks[0].MathHTML, "<math")
	require.Contains(t, blocks[0].MathHTML, "<msup>")
	require.Contains(t, blocks[0].MathHTML, "<strong>unit</strong>")
}

func TestConvertWithStatsCountsMath(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})
	body := []byte("Good $x$ and bad $\\frac{1}$.\n")

	_, stats := NewConverter(nil, ConverterOptions{}, nil).ConvertWithStats(parser.Parse(body), body)

	require.Equal(t, ConvertStats{MathRendered: 1, MathFallbacks: 1}, stats)
}
