package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

func plainText(tb testing.TB, source string) string {
	tb.Helper()
	body := []byte(source)
	return ExtractPlainText(NewGoldmarkParser(interfaces.ParseOptions{}).Parse(body), body)
}

func TestExtractPlainTextExcludesCodeAndMath(t *testing.T) {
	source := strings.Join([]string{
		"# Heading",
		"",
		"Prose with `inlineSecret` and $hiddenInline$ math.",
		"",
		"```python",
		"codeSecret = 1",
		"```",
		"",
		"$$",
		"blockSecret^2",
		"$$",
		"",
		"Closing words.",
	}, "\n")

	got := plainText(t, source)

	for _, secret := range []string{"inlineSecret", "hiddenInline", "codeSecret", "blockSecret"} {
		if strings.Contains(got, secret) {
			t.Fatalf("expected %q to be excluded, got %q", secret, got)
		}
	}
	if got != "Heading Prose with and math. Closing words." {
		t.Fatalf("unexpected plain text %q", got)
	}
}

func TestExtractPlainTextStripsSyntaxAndWhitespace(t *testing.T) {
	got := plainText(t, "Some **bold** and _it_ text\nacross   lines, plus [a link](https://x.example) and (parens) #tag.")

	want := "Some bold and it text across lines, plus a link and parens tag."
	if got != want {
		t.Fatalf("ExtractPlainText = %q, want %q", got, want)
	}
}

func TestExtractPlainTextKeepsWordsWhole(t *testing.T) {
	if got := plainText(t, "snake_case and don't!"); got != "snake case and don't!" {
		t.Fatalf("unexpected plain text %q", got)
	}
}

func TestBuildSearchText(t *testing.T) {
	fm := interfaces.Frontmatter{
		Title:   "Bayes' Rule",
		Date:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Summary: "Conditioning",
		Tags:    []string{"Bayes", "Probability"},
	}

	got := BuildSearchText(fm, "Body TEXT")
	if got != "bayes' rule conditioning bayes probability body text" {
		t.Fatalf("BuildSearchText = %q", got)
	}

	if got := BuildSearchText(interfaces.Frontmatter{Title: "Only"}, ""); got != "only" {
		t.Fatalf("expected empty parts to be skipped, got %q", got)
	}
}
