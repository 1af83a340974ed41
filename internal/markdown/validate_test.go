package markdown

import (
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func validRaw() RawFrontmatter {
	return RawFrontmatter{
		Title:        "Generalized Linear Models",
		Date:         "2024-06-01",
		Category:     "regression",
		Tags:         []string{"glm"},
		FeatureImage: "https://example.com/glm.png",
	}
}

func TestValidateFrontmatterAcceptsValidHeader(t *testing.T) {
	fm, err := ValidateFrontmatter(validRaw(), "2024/glm-intro.mdx", nil)
	if err != nil {
		t.Fatalf("ValidateFrontmatter: %v", err)
	}
	if fm.Category != "regression" {
		t.Fatalf("unexpected category %q", fm.Category)
	}
	if got := fm.Date.Format(DateLayout); got != "2024-06-01" {
		t.Fatalf("unexpected date %s", got)
	}
	if len(fm.Tags) != 1 || fm.Tags[0] != "glm" {
		t.Fatalf("unexpected tags %#v", fm.Tags)
	}
}

func TestValidateFrontmatterAllowsEmptyOptionalFields(t *testing.T) {
	raw := validRaw()
	raw.FeatureImage = ""
	raw.Tags = nil

	if _, err := ValidateFrontmatter(raw, "post.mdx", nil); err != nil {
		t.Fatalf("expected empty optional fields to pass: %v", err)
	}
}

func TestValidateFrontmatterRejectsInvalidFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RawFrontmatter)
		field  string
	}{
		{"missing title", func(r *RawFrontmatter) { r.Title = "" }, "title"},
		{"missing date", func(r *RawFrontmatter) { r.Date = "" }, "date"},
		{"date format", func(r *RawFrontmatter) { r.Date = "06/01/2024" }, "date"},
		{"date with time", func(r *RawFrontmatter) { r.Date = "2024-06-01T10:00:00Z" }, "date"},
		{"impossible date", func(r *RawFrontmatter) { r.Date = "2024-02-30" }, "date"},
		{"unknown category", func(r *RawFrontmatter) { r.Category = "poetry" }, "category"},
		{"missing category", func(r *RawFrontmatter) { r.Category = "" }, "category"},
		{"bad image url", func(r *RawFrontmatter) { r.FeatureImage = "not a url" }, "featureImage"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			tc.mutate(&raw)

			_, err := ValidateFrontmatter(raw, "content/post.mdx", nil)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}

			var typed *goerrors.Error
			if !goerrors.As(err, &typed) {
				t.Fatalf("expected go-errors error, got %T", err)
			}
			if typed.TextCode != TextCodeFrontmatterInvalid {
				t.Fatalf("unexpected text code %q", typed.TextCode)
			}
			if !strings.Contains(typed.Message, "content/post.mdx") {
				t.Fatalf("expected message to name the file, got %q", typed.Message)
			}
			if len(typed.ValidationErrors) != 1 || typed.ValidationErrors[0].Field != tc.field {
				t.Fatalf("expected a single %s issue, got %#v", tc.field, typed.ValidationErrors)
			}
		})
	}
}

func TestCheckFrontmatterSortsIssues(t *testing.T) {
	result := CheckFrontmatter(RawFrontmatter{Category: "poetry"}, nil)
	if result.OK() {
		t.Fatal("expected issues")
	}

	var fields []string
	for _, issue := range result.Issues {
		fields = append(fields, issue.Field)
	}
	if strings.Join(fields, ",") != "category,date,title" {
		t.Fatalf("unexpected issue order %v", fields)
	}
	if result.Issues[0].Value != "poetry" {
		t.Fatalf("expected offending value to be reported, got %#v", result.Issues[0].Value)
	}
	if !strings.Contains(result.Issues[0].Message, "mathstat, regression, projects") {
		t.Fatalf("expected allowed categories in message, got %q", result.Issues[0].Message)
	}
}

func TestCheckFrontmatterUsesConfiguredCategories(t *testing.T) {
	raw := validRaw()
	raw.Category = "essays"

	if result := CheckFrontmatter(raw, []string{"essays"}); !result.OK() {
		t.Fatalf("expected configured category to pass, got %#v", result.Issues)
	}
	if result := CheckFrontmatter(validRaw(), []string{"essays"}); result.OK() {
		t.Fatal("expected default category to be rejected when not configured")
	}
}
