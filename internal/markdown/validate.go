package markdown

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

// DateLayout is the only accepted frontmatter date format.
const DateLayout = "2006-01-02"

// DefaultCategories is the closed category set used when none is configured.
var DefaultCategories = []string{"mathstat", "regression", "projects"}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FrontmatterResult is the outcome of checking one header: either a usable
// Frontmatter or the field level issues that prevent it.
type FrontmatterResult struct {
	Frontmatter interfaces.Frontmatter
	Issues      goerrors.ValidationErrors
}

// OK reports whether the header passed every rule.
func (r FrontmatterResult) OK() bool {
	return len(r.Issues) == 0
}

// CheckFrontmatter applies the header rules without producing an error value.
// Issues are sorted by field name so reports are stable.
func CheckFrontmatter(raw RawFrontmatter, categories []string) FrontmatterResult {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	allowed := make([]any, 0, len(categories))
	for _, category := range categories {
		allowed = append(allowed, category)
	}

	err := validation.ValidateStruct(&raw,
		validation.Field(&raw.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 0),
		),
		validation.Field(&raw.Date,
			validation.Required.Error("date is required"),
			validation.Match(datePattern).Error("date must use the YYYY-MM-DD format"),
			validation.Date(DateLayout).Error("date must be a real calendar date"),
		),
		validation.Field(&raw.Category,
			validation.Required.Error("category is required"),
			validation.In(allowed...).Error(fmt.Sprintf("category must be one of: %s", strings.Join(categories, ", "))),
		),
		validation.Field(&raw.FeatureImage,
			is.RequestURL.Error("featureImage must be a valid URL or empty"),
		),
	)
	if err != nil {
		return FrontmatterResult{Issues: collectIssues(err, raw)}
	}

	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return FrontmatterResult{Issues: goerrors.ValidationErrors{{
			Field:   "date",
			Message: "date must be a real calendar date",
			Value:   raw.Date,
		}}}
	}

	return FrontmatterResult{
		Frontmatter: interfaces.Frontmatter{
			Title:        raw.Title,
			Date:         date,
			Category:     raw.Category,
			Slug:         raw.Slug,
			Tags:         append([]string(nil), raw.Tags...),
			Summary:      raw.Summary,
			Excerpt:      raw.Excerpt,
			FeatureImage: raw.FeatureImage,
		},
	}
}

// ValidateFrontmatter is the error returning boundary over CheckFrontmatter.
// The error is a go-errors validation error naming the file path.
func ValidateFrontmatter(raw RawFrontmatter, path string, categories []string) (interfaces.Frontmatter, error) {
	result := CheckFrontmatter(raw, categories)
	if result.OK() {
		return result.Frontmatter, nil
	}
	return interfaces.Frontmatter{}, goerrors.NewValidation(
		fmt.Sprintf("invalid frontmatter in %s", path),
		result.Issues...,
	).WithTextCode(TextCodeFrontmatterInvalid).WithMetadata(map[string]any{"path": path})
}

func collectIssues(err error, raw RawFrontmatter) goerrors.ValidationErrors {
	converted := goerrors.FromOzzoValidation(err, "frontmatter validation failed")
	issues := append(goerrors.ValidationErrors(nil), converted.ValidationErrors...)
	if len(issues) == 0 {
		issues = append(issues, goerrors.FieldError{Field: "frontmatter", Message: err.Error()})
	}

	values := raw.Map()
	for i := range issues {
		if value, ok := values[issues[i].Field]; ok {
			issues[i].Value = value
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		return issues[i].Field < issues[j].Field
	})
	return issues
}
