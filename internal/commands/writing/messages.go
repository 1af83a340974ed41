package writingcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-writing/internal/markdown"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

const (
	listPostsMessageType    = "writing.posts.list"
	showPostMessageType     = "writing.posts.show"
	checkContentMessageType = "writing.content.check"
)

// ListPostsCommand requests a page of the post listing.
type ListPostsCommand struct {
	// Limit caps the page size; zero selects the service default.
	Limit    int    `json:"limit,omitempty"`
	Cursor   string `json:"cursor,omitempty"`
	Category string `json:"category,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Query    string `json:"query,omitempty"`
	// OnResult receives the page when the command succeeds.
	OnResult func(*interfaces.PostPage) `json:"-"`
}

// Type implements command.Message.
func (ListPostsCommand) Type() string { return listPostsMessageType }

// Validate bounds the paging inputs before handlers execute.
func (cmd ListPostsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Limit, validation.Min(0), validation.Max(markdown.MaxPageLimit)),
		validation.Field(&cmd.Cursor, validation.By(slugShaped("writing.posts.list.cursor_invalid"))),
	)
}

// Request maps the command onto a service page request.
func (cmd ListPostsCommand) Request() interfaces.PageRequest {
	return interfaces.PageRequest{
		Limit:    cmd.Limit,
		Cursor:   strings.TrimSpace(cmd.Cursor),
		Category: strings.TrimSpace(cmd.Category),
		Tag:      strings.TrimSpace(cmd.Tag),
		Query:    strings.TrimSpace(cmd.Query),
	}
}

// ShowPostCommand requests the metadata and blocks of one post.
type ShowPostCommand struct {
	Slug     string                        `json:"slug"`
	OnResult func(*interfaces.PostContent) `json:"-"`
}

// Type implements command.Message.
func (ShowPostCommand) Type() string { return showPostMessageType }

// Validate ensures a slug is present.
func (cmd ShowPostCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slug, validation.Required, validation.By(func(value any) error {
			if markdown.NormalizeSlug(value.(string)) == "" {
				return validation.NewError("writing.posts.show.slug_invalid", "slug has no usable characters")
			}
			return nil
		})),
	)
}

// CheckContentCommand builds every post and reports totals.
type CheckContentCommand struct {
	// FailOnFallback turns any math fallback into a command failure.
	FailOnFallback bool                          `json:"fail_on_fallback,omitempty"`
	OnResult       func(*interfaces.CheckReport) `json:"-"`
}

// Type implements command.Message.
func (CheckContentCommand) Type() string { return checkContentMessageType }

// Validate satisfies command.Message.
func (CheckContentCommand) Validate() error {
	return validation.ValidateStruct(&CheckContentCommand{})
}

func slugShaped(code string) validation.RuleFunc {
	return func(value any) error {
		cursor := strings.TrimSpace(value.(string))
		if cursor == "" || markdown.IsValidSlug(cursor) {
			return nil
		}
		return validation.NewError(code, "must be a post slug")
	}
}
