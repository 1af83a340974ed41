package markdown

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeFrontmatterInvalid = "WRITING_FRONTMATTER_INVALID"
	TextCodeSlugConflict       = "WRITING_SLUG_CONFLICT"
	TextCodePostNotFound       = "WRITING_POST_NOT_FOUND"
	TextCodeContentRead        = "WRITING_CONTENT_READ_FAILED"
	TextCodeMathRender         = "WRITING_MATH_RENDER_FAILED"
)

func slugConflictError(slug, path, existing string) error {
	return goerrors.New(fmt.Sprintf("slug conflict: %q is used by both %q and %q", slug, path, existing), goerrors.CategoryConflict).
		WithTextCode(TextCodeSlugConflict).
		WithMetadata(map[string]any{
			"slug":     slug,
			"path":     path,
			"existing": existing,
		})
}

func postNotFoundError(slug string) error {
	return goerrors.New(fmt.Sprintf("post %q not found", slug), goerrors.CategoryNotFound).
		WithTextCode(TextCodePostNotFound).
		WithMetadata(map[string]any{"slug": slug})
}

func contentReadError(err error, path string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("read content %s", path)).
		WithTextCode(TextCodeContentRead)
}
