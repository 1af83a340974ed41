package markdown

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	goerrors "github.com/goliatone/go-errors"
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

// RepositoryConfig tunes how posts are validated.
type RepositoryConfig struct {
	// Dir is the directory scanned relative to the loader root.
	Dir        string
	Categories []string
	// Development logs the decoded header of posts that fail validation.
	Development bool
}

// Repository builds the post collection from the content root. Nothing is
// cached: every call rescans and rebuilds every post.
type Repository struct {
	loader      *Loader
	parser      *GoldmarkParser
	dir         string
	categories  []string
	development bool
	logger      interfaces.Logger
}

// NewRepository wires a repository over loader and parser.
func NewRepository(loader *Loader, parser *GoldmarkParser, cfg RepositoryConfig, logger interfaces.Logger) *Repository {
	if logger == nil {
		logger = logging.NoOp()
	}
	if parser == nil {
		parser = NewGoldmarkParser(interfaces.ParseOptions{})
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	categories := append([]string(nil), cfg.Categories...)
	if len(categories) == 0 {
		categories = append(categories, DefaultCategories...)
	}
	return &Repository{
		loader:      loader,
		parser:      parser,
		dir:         dir,
		categories:  categories,
		development: cfg.Development,
		logger:      logger,
	}
}

// List reads every post, newest first. One invalid post or a slug shared by
// two files fails the whole read.
func (r *Repository) List(ctx context.Context) ([]interfaces.Post, error) {
	scanID := uuid.NewString()
	ctx = logging.ContextWithFields(ctx, map[string]any{"scan_id": scanID})
	logger := r.logger.WithContext(ctx)

	results, err := r.loader.LoadDirectory(ctx, r.dir, LoadParams{})
	if err != nil {
		r.logScanFailure(logger, err)
		return nil, err
	}

	posts := make([]interfaces.Post, 0, len(results))
	owners := make(map[string]string, len(results))

	for _, result := range results {
		post, err := r.buildPost(result)
		if err != nil {
			if r.development {
				logging.WithPostContext(logger, result.Document.FilePath, "", "validate").
					Error("writing.posts.invalid", "error", err, "frontmatter", result.Document.Header)
			}
			return nil, err
		}

		if existing, ok := owners[post.Slug]; ok {
			err := slugConflictError(post.Slug, post.FilePath, existing)
			logging.WithPostContext(logger, post.FilePath, post.Slug, "collide").
				Error("writing.posts.slug_conflict", "error", err, "existing", existing)
			return nil, err
		}
		owners[post.Slug] = post.FilePath
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Frontmatter.Date.After(posts[j].Frontmatter.Date)
	})

	fields := []any{"count", len(posts)}
	if len(posts) > 0 {
		fields = append(fields, "newest", posts[0].Frontmatter.Date.Format(DateLayout))
	}
	logger.Debug("writing.posts.loaded", fields...)
	return posts, nil
}

// logScanFailure adds the file path and raw header carried by the error when
// running in development.
func (r *Repository) logScanFailure(logger interfaces.Logger, err error) {
	var typed *goerrors.Error
	if !r.development || !errors.As(err, &typed) || typed.Metadata == nil {
		logger.Error("writing.posts.scan_failed", "error", err)
		return
	}
	path, _ := typed.Metadata["path"].(string)
	header, _ := typed.Metadata["header"].(string)
	logging.WithPostContext(logger, path, "", "decode").
		Error("writing.posts.scan_failed", "error", err, "path", path, "header", header)
}

// Find returns the post whose slug matches after normalisation.
func (r *Repository) Find(ctx context.Context, slug string) (*interfaces.Post, error) {
	wanted := NormalizeSlug(slug)
	posts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if wanted != "" && posts[i].Slug == wanted {
			post := posts[i]
			return &post, nil
		}
	}
	return nil, postNotFoundError(slug)
}

// Parse returns the syntax tree of a post body.
func (r *Repository) Parse(post *interfaces.Post) (ast.Node, []byte) {
	source := []byte(post.RawContent)
	return r.parser.Parse(source), source
}

func (r *Repository) buildPost(result *DocumentResult) (interfaces.Post, error) {
	doc := result.Document
	fm, err := ValidateFrontmatter(result.Frontmatter, doc.FilePath, r.categories)
	if err != nil {
		return interfaces.Post{}, err
	}

	slug := NormalizeSlug(fm.Slug)
	if slug == "" {
		slug = PathSlug(doc.FilePath)
	}
	if slug == "" {
		return interfaces.Post{}, goerrors.NewValidation(
			fmt.Sprintf("invalid frontmatter in %s", doc.FilePath),
			goerrors.FieldError{Field: "slug", Message: "no usable slug characters in slug or file name", Value: fm.Slug},
		).WithTextCode(TextCodeFrontmatterInvalid).WithMetadata(map[string]any{"path": doc.FilePath})
	}

	tree := r.parser.Parse(doc.Body)
	plain := ExtractPlainText(tree, doc.Body)

	return interfaces.Post{
		Slug:        slug,
		FilePath:    doc.FilePath,
		Frontmatter: fm,
		RawContent:  string(doc.Body),
		SearchText:  BuildSearchText(fm, plain),
	}, nil
}
