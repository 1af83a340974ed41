package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

const (
	// DefaultPageLimit is used when a page request names no limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps a single page.
	MaxPageLimit = 100
)

// Config controls how the writing service discovers and parses posts.
type Config struct {
	// Enabled gates the whole collection; a disabled service lists nothing.
	Enabled     bool
	ContentDir  string
	Patterns    []string
	Recursive   bool
	Categories  []string
	Development bool
	Parser      interfaces.ParseOptions
}

// DefaultConfig mirrors the runtime defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		ContentDir: "content/writing",
		Patterns:   append([]string(nil), DefaultPatterns...),
		Recursive:  true,
		Categories: append([]string(nil), DefaultCategories...),
	}
}

// ServiceOption customises a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	filesystem fs.FS
	provider   interfaces.LoggerProvider
}

// WithFilesystem reads content from filesystem instead of ContentDir.
func WithFilesystem(filesystem fs.FS) ServiceOption {
	return func(o *serviceOptions) {
		o.filesystem = filesystem
	}
}

// WithLoggerProvider routes service logs through provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// Service implements interfaces.WritingService over a content root.
type Service struct {
	cfg       Config
	repo      *Repository
	converter *Converter
	logger    interfaces.Logger
}

var _ interfaces.WritingService = (*Service)(nil)

// NewService constructs the writing service. A content directory that does
// not exist yet reads as an empty collection until it is created.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	options := serviceOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	filesystem := options.filesystem
	if filesystem == nil {
		var err error
		filesystem, err = prepareFilesystem(cfg.ContentDir)
		if err != nil {
			return nil, err
		}
	}

	postsLogger := logging.PostsLogger(options.provider)
	blocksLogger := logging.BlocksLogger(options.provider)

	parser := NewGoldmarkParser(cfg.Parser)
	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.ContentDir,
		Patterns:  cfg.Patterns,
		Recursive: cfg.Recursive,
	})
	repo := NewRepository(loader, parser, RepositoryConfig{
		Categories:  cfg.Categories,
		Development: cfg.Development,
	}, postsLogger)
	converter := NewConverter(NewMathRenderer(blocksLogger), ConverterOptions{Sanitize: cfg.Parser.Sanitize}, blocksLogger)

	return &Service{
		cfg:       cfg,
		repo:      repo,
		converter: converter,
		logger:    logging.WritingLogger(options.provider),
	}, nil
}

// Posts returns the listing view of every post, newest first.
func (s *Service) Posts(ctx context.Context) ([]interfaces.PostSummary, error) {
	if !s.cfg.Enabled {
		return []interfaces.PostSummary{}, nil
	}
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]interfaces.PostSummary, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, Summarize(&posts[i]))
	}
	return summaries, nil
}

// Page returns a filtered window of the listing. The cursor is the slug of
// the last item already seen; an unknown cursor restarts from the top.
func (s *Service) Page(ctx context.Context, req interfaces.PageRequest) (*interfaces.PostPage, error) {
	summaries, err := s.Posts(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := filterSummaries(summaries, req)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	start := 0
	if cursor := strings.TrimSpace(req.Cursor); cursor != "" {
		for i, item := range filtered {
			if item.Slug == cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := &interfaces.PostPage{Items: append([]interfaces.PostSummary{}, filtered[start:end]...)}
	if end < len(filtered) && len(page.Items) > 0 {
		page.HasMore = true
		page.NextCursor = page.Items[len(page.Items)-1].Slug
	}
	return page, nil
}

// Content returns the metadata and blocks of one post.
func (s *Service) Content(ctx context.Context, slug string) (*interfaces.PostContent, error) {
	if !s.cfg.Enabled {
		return nil, postNotFoundError(slug)
	}
	post, err := s.repo.Find(ctx, slug)
	if err != nil {
		return nil, err
	}
	tree, source := s.repo.Parse(post)
	return &interfaces.PostContent{
		Metadata: Summarize(post),
		Blocks:   s.converter.Convert(tree, source),
	}, nil
}

// Check converts every post and reports totals. It fails on the same errors
// as the listing.
func (s *Service) Check(ctx context.Context) (*interfaces.CheckReport, error) {
	report := &interfaces.CheckReport{BlockTypes: map[string]int{}}
	if !s.cfg.Enabled {
		return report, nil
	}

	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tree, source := s.repo.Parse(&posts[i])
		blocks, stats := s.converter.ConvertWithStats(tree, source)
		report.Posts++
		report.Blocks += len(blocks)
		report.MathRendered += stats.MathRendered
		report.MathFallbacks += stats.MathFallbacks
		for _, block := range blocks {
			report.BlockTypes[string(block.Type)]++
		}
	}

	s.logger.Info("writing.check.completed",
		"posts", report.Posts,
		"blocks", report.Blocks,
		"math_fallbacks", report.MathFallbacks,
	)
	return report, nil
}

// Summarize maps a post onto its listing view.
func Summarize(post *interfaces.Post) interfaces.PostSummary {
	fm := post.Frontmatter
	date := fm.Date.Format(DateLayout)
	excerpt := fm.Excerpt
	if excerpt == "" {
		excerpt = fm.Summary
	}
	tags := append([]string{}, fm.Tags...)
	return interfaces.PostSummary{
		ID:           post.Slug,
		Slug:         post.Slug,
		Title:        fm.Title,
		Category:     fm.Category,
		Status:       interfaces.PostStatus,
		CreatedTime:  date,
		Published:    date,
		Excerpt:      excerpt,
		FeatureImage: fm.FeatureImage,
		Tags:         tags,
		SearchText:   post.SearchText,
	}
}

func filterSummaries(items []interfaces.PostSummary, req interfaces.PageRequest) ([]interfaces.PostSummary, error) {
	category := strings.TrimSpace(req.Category)
	query := strings.ToLower(strings.TrimSpace(req.Query))

	tag := ""
	if strings.TrimSpace(req.Tag) != "" {
		normalized, err := TagSlug(req.Tag)
		if err != nil {
			return nil, fmt.Errorf("writing: normalise tag %q: %w", req.Tag, err)
		}
		tag = normalized
	}

	if category == "" && tag == "" && query == "" {
		return items, nil
	}

	filtered := make([]interfaces.PostSummary, 0, len(items))
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if query != "" && !strings.Contains(item.SearchText, query) {
			continue
		}
		if tag != "" && !hasTag(item.Tags, tag) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func hasTag(tags []string, wanted string) bool {
	for _, tag := range tags {
		if normalized, err := TagSlug(tag); err == nil && normalized == wanted {
			return true
		}
	}
	return false
}

func prepareFilesystem(contentDir string) (fs.FS, error) {
	if strings.TrimSpace(contentDir) == "" {
		contentDir = "."
	}
	info, err := os.Stat(contentDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return os.DirFS(contentDir), nil
	case err != nil:
		return nil, contentReadError(err, contentDir)
	case !info.IsDir():
		return nil, fmt.Errorf("writing: content root %s is not a directory", contentDir)
	}
	return os.DirFS(contentDir), nil
}
