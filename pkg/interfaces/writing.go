package interfaces

import (
	"context"
	"time"
)

// PostStatus is the publication state reported for listed posts. Files on disk
// are always published; drafts live outside the content root.
const PostStatus = "published"

// BlockType identifies the kind of a ProcessedBlock.
type BlockType string

const (
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockParagraph        BlockType = "paragraph"
	BlockQuote            BlockType = "quote"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockCode             BlockType = "code"
	BlockDivider          BlockType = "divider"
	BlockImage            BlockType = "image"
	BlockMath             BlockType = "math"
)

// Frontmatter is the validated metadata header of a post.
type Frontmatter struct {
	Title        string    `json:"title" yaml:"title"`
	Date         time.Time `json:"date" yaml:"date"`
	Category     string    `json:"category" yaml:"category"`
	Slug         string    `json:"slug,omitempty" yaml:"slug,omitempty"`
	Tags         []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary      string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Excerpt      string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	FeatureImage string    `json:"featureImage,omitempty" yaml:"featureImage,omitempty"`
}

// Post is one discovered content file. Values are rebuilt on every read and
// never mutated once returned.
type Post struct {
	Slug        string      `json:"slug" yaml:"slug"`
	FilePath    string      `json:"filePath" yaml:"filePath"`
	Frontmatter Frontmatter `json:"frontmatter" yaml:"frontmatter"`
	RawContent  string      `json:"-" yaml:"-"`
	SearchText  string      `json:"searchText" yaml:"searchText"`
}

// Annotations carries the style flags of a rich text run. Flags combine freely.
type Annotations struct {
	Bold          bool   `json:"bold" yaml:"bold"`
	Italic        bool   `json:"italic" yaml:"italic"`
	Strikethrough bool   `json:"strikethrough" yaml:"strikethrough"`
	Underline     bool   `json:"underline" yaml:"underline"`
	Code          bool   `json:"code" yaml:"code"`
	Color         string `json:"color" yaml:"color"`
}

// RichText is a contiguous span of text sharing one style and link.
type RichText struct {
	Text        string      `json:"text" yaml:"text"`
	Link        string      `json:"link,omitempty" yaml:"link,omitempty"`
	Annotations Annotations `json:"annotations" yaml:"annotations"`
}

// ProcessedBlock is one renderable unit of a post body. Order within a post is
// the order of the returned slice; IDs only guarantee uniqueness.
type ProcessedBlock struct {
	ID       string     `json:"id" yaml:"id"`
	Type     BlockType  `json:"type" yaml:"type"`
	Content  []RichText `json:"content,omitempty" yaml:"content,omitempty"`
	Language string     `json:"language,omitempty" yaml:"language,omitempty"`
	MathHTML string     `json:"mathHtml,omitempty" yaml:"mathHtml,omitempty"`
}

// PostSummary is the listing view of a post.
type PostSummary struct {
	ID           string   `json:"id" yaml:"id"`
	Slug         string   `json:"slug" yaml:"slug"`
	Title        string   `json:"title" yaml:"title"`
	Category     string   `json:"category" yaml:"category"`
	Status       string   `json:"status" yaml:"status"`
	CreatedTime  string   `json:"createdTime" yaml:"createdTime"`
	Published    string   `json:"published" yaml:"published"`
	Excerpt      string   `json:"excerpt" yaml:"excerpt"`
	FeatureImage string   `json:"featureImage,omitempty" yaml:"featureImage,omitempty"`
	Tags         []string `json:"tags" yaml:"tags"`
	SearchText   string   `json:"searchText" yaml:"searchText"`
}

// PostContent is the by-slug view: listing metadata plus the block sequence.
type PostContent struct {
	Metadata PostSummary      `json:"metadata" yaml:"metadata"`
	Blocks   []ProcessedBlock `json:"blocks" yaml:"blocks"`
}

// PageRequest selects a window of the listing. Cursor is the slug of the last
// item of the previous page.
type PageRequest struct {
	Limit    int
	Cursor   string
	Category string
	Tag      string
	Query    string
}

// PostPage is a window of the listing.
type PostPage struct {
	Items      []PostSummary `json:"items" yaml:"items"`
	NextCursor string        `json:"nextCursor,omitempty" yaml:"nextCursor,omitempty"`
	HasMore    bool          `json:"hasMore" yaml:"hasMore"`
}

// CheckReport summarises a full content build.
type CheckReport struct {
	Posts         int            `json:"posts" yaml:"posts"`
	Blocks        int            `json:"blocks" yaml:"blocks"`
	MathRendered  int            `json:"mathRendered" yaml:"mathRendered"`
	MathFallbacks int            `json:"mathFallbacks" yaml:"mathFallbacks"`
	BlockTypes    map[string]int `json:"blockTypes" yaml:"blockTypes"`
}

// WritingService exposes the read operations over the writing collection.
type WritingService interface {
	Posts(ctx context.Context) ([]PostSummary, error)
	Page(ctx context.Context, req PageRequest) (*PostPage, error)
	Content(ctx context.Context, slug string) (*PostContent, error)
	Check(ctx context.Context) (*CheckReport, error)
}
