package markdown

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	pathpkg "path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

// DefaultPatterns are the content file globs used when none are configured.
var DefaultPatterns = []string{"*.mdx", "*.md"}

// LoaderConfig configures how content files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the content root on disk, used to resolve absolute paths.
	BasePath string
	// Patterns limits discovered files to those matching any glob.
	Patterns []string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into documents with decoded headers.
type Loader struct {
	fs        fs.FS
	basePath  string
	patterns  []string
	recursive bool
}

// NewLoader constructs a Loader over filesystem. A nil filesystem behaves
// like an empty content root.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	patterns := make([]string, 0, len(cfg.Patterns))
	for _, pattern := range cfg.Patterns {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	if len(patterns) == 0 {
		patterns = append(patterns, DefaultPatterns...)
	}

	basePath := ""
	if strings.TrimSpace(cfg.BasePath) != "" {
		basePath = filepath.Clean(cfg.BasePath)
	}

	return &Loader{
		fs:        filesystem,
		basePath:  basePath,
		patterns:  patterns,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads a single document and splits its header from the body.
func (l *Loader) LoadFile(ctx context.Context, path string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.fs == nil {
		return nil, contentReadError(fs.ErrNotExist, path)
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, contentReadError(err, rel)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, contentReadError(err, rel)
	}

	doc, raw, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &DocumentResult{
		Document:    doc,
		Frontmatter: raw,
		Source:      data,
	}, nil
}

// LoadDirectory discovers content files under dir, ordered by path. A
// missing dir yields no documents.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.fs == nil {
		return nil, nil
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.ToSlash(filepath.Clean(root))

	recursive := l.recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = l.patterns
	}

	var results []*DocumentResult
	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil && path == root && errors.Is(err, fs.ErrNotExist):
			return fs.SkipAll
		case err != nil:
			return contentReadError(err, path)
		case d.IsDir():
			if path != root && !recursive {
				return fs.SkipDir
			}
			return nil
		case !matchesAny(path, patterns):
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := l.LoadFile(ctx, path)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	slices.SortFunc(results, func(a, b *DocumentResult) int {
		return strings.Compare(a.Document.FilePath, b.Document.FilePath)
	})
	return results, nil
}

// matchesAny tests globs against the base name, or against the whole slash
// path when the glob has a directory part. "**/" prefixes are dropped.
func matchesAny(path string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(pattern string) bool {
		pattern = strings.ReplaceAll(filepath.ToSlash(pattern), "**/", "")
		target := pathpkg.Base(path)
		if strings.Contains(pattern, "/") {
			target = path
		}
		match, err := pathpkg.Match(pattern, target)
		return err == nil && match
	})
}

func (l *Loader) makeRelative(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("content loader: absolute path %s provided without base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("content loader: make relative %s: %w", path, err)
	}
	return rel, nil
}

// DocumentResult carries the split document along with its decoded header
// and the raw file bytes.
type DocumentResult struct {
	Document    *interfaces.Document
	Frontmatter RawFrontmatter
	Source      []byte
}

// LoadParams provide call-specific overrides for discovery.
type LoadParams struct {
	Patterns  []string
	Recursive *bool
}
