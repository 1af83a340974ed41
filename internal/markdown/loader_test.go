package markdown

import (
	"context"
	"crypto/sha256"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func loadedPaths(results []*DocumentResult) []string {
	paths := make([]string, 0, len(results))
	for _, result := range results {
		paths = append(paths, result.Document.FilePath)
	}
	return paths
}

func TestLoaderLoadDirectoryRecursive(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata/site"), LoaderConfig{Recursive: true})

	results, err := loader.LoadDirectory(context.Background(), ".", LoadParams{})
	require.NoError(t, err)
	require.Equal(t, []string{"2024/glm-intro.mdx", "bayes.mdx", "projects/blog-engine.md"}, loadedPaths(results))

	glm := results[0]
	require.Equal(t, "Generalized Linear Models", glm.Frontmatter.Title)
	require.Equal(t, "2024-06-01", glm.Document.Header["date"])

	sum := sha256.Sum256(glm.Source)
	require.Equal(t, sum[:], glm.Document.Checksum)
	require.False(t, glm.Document.LastModified.IsZero())
}

func TestLoaderNonRecursiveOverride(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata/site"), LoaderConfig{Recursive: true})
	recursive := false

	results, err := loader.LoadDirectory(context.Background(), ".", LoadParams{Recursive: &recursive})
	require.NoError(t, err)
	require.Equal(t, []string{"bayes.mdx"}, loadedPaths(results))
}

func TestLoaderPatterns(t *testing.T) {
	filesystem := fstest.MapFS{
		"a.md":        &fstest.MapFile{Data: []byte("A")},
		"b.mdx":       &fstest.MapFile{Data: []byte("B")},
		"drafts/c.md": &fstest.MapFile{Data: []byte("C")},
	}

	loader := NewLoader(filesystem, LoaderConfig{Patterns: []string{" *.md ", ""}, Recursive: true})
	results, err := loader.LoadDirectory(context.Background(), ".", LoadParams{})
	require.NoError(t, err)
	require.Equal(t, []string{"a.md", "drafts/c.md"}, loadedPaths(results))

	results, err = loader.LoadDirectory(context.Background(), ".", LoadParams{Patterns: []string{"drafts/*.md"}})
	require.NoError(t, err)
	require.Equal(t, []string{"drafts/c.md"}, loadedPaths(results))
}

func TestLoaderMissingRoot(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{})

	results, err := loader.LoadDirectory(context.Background(), "absent", LoadParams{})
	require.NoError(t, err)
	require.Empty(t, results)

	_, err = loader.LoadFile(context.Background(), "absent/post.mdx")
	require.Error(t, err)
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata/site"), LoaderConfig{Recursive: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.LoadDirectory(ctx, ".", LoadParams{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoaderRejectsAbsolutePathWithoutBase(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{})

	_, err := loader.LoadFile(context.Background(), "/etc/post.mdx")
	require.Error(t, err)
}
