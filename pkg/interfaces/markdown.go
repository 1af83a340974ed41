package interfaces

import "time"

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	// Extensions lists goldmark extensions by name. Math syntax is always on.
	Extensions []string
	// Sanitize scrubs the markup carried by inline-math paragraphs.
	Sanitize bool
}

// Document represents a Markdown file split into its header and body. The
// header is kept as decoded so validation can report on the raw values.
type Document struct {
	FilePath     string
	Header       map[string]any
	Body         []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content.
	Checksum []byte
}
