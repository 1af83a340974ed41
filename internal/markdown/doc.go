// Package markdown turns a directory of essays into the writing collection:
// header validation, slugs, search text, and the block model with typeset
// math. Every read rescans the content root; callers own any caching.
package markdown
