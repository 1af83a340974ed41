package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrWritingContentDirRequired = errors.New("writing config: content directory is required when writing is enabled")

// ErrWritingPatternInvalid reports a content glob that path.Match rejects.
var ErrWritingPatternInvalid = errors.New("writing config: content pattern is invalid")

// ErrWritingCategoriesRequired guards against an empty closed category set.
var ErrWritingCategoriesRequired = errors.New("writing config: at least one category is required")
var ErrWritingExtensionUnknown = errors.New("writing config: markdown extension is invalid")
var ErrEnvironmentUnknown = errors.New("writing config: environment is invalid")
var ErrLoggingProviderRequired = errors.New("writing config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("writing config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("writing config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("writing config: logging format is invalid")

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"
)

// Config aggregates feature flags and bindings for the writing module.
type Config struct {
	Environment string
	Features    Features
	Writing     WritingConfig
	Logging     LoggingConfig
}

// Features toggles module functionality.
type Features struct {
	Writing bool
	Logger  bool
}

// WritingConfig captures filesystem and parser behaviour for the post collection.
type WritingConfig struct {
	ContentDir string
	Patterns   []string
	Recursive  bool
	Categories []string
	Parser     ParserConfig
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	// Extensions defaults to gfm, linkify and tasklist when empty.
	Extensions []string
	Sanitize   bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used by the CLI and the root facade.
func DefaultConfig() Config {
	return Config{
		Environment: EnvironmentProduction,
		Features: Features{
			Writing: true,
		},
		Writing: WritingConfig{
			ContentDir: "content/writing",
			Patterns:   []string{"*.mdx", "*.md"},
			Recursive:  true,
			Categories: []string{"mathstat", "regression", "projects"},
			Parser: ParserConfig{
				Sanitize: true,
			},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Development reports whether invalid headers should be dumped to the log.
func (cfg Config) Development() bool {
	return strings.EqualFold(strings.TrimSpace(cfg.Environment), EnvironmentDevelopment)
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if env := strings.ToLower(strings.TrimSpace(cfg.Environment)); env != "" && !isSupportedEnvironment(env) {
		return fmt.Errorf("%w: %s", ErrEnvironmentUnknown, cfg.Environment)
	}
	if cfg.Features.Writing {
		if strings.TrimSpace(cfg.Writing.ContentDir) == "" {
			return ErrWritingContentDirRequired
		}
		for _, pattern := range cfg.Writing.Patterns {
			if _, err := path.Match(strings.TrimSpace(pattern), ""); err != nil {
				return fmt.Errorf("%w: %s", ErrWritingPatternInvalid, pattern)
			}
		}
		if !hasNonBlank(cfg.Writing.Categories) {
			return ErrWritingCategoriesRequired
		}
		for _, ext := range cfg.Writing.Parser.Extensions {
			if !isSupportedExtension(ext) {
				return fmt.Errorf("%w: %s", ErrWritingExtensionUnknown, ext)
			}
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider != "console" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func hasNonBlank(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedEnvironment(env string) bool {
	switch env {
	case EnvironmentDevelopment, EnvironmentProduction, EnvironmentTest:
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zerolog":
		return true
	default:
		return false
	}
}

func isSupportedExtension(ext string) bool {
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case "gfm", "table", "tables", "strikethrough", "linkify", "autolink", "tasklist", "footnote":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
