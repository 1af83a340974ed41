package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-writing/pkg/interfaces"
)

const (
	rootModule   = "writing"
	postsModule  = rootModule + ".posts"
	blocksModule = rootModule + ".blocks"
)

// ModuleLogger asks provider for the named logger and tags it with a module
// field. A nil provider, or one returning nil, yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		return NoOp()
	}
	return WithFields(logger, map[string]any{"module": module})
}

func WritingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// PostsLogger is used by the post repository.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postsModule)
}

// BlocksLogger is used by block conversion and math rendering.
func BlocksLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, blocksModule)
}

// WithPostContext binds post_path, slug and action, skipping blank values.
func WithPostContext(logger interfaces.Logger, path, slug, action string) interfaces.Logger {
	fields := make(map[string]any, 3)
	for key, value := range map[string]string{
		fieldPostPath: path,
		fieldPostSlug: slug,
		fieldAction:   action,
	} {
		if value = strings.TrimSpace(value); value != "" {
			fields[key] = value
		}
	}
	return WithFields(logger, fields)
}

const (
	fieldPostPath = "post_path"
	fieldPostSlug = "slug"
	fieldAction   = "action"
)

// NoOp discards everything.
func NoOp() interfaces.Logger { return noopLogger{} }

type noopLogger struct{}

var _ interfaces.FieldsLogger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
