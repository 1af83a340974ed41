package writingcmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-writing/internal/commands"
	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

const (
	listOperation  = "writing.list_posts"
	showOperation  = "writing.show_post"
	checkOperation = "writing.check_content"

	textCodeMathFallback = "WRITING_MATH_FALLBACK"
)

var (
	// ErrWritingFeatureDisabled is returned when the writing feature flag is disabled at runtime.
	ErrWritingFeatureDisabled = errors.New("writing command: feature disabled")
)

var (
	_ command.Commander[ListPostsCommand]    = (*ListPostsHandler)(nil)
	_ command.Commander[ShowPostCommand]     = (*ShowPostHandler)(nil)
	_ command.Commander[CheckContentCommand] = (*CheckContentHandler)(nil)
)

// ListPostsHandler serves listing pages through the shared command handler foundation.
type ListPostsHandler struct {
	inner *commands.Handler[ListPostsCommand]
}

// NewListPostsHandler creates a handler bound to the supplied writing service.
func NewListPostsHandler(service interfaces.WritingService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ListPostsCommand]) *ListPostsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ListPostsCommand) error {
		if !gates.writingEnabled() {
			return ErrWritingFeatureDisabled
		}

		page, err := service.Page(ctx, msg.Request())
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"count":    len(page.Items),
			"has_more": page.HasMore,
		}).Debug("writing.command.list_posts.completed")
		if msg.OnResult != nil {
			msg.OnResult(page)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ListPostsCommand]{
		commands.WithLogger[ListPostsCommand](baseLogger),
		commands.WithOperation[ListPostsCommand](listOperation),
		commands.WithMessageFields(func(msg ListPostsCommand) map[string]any {
			fields := map[string]any{}
			if msg.Limit > 0 {
				fields["limit"] = msg.Limit
			}
			if msg.Cursor != "" {
				fields["cursor"] = msg.Cursor
			}
			if msg.Category != "" {
				fields["category"] = msg.Category
			}
			if msg.Tag != "" {
				fields["tag"] = msg.Tag
			}
			if msg.Query != "" {
				fields["query"] = msg.Query
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ListPostsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ListPostsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ListPostsCommand].
func (h *ListPostsHandler) Execute(ctx context.Context, msg ListPostsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ShowPostHandler resolves one post and its blocks.
type ShowPostHandler struct {
	inner *commands.Handler[ShowPostCommand]
}

// NewShowPostHandler creates a handler bound to the supplied writing service.
func NewShowPostHandler(service interfaces.WritingService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ShowPostCommand]) *ShowPostHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ShowPostCommand) error {
		if !gates.writingEnabled() {
			return ErrWritingFeatureDisabled
		}

		content, err := service.Content(ctx, msg.Slug)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"slug":   content.Metadata.Slug,
			"blocks": len(content.Blocks),
		}).Debug("writing.command.show_post.completed")
		if msg.OnResult != nil {
			msg.OnResult(content)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ShowPostCommand]{
		commands.WithLogger[ShowPostCommand](baseLogger),
		commands.WithOperation[ShowPostCommand](showOperation),
		commands.WithMessageFields(func(msg ShowPostCommand) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ShowPostCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ShowPostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ShowPostCommand].
func (h *ShowPostHandler) Execute(ctx context.Context, msg ShowPostCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CheckContentHandler converts the whole collection and reports totals.
type CheckContentHandler struct {
	inner *commands.Handler[CheckContentCommand]
}

// NewCheckContentHandler creates a handler bound to the supplied writing service.
func NewCheckContentHandler(service interfaces.WritingService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CheckContentCommand]) *CheckContentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CheckContentCommand) error {
		if !gates.writingEnabled() {
			return ErrWritingFeatureDisabled
		}

		report, err := service.Check(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"posts":          report.Posts,
			"blocks":         report.Blocks,
			"math_rendered":  report.MathRendered,
			"math_fallbacks": report.MathFallbacks,
		}).Info("writing.command.check_content.completed")
		if msg.OnResult != nil {
			msg.OnResult(report)
		}
		if msg.FailOnFallback && report.MathFallbacks > 0 {
			return goerrors.New(
				fmt.Sprintf("%d math expressions fell back to source", report.MathFallbacks),
				goerrors.CategoryValidation,
			).WithTextCode(textCodeMathFallback).WithMetadata(map[string]any{
				"math_fallbacks": report.MathFallbacks,
			})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CheckContentCommand]{
		commands.WithLogger[CheckContentCommand](baseLogger),
		commands.WithOperation[CheckContentCommand](checkOperation),
		commands.WithMessageFields(func(msg CheckContentCommand) map[string]any {
			if msg.FailOnFallback {
				return map[string]any{"fail_on_fallback": true}
			}
			return nil
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CheckContentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckContentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CheckContentCommand].
func (h *CheckContentHandler) Execute(ctx context.Context, msg CheckContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
