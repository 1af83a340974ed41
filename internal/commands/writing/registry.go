package writingcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-writing/internal/commands"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the handlers produced by RegisterWritingCommands.
type HandlerSet struct {
	List  *ListPostsHandler
	Show  *ShowPostHandler
	Check *CheckContentHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	listHandlerOpts  []commands.HandlerOption[ListPostsCommand]
	showHandlerOpts  []commands.HandlerOption[ShowPostCommand]
	checkHandlerOpts []commands.HandlerOption[CheckContentCommand]
}

// WithListHandlerOptions forwards options to the ListPostsHandler constructor.
func WithListHandlerOptions(opts ...commands.HandlerOption[ListPostsCommand]) Option {
	return func(cfg *options) {
		cfg.listHandlerOpts = append(cfg.listHandlerOpts, opts...)
	}
}

// WithShowHandlerOptions forwards options to the ShowPostHandler constructor.
func WithShowHandlerOptions(opts ...commands.HandlerOption[ShowPostCommand]) Option {
	return func(cfg *options) {
		cfg.showHandlerOpts = append(cfg.showHandlerOpts, opts...)
	}
}

// WithCheckHandlerOptions forwards options to the CheckContentHandler constructor.
func WithCheckHandlerOptions(opts ...commands.HandlerOption[CheckContentCommand]) Option {
	return func(cfg *options) {
		cfg.checkHandlerOpts = append(cfg.checkHandlerOpts, opts...)
	}
}

// RegisterWritingCommands builds the writing command handlers and registers them with reg
// when it is non-nil.
func RegisterWritingCommands(reg CommandRegistry, service interfaces.WritingService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("writing command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "writing")

	set := &HandlerSet{
		List:  NewListPostsHandler(service, logger, gates, cfg.listHandlerOpts...),
		Show:  NewShowPostHandler(service, logger, gates, cfg.showHandlerOpts...),
		Check: NewCheckContentHandler(service, logger, gates, cfg.checkHandlerOpts...),
	}

	if reg != nil {
		for _, handler := range []any{set.List, set.Show, set.Check} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}

// RegisterCheckCron runs the content check on the schedule described by cfg. The handler is
// executed with a background context.
func RegisterCheckCron(reg CronRegistrar, handler *CheckContentHandler, cfg command.HandlerConfig, msg CheckContentCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
