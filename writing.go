package writing

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/goliatone/go-writing/internal/commands"
	writingcmd "github.com/goliatone/go-writing/internal/commands/writing"
	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/internal/logging/console"
	"github.com/goliatone/go-writing/internal/logging/gologger"
	"github.com/goliatone/go-writing/internal/logging/zerologger"
	"github.com/goliatone/go-writing/internal/markdown"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

// WritingService exports the post collection contract for consumers of the writing package.
type WritingService = interfaces.WritingService

// CommandRegistry exports the registration contract used by RegisterCommands.
type CommandRegistry = writingcmd.CommandRegistry

// CommandHandlers exports the handler set produced by RegisterCommands.
type CommandHandlers = writingcmd.HandlerSet

// Option customises module construction.
type Option func(*moduleOptions)

type moduleOptions struct {
	provider   interfaces.LoggerProvider
	filesystem fs.FS
	logWriter  io.Writer
}

// WithLoggerProvider overrides the provider selected from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.provider = provider
	}
}

// WithFilesystem reads posts from filesystem instead of Writing.ContentDir.
func WithFilesystem(filesystem fs.FS) Option {
	return func(o *moduleOptions) {
		o.filesystem = filesystem
	}
}

// WithLogWriter sends console and zerolog output to w.
func WithLogWriter(w io.Writer) Option {
	return func(o *moduleOptions) {
		o.logWriter = w
	}
}

// Module represents the top level writing runtime facade.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	service  *markdown.Service
	closers  []io.Closer
}

// New validates cfg and wires the logger provider and the writing service.
func New(cfg Config, opts ...Option) (*Module, error) {
	options := moduleOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg, provider: options.provider}
	if m.provider == nil && cfg.Features.Logger {
		provider, closer, err := configureLoggerProvider(cfg.Logging, options.logWriter)
		if err != nil {
			return nil, err
		}
		m.provider = provider
		if closer != nil {
			m.closers = append(m.closers, closer)
		}
	}

	serviceOpts := []markdown.ServiceOption{markdown.WithLoggerProvider(m.provider)}
	if options.filesystem != nil {
		serviceOpts = append(serviceOpts, markdown.WithFilesystem(options.filesystem))
	}

	service, err := markdown.NewService(serviceConfig(cfg), serviceOpts...)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	m.service = service

	logging.WritingLogger(m.provider).Debug("writing.module.configured",
		"content_dir", cfg.Writing.ContentDir,
		"enabled", cfg.Features.Writing,
		"environment", cfg.Environment,
	)
	return m, nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// Enabled reports whether the writing feature is on.
func (m *Module) Enabled() bool {
	if m == nil {
		return false
	}
	return m.cfg.Features.Writing
}

// Writing returns the configured post collection service.
func (m *Module) Writing() WritingService {
	if m == nil || m.service == nil {
		return nil
	}
	return m.service
}

// LoggerProvider returns the provider used by the module, nil when logging is off.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil {
		return nil
	}
	return m.provider
}

// RegisterCommands builds the list, show and check handlers and registers them with reg
// when it is non-nil.
func (m *Module) RegisterCommands(reg CommandRegistry, opts ...writingcmd.Option) (*CommandHandlers, error) {
	if m == nil || m.service == nil {
		return nil, errors.New("writing: module is not initialised")
	}
	gates := writingcmd.FeatureGates{WritingEnabled: m.Enabled}
	return writingcmd.RegisterWritingCommands(reg, m.service, m.provider, gates, opts...)
}

// CommandLogger exposes the scoped logger used by command handlers.
func (m *Module) CommandLogger(module string) interfaces.Logger {
	if m == nil {
		return logging.NoOp()
	}
	return commands.CommandLogger(m.provider, module)
}

// Close releases resources held by the logger provider.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, closer := range m.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

func serviceConfig(cfg Config) markdown.Config {
	return markdown.Config{
		Enabled:     cfg.Features.Writing,
		ContentDir:  cfg.Writing.ContentDir,
		Patterns:    append([]string(nil), cfg.Writing.Patterns...),
		Recursive:   cfg.Writing.Recursive,
		Categories:  append([]string(nil), cfg.Writing.Categories...),
		Development: cfg.Development(),
		Parser: interfaces.ParseOptions{
			Extensions: append([]string(nil), cfg.Writing.Parser.Extensions...),
			Sanitize:   cfg.Writing.Parser.Sanitize,
		},
	}
}

func configureLoggerProvider(cfg LoggingConfig, w io.Writer) (interfaces.LoggerProvider, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "console":
		opts := console.Options{Writer: w}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil, nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, nil, err
		}
		return provider, nil, nil
	case "zerolog":
		format := cfg.Format
		if strings.EqualFold(strings.TrimSpace(format), "pretty") {
			format = "console"
		}
		provider, err := zerologger.NewProvider(zerologger.Config{
			Level:  cfg.Level,
			Format: format,
			Writer: w,
		})
		if err != nil {
			return nil, nil, err
		}
		return provider, provider, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}
