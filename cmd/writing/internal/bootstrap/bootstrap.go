package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-writing"
	writingcmd "github.com/goliatone/go-writing/internal/commands/writing"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

// EnvPrefix namespaces environment overrides, e.g. WRITING_WRITING_CONTENT_DIR.
const EnvPrefix = "WRITING"

// Config keys understood by LoadConfig.
const (
	KeyEnvironment      = "environment"
	KeyFeaturesWriting  = "features.writing"
	KeyFeaturesLogger   = "features.logger"
	KeyContentDir       = "writing.content_dir"
	KeyPatterns         = "writing.patterns"
	KeyRecursive        = "writing.recursive"
	KeyCategories       = "writing.categories"
	KeyParserExtensions = "writing.parser.extensions"
	KeyParserSanitize   = "writing.parser.sanitize"
	KeyLoggingProvider  = "logging.provider"
	KeyLoggingLevel     = "logging.level"
	KeyLoggingFormat    = "logging.format"
	KeyLoggingAddSource = "logging.add_source"
	KeyLoggingFocus     = "logging.focus"
)

// Options captures configuration for CLI bootstraps.
type Options struct {
	Config         writing.Config
	LogWriter      io.Writer
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the writing module and the handlers the CLI dispatches to.
type Module struct {
	Module   *writing.Module
	Handlers *writingcmd.HandlerSet
	Logger   interfaces.Logger
}

// Close releases the module resources.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// NewViper returns a viper instance seeded with the CLI defaults. The CLI turns logging on
// at warn level so diagnostics reach stderr without drowning command output.
func NewViper() *viper.Viper {
	v := viper.New()
	cfg := writing.DefaultConfig()

	v.SetDefault(KeyEnvironment, cfg.Environment)
	v.SetDefault(KeyFeaturesWriting, cfg.Features.Writing)
	v.SetDefault(KeyFeaturesLogger, true)
	v.SetDefault(KeyContentDir, cfg.Writing.ContentDir)
	v.SetDefault(KeyPatterns, cfg.Writing.Patterns)
	v.SetDefault(KeyRecursive, cfg.Writing.Recursive)
	v.SetDefault(KeyCategories, cfg.Writing.Categories)
	v.SetDefault(KeyParserExtensions, []string{})
	v.SetDefault(KeyParserSanitize, cfg.Writing.Parser.Sanitize)
	v.SetDefault(KeyLoggingProvider, cfg.Logging.Provider)
	v.SetDefault(KeyLoggingLevel, "warn")
	v.SetDefault(KeyLoggingFormat, cfg.Logging.Format)
	v.SetDefault(KeyLoggingAddSource, false)
	v.SetDefault(KeyLoggingFocus, []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadConfigFile loads path into v. An empty path searches the working directory for
// writing.yaml and tolerates its absence.
func ReadConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("writing")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && path == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// LoadConfig decodes the writing configuration from v.
func LoadConfig(v *viper.Viper) writing.Config {
	cfg := writing.DefaultConfig()

	cfg.Environment = strings.TrimSpace(v.GetString(KeyEnvironment))
	cfg.Features.Writing = v.GetBool(KeyFeaturesWriting)
	cfg.Features.Logger = v.GetBool(KeyFeaturesLogger)

	cfg.Writing.ContentDir = strings.TrimSpace(v.GetString(KeyContentDir))
	cfg.Writing.Patterns = cleanStrings(v.GetStringSlice(KeyPatterns))
	cfg.Writing.Recursive = v.GetBool(KeyRecursive)
	cfg.Writing.Categories = cleanStrings(v.GetStringSlice(KeyCategories))
	cfg.Writing.Parser.Extensions = cleanStrings(v.GetStringSlice(KeyParserExtensions))
	cfg.Writing.Parser.Sanitize = v.GetBool(KeyParserSanitize)

	cfg.Logging.Provider = strings.TrimSpace(v.GetString(KeyLoggingProvider))
	cfg.Logging.Level = strings.TrimSpace(v.GetString(KeyLoggingLevel))
	cfg.Logging.Format = strings.TrimSpace(v.GetString(KeyLoggingFormat))
	cfg.Logging.AddSource = v.GetBool(KeyLoggingAddSource)
	cfg.Logging.Focus = cleanStrings(v.GetStringSlice(KeyLoggingFocus))

	return cfg
}

// BuildModule constructs a writing module and its command handlers.
func BuildModule(opts Options) (*Module, error) {
	moduleOpts := []writing.Option{}
	if opts.LogWriter != nil {
		moduleOpts = append(moduleOpts, writing.WithLogWriter(opts.LogWriter))
	}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, writing.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := writing.New(opts.Config, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise writing module: %w", err)
	}

	handlers, err := module.RegisterCommands(nil)
	if err != nil {
		_ = module.Close()
		return nil, fmt.Errorf("register writing commands: %w", err)
	}

	return &Module{
		Module:   module,
		Handlers: handlers,
		Logger:   module.CommandLogger("cli"),
	}, nil
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
