package zerologger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

const filePermission = 0664

// Config captures the options exposed by the zerolog adapter.
type Config struct {
	Level  string
	Format string
	// Writer defaults to stderr.
	Writer io.Writer
	// Path appends entries to a file instead of Writer.
	Path string
}

// Provider hands out zerolog backed loggers that share one root.
type Provider struct {
	root zerolog.Logger
	file *os.File
}

// NewProvider builds a zerolog provider. Format is "json" (default) or
// "console"; Level accepts the usual names plus "warning".
func NewProvider(cfg Config) (*Provider, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	var file *os.File
	if path := strings.TrimSpace(cfg.Path); path != "" {
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
		if err != nil {
			return nil, fmt.Errorf("logging: open zerolog file: %w", err)
		}
		writer = zerolog.SyncWriter(file)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
	case "console":
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: true}
	default:
		if file != nil {
			_ = file.Close()
		}
		return nil, fmt.Errorf("logging: unsupported zerolog format %q", cfg.Format)
	}

	root := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return &Provider{root: root, file: file}, nil
}

// GetLogger returns a child logger tagged with name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	logger := p.root
	if name = strings.TrimSpace(name); name != "" {
		logger = p.root.With().Str("logger", name).Logger()
	}
	return &adapter{logger: logger}
}

// Close releases the log file, if any.
func (p *Provider) Close() error {
	if p == nil || p.file == nil {
		return nil
	}
	return p.file.Close()
}

type adapter struct {
	logger zerolog.Logger
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (l *adapter) Trace(msg string, args ...any) { l.emit(l.logger.Trace(), msg, args) }
func (l *adapter) Debug(msg string, args ...any) { l.emit(l.logger.Debug(), msg, args) }
func (l *adapter) Info(msg string, args ...any)  { l.emit(l.logger.Info(), msg, args) }
func (l *adapter) Warn(msg string, args ...any)  { l.emit(l.logger.Warn(), msg, args) }
func (l *adapter) Error(msg string, args ...any) { l.emit(l.logger.Error(), msg, args) }

// Fatal records at fatal level without exiting the process.
func (l *adapter) Fatal(msg string, args ...any) {
	l.emit(l.logger.WithLevel(zerolog.FatalLevel), msg, args)
}

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &adapter{
		logger: l.logger.With().Fields(cloneFields(fields)).Logger(),
		ctx:    l.ctx,
	}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	return &adapter{logger: l.logger, ctx: ctx}
}

func (l *adapter) emit(event *zerolog.Event, msg string, args []any) {
	if event == nil {
		return
	}
	if fields := logging.ContextFields(l.ctx); len(fields) > 0 {
		event = event.Fields(fields)
	}
	if fields := argsToFields(args); len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(msg)
}

func argsToFields(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	fields := make(map[string]any, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			fields[fmt.Sprintf("field_%d", i/2)] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = fmt.Sprintf("field_%d", i/2)
		}
		fields[key] = args[i+1]
	}
	return fields
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return copied
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("logging: unsupported zerolog level %q", level)
	}
	return parsed, nil
}
