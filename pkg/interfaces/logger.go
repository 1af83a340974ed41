package interfaces

import "context"

// Logger is the leveled logger the writing packages log through. Its method
// set matches go-logger's glog.Logger, so a go-logger instance only needs the
// thin adapter in internal/logging/gologger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by dotted module name ("writing.posts").
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can bind structured fields.
// WithFields returns a child; the receiver is left untouched.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
