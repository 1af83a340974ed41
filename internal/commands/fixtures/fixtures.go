// Package fixtures records command and cron registrations for tests.
package fixtures

import (
	"fmt"

	command "github.com/goliatone/go-command"
)

// RecordingRegistry records handlers in registration order. A non-nil Err is
// returned instead of recording.
type RecordingRegistry struct {
	Handlers []any
	Err      error
}

func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: make([]any, 0)}
}

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.Err != nil {
		return r.Err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration is one scheduled job.
type CronRegistration struct {
	Config  command.HandlerConfig
	Handler func() error
}

// CronRecorder stands in for a cron scheduler. Jobs never fire on their own;
// Trigger runs them by expression.
type CronRecorder struct {
	Registrations []CronRegistration
	Err           error
}

func NewCronRecorder() *CronRecorder {
	return &CronRecorder{Registrations: make([]CronRegistration, 0)}
}

// Registrar returns a registrar accepting func() error jobs.
func (c *CronRecorder) Registrar() func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.Err != nil {
			return c.Err
		}
		fn, ok := handler.(func() error)
		if !ok {
			return fmt.Errorf("fixtures: unsupported cron handler %T", handler)
		}
		c.Registrations = append(c.Registrations, CronRegistration{Config: cfg, Handler: fn})
		return nil
	}
}

// Trigger runs every job scheduled with expression and returns the first error.
func (c *CronRecorder) Trigger(expression string) error {
	ran := 0
	for _, registration := range c.Registrations {
		if registration.Config.Expression != expression {
			continue
		}
		ran++
		if err := registration.Handler(); err != nil {
			return err
		}
	}
	if ran == 0 {
		return fmt.Errorf("fixtures: no job scheduled for %q", expression)
	}
	return nil
}
