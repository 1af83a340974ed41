package writingcmd

import (
	"errors"
	"testing"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-writing/internal/commands"
	"github.com/goliatone/go-writing/internal/commands/fixtures"
	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

func TestRegisterWritingCommandsHandlerOptionsApplied(t *testing.T) {
	service := &stubWritingService{}
	listApplied, showApplied, checkApplied := false, false, false

	_, err := RegisterWritingCommands(nil, service, nil, enabled(),
		WithListHandlerOptions(func(h *commands.Handler[ListPostsCommand]) {
			listApplied = true
		}),
		WithShowHandlerOptions(func(h *commands.Handler[ShowPostCommand]) {
			showApplied = true
		}),
		WithCheckHandlerOptions(func(h *commands.Handler[CheckContentCommand]) {
			checkApplied = true
		}),
	)
	if err != nil {
		t.Fatalf("register writing commands: %v", err)
	}
	if !listApplied || !showApplied || !checkApplied {
		t.Fatalf("expected all handler options applied, got list=%v show=%v check=%v", listApplied, showApplied, checkApplied)
	}
}

func TestRegisterWritingCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()

	set, err := RegisterWritingCommands(reg, &stubWritingService{}, nil, enabled())
	if err != nil {
		t.Fatalf("register writing commands: %v", err)
	}
	if set == nil || set.List == nil || set.Show == nil || set.Check == nil {
		t.Fatalf("expected handlers built, got %#v", set)
	}
	if len(reg.Handlers) != 3 {
		t.Fatalf("expected three handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.List || reg.Handlers[1] != set.Show || reg.Handlers[2] != set.Check {
		t.Fatalf("unexpected registration order %#v", reg.Handlers)
	}
}

func TestRegisterWritingCommandsPropagatesRegistryError(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	reg.Err = errors.New("registry closed")

	if _, err := RegisterWritingCommands(reg, &stubWritingService{}, nil, enabled()); !errors.Is(err, reg.Err) {
		t.Fatalf("expected registry error, got %v", err)
	}
}

func TestRegisterWritingCommandsNilServiceError(t *testing.T) {
	if _, err := RegisterWritingCommands(nil, nil, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error when service nil")
	}
}

func TestRegisterCheckCronRegistersHandler(t *testing.T) {
	service := &stubWritingService{report: &interfaces.CheckReport{}}
	handler := NewCheckContentHandler(service, logging.NoOp(), enabled())
	recorder := fixtures.NewCronRecorder()

	cfg := command.HandlerConfig{Expression: "@hourly"}
	if err := RegisterCheckCron(recorder.Registrar(), handler, cfg, CheckContentCommand{}); err != nil {
		t.Fatalf("register check cron: %v", err)
	}

	if len(recorder.Registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(recorder.Registrations))
	}
	registration := recorder.Registrations[0]
	if registration.Config.Expression != cfg.Expression {
		t.Fatalf("expected cron expression %q, got %q", cfg.Expression, registration.Config.Expression)
	}
	if err := recorder.Trigger("@hourly"); err != nil {
		t.Fatalf("executing cron handler: %v", err)
	}
	if service.checkCalls != 1 {
		t.Fatalf("expected one check call, got %d", service.checkCalls)
	}
}

func TestRegisterCheckCronNoOpWithoutRegistrarOrHandler(t *testing.T) {
	service := &stubWritingService{}
	handler := NewCheckContentHandler(service, nil, enabled())
	if err := RegisterCheckCron(nil, handler, command.HandlerConfig{}, CheckContentCommand{}); err != nil {
		t.Fatalf("expected nil error when registrar nil, got %v", err)
	}

	recorder := fixtures.NewCronRecorder()
	if err := RegisterCheckCron(recorder.Registrar(), nil, command.HandlerConfig{}, CheckContentCommand{}); err != nil {
		t.Fatalf("expected nil error when handler nil, got %v", err)
	}
	if len(recorder.Registrations) != 0 || service.checkCalls != 0 {
		t.Fatal("expected nothing registered or executed")
	}
}

func TestRegisterCheckCronPropagatesRegistrarError(t *testing.T) {
	handler := NewCheckContentHandler(&stubWritingService{}, nil, enabled())
	recorder := fixtures.NewCronRecorder()
	recorder.Err = errors.New("scheduler stopped")

	err := RegisterCheckCron(recorder.Registrar(), handler, command.HandlerConfig{Expression: "@daily"}, CheckContentCommand{})
	if !errors.Is(err, recorder.Err) {
		t.Fatalf("expected registrar error, got %v", err)
	}
}
