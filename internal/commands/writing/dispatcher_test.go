package writingcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-writing/internal/commands"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

type flakyWritingService struct {
	stubWritingService
	failures int
}

func (s *flakyWritingService) Check(ctx context.Context) (*interfaces.CheckReport, error) {
	s.checkCalls++
	if s.checkCalls <= s.failures {
		return nil, errors.New("content root busy")
	}
	return &interfaces.CheckReport{Posts: 1}, nil
}

func TestDispatcherRetriesCheckUntilSuccess(t *testing.T) {
	service := &flakyWritingService{failures: 1}
	handler := NewCheckContentHandler(service, nil, enabled(),
		commands.WithTimeout[CheckContentCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	var report *interfaces.CheckReport
	err := dispatcher.Dispatch(context.Background(), CheckContentCommand{
		OnResult: func(r *interfaces.CheckReport) { report = r },
	})
	if err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if service.checkCalls != 2 {
		t.Fatalf("expected 2 attempts (initial + retry), got %d", service.checkCalls)
	}
	if report == nil || report.Posts != 1 {
		t.Fatalf("expected report from the successful attempt, got %#v", report)
	}
}

func TestDispatcherRetryExhaustionPropagatesError(t *testing.T) {
	service := &flakyWritingService{failures: 10}
	handler := NewCheckContentHandler(service, nil, enabled(),
		commands.WithTimeout[CheckContentCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), CheckContentCommand{}); err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if service.checkCalls != 3 {
		t.Fatalf("expected 3 attempts (initial + 2 retries), got %d", service.checkCalls)
	}
}
