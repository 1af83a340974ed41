package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/internal/logging/console"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("writing.posts")
	logger = logger.(interfaces.FieldsLogger).WithFields(map[string]any{"module": "writing.posts"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"scan_id": "8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999",
	})
	logger = logger.WithContext(ctx)

	logger.Info("writing.posts.loaded",
		"count", 3,
		"newest", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		"tags", []string{"bayes", "glm"},
	)

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO writing.posts.loaded count=3 logger=writing.posts module=writing.posts newest=2024-06-01T00:00:00Z scan_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 tags=bayes,glm"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("writing.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
	if strings.Contains(lines[0], "ignored.debug") {
		t.Fatalf("unexpected debug log present: %s", lines[0])
	}
}

func TestConsoleLogger_FormatsTypedErrors(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return time.Unix(0, 0) },
	})

	err := goerrors.New("post missing", goerrors.CategoryNotFound).WithTextCode("WRITING_POST_NOT_FOUND")
	provider.GetLogger("writing").Error("lookup failed", "error", err, "id", uuid.Nil)

	got := strings.TrimSpace(buf.String())
	if !strings.Contains(got, `error="WRITING_POST_NOT_FOUND: post missing"`) {
		t.Fatalf("expected text code in entry, got %s", got)
	}
	if !strings.Contains(got, "id=00000000-0000-0000-0000-000000000000") {
		t.Fatalf("expected stringer value, got %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for name, want := range cases {
		got, ok := console.ParseLevel(name)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", name, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}
