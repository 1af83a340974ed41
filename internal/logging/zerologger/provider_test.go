package zerologger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestProviderWritesJSONEntries(t *testing.T) {
	var buf bytes.Buffer
	provider, err := NewProvider(Config{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	logger := provider.GetLogger("writing.posts").(interfaces.FieldsLogger).WithFields(map[string]any{"module": "writing.posts"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"scan_id": "scan-1"})
	logger.WithContext(ctx).Info("writing.posts.loaded", "count", 2, "dangling")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry["message"] != "writing.posts.loaded" {
		t.Fatalf("unexpected message: %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["logger"] != "writing.posts" || entry["module"] != "writing.posts" {
		t.Fatalf("expected logger and module fields, got %v", entry)
	}
	if entry["scan_id"] != "scan-1" {
		t.Fatalf("expected context field, got %v", entry)
	}
	if entry["count"] != float64(2) {
		t.Fatalf("expected count field, got %v", entry["count"])
	}
	if entry["field_1"] != "dangling" {
		t.Fatalf("expected positional field, got %v", entry)
	}
}

func TestProviderFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	provider, err := NewProvider(Config{Level: "warning", Writer: &buf})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	logger := provider.GetLogger("writing")
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Fatal("kept too")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d: %s", len(entries), buf.String())
	}
	if entries[1]["level"] != "fatal" {
		t.Fatalf("expected fatal level entry, got %v", entries[1]["level"])
	}
}

func TestNewProviderRejectsInvalidConfig(t *testing.T) {
	if _, err := NewProvider(Config{Level: "loud"}); err == nil {
		t.Fatal("expected level error")
	}
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected format error")
	}
}
