package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/logging/console"
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

	logger := provider.GetLogger("folio.diagrams")
	logger = logging.WithFields(logger, map[string]any{"module": "folio.diagrams"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"build_id": "run-1",
	})
	logger = logger.WithContext(ctx)

	logger.Info("diagrams.block.rendered",
		"slug", "hello-world",
		"index", 0,
	)

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO diagrams.block.rendered build_id=run-1 index=0 logger=folio.diagrams module=folio.diagrams slug=hello-world"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("folio.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLogger_QuotesErrorsAndDanglingArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("folio.test").Error("posts.read.failed", "error", errors.New("read failed: no such file"), "orphan")

	got := buf.String()
	if !strings.Contains(got, `error="read failed: no such file"`) {
		t.Fatalf("expected quoted error value, got %s", got)
	}
	if !strings.Contains(got, "field_1=orphan") {
		t.Fatalf("expected dangling argument to be kept positionally, got %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, ok := console.ParseLevel("WARNING"); !ok || lvl != console.LevelWarn {
		t.Fatalf("expected warn level, got %v %v", lvl, ok)
	}
	if _, ok := console.ParseLevel("verbose"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}
