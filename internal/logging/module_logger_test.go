package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "folio.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, diagramsModule)

	if len(provider.requested) != 1 || provider.requested[0] != diagramsModule {
		t.Fatalf("expected module %s, got %v", diagramsModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != diagramsModule {
		t.Fatalf("expected module field %s, got %v", diagramsModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestPostsLoggerRequestsPostsModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = PostsLogger(provider)
	if len(provider.requested) == 0 || provider.requested[0] != postsModule {
		t.Fatalf("expected posts module request, got %v", provider.requested)
	}
}

func TestWithPostContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithPostContext(rec, "hello-world", " ", "render")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldSlug] != "hello-world" || got[fieldStage] != "render" {
		t.Fatalf("unexpected fields: %#v", got)
	}
	if _, ok := got[fieldPath]; ok {
		t.Fatalf("expected blank path to be skipped: %#v", got)
	}
}

func TestContextWithFieldsMerges(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"build_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"slug": "b"})

	fields := ContextFields(ctx)
	if fields["build_id"] != "a" || fields["slug"] != "b" {
		t.Fatalf("expected merged fields, got %#v", fields)
	}

	fields["build_id"] = "mutated"
	if ContextFields(ctx)["build_id"] != "a" {
		t.Fatal("expected ContextFields to return a copy")
	}
}
