package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	rootModule      = "folio"
	postsModule     = "folio.posts"
	renderModule    = "folio.render"
	diagramsModule  = "folio.diagrams"
	generatorModule = "folio.generator"
)

const (
	fieldSlug  = "slug"
	fieldPath  = "path"
	fieldStage = "stage"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered per module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PostsLogger returns the logger namespace reserved for the content store.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postsModule)
}

// RenderLogger returns the logger namespace reserved for the markdown renderer.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// DiagramsLogger returns the logger namespace reserved for the diagram pre-renderer.
func DiagramsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, diagramsModule)
}

// GeneratorLogger returns the logger namespace reserved for static builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// WithPostContext enriches the logger with the post slug, source path and
// pipeline stage. Empty values are ignored.
func WithPostContext(logger interfaces.Logger, slug, path, stage string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPath] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldStage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
