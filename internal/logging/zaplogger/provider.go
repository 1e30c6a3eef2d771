package zaplogger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Config captures the options exposed by the zap adapter.
type Config struct {
	Level       string
	Format      string
	Development bool
}

// Provider hands out named zap loggers.
type Provider struct {
	root *zap.Logger
}

// NewProvider builds a zap logger from cfg. Format "console" selects the
// human readable encoder, anything else falls back to JSON.
func NewProvider(cfg Config) (*Provider, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	if strings.TrimSpace(cfg.Level) != "" {
		level, err := zapcore.ParseLevel(normalizeLevel(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("logging: invalid zap level %q: %w", cfg.Level, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "console", "pretty":
		zcfg.Encoding = "console"
	case "", "json":
		zcfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("logging: unsupported zap format %q", cfg.Format)
	}

	root, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &Provider{root: root}, nil
}

// NewProviderFromLogger wraps an existing zap logger.
func NewProviderFromLogger(root *zap.Logger) *Provider {
	return &Provider{root: root}
}

// GetLogger returns a named child of the root logger.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	logger := p.root
	if name = strings.TrimSpace(name); name != "" {
		logger = logger.Named(name)
	}
	return &adapter{inner: logger.Sugar()}
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	if p == nil || p.root == nil {
		return nil
	}
	return p.root.Sync()
}

type adapter struct {
	inner *zap.SugaredLogger
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

// Trace has no zap equivalent and is emitted at debug level.
func (l *adapter) Trace(msg string, args ...any) { l.inner.Debugw(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debugw(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Infow(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warnw(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Errorw(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatalw(msg, args...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}
	return &adapter{inner: l.inner.With(args...)}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	fields := logging.ContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.WithFields(fields)
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "trace":
		return "debug"
	case "warning":
		return "warn"
	}
	return level
}
