package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "folio.logging.fields"

// ContextWithFields returns a context carrying structured logging fields that
// loggers bound through WithContext merge into every entry. Fields already on
// the context are kept; new values win on key collisions.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	existing := ContextFields(ctx)
	merged := make(map[string]any, len(existing)+len(fields))
	maps.Copy(merged, existing)
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts the logging fields stored on ctx. The returned map is
// a copy.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
