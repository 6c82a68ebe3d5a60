package logger

import (
	"context"

	"go.uber.org/zap"
)

// New returns a production-friendly structured logger: JSON in staging and
// production, the development encoder with debug level for local/dev.
// No business logic should depend on logging implementation details.
func New(appEnv string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if appEnv == "local" || appEnv == "dev" {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("env", appEnv)), nil
}

type ctxKey struct{}

// With stores a logger in context.
func With(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From gets a logger from context, falling back to the global zap logger.
func From(ctx context.Context) *zap.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return zap.L()
}

// Flush syncs buffered entries. Sync errors on stdout/stderr are ignored.
func Flush(l *zap.Logger) {
	_ = l.Sync()
}
