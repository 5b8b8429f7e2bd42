// Package zaplog adapts go.uber.org/zap to the observability.Logger seam so
// applications embedding the extraction engine get structured logs without
// the library depending on a concrete logging backend at its call sites.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/wudi/idkit/observability"
)

type zapLogger struct {
	l *zap.Logger
}

// New wraps an existing zap logger.
func New(l *zap.Logger) observability.Logger {
	return &zapLogger{l: l}
}

// NewDevelopment builds a development-configured zap logger. Falls back to a
// nop logger if zap initialization fails.
func NewDevelopment() observability.Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return observability.NopLogger{}
	}
	return &zapLogger{l: l}
}

// NewProduction builds a production-configured zap logger. Falls back to a
// nop logger if zap initialization fails.
func NewProduction() observability.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return observability.NopLogger{}
	}
	return &zapLogger{l: l}
}

func (z *zapLogger) Debug(msg string, fields ...observability.Field) {
	z.l.Debug(msg, convert(fields)...)
}

func (z *zapLogger) Info(msg string, fields ...observability.Field) {
	z.l.Info(msg, convert(fields)...)
}

func (z *zapLogger) Warn(msg string, fields ...observability.Field) {
	z.l.Warn(msg, convert(fields)...)
}

func (z *zapLogger) Error(msg string, fields ...observability.Field) {
	z.l.Error(msg, convert(fields)...)
}

func (z *zapLogger) With(fields ...observability.Field) observability.Logger {
	return &zapLogger{l: z.l.With(convert(fields)...)}
}

func convert(fields []observability.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value().(type) {
		case string:
			out = append(out, zap.String(f.Key(), v))
		case int:
			out = append(out, zap.Int(f.Key(), v))
		case float64:
			out = append(out, zap.Float64(f.Key(), v))
		case error:
			out = append(out, zap.NamedError(f.Key(), v))
		default:
			out = append(out, zap.Any(f.Key(), v))
		}
	}
	return out
}
