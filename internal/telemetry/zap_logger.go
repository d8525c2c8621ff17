package telemetry

import "go.uber.org/zap"

// zapLogger adapts *zap.Logger to the telemetry.Logger interface.
type zapLogger struct {
	inner *zap.Logger
}

// NewZapLogger wraps a *zap.Logger for production use.
func NewZapLogger(inner *zap.Logger) Logger {
	if inner == nil {
		return Nop{}
	}
	return &zapLogger{inner: inner}
}

// NewProductionLogger builds a sensible default zap-backed logger for the
// server binary: console-encoded, info level, with caller info on every
// line and stack traces for error and above.
func NewProductionLogger() (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	built, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(built), nil
}

func (l *zapLogger) Debugf(msg string, fields ...Field) {
	l.inner.Debug(msg, toZapFields(fields)...)
}

func (l *zapLogger) Infof(msg string, fields ...Field) {
	l.inner.Info(msg, toZapFields(fields)...)
}

func (l *zapLogger) Warnf(msg string, fields ...Field) {
	l.inner.Warn(msg, toZapFields(fields)...)
}

func (l *zapLogger) Errorf(msg string, fields ...Field) {
	l.inner.Error(msg, toZapFields(fields)...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{inner: l.inner.With(toZapFields(fields)...)}
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
