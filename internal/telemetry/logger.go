// Package telemetry defines the logging seam used by every simulation
// component, grounded on internal/telemetry/interfaces.go from the teacher
// repo. The core never imports zap directly: it depends on the small
// Logger interface below, so tests can substitute a recording fake.
package telemetry

// Field is a structured key/value attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the structured logging capability required by simulation
// components.
type Logger interface {
	Debugf(msg string, fields ...Field)
	Infof(msg string, fields ...Field)
	Warnf(msg string, fields ...Field)
	Errorf(msg string, fields ...Field)
	// With returns a derived logger that always includes the given
	// fields, mirroring zap.Logger.With without leaking the zap type.
	With(fields ...Field) Logger
}

// Nop is a Logger that discards everything; used in tests and as a
// zero-value-safe default.
type Nop struct{}

func (Nop) Debugf(string, ...Field) {}
func (Nop) Infof(string, ...Field)  {}
func (Nop) Warnf(string, ...Field)  {}
func (Nop) Errorf(string, ...Field) {}
func (Nop) With(...Field) Logger    { return Nop{} }
