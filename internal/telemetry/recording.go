package telemetry

import "sync"

// Entry is one captured log line, recorded by Recording.
type Entry struct {
	Level  string
	Msg    string
	Fields []Field
}

// Recording is a Logger that captures every call instead of writing
// anywhere, used by tests that assert a particular warning/error fired
// (e.g. the A* 10ms threshold, a dropped malformed message).
type Recording struct {
	mu      sync.Mutex
	entries []Entry
	base    []Field
	root    *Recording // set on loggers derived via With; entries are kept on the root
}

// NewRecording constructs an empty recording logger.
func NewRecording() *Recording {
	return &Recording{}
}

func (r *Recording) record(level, msg string, fields []Field) {
	combined := append(append([]Field{}, r.base...), fields...)
	target := r
	if r.root != nil {
		target = r.root
	}
	target.mu.Lock()
	defer target.mu.Unlock()
	target.entries = append(target.entries, Entry{Level: level, Msg: msg, Fields: combined})
}

func (r *Recording) Debugf(msg string, fields ...Field) { r.record("debug", msg, fields) }
func (r *Recording) Infof(msg string, fields ...Field)  { r.record("info", msg, fields) }
func (r *Recording) Warnf(msg string, fields ...Field)  { r.record("warn", msg, fields) }
func (r *Recording) Errorf(msg string, fields ...Field) { r.record("error", msg, fields) }

func (r *Recording) With(fields ...Field) Logger {
	root := r
	if r.root != nil {
		root = r.root
	}
	return &Recording{base: append(append([]Field{}, r.base...), fields...), root: root}
}

// Entries returns a snapshot of every captured log line.
func (r *Recording) Entries() []Entry {
	if r.root != nil {
		return r.root.Entries()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// HasLevel reports whether any entry at the given level was recorded.
func (r *Recording) HasLevel(level string) bool {
	for _, e := range r.Entries() {
		if e.Level == level {
			return true
		}
	}
	return false
}
