package trace

// Tracer receives events; implementations are safe for concurrent use.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	// Close flushes buffered events and releases the output.
	Close() error
}

// Enabled reports whether t records anything at all.
func Enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

type nopTracer struct{}

func (nopTracer) Emit(Event)   {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop records nothing.
var Nop Tracer = nopTracer{}
