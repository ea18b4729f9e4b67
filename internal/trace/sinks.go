package trace

import (
	"bufio"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var seq atomic.Uint64

// Stream writes every allowed event as soon as it arrives.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	buf    *bufio.Writer
	closer io.Closer
	level  Level
	format Format
}

// NewStream writes to w unbuffered; w is never closed.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: formatFor(format, "")}
}

// openStream buffers output to path ("-" or "" is stderr).
func openStream(path string, level Level, format Format) (*Stream, error) {
	s := &Stream{level: level, format: formatFor(format, path)}
	if path == "" || path == "-" {
		s.w = os.Stderr
		return s, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s.buf = bufio.NewWriter(f)
	s.w, s.closer = s.buf, f
	return s, nil
}

func (s *Stream) Emit(ev Event) {
	if !s.level.Allows(&ev) {
		return
	}
	ev.Seq = seq.Add(1)
	line := ev.Append(nil, s.format)

	s.mu.Lock()
	defer s.mu.Unlock()
	// ошибки записи трассы не должны ронять токенизацию
	_, _ = s.w.Write(line)
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf != nil {
		if err := s.buf.Flush(); err != nil {
			return err
		}
	}
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}

// Ring keeps the most recent events in memory until dumped.
type Ring struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
	level  Level
}

// NewRing keeps up to capacity events (4096 when capacity <= 0).
func NewRing(capacity int, level Level) *Ring {
	if capacity <= 0 {
		capacity = 4096
	}
	return &Ring{events: make([]Event, capacity), level: level}
}

func (r *Ring) Emit(ev Event) {
	if !r.level.Allows(&ev) {
		return
	}
	ev.Seq = seq.Add(1)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[r.next] = ev
	r.next++
	if r.next == len(r.events) {
		r.next, r.full = 0, true
	}
}

func (r *Ring) Level() Level { return r.level }

func (r *Ring) Close() error { return nil }

// Events returns the kept events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Event(nil), r.events[:r.next]...)
	}
	out := make([]Event, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	return append(out, r.events[:r.next]...)
}

// Dump writes the kept events to w.
func (r *Ring) Dump(w io.Writer, format Format) error {
	var b []byte
	for _, ev := range r.Events() {
		b = ev.Append(b, formatFor(format, ""))
	}
	_, err := w.Write(b)
	return err
}
