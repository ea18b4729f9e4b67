package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open Begin/End pair. A span from a disabled tracer is inert.
type Span struct {
	t      Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	extra  map[string]string
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !Enabled(t) {
		return &Span{}
	}
	s := &Span{
		t:      t,
		id:     spanIDs.Add(1),
		parent: parent,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	t.Emit(Event{Time: s.start, Kind: KindSpanBegin, Scope: scope, Span: s.id, Parent: parent, Name: name})
	return s
}

// With attaches key=value to the end event.
func (s *Span) With(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// End closes the span and returns its duration (0 when inert).
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	now := time.Now()
	s.t.Emit(Event{
		Time: now, Kind: KindSpanEnd, Scope: s.scope, Span: s.id, Parent: s.parent,
		Name: s.name, Detail: detail, Extra: s.extra,
	})
	return now.Sub(s.start)
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point records an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64, extra map[string]string) {
	if !Enabled(t) {
		return
	}
	t.Emit(Event{Time: time.Now(), Kind: KindPoint, Scope: scope, Parent: parent, Name: name, Detail: detail, Extra: extra})
}

type tracerKey struct{}
type parentKey struct{}

// WithTracer stores t in ctx; nil stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithParent makes span id the parent of spans begun from ctx.
func WithParent(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, parentKey{}, id)
}

// ParentFrom returns the span id set by WithParent, or 0.
func ParentFrom(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(parentKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}
