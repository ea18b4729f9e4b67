package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer aggregates wall time per named phase. Phases keep the order in which
// they were first started; repeated laps of one phase (one per file from the
// TokenizeDir workers) are folded together.
//
// A nil *Timer is valid and records nothing. Methods are safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	order  []string
	phases map[string]*phaseStats
}

type phaseStats struct {
	count int
	total time.Duration
	max   time.Duration
	note  string
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make(map[string]*phaseStats)}
}

// Lap is one running measurement of a phase.
type Lap struct {
	t     *Timer
	name  string
	start time.Time
}

// Start begins a lap of the named phase.
func (t *Timer) Start(name string) Lap {
	if t == nil {
		return Lap{}
	}
	return Lap{t: t, name: name, start: time.Now()}
}

// Stop records the lap. note replaces the phase note when non-empty.
func (l Lap) Stop(note string) {
	if l.t == nil {
		return
	}
	l.t.record(l.name, time.Since(l.start), note)
}

func (t *Timer) record(name string, d time.Duration, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ps, ok := t.phases[name]
	if !ok {
		ps = &phaseStats{}
		t.phases[name] = ps
		t.order = append(t.order, name)
	}
	ps.count++
	ps.total += d
	ps.max = max(ps.max, d)
	if note != "" {
		ps.note = note
	}
}

// PhaseReport is the serializable view of one phase.
type PhaseReport struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
	Note    string  `json:"note,omitempty"`
}

// Report описывает все фазы и суммарное время.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the recorded phases in first-start order.
func (t *Timer) Report() Report {
	var rep Report
	if t == nil {
		return rep
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range t.order {
		ps := t.phases[name]
		rep.Phases = append(rep.Phases, PhaseReport{
			Name:    name,
			Count:   ps.count,
			TotalMS: millis(ps.total),
			MaxMS:   millis(ps.max),
			Note:    ps.note,
		})
		rep.TotalMS += millis(ps.total)
	}
	return rep
}

// Summary renders the report as the table printed by --timings.
func (t *Timer) Summary() string {
	rep := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range rep.Phases {
		fmt.Fprintf(&sb, "  %-16s %9.2f ms", p.Name, p.TotalMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d, max %.2f ms", p.Count, p.MaxMS)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-16s %9.2f ms\n", "total", rep.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
