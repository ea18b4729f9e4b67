package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag is a bounded list of diagnostics. Add past the limit drops the
// diagnostic and counts it in Dropped.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
	// самая серьёзная из отброшенных; HasErrors не зависит от лимита
	droppedWorst Severity
}

// NewBag limits the bag to max entries; values past uint16 saturate.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add возвращает false, если лимит уже достигнут.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		b.droppedWorst = max(b.droppedWorst, d.Severity)
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Dropped reports how many diagnostics did not fit.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the internal slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors counts dropped diagnostics too.
func (b *Bag) HasErrors() bool { return b.worst() >= SevError }

// HasWarnings is true for warnings and errors alike.
func (b *Bag) HasWarnings() bool { return b.worst() >= SevWarning }

func (b *Bag) worst() Severity {
	w := b.droppedWorst
	for i := range b.items {
		w = max(w, b.items[i].Severity)
	}
	return w
}

// Count returns the number of diagnostics with severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// Merge appends other. The limit grows so that nothing from other is lost;
// other's dropped counter carries over.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > int(b.max) {
		limit, err := safecast.Conv[uint16](total)
		if err != nil {
			limit = ^uint16(0)
		}
		b.max = limit
	}
	b.dropped += other.dropped
	b.droppedWorst = max(b.droppedWorst, other.droppedWorst)
	for _, d := range other.items {
		b.Add(d)
	}
}

// Sort orders by primary span, then severity (most severe first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		if x.Primary != y.Primary {
			if x.Primary.Before(y.Primary) {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(y.Severity, x.Severity); c != 0 {
			return c
		}
		return cmp.Compare(x.Code, y.Code)
	})
}
