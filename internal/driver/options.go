package driver

import (
	"dfalex/internal/automaton"
	"dfalex/internal/observ"
)

// DefaultExtensions are scanned by TokenizeDir when Options.Extensions is empty.
var DefaultExtensions = []string{".src"}

// Options содержит опции токенизации.
type Options struct {
	// Table is the automaton; nil means the builtin table.
	Table          *automaton.Table
	MaxDiagnostics int
	// Jobs ограничивает число воркеров TokenizeDir, <=0 - GOMAXPROCS.
	Jobs       int
	Extensions []string
	Progress   ProgressSink
	// Timer, if set, receives load/tokenize phases.
	Timer *observ.Timer
}

func (o Options) table() *automaton.Table {
	if o.Table == nil {
		return automaton.Default()
	}
	return o.Table
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}
