package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // только точки-проблемы: ошибочные токены, сбои кеша
	LevelPhase        // + driver and pass spans
	LevelDetail       // + per-file spans
	LevelDebug        // everything
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names above in any case.
func ParseLevel(s string) (Level, error) {
	i := slices.Index(levelNames, strings.ToLower(s))
	if i < 0 {
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
	}
	return Level(i), nil
}

// Allows decides whether ev is recorded at level l. Points are problems,
// so every level above off keeps them.
func (l Level) Allows(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	if ev.Kind == KindPoint {
		return true
	}
	switch l {
	case LevelPhase:
		return ev.Scope <= ScopePass
	case LevelDetail:
		return ev.Scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1
	ScopePass         // table load, directory run
	ScopeFile
	ScopeToken
)

var scopeNames = []string{"", "driver", "pass", "file", "token"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && s != 0 {
		return scopeNames[s]
	}
	return "unknown"
}
