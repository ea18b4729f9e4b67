package trace

import (
	"fmt"
	"io"
	"strings"
)

// Mode selects where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // kept in memory, dumped at exit
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	}
	return ModeStream, fmt.Errorf("invalid trace mode: %q (expected: stream|ring)", s)
}

type Config struct {
	Level    Level
	Mode     Mode
	Format   Format
	Output   io.Writer // stream mode; takes precedence over Path
	Path     string    // "-" is stderr
	RingSize int
}

// New builds the tracer described by cfg; LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	switch cfg.Mode {
	case ModeRing:
		return NewRing(cfg.RingSize, cfg.Level), nil
	case ModeStream, 0:
		if cfg.Output != nil {
			return NewStream(cfg.Output, cfg.Level, formatFor(cfg.Format, cfg.Path)), nil
		}
		s, err := openStream(cfg.Path, cfg.Level, cfg.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown trace mode: %v", cfg.Mode)
}
