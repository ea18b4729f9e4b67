package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Event is one trace record. Seq is assigned when the event is recorded.
type Event struct {
	Seq    uint64
	Time   time.Time
	Kind   Kind
	Scope  Scope
	Span   uint64 // 0 for points
	Parent uint64
	Name   string
	Detail string
	Extra  map[string]string
}

// Format selects the encoding of recorded events.
type Format uint8

const (
	FormatAuto Format = iota // by output file extension
	FormatText
	FormatNDJSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// formatFor resolves FormatAuto: *.ndjson and *.jsonl get NDJSON.
func formatFor(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// Append encodes ev as one line in format f.
func (ev *Event) Append(b []byte, f Format) []byte {
	if f == FormatNDJSON {
		return ev.appendJSON(b)
	}
	return ev.appendText(b)
}

type jsonEvent struct {
	Seq    uint64            `json:"seq"`
	Time   string            `json:"time"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}

func (ev *Event) appendJSON(b []byte) []byte {
	data, err := json.Marshal(jsonEvent{
		Seq:    ev.Seq,
		Time:   ev.Time.Format(time.RFC3339Nano),
		Kind:   ev.Kind.String(),
		Scope:  ev.Scope.String(),
		Span:   ev.Span,
		Parent: ev.Parent,
		Name:   ev.Name,
		Detail: ev.Detail,
		Extra:  ev.Extra,
	})
	if err != nil {
		// map[string]string и строки всегда сериализуются
		panic(err)
	}
	return append(append(b, data...), '\n')
}

// appendText: "[seq] > scope name (detail) {k=v}", nested events indented.
func (ev *Event) appendText(b []byte) []byte {
	b = fmt.Appendf(b, "[%6d] ", ev.Seq)
	if ev.Parent != 0 {
		b = append(b, "  "...)
	}
	switch ev.Kind {
	case KindSpanBegin:
		b = append(b, "> "...)
	case KindSpanEnd:
		b = append(b, "< "...)
	default:
		b = append(b, "* "...)
	}
	b = append(b, ev.Scope.String()...)
	b = append(b, ' ')
	b = append(b, ev.Name...)
	if ev.Detail != "" {
		b = fmt.Appendf(b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		b = append(b, " {"...)
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				b = append(b, ", "...)
			}
			b = fmt.Appendf(b, "%s=%s", k, ev.Extra[k])
		}
		b = append(b, '}')
	}
	return append(b, '\n')
}
