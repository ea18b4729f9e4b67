package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"dfalex/internal/source"
)

// ShortLine is one row of the short format.
type ShortLine struct {
	Severity string
	Code     string
	Path     string
	Pos      source.Pos
	Message  string
}

func (l ShortLine) String() string {
	return fmt.Sprintf("%s %s %s:%s %s", l.Severity, l.Code, l.Path, l.Pos, l.Message)
}

// FormatShort renders one line per diagnostic (and per note when
// includeNotes), sorted by path and position, paths relative to the file
// set base. Diagnostics whose file is unknown are skipped.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []ShortLine
	for i := range diags {
		d := &diags[i]
		if path, ok := shortPath(fs, d.Primary.File); ok {
			lines = append(lines, ShortLine{d.Severity.Label(), d.Code.ID(), path, d.Primary.Start, oneLine(d.Message)})
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if path, ok := shortPath(fs, n.Span.File); ok {
				lines = append(lines, ShortLine{"note", d.Code.ID(), path, n.Span.Start, oneLine(n.Msg)})
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b ShortLine) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Col, b.Pos.Col),
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})

	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = l.String()
	}
	return strings.Join(rows, "\n")
}

func shortPath(fs *source.FileSet, id source.FileID) (string, bool) {
	f := fs.Get(id)
	if f == nil {
		return "", false
	}
	p := filepath.ToSlash(f.FormatPath(source.PathRelative, fs.BaseDir()))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p, true
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(msg))
}
