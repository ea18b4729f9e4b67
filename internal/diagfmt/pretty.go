package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dfalex/internal/diag"
	"dfalex/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		note:   mk(color.FgCyan),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(f, fs, d.Primary, opts.PathMode),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		if f != nil {
			snippet(w, f, d.Primary, opts, pal)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(nf, fs, n.Span, opts.PathMode), n.Msg)
		}
	}
}

func location(f *source.File, fs *source.FileSet, sp source.Span, mode PathMode) string {
	if f == nil {
		return fmt.Sprintf("<unknown>:%s", sp.Start)
	}
	if !sp.Start.IsValid() {
		return f.FormatPath(mode.style(), fs.BaseDir())
	}
	return fmt.Sprintf("%s:%s", f.FormatPath(mode.style(), fs.BaseDir()), sp.Start)
}

// snippet prints the context lines and the caret line under the span.
func snippet(w io.Writer, f *source.File, sp source.Span, opts PrettyOpts, pal palette) {
	if !sp.Start.IsValid() {
		return
	}
	line := sp.Start.Line
	first := line
	if opts.Context > 0 {
		ctx := uint32(opts.Context)
		if ctx >= line {
			first = 1
		} else {
			first = line - ctx
		}
	}
	numWidth := len(fmt.Sprint(line))

	for n := first; n <= line; n++ {
		text := clip(expandTabs(f.Line(n)), opts.Width)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", numWidth, n), text)
	}

	src := []rune(f.Line(line))
	start := min(int(sp.Start.Col)-1, len(src))
	end := min(start+int(sp.Len), len(src))
	pad := runewidth.StringWidth(expandTabs(string(src[:start])))
	width := max(runewidth.StringWidth(expandTabs(string(src[start:end]))), 1)
	if opts.Width > 0 && pad+width > int(opts.Width) {
		width = max(int(opts.Width)-pad, 1)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", numWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width uint8) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
