package diagfmt

import "dfalex/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) style() source.PathStyle {
	switch m {
	case PathModeAbsolute:
		return source.PathAbsolute
	case PathModeRelative:
		return source.PathRelative
	case PathModeBasename:
		return source.PathBasename
	default:
		return source.PathAuto
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // сколько строк до ошибки показать
	PathMode  PathMode
	Width     uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}

// TokenOpts configures token listings.
type TokenOpts struct {
	Color    bool
	PathMode PathMode
}
