package source

import (
	"fmt"
	"sync"
)

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags

	bufOnce sync.Once
	buf     *Buffer
}

// Buffer returns the character buffer the lexer cursor walks over.
func (f *File) Buffer() *Buffer {
	f.bufOnce.Do(func() { f.buf = NewBuffer(f.Content) })
	return f.buf
}

// Pos is a human-readable position in a source file.
type Pos struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool {
	return p.Line > 0 && p.Col > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
