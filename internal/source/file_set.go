package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns every source file of one run. A path may be added several
// times; each addition gets its own FileID and older versions stay readable.
// A FileSet is safe for concurrent use.
type FileSet struct {
	mu       sync.RWMutex
	files    []*File
	versions map[string][]FileID // path -> ids, oldest first
	baseDir  string
}

// NewFileSet creates an empty FileSet resolving relative paths against cwd.
func NewFileSet() *FileSet {
	return &FileSet{versions: make(map[string][]FileID)}
}

// NewFileSetWithBase creates an empty FileSet rooted at baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the directory paths are reported against; cwd when unset.
func (fs *FileSet) BaseDir() string {
	fs.mu.RLock()
	dir := fs.baseDir
	fs.mu.RUnlock()
	if dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// SetBaseDir меняет базовую директорию.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.mu.Lock()
	fs.baseDir = dir
	fs.mu.Unlock()
}

// Len returns the number of stored file versions.
func (fs *FileSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files)
}

// Add stores already normalized content under path and returns a fresh id.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	key := normalizePath(path)
	f := &File{
		Path:    key,
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f.ID = FileID(n)
	fs.files = append(fs.files, f)
	fs.versions[key] = append(fs.versions[key], f.ID)
	return f.ID
}

// Load reads path from disk, normalizes it and adds it.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(raw)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content (stdin, tests) marked FileVirtual.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file with the given id or nil.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// GetLatest returns the newest id stored under path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	ids := fs.Versions(path)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[len(ids)-1], true
}

// Versions returns every id stored under path, oldest first.
func (fs *FileSet) Versions(path string) []FileID {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	ids := fs.versions[normalizePath(path)]
	return append([]FileID(nil), ids...)
}

// Line returns line n (1-based) without its newline; "" when out of range.
func (f *File) Line(n uint32) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(string(f.Buffer().Line(int(n)-1)), "\n")
}

// PathStyle selects how FormatPath renders a file path.
type PathStyle uint8

const (
	// PathAuto keeps short or relative paths and shortens long absolute ones.
	PathAuto PathStyle = iota
	PathAbsolute
	PathRelative
	PathBasename
)

// длиннее этого абсолютный путь в режиме auto сводится к имени файла
const autoPathLimit = 40

// FormatPath renders the path of f in the given style. Relative paths are
// computed against baseDir, or cwd when baseDir is empty.
func (f *File) FormatPath(style PathStyle, baseDir string) string {
	p := f.Path
	switch style {
	case PathAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			p = normalizePath(abs)
		}
	case PathRelative:
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(p, baseDir); err == nil {
			p = rel
		}
	case PathBasename:
		p = filepath.Base(p)
	case PathAuto:
		if filepath.IsAbs(p) && len(p) >= autoPathLimit {
			p = filepath.Base(p)
		}
	}
	return p
}
