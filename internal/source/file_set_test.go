package source

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	// Добавляем файл первый раз
	id1 := fs.Add("test.src", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.src")
	if !exists || latestID != id1 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latestID, exists, id1)
	}

	// Добавляем тот же файл с новым содержимым
	id2 := fs.Add("test.src", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("test.src")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("first version content = %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "hello universe" {
		t.Errorf("second version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
	if fs.Get(99) != nil {
		t.Errorf("Get out of range should return nil")
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.src")
	content := []byte("\xEF\xBB\xBFa := 1;\r\nb := 2;\r\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a := 1;\nb := 2;\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if f.Flags&FileVirtual != 0 {
		t.Fatalf("loaded file must not be virtual")
	}
}

func TestFileSetLoadMissing(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.src")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("lines.src", []byte("first\nsecond\nthird")))

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for n, want := range cases {
		if got := f.Line(n); got != want {
			t.Errorf("Line(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatPathBasename(t *testing.T) {
	f := &File{Path: "some/dir/prog.src"}
	if got := f.FormatPath(PathBasename, ""); got != "prog.src" {
		t.Fatalf("basename = %q", got)
	}
	if got := f.FormatPath(PathAuto, ""); got != "some/dir/prog.src" {
		t.Fatalf("auto = %q", got)
	}
}

func TestFormatPathRelative(t *testing.T) {
	f := &File{Path: "/work/proj/src/a.src"}
	if got := f.FormatPath(PathRelative, "/work/proj"); got != "src/a.src" {
		t.Fatalf("relative = %q", got)
	}
	if got := f.FormatPath(PathRelative, "/elsewhere"); got != "/work/proj/src/a.src" {
		t.Fatalf("outside base = %q", got)
	}
	long := &File{Path: "/a/very/long/absolute/path/that/exceeds/the/limit/prog.src"}
	if got := long.FormatPath(PathAuto, ""); got != "prog.src" {
		t.Fatalf("auto long = %q", got)
	}
}

func TestFileSetVersionsAndConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fs.AddVirtual("./dup.src", []byte("x"))
		}()
	}
	wg.Wait()

	ids := fs.Versions("dup.src")
	if len(ids) != 8 || fs.Len() != 8 {
		t.Fatalf("versions = %v, len = %d", ids, fs.Len())
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("versions not ordered: %v", ids)
		}
	}
	if latest, ok := fs.GetLatest("dup.src"); !ok || latest != ids[len(ids)-1] {
		t.Fatalf("GetLatest = %d, %v", latest, ok)
	}
	if _, ok := fs.GetLatest("missing.src"); ok {
		t.Fatal("GetLatest on unknown path must fail")
	}
}
