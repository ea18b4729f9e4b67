package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"dfalex/internal/automaton"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range []string{
		"",
		"x := 12;",
		"begin end",
		"ifx := \"str\" ; {c}",
		"\"open\nnext",
		"Abc a_1 :x !y 1.x }",
		"3.14 <= <> >= !=",
		"{ never closed",
		"abc",
	} {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.src файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".src" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addTableSeeds(f *testing.F) {
	f.Add(automaton.DefaultSource())
	f.Add([]byte("name = \"x\"\n[[edge]]\nfrom = 0\non = \"a-z\"\nto = 1\n[[final]]\nstate = 1\nkind = \"K\"\n"))
	f.Add([]byte("[[edge]]\nfrom = 0\notherwise = true\nto = 0\n"))
	f.Add([]byte("invalid_start = \"z-a\""))
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
