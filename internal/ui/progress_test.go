package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"dfalex/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("proj", []string{"proj/a.src", "proj/sub/b.src"}, events).(*progressModel)

	m.Update(eventMsg{File: "proj/a.src", Status: driver.StatusWorking})
	m.Update(eventMsg{File: "proj/sub/b.src", Status: driver.StatusDone, Tokens: 7, Elapsed: time.Millisecond})
	m.Update(eventMsg{File: "unknown.src", Status: driver.StatusError})

	if m.rows[0].status != driver.StatusWorking || m.rows[1].status != driver.StatusDone {
		t.Fatalf("rows = %+v", m.rows)
	}
	if m.rows[1].name != "sub/b.src" {
		t.Fatalf("row name = %q", m.rows[1].name)
	}
	view := m.View()
	for _, want := range []string{"tokenize proj  1/2 files  7 tokens", "7 tok", "sub/b.src"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m.Update(eventMsg{File: "proj/a.src", Status: driver.StatusError, Err: errors.New("permission denied")})
	view = m.View()
	if !strings.Contains(view, "1 with errors") || !strings.Contains(view, "permission denied") {
		t.Fatalf("view:\n%s", view)
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("doneMsg should quit")
	}
	if !strings.Contains(m.View(), "done tokenize proj") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestVisibleRowsPrefersActiveFiles(t *testing.T) {
	files := make([]string, maxRows+5)
	for i := range files {
		files[i] = fmt.Sprintf("d/f%02d.src", i)
	}
	m := NewProgressModel("d", files, nil).(*progressModel)
	last := files[len(files)-1]
	m.Update(eventMsg{File: last, Status: driver.StatusWorking})

	rows := m.visibleRows()
	if len(rows) != maxRows || rows[0] != len(files)-1 {
		t.Fatalf("visible rows = %v", rows)
	}
	if !strings.Contains(m.View(), "… 5 more") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a-very-long-name.src", 10, "a-very-..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
