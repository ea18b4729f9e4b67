package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"dfalex/internal/driver"
)

// maxRows bounds the file list; active files are shown first.
const maxRows = 12

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	glyphs     = map[driver.Status]string{
		driver.StatusQueued: dimStyle.Render("·"),
		driver.StatusDone:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓"),
		driver.StatusError:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("✗"),
	}
)

type fileRow struct {
	name    string
	status  driver.Status
	tokens  int
	elapsed time.Duration
	err     error
}

type progressModel struct {
	dir     string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel shows the tokenization of files (paths as ListFiles
// returns them) under dir. The model quits when events is closed.
func NewProgressModel(dir string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &progressModel{
		dir:     dir,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, path := range files {
		name := path
		if rel, err := filepath.Rel(dir, path); err == nil {
			name = rel
		}
		m.rows[i] = fileRow{name: name, status: driver.StatusQueued}
		m.byPath[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// next waits for one event from the driver.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	row.status = ev.Status
	row.tokens = max(row.tokens, ev.Tokens)
	row.elapsed = ev.Elapsed
	row.err = ev.Err
	return m.bar.SetPercent(float64(m.finished()) / float64(len(m.rows)))
}

func (m *progressModel) finished() int {
	n := 0
	for _, r := range m.rows {
		if r.status == driver.StatusDone || r.status == driver.StatusError {
			n++
		}
	}
	return n
}

func (m *progressModel) totals() (tokens, failed int) {
	for _, r := range m.rows {
		tokens += r.tokens
		if r.status == driver.StatusError {
			failed++
		}
	}
	return tokens, failed
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	tokens, failed := m.totals()
	lead := m.spinner.View()
	if m.done {
		lead = "done"
	}
	header := fmt.Sprintf("%s tokenize %s  %d/%d files  %d tokens", lead, m.dir, m.finished(), len(m.rows), tokens)
	if failed > 0 {
		header += fmt.Sprintf("  %d with errors", failed)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	shown := m.visibleRows()
	for _, i := range shown {
		b.WriteString(m.renderRow(m.rows[i], nameWidth))
		b.WriteByte('\n')
	}
	if hidden := len(m.rows) - len(shown); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", hidden)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// visibleRows: файлы в работе, затем ошибки, затем остальные по порядку.
func (m *progressModel) visibleRows() []int {
	order := make([]int, 0, maxRows)
	for _, want := range []driver.Status{driver.StatusWorking, driver.StatusError, driver.StatusDone, driver.StatusQueued} {
		for i, r := range m.rows {
			if len(order) == maxRows {
				return order
			}
			if r.status == want {
				order = append(order, i)
			}
		}
	}
	return order
}

func (m *progressModel) renderRow(r fileRow, nameWidth int) string {
	glyph := glyphs[r.status]
	if r.status == driver.StatusWorking {
		glyph = m.spinner.View()
	}
	line := fmt.Sprintf("  %s %s", glyph, truncate(r.name, nameWidth))
	switch {
	case r.err != nil:
		line += dimStyle.Render("  " + r.err.Error())
	case r.tokens > 0:
		line += dimStyle.Render(fmt.Sprintf("  %d tok %s", r.tokens, r.elapsed.Round(time.Microsecond)))
	}
	return line
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
