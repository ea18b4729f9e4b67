package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dfalex/internal/driver"
	"dfalex/internal/source"
	"dfalex/internal/ui"
)

type tokenizeDirOutcome struct {
	fs      *source.FileSet
	results []driver.TokenizeDirResult
	err     error
}

// runTokenizeDirWithUI runs TokenizeDir while a progress view renders its
// events on stderr.
func runTokenizeDirWithUI(ctx context.Context, dir string, files []string, opts driver.Options) (*source.FileSet, []driver.TokenizeDirResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan tokenizeDirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.TokenizeDir(ctx, dir, optsCopy)
		outcomeCh <- tokenizeDirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// если UI закрылся раньше, не даём воркерам заблокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
