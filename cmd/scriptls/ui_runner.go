package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scriptls/internal/driver"
	"scriptls/internal/ui"
)

type checkOutcome struct {
	results []driver.CheckResult
	err     error
}

// runCheckWithUI runs CheckPaths in the background while a Bubble Tea
// program renders its progress events.
func runCheckWithUI(ctx context.Context, title string, paths []string, opts driver.CheckOptions) ([]driver.CheckResult, error) {
	files, err := driver.CollectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckPaths(ctx, paths, optsCopy)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
