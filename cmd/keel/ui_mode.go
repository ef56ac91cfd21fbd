package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"keel/internal/driver"
	"keel/internal/source"
	"keel/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout) && isTerminal(os.Stderr)
	}
}

type lowerDirOutcome struct {
	fs      *source.FileSet
	results []*driver.FileResult
	err     error
}

// lowerDirWithUI runs LowerDir on a goroutine and shows its progress until
// every file is finished.
func lowerDirWithUI(ctx context.Context, dir string, opts driver.Options) (*source.FileSet, []*driver.FileResult, error) {
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerDirOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.LowerDir(ctx, dir, opts)
		outcomeCh <- lowerDirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	normalized := make([]string, len(files))
	for i, f := range files {
		normalized[i] = source.NormalizePath(f)
	}
	program := tea.NewProgram(ui.NewProgressModel("lowering", normalized, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// drain so the worker never blocks on a quit UI
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
