package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pyrewrite/internal/driver"
	"pyrewrite/internal/ui"
)

type outcome[T any] struct {
	result T
	err    error
}

// runWithUI runs fn in the background, feeding its events to the progress
// model until fn returns.
func runWithUI[T any](ctx context.Context, title string, files []string, fn func(context.Context, driver.ProgressSink) (T, error)) (T, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan outcome[T], 1)

	go func() {
		res, err := fn(ctx, driver.ChannelSink{Ch: events})
		outcomeCh <- outcome[T]{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// drain so the driver never blocks on a UI that has quit early
	for range events {
	}
	out := <-outcomeCh
	if uiErr != nil && out.err == nil && ctx.Err() == nil {
		return out.result, uiErr
	}
	return out.result, out.err
}

// runMaybeWithUI picks between runWithUI and a plain call.
func runMaybeWithUI[T any](ctx context.Context, g globalFlags, title string, paths []string, fn func(context.Context, driver.ProgressSink) (T, error)) (T, error) {
	if g.quiet || g.ui == uiModeOff {
		return fn(ctx, nil)
	}
	files, err := driver.Files(ctx, paths)
	if err != nil || !shouldUseTUI(g.ui, len(files)) {
		return fn(ctx, nil)
	}
	return runWithUI(ctx, title, files, fn)
}
