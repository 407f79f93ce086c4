// Package section defines the contract between data collectors and the
// runner that prints them, and the runner itself.
package section

import (
	"context"

	"github.com/tw93/motd/internal/render"
)

// Renderable is collected data that knows how to turn itself into text.
// An empty string means there is nothing to show and the section is
// suppressed.
type Renderable interface {
	Render(layout render.Layout) string
}

// Collector gathers one section's data. Failures are returned as errors
// and never affect other sections.
type Collector interface {
	Collect(ctx context.Context) (Renderable, error)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(ctx context.Context) (Renderable, error)

// Collect calls f(ctx).
func (f CollectorFunc) Collect(ctx context.Context) (Renderable, error) {
	return f(ctx)
}

// Text is a Renderable that ignores the layout.
type Text string

// Render returns t unchanged.
func (t Text) Render(render.Layout) string {
	return string(t)
}

// Section is one titled entry of the dashboard.
type Section struct {
	Title     string
	Collector Collector
}

// Result is the output of one collector run: rendered text, possibly
// empty, or an error.
type Result struct {
	Text string
	Err  error
}

// State tracks a section through one run.
type State int

const (
	Idle State = iota
	Dispatched
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatched:
		return "dispatched"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports what happened to one section.
type Outcome struct {
	Title string
	State State
	// Delayed is set when the section was still running when its turn to
	// print came, so the loading indicator was shown.
	Delayed bool
	Err     error
}
