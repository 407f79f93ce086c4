package section

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/tw93/motd/internal/errors"
	"github.com/tw93/motd/internal/logger"
	"github.com/tw93/motd/internal/render"
)

// LoadingMessage is shown on the status stream while waiting on a section.
const LoadingMessage = "Loading…"

// loadingClear blanks the loading message and returns the cursor.
var loadingClear = "\r" + strings.Repeat(" ", lipgloss.Width(LoadingMessage)) + "\r"

// Runner collects sections concurrently and prints them in request order.
type Runner struct {
	Layout     render.Layout
	ShowTitles bool
	Stdout     io.Writer
	// Stderr receives the loading indicator and failure lines.
	Stderr io.Writer
	Log    logger.Logger
}

type job struct {
	section Section
	done    chan struct{}
	result  Result
}

// Run dispatches every section at once, then walks them in the given order,
// waiting on each in turn. The returned error only reports a failed write
// to Stdout; section failures are reported inline and in the outcomes.
func (r *Runner) Run(ctx context.Context, sections []Section) ([]Outcome, error) {
	log := r.Log
	if log == nil {
		log = logger.Noop()
	}

	outcomes := make([]Outcome, len(sections))
	jobs := make([]*job, len(sections))

	var g errgroup.Group
	for i, s := range sections {
		j := &job{section: s, done: make(chan struct{})}
		jobs[i] = j
		outcomes[i] = Outcome{Title: s.Title, State: Dispatched}

		g.Go(func() error {
			defer close(j.done)
			start := time.Now()
			j.result = r.collect(ctx, s)
			log.Debug("section %q collected in %s", s.Title, time.Since(start).Round(time.Microsecond))
			return nil
		})
	}

	failStyle := lipgloss.NewRenderer(r.Stderr).NewStyle().Foreground(lipgloss.Color("1"))
	printed := false
	var writeErr error

	for i, j := range jobs {
		delayed := false
		select {
		case <-j.done:
		default:
			delayed = true
			fmt.Fprint(r.Stderr, LoadingMessage)
		}
		<-j.done
		if delayed {
			fmt.Fprint(r.Stderr, loadingClear)
		}
		outcomes[i].Delayed = delayed

		res := j.result
		if res.Err != nil {
			outcomes[i].State = Failed
			outcomes[i].Err = res.Err
			fmt.Fprintln(r.Stderr, failStyle.Render(
				fmt.Sprintf("Failed to get data for '%s' section: %s", j.section.Title, errors.Summary(res.Err))))
			continue
		}

		outcomes[i].State = Completed
		if res.Text == "" || writeErr != nil {
			continue
		}

		writeErr = r.print(j.section.Title, res.Text, printed)
		printed = true
	}

	// Every job has closed done by now; Wait only reaps the goroutines.
	_ = g.Wait()
	return outcomes, writeErr
}

// collect runs one collector and renders its data. Panics in either step
// become a failed result.
func (r *Runner) collect(ctx context.Context, s Section) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: errors.New(errors.ErrCollect, fmt.Sprintf("collector panicked: %v", p), "")}
		}
	}()

	data, err := s.Collector.Collect(ctx)
	if err != nil {
		return Result{Err: err}
	}
	if data == nil {
		return Result{}
	}
	return Result{Text: data.Render(r.Layout)}
}

func (r *Runner) print(title, text string, printedBefore bool) error {
	var b strings.Builder
	if r.ShowTitles {
		b.WriteString(render.Title(title, r.Layout.Columns))
		b.WriteString("\n")
	} else if printedBefore {
		b.WriteString("\n")
	}
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	_, err := io.WriteString(r.Stdout, b.String())
	return err
}
