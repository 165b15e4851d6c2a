package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"gridpull/internal/acquire"
)

// progressReporter drives a progress bar over terminal outcomes. On
// non-interactive output it stays silent; the structured log already tells
// the story there.
type progressReporter struct {
	bar *progressbar.ProgressBar
}

func newProgressReporter(out io.Writer, total int) *progressReporter {
	if !stdoutIsTerminal() || total <= 0 {
		return &progressReporter{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("acquiring"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &progressReporter{bar: bar}
}

func (p *progressReporter) observe(acquire.TaskOutcome) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *progressReporter) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
