package cli

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// Ensure barProgress implements the interface.
var _ driven.ProgressReporter = (*barProgress)(nil)

// barProgress draws ingestion progress on a terminal.
type barProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newBarProgress(w io.Writer) *barProgress {
	return &barProgress{w: w}
}

func (p *barProgress) Start(total int) {
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("ingesting"),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (p *barProgress) Increment() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *barProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

// noProgress discards progress.
type noProgress struct{}

func (noProgress) Start(int)  {}
func (noProgress) Increment() {}
func (noProgress) Finish()    {}

// progressEnabled reports whether stderr is a terminal.
func progressEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// newProgress returns a bar on a terminal and a no-op otherwise.
func newProgress(disabled bool) driven.ProgressReporter {
	if disabled || !progressEnabled() {
		return noProgress{}
	}
	return newBarProgress(os.Stderr)
}
