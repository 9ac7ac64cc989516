// Package progress renders parse and enrichment progress on stderr. It is
// only used on the CLI path; the TUI has its own spinner.
package progress

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Bar wraps a progress bar that stays silent on non-TTY stderr so piped
// output is never polluted
type Bar struct {
	bar   *progressbar.ProgressBar
	quiet bool
}

// New creates a progress bar over count steps with the given label
func New(count int, label string) *Bar {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return &Bar{quiet: true}
	}
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(color.CyanString(label)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Bar{bar: bar}
}

// Step advances the bar and updates its annotation
func (b *Bar) Step(current, total int, item string) {
	if b.quiet || b.bar == nil {
		return
	}
	if item != "" && item != "complete" {
		b.bar.Describe(color.CyanString("%s (%d/%d)", item, current+1, total))
	}
	_ = b.bar.Set(current)
}

// Finish completes the bar
func (b *Bar) Finish() {
	if b.quiet || b.bar == nil {
		return
	}
	_ = b.bar.Finish()
}

// Errorf prints a red error notice to stderr
func Errorf(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, format+"\n", args...)
}

// Noticef prints a dim informational notice to stderr
func Noticef(format string, args ...interface{}) {
	color.New(color.Faint).Fprintf(os.Stderr, format+"\n", args...)
}
